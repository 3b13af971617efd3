package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/middleware"
	"figma-insights-api/internal/models"
	"figma-insights-api/internal/services"
	"figma-insights-api/pkg/lambda"
)

// AnalyzeHandler serves the analyze endpoint for both the gin server and Lambda
type AnalyzeHandler struct {
	analysisService services.AnalysisService
	maxBodyBytes    int64
}

// NewAnalyzeHandler creates a new analyze handler
func NewAnalyzeHandler(analysisService services.AnalysisService, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		analysisService: analysisService,
		maxBodyBytes:    maxBodyBytes,
	}
}

// Process handles one request independent of the transport. A nil response
// means the reply has no body.
func (h *AnalyzeHandler) Process(ctx context.Context, method string, body io.Reader) (int, *models.AnalysisResponse) {
	switch method {
	case http.MethodOptions:
		return http.StatusOK, nil
	case http.MethodPost:
	default:
		return http.StatusMethodNotAllowed, models.ErrorResult(fmt.Sprintf(msgMethodNotAllowed, method))
	}

	raw, err := h.readBody(body)
	if err != nil {
		return mapError(err)
	}

	var req models.AnalysisRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return http.StatusBadRequest, models.ErrorResult(MsgMissingFields)
	}

	resp, err := h.analysisService.Analyze(ctx, &req)
	if err != nil {
		return mapError(err)
	}

	return http.StatusOK, resp
}

// readBody buffers the whole body, failing with errBodyTooLarge past the limit
func (h *AnalyzeHandler) readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	if h.maxBodyBytes <= 0 {
		return io.ReadAll(body)
	}

	raw, err := io.ReadAll(io.LimitReader(body, h.maxBodyBytes+1))
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, errBodyTooLarge
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(raw)) > h.maxBodyBytes {
		return nil, errBodyTooLarge
	}

	return raw, nil
}

// @Summary Analyze a design frame
// @Description Forwards a PNG frame and a prompt to Gemini and returns the first text or image part of the reply
// @Tags analyze
// @Accept json
// @Produce json
// @Param request body models.AnalysisRequest true "Frame image and prompt"
// @Success 200 {object} map[string]string "insights or base64Image"
// @Failure 400 {object} map[string]string
// @Failure 405 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /analyze [post]
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	middleware.SetCORSHeaders(c.Writer.Header())

	status, resp := h.Process(c.Request.Context(), c.Request.Method, c.Request.Body)
	if status == http.StatusMethodNotAllowed {
		c.Header("Allow", middleware.AllowMethods)
	}

	if resp == nil {
		c.Status(status)
		return
	}

	if resp.Kind() == models.KindError {
		_ = c.Error(errors.New(resp.ErrorText()))
	}

	c.JSON(status, resp)
}

// HandleAnalyze is the Lambda entry for the analyze endpoint
func (h *AnalyzeHandler) HandleAnalyze(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
	headers := middleware.CORSHeaders()

	defer func() {
		if recovered := recover(); recovered != nil {
			logrus.WithFields(logrus.Fields{
				"method": req.Method,
				"path":   req.Path,
				"panic":  recovered,
			}).Error("Recovered from panic")

			body, _ := json.Marshal(models.ErrorResult(fmt.Sprint(recovered)))
			resp, err = lambda.JSONResponse(http.StatusInternalServerError, body, headers), nil
		}
	}()

	status, result := h.Process(ctx, req.Method, bytes.NewReader(req.Body))
	if status == http.StatusMethodNotAllowed {
		headers["Allow"] = middleware.AllowMethods
	}

	fields := logrus.Fields{
		"method":      req.Method,
		"path":        req.Path,
		"status_code": status,
	}
	if result != nil && result.Kind() == models.KindError {
		fields["error"] = result.ErrorText()
	}
	switch {
	case status >= 500:
		logrus.WithFields(fields).Error("Server error")
	case status >= 400:
		logrus.WithFields(fields).Warn("Client error")
	default:
		logrus.WithFields(fields).Info("Request completed")
	}

	if result == nil {
		return &lambda.Response{StatusCode: status, Headers: headers}, nil
	}

	body, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}

	return lambda.JSONResponse(status, body, headers), nil
}
