package handlers

import (
	"errors"
	"net/http"

	"figma-insights-api/internal/models"
	"figma-insights-api/internal/services"
)

// Client facing error messages
const (
	MsgMissingFields    = "Missing imageBase64 or prompt"
	MsgNoResponse       = "No response from Gemini"
	MsgMissingAPIKey    = "Gemini API key is not configured"
	MsgBodyTooLarge     = "Request body too large"
	MsgInternalError    = "Internal Server Error"
	msgMethodNotAllowed = "Method %s Not Allowed"
)

var errBodyTooLarge = errors.New("request body too large")

// mapError converts a service error into a status code and error response
func mapError(err error) (int, *models.AnalysisResponse) {
	if upstreamErr, ok := services.AsUpstreamError(err); ok {
		status := upstreamErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		return status, models.ErrorResult(upstreamErr.Detail)
	}

	switch {
	case errors.Is(err, services.ErrInvalidRequest):
		return http.StatusBadRequest, models.ErrorResult(MsgMissingFields)
	case errors.Is(err, services.ErrNoCandidates):
		return http.StatusInternalServerError, models.ErrorResult(MsgNoResponse)
	case errors.Is(err, services.ErrMissingAPIKey):
		return http.StatusInternalServerError, models.ErrorResult(MsgMissingAPIKey)
	case errors.Is(err, errBodyTooLarge):
		return http.StatusRequestEntityTooLarge, models.ErrorResult(MsgBodyTooLarge)
	}

	msg := err.Error()
	if msg == "" {
		msg = MsgInternalError
	}
	return http.StatusInternalServerError, models.ErrorResult(msg)
}
