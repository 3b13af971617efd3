package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/models"
)

// imageMIMEType is the format frames are exported in by the plugin
const imageMIMEType = "image/png"

// analysisService implements AnalysisService
type analysisService struct {
	generator    Generator
	model        string
	promptSuffix string
}

// NewAnalysisService creates a new analysis service.
// promptSuffix is appended to the prompt whenever a frame image is attached.
func NewAnalysisService(generator Generator, model, promptSuffix string) AnalysisService {
	return &analysisService{
		generator:    generator,
		model:        model,
		promptSuffix: promptSuffix,
	}
}

// Analyze implements AnalysisService
func (s *analysisService) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidRequest)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	genReq := &GenerateRequest{Prompt: req.Prompt}
	if req.HasImage() {
		genReq.ImageBase64 = req.ImageBase64
		genReq.ImageMIMEType = imageMIMEType
		genReq.Prompt = req.Prompt + s.promptSuffix
	}

	fields := logrus.Fields{
		"model":     s.model,
		"has_image": req.HasImage(),
		"image_len": len(req.ImageBase64),
	}

	start := time.Now()
	result, err := s.generator.Generate(ctx, genReq)
	fields["latency_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		fields["error"] = err.Error()
		logrus.WithFields(fields).Warn("Gemini call failed")
		return nil, err
	}

	if result.ImageBase64 != "" {
		fields["result"] = models.KindImage.String()
		logrus.WithFields(fields).Info("Gemini call completed")
		return models.GeneratedImage(result.ImageBase64), nil
	}

	fields["result"] = models.KindInsight.String()
	logrus.WithFields(fields).Info("Gemini call completed")
	return models.TextInsight(result.Text), nil
}
