package services

import (
	"context"

	"figma-insights-api/internal/models"
)

// AnalysisService forwards a design frame and prompt to the generative model
type AnalysisService interface {
	// Analyze validates the request, issues exactly one upstream call and maps
	// the first usable part of the reply into a response
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error)
}

// Generator issues a single generateContent call to the provider
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error)
}

// GenerateRequest is one user message made of an optional inline image and a text part
type GenerateRequest struct {
	ImageBase64   string
	ImageMIMEType string
	Prompt        string
}

// GenerateResult holds the first text or inline image part of the first candidate.
// Exactly one of Text and ImageBase64 is set.
type GenerateResult struct {
	Text          string
	ImageBase64   string
	ImageMIMEType string
}

// GeneratorConfig holds the settings shared by every Generator implementation
type GeneratorConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}
