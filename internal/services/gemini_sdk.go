package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"figma-insights-api/internal/encoding"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// SDKGenerator calls generateContent through the google.golang.org/genai client
type SDKGenerator struct {
	config GeneratorConfig
	client *genai.Client
}

// NewSDKGenerator creates an SDK backed generator. Without an API key no client is
// built and every Generate call fails with ErrMissingAPIKey.
func NewSDKGenerator(ctx context.Context, config GeneratorConfig, httpClient *http.Client) (*SDKGenerator, error) {
	g := &SDKGenerator{config: config}
	if config.APIKey == "" {
		return g, nil
	}

	clientConfig := &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if base := strings.TrimRight(config.BaseURL, "/"); base != "" && base != defaultGeminiBaseURL {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: base + "/"}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	g.client = client

	return g, nil
}

// Generate implements Generator
func (g *SDKGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if g.client == nil {
		return nil, ErrMissingAPIKey
	}

	var parts []*genai.Part
	if req.ImageBase64 != "" {
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("%w: image is not valid base64", ErrInvalidRequest)
		}
		parts = append(parts, genai.NewPartFromBytes(data, req.ImageMIMEType))
	}
	parts = append(parts, genai.NewPartFromText(req.Prompt))

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, []*genai.Content{
		genai.NewContentFromParts(parts, "user"),
	}, nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, &UpstreamError{
				StatusCode: apiErr.Code,
				Detail: map[string]any{
					"code":    apiErr.Code,
					"message": apiErr.Message,
					"status":  apiErr.Status,
				},
			}
		}
		return nil, fmt.Errorf("generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			return &GenerateResult{Text: part.Text}, nil
		}
		if part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &GenerateResult{
				ImageBase64:   encoding.Encode(part.InlineData.Data),
				ImageMIMEType: part.InlineData.MIMEType,
			}, nil
		}
	}

	return nil, ErrNoCandidates
}
