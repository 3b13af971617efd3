package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"figma-insights-api/internal/models"
)

// Analyzer sends an analysis request to the proxy endpoint
type Analyzer interface {
	Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error)
}

// ProxyClient calls the analyze endpoint over HTTP
type ProxyClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewProxyClient creates a client for the analyze endpoint at endpoint.
// A nil httpClient uses http.DefaultClient.
func NewProxyClient(endpoint string, httpClient *http.Client) *ProxyClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ProxyClient{endpoint: endpoint, httpClient: httpClient}
}

// Analyze issues one POST and decodes the reply. Error replies decode to an
// error response rather than a Go error; transport and parse failures return an error.
func (c *ProxyClient) Analyze(ctx context.Context, req *models.AnalysisRequest) (*models.AnalysisResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach analyze endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result models.AnalysisResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	return &result, nil
}
