package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// RESTGenerator calls the generateContent endpoint with a hand-built JSON body
type RESTGenerator struct {
	config GeneratorConfig
	client *http.Client
}

// NewRESTGenerator creates a REST generator. A nil client uses http.DefaultClient,
// so no timeout is applied beyond the transport defaults.
func NewRESTGenerator(config GeneratorConfig, client *http.Client) *RESTGenerator {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTGenerator{config: config, client: client}
}

type restRequest struct {
	Contents []restContent `json:"contents"`
}

type restContent struct {
	Role  string     `json:"role"`
	Parts []restPart `json:"parts"`
}

type restPart struct {
	InlineData *restBlob `json:"inline_data,omitempty"`
	Text       string    `json:"text,omitempty"`
}

type restBlob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type restResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text       string `json:"text"`
				InlineData *struct {
					MimeType string `json:"mimeType"`
					Data     string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Generate implements Generator
func (g *RESTGenerator) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResult, error) {
	if g.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	var parts []restPart
	if req.ImageBase64 != "" {
		parts = append(parts, restPart{InlineData: &restBlob{
			MimeType: req.ImageMIMEType,
			Data:     req.ImageBase64,
		}})
	}
	parts = append(parts, restPart{Text: req.Prompt})

	body, err := json.Marshal(restRequest{
		Contents: []restContent{{Role: "user", Parts: parts}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call Gemini API: %w", redactKey(err, g.config.APIKey))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read Gemini response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Detail:     upstreamDetail(resp.StatusCode, respBody),
		}
	}

	var decoded restResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode Gemini response: %w", err)
	}

	if len(decoded.Candidates) == 0 || decoded.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	for _, part := range decoded.Candidates[0].Content.Parts {
		if part.Text != "" {
			return &GenerateResult{Text: part.Text}, nil
		}
		if part.InlineData != nil && part.InlineData.Data != "" {
			return &GenerateResult{
				ImageBase64:   part.InlineData.Data,
				ImageMIMEType: part.InlineData.MimeType,
			}, nil
		}
	}

	return nil, ErrNoCandidates
}

func (g *RESTGenerator) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		strings.TrimRight(g.config.BaseURL, "/"),
		url.PathEscape(g.config.Model),
		url.QueryEscape(g.config.APIKey),
	)
}

// upstreamDetail extracts the "error" object of a provider error body.
// Bodies that are not JSON are relayed as text.
func upstreamDetail(status int, body []byte) any {
	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		text := strings.TrimSpace(string(body))
		if text == "" {
			return http.StatusText(status)
		}
		return text
	}
	if inner, ok := decoded["error"]; ok && inner != nil {
		return inner
	}
	return decoded
}

// redactKey strips the API key from transport errors, which embed the request URL
func redactKey(err error, key string) error {
	if key == "" {
		return err
	}
	msg := strings.ReplaceAll(err.Error(), url.QueryEscape(key), "REDACTED")
	msg = strings.ReplaceAll(msg, key, "REDACTED")
	if msg == err.Error() {
		return err
	}
	return errors.New(msg)
}
