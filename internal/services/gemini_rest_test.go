package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRESTGenerator(t *testing.T, handler http.HandlerFunc) *RESTGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewRESTGenerator(GeneratorConfig{
		APIKey:  "test-key",
		Model:   "gemini-1.5-pro",
		BaseURL: srv.URL,
	}, srv.Client())
}

func TestRESTGenerator_RequestShape(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	gen := newTestRESTGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := gen.Generate(context.Background(), &GenerateRequest{
		ImageBase64:   "iVBORw0KGgo=",
		ImageMIMEType: "image/png",
		Prompt:        "review this",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-1.5-pro:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)

	contents := gotBody["contents"].([]any)
	require.Len(t, contents, 1)
	content := contents[0].(map[string]any)
	assert.Equal(t, "user", content["role"])

	parts := content["parts"].([]any)
	require.Len(t, parts, 2)
	inline := parts[0].(map[string]any)["inline_data"].(map[string]any)
	assert.Equal(t, "image/png", inline["mime_type"])
	assert.Equal(t, "iVBORw0KGgo=", inline["data"])
	assert.Equal(t, "review this", parts[1].(map[string]any)["text"])
}

func TestRESTGenerator_TextOnlyRequest(t *testing.T) {
	var parts []any
	gen := newTestRESTGenerator(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		parts = body["contents"].([]any)[0].(map[string]any)["parts"].([]any)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	})

	_, err := gen.Generate(context.Background(), &GenerateRequest{Prompt: "hello"})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "hello", parts[0].(map[string]any)["text"])
}

func TestRESTGenerator_ResponseMapping(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantText  string
		wantImage string
		wantErr   error
		check     func(t *testing.T, err error)
	}{
		{
			name:     "first text part",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":"X"},{"text":"Y"}]}}]}`,
			wantText: "X",
		},
		{
			name:      "inline image part",
			status:    http.StatusOK,
			body:      `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png","data":"Zm9v"}}]}}]}`,
			wantImage: "Zm9v",
		},
		{
			name:     "empty text part is skipped",
			status:   http.StatusOK,
			body:     `{"candidates":[{"content":{"parts":[{"text":""},{"text":"after empty"}]}}]}`,
			wantText: "after empty",
		},
		{
			name:    "no candidates",
			status:  http.StatusOK,
			body:    `{"candidates":[]}`,
			wantErr: ErrNoCandidates,
		},
		{
			name:    "candidate without content",
			status:  http.StatusOK,
			body:    `{"candidates":[{"finishReason":"SAFETY"}]}`,
			wantErr: ErrNoCandidates,
		},
		{
			name:    "candidate without parts",
			status:  http.StatusOK,
			body:    `{"candidates":[{"content":{"parts":[]}}]}`,
			wantErr: ErrNoCandidates,
		},
		{
			name:   "rate limited",
			status: http.StatusTooManyRequests,
			body:   `{"error":{"message":"rate limited"}}`,
			check: func(t *testing.T, err error) {
				upstreamErr, ok := AsUpstreamError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
				assert.Equal(t, map[string]any{"message": "rate limited"}, upstreamErr.Detail)
			},
		},
		{
			name:   "error body without error key",
			status: http.StatusBadRequest,
			body:   `{"message":"bad"}`,
			check: func(t *testing.T, err error) {
				upstreamErr, ok := AsUpstreamError(err)
				require.True(t, ok)
				assert.Equal(t, map[string]any{"message": "bad"}, upstreamErr.Detail)
			},
		},
		{
			name:   "non json error body",
			status: http.StatusBadGateway,
			body:   "upstream connect error",
			check: func(t *testing.T, err error) {
				upstreamErr, ok := AsUpstreamError(err)
				require.True(t, ok)
				assert.Equal(t, http.StatusBadGateway, upstreamErr.StatusCode)
				assert.Equal(t, "upstream connect error", upstreamErr.Detail)
			},
		},
		{
			name:   "empty error body",
			status: http.StatusServiceUnavailable,
			check: func(t *testing.T, err error) {
				upstreamErr, ok := AsUpstreamError(err)
				require.True(t, ok)
				assert.Equal(t, "Service Unavailable", upstreamErr.Detail)
			},
		},
		{
			name:   "malformed success body",
			status: http.StatusOK,
			body:   `{"candidates":`,
			check: func(t *testing.T, err error) {
				require.Error(t, err)
				_, ok := AsUpstreamError(err)
				assert.False(t, ok)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := newTestRESTGenerator(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			result, err := gen.Generate(context.Background(), &GenerateRequest{Prompt: "p"})

			switch {
			case tt.check != nil:
				tt.check(t, err)
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantText, result.Text)
				assert.Equal(t, tt.wantImage, result.ImageBase64)
			}
		})
	}
}

func TestRESTGenerator_MissingAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	gen := NewRESTGenerator(GeneratorConfig{Model: "m", BaseURL: srv.URL}, nil)
	_, err := gen.Generate(context.Background(), &GenerateRequest{Prompt: "p"})

	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.False(t, called)
}

func TestRESTGenerator_NetworkErrorRedactsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	gen := NewRESTGenerator(GeneratorConfig{APIKey: "secret-key", Model: "m", BaseURL: baseURL}, nil)
	_, err := gen.Generate(context.Background(), &GenerateRequest{Prompt: "p"})

	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}
