package lambda

import (
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/api/analyze",
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       `{"prompt":"hi"}`,
	}

	req, err := FromAPIGateway(event)
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/analyze", req.Path)
	assert.Equal(t, "application/json", req.Headers["Content-Type"])
	assert.Equal(t, `{"prompt":"hi"}`, string(req.Body))
}

func TestFromAPIGateway_Base64Body(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Path:            "/api/analyze",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"prompt":"hi"}`)),
		IsBase64Encoded: true,
	}

	req, err := FromAPIGateway(event)
	require.NoError(t, err)
	assert.Equal(t, `{"prompt":"hi"}`, string(req.Body))

	event.Body = "%%%"
	_, err = FromAPIGateway(event)
	assert.Error(t, err)
}

func TestToAPIGateway(t *testing.T) {
	resp := JSONResponse(http.StatusOK, []byte(`{"insights":"X"}`), map[string]string{
		"Access-Control-Allow-Origin": "*",
	})

	out := ToAPIGateway(resp)

	assert.Equal(t, http.StatusOK, out.StatusCode)
	assert.Equal(t, `{"insights":"X"}`, out.Body)
	assert.Equal(t, "application/json", out.Headers["Content-Type"])
	assert.Equal(t, "*", out.Headers["Access-Control-Allow-Origin"])
}

func TestNotFound(t *testing.T) {
	resp := NotFound(nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Not found"}`, string(resp.Body))
}
