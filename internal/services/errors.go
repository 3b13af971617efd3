package services

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest is returned when the request fails validation
	ErrInvalidRequest = errors.New("invalid analysis request")

	// ErrMissingAPIKey is returned when no provider API key is configured
	ErrMissingAPIKey = errors.New("gemini API key is not configured")

	// ErrNoCandidates is returned when the provider reply holds no usable part
	ErrNoCandidates = errors.New("no response from Gemini")
)

// UpstreamError is a non-2xx reply from the provider.
// Detail is the decoded "error" object of the reply body, or the raw body text.
type UpstreamError struct {
	StatusCode int
	Detail     any
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini API error (status %d): %v", e.StatusCode, e.Detail)
}

// AsUpstreamError returns the UpstreamError in err's chain, if any
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}
