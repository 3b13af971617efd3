package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// AnalysisRequest is the payload the plugin posts to the analyze endpoint
type AnalysisRequest struct {
	ImageBase64 string `json:"imageBase64,omitempty" validate:"omitempty,base64"`
	Prompt      string `json:"prompt" validate:"required"`
}

// HasImage reports whether the request carries a frame image
func (r *AnalysisRequest) HasImage() bool {
	return r.ImageBase64 != ""
}

// ResultKind identifies which variant an AnalysisResponse holds
type ResultKind int

const (
	KindInsight ResultKind = iota + 1
	KindImage
	KindError
)

func (k ResultKind) String() string {
	switch k {
	case KindInsight:
		return "insight"
	case KindImage:
		return "image"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// AnalysisResponse is a tagged union of a text insight, a generated image or an error.
// Its JSON form always carries exactly one of "insights", "base64Image" or "error".
type AnalysisResponse struct {
	kind     ResultKind
	insights string
	image    string
	err      any
}

// ErrEmptyResponse is returned when a response payload holds none of the known keys
var ErrEmptyResponse = errors.New("response has no insights, base64Image or error")

// TextInsight builds a response holding model generated text
func TextInsight(text string) *AnalysisResponse {
	return &AnalysisResponse{kind: KindInsight, insights: text}
}

// GeneratedImage builds a response holding base64 encoded image data
func GeneratedImage(base64Data string) *AnalysisResponse {
	return &AnalysisResponse{kind: KindImage, image: base64Data}
}

// ErrorResult builds an error response. The value is either a message string
// or a structured error object relayed from the provider.
func ErrorResult(v any) *AnalysisResponse {
	return &AnalysisResponse{kind: KindError, err: v}
}

// Kind returns the active variant
func (r *AnalysisResponse) Kind() ResultKind {
	return r.kind
}

// Insights returns the text of a KindInsight response
func (r *AnalysisResponse) Insights() string {
	return r.insights
}

// Image returns the base64 data of a KindImage response
func (r *AnalysisResponse) Image() string {
	return r.image
}

// Err returns the raw error value of a KindError response
func (r *AnalysisResponse) Err() any {
	return r.err
}

// ErrorText renders the error value as text. Strings are returned as is,
// structured errors are serialised to JSON.
func (r *AnalysisResponse) ErrorText() string {
	switch v := r.err.(type) {
	case nil:
		return ""
	case string:
		return v
	case error:
		return v.Error()
	case json.RawMessage:
		return string(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(b)
	}
}

type analysisResponseJSON struct {
	Insights    *string         `json:"insights,omitempty"`
	Base64Image *string         `json:"base64Image,omitempty"`
	Error       json.RawMessage `json:"error,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (r *AnalysisResponse) MarshalJSON() ([]byte, error) {
	switch r.kind {
	case KindInsight:
		return json.Marshal(map[string]string{"insights": r.insights})
	case KindImage:
		return json.Marshal(map[string]string{"base64Image": r.image})
	case KindError:
		return json.Marshal(map[string]any{"error": r.err})
	default:
		return nil, fmt.Errorf("cannot marshal analysis response of kind %s", r.kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler. When several keys are present
// the error wins, then insights, then the image.
func (r *AnalysisResponse) UnmarshalJSON(data []byte) error {
	var raw analysisResponseJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch {
	case len(raw.Error) > 0 && string(raw.Error) != "null":
		var msg string
		if err := json.Unmarshal(raw.Error, &msg); err == nil {
			*r = AnalysisResponse{kind: KindError, err: msg}
			return nil
		}
		var obj any
		if err := json.Unmarshal(raw.Error, &obj); err != nil {
			return err
		}
		*r = AnalysisResponse{kind: KindError, err: obj}
	case raw.Insights != nil:
		*r = AnalysisResponse{kind: KindInsight, insights: *raw.Insights}
	case raw.Base64Image != nil:
		*r = AnalysisResponse{kind: KindImage, image: *raw.Base64Image}
	default:
		return ErrEmptyResponse
	}

	return nil
}
