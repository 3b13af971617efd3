package models

// MessageType is the discriminator of messages exchanged between the plugin
// controller and its UI surface
type MessageType string

const (
	MessageRequestImageData MessageType = "request-image-data"
	MessageSendImageData    MessageType = "send-image-data"
	MessageSendToServer     MessageType = "send-to-server"
	MessageAnalysisResult   MessageType = "analysis-result"
	MessageAnalysisError    MessageType = "analysis-error"
)

// PluginMessage is a single message on the plugin UI bridge.
// Only the fields relevant to Type are populated.
type PluginMessage struct {
	Type        MessageType `json:"type"`
	Image       string      `json:"image,omitempty"`
	Prompt      string      `json:"prompt,omitempty"`
	Insights    string      `json:"insights,omitempty"`
	Base64Image string      `json:"base64Image,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// AnalysisErrorMessage builds an analysis-error message
func AnalysisErrorMessage(reason string) PluginMessage {
	return PluginMessage{Type: MessageAnalysisError, Error: reason}
}
