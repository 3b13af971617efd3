package plugin

import (
	"context"
	"sync"

	"figma-insights-api/internal/models"
)

// NodeTypeFrame is the only node type that can be exported for analysis
const NodeTypeFrame = "FRAME"

// Node is a selectable element of the design document
type Node struct {
	ID   string
	Name string
	Type string
}

// Host is the design tool the controller runs inside
type Host interface {
	// Selection returns the nodes currently selected by the user
	Selection(ctx context.Context) ([]Node, error)

	// ExportPNG renders node as PNG at the given scale
	ExportPNG(ctx context.Context, node Node, scale float64) ([]byte, error)
}

// UI is the plugin's user interface surface
type UI interface {
	PostMessage(msg models.PluginMessage)
}

// UIFunc adapts a function to the UI interface
type UIFunc func(msg models.PluginMessage)

// PostMessage implements UI
func (f UIFunc) PostMessage(msg models.PluginMessage) {
	f(msg)
}

// RecordingUI keeps every posted message in order
type RecordingUI struct {
	mu       sync.Mutex
	messages []models.PluginMessage
}

// PostMessage implements UI
func (r *RecordingUI) PostMessage(msg models.PluginMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

// Messages returns a copy of the posted messages
func (r *RecordingUI) Messages() []models.PluginMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.PluginMessage(nil), r.messages...)
}

// Last returns the most recent message and whether there was one
func (r *RecordingUI) Last() (models.PluginMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return models.PluginMessage{}, false
	}
	return r.messages[len(r.messages)-1], true
}
