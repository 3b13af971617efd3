package plugin

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/encoding"
	"figma-insights-api/internal/models"
)

const (
	// MsgSelectExactlyOneFrame is posted when the selection cannot be exported
	MsgSelectExactlyOneFrame = "Select exactly one FRAME."

	// ExportScale is the scale frames are exported at
	ExportScale = 1.0

	exportMIMEType = "image/png"
)

// Controller reacts to UI messages: it exports the selected frame and
// relays analysis requests to the proxy endpoint
type Controller struct {
	host     Host
	ui       UI
	analyzer Analyzer
	log      *logrus.Entry
}

// NewController creates a new plugin controller
func NewController(host Host, ui UI, analyzer Analyzer) *Controller {
	return &Controller{
		host:     host,
		ui:       ui,
		analyzer: analyzer,
		log:      logrus.WithField("component", "plugin"),
	}
}

// HandleMessage processes a single UI message. Outcomes are reported to the
// UI; the returned error is only set for message types the controller does not handle.
func (c *Controller) HandleMessage(ctx context.Context, msg models.PluginMessage) error {
	switch msg.Type {
	case models.MessageRequestImageData:
		c.exportSelection(ctx)
	case models.MessageSendToServer:
		c.sendToServer(ctx, msg)
	default:
		return fmt.Errorf("unsupported message type: %q", msg.Type)
	}
	return nil
}

// Run handles messages until the channel closes or ctx is done
func (c *Controller) Run(ctx context.Context, messages <-chan models.PluginMessage) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := c.HandleMessage(ctx, msg); err != nil {
				c.log.WithError(err).Warn("Ignoring message")
			}
		}
	}
}

func (c *Controller) exportSelection(ctx context.Context) {
	selection, err := c.host.Selection(ctx)
	if err != nil {
		c.fail("Failed to read selection", err.Error())
		return
	}

	if len(selection) != 1 || selection[0].Type != NodeTypeFrame {
		c.log.WithField("selected", len(selection)).Info("Selection is not a single frame")
		c.ui.PostMessage(models.AnalysisErrorMessage(MsgSelectExactlyOneFrame))
		return
	}

	frame := selection[0]
	png, err := c.host.ExportPNG(ctx, frame, ExportScale)
	if err != nil {
		c.fail("Failed to export frame", err.Error())
		return
	}

	c.log.WithFields(logrus.Fields{
		"node_id":   frame.ID,
		"node_name": frame.Name,
		"bytes":     len(png),
	}).Debug("Frame exported")

	c.ui.PostMessage(models.PluginMessage{
		Type:  models.MessageSendImageData,
		Image: encoding.DataURL(exportMIMEType, png),
	})
}

func (c *Controller) sendToServer(ctx context.Context, msg models.PluginMessage) {
	req := &models.AnalysisRequest{
		ImageBase64: encoding.StripDataURL(msg.Image),
		Prompt:      msg.Prompt,
	}

	resp, err := c.analyzer.Analyze(ctx, req)
	if err != nil {
		c.fail("Analysis request failed", err.Error())
		return
	}

	switch resp.Kind() {
	case models.KindError:
		c.fail("Analysis returned an error", resp.ErrorText())
	case models.KindImage:
		c.ui.PostMessage(models.PluginMessage{Type: models.MessageAnalysisResult, Base64Image: resp.Image()})
	default:
		c.ui.PostMessage(models.PluginMessage{Type: models.MessageAnalysisResult, Insights: resp.Insights()})
	}
}

func (c *Controller) fail(logMsg, reason string) {
	c.log.WithField("reason", reason).Warn(logMsg)
	c.ui.PostMessage(models.AnalysisErrorMessage(reason))
}
