package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/adapters/storage"
	"figma-insights-api/internal/models"
	"figma-insights-api/internal/plugin"
)

const defaultPrompt = "Review this screen."

func main() {
	var (
		framesDir = flag.String("frames", storage.DefaultBasePath, "Directory holding exported PNG frames")
		selection = flag.String("select", "", "Comma separated frame keys to analyse; empty analyses the whole directory as one selection")
		prompt    = flag.String("prompt", defaultPrompt, "Prompt sent with each frame")
		endpoint  = flag.String("endpoint", "http://localhost:8081/api/analyze", "Analyze endpoint URL")
		timeout   = flag.Duration("timeout", 2*time.Minute, "HTTP client timeout")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	logger := logrus.New()
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	store, err := storage.NewFileStorage(&storage.StorageConfig{
		Type:     string(storage.StorageTypeLocal),
		BasePath: *framesDir,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to open frames directory")
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := plugin.NewProxyClient(*endpoint, &http.Client{Timeout: *timeout})
	host := plugin.NewFileHost(store)

	// Each selected key is its own selection; no keys selects the whole directory
	keys := splitKeys(*selection)
	runs := [][]string{nil}
	if len(keys) > 0 {
		runs = runs[:0]
		for _, key := range keys {
			runs = append(runs, []string{key})
		}
	}

	logger.WithFields(logrus.Fields{
		"frames":   *framesDir,
		"endpoint": *endpoint,
		"runs":     len(runs),
	}).Info("Starting frame analysis")

	failed := 0
	for _, run := range runs {
		host.Select(run...)
		if err := analyzeSelection(ctx, logger, host, client, *prompt); err != nil {
			logger.WithError(err).WithField("selection", run).Error("Frame analysis failed")
			failed++
		}
	}

	if failed > 0 {
		logger.WithField("failed", failed).Fatal("Frame analysis finished with errors")
	}
	logger.Info("Frame analysis completed successfully")
}

// analyzeSelection drives one request-image-data / send-to-server exchange
// through the controller the way the plugin UI does
func analyzeSelection(ctx context.Context, logger *logrus.Logger, host *plugin.FileHost, client plugin.Analyzer, prompt string) error {
	messages := make(chan models.PluginMessage, 2)
	var (
		result   models.PluginMessage
		exported string
	)

	ui := plugin.UIFunc(func(msg models.PluginMessage) {
		logger.WithField("type", msg.Type).Debug("UI message")

		switch msg.Type {
		case models.MessageSendImageData:
			exported = msg.Image
			messages <- models.PluginMessage{Type: models.MessageSendToServer, Image: msg.Image, Prompt: prompt}
		case models.MessageAnalysisResult, models.MessageAnalysisError:
			result = msg
			close(messages)
		}
	})

	controller := plugin.NewController(host, ui, client)
	messages <- models.PluginMessage{Type: models.MessageRequestImageData}
	if err := controller.Run(ctx, messages); err != nil {
		return err
	}

	if result.Type == models.MessageAnalysisError {
		return errors.New(result.Error)
	}

	nodes, err := host.Selection(ctx)
	if err != nil {
		return err
	}
	frame := nodes[0]

	if result.Insights != "" {
		fmt.Printf("## %s (%s)\n\n%s\n\n", frame.Name, frame.ID, result.Insights)
	}

	if result.Base64Image != "" {
		png, err := base64.StdEncoding.DecodeString(result.Base64Image)
		if err != nil {
			return fmt.Errorf("invalid generated image: %w", err)
		}
		key, err := host.SaveGenerated(ctx, frame, png, prompt)
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"frame":     frame.ID,
			"generated": key,
		}).Info("Stored generated image")
	}

	logger.WithFields(logrus.Fields{
		"frame":        frame.ID,
		"export_bytes": len(exported),
	}).Info("Frame analysed")

	return nil
}

func splitKeys(s string) []string {
	var keys []string
	for _, key := range strings.Split(s, ",") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
