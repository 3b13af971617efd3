package server

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"figma-insights-api/internal/config"
	"figma-insights-api/internal/middleware"
	"figma-insights-api/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	AnalysisService services.AnalysisService
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	middleware.ConfigureLogger(cfg.LogLevel, cfg.IsProduction())

	if cfg.Gemini.APIKey == "" {
		logrus.Warn("GEMINI_API_KEY is not set; every analyze request will fail")
	}

	serviceConfig := &services.ServiceConfig{
		Generator: services.GeneratorConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		},
		Transport:    cfg.Gemini.Transport,
		PromptSuffix: cfg.Gemini.PromptSuffix,
	}

	serviceContainer, err := services.NewServiceContainer(ctx, serviceConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"model":      cfg.Gemini.Model,
		"transport":  cfg.Gemini.Transport,
		"deployment": config.GetDeploymentMode(),
	}).Info("Container initialized")

	return &Container{
		Config:          cfg,
		AnalysisService: serviceContainer.AnalysisService,
	}, nil
}

// Close cleans up all resources. Provider clients hold no connections that
// outlive a request, so there is nothing to release yet.
func (c *Container) Close() error {
	return nil
}
