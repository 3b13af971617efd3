package services

import (
	"context"
	"fmt"
	"net/http"
)

// Transport names understood by NewGenerator
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	AnalysisService AnalysisService
	Generator       Generator
}

// ServiceConfig holds configuration for services
type ServiceConfig struct {
	Generator    GeneratorConfig
	Transport    string
	PromptSuffix string

	// HTTPClient is used for provider calls; nil means http.DefaultClient
	HTTPClient *http.Client
}

// NewGenerator creates the Generator for the configured transport
func NewGenerator(ctx context.Context, config *ServiceConfig) (Generator, error) {
	switch config.Transport {
	case "", TransportREST:
		return NewRESTGenerator(config.Generator, config.HTTPClient), nil
	case TransportSDK:
		return NewSDKGenerator(ctx, config.Generator, config.HTTPClient)
	default:
		return nil, fmt.Errorf("unsupported transport: %s", config.Transport)
	}
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(ctx context.Context, config *ServiceConfig) (*ServiceContainer, error) {
	if config == nil {
		return nil, fmt.Errorf("service config cannot be nil")
	}

	generator, err := NewGenerator(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create generator: %w", err)
	}

	return &ServiceContainer{
		AnalysisService: NewAnalysisService(generator, config.Generator.Model, config.PromptSuffix),
		Generator:       generator,
	}, nil
}
