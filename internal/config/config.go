package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Transport names accepted in GEMINI_TRANSPORT
const (
	TransportREST = "rest"
	TransportSDK  = "sdk"
)

// DefaultPromptSuffix is appended to the user prompt when a frame image is analysed
const DefaultPromptSuffix = "\n\nGive detailed UX, visual, and usability suggestions for this UI."

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	Server      ServerConfig
	Gemini      GeminiConfig
}

// ServerConfig holds HTTP request handling limits
type ServerConfig struct {
	MaxBodyBytes int64
}

// GeminiConfig holds upstream provider configuration
type GeminiConfig struct {
	APIKey          string
	APIKeySecretARN string
	Model           string
	BaseURL         string
	Transport       string
	PromptSuffix    string
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-pro")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_TRANSPORT", TransportREST)
	v.SetDefault("ANALYSIS_PROMPT_SUFFIX", DefaultPromptSuffix)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		Server: ServerConfig{
			MaxBodyBytes: v.GetInt64("MAX_BODY_BYTES"),
		},
		Gemini: GeminiConfig{
			APIKey:          v.GetString("GEMINI_API_KEY"),
			APIKeySecretARN: v.GetString("GEMINI_API_KEY_SECRET_ARN"),
			Model:           v.GetString("GEMINI_MODEL"),
			BaseURL:         strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
			Transport:       strings.ToLower(v.GetString("GEMINI_TRANSPORT")),
			PromptSuffix:    v.GetString("ANALYSIS_PROMPT_SUFFIX"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that would otherwise fail on the first request.
// A missing API key is not an error here: requests fail with a 5xx instead.
func (c *Config) Validate() error {
	switch c.Gemini.Transport {
	case TransportREST, TransportSDK:
	default:
		return fmt.Errorf("invalid GEMINI_TRANSPORT %q: must be %q or %q", c.Gemini.Transport, TransportREST, TransportSDK)
	}

	if c.Gemini.Model == "" {
		return fmt.Errorf("GEMINI_MODEL must not be empty")
	}

	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.Server.MaxBodyBytes)
	}

	return nil
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
