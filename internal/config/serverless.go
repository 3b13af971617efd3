package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = &ServerlessConfig{
			IsLambda:     isRunningInLambda(),
			FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
			Region:       os.Getenv("AWS_REGION"),
			Stage:        GetEnv("STAGE", "dev"),
		}
	})
	return serverlessConfig
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// SecretGetter is the subset of the Secrets Manager client used to resolve the API key
type SecretGetter interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// ResolveAPIKey fills Gemini.APIKey from Secrets Manager when it is not set in the
// environment and a secret ARN is configured. The secret may hold the bare key or a
// JSON object with a GEMINI_API_KEY field.
func ResolveAPIKey(ctx context.Context, config *Config, secrets SecretGetter) error {
	if config.Gemini.APIKey != "" || config.Gemini.APIKeySecretARN == "" {
		return nil
	}

	out, err := secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(config.Gemini.APIKeySecretARN),
	})
	if err != nil {
		return fmt.Errorf("failed to fetch Gemini API key secret: %w", err)
	}
	if out.SecretString == nil {
		return fmt.Errorf("secret %s has no string value", config.Gemini.APIKeySecretARN)
	}

	key, err := parseAPIKeySecret(*out.SecretString)
	if err != nil {
		return fmt.Errorf("secret %s: %w", config.Gemini.APIKeySecretARN, err)
	}

	config.Gemini.APIKey = key
	return nil
}

func parseAPIKeySecret(value string) (string, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") {
		if value == "" {
			return "", fmt.Errorf("secret value is empty")
		}
		return value, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(value), &fields); err != nil {
		return "", fmt.Errorf("error parsing secret value: %w", err)
	}
	key := fields["GEMINI_API_KEY"]
	if key == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not found in secret")
	}
	return key, nil
}

// GetOptimizedConfig returns configuration for the current deployment mode,
// resolving the API key from Secrets Manager when needed
func GetOptimizedConfig(ctx context.Context) (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}

	if config.Gemini.APIKey == "" && config.Gemini.APIKeySecretARN != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		if err := ResolveAPIKey(ctx, config, secretsmanager.NewFromConfig(awsCfg)); err != nil {
			return nil, err
		}
	}

	return config, nil
}
