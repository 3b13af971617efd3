package config

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearGeminiEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENVIRONMENT", "LOG_LEVEL", "MAX_BODY_BYTES",
		"GEMINI_API_KEY", "GEMINI_API_KEY_SECRET_ARN", "GEMINI_MODEL",
		"GEMINI_BASE_URL", "GEMINI_TRANSPORT", "ANALYSIS_PROMPT_SUFFIX",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearGeminiEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, int64(10<<20), cfg.Server.MaxBodyBytes)
	assert.Equal(t, "gemini-1.5-pro", cfg.Gemini.Model)
	assert.Equal(t, "https://generativelanguage.googleapis.com", cfg.Gemini.BaseURL)
	assert.Equal(t, TransportREST, cfg.Gemini.Transport)
	assert.Equal(t, DefaultPromptSuffix, cfg.Gemini.PromptSuffix)
	assert.Empty(t, cfg.Gemini.APIKey)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	clearGeminiEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")
	t.Setenv("GEMINI_BASE_URL", "http://localhost:1234/")
	t.Setenv("GEMINI_TRANSPORT", "SDK")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
	assert.Equal(t, "gemini-2.0-flash", cfg.Gemini.Model)
	assert.Equal(t, "http://localhost:1234", cfg.Gemini.BaseURL)
	assert.Equal(t, TransportSDK, cfg.Gemini.Transport)
}

func TestLoad_InvalidTransport(t *testing.T) {
	clearGeminiEnv(t)
	t.Setenv("GEMINI_TRANSPORT", "grpc")

	_, err := Load()
	assert.Error(t, err)
}

type fakeSecrets struct {
	value *string
	err   error
	calls int
}

func (f *fakeSecrets) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &secretsmanager.GetSecretValueOutput{SecretString: f.value}, nil
}

func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()
	arn := "arn:aws:secretsmanager:us-east-1:123456789012:secret:gemini"

	t.Run("key already set", func(t *testing.T) {
		secrets := &fakeSecrets{value: aws.String("from-secret")}
		cfg := &Config{Gemini: GeminiConfig{APIKey: "from-env", APIKeySecretARN: arn}}

		require.NoError(t, ResolveAPIKey(ctx, cfg, secrets))
		assert.Equal(t, "from-env", cfg.Gemini.APIKey)
		assert.Zero(t, secrets.calls)
	})

	t.Run("no secret configured", func(t *testing.T) {
		secrets := &fakeSecrets{}
		cfg := &Config{}

		require.NoError(t, ResolveAPIKey(ctx, cfg, secrets))
		assert.Empty(t, cfg.Gemini.APIKey)
		assert.Zero(t, secrets.calls)
	})

	t.Run("plain secret", func(t *testing.T) {
		cfg := &Config{Gemini: GeminiConfig{APIKeySecretARN: arn}}

		require.NoError(t, ResolveAPIKey(ctx, cfg, &fakeSecrets{value: aws.String(" plain-key\n")}))
		assert.Equal(t, "plain-key", cfg.Gemini.APIKey)
	})

	t.Run("json secret", func(t *testing.T) {
		cfg := &Config{Gemini: GeminiConfig{APIKeySecretARN: arn}}

		require.NoError(t, ResolveAPIKey(ctx, cfg, &fakeSecrets{value: aws.String(`{"GEMINI_API_KEY":"json-key"}`)}))
		assert.Equal(t, "json-key", cfg.Gemini.APIKey)
	})

	t.Run("json secret without key", func(t *testing.T) {
		cfg := &Config{Gemini: GeminiConfig{APIKeySecretARN: arn}}

		err := ResolveAPIKey(ctx, cfg, &fakeSecrets{value: aws.String(`{"OTHER":"x"}`)})
		assert.Error(t, err)
	})

	t.Run("secrets manager failure", func(t *testing.T) {
		cfg := &Config{Gemini: GeminiConfig{APIKeySecretARN: arn}}
		boom := errors.New("access denied")

		err := ResolveAPIKey(ctx, cfg, &fakeSecrets{err: boom})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("binary secret", func(t *testing.T) {
		cfg := &Config{Gemini: GeminiConfig{APIKeySecretARN: arn}}

		err := ResolveAPIKey(ctx, cfg, &fakeSecrets{})
		assert.Error(t, err)
	})
}

func TestGetDeploymentMode(t *testing.T) {
	mode := GetDeploymentMode()
	assert.Contains(t, []string{"server", "serverless"}, mode)
}
