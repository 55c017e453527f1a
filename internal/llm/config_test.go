package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, ProviderGemini, config.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", config.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash", config.GetModel(TierStandard))
	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTemperature, config.temperature())
	assert.Equal(t, DefaultMaxRetries, config.MaxRetries)
}

func TestGetModel_Fallback(t *testing.T) {
	config := &Config{Models: map[ModelTier]string{TierLite: "fallback-model"}}
	assert.Equal(t, "fallback-model", config.GetModel(TierAdvanced))

	config.Models[TierStandard] = "standard-model"
	assert.Equal(t, "standard-model", config.GetModel(TierAdvanced))
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	config := &Config{}

	assert.Equal(t, "", config.GetModel(TierAdvanced))
	assert.Equal(t, DefaultTemperature, config.temperature())
	assert.Equal(t, DefaultRetryBackoff, config.retryBackoff())

	ctx, cancel := config.callContext(context.Background())
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)
}

func TestCallContext_Timeout(t *testing.T) {
	config := &Config{CallTimeout: time.Minute}

	ctx, cancel := config.callContext(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
}

func TestWithModel(t *testing.T) {
	config := DefaultConfig()
	config.Temperature = 0.4
	newConfig := config.WithModel(TierAdvanced, "custom-model")

	assert.Equal(t, "gemini-2.5-pro", config.GetModel(TierAdvanced))
	assert.Equal(t, "custom-model", newConfig.GetModel(TierAdvanced))
	assert.Equal(t, "gemini-2.5-flash-lite", newConfig.GetModel(TierLite))
	assert.Equal(t, float32(0.4), newConfig.temperature())
	assert.Equal(t, config.MaxRetries, newConfig.MaxRetries)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNewClient_UnsupportedProvider(t *testing.T) {
	_, err := NewClient(context.Background(), &Config{Provider: "openai"}, "key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported LLM provider")
}
