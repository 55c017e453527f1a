// Package llm provides the model configuration and client used to draft
// presentation documents from raw campaign data.
package llm

import (
	"context"
	"maps"
	"time"
)

// ModelTier selects a model by how demanding the task is
type ModelTier string

const (
	// TierLite pulls facts out of pasted reports
	TierLite ModelTier = "lite"
	// TierStandard drafts deck documents
	TierStandard ModelTier = "standard"
	// TierAdvanced handles long multi-channel reports
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// Defaults for Config fields left at zero
const (
	DefaultTemperature  float32 = 0.1
	DefaultMaxRetries           = 2
	DefaultRetryBackoff         = time.Second
)

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32

	// MaxRetries bounds the extra attempts after a rate-limited or
	// unavailable response
	MaxRetries int
	// RetryBackoff is the first wait between attempts; it doubles each retry
	RetryBackoff time.Duration
	// CallTimeout bounds a single model call; zero leaves only the caller's deadline
	CallTimeout time.Duration
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature:  DefaultTemperature,
		MaxRetries:   DefaultMaxRetries,
		RetryBackoff: DefaultRetryBackoff,
		CallTimeout:  2 * time.Minute,
	}
}

// GetModel returns the model name for a tier, falling back to the standard
// and then the lite model
func (c *Config) GetModel(tier ModelTier) string {
	for _, t := range []ModelTier{tier, TierStandard, TierLite} {
		if model, ok := c.Models[t]; ok {
			return model
		}
	}
	return ""
}

// WithModel returns a copy of the config with model assigned to tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = make(map[ModelTier]string, len(c.Models)+1)
	maps.Copy(out.Models, c.Models)
	out.Models[tier] = model
	return &out
}

func (c *Config) temperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}

func (c *Config) retryBackoff() time.Duration {
	if c.RetryBackoff <= 0 {
		return DefaultRetryBackoff
	}
	return c.RetryBackoff
}

func (c *Config) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.CallTimeout)
}
