package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates JSON content using the specified model tier
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GetModel returns the provider model name for a tier
	GetModel(tier ModelTier) string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration.
// Gemini is the only provider wired today.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// generator is the slice of *genai.GenerativeModel the client calls
type generator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config

	// newModel builds the generator for a model name; replaced in tests
	newModel func(name string, json bool) generator
	sleep    func(ctx context.Context, d time.Duration) error
}

var _ Client = (*GeminiClient)(nil)

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultGeminiConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	c := &GeminiClient{client: client, config: config, sleep: sleepCtx}
	c.newModel = func(name string, json bool) generator {
		model := client.GenerativeModel(name)
		model.SetTemperature(config.temperature())
		if json {
			model.ResponseMIMEType = "application/json"
		}
		return model
	}
	return c, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.generate(ctx, prompt, tier, false)
}

// GenerateJSON generates JSON content using the specified model tier. The
// response is stripped of code fences and surrounding prose.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	text, err := c.generate(ctx, prompt, tier, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// generate calls the tier's model, retrying transient failures with
// exponential backoff
func (c *GeminiClient) generate(ctx context.Context, prompt string, tier ModelTier, json bool) (string, error) {
	name := c.config.GetModel(tier)
	if name == "" {
		return "", &GenerationError{Tier: tier, Message: "no model configured"}
	}
	model := c.newModel(name, json)

	backoff := c.config.retryBackoff()
	for attempt := 0; ; attempt++ {
		callCtx, cancel := c.config.callContext(ctx)
		resp, err := model.GenerateContent(callCtx, genai.Text(prompt))
		cancel()
		if err == nil {
			text, err := extractTextFromResponse(resp)
			if err != nil {
				return "", &GenerationError{Tier: tier, Model: name, Message: "unusable response", Cause: err}
			}
			return text, nil
		}

		if attempt >= c.config.MaxRetries || !retryable(err) || ctx.Err() != nil {
			return "", &GenerationError{Tier: tier, Model: name, Message: fmt.Sprintf("failed after %d attempt(s)", attempt+1), Cause: err}
		}
		if err := c.sleep(ctx, backoff); err != nil {
			return "", &GenerationError{Tier: tier, Model: name, Message: "cancelled while retrying", Cause: err}
		}
		backoff *= 2
	}
}

// retryable reports whether a model call failed for a reason worth retrying:
// rate limiting, overload, or a per-call timeout
func retryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	switch status.Code(err) {
	case codes.ResourceExhausted, codes.Unavailable, codes.Internal, codes.DeadlineExceeded:
		return true
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// GetModel returns the model name for a tier
func (c *GeminiClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse joins the text parts of the first candidate
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		if candidate.FinishReason != genai.FinishReasonUnspecified {
			return "", fmt.Errorf("no content in response (finish reason %s)", candidate.FinishReason)
		}
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return sb.String(), nil
}
