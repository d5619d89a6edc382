// Package llm abstracts the completion service used for query
// reformulation and stance classification. Providers are interchangeable;
// the pipeline only sees Complete.
package llm

import "context"

// Provider defines the interface for completion-service providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete generates text for a prompt. Sampling is deterministic
	// (temperature 0) unless the request overrides it.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for one completion call
type CompletionRequest struct {
	// Prompt is the fully rendered prompt text
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens bounds the output length
	MaxTokens int

	// Temperature is the sampling temperature. The pipeline always uses 0.
	Temperature float32
}

// Config holds completion-service provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens default for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   30,
		MaxTokens: 250,
	}
}
