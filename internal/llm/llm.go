// Package llm provides the text generation capability for answer synthesis.
package llm

import (
	"context"
	"fmt"

	"github.com/castela/ragpipe/internal/config"
)

// Provider represents an LLM provider type.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Options configures a generation request.
type Options struct {
	// Temperature controls randomness (0-1).
	Temperature float64

	// MaxTokens limits the response length.
	MaxTokens int
}

// DefaultOptions returns sensible defaults for grounded answering.
func DefaultOptions() Options {
	return Options{
		Temperature: 0.3,
		MaxTokens:   2048,
	}
}

// Service defines the generation capability: a single-turn completion with
// no conversation history.
type Service interface {
	// Generate returns the model's text output for the prompt.
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// Provider returns the provider name.
	Provider() Provider

	// ModelName returns the model name.
	ModelName() string
}

// NewService creates an LLM service based on the configuration.
func NewService(cfg *config.Config) (Service, error) {
	switch cfg.LLM.Provider {
	case "ollama":
		return NewOllamaService(cfg.LLM.Ollama.URL, cfg.LLM.Ollama.Model)
	case "openai":
		return NewOpenAIService(
			cfg.LLM.OpenAI.APIKey,
			cfg.LLM.OpenAI.Model,
			cfg.LLM.OpenAI.BaseURL,
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLM.Provider)
	}
}
