package intake

import (
	"context"
	"fmt"

	"github.com/tdh/emily/internal/config"
)

// ChatMessage is a single turn sent to a language model
type ChatMessage struct {
	Role    string // "user" | "assistant"
	Content string
}

// ChatRequest carries one model call
type ChatRequest struct {
	SystemPrompt string
	Messages     []ChatMessage
	MaxTokens    int
}

// ChatResponse carries the model's reply text
type ChatResponse struct {
	Content string
}

// Provider abstracts a chat model API
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)
}

// NewProvider builds a provider from configuration. An empty provider
// name means the assistant runs fully scripted; callers get (nil, nil)
// and must treat a nil provider as "no rephrasing".
func NewProvider(cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "openai":
		return NewOpenAIProvider(OpenAIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "anthropic":
		return NewAnthropicProvider(AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
	return nil, fmt.Errorf("unknown AI provider: %q", cfg.Provider)
}
