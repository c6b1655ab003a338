package intake

import (
	"context"
	"fmt"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// AnthropicProvider implements Provider for the Anthropic Messages API
type AnthropicProvider struct {
	client *anthropic.Client
	model  string
}

// AnthropicConfig holds configuration for the Anthropic provider
type AnthropicConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "claude-3-5-haiku-latest"
	}

	var opts []anthropic.ClientOption
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(cfg.APIKey, opts...),
		model:  cfg.Model,
	}, nil
}

// Name returns the provider name
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Chat sends messages and returns a response
func (p *AnthropicProvider) Chat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	messages := make([]anthropic.Message, 0, len(req.Messages))
	for _, msg := range req.Messages {
		if msg.Role == "assistant" {
			messages = append(messages, anthropic.NewAssistantTextMessage(msg.Content))
		} else {
			messages = append(messages, anthropic.NewUserTextMessage(msg.Content))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	resp, err := p.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(p.model),
		System:    req.SystemPrompt,
		Messages:  messages,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return ChatResponse{}, fmt.Errorf("anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return ChatResponse{}, fmt.Errorf("anthropic API returned no content")
	}

	return ChatResponse{Content: resp.Content[0].GetText()}, nil
}
