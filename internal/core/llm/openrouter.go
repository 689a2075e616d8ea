package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

type OpenRouterProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenRouterProvider creates a provider against OpenRouter's
// OpenAI-compatible API. A missing API key is a deployment fault.
func NewOpenRouterProvider(apiKey string, model string, temperature float32) (*OpenRouterProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}
	if model == "" {
		model = "openai/gpt-4o-mini"
	}
	if temperature == 0 {
		temperature = 0.7
	}

	// OpenRouter uses OpenAI-compatible API with custom base URL
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = "https://openrouter.ai/api/v1"

	return &OpenRouterProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
	}, nil
}

func (p *OpenRouterProvider) GetProviderName() string {
	return "OpenRouter"
}

func (p *OpenRouterProvider) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    messages,
		Tools:       tools,
		Temperature: p.temperature,
	})
	if err != nil {
		return openai.ChatCompletionMessage{}, fmt.Errorf("openrouter error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("no response from model")
	}

	return resp.Choices[0].Message, nil
}
