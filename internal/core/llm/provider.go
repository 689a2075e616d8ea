package llm

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// ModelProvider is the language-model boundary: given an ordered message list
// and a tool schema, it returns either plain text or tool-invocation requests
// in the returned message. The same call shape serves both the first and the
// synthesis completion.
type ModelProvider interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (openai.ChatCompletionMessage, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}
