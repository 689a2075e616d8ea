package agent

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vendabot/vendabot-be/internal/core/llm"
)

// Sender values for history entries
const (
	SenderBot  = "bot"
	SenderUser = "user"
)

// fallbackReply is what the customer sees when the model or a required
// backend fails mid-turn.
const fallbackReply = "Sorry, I'm having trouble responding right now."

// HistoryEntry is one prior message in the conversation
type HistoryEntry struct {
	Sender string
	Text   string
}

// Turn is everything needed to answer one customer message
type Turn struct {
	BusinessID   uuid.UUID
	CustomerID   string
	CustomerName string
	Text         string
	Image        []byte // raw bytes of an attached image, if any
	Persona      string
	History      []HistoryEntry
}

// Engine runs the tool-orchestration loop: one model call, tool execution,
// then exactly one synthesis call. At most one round of tools runs per turn;
// if the synthesis call asks for more tools they are ignored.
type Engine struct {
	provider llm.ModelProvider
	executor *Executor
}

func NewEngine(provider llm.ModelProvider, executor *Executor) *Engine {
	return &Engine{
		provider: provider,
		executor: executor,
	}
}

// Respond answers one customer message. It never returns an error to the
// caller: faults are logged and the customer gets the fallback apology.
// An empty string means the model chose to say nothing.
func (e *Engine) Respond(ctx context.Context, turn Turn) string {
	ctx = WithBusinessID(ctx, turn.BusinessID)
	if len(turn.Image) > 0 {
		ctx = WithInboundImage(ctx, turn.Image)
	}

	messages := buildMessages(turn)
	tools := ToolDefinitions()

	first, err := e.provider.Complete(ctx, messages, tools)
	if err != nil {
		log.Error().Err(err).Str("business_id", turn.BusinessID.String()).
			Msg("❌ Model call failed")
		return fallbackReply
	}

	if len(first.ToolCalls) == 0 {
		return first.Content
	}

	messages = append(messages, first)

	for _, call := range first.ToolCalls {
		kind := ToolKind(call.Function.Name)

		args, err := DecodeArgs(kind, call.Function.Arguments)
		if err != nil {
			log.Error().Err(err).Str("tool", call.Function.Name).
				Msg("❌ Rejected tool call")
			return fallbackReply
		}

		result, err := e.executor.Execute(ctx, kind, args)
		if err != nil {
			log.Error().Err(err).Str("tool", call.Function.Name).
				Msg("❌ Tool execution fault")
			return fallbackReply
		}

		content, err := json.Marshal(result)
		if err != nil {
			log.Error().Err(err).Str("tool", call.Function.Name).
				Msg("❌ Failed to encode tool result")
			return fallbackReply
		}

		messages = append(messages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			ToolCallID: call.ID,
			Name:       call.Function.Name,
			Content:    string(content),
		})
	}

	second, err := e.provider.Complete(ctx, messages, tools)
	if err != nil {
		log.Error().Err(err).Str("business_id", turn.BusinessID.String()).
			Msg("❌ Synthesis call failed")
		return fallbackReply
	}

	if len(second.ToolCalls) > 0 {
		log.Warn().Int("requested", len(second.ToolCalls)).
			Msg("⚠️ Model requested tools past the per-turn round; ignoring")
	}

	return second.Content
}
