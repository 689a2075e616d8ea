package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

// scriptedProvider replays canned model responses and records every request
type scriptedProvider struct {
	responses []openai.ChatCompletionMessage
	errs      []error
	calls     [][]openai.ChatCompletionMessage
}

func (p *scriptedProvider) Complete(_ context.Context, messages []openai.ChatCompletionMessage, _ []openai.Tool) (openai.ChatCompletionMessage, error) {
	i := len(p.calls)
	p.calls = append(p.calls, messages)
	if i < len(p.errs) && p.errs[i] != nil {
		return openai.ChatCompletionMessage{}, p.errs[i]
	}
	if i >= len(p.responses) {
		return openai.ChatCompletionMessage{}, errors.New("no scripted response")
	}
	return p.responses[i], nil
}

func (p *scriptedProvider) GetProviderName() string { return "scripted" }

// fakeProductRepo serves a fixed product list
type fakeProductRepo struct {
	products []models.Product
}

func (r *fakeProductRepo) Create(*models.Product) error            { return nil }
func (r *fakeProductRepo) GetByID(string) (*models.Product, error) { return nil, nil }
func (r *fakeProductRepo) ListActive(uuid.UUID) ([]models.Product, error) {
	return r.products, nil
}
func (r *fakeProductRepo) Update(*models.Product) error { return nil }
func (r *fakeProductRepo) Delete(string) error          { return nil }
func (r *fakeProductRepo) NearestByEmbedding(uuid.UUID, []float32, int) ([]models.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) ListMissingEmbeddings(int) ([]models.Product, error) { return nil, nil }
func (r *fakeProductRepo) UpdateEmbedding(uuid.UUID, []float32) error          { return nil }

type fakeTransactionRepo struct {
	created []*models.PaymentTransaction
}

func (r *fakeTransactionRepo) Create(tx *models.PaymentTransaction) error {
	r.created = append(r.created, tx)
	return nil
}
func (r *fakeTransactionRepo) GetByReference(string) (*models.PaymentTransaction, error) {
	return nil, nil
}
func (r *fakeTransactionRepo) UpsertByReference(*models.PaymentTransaction) error { return nil }

func testEngine(provider *scriptedProvider, products *fakeProductRepo) *Engine {
	executor := NewExecutor(ExecutorConfig{
		Products:     products,
		Transactions: &fakeTransactionRepo{},
	})
	return NewEngine(provider, executor)
}

func productToolCall(id, args string) openai.ToolCall {
	return openai.ToolCall{
		ID:   id,
		Type: openai.ToolTypeFunction,
		Function: openai.FunctionCall{
			Name:      string(ToolGetProducts),
			Arguments: args,
		},
	}
}

func TestRespondDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleAssistant, Content: "Hello there!"},
		},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	got := engine.Respond(context.Background(), Turn{
		BusinessID: uuid.New(),
		CustomerID: "c1",
		Text:       "hi",
	})

	if got != "Hello there!" {
		t.Fatalf("Respond() = %q, want %q", got, "Hello there!")
	}
	if len(provider.calls) != 1 {
		t.Fatalf("model called %d times, want 1", len(provider.calls))
	}
}

func TestRespondEmptyContent(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleAssistant, Content: ""},
		},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	if got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "hi"}); got != "" {
		t.Fatalf("Respond() = %q, want empty string", got)
	}
}

func TestRespondToolRound(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{
					productToolCall("call_1", "{}"),
					productToolCall("call_2", "{}"),
				},
			},
			{Role: openai.ChatMessageRoleAssistant, Content: "We sell red sneakers."},
		},
	}
	products := &fakeProductRepo{products: []models.Product{
		{ID: uuid.New(), Name: "Red Sneakers", Price: 120},
	}}
	engine := testEngine(provider, products)

	got := engine.Respond(context.Background(), Turn{
		BusinessID: uuid.New(),
		CustomerID: "c1",
		Text:       "what do you sell?",
	})

	if got != "We sell red sneakers." {
		t.Fatalf("Respond() = %q", got)
	}
	if len(provider.calls) != 2 {
		t.Fatalf("model called %d times, want 2", len(provider.calls))
	}

	// The synthesis request must contain one tool result per tool call,
	// after the assistant's tool-call message.
	synthesis := provider.calls[1]
	var toolResults int
	for _, msg := range synthesis {
		if msg.Role == openai.ChatMessageRoleTool {
			toolResults++
			if !strings.Contains(msg.Content, "Red Sneakers") {
				t.Errorf("tool result missing product data: %q", msg.Content)
			}
		}
	}
	if toolResults != 2 {
		t.Fatalf("synthesis request has %d tool results, want 2", toolResults)
	}
}

func TestRespondOneRoundCap(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{
				Role:      openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{productToolCall("call_1", "{}")},
			},
			{
				Role:      openai.ChatMessageRoleAssistant,
				Content:   "Here is what I found.",
				ToolCalls: []openai.ToolCall{productToolCall("call_2", "{}")},
			},
		},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "browse"})

	if got != "Here is what I found." {
		t.Fatalf("Respond() = %q", got)
	}
	// The second round of tool calls must not trigger a third model call
	if len(provider.calls) != 2 {
		t.Fatalf("model called %d times, want 2", len(provider.calls))
	}
}

func TestRespondModelFailure(t *testing.T) {
	provider := &scriptedProvider{
		errs: []error{errors.New("upstream 500")},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	if got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "hi"}); got != fallbackReply {
		t.Fatalf("Respond() = %q, want fallback", got)
	}
}

func TestRespondSynthesisFailure(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{
				Role:      openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{productToolCall("call_1", "{}")},
			},
		},
		errs: []error{nil, errors.New("upstream 500")},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	if got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "hi"}); got != fallbackReply {
		t.Fatalf("Respond() = %q, want fallback", got)
	}
}

func TestRespondRejectsUnknownTool(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   "call_1",
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      "drop_database",
						Arguments: "{}",
					},
				}},
			},
		},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	if got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "hi"}); got != fallbackReply {
		t.Fatalf("Respond() = %q, want fallback", got)
	}
	if len(provider.calls) != 1 {
		t.Fatalf("model called %d times after rejected tool, want 1", len(provider.calls))
	}
}

func TestRespondRejectsMalformedArguments(t *testing.T) {
	provider := &scriptedProvider{
		responses: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleAssistant,
				ToolCalls: []openai.ToolCall{{
					ID:   "call_1",
					Type: openai.ToolTypeFunction,
					Function: openai.FunctionCall{
						Name:      string(ToolGetWeather),
						Arguments: `{"latitude": "not-a-number", "longitude": 0}`,
					},
				}},
			},
		},
	}
	engine := testEngine(provider, &fakeProductRepo{})

	if got := engine.Respond(context.Background(), Turn{BusinessID: uuid.New(), Text: "weather?"}); got != fallbackReply {
		t.Fatalf("Respond() = %q, want fallback", got)
	}
}
