package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"

	"github.com/vendabot/vendabot-be/internal/core/agent"
	"github.com/vendabot/vendabot-be/internal/core/whatsapp"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

type fakeProvider struct {
	reply string
}

func (p *fakeProvider) Complete(context.Context, []openai.ChatCompletionMessage, []openai.Tool) (openai.ChatCompletionMessage, error) {
	return openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: p.reply,
	}, nil
}

func (p *fakeProvider) GetProviderName() string { return "fake" }

type fakeBusinessRepo struct {
	byPhone map[string]*models.Business
}

func (r *fakeBusinessRepo) Create(*models.Business) error                 { return nil }
func (r *fakeBusinessRepo) GetByID(uuid.UUID) (*models.Business, error)   { return nil, gorm.ErrRecordNotFound }
func (r *fakeBusinessRepo) GetByUserID(uuid.UUID) (*models.Business, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeBusinessRepo) GetByPhoneNumberID(phoneNumberID string) (*models.Business, error) {
	if b, ok := r.byPhone[phoneNumberID]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeBusinessRepo) Update(*models.Business) error { return nil }
func (r *fakeBusinessRepo) Delete(uuid.UUID) error        { return nil }

type fakeMessageRepo struct {
	appended []*models.Message
	cleared  []string
}

func (r *fakeMessageRepo) Append(m *models.Message) error {
	r.appended = append(r.appended, m)
	return nil
}
func (r *fakeMessageRepo) History(uuid.UUID, string, int) ([]models.Message, error) {
	return nil, nil
}
func (r *fakeMessageRepo) Clear(_ uuid.UUID, sender string) error {
	r.cleared = append(r.cleared, sender)
	return nil
}
func (r *fakeMessageRepo) Customers(uuid.UUID) ([]models.CustomerSummary, error) { return nil, nil }
func (r *fakeMessageRepo) CustomerMessages(uuid.UUID, string) ([]models.Message, error) {
	return nil, nil
}

type sentMessage struct {
	PhoneNumberID string
	To            string
	Body          string
}

// whatsappCapture records outbound Cloud API traffic, split into text sends
// and read receipts (both hit the same /messages endpoint).
type whatsappCapture struct {
	sent  []sentMessage
	reads []string
}

func newWhatsAppCapture(t *testing.T) (*whatsapp.CloudAPIClient, *whatsappCapture) {
	t.Helper()

	capture := &whatsappCapture{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Status    string `json:"status"`
			MessageID string `json:"message_id"`
			To        string `json:"to"`
			Text      struct {
				Body string `json:"body"`
			} `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode send: %v", err)
		}
		if payload.Status == "read" {
			capture.reads = append(capture.reads, payload.MessageID)
		} else {
			capture.sent = append(capture.sent, sentMessage{
				PhoneNumberID: r.URL.Path, // /v18.0/{phoneNumberID}/messages
				To:            payload.To,
				Body:          payload.Text.Body,
			})
		}
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client, err := whatsapp.NewCloudAPIClient(whatsapp.CloudAPIConfig{
		AccessToken: "token",
		BaseURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("NewCloudAPIClient() error = %v", err)
	}
	return client, capture
}

func textPayload(phoneNumberID, waID, name, body string) *whatsapp.WebhookPayload {
	return &whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []whatsapp.Entry{{
			Changes: []whatsapp.Change{{
				Field: "messages",
				Value: whatsapp.Value{
					Metadata: whatsapp.Metadata{PhoneNumberID: phoneNumberID},
					Contacts: []whatsapp.Contact{func() whatsapp.Contact {
						c := whatsapp.Contact{WaID: waID}
						c.Profile.Name = name
						return c
					}()},
					Messages: []whatsapp.InboundMessage{{
						From: waID,
						ID:   "wamid.test-1",
						Type: "text",
						Text: &whatsapp.TextContent{Body: body},
					}},
				},
			}},
		}},
	}
}

func newTestWebhookService(t *testing.T, business *models.Business, reply string) (*WebhookService, *fakeMessageRepo, *whatsappCapture) {
	t.Helper()

	businessRepo := &fakeBusinessRepo{byPhone: map[string]*models.Business{}}
	if business != nil && business.PhoneNumberID != nil {
		businessRepo.byPhone[*business.PhoneNumberID] = business
	}
	messageRepo := &fakeMessageRepo{}
	client, capture := newWhatsAppCapture(t)

	engine := agent.NewEngine(&fakeProvider{reply: reply}, agent.NewExecutor(agent.ExecutorConfig{}))
	svc := NewWebhookService(businessRepo, messageRepo, engine, client, whatsapp.NewGate())
	return svc, messageRepo, capture
}

func testBusiness() *models.Business {
	phone := "106540352242922"
	return &models.Business{
		ID:            uuid.New(),
		Name:          "Ama's Shop",
		PhoneNumberID: &phone,
	}
}

func TestProcessTextMessage(t *testing.T) {
	business := testBusiness()
	svc, messageRepo, capture := newTestWebhookService(t, business, "We have **Red Sneakers** for GHS 120.")

	svc.Process(textPayload("106540352242922", "233200000001", "Ama", "do you have sneakers?"))

	if len(messageRepo.appended) != 2 {
		t.Fatalf("appended %d messages, want user + bot", len(messageRepo.appended))
	}
	user, bot := messageRepo.appended[0], messageRepo.appended[1]
	if user.IsBot || user.Sender != "233200000001" || user.Platform != models.PlatformWhatsApp {
		t.Errorf("user turn = %+v", user)
	}
	if !bot.IsBot || bot.Sender != models.SenderBot {
		t.Errorf("bot turn = %+v", bot)
	}

	if len(capture.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(capture.sent))
	}
	// Reply goes out with WhatsApp formatting applied
	if capture.sent[0].Body != "We have *Red Sneakers* for GHS 120." {
		t.Errorf("sent body = %q", capture.sent[0].Body)
	}
	if capture.sent[0].To != "233200000001" {
		t.Errorf("sent to = %q", capture.sent[0].To)
	}
}

func TestProcessMarksMessageRead(t *testing.T) {
	business := testBusiness()
	svc, _, capture := newTestWebhookService(t, business, "hello!")

	svc.Process(textPayload("106540352242922", "233200000001", "Ama", "hi"))

	if len(capture.reads) != 1 || capture.reads[0] != "wamid.test-1" {
		t.Fatalf("read receipts = %v, want the inbound message ID", capture.reads)
	}
}

func TestProcessUnknownPhoneNumber(t *testing.T) {
	svc, messageRepo, capture := newTestWebhookService(t, nil, "unused")

	svc.Process(textPayload("999", "233200000001", "Ama", "hello"))

	if len(messageRepo.appended) != 0 {
		t.Errorf("appended %d messages, want 0", len(messageRepo.appended))
	}
	if len(capture.sent) != 1 || capture.sent[0].Body != unknownNumberReply {
		t.Fatalf("sent = %+v, want polite unknown-number reply", capture.sent)
	}
}

func TestProcessGateDisabled(t *testing.T) {
	business := testBusiness()
	svc, messageRepo, capture := newTestWebhookService(t, business, "unused")
	svc.SetAIEnabled("233200000001", false)

	svc.Process(textPayload("106540352242922", "233200000001", "Ama", "hello"))

	// Inbound message is still recorded for the human operator
	if len(messageRepo.appended) != 1 || messageRepo.appended[0].IsBot {
		t.Errorf("appended = %+v, want only the user turn", messageRepo.appended)
	}
	if len(capture.sent) != 0 {
		t.Errorf("sent %d messages, want none while disabled", len(capture.sent))
	}
}

func TestProcessRefreshCommand(t *testing.T) {
	business := testBusiness()
	svc, messageRepo, capture := newTestWebhookService(t, business, "unused")

	svc.Process(textPayload("106540352242922", "233200000001", "Ama", " Refresh "))

	if len(messageRepo.cleared) != 1 || messageRepo.cleared[0] != "233200000001" {
		t.Errorf("cleared = %v", messageRepo.cleared)
	}
	if len(capture.sent) != 1 || capture.sent[0].Body != refreshReply {
		t.Fatalf("sent = %+v, want refresh confirmation", capture.sent)
	}
}

func TestProcessIgnoresStatusDeliveries(t *testing.T) {
	business := testBusiness()
	svc, messageRepo, capture := newTestWebhookService(t, business, "unused")

	svc.Process(&whatsapp.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []whatsapp.Entry{{
			Changes: []whatsapp.Change{{
				Field: "messages",
				Value: whatsapp.Value{
					Metadata: whatsapp.Metadata{PhoneNumberID: "106540352242922"},
				},
			}},
		}},
	})

	if len(messageRepo.appended) != 0 || len(capture.sent) != 0 || len(capture.reads) != 0 {
		t.Error("status deliveries must be ignored")
	}
}
