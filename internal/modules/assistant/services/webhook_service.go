package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/agent"
	"github.com/vendabot/vendabot-be/internal/core/whatsapp"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
)

const (
	unknownNumberReply = "Sorry, this WhatsApp number is not configured for any business."
	refreshCommand     = "refresh"
	refreshReply       = "History refreshed. How can I help you today?"
	imageFailureText   = "I sent an image but there was an error processing it."
	imageDefaultPrompt = "Please analyze this image."
)

// WebhookService turns WhatsApp Cloud API deliveries into agent turns and
// sends the reply back over WhatsApp.
type WebhookService struct {
	businessRepo repositories.BusinessRepo
	messageRepo  repositories.MessageRepo
	engine       *agent.Engine
	whatsapp     *whatsapp.CloudAPIClient
	gate         *whatsapp.Gate
}

func NewWebhookService(
	businessRepo repositories.BusinessRepo,
	messageRepo repositories.MessageRepo,
	engine *agent.Engine,
	client *whatsapp.CloudAPIClient,
	gate *whatsapp.Gate,
) *WebhookService {
	return &WebhookService{
		businessRepo: businessRepo,
		messageRepo:  messageRepo,
		engine:       engine,
		whatsapp:     client,
		gate:         gate,
	}
}

// Process handles one webhook delivery end to end. It is called from a
// goroutine after the webhook endpoint has already acknowledged Meta, so all
// failures are logged rather than returned.
func (s *WebhookService) Process(payload *whatsapp.WebhookPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	msg, value := payload.FirstMessage()
	if msg == nil {
		// Status updates and other non-message deliveries
		return
	}

	phoneNumberID := value.Metadata.PhoneNumberID
	waID := msg.From
	name := value.SenderName(waID)
	if name == "" {
		name = waID
	}

	var text string
	var image []byte

	switch msg.Type {
	case "text":
		text = msg.Text.Body
	case "image":
		data, err := s.whatsapp.DownloadMedia(ctx, msg.Image.ID)
		if err != nil {
			log.Error().Err(err).Str("media_id", msg.Image.ID).
				Msg("❌ Failed to download inbound image")
			text = imageFailureText
		} else {
			image = data
			text = msg.Image.Caption
			if text == "" {
				text = imageDefaultPrompt
			}
		}
	default:
		// Audio, video, documents etc. are not handled yet
		return
	}

	business, err := s.businessRepo.GetByPhoneNumberID(phoneNumberID)
	if err != nil {
		log.Error().Err(err).Str("phone_number_id", phoneNumberID).
			Msg("❌ No business bound to phone number")
		s.send(ctx, phoneNumberID, waID, unknownNumberReply)
		return
	}

	log.Info().Str("business", business.Name).Str("wa_id", waID).
		Msg("📩 Processing WhatsApp message")

	// Read receipt goes out before any reply; failures don't block the turn
	if err := s.whatsapp.MarkMessageAsRead(ctx, phoneNumberID, msg.ID); err != nil {
		log.Warn().Err(err).Str("message_id", msg.ID).
			Msg("⚠️ Failed to mark message as read")
	}

	// The inbound message is recorded even when the assistant is off, so a
	// human operator sees the full conversation.
	if err := s.messageRepo.Append(&models.Message{
		BusinessID:   business.ID,
		Text:         text,
		Sender:       waID,
		CustomerID:   waID,
		CustomerName: name,
		IsBot:        false,
		Platform:     models.PlatformWhatsApp,
	}); err != nil {
		log.Error().Err(err).Msg("❌ Failed to save inbound WhatsApp message")
	}

	if !s.gate.Enabled(waID) {
		log.Info().Str("wa_id", waID).Msg("🔇 Assistant disabled for customer, skipping reply")
		return
	}

	var reply string
	if strings.EqualFold(strings.TrimSpace(text), refreshCommand) {
		if err := s.messageRepo.Clear(business.ID, waID); err != nil {
			log.Error().Err(err).Msg("❌ Failed to clear conversation history")
		}
		reply = refreshReply
	} else {
		history, err := s.messageRepo.History(business.ID, waID, historyLimit)
		if err != nil {
			log.Error().Err(err).Msg("❌ Failed to load conversation history")
		}

		reply = s.engine.Respond(ctx, agent.Turn{
			BusinessID:   business.ID,
			CustomerID:   waID,
			CustomerName: name,
			Text:         text,
			Image:        image,
			Persona:      business.Persona,
			History:      toHistory(history),
		})
	}

	if reply == "" {
		return
	}

	if err := s.messageRepo.Append(&models.Message{
		BusinessID:   business.ID,
		Text:         reply,
		Sender:       models.SenderBot,
		CustomerID:   waID,
		CustomerName: name,
		IsBot:        true,
		Platform:     models.PlatformWhatsApp,
	}); err != nil {
		log.Error().Err(err).Msg("❌ Failed to save bot WhatsApp message")
	}

	s.send(ctx, phoneNumberID, waID, whatsapp.FormatForWhatsApp(reply))
}

// SetAIEnabled toggles automatic replies for one customer
func (s *WebhookService) SetAIEnabled(waID string, enabled bool) {
	s.gate.SetEnabled(waID, enabled)
	log.Info().Str("wa_id", waID).Bool("enabled", enabled).Msg("🔁 Assistant toggled")
}

func (s *WebhookService) send(ctx context.Context, phoneNumberID, to, text string) {
	if err := s.whatsapp.SendText(ctx, phoneNumberID, to, text); err != nil {
		log.Error().Err(err).Str("to", to).Msg("❌ Failed to send WhatsApp message")
	}
}
