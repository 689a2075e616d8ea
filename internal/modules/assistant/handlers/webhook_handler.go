package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/whatsapp"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/services"
)

type WebhookHandler struct {
	webhookService *services.WebhookService
	verifyToken    string
}

func NewWebhookHandler(webhookService *services.WebhookService, verifyToken string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		verifyToken:    verifyToken,
	}
}

// Verify answers Meta's webhook subscription handshake
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		log.Info().Msg("✅ WhatsApp webhook verified")
		return c.SendString(challenge)
	}

	log.Warn().Str("mode", mode).Msg("⚠️ WhatsApp webhook verification failed")
	return c.SendStatus(fiber.StatusForbidden)
}

// Receive accepts a webhook delivery, acknowledges immediately, and
// processes the message in the background. Meta retries on slow responses,
// so the handler never waits on the model.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(c.Body(), &payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	if payload.Object != "whatsapp_business_account" {
		return c.JSON(fiber.Map{"status": "ignored"})
	}

	go h.webhookService.Process(&payload)

	return c.JSON(fiber.Map{"status": "ok"})
}
