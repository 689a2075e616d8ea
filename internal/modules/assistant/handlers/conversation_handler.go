package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/services"
)

type ConversationHandler struct {
	chatService    *services.ChatService
	webhookService *services.WebhookService
}

func NewConversationHandler(
	chatService *services.ChatService,
	webhookService *services.WebhookService,
) *ConversationHandler {
	return &ConversationHandler{
		chatService:    chatService,
		webhookService: webhookService,
	}
}

func businessIDFromQuery(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Query("business_id"))
}

// Customers lists the per-customer conversation overview for a business
func (h *ConversationHandler) Customers(c *fiber.Ctx) error {
	businessID, err := businessIDFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid business_id",
		})
	}

	customers, err := h.chatService.Customers(businessID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(customers)
}

// CustomerMessages returns one customer's conversation, oldest first
func (h *ConversationHandler) CustomerMessages(c *fiber.Ctx) error {
	businessID, err := businessIDFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid business_id",
		})
	}

	customerID := c.Params("customerID")
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "customerID is required",
		})
	}

	messages, err := h.chatService.CustomerMessages(businessID, customerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(messages)
}

type toggleAIRequest struct {
	WaID    string `json:"wa_id"`
	Enabled bool   `json:"enabled"`
}

// ToggleAI switches automatic replies on or off for one WhatsApp customer
func (h *ConversationHandler) ToggleAI(c *fiber.Ctx) error {
	var req toggleAIRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.WaID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "wa_id is required",
		})
	}

	h.webhookService.SetAIEnabled(req.WaID, req.Enabled)

	return c.JSON(fiber.Map{
		"wa_id":   req.WaID,
		"enabled": req.Enabled,
	})
}

type clearHistoryRequest struct {
	BusinessID string `json:"business_id"`
	Sender     string `json:"sender"`
}

// ClearHistory removes all turns recorded under one sender
func (h *ConversationHandler) ClearHistory(c *fiber.Ctx) error {
	var req clearHistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	businessID, err := uuid.Parse(req.BusinessID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid business_id",
		})
	}
	if req.Sender == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "sender is required",
		})
	}

	if err := h.chatService.ClearHistory(businessID, req.Sender); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"status": "cleared",
	})
}
