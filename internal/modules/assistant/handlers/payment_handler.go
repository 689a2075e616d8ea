package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/payment"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/services"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// Callback handles the customer's return from the Paystack checkout page.
// Paystack appends both trxref and reference; either works.
func (h *PaymentHandler) Callback(c *fiber.Ctx) error {
	reference := c.Query("reference")
	if reference == "" {
		reference = c.Query("trxref")
	}
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "transaction reference is required",
		})
	}

	result, err := h.paymentService.ConfirmCallback(c.Context(), reference)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if result.Status == payment.StatusSuccess {
		return c.SendString("Payment successful! You can return to the chat.")
	}
	return c.SendString("Payment not completed. You can return to the chat and try again.")
}

// Webhook handles Paystack's server-to-server webhook
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	signature := c.Get("x-paystack-signature")
	if signature == "" {
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	err := h.paymentService.HandleWebhook(c.Context(), c.Body(), signature)
	if errors.Is(err, services.ErrInvalidSignature) {
		log.Warn().Msg("⚠️ Rejected Paystack webhook with bad signature")
		return c.SendStatus(fiber.StatusUnauthorized)
	}
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to process Paystack webhook")
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}
