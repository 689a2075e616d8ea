package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vendabot/vendabot-be/internal/core/payment"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
)

// ErrInvalidSignature means a webhook delivery failed HMAC verification
var ErrInvalidSignature = errors.New("invalid webhook signature")

// WebhookVerifier checks the provider's webhook signature
type WebhookVerifier interface {
	VerifySignature(body []byte, signature string) bool
}

// PaymentService settles transactions from Paystack callbacks and webhooks.
// Status is always taken from a fresh Verify call, never from the inbound
// payload alone.
type PaymentService struct {
	gateway         payment.Gateway
	verifier        WebhookVerifier
	transactionRepo repositories.TransactionRepo
}

func NewPaymentService(
	gateway payment.Gateway,
	verifier WebhookVerifier,
	transactionRepo repositories.TransactionRepo,
) *PaymentService {
	return &PaymentService{
		gateway:         gateway,
		verifier:        verifier,
		transactionRepo: transactionRepo,
	}
}

// ConfirmCallback verifies a transaction after the customer returns from the
// Paystack checkout page and records the outcome.
func (s *PaymentService) ConfirmCallback(ctx context.Context, reference string) (*payment.VerifyResult, error) {
	if reference == "" {
		return nil, errors.New("transaction reference is required")
	}

	result, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to verify transaction: %w", err)
	}

	if err := s.record(result); err != nil {
		log.Error().Err(err).Str("reference", reference).
			Msg("❌ Failed to record verified transaction")
	}

	return result, nil
}

// paystackEvent is the slice of the webhook payload we act on
type paystackEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandleWebhook processes a Paystack webhook delivery: signature check,
// then verification of the referenced transaction.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.verifier.VerifySignature(body, signature) {
		return ErrInvalidSignature
	}

	var event paystackEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if event.Event != "charge.success" {
		log.Info().Str("event", event.Event).Msg("ℹ️ Ignoring Paystack event")
		return nil
	}
	if event.Data.Reference == "" {
		return errors.New("webhook payload has no transaction reference")
	}

	result, err := s.gateway.Verify(ctx, event.Data.Reference)
	if err != nil {
		return fmt.Errorf("failed to verify transaction: %w", err)
	}

	// Cross-check against the amount recorded at initialization
	existing, err := s.transactionRepo.GetByReference(result.Reference)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to load transaction: %w", err)
	}
	if existing != nil && existing.Amount > 0 && existing.Amount != result.Amount {
		log.Warn().Str("reference", result.Reference).
			Int64("expected", existing.Amount).
			Int64("paid", result.Amount).
			Msg("⚠️ Paid amount differs from initialized amount")
	}

	return s.record(result)
}

// record upserts the provider's view of a transaction
func (s *PaymentService) record(result *payment.VerifyResult) error {
	metadata, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode transaction metadata: %w", err)
	}

	return s.transactionRepo.UpsertByReference(&models.PaymentTransaction{
		Reference: result.Reference,
		Status:    statusFromProvider(result.Status),
		Amount:    result.Amount,
		Currency:  result.Currency,
		Metadata:  datatypes.JSON(metadata),
	})
}

func statusFromProvider(status string) string {
	switch status {
	case payment.StatusSuccess:
		return models.TransactionSuccess
	case payment.StatusFailed, payment.StatusAbandoned:
		return models.TransactionFailed
	default:
		return models.TransactionPending
	}
}
