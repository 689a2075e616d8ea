package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot-be/internal/core/agent"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
)

// historyLimit caps how many prior turns are replayed to the model
const historyLimit = 20

// ChatService answers web-channel messages and exposes the conversation
// views used by the business dashboard.
type ChatService struct {
	businessRepo repositories.BusinessRepo
	messageRepo  repositories.MessageRepo
	engine       *agent.Engine
}

func NewChatService(
	businessRepo repositories.BusinessRepo,
	messageRepo repositories.MessageRepo,
	engine *agent.Engine,
) *ChatService {
	return &ChatService{
		businessRepo: businessRepo,
		messageRepo:  messageRepo,
		engine:       engine,
	}
}

// Chat answers one web message: replay recent history, run the agent, and
// persist both turns.
func (s *ChatService) Chat(ctx context.Context, businessID uuid.UUID, customerID, customerName, text string) (string, error) {
	business, err := s.businessRepo.GetByID(businessID)
	if err != nil {
		return "", fmt.Errorf("business not found: %w", err)
	}

	history, err := s.messageRepo.History(businessID, customerID, historyLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load history: %w", err)
	}

	reply := s.engine.Respond(ctx, agent.Turn{
		BusinessID:   business.ID,
		CustomerID:   customerID,
		CustomerName: customerName,
		Text:         text,
		Persona:      business.Persona,
		History:      toHistory(history),
	})

	if err := s.messageRepo.Append(&models.Message{
		BusinessID:   businessID,
		Text:         text,
		Sender:       models.SenderUser,
		CustomerID:   customerID,
		CustomerName: customerName,
		IsBot:        false,
		Platform:     models.PlatformWeb,
	}); err != nil {
		return "", fmt.Errorf("failed to save user message: %w", err)
	}

	if err := s.messageRepo.Append(&models.Message{
		BusinessID:   businessID,
		Text:         reply,
		Sender:       models.SenderBot,
		CustomerID:   customerID,
		CustomerName: customerName,
		IsBot:        true,
		Platform:     models.PlatformWeb,
	}); err != nil {
		return "", fmt.Errorf("failed to save bot message: %w", err)
	}

	return reply, nil
}

// Customers returns the per-customer conversation overview
func (s *ChatService) Customers(businessID uuid.UUID) ([]models.CustomerSummary, error) {
	return s.messageRepo.Customers(businessID)
}

// CustomerMessages returns one customer's full conversation, oldest first
func (s *ChatService) CustomerMessages(businessID uuid.UUID, customerID string) ([]models.Message, error) {
	return s.messageRepo.CustomerMessages(businessID, customerID)
}

// ClearHistory removes all turns recorded under one sender
func (s *ChatService) ClearHistory(businessID uuid.UUID, sender string) error {
	return s.messageRepo.Clear(businessID, sender)
}

// toHistory converts stored messages to agent history entries
func toHistory(messages []models.Message) []agent.HistoryEntry {
	history := make([]agent.HistoryEntry, 0, len(messages))
	for _, m := range messages {
		sender := agent.SenderUser
		if m.IsBot {
			sender = agent.SenderBot
		}
		history = append(history, agent.HistoryEntry{
			Sender: sender,
			Text:   m.Text,
		})
	}
	return history
}
