package repositories

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

type MessageRepo interface {
	// Append persists one conversation turn
	Append(message *models.Message) error

	// History returns up to limit turns for (business, customer) in
	// chronological order
	History(businessID uuid.UUID, customerID string, limit int) ([]models.Message, error)

	// Clear removes all turns matching (business, sender)
	Clear(businessID uuid.UUID, sender string) error

	Customers(businessID uuid.UUID) ([]models.CustomerSummary, error)
	CustomerMessages(businessID uuid.UUID, customerID string) ([]models.Message, error)
}

type messageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) MessageRepo {
	return &messageRepo{db: db}
}

func (r *messageRepo) Append(message *models.Message) error {
	return r.db.Create(message).Error
}

func (r *messageRepo) History(businessID uuid.UUID, customerID string, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// Fetched newest-first, return oldest-first
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *messageRepo) Clear(businessID uuid.UUID, sender string) error {
	return r.db.
		Where("business_id = ? AND sender = ?", businessID, sender).
		Delete(&models.Message{}).Error
}

// Customers lists each customer with their latest message and turn count,
// newest conversations first. Raw SQL for the latest-per-customer join.
func (r *messageRepo) Customers(businessID uuid.UUID) ([]models.CustomerSummary, error) {
	var summaries []models.CustomerSummary
	err := r.db.Raw(`
		SELECT m.customer_id, m.customer_name, m.text AS last_message,
		       m.created_at AS last_timestamp, agg.msg_count AS message_count
		FROM messages m
		JOIN (
			SELECT customer_id, MAX(created_at) AS max_ts, COUNT(*) AS msg_count
			FROM messages
			WHERE business_id = ? AND customer_id <> ''
			GROUP BY customer_id
		) agg ON agg.customer_id = m.customer_id AND agg.max_ts = m.created_at
		WHERE m.business_id = ?
		ORDER BY m.created_at DESC
	`, businessID, businessID).Scan(&summaries).Error
	return summaries, err
}

func (r *messageRepo) CustomerMessages(businessID uuid.UUID, customerID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("business_id = ? AND customer_id = ?", businessID, customerID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}
