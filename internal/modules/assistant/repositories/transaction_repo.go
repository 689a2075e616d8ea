package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

type TransactionRepo interface {
	Create(tx *models.PaymentTransaction) error
	GetByReference(reference string) (*models.PaymentTransaction, error)

	// UpsertByReference records the transaction if it is new, otherwise
	// updates status and metadata. Webhook and callback may both deliver
	// the same reference.
	UpsertByReference(tx *models.PaymentTransaction) error
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepo {
	return &transactionRepo{db: db}
}

func (r *transactionRepo) Create(tx *models.PaymentTransaction) error {
	return r.db.Create(tx).Error
}

func (r *transactionRepo) GetByReference(reference string) (*models.PaymentTransaction, error) {
	var tx models.PaymentTransaction
	if err := r.db.First(&tx, "reference = ?", reference).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepo) UpsertByReference(tx *models.PaymentTransaction) error {
	var existing models.PaymentTransaction
	err := r.db.First(&existing, "reference = ?", tx.Reference).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(tx).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status": tx.Status,
	}
	if tx.Amount > 0 {
		updates["amount"] = tx.Amount
	}
	if tx.Currency != "" {
		updates["currency"] = tx.Currency
	}
	if tx.CustomerEmail != "" {
		updates["customer_email"] = tx.CustomerEmail
	}
	if len(tx.Metadata) > 0 {
		updates["metadata"] = tx.Metadata
	}

	return r.db.Model(&models.PaymentTransaction{}).
		Where("reference = ?", tx.Reference).
		Updates(updates).Error
}
