package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment transaction statuses
const (
	TransactionPending = "pending"
	TransactionSuccess = "success"
	TransactionFailed  = "failed"
)

// PaymentTransaction is the durable log of payments initiated through the
// assistant and later confirmed by the Paystack callback/webhook.
type PaymentTransaction struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;index" json:"business_id"`

	// Provider transaction reference
	Reference string `gorm:"type:text;not null;uniqueIndex" json:"reference"`
	Status    string `gorm:"type:text;default:'pending'" json:"status"`

	// Amount in minor currency units (pesewas/kobo)
	Amount        int64  `gorm:"type:bigint;not null;default:0" json:"amount"`
	Currency      string `gorm:"type:text" json:"currency"`
	CustomerEmail string `gorm:"type:text" json:"customer_email"`

	// Raw provider metadata from verification
	Metadata datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (PaymentTransaction) TableName() string {
	return "payment_transactions"
}

// BeforeCreate sets UUID before creating
func (t *PaymentTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
