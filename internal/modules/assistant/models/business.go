package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Business is the tenant root. Every product and message belongs to exactly
// one business, and every AI reply is generated on behalf of one business.
type Business struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:text;not null" json:"name"`

	// One owning user account per business (and one business per user)
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	// WhatsApp Business Phone Number ID from the Cloud API webhook metadata.
	// Unique across businesses; nil when no channel is bound yet.
	PhoneNumberID *string `gorm:"type:text;uniqueIndex" json:"phone_number_id,omitempty"`

	// Persona is appended to the assistant system prompt for this business
	Persona string `gorm:"type:text" json:"persona,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Business) TableName() string {
	return "businesses"
}

// BeforeCreate sets UUID before creating
func (b *Business) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
