package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message platforms
const (
	PlatformWeb      = "web"
	PlatformWhatsApp = "whatsapp"
)

// Senders used for the same-business web channel. WhatsApp messages carry the
// customer wa_id as sender instead.
const (
	SenderBot  = "bot"
	SenderUser = "user"
)

// Message is one conversation turn (user or bot) belonging to a business.
// A conversation is the subsequence of messages sharing
// (business_id, customer_id, platform), ordered by created_at.
type Message struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	BusinessID uuid.UUID `gorm:"type:uuid;not null;index:idx_messages_conversation,priority:1" json:"business_id"`

	// Text may be empty for image-only turns
	Text   string `gorm:"type:text" json:"text"`
	Sender string `gorm:"type:text;not null" json:"sender"`

	// Stable per-conversation key (wa_id or web username); empty on legacy rows
	CustomerID   string `gorm:"type:text;index:idx_messages_conversation,priority:2" json:"customer_id"`
	CustomerName string `gorm:"type:text" json:"customer_name"`

	IsBot    bool   `gorm:"type:boolean;default:false" json:"is_bot"`
	Platform string `gorm:"type:text;default:'web'" json:"platform"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationship
	Business Business `gorm:"foreignKey:BusinessID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate sets UUID before creating
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CustomerSummary is one row of the per-customer conversation overview
type CustomerSummary struct {
	CustomerID    string    `json:"id"`
	CustomerName  string    `json:"name"`
	LastMessage   string    `json:"last_message"`
	LastTimestamp time.Time `json:"last_timestamp"`
	MessageCount  int64     `json:"message_count"`
}
