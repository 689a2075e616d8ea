package whatsapp

// Webhook payload types for the WhatsApp Cloud API.
// Reference: https://developers.facebook.com/docs/whatsapp/cloud-api/webhooks/payload-examples

// WebhookPayload is the top-level webhook delivery
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups changes for one WhatsApp Business Account
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one webhook change notification
type Change struct {
	Field string `json:"field"`
	Value Value  `json:"value"`
}

// Value carries the inbound messages and routing metadata
type Value struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []Contact        `json:"contacts,omitempty"`
	Messages         []InboundMessage `json:"messages,omitempty"`
}

// Metadata identifies which business phone number received the message
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact is the sender's profile
type Contact struct {
	WaID    string `json:"wa_id"`
	Profile struct {
		Name string `json:"name"`
	} `json:"profile"`
}

// InboundMessage is a single message from a customer
type InboundMessage struct {
	From      string        `json:"from"`
	ID        string        `json:"id"`
	Timestamp string        `json:"timestamp"`
	Type      string        `json:"type"` // text, image, audio, document, ...
	Text      *TextContent  `json:"text,omitempty"`
	Image     *MediaContent `json:"image,omitempty"`
}

type TextContent struct {
	Body string `json:"body"`
}

type MediaContent struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256,omitempty"`
	Caption  string `json:"caption,omitempty"`
}

// FirstMessage returns the first inbound message and its routing metadata,
// or nil when the delivery carries no messages (e.g. status updates).
func (p *WebhookPayload) FirstMessage() (*InboundMessage, *Value) {
	for i := range p.Entry {
		for j := range p.Entry[i].Changes {
			value := &p.Entry[i].Changes[j].Value
			if len(value.Messages) > 0 {
				return &value.Messages[0], value
			}
		}
	}
	return nil, nil
}

// SenderName returns the profile name for a wa_id, if present in the delivery
func (v *Value) SenderName(waID string) string {
	for _, contact := range v.Contacts {
		if contact.WaID == waID {
			return contact.Profile.Name
		}
	}
	return ""
}
