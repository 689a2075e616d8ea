package whatsapp

import (
	"encoding/json"
	"testing"
)

const textDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "102290129340398",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "233500000000", "phone_number_id": "106540352242922"},
        "contacts": [{"profile": {"name": "Ama"}, "wa_id": "233200000001"}],
        "messages": [{
          "from": "233200000001",
          "id": "wamid.HBgL",
          "timestamp": "1756280000",
          "type": "text",
          "text": {"body": "do you have sneakers?"}
        }]
      }
    }]
  }]
}`

const imageDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "102290129340398",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "233500000000", "phone_number_id": "106540352242922"},
        "contacts": [{"profile": {"name": "Kofi"}, "wa_id": "233200000002"}],
        "messages": [{
          "from": "233200000002",
          "id": "wamid.HBgM",
          "timestamp": "1756280001",
          "type": "image",
          "image": {"id": "media123", "mime_type": "image/jpeg", "caption": "like this?"}
        }]
      }
    }]
  }]
}`

const statusDelivery = `{
  "object": "whatsapp_business_account",
  "entry": [{
    "id": "102290129340398",
    "changes": [{
      "field": "messages",
      "value": {
        "messaging_product": "whatsapp",
        "metadata": {"display_phone_number": "233500000000", "phone_number_id": "106540352242922"}
      }
    }]
  }]
}`

func TestFirstMessageText(t *testing.T) {
	var payload WebhookPayload
	if err := json.Unmarshal([]byte(textDelivery), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	msg, value := payload.FirstMessage()
	if msg == nil {
		t.Fatal("FirstMessage() returned nil for a text delivery")
	}
	if msg.Type != "text" || msg.Text.Body != "do you have sneakers?" {
		t.Errorf("message = %+v", msg)
	}
	if msg.From != "233200000001" {
		t.Errorf("From = %q", msg.From)
	}
	if value.Metadata.PhoneNumberID != "106540352242922" {
		t.Errorf("PhoneNumberID = %q", value.Metadata.PhoneNumberID)
	}
	if name := value.SenderName("233200000001"); name != "Ama" {
		t.Errorf("SenderName() = %q", name)
	}
	if name := value.SenderName("unknown"); name != "" {
		t.Errorf("SenderName(unknown) = %q, want empty", name)
	}
}

func TestFirstMessageImage(t *testing.T) {
	var payload WebhookPayload
	if err := json.Unmarshal([]byte(imageDelivery), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	msg, _ := payload.FirstMessage()
	if msg == nil || msg.Type != "image" {
		t.Fatalf("message = %+v", msg)
	}
	if msg.Image.ID != "media123" || msg.Image.Caption != "like this?" {
		t.Errorf("image = %+v", msg.Image)
	}
}

func TestFirstMessageStatusUpdate(t *testing.T) {
	var payload WebhookPayload
	if err := json.Unmarshal([]byte(statusDelivery), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if msg, _ := payload.FirstMessage(); msg != nil {
		t.Fatalf("FirstMessage() = %+v, want nil for status delivery", msg)
	}
}
