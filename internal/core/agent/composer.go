package agent

import (
	"encoding/base64"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// buildMessages assembles the model input: base system behavior, the
// business's persona as its own system entry, prior conversation, then the
// current message. An attached image rides along as a data URL content part.
func buildMessages(turn Turn) []openai.ChatCompletionMessage {
	system := systemPrompt
	if turn.CustomerName != "" {
		system += "\n\nThe customer's name is " + turn.CustomerName + "."
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
	}
	if turn.Persona != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: "Business persona (adopt this voice and knowledge):\n" + turn.Persona,
		})
	}

	name := sanitizeName(turn.CustomerName)
	for _, entry := range turn.History {
		msg := openai.ChatCompletionMessage{Content: entry.Text}
		if entry.Sender == SenderBot {
			msg.Role = openai.ChatMessageRoleAssistant
		} else {
			msg.Role = openai.ChatMessageRoleUser
			msg.Name = name
		}
		messages = append(messages, msg)
	}

	current := openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser,
		Name: name,
	}
	if len(turn.Image) > 0 {
		current.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: turn.Text},
			{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL: imageDataURL(turn.Image),
				},
			},
		}
	} else {
		current.Content = turn.Text
	}
	messages = append(messages, current)

	return messages
}

// sanitizeName fits a display name into the API's name constraints
// (alphanumerics, dash, underscore, max 64 chars).
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('_')
		}
		if b.Len() >= 64 {
			break
		}
	}
	if b.Len() == 0 {
		return "customer"
	}
	return b.String()
}

func imageDataURL(image []byte) string {
	mime := http.DetectContentType(image)
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image)
}
