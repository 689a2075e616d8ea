package whatsapp

import (
	"regexp"
	"strings"
)

var (
	citationPattern = regexp.MustCompile(`【[^】]*】`)
	boldPattern     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// FormatForWhatsApp rewrites model output into WhatsApp's text conventions:
// markdown bold (**text**) becomes WhatsApp bold (*text*), and citation
// brackets some models emit are stripped.
func FormatForWhatsApp(text string) string {
	text = citationPattern.ReplaceAllString(text, "")
	text = boldPattern.ReplaceAllString(text, "*$1*")
	return strings.TrimSpace(text)
}
