package whatsapp

import "testing"

func TestFormatForWhatsApp(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			name: "markdown bold to whatsapp bold",
			in:   "We have **Red Sneakers** in stock.",
			want: "We have *Red Sneakers* in stock.",
		},
		{
			name: "strips citation brackets",
			in:   "It costs GHS 120【4:0†source】.",
			want: "It costs GHS 120.",
		},
		{
			name: "multiple bold spans",
			in:   "**Name**: Sneakers, **Price**: GHS 120",
			want: "*Name*: Sneakers, *Price*: GHS 120",
		},
		{
			name: "trims whitespace",
			in:   "  hello  ",
			want: "hello",
		},
		{
			name: "plain text unchanged",
			in:   "Just a normal reply with *existing* bold.",
			want: "Just a normal reply with *existing* bold.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatForWhatsApp(tt.in); got != tt.want {
				t.Errorf("FormatForWhatsApp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestGate(t *testing.T) {
	gate := NewGate()

	if !gate.Enabled("233200000001") {
		t.Error("new gate should default to enabled")
	}

	gate.SetEnabled("233200000001", false)
	if gate.Enabled("233200000001") {
		t.Error("customer should be disabled")
	}
	if !gate.Enabled("233200000002") {
		t.Error("other customers should stay enabled")
	}

	gate.SetEnabled("233200000001", true)
	if !gate.Enabled("233200000001") {
		t.Error("customer should be re-enabled")
	}
}
