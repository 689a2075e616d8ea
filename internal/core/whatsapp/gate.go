package whatsapp

import "sync"

// Gate tracks which customer wa_ids have the assistant switched off,
// so a human operator can take over a conversation. State is process-wide
// and resets on restart.
type Gate struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

func NewGate() *Gate {
	return &Gate{
		disabled: make(map[string]bool),
	}
}

// SetEnabled turns automatic replies on or off for one customer
func (g *Gate) SetEnabled(waID string, enabled bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if enabled {
		delete(g.disabled, waID)
	} else {
		g.disabled[waID] = true
	}
}

// Enabled reports whether the assistant should reply to this customer
func (g *Gate) Enabled(waID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return !g.disabled[waID]
}
