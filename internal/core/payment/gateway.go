package payment

import "context"

// Gateway defines the interface for payment processing.
// Amounts on the request side are in major currency units (e.g. 10.50 GHS);
// providers that bill in minor units convert internally.
type Gateway interface {
	// Initialize creates a payment and returns the customer-facing
	// authorization URL plus the provider reference
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)

	// Verify retrieves the current status of a transaction by reference
	Verify(ctx context.Context, reference string) (*VerifyResult, error)

	// Name returns the gateway provider name
	Name() string
}

// InitializeRequest describes a payment to initialize
type InitializeRequest struct {
	CustomerEmail string  `json:"customer_email"`
	Amount        float64 `json:"amount"` // major units
	Currency      string  `json:"currency"`
	CallbackURL   string  `json:"callback_url,omitempty"`
}

// InitializeResult contains the authorization details for a new payment
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// VerifyResult is the provider's view of a transaction
type VerifyResult struct {
	Reference string                 `json:"reference"`
	Status    string                 `json:"status"` // success, failed, abandoned, pending
	Amount    int64                  `json:"amount"` // minor units
	Currency  string                 `json:"currency"`
	Channel   string                 `json:"channel,omitempty"`
	PaidAt    string                 `json:"paid_at,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Transaction status constants (Paystack vocabulary)
const (
	StatusSuccess   = "success"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
	StatusPending   = "pending"
)
