package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

const paystackBaseURL = "https://api.paystack.co"

// PaystackGateway handles payment links and verification through Paystack
type PaystackGateway struct {
	secretKey       string
	baseURL         string
	defaultCurrency string
	client          *http.Client
}

// PaystackConfig holds configuration for the Paystack gateway
type PaystackConfig struct {
	SecretKey       string `json:"secret_key"`
	DefaultCurrency string `json:"default_currency"` // default GHS
	BaseURL         string `json:"base_url"`         // override for testing
}

// NewPaystackGateway creates a new Paystack payment gateway.
// A missing secret key is a deployment fault.
func NewPaystackGateway(config PaystackConfig) (*PaystackGateway, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("PAYSTACK_SECRET_KEY is required")
	}
	if config.DefaultCurrency == "" {
		config.DefaultCurrency = "GHS"
	}
	if config.BaseURL == "" {
		config.BaseURL = paystackBaseURL
	}

	return &PaystackGateway{
		secretKey:       config.SecretKey,
		baseURL:         config.BaseURL,
		defaultCurrency: config.DefaultCurrency,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Name returns the gateway name
func (g *PaystackGateway) Name() string {
	return "Paystack"
}

// MinorUnits converts a major-unit amount to the smallest currency unit
// (e.g. 10.50 GHS -> 1050 pesewas).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// Initialize creates a Paystack transaction and returns the authorization URL
func (g *PaystackGateway) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	if req.CustomerEmail == "" {
		return nil, fmt.Errorf("customer email is required")
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	currency := req.Currency
	if currency == "" {
		currency = g.defaultCurrency
	}

	payload := map[string]interface{}{
		"email":    req.CustomerEmail,
		"amount":   MinorUnits(req.Amount),
		"currency": currency,
	}
	if req.CallbackURL != "" {
		payload["callback_url"] = req.CallbackURL
	}

	var result struct {
		Status  bool             `json:"status"`
		Message string           `json:"message"`
		Data    InitializeResult `json:"data"`
	}
	if err := g.call(ctx, http.MethodPost, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("paystack initialize failed: %s", result.Message)
	}

	return &result.Data, nil
}

// Verify retrieves the transaction status for a reference
func (g *PaystackGateway) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	if reference == "" {
		return nil, fmt.Errorf("transaction reference is required")
	}

	var result struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Data    struct {
			Reference string                 `json:"reference"`
			Status    string                 `json:"status"`
			Amount    int64                  `json:"amount"`
			Currency  string                 `json:"currency"`
			Channel   string                 `json:"channel"`
			PaidAt    string                 `json:"paid_at"`
			Metadata  map[string]interface{} `json:"metadata"`
		} `json:"data"`
	}
	if err := g.call(ctx, http.MethodGet, "/transaction/verify/"+reference, nil, &result); err != nil {
		return nil, err
	}
	if !result.Status {
		return nil, fmt.Errorf("paystack verify failed: %s", result.Message)
	}

	return &VerifyResult{
		Reference: result.Data.Reference,
		Status:    result.Data.Status,
		Amount:    result.Data.Amount,
		Currency:  result.Data.Currency,
		Channel:   result.Data.Channel,
		PaidAt:    result.Data.PaidAt,
		Metadata:  result.Data.Metadata,
	}, nil
}

// VerifySignature checks the x-paystack-signature header of a webhook
// delivery (HMAC-SHA512 of the raw body with the secret key).
func (g *PaystackGateway) VerifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(g.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// call is a helper to make Paystack API requests
func (g *PaystackGateway) call(ctx context.Context, method, endpoint string, payload interface{}, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("paystack API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
