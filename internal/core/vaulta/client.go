package vaulta

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client creates crypto-fiat quotes through the Vaulta API
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewClient creates a Vaulta quoting client. Base URL and API key are
// required credentials; missing values are a deployment fault.
func NewClient(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("vaulta base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("vaulta API key is required")
	}

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// QuoteRequest describes the instrument and amounts to quote
type QuoteRequest struct {
	Pair         string  `json:"pair"` // e.g. "BTC-GHS"
	Side         string  `json:"side"` // "buy" or "sell"
	AmountCrypto float64 `json:"amount_crypto"`
	AmountFiat   float64 `json:"amount_fiat"`
}

// Quote creates a quote for a crypto-fiat pair. The quote payload shape is
// provider-defined, so it is returned as-is.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote request: %w", err)
	}

	url := c.baseURL + "/get_quote"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("vaulta request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vaulta API error (status %d): %s", resp.StatusCode, string(body))
	}

	var quote map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("failed to decode quote: %w", err)
	}

	return quote, nil
}
