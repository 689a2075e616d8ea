package fx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.exchangerate-api.com"

// Client fetches fiat exchange rates from exchangerate-api.com
type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Rate is the exchange rate for one currency pair on a given date
type Rate struct {
	LocalCurrency   string  `json:"local_currency"`
	ForeignCurrency string  `json:"foreign_currency"`
	Rate            float64 `json:"rate"`
	Date            string  `json:"date"`
}

// Rate returns the latest rate for localCurrency -> foreignCurrency
func (c *Client) Rate(ctx context.Context, localCurrency, foreignCurrency string) (*Rate, error) {
	localCurrency = strings.ToUpper(strings.TrimSpace(localCurrency))
	foreignCurrency = strings.ToUpper(strings.TrimSpace(foreignCurrency))
	if localCurrency == "" || foreignCurrency == "" {
		return nil, fmt.Errorf("currency codes are required")
	}

	url := fmt.Sprintf("%s/v4/latest/%s", c.baseURL, localCurrency)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("exchange rate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("exchange rate API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Date  string             `json:"date"`
		Rates map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rate, ok := result.Rates[foreignCurrency]
	if !ok {
		return nil, fmt.Errorf("unknown currency code: %s", foreignCurrency)
	}

	return &Rate{
		LocalCurrency:   localCurrency,
		ForeignCurrency: foreignCurrency,
		Rate:            rate,
		Date:            result.Date,
	}, nil
}
