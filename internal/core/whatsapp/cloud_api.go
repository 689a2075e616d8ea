package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const graphBaseURL = "https://graph.facebook.com"

// CloudAPIClient talks to the WhatsApp Cloud API (Official Business API).
// Documentation: https://developers.facebook.com/docs/whatsapp/cloud-api
//
// The client is tenant-agnostic: the business phone number ID is passed
// per call, since one deployment serves many businesses.
type CloudAPIClient struct {
	baseURL     string
	accessToken string
	apiVersion  string
	client      *http.Client
}

// CloudAPIConfig holds configuration for the WhatsApp Cloud API client
type CloudAPIConfig struct {
	AccessToken string `json:"access_token"` // Meta Business Access Token
	APIVersion  string `json:"api_version"`  // API version (default: v18.0)
	BaseURL     string `json:"base_url"`     // override for testing
}

// NewCloudAPIClient creates a new WhatsApp Cloud API client
func NewCloudAPIClient(config CloudAPIConfig) (*CloudAPIClient, error) {
	if config.AccessToken == "" {
		return nil, fmt.Errorf("access_token is required")
	}
	if config.APIVersion == "" {
		config.APIVersion = "v18.0"
	}
	if config.BaseURL == "" {
		config.BaseURL = graphBaseURL
	}

	return &CloudAPIClient{
		baseURL:     config.BaseURL,
		accessToken: config.AccessToken,
		apiVersion:  config.APIVersion,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// GetProviderName returns the provider name
func (c *CloudAPIClient) GetProviderName() string {
	return "WhatsApp Cloud API (Official)"
}

// SendText sends a plain text message from a business phone number to a customer
func (c *CloudAPIClient) SendText(ctx context.Context, phoneNumberID, to, text string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"preview_url": "false",
			"body":        text,
		},
	}

	endpoint := fmt.Sprintf("/%s/%s/messages", c.apiVersion, phoneNumberID)
	return c.sendRequest(ctx, http.MethodPost, endpoint, payload)
}

// MarkMessageAsRead marks an inbound message as read
func (c *CloudAPIClient) MarkMessageAsRead(ctx context.Context, phoneNumberID, messageID string) error {
	payload := map[string]interface{}{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}

	endpoint := fmt.Sprintf("/%s/%s/messages", c.apiVersion, phoneNumberID)
	return c.sendRequest(ctx, http.MethodPost, endpoint, payload)
}

// MediaURL retrieves the ephemeral download URL for a media ID
func (c *CloudAPIClient) MediaURL(ctx context.Context, mediaID string) (string, error) {
	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, mediaID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get media info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("failed to get media URL: %s (status: %d)", string(body), resp.StatusCode)
	}

	var result struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	return result.URL, nil
}

// DownloadMedia downloads a media file by ID (URL lookup then authorized fetch)
func (c *CloudAPIClient) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	mediaURL, err := c.MediaURL(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download media: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// sendRequest is a helper to make API requests
func (c *CloudAPIClient) sendRequest(ctx context.Context, method, endpoint string, payload interface{}) error {
	url := c.baseURL + endpoint

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	return nil
}
