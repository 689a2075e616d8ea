package embedding

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// VertexProvider implements Provider using Vertex AI multimodalembedding@001.
// Images are embedded directly into a shared vector space with text, enabling
// cross-modal similarity search.
type VertexProvider struct {
	baseURL     string
	projectID   string
	location    string
	accessToken string
	model       string
	dims        int
	client      *http.Client
}

// VertexConfig holds configuration for the Vertex AI embedding provider
type VertexConfig struct {
	ProjectID   string `json:"project_id"`
	Location    string `json:"location"`     // e.g. "us-central1"
	AccessToken string `json:"access_token"` // OAuth2 bearer token
	BaseURL     string `json:"base_url"`     // override for testing
}

// NewVertexProvider creates a new Vertex AI embedding provider.
// Missing credentials are a deployment fault, reported at startup.
func NewVertexProvider(config VertexConfig) (*VertexProvider, error) {
	if config.ProjectID == "" {
		return nil, fmt.Errorf("GCP project ID is required")
	}
	if config.AccessToken == "" {
		return nil, fmt.Errorf("GCP access token is required")
	}
	if config.Location == "" {
		config.Location = "us-central1"
	}
	if config.BaseURL == "" {
		config.BaseURL = fmt.Sprintf("https://%s-aiplatform.googleapis.com", config.Location)
	}

	return &VertexProvider{
		baseURL:     config.BaseURL,
		projectID:   config.ProjectID,
		location:    config.Location,
		accessToken: config.AccessToken,
		model:       "multimodalembedding@001",
		dims:        1408,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

type vertexInstance struct {
	Text  string       `json:"text,omitempty"`
	Image *vertexImage `json:"image,omitempty"`
}

type vertexImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
}

type vertexPrediction struct {
	TextEmbedding  []float32 `json:"textEmbedding,omitempty"`
	ImageEmbedding []float32 `json:"imageEmbedding,omitempty"`
}

// EmbedText generates a text embedding in the shared text/image space
func (p *VertexProvider) EmbedText(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	pred, err := p.predict(ctx, vertexInstance{Text: text})
	if err != nil {
		return nil, err
	}

	if len(pred.TextEmbedding) == 0 {
		return nil, fmt.Errorf("vertex returned empty text embedding")
	}
	return pred.TextEmbedding, nil
}

// EmbedImage generates an embedding from raw image bytes
func (p *VertexProvider) EmbedImage(ctx context.Context, image []byte) ([]float32, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image cannot be empty")
	}

	pred, err := p.predict(ctx, vertexInstance{
		Image: &vertexImage{BytesBase64Encoded: base64.StdEncoding.EncodeToString(image)},
	})
	if err != nil {
		return nil, err
	}

	if len(pred.ImageEmbedding) == 0 {
		return nil, fmt.Errorf("vertex returned empty image embedding")
	}
	return pred.ImageEmbedding, nil
}

// GetDimensions returns the dimension size
func (p *VertexProvider) GetDimensions() int {
	return p.dims
}

// GetProviderName returns the provider name
func (p *VertexProvider) GetProviderName() string {
	return fmt.Sprintf("vertex_%s", p.model)
}

func (p *VertexProvider) predict(ctx context.Context, instance vertexInstance) (*vertexPrediction, error) {
	url := fmt.Sprintf("%s/v1/projects/%s/locations/%s/publishers/google/models/%s:predict",
		p.baseURL, p.projectID, p.location, p.model)

	payload := map[string]interface{}{
		"instances": []vertexInstance{instance},
		"parameters": map[string]interface{}{
			"dimension": p.dims,
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vertex request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vertex API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Predictions []vertexPrediction `json:"predictions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Predictions) == 0 {
		return nil, fmt.Errorf("vertex returned no predictions")
	}

	return &result.Predictions[0], nil
}
