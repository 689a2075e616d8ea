package embedding

import "context"

// Provider generates fixed-dimension vectors for text and images in the same
// vector space, so a text query can be ranked against product image
// embeddings. Implementations must fail closed: an error, never a zero or
// empty vector.
type Provider interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)

	// GetDimensions returns the dimension size of the embeddings
	GetDimensions() int

	// GetProviderName returns the provider name
	GetProviderName() string
}
