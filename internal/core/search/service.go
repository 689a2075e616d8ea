package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

// ErrNoEmbeddedProducts is returned when the business has no products with
// embeddings, so similarity search has nothing to rank.
var ErrNoEmbeddedProducts = errors.New("no products with image embeddings found")

// Catalog is the slice of the product store similarity search needs
type Catalog interface {
	NearestByEmbedding(businessID uuid.UUID, embedding []float32, limit int) ([]models.Product, error)
}

// Embedder is the slice of the embedding provider similarity search needs
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedImage(ctx context.Context, image []byte) ([]float32, error)
}

// Service ranks a business's products by similarity to a text or image query.
// Text and image queries share one vector space, so both rank against the
// stored product image embeddings.
type Service struct {
	embedder Embedder
	catalog  Catalog
}

func NewService(embedder Embedder, catalog Catalog) *Service {
	return &Service{
		embedder: embedder,
		catalog:  catalog,
	}
}

// ByText returns up to limit products ranked by similarity to a text query
func (s *Service) ByText(ctx context.Context, businessID uuid.UUID, query string, limit int) ([]models.Product, error) {
	if query == "" {
		return nil, fmt.Errorf("search query is required")
	}

	vec, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate text embedding: %w", err)
	}

	return s.nearest(businessID, vec, limit)
}

// ByImage returns up to limit products ranked by similarity to an image
func (s *Service) ByImage(ctx context.Context, businessID uuid.UUID, image []byte, limit int) ([]models.Product, error) {
	if len(image) == 0 {
		return nil, fmt.Errorf("image data is required")
	}

	vec, err := s.embedder.EmbedImage(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("failed to generate image embedding: %w", err)
	}

	return s.nearest(businessID, vec, limit)
}

// nearest runs the ranked query. An empty result means the business has no
// embedded products at all, since the query only considers embedded rows.
func (s *Service) nearest(businessID uuid.UUID, vec []float32, limit int) ([]models.Product, error) {
	products, err := s.catalog.NearestByEmbedding(businessID, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrNoEmbeddedProducts
	}
	return products, nil
}
