package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vendabot/vendabot-be/internal/core/embedding"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
	"github.com/vendabot/vendabot-be/internal/modules/assistant/repositories"
)

// ProductService manages the catalog and keeps product image embeddings in
// sync. Embedding is best-effort on writes: a failed embedding never blocks
// the product save, the backfill job retries later.
type ProductService struct {
	productRepo repositories.ProductRepo
	embedder    embedding.Provider
	httpClient  *http.Client
}

func NewProductService(productRepo repositories.ProductRepo, embedder embedding.Provider) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		embedder:    embedder,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateProduct creates a new product and embeds its image when one is set
func (s *ProductService) CreateProduct(businessID uuid.UUID, req *models.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" {
		return nil, errors.New("product name is required")
	}
	if req.Price < 0 {
		return nil, errors.New("price cannot be negative")
	}

	product := &models.Product{
		BusinessID:  businessID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsActive:    true,
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	if product.ImageURL != "" {
		s.embedImage(context.Background(), product)
	}

	return product, nil
}

// UpdateProduct applies a partial update. Changing the image URL invalidates
// the old embedding and triggers a re-embed.
func (s *ProductService) UpdateProduct(id string, req *models.UpdateProductRequest) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("product not found: %w", err)
	}

	imageChanged := false

	if req.Name != nil {
		if *req.Name == "" {
			return nil, errors.New("product name cannot be empty")
		}
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, errors.New("price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil && *req.ImageURL != product.ImageURL {
		product.ImageURL = *req.ImageURL
		product.ImageEmbedding = nil
		imageChanged = true
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	if err := s.productRepo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	if imageChanged && product.ImageURL != "" {
		s.embedImage(context.Background(), product)
	}

	return product, nil
}

// GetProduct returns one product by ID
func (s *ProductService) GetProduct(id string) (*models.Product, error) {
	return s.productRepo.GetByID(id)
}

// ListProducts returns a business's active products
func (s *ProductService) ListProducts(businessID uuid.UUID) ([]models.Product, error) {
	return s.productRepo.ListActive(businessID)
}

// DeleteProduct removes a product
func (s *ProductService) DeleteProduct(id string) error {
	return s.productRepo.Delete(id)
}

// BackfillEmbeddings embeds up to limit products that have an image but no
// embedding yet. Returns how many were embedded.
func (s *ProductService) BackfillEmbeddings(ctx context.Context, limit int) int {
	products, err := s.productRepo.ListMissingEmbeddings(limit)
	if err != nil {
		log.Error().Err(err).Msg("❌ Failed to list products missing embeddings")
		return 0
	}

	embedded := 0
	for i := range products {
		if s.embedImage(ctx, &products[i]) {
			embedded++
		}
	}

	if embedded > 0 {
		log.Info().Int("count", embedded).Msg("🧮 Backfilled product embeddings")
	}
	return embedded
}

// embedImage downloads the product image, embeds it, and stores the vector.
// Failures are logged, not returned: the backfill job picks the product up
// again on the next run.
func (s *ProductService) embedImage(ctx context.Context, product *models.Product) bool {
	image, err := s.downloadImage(ctx, product.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("product_id", product.ID.String()).
			Msg("⚠️ Failed to download product image for embedding")
		return false
	}

	vec, err := s.embedder.EmbedImage(ctx, image)
	if err != nil {
		log.Error().Err(err).Str("product_id", product.ID.String()).
			Msg("⚠️ Failed to embed product image")
		return false
	}

	if err := s.productRepo.UpdateEmbedding(product.ID, vec); err != nil {
		log.Error().Err(err).Str("product_id", product.ID.String()).
			Msg("❌ Failed to store product embedding")
		return false
	}
	return true
}

func (s *ProductService) downloadImage(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid image URL: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}
