package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vendabot/vendabot-be/internal/modules/assistant/models"
)

type ProductRepo interface {
	Create(product *models.Product) error
	GetByID(id string) (*models.Product, error)
	ListActive(businessID uuid.UUID) ([]models.Product, error)
	Update(product *models.Product) error
	Delete(id string) error

	// Similarity search support
	NearestByEmbedding(businessID uuid.UUID, embedding []float32, limit int) ([]models.Product, error)
	ListMissingEmbeddings(limit int) ([]models.Product, error)
	UpdateEmbedding(id uuid.UUID, embedding []float32) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepo {
	return &productRepo{db: db}
}

func (r *productRepo) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) GetByID(id string) (*models.Product, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid product ID: %w", err)
	}

	var product models.Product
	if err := r.db.First(&product, "id = ?", uid).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepo) ListActive(businessID uuid.UUID) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("business_id = ? AND is_active = ?", businessID, true).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid product ID: %w", err)
	}
	return r.db.Delete(&models.Product{}, "id = ?", uid).Error
}

// NearestByEmbedding returns the business's embedded products ordered by
// ascending cosine distance to the query vector. Products without an
// embedding never appear in the result.
func (r *productRepo) NearestByEmbedding(businessID uuid.UUID, embedding []float32, limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("business_id = ? AND image_embedding IS NOT NULL AND is_active = ?", businessID, true).
		Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "image_embedding <=> ?",
			Vars:               []interface{}{pgvector.NewVector(embedding)},
			WithoutParentheses: true,
		}}).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ListMissingEmbeddings returns products that have an image but no embedding
// yet, for the backfill job.
func (r *productRepo) ListMissingEmbeddings(limit int) ([]models.Product, error) {
	var products []models.Product
	err := r.db.
		Where("image_url <> '' AND image_embedding IS NULL").
		Order("created_at ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepo) UpdateEmbedding(id uuid.UUID, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	return r.db.Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("image_embedding", vec).Error
}
