package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func TestNearestByEmbeddingUsesCosineDistance(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepo(db)

	businessID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "business_id", "name", "price", "is_active"}).
		AddRow(uuid.New().String(), businessID.String(), "Red Sneakers", 120.0, true).
		AddRow(uuid.New().String(), businessID.String(), "Crimson Trainers", 99.0, true)

	// The ranking must use the pgvector cosine distance operator and only
	// consider embedded, active products.
	mock.ExpectQuery(`SELECT \* FROM "products" WHERE business_id = \$1 AND image_embedding IS NOT NULL AND is_active = \$2 ORDER BY image_embedding <=> \$3`).
		WillReturnRows(rows)

	products, err := repo.NearestByEmbedding(businessID, []float32{0.1, 0.2}, 5)
	if err != nil {
		t.Fatalf("NearestByEmbedding() error = %v", err)
	}
	if len(products) != 2 || products[0].Name != "Red Sneakers" {
		t.Fatalf("products = %v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListMissingEmbeddings(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewProductRepo(db)

	rows := sqlmock.NewRows([]string{"id", "name", "image_url"}).
		AddRow(uuid.New().String(), "Gold Necklace", "https://cdn.example.com/necklace.jpg")

	mock.ExpectQuery(`SELECT \* FROM "products" WHERE image_url <> '' AND image_embedding IS NULL`).
		WillReturnRows(rows)

	products, err := repo.ListMissingEmbeddings(10)
	if err != nil {
		t.Fatalf("ListMissingEmbeddings() error = %v", err)
	}
	if len(products) != 1 || products[0].Name != "Gold Necklace" {
		t.Fatalf("products = %v", products)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestGetByIDRejectsMalformedID(t *testing.T) {
	db, _ := newMockDB(t)
	repo := NewProductRepo(db)

	if _, err := repo.GetByID("not-a-uuid"); err == nil {
		t.Fatal("expected error for malformed product ID")
	}
}
