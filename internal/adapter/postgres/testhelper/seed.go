package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedProduct inserts a product with sensible defaults, applying any
// overrides, and returns the stored row.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, override func(*domain.ProductCreateParams)) domain.Product {
	t.Helper()
	ctx := context.Background()

	params := domain.ProductCreateParams{
		Name:     "Test Product " + uniqueSuffix(),
		Price:    decimal.RequireFromString("19.99"),
		Stock:    10,
		Category: "TestCategory",
		IsActive: true,
	}
	if override != nil {
		override(&params)
	}

	var (
		p     domain.Product
		price string
	)
	err := pool.QueryRow(ctx,
		`INSERT INTO products (name, description, price, stock, category, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, name, description, price::text, stock, category, is_active, created_at, updated_at`,
		params.Name, params.Description, params.Price.String(), params.Stock, params.Category, params.IsActive,
	).Scan(&p.ID, &p.Name, &p.Description, &price, &p.Stock, &p.Category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedProduct insert: %v", err)
	}

	p.Price = decimal.RequireFromString(price)
	return p
}
