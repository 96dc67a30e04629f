package search

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// document is the denormalized shape a product takes inside the index.
// price carries the float used for range queries; price_exact carries the
// authoritative decimal string used when rehydrating hits.
type document struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	PriceExact  string    `json:"price_exact"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toDocument(p domain.Product) document {
	desc := ""
	if p.Description != nil {
		desc = *p.Description
	}

	price, _ := p.Price.Float64()

	return document{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: desc,
		Price:       price,
		PriceExact:  p.Price.String(),
		Stock:       p.Stock,
		Category:    p.Category,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// fromHit rebuilds a domain.Product from the stored fields of a search hit.
func fromHit(id string, fields map[string]interface{}) (domain.Product, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("parse id: %w", err)
	}

	p := domain.Product{
		ID:       productID,
		Name:     stringField(fields, "name"),
		Category: stringField(fields, "category"),
		IsActive: boolField(fields, "is_active"),
		Stock:    int(floatField(fields, "stock")),
	}

	if desc := stringField(fields, "description"); desc != "" {
		p.Description = &desc
	}

	// Prefer the exact decimal string; fall back to the indexed float for
	// documents written before price_exact existed.
	if exact := stringField(fields, "price_exact"); exact != "" {
		price, err := decimal.NewFromString(exact)
		if err != nil {
			return domain.Product{}, fmt.Errorf("parse price %q: %w", exact, err)
		}
		p.Price = price
	} else {
		p.Price = decimal.NewFromFloat(floatField(fields, "price"))
	}

	if p.CreatedAt, err = timeField(fields, "created_at"); err != nil {
		return domain.Product{}, err
	}
	if p.UpdatedAt, err = timeField(fields, "updated_at"); err != nil {
		return domain.Product{}, err
	}

	return p, nil
}

func stringField(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

func floatField(fields map[string]interface{}, name string) float64 {
	f, _ := fields[name].(float64)
	return f
}

func boolField(fields map[string]interface{}, name string) bool {
	b, _ := fields[name].(bool)
	return b
}

func timeField(fields map[string]interface{}, name string) (time.Time, error) {
	s, ok := fields[name].(string)
	if !ok || s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s %q: %w", name, s, err)
	}
	return t, nil
}
