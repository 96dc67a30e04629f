package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// SearchText runs a full text query against the search index. size <= 0
// falls back to the configured default; oversized requests are clamped.
// Results reflect the index, which may lag the record store.
func (s *Service) SearchText(ctx context.Context, q string, size int) ([]domain.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.NewValidationError("q", "required")
	}

	if size <= 0 {
		size = s.cfg.DefaultSearchSize
	}
	if size > s.cfg.MaxSearchSize {
		size = s.cfg.MaxSearchSize
	}

	products, err := s.search.SearchText(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search text: %w", err)
	}
	return products, nil
}

// SearchByCategory returns the indexed products in a category. Matching
// is case insensitive.
func (s *Service) SearchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		return nil, domain.NewValidationError("category", "required")
	}

	products, err := s.search.SearchByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("search by category: %w", err)
	}
	return products, nil
}

// SearchByPriceRange returns indexed products with min <= price <= max.
func (s *Service) SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error) {
	var errs []domain.FieldError
	if minPrice < 0 {
		errs = append(errs, domain.FieldError{Field: "min_price", Message: "must not be negative"})
	}
	if maxPrice < minPrice {
		errs = append(errs, domain.FieldError{Field: "max_price", Message: "must not be less than min_price"})
	}
	if len(errs) > 0 {
		return nil, &domain.ValidationError{Errors: errs}
	}

	products, err := s.search.SearchByPriceRange(ctx, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("search by price range: %w", err)
	}
	return products, nil
}
