package product

import (
	"context"
	"fmt"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// List returns products from the record store matching the filter.
// Listings always read the store directly, they are not cached.
func (s *Service) List(ctx context.Context, input ListInput) ([]domain.Product, error) {
	products, err := s.store.List(ctx, input.toFilter())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Count returns the number of products matching the filter. Skip and
// Limit are ignored.
func (s *Service) Count(ctx context.Context, input ListInput) (int, error) {
	filter := input.toFilter()
	filter.Skip = 0
	filter.Limit = 0

	n, err := s.store.Count(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}
