package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Delete removes a product from the store, then evicts its cache entry
// and search document. Cache and index failures are reported in the
// result but do not fail the operation.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*DeleteResult, error) {
	var partial []domain.StepFailure

	err := s.step(ctx, domain.BackendStore, "delete", &partial, func() error {
		return s.store.Delete(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("delete product: %w", err)
	}

	_ = s.step(ctx, domain.BackendCache, "invalidate", &partial, func() error {
		return s.cache.Delete(ctx, cacheKey(id))
	})

	_ = s.step(ctx, domain.BackendSearch, "remove", &partial, func() error {
		return s.search.Remove(ctx, id.String())
	})

	s.log.InfoContext(ctx, "product deleted", "product_id", id)

	return &DeleteResult{Partial: partial}, nil
}
