package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Update applies a partial update. After the authoritative store write
// the cache entry is invalidated, never rewritten, so the next read
// backfills a fresh copy, and the search document is upserted. Cache
// and index failures are reported in the result but do not fail the
// operation.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*WriteResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		updated *domain.Product
		partial []domain.StepFailure
	)

	err := s.step(ctx, domain.BackendStore, "update", &partial, func() error {
		var err error
		updated, err = s.store.Update(ctx, id, input.toParams())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	_ = s.step(ctx, domain.BackendCache, "invalidate", &partial, func() error {
		return s.cache.Delete(ctx, cacheKey(id))
	})

	_ = s.step(ctx, domain.BackendSearch, "index", &partial, func() error {
		return s.search.Index(ctx, *updated)
	})

	s.log.InfoContext(ctx, "product updated", "product_id", id)

	return &WriteResult{Product: updated, Partial: partial}, nil
}
