package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Get returns a product by id, trying the cache first. On a miss the
// record store is read and the cache is backfilled best effort. Cache
// errors never fail a read, they are logged and the store answers.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	key := cacheKey(id)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "cache read failed",
			"backend", domain.BackendCache,
			"product_id", id,
			"error", err,
		)
	}
	if ok {
		return &cached, nil
	}

	p, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := s.cache.Set(ctx, key, *p, s.cfg.CacheTTL); err != nil {
		s.log.WarnContext(ctx, "cache backfill failed",
			"backend", domain.BackendCache,
			"product_id", id,
			"error", err,
		)
	}

	return p, nil
}
