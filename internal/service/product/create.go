package product

import (
	"context"
	"fmt"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Create persists a new product and indexes it. The record store write
// is authoritative; a failed index upsert is reported in the result but
// does not fail the operation. The cache is not populated on create,
// the first read backfills it.
func (s *Service) Create(ctx context.Context, input CreateInput) (*WriteResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var (
		created *domain.Product
		partial []domain.StepFailure
	)

	err := s.step(ctx, domain.BackendStore, "create", &partial, func() error {
		var err error
		created, err = s.store.Create(ctx, input.toParams())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	_ = s.step(ctx, domain.BackendSearch, "index", &partial, func() error {
		return s.search.Index(ctx, *created)
	})

	s.log.InfoContext(ctx, "product created",
		"product_id", created.ID,
		"category", created.Category,
	)

	return &WriteResult{Product: created, Partial: partial}, nil
}
