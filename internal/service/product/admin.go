package product

import (
	"context"
	"fmt"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Reindex rebuilds the search index from the record store. The store is
// paged through with the configured page size, then the index is swapped
// wholesale, so documents for deleted products disappear. Returns the
// number of products indexed.
func (s *Service) Reindex(ctx context.Context) (int, error) {
	var all []domain.Product

	for skip := 0; ; skip += s.cfg.ReindexPageSize {
		page, err := s.store.List(ctx, domain.ProductFilter{
			Skip:  skip,
			Limit: s.cfg.ReindexPageSize,
		})
		if err != nil {
			return 0, fmt.Errorf("reindex: list products: %w", err)
		}
		all = append(all, page...)
		if len(page) < s.cfg.ReindexPageSize {
			break
		}
	}

	indexed, err := s.search.ReindexAll(ctx, all)
	if err != nil {
		return 0, fmt.Errorf("reindex: %w", err)
	}

	s.log.InfoContext(ctx, "search index rebuilt", "indexed", indexed)
	return indexed, nil
}

// ClearCache evicts every cached product entry. Returns the number of
// entries removed.
func (s *Service) ClearCache(ctx context.Context) (int, error) {
	cleared, err := s.cache.ClearPrefix(ctx, cacheKeyPrefix)
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}

	s.log.InfoContext(ctx, "product cache cleared", "cleared", cleared)
	return cleared, nil
}
