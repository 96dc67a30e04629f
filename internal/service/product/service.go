// Package product implements the orchestration service coordinating the
// record store, the cache, and the search index.
//
// The record store is authoritative; the cache and the search index hold
// advisory denormalized copies. A single logical write propagates to the
// backends in a fixed order (store first), which bounds how long the copies
// can disagree with the store. There is no cross-backend transaction and no
// retry: a failed advisory step is recorded and tolerated, a failed store
// step aborts the operation.
package product

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ndmitriev/catalog-service/internal/domain"
)

// cacheKeyPrefix namespaces product entries in the cache.
const cacheKeyPrefix = "product:"

type recordStore interface {
	Create(ctx context.Context, params domain.ProductCreateParams) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, params domain.ProductUpdateParams) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Count(ctx context.Context, filter domain.ProductFilter) (int, error)
}

type productCache interface {
	Get(ctx context.Context, key string) (domain.Product, bool, error)
	Set(ctx context.Context, key string, p domain.Product, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	ClearPrefix(ctx context.Context, prefix string) (int, error)
}

type searchIndex interface {
	Index(ctx context.Context, p domain.Product) error
	Remove(ctx context.Context, id string) error
	SearchText(ctx context.Context, q string, size int) ([]domain.Product, error)
	SearchByCategory(ctx context.Context, category string) ([]domain.Product, error)
	SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error)
	ReindexAll(ctx context.Context, products []domain.Product) (int, error)
}

// backendCritical declares, per backend, whether a failed call aborts the
// whole operation. The record store is the source of truth, so its failures
// always surface. Cache and search failures are folded into the result's
// Partial list instead: losing a cache entry or an index document costs
// freshness, not correctness.
var backendCritical = map[string]bool{
	domain.BackendStore:  true,
	domain.BackendCache:  false,
	domain.BackendSearch: false,
}

// Config holds orchestration tunables.
type Config struct {
	// CacheTTL bounds how stale a cached read may be.
	CacheTTL time.Duration
	// DefaultSearchSize is used when a text search specifies no size.
	DefaultSearchSize int
	// MaxSearchSize caps the size a caller may request.
	MaxSearchSize int
	// ReindexPageSize is the store page size used by Reindex.
	ReindexPageSize int
}

// Service exposes the product business operations.
type Service struct {
	store  recordStore
	cache  productCache
	search searchIndex
	cfg    Config
	log    *slog.Logger
}

// NewService creates a product service over the three backends.
func NewService(log *slog.Logger, store recordStore, cache productCache, search searchIndex, cfg Config) *Service {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 300 * time.Second
	}
	if cfg.DefaultSearchSize <= 0 {
		cfg.DefaultSearchSize = 10
	}
	if cfg.MaxSearchSize <= 0 {
		cfg.MaxSearchSize = 100
	}
	if cfg.ReindexPageSize <= 0 {
		cfg.ReindexPageSize = 500
	}

	return &Service{
		store:  store,
		cache:  cache,
		search: search,
		cfg:    cfg,
		log:    log.With("service", "product"),
	}
}

// WriteResult is the outcome of Create and Update. Partial lists the
// advisory steps that failed after the store step committed; the operation
// as a whole still succeeded.
type WriteResult struct {
	Product *domain.Product
	Partial []domain.StepFailure
}

// DeleteResult is the outcome of Delete.
type DeleteResult struct {
	Partial []domain.StepFailure
}

// step runs one backend call of an orchestration sequence. Failures of
// backends declared critical are returned and abort the caller; advisory
// failures are logged at WARN, appended to partial, and suppressed, so the
// declared table and not the call site decides what escapes.
func (s *Service) step(ctx context.Context, backend, name string, partial *[]domain.StepFailure, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	if backendCritical[backend] {
		return err
	}

	s.log.WarnContext(ctx, "advisory step failed",
		slog.String("backend", backend),
		slog.String("step", name),
		slog.String("error", err.Error()),
	)
	*partial = append(*partial, domain.StepFailure{Backend: backend, Step: name, Err: err})
	return nil
}

func cacheKey(id uuid.UUID) string {
	return cacheKeyPrefix + id.String()
}

// ptr returns a pointer to the given value.
func ptr[T any](v T) *T { return &v }
