// Package search implements the product search index using bleve.
// The index holds denormalized product copies and is advisory: results may
// lag the record store, and the store wins on any conflict.
package search

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/ndmitriev/catalog-service/internal/config"
	"github.com/ndmitriev/catalog-service/internal/domain"
)

// fieldSearchSize caps results for category and price-range queries, which
// take no caller-provided size.
const fieldSearchSize = 100

var errNotOpen = errors.New("index is not open")

// Index provides product search backed by a bleve index. With an empty
// IndexPath the index lives in memory and is rebuilt on startup (or via
// ReindexAll); with a path it is persisted on disk.
type Index struct {
	path string

	// mu guards the idx handle, which ReindexAll swaps out wholesale.
	// bleve itself is safe for concurrent use.
	mu  sync.RWMutex
	idx bleve.Index
}

// New opens (or creates) the index described by cfg.
func New(cfg config.SearchConfig) (*Index, error) {
	idx, err := open(cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("open search index: %w", err)
	}
	return &Index{path: cfg.IndexPath, idx: idx}, nil
}

// Close releases the underlying index.
func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.idx == nil {
		return nil
	}
	err := x.idx.Close()
	x.idx = nil
	return err
}

// DocCount returns the number of indexed products. Used by health checks.
func (x *Index) DocCount(_ context.Context) (uint64, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.idx == nil {
		return 0, domain.NewBackendError(domain.BackendSearch, errNotOpen)
	}
	n, err := x.idx.DocCount()
	if err != nil {
		return 0, domain.NewBackendError(domain.BackendSearch, err)
	}
	return n, nil
}

// Index upserts one product copy keyed by its id.
func (x *Index) Index(_ context.Context, p domain.Product) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.idx == nil {
		return domain.NewBackendError(domain.BackendSearch, errNotOpen)
	}
	if err := x.idx.Index(p.ID.String(), toDocument(p)); err != nil {
		return domain.NewBackendError(domain.BackendSearch, err)
	}
	return nil
}

// Remove deletes a product copy by id. Removing an absent id is not an error.
func (x *Index) Remove(_ context.Context, id string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.idx == nil {
		return domain.NewBackendError(domain.BackendSearch, errNotOpen)
	}
	if err := x.idx.Delete(id); err != nil {
		return domain.NewBackendError(domain.BackendSearch, err)
	}
	return nil
}

// SearchText runs a ranked free-text query over name (boosted), description,
// and category, with light fuzziness.
func (x *Index) SearchText(ctx context.Context, q string, size int) ([]domain.Product, error) {
	name := bleve.NewMatchQuery(q)
	name.SetField("name")
	name.SetBoost(2.0)
	name.SetFuzziness(1)

	desc := bleve.NewMatchQuery(q)
	desc.SetField("description")
	desc.SetFuzziness(1)

	cat := bleve.NewMatchQuery(q)
	cat.SetField("category")

	return x.search(ctx, bleve.NewDisjunctionQuery(name, desc, cat), size)
}

// SearchByCategory returns products whose category matches exactly,
// case-insensitively.
func (x *Index) SearchByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	// The category field is indexed through a lowercasing keyword analyzer,
	// so the term must be lowercased the same way.
	term := bleve.NewTermQuery(strings.ToLower(category))
	term.SetField("category")

	return x.search(ctx, term, fieldSearchSize)
}

// SearchByPriceRange returns products with min <= price <= max.
func (x *Index) SearchByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]domain.Product, error) {
	inclusive := true
	rng := bleve.NewNumericRangeInclusiveQuery(&minPrice, &maxPrice, &inclusive, &inclusive)
	rng.SetField("price")

	return x.search(ctx, rng, fieldSearchSize)
}

// ReindexAll rebuilds the index from scratch: prior state is discarded and
// replaced with the given products. Returns the number of products indexed.
func (x *Index) ReindexAll(_ context.Context, products []domain.Product) (int, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx != nil {
		if err := x.idx.Close(); err != nil {
			return 0, domain.NewBackendError(domain.BackendSearch, err)
		}
		x.idx = nil
	}
	if x.path != "" {
		if err := os.RemoveAll(x.path); err != nil {
			return 0, domain.NewBackendError(domain.BackendSearch, err)
		}
	}

	fresh, err := open(x.path)
	if err != nil {
		return 0, domain.NewBackendError(domain.BackendSearch, err)
	}
	x.idx = fresh

	batch := fresh.NewBatch()
	for _, p := range products {
		if err := batch.Index(p.ID.String(), toDocument(p)); err != nil {
			return 0, domain.NewBackendError(domain.BackendSearch, err)
		}
	}
	if err := fresh.Batch(batch); err != nil {
		return 0, domain.NewBackendError(domain.BackendSearch, err)
	}

	return len(products), nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (x *Index) search(ctx context.Context, q query.Query, size int) ([]domain.Product, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.idx == nil {
		return nil, domain.NewBackendError(domain.BackendSearch, errNotOpen)
	}

	req := bleve.NewSearchRequestOptions(q, size, 0, false)
	req.Fields = []string{"*"}

	res, err := x.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, domain.NewBackendError(domain.BackendSearch, err)
	}

	products := make([]domain.Product, 0, len(res.Hits))
	for _, hit := range res.Hits {
		p, err := fromHit(hit.ID, hit.Fields)
		if err != nil {
			return nil, fmt.Errorf("decode hit %s: %w", hit.ID, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func open(path string) (bleve.Index, error) {
	m := buildMapping()
	if path == "" {
		return bleve.NewMemOnly(m)
	}

	idx, err := bleve.Open(path)
	if errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		return bleve.New(path, m)
	}
	return idx, err
}

// buildMapping defines how product fields are analyzed and stored. All
// fields are stored so hits can be rehydrated without touching the record
// store; price is additionally stored as an exact decimal string because the
// indexed numeric value is a float approximation.
func buildMapping() mapping.IndexMapping {
	im := bleve.NewIndexMapping()

	// Keyword analyzer with lowercasing for the category field, so that
	// category search is exact but case-insensitive.
	err := im.AddCustomAnalyzer("keyword_lower", map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		// The analyzer definition is static; failing to register it is a bug.
		panic(fmt.Sprintf("search: register keyword_lower analyzer: %v", err))
	}

	text := bleve.NewTextFieldMapping()
	text.Store = true

	keyword := bleve.NewTextFieldMapping()
	keyword.Store = true
	keyword.Analyzer = "keyword_lower"

	storedOnly := bleve.NewTextFieldMapping()
	storedOnly.Store = true
	storedOnly.Index = false
	storedOnly.IncludeInAll = false

	numeric := bleve.NewNumericFieldMapping()
	numeric.Store = true

	boolean := bleve.NewBooleanFieldMapping()
	boolean.Store = true

	datetime := bleve.NewDateTimeFieldMapping()
	datetime.Store = true

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("id", storedOnly)
	doc.AddFieldMappingsAt("name", text)
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("price", numeric)
	doc.AddFieldMappingsAt("price_exact", storedOnly)
	doc.AddFieldMappingsAt("stock", numeric)
	doc.AddFieldMappingsAt("category", keyword)
	doc.AddFieldMappingsAt("is_active", boolean)
	doc.AddFieldMappingsAt("created_at", datetime)
	doc.AddFieldMappingsAt("updated_at", datetime)

	im.DefaultMapping = doc
	return im
}
