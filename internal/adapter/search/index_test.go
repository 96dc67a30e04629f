package search

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndmitriev/catalog-service/internal/config"
	"github.com/ndmitriev/catalog-service/internal/domain"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := New(config.SearchConfig{}) // empty path: in-memory
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() }) //nolint:errcheck

	return idx
}

func makeProduct(name, description, category, price string) domain.Product {
	now := time.Now().UTC().Truncate(time.Second)
	var desc *string
	if description != "" {
		desc = &description
	}
	return domain.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: desc,
		Price:       decimal.RequireFromString(price),
		Stock:       10,
		Category:    category,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func mustIndex(t *testing.T, idx *Index, products ...domain.Product) {
	t.Helper()
	for _, p := range products {
		require.NoError(t, idx.Index(context.Background(), p))
	}
}

func TestIndexAndSearchText(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	laptop := makeProduct("Laptop Pro 15", "High-performance laptop with 16GB RAM", "Electronics", "1299.99")
	chair := makeProduct("Office Chair", "Ergonomic chair with lumbar support", "Furniture", "249.50")
	mustIndex(t, idx, laptop, chair)

	results, err := idx.SearchText(ctx, "laptop", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, laptop.ID, got.ID)
	assert.Equal(t, "Laptop Pro 15", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, *laptop.Description, *got.Description)
	assert.True(t, laptop.Price.Equal(got.Price), "price must round-trip exactly, got %s", got.Price)
	assert.Equal(t, laptop.Category, got.Category)
	assert.True(t, got.IsActive)
	assert.Equal(t, laptop.CreatedAt.Unix(), got.CreatedAt.Unix())
}

func TestSearchText_RanksNameAboveDescription(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	nameMatch := makeProduct("Webcam 1080p", "Full HD video device", "Electronics", "79.99")
	descMatch := makeProduct("Ring Light", "Light designed for webcam streaming sessions", "Electronics", "39.99")
	mustIndex(t, idx, nameMatch, descMatch)

	results, err := idx.SearchText(ctx, "webcam", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, nameMatch.ID, results[0].ID, "name matches are boosted above description matches")
}

func TestSearchText_SizeLimit(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustIndex(t, idx, makeProduct("Cable Tie", "", "Accessories", "4.99"))
	}

	results, err := idx.SearchText(ctx, "cable", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestIndex_UpsertReplacesByID(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	p := makeProduct("USB-C Hub", "7-in-1 hub", "Electronics", "39.99")
	mustIndex(t, idx, p)

	p.Name = "USB-C Hub v2"
	p.Price = decimal.RequireFromString("44.99")
	mustIndex(t, idx, p)

	results, err := idx.SearchText(ctx, "hub", 10)
	require.NoError(t, err)
	require.Len(t, results, 1, "reindexing the same id must not duplicate the document")
	assert.Equal(t, "USB-C Hub v2", results[0].Name)
	assert.True(t, results[0].Price.Equal(decimal.RequireFromString("44.99")))
}

func TestRemove_Idempotent(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	p := makeProduct("Desk Lamp", "LED lamp", "Furniture", "34.99")
	mustIndex(t, idx, p)

	require.NoError(t, idx.Remove(ctx, p.ID.String()))

	results, err := idx.SearchText(ctx, "lamp", 10)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Removing an absent id must not fail.
	assert.NoError(t, idx.Remove(ctx, p.ID.String()))
	assert.NoError(t, idx.Remove(ctx, uuid.New().String()))
}

func TestSearchByCategory_CaseInsensitive(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	book := makeProduct("Go Programming Book", "", "Books", "49.99")
	desk := makeProduct("Standing Desk", "", "Furniture", "599.00")
	mustIndex(t, idx, book, desk)

	for _, q := range []string{"Books", "books", "BOOKS"} {
		results, err := idx.SearchByCategory(ctx, q)
		require.NoError(t, err)
		require.Len(t, results, 1, "query %q", q)
		assert.Equal(t, book.ID, results[0].ID)
	}

	results, err := idx.SearchByCategory(ctx, "Toys")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchByPriceRange_Inclusive(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	cheap := makeProduct("Desk Organizer", "", "Furniture", "24.99")
	mid := makeProduct("Desk Lamp LED", "", "Furniture", "34.99")
	pricey := makeProduct("Office Chair", "", "Furniture", "249.50")
	mustIndex(t, idx, cheap, mid, pricey)

	results, err := idx.SearchByPriceRange(ctx, 24.99, 34.99)
	require.NoError(t, err)
	require.Len(t, results, 2, "range bounds are inclusive")

	ids := map[uuid.UUID]bool{}
	for _, p := range results {
		ids[p.ID] = true
	}
	assert.True(t, ids[cheap.ID])
	assert.True(t, ids[mid.ID])
	assert.False(t, ids[pricey.ID])
}

func TestReindexAll_ReplacesPriorState(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	stale := makeProduct("Stale Gadget", "", "Electronics", "10.00")
	mustIndex(t, idx, stale)

	fresh1 := makeProduct("Fresh Monitor", "", "Electronics", "449.00")
	fresh2 := makeProduct("Fresh Keyboard", "", "Electronics", "159.99")

	n, err := idx.ReindexAll(ctx, []domain.Product{fresh1, fresh2})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := idx.SearchText(ctx, "stale", 10)
	require.NoError(t, err)
	assert.Empty(t, results, "rebuild must drop documents absent from the input")

	count, err := idx.DocCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestReindexAll_Empty(t *testing.T) {
	t.Parallel()

	idx := newTestIndex(t)
	ctx := context.Background()

	mustIndex(t, idx, makeProduct("Soon Gone", "", "Electronics", "5.00"))

	n, err := idx.ReindexAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	count, err := idx.DocCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}
