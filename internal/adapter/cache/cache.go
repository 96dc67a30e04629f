// Package cache implements the product cache on top of an in-process TTL
// cache. The cache is advisory: it may lag the record store by up to one TTL
// and is never consulted as a source of truth.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/ndmitriev/catalog-service/internal/config"
	"github.com/ndmitriev/catalog-service/internal/domain"
)

// Cache stores denormalized product copies with per-key expiry.
//
// The methods take a context and return errors so the orchestration layer
// can treat the cache as a remote backend; the in-process implementation
// itself never fails.
type Cache struct {
	items *ttlcache.Cache[string, domain.Product]
	ttl   time.Duration
}

// New creates a Cache from config. Touch-on-hit is disabled: reads must not
// extend an entry's lifetime, otherwise a hot stale entry would never expire.
func New(cfg config.CacheConfig) *Cache {
	opts := []ttlcache.Option[string, domain.Product]{
		ttlcache.WithTTL[string, domain.Product](cfg.TTL),
		ttlcache.WithDisableTouchOnHit[string, domain.Product](),
	}
	if cfg.Capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, domain.Product](cfg.Capacity))
	}

	return &Cache{
		items: ttlcache.New(opts...),
		ttl:   cfg.TTL,
	}
}

// Start launches the expiration janitor. Stop must be called on shutdown.
func (c *Cache) Start() {
	go c.items.Start()
}

// Stop terminates the expiration janitor.
func (c *Cache) Stop() {
	c.items.Stop()
}

// Get returns the cached product for key. A miss (absent or expired entry)
// is reported as ok=false, not as an error.
func (c *Cache) Get(_ context.Context, key string) (domain.Product, bool, error) {
	item := c.items.Get(key)
	if item == nil || item.IsExpired() {
		return domain.Product{}, false, nil
	}
	return item.Value(), true, nil
}

// Set stores a product copy under key. A ttl of zero or below uses the
// configured default.
func (c *Cache) Set(_ context.Context, key string, p domain.Product, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	c.items.Set(key, p, ttl)
	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.items.Delete(key)
	return nil
}

// ClearPrefix removes every key with the given prefix and returns how many
// entries were removed.
func (c *Cache) ClearPrefix(_ context.Context, prefix string) (int, error) {
	cleared := 0
	for _, key := range c.items.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.items.Delete(key)
			cleared++
		}
	}
	return cleared, nil
}

// Len returns the number of live entries. Used by health checks and tests.
func (c *Cache) Len() int {
	return c.items.Len()
}
