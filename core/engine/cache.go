package engine

import (
	"sync"
	"time"

	"quote-engine/core/catalog"
)

// CatalogCache is an explicit cache of loaded catalogs, keyed by whatever
// identifies a load to the caller (the loading layer keys on source path).
// The engine never consults it implicitly: callers construct one, hand it to
// their loader, and pass resolved catalogs to Calculate. Keeping the cache
// outside the calculation path keeps the engine pure and testable without
// global setup.
type CatalogCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	catalog  *catalog.Catalog
	storedAt time.Time
}

// NewCatalogCache creates a cache with the given entry TTL.
// A zero TTL means entries never expire.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached catalog for a key, if present and fresh
func (c *CatalogCache) Get(key string) (*catalog.Catalog, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(entry.storedAt) > c.ttl {
		c.Invalidate(key)
		return nil, false
	}
	return entry.catalog, true
}

// Put stores a catalog under a key
func (c *CatalogCache) Put(key string, cat *catalog.Catalog) {
	if key == "" || cat == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{catalog: cat, storedAt: c.now()}
}

// Invalidate removes a key from the cache
func (c *CatalogCache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of cached entries
func (c *CatalogCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
