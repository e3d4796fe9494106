package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache holds recently embedded vectors in process memory. Entries
// expire by TTL; embedding payloads are small JSON blobs, so no size
// bound is enforced.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates the in-process cache layer
func NewMemoryCache(defaultTTL time.Duration, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get returns the cached embedding bytes for a content-hash key
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores embedding bytes under a content-hash key. A zero TTL uses
// the cache default.
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes one entry
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every cached embedding
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}
