package cache

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultCleanupInterval is how often expired in-memory entries are purged.
const DefaultCleanupInterval = 10 * time.Minute

// MemoryCache keeps entries in process memory. It suits the long-running
// HTTP adapter, where results are reused across requests but need not
// survive a restart.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates an in-memory cache. Expired entries are purged
// every cleanupInterval; a value <= 0 selects [DefaultCleanupInterval].
func NewMemoryCache(cleanupInterval time.Duration) *MemoryCache {
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	return &MemoryCache{cache: gocache.New(gocache.NoExpiration, cleanupInterval)}
}

// Get returns a copy of the stored bytes.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		c.cache.Delete(key)
		return nil, false, nil
	}
	return append([]byte(nil), data...), true, nil
}

// Set stores a copy of data. ttl <= 0 means the entry never expires.
func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.cache.Set(key, append([]byte(nil), data...), ttl)
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear removes every group and artifact entry, including scoped ones.
func (c *MemoryCache) Clear(ctx context.Context) (int, error) {
	n := 0
	for key := range c.cache.Items() {
		if strings.Contains(key, "groups:") || strings.Contains(key, "artifact:") {
			c.cache.Delete(key)
			n++
		}
	}
	return n, nil
}

// Len returns the number of unexpired entries.
func (c *MemoryCache) Len() int {
	return c.cache.ItemCount()
}

func (c *MemoryCache) Close() error {
	c.cache.Flush()
	return nil
}

var (
	_ Cache   = (*MemoryCache)(nil)
	_ Clearer = (*MemoryCache)(nil)
)
