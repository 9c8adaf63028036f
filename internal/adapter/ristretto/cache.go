// Package ristretto implements the cache port using dgraph-io/ristretto.
// Lodestar uses it as an in-process read cache for hot polling endpoints,
// most importantly enrichment status reads.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cached values are small JSON blobs, so counters are sized by an assumed
// average entry cost rather than by item count.
const assumedEntryBytes = 256

// Cache is an in-process cache backed by ristretto. Entries expire by TTL
// and are evicted under memory pressure, so a miss is always possible and
// callers must fall back to the store.
type Cache struct {
	inner *ristretto.Cache[string, []byte]
}

// New creates a cache bounded to maxBytes of stored values.
func New(maxBytes int64) (*Cache, error) {
	counters := maxBytes / assumedEntryBytes * 10
	if counters < 1024 {
		counters = 1024
	}
	inner, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: counters,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner}, nil
}

// Get retrieves a value. A missing or expired key is (nil, false, nil).
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := c.inner.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value with the given TTL, costed by its length.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.inner.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

// Delete removes a key. Used to invalidate status reads when the
// underlying record changes.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.inner.Del(key)
	return nil
}

// Close releases the cache's background goroutines.
func (c *Cache) Close() {
	c.inner.Close()
}
