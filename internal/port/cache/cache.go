// Package cache defines the consumer-side port for the in-process cache.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value cache with per-entry TTLs. Implementations may
// evict entries at any time, so Get reporting a miss never means the
// value does not exist elsewhere.
type Cache interface {
	// Get returns the cached value and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for at most ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete invalidates key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
