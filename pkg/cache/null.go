package cache

import (
	"context"
	"time"
)

// NullCache stores nothing. With caching disabled every canvas poll
// re-encodes the PNG from the live surface, which is the correct behavior
// for single-user runs and for tests that want deterministic render paths.
type NullCache struct{}

// NewNullCache creates a cache that reports a miss for every key.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get reports a miss for every key.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the rendered bytes.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing; there is never anything to invalidate.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)
