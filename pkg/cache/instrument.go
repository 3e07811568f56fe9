package cache

import (
	"context"
	"time"

	"github.com/inkbloom/inkbloom/pkg/observability"
)

// instrumented reports hit/miss/set events to the registered cache hooks.
type instrumented struct {
	inner   Cache
	keyType string
}

// Instrument wraps a cache so its operations emit observability events.
// keyType labels the events ("canvas", "painting", "thumbnail").
func Instrument(inner Cache, keyType string) Cache {
	return &instrumented{inner: inner, keyType: keyType}
}

func (c *instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, found, err := c.inner.Get(ctx, key)
	if err == nil {
		if found {
			observability.Cache().OnCacheHit(ctx, c.keyType)
		} else {
			observability.Cache().OnCacheMiss(ctx, c.keyType)
		}
	}
	return data, found, err
}

func (c *instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.inner.Set(ctx, key, data, ttl)
	if err == nil {
		observability.Cache().OnCacheSet(ctx, c.keyType, len(data))
	}
	return err
}

func (c *instrumented) Delete(ctx context.Context, key string) error {
	return c.inner.Delete(ctx, key)
}

func (c *instrumented) Close() error {
	return c.inner.Close()
}

// Ensure instrumented implements Cache.
var _ Cache = (*instrumented)(nil)
