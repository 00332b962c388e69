package cache

import (
	"context"
	"time"

	"github.com/matzehuels/pedigraph/pkg/observability"
)

// instrumented reports cache traffic to the registered observability hooks.
type instrumented struct {
	Cache
}

// WithHooks wraps c so that hits, misses and writes are reported through
// observability.Cache(). The hook key type is the key's kind prefix, such
// as "inbreeding".
func WithHooks(c Cache) Cache {
	if c == nil {
		return nil
	}
	if _, ok := c.(instrumented); ok {
		return c
	}
	return instrumented{Cache: c}
}

func (c instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		return data, hit, err
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
	return data, hit, nil
}

func (c instrumented) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if err := c.Cache.Set(ctx, key, data, ttl); err != nil {
		return err
	}
	observability.Cache().OnCacheSet(ctx, keyType(key), len(data))
	return nil
}
