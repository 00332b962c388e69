// Package cache stores analysis results keyed by pedigree content.
//
// Results such as the inbreeding vector are pure functions of the
// pedigree, so they can be reused across runs and across machines. Keys are
// derived from the SHA-256 of the canonical pedigree encoding plus the
// options that influence the result (see [Keyer]).
//
// Backends:
//   - [FileCache]: one JSON file per entry, for local CLI use
//   - [RedisCache]: shared cache for several workers
//   - [NullCache]: caching disabled
//
// Wrap any backend with [WithHooks] to report hits, misses and writes to
// the registered observability hooks.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLInbreeding is the lifetime of a cached inbreeding vector. The
	// vector depends only on the pedigree, so it can live long.
	TTLInbreeding = 30 * 24 * time.Hour

	// TTLDistribution is the lifetime of a cached depth distribution.
	TTLDistribution = 7 * 24 * time.Hour
)

// GetJSON decodes a cached JSON value into v. It returns ErrCacheMiss when
// the key is absent or the stored value cannot be decoded.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheMiss, err)
	}
	return nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return c.Set(ctx, key, data, ttl)
}
