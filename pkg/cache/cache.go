// Package cache stores computed stack artifacts between runs.
//
// Three backends implement [Cache]: [NullCache] (caching disabled),
// [FileCache] (one JSON file per entry, for the CLI) and [RedisCache]
// (shared across server instances). Keys come from a [Keyer] so every
// component derives them the same way.
//
// A cache is an optimization only. Callers treat every error as a miss and
// recompute.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Entry lifetimes.
const (
	TTLBooks       = time.Hour
	TTLArrangement = 24 * time.Hour
	TTLArtifact    = 7 * 24 * time.Hour
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)
