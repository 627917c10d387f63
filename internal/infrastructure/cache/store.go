// Package cache provides the tenant-scoped read cache backing the
// dashboard APIs. The cache is advisory: callers treat every error as a
// miss and fall through to the database.
package cache

import (
	"context"
	"time"
)

// Store is a string-keyed cache with TTLs and glob pattern invalidation
type Store interface {
	// Get returns the cached value and whether the key was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with the given TTL
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys; missing keys are not an error
	Delete(ctx context.Context, keys ...string) error

	// DeleteByPattern removes all keys matching a glob pattern,
	// e.g. "tenant:<id>:orders:*"
	DeleteByPattern(ctx context.Context, pattern string) error

	// Close releases underlying resources
	Close() error
}
