// Package cache provides the read-through cache in front of the external
// content store. Implementations must be safe for concurrent use.
package cache

import (
	"context"
	"time"
)

// Cache stores serialized content store responses keyed by query
type Cache interface {
	// Get returns the cached value, or ErrCacheMiss if absent or expired
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL. A zero TTL uses the default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache
	Close() error
}

// Error represents an error type for cache operations
type Error string

func (e Error) Error() string {
	return string(e)
}

// ErrCacheMiss indicates the key was not found or has expired
const ErrCacheMiss Error = "cache miss"
