package providers

import (
	"context"
)

// CacheProvider defines the interface for caching pipeline read models
type CacheProvider interface {
	// Get retrieves a cached value
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with an expiration
	Set(ctx context.Context, key string, value []byte, expirationSeconds int) error

	// Delete removes a cached value
	Delete(ctx context.Context, key string) error

	// DeletePattern removes all cached values whose keys match a glob
	// pattern
	DeletePattern(ctx context.Context, pattern string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}
