package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned when a key is not in the cache
var ErrMiss = errors.New("cache miss")

// Cache is the application-wide key/value cache. Values are stored as JSON
// when a struct is given and as raw strings otherwise.
type Cache interface {
	// Get unmarshals the cached value into dest. Returns ErrMiss when the
	// key does not exist.
	Get(ctx context.Context, key string, dest any) error

	// GetString returns the raw cached string. Returns ErrMiss when the
	// key does not exist.
	GetString(ctx context.Context, key string) (string, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	// SetNX stores a value only if the key does not exist.
	// Returns true if the value was stored.
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)

	// MGet fetches multiple keys in one round trip. Missing keys map to
	// empty strings in the result.
	MGet(ctx context.Context, keys ...string) (map[string]string, error)

	// MSet stores multiple key/value pairs with a shared TTL in one
	// pipelined round trip.
	MSet(ctx context.Context, values map[string]any, ttl time.Duration) error

	// Delete removes one or more keys
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern
	// (e.g. "dashboard:*"). Returns the number of keys removed.
	DeletePattern(ctx context.Context, pattern string) (int64, error)

	// Exists reports whether the key is present
	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining lifetime of a key. Returns ErrMiss when
	// the key does not exist.
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases the underlying resources
	Close() error
}
