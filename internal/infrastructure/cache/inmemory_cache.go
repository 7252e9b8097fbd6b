package cache

import (
	"context"
	"path"
	"sync"
	"time"
)

// entry is one cached value with its expiry
type entry struct {
	value     string
	expiresAt time.Time // zero means no expiry
}

func (e entry) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// InMemoryCache implements Cache with a mutex-guarded map. Suitable for
// single-instance deployments and testing. State is not shared across
// process instances.
type InMemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewInMemoryCache creates an in-memory cache
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[string]entry),
	}
}

func (c *InMemoryCache) get(key string) (string, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return "", false
	}
	if e.expired() {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return "", false
	}
	return e.value, true
}

func (c *InMemoryCache) set(key, value string, ttl time.Duration) {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
}

// Get unmarshals the cached value into dest
func (c *InMemoryCache) Get(_ context.Context, key string, dest any) error {
	raw, ok := c.get(key)
	if !ok {
		return ErrMiss
	}
	return decode(raw, dest)
}

// GetString returns the raw cached string
func (c *InMemoryCache) GetString(_ context.Context, key string) (string, error) {
	raw, ok := c.get(key)
	if !ok {
		return "", ErrMiss
	}
	return raw, nil
}

// Set stores a value with the given TTL
func (c *InMemoryCache) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	encoded, err := encode(value)
	if err != nil {
		return err
	}
	c.set(key, encoded, ttl)
	return nil
}

// SetNX stores a value only if the key does not exist
func (c *InMemoryCache) SetNX(_ context.Context, key string, value any, ttl time.Duration) (bool, error) {
	encoded, err := encode(value)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && !e.expired() {
		return false, nil
	}

	ne := entry{value: encoded}
	if ttl > 0 {
		ne.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = ne
	return true, nil
}

// MGet fetches multiple keys
func (c *InMemoryCache) MGet(_ context.Context, keys ...string) (map[string]string, error) {
	result := make(map[string]string, len(keys))
	for _, k := range keys {
		raw, ok := c.get(k)
		if !ok {
			result[k] = ""
			continue
		}
		result[k] = raw
	}
	return result, nil
}

// MSet stores multiple key/value pairs with a shared TTL
func (c *InMemoryCache) MSet(_ context.Context, values map[string]any, ttl time.Duration) error {
	for k, v := range values {
		encoded, err := encode(v)
		if err != nil {
			return err
		}
		c.set(k, encoded, ttl)
	}
	return nil
}

// Delete removes one or more keys
func (c *InMemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

// DeletePattern removes all keys matching a glob pattern
func (c *InMemoryCache) DeletePattern(_ context.Context, pattern string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	for k := range c.entries {
		matched, err := path.Match(pattern, k)
		if err != nil {
			return deleted, err
		}
		if matched {
			delete(c.entries, k)
			deleted++
		}
	}
	return deleted, nil
}

// Exists reports whether the key is present
func (c *InMemoryCache) Exists(_ context.Context, key string) (bool, error) {
	_, ok := c.get(key)
	return ok, nil
}

// TTL returns the remaining lifetime of a key
func (c *InMemoryCache) TTL(_ context.Context, key string) (time.Duration, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired() {
		return 0, ErrMiss
	}
	if e.expiresAt.IsZero() {
		return -1, nil
	}
	return time.Until(e.expiresAt), nil
}

// Close is a no-op for the in-memory cache
func (c *InMemoryCache) Close() error {
	return nil
}

var _ Cache = (*InMemoryCache)(nil)
