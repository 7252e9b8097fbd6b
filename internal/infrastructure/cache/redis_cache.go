package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Cache on top of go-redis. Suitable for distributed
// deployments where multiple instances share cached state.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisCache creates a cache on an existing Redis client
func NewRedisCache(client *redis.Client, keyPrefix string) *RedisCache {
	if keyPrefix == "" {
		keyPrefix = "cache:"
	}
	return &RedisCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisCache) key(k string) string {
	return c.keyPrefix + k
}

// encode marshals struct values to JSON and passes strings and byte slices
// through unchanged
func encode(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("failed to marshal cache value: %w", err)
		}
		return string(data), nil
	}
}

// decode fills dest from the raw cached string, trying JSON first for
// non-string destinations
func decode(raw string, dest any) error {
	switch d := dest.(type) {
	case *string:
		*d = raw
		return nil
	case *[]byte:
		*d = []byte(raw)
		return nil
	default:
		if err := json.Unmarshal([]byte(raw), dest); err != nil {
			return fmt.Errorf("failed to unmarshal cache value: %w", err)
		}
		return nil
	}
}

// Get unmarshals the cached value into dest
func (c *RedisCache) Get(ctx context.Context, key string, dest any) error {
	raw, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("cache get failed: %w", err)
	}
	return decode(raw, dest)
}

// GetString returns the raw cached string
func (c *RedisCache) GetString(ctx context.Context, key string) (string, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", ErrMiss
	}
	if err != nil {
		return "", fmt.Errorf("cache get failed: %w", err)
	}
	return raw, nil
}

// Set stores a value with the given TTL
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	encoded, err := encode(value)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, c.key(key), encoded, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// SetNX stores a value only if the key does not exist
func (c *RedisCache) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	encoded, err := encode(value)
	if err != nil {
		return false, err
	}
	stored, err := c.client.SetNX(ctx, c.key(key), encoded, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache setnx failed: %w", err)
	}
	return stored, nil
}

// MGet fetches multiple keys in one round trip
func (c *RedisCache) MGet(ctx context.Context, keys ...string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}

	values, err := c.client.MGet(ctx, prefixed...).Result()
	if err != nil {
		return nil, fmt.Errorf("cache mget failed: %w", err)
	}

	result := make(map[string]string, len(keys))
	for i, v := range values {
		if s, ok := v.(string); ok {
			result[keys[i]] = s
		} else {
			result[keys[i]] = ""
		}
	}
	return result, nil
}

// MSet stores multiple key/value pairs with a shared TTL using a pipeline
func (c *RedisCache) MSet(ctx context.Context, values map[string]any, ttl time.Duration) error {
	if len(values) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for k, v := range values {
		encoded, err := encode(v)
		if err != nil {
			return err
		}
		pipe.Set(ctx, c.key(k), encoded, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache mset failed: %w", err)
	}
	return nil
}

// Delete removes one or more keys
func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = c.key(k)
	}
	if err := c.client.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// DeletePattern removes all keys matching a glob pattern using SCAN to
// avoid blocking Redis on large keyspaces
func (c *RedisCache) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	var cursor uint64

	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.key(pattern), 100).Result()
		if err != nil {
			return deleted, fmt.Errorf("cache scan failed: %w", err)
		}

		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("cache delete failed: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	return deleted, nil
}

// Exists reports whether the key is present
func (c *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists failed: %w", err)
	}
	return n > 0, nil
}

// TTL returns the remaining lifetime of a key
func (c *RedisCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, c.key(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("cache ttl failed: %w", err)
	}
	if ttl == -2 {
		return 0, ErrMiss
	}
	return ttl, nil
}

// Close closes the Redis client
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisCache) GetClient() *redis.Client {
	return c.client
}

var _ Cache = (*RedisCache)(nil)
