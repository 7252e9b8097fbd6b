package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Count int    `json:"count"`
	Name  string `json:"name"`
}

func TestInMemoryCache_StructRoundTrip(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "snap", snapshot{Count: 3, Name: "orders"}, time.Minute))

	var got snapshot
	require.NoError(t, c.Get(ctx, "snap", &got))
	assert.Equal(t, snapshot{Count: 3, Name: "orders"}, got)
}

func TestInMemoryCache_StringPassthrough(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "raw", "plain value", 0))

	s, err := c.GetString(ctx, "raw")
	require.NoError(t, err)
	assert.Equal(t, "plain value", s)

	// String destination reads the raw value without JSON decoding
	var dest string
	require.NoError(t, c.Get(ctx, "raw", &dest))
	assert.Equal(t, "plain value", dest)
}

func TestInMemoryCache_Miss(t *testing.T) {
	c := NewInMemoryCache()

	_, err := c.GetString(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "gone", "v", -time.Second))

	_, err := c.GetString(ctx, "gone")
	assert.ErrorIs(t, err, ErrMiss)

	exists, err := c.Exists(ctx, "gone")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestInMemoryCache_SetNX(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	stored, err := c.SetNX(ctx, "lock", "a", time.Minute)
	require.NoError(t, err)
	assert.True(t, stored)

	stored, err = c.SetNX(ctx, "lock", "b", time.Minute)
	require.NoError(t, err)
	assert.False(t, stored)

	s, err := c.GetString(ctx, "lock")
	require.NoError(t, err)
	assert.Equal(t, "a", s)
}

func TestInMemoryCache_MGetMSet(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.MSet(ctx, map[string]any{
		"a": "1",
		"b": "2",
	}, time.Minute))

	got, err := c.MGet(ctx, "a", "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, "1", got["a"])
	assert.Equal(t, "2", got["b"])
	assert.Equal(t, "", got["missing"])
}

func TestInMemoryCache_DeletePattern(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "dashboard:today", "1", 0))
	require.NoError(t, c.Set(ctx, "dashboard:week", "2", 0))
	require.NoError(t, c.Set(ctx, "listing:1", "3", 0))

	deleted, err := c.DeletePattern(ctx, "dashboard:*")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	exists, err := c.Exists(ctx, "listing:1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestInMemoryCache_TTL(t *testing.T) {
	c := NewInMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "with-ttl", "v", time.Minute))
	ttl, err := c.TTL(ctx, "with-ttl")
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	require.NoError(t, c.Set(ctx, "no-ttl", "v", 0))
	ttl, err = c.TTL(ctx, "no-ttl")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(-1), ttl)

	_, err = c.TTL(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)
}
