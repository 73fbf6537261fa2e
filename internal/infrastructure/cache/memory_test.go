package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	type payload struct {
		Name  string    `json:"name"`
		Value []float64 `json:"value"`
	}
	in := payload{Name: "x", Value: []float64{1, 2, 3}}
	require.NoError(t, c.Set(ctx, "k", in, 0))

	var out payload
	require.NoError(t, c.Get(ctx, "k", &out))
	assert.Equal(t, in, out)
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	var out string
	err := c.Get(context.Background(), "absent", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute).(*memoryCache)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))

	var out string
	require.NoError(t, c.Get(ctx, "k", &out))

	now = now.Add(2 * time.Second)
	err := c.Get(ctx, "k", &out)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	require.NoError(t, c.Delete(ctx, "a", "b"))

	var out int
	assert.ErrorIs(t, c.Get(ctx, "a", &out), ErrCacheMiss)
	assert.ErrorIs(t, c.Get(ctx, "b", &out), ErrCacheMiss)
}
