package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/elite-connect/internal/cache"
	"github.com/oggyb/elite-connect/internal/config"
)

func newCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := &config.Config{}
	cfg.Redis.Addr = mr.Addr()
	c := cache.NewRedisCache(cfg)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestLikeCountRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	_, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache is a miss")

	require.NoError(t, c.SetLikeCount(ctx, 7, 3))
	assert.Equal(t, cache.LikeCountTTL, mr.TTL("likes:count:7"))

	mr.FastForward(30 * time.Minute)
	n, ok, err := c.GetLikeCount(ctx, 7)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, cache.LikeCountTTL, mr.TTL("likes:count:7"), "reads refresh the TTL")

	require.NoError(t, c.InvalidateLikeCount(ctx, 7))
	assert.False(t, mr.Exists("likes:count:7"))
}

func TestLikeCountGarbageIsMiss(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, mr.Set("likes:count:9", "not-a-number"))

	_, ok, err := c.GetLikeCount(ctx, 9)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLikeCountExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newCache(t)

	require.NoError(t, c.SetLikeCount(ctx, 5, 1))
	mr.FastForward(cache.LikeCountTTL + time.Second)

	_, ok, err := c.GetLikeCount(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}
