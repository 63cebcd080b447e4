package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "amazing grace", Normalize("  Amazing   GRACE "))
	assert.Equal(t, "", Normalize("   "))
}

func TestNopCache(t *testing.T) {
	var c Cache = NopCache{}
	require.NoError(t, c.Set(context.Background(), 0, "q", &models.Results{}))
	_, ok, err := c.Get(context.Background(), 0, "q")
	require.NoError(t, err)
	assert.False(t, ok)
}

// Runs against a real server when LINEUP_TEST_REDIS_ADDR is set
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("LINEUP_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("LINEUP_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := NewRedisCache(ctx, addr, time.Minute)
	require.NoError(t, err)
	defer c.Close()
	c.prefix = "lineup:test:" + t.Name() + ":"

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	_, ok, err := c.Get(ctx, gen, "grace")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, gen, "Grace", &models.Results{Query: "Grace", Total: 2}))
	got, ok, err := c.Get(ctx, gen, " grace ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Total)

	require.NoError(t, c.Invalidate(ctx))
	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	_, ok, err = c.Get(ctx, next, "grace")
	require.NoError(t, err)
	assert.False(t, ok)

	// a write computed before the invalidation stays unreachable
	require.NoError(t, c.Set(ctx, gen, "grace", &models.Results{Query: "grace", Total: 9}))
	_, ok, err = c.Get(ctx, next, "grace")
	require.NoError(t, err)
	assert.False(t, ok)
}
