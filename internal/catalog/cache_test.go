package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/film-dashboard/internal/model"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	_, ok, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	tbl := NewTable([]model.Film{{ID: "1", Name: "Roma"}})
	require.NoError(t, c.Put(ctx, "s1", tbl))
	got, ok, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, tbl, got)

	require.NoError(t, c.Delete(ctx, "s1"))
	_, ok, _ = c.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "s1", EmptyTable()))
	now = now.Add(2 * time.Minute)
	_, ok, _ := c.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestRedisCacheRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	ctx := context.Background()
	c := NewRedisCache(rdb, "test", time.Hour)

	_, ok, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	tbl := NewTable([]model.Film{{ID: "1", Name: "Roma", Director: "Alfonso Cuarón"}})
	require.NoError(t, c.Put(ctx, "s1", tbl))
	assert.True(t, mr.Exists("test:s1"))
	assert.Equal(t, time.Hour, mr.TTL("test:s1"))

	got, ok, err := c.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tbl, got)
	assert.True(t, got.HasColumn(ColumnDirector))

	require.NoError(t, c.Delete(ctx, "s1"))
	assert.False(t, mr.Exists("test:s1"))
}

func TestRedisCacheCorruptPayload(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	require.NoError(t, mr.Set("films:session:s1", "not json"))

	_, ok, err := NewRedisCache(rdb, "", 0).Get(context.Background(), "s1")
	assert.Error(t, err)
	assert.False(t, ok)
}
