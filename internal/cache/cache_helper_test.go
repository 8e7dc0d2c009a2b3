package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewCacheHelper(client, "test:"), server
}

type cachedValue struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestCacheHelper_SetAndGet(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "value:1", cachedValue{Name: "letters", Count: 3}, time.Minute))

	var got cachedValue
	require.NoError(t, helper.Get(ctx, "value:1", &got))
	assert.Equal(t, "letters", got.Name)
	assert.Equal(t, 3, got.Count)
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestCache(t)

	var got cachedValue
	err := helper.Get(context.Background(), "missing", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_Expiry(t *testing.T) {
	helper, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "short", "gone soon", time.Second))
	server.FastForward(2 * time.Second)

	_, err := helper.GetString(ctx, "short")
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_Delete(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "a", "1", time.Minute))
	require.NoError(t, helper.SetString(ctx, "b", "2", time.Minute))

	require.NoError(t, helper.Delete(ctx, "a", "b"))

	exists, err := helper.Exists(ctx, "a")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, helper.SetString(ctx, "student:s1:summary", "x", time.Minute))
	require.NoError(t, helper.SetString(ctx, "student:s1:stats", "y", time.Minute))
	require.NoError(t, helper.SetString(ctx, "student:s2:summary", "z", time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "student:s1:*"))

	exists, err := helper.Exists(ctx, "student:s1:summary")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = helper.Exists(ctx, "student:s2:summary")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	fetch := func() (interface{}, error) {
		calls++
		return cachedValue{Name: "fetched", Count: calls}, nil
	}

	var first cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "expensive", &first, time.Minute, fetch))
	assert.Equal(t, 1, calls)
	assert.Equal(t, "fetched", first.Name)

	// The async cache write can lag behind; wait until the key appears.
	require.Eventually(t, func() bool {
		ok, err := helper.Exists(ctx, "expensive")
		return err == nil && ok
	}, time.Second, 10*time.Millisecond)

	var second cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "expensive", &second, time.Minute, fetch))
	assert.Equal(t, 1, calls, "second read must come from cache")
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "")
	ctx := context.Background()

	assert.NoError(t, helper.Set(ctx, "k", "v", time.Minute))
	assert.NoError(t, helper.Delete(ctx, "k"))

	var got string
	assert.ErrorIs(t, helper.Get(ctx, "k", &got), ErrCacheNotAvailable)

	_, err := helper.Exists(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheNotAvailable)

	// CacheOrExecute still serves the fetch result without a cache.
	var value cachedValue
	require.NoError(t, helper.CacheOrExecute(ctx, "k", &value, time.Minute, func() (interface{}, error) {
		return cachedValue{Name: "direct"}, nil
	}))
	assert.Equal(t, "direct", value.Name)
}

func TestCacheManager_NilClient(t *testing.T) {
	manager := NewCacheManager(nil)

	assert.ErrorIs(t, manager.HealthCheck(context.Background()), ErrCacheNotAvailable)
	assert.NoError(t, manager.ClearAll(context.Background()))
	assert.NoError(t, manager.InvalidateStudentProgress(context.Background(), "s1"))
}
