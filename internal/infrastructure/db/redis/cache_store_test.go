package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheStore_SetStoresUnderPrefix(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "products-page-1", []byte(`{"page":1}`), time.Minute))

	raw, err := mr.Get("cache:products-page-1")
	require.NoError(t, err)
	assert.Equal(t, `{"page":1}`, raw)
	assert.False(t, mr.Exists("products-page-1"))
	assert.Equal(t, time.Minute, mr.TTL("cache:products-page-1"))

	v, ok, err := s.Get(ctx, "products-page-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte(`{"page":1}`), v)
}

func TestCacheStore_ZeroTTLNeverExpires(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)

	require.NoError(t, s.Set(context.Background(), "product-3", []byte("x"), 0))
	assert.Equal(t, time.Duration(0), mr.TTL("cache:product-3"))
}

func TestCacheStore_GetMissingKey(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)
	require.NoError(t, mr.Set("product-9", "unprefixed"))

	v, ok, err := s.Get(context.Background(), "product-9")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestCacheStore_GetExpiredKey(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users-1-page-1", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := s.Get(ctx, "users-1-page-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheStore_Delete(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "user-1", []byte("a"), 0))
	require.NoError(t, s.Set(ctx, "user-2", []byte("b"), 0))
	require.NoError(t, s.Set(ctx, "user-3", []byte("c"), 0))

	require.NoError(t, s.Delete(ctx, "user-1", "user-2", "user-404"))
	assert.False(t, mr.Exists("cache:user-1"))
	assert.False(t, mr.Exists("cache:user-2"))
	assert.True(t, mr.Exists("cache:user-3"))

	require.NoError(t, s.Delete(ctx))
}

func TestCacheStore_ServerDown(t *testing.T) {
	mr, client := newTestClient(t)
	s := NewCacheStore(client)
	mr.Close()

	_, _, err := s.Get(context.Background(), "user-1")
	assert.ErrorContains(t, err, "cache get")
}
