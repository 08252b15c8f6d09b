package cache

import (
	"context"
	"testing"
	"time"

	"skillpath/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisWithClient(client, time.Minute, zap.NewNop()), mr
}

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedis_JSONRoundTripAndTTL(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	var out payload
	found, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, r.SetJSON(ctx, "k", payload{Name: "go", Count: 3}, 0))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	found, err = r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "go", Count: 3}, out)

	mr.FastForward(2 * time.Minute)
	found, err = r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedis_Delete(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	require.NoError(t, r.SetJSON(ctx, "k", 1, time.Second))
	require.NoError(t, r.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestRedis_LockIsExclusiveAndOwned(t *testing.T) {
	r, mr := newTestRedis(t)
	ctx := context.Background()

	ok, err := r.TryLock(ctx, "lock", "a", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.TryLock(ctx, "lock", "b", 10*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Unlock(ctx, "lock", "b"))
	assert.True(t, mr.Exists("lock"), "foreign token must not release")

	require.NoError(t, r.Unlock(ctx, "lock", "a"))
	assert.False(t, mr.Exists("lock"))

	ok, err = r.TryLock(ctx, "lock", "b", 10*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedis_UnavailableBypasses(t *testing.T) {
	r := NewRedis(context.Background(), config.RedisConfig{}, zap.NewNop())
	ctx := context.Background()

	assert.Error(t, r.Ping(ctx))
	require.NoError(t, r.SetJSON(ctx, "k", 1, 0))
	var out int
	found, err := r.GetJSON(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)

	ok, err := r.TryLock(ctx, "lock", "a", time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, r.Unlock(ctx, "lock", "a"))
}

func TestRedis_ServerDownReportsError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	r := NewRedisWithClient(client, 0, zap.NewNop())
	mr.Close()

	var out int
	_, err = r.GetJSON(context.Background(), "k", &out)
	assert.Error(t, err)
}
