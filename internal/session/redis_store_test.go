package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client), mr
}

func TestRedisStoreLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t)

	s := Session{
		SessionID: "sid-1",
		UserID:    "u1",
		Provider:  "google",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, store.Create(ctx, s))

	ttl := mr.TTL(defaultPrefix + "sid-1")
	assert.Greater(t, ttl, 59*time.Minute)

	got, err := store.Get(ctx, "sid-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, s.Provider, got.Provider)
	assert.True(t, s.ExpiresAt.Equal(got.ExpiresAt))

	s.ExpiresAt = time.Now().Add(2 * time.Hour)
	require.NoError(t, store.Update(ctx, s))
	assert.Greater(t, mr.TTL(defaultPrefix+"sid-1"), 119*time.Minute)

	require.NoError(t, store.Delete(ctx, "sid-1"))
	got, err = store.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreCreateValidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)

	err := store.Create(ctx, Session{SessionID: "sid", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, ErrInvalid)

	err = store.Create(ctx, Session{SessionID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)})
	require.ErrorContains(t, err, "must be in the future")
}

func TestRedisStoreCreateDoesNotOverwrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := newTestStore(t)

	s := Session{SessionID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, s))

	s.UserID = "u2"
	require.ErrorIs(t, store.Create(ctx, s), ErrExists)

	got, err := store.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
}

func TestRedisStoreUpdateMissing(t *testing.T) {
	t.Parallel()

	store, mr := newTestStore(t)

	err := store.Update(context.Background(), Session{SessionID: "gone", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)})
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, mr.Exists(defaultPrefix+"gone"))
}

func TestRedisStoreKeyPrefix(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, WithKeyPrefix("test:"))
	require.NoError(t, store.Create(context.Background(), Session{SessionID: "sid", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.True(t, mr.Exists("test:sid"))
}

func TestRedisStoreUpdateExpiredDeletes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t)

	s := Session{SessionID: "sid-2", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, s))

	s.ExpiresAt = time.Now().Add(-time.Second)
	require.NoError(t, store.Update(ctx, s))
	assert.False(t, mr.Exists(defaultPrefix+"sid-2"))
}

func TestRedisStoreExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, mr := newTestStore(t)

	require.NoError(t, store.Create(ctx, Session{SessionID: "sid-3", UserID: "u1", ExpiresAt: time.Now().Add(time.Minute)}))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "sid-3")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGenerateID(t *testing.T) {
	t.Parallel()

	a, err := GenerateID()
	require.NoError(t, err)
	b, err := GenerateID()
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
}
