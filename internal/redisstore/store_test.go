package redisstore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/pmdash/internal/repository"
)

func newTestStore(t *testing.T, namespace string) (*KVStore, *miniredis.Miniredis) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err, "start miniredis")
	t.Cleanup(s.Close)

	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewKVStore(rdb, namespace), s
}

func TestKVStore_SetGetDelete(t *testing.T) {
	store, s := newTestStore(t, "pmdash:")
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.Equal(t, repository.ErrNotFound, err)

	require.NoError(t, store.Set(ctx, "k1", json.RawMessage(`{"a":1}`)))
	got, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(got))
	require.True(t, s.Exists("pmdash:k1"))

	require.NoError(t, store.Delete(ctx, "k1"))
	require.NoError(t, store.Delete(ctx, "k1"))
	_, err = store.Get(ctx, "k1")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestKVStore_GetByPrefix(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:u1:projects:p2", json.RawMessage(`"p2"`)))
	require.NoError(t, store.Set(ctx, "user:u1:projects:p1", json.RawMessage(`"p1"`)))
	require.NoError(t, store.Set(ctx, "user:u1:preferences", json.RawMessage(`{}`)))
	require.NoError(t, store.Set(ctx, "user:u2:projects:p3", json.RawMessage(`"p3"`)))

	values, err := store.GetByPrefix(ctx, "user:u1:projects:")
	require.NoError(t, err)
	require.Equal(t, []json.RawMessage{json.RawMessage(`"p1"`), json.RawMessage(`"p2"`)}, values)

	values, err = store.GetByPrefix(ctx, "user:nobody:projects:")
	require.NoError(t, err)
	require.Empty(t, values)
}

func TestKVStore_GetByPrefixEscapesGlob(t *testing.T) {
	store, _ := newTestStore(t, "")
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "user:ab:projects:p1", json.RawMessage(`1`)))

	values, err := store.GetByPrefix(ctx, "user:a?:projects:")
	require.NoError(t, err)
	require.Empty(t, values)
}
