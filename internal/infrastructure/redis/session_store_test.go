package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-conteo/internal/application/auth"
)

func newStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_SaveGetDelete(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	err := store.Save(ctx, auth.Session{ID: "s1", UserID: "u1", Username: "ana", Role: "admin", CreatedAt: created}, time.Hour)
	require.NoError(t, err)
	assert.True(t, mr.Exists("inventario:session:s1"))
	assert.Equal(t, time.Hour, mr.TTL("inventario:session:s1"))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ana", got.Username)
	assert.True(t, created.Equal(got.CreatedAt))

	require.NoError(t, store.Delete(ctx, "s1"))
	got, err = store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Delete(ctx, "s1"), "borrar dos veces no falla")
}

func TestSessionStore_Expira(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, auth.Session{ID: "s2", UserID: "u1"}, time.Minute))

	mr.FastForward(2 * time.Minute)

	got, err := store.Get(ctx, "s2")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_ValorCorrupto(t *testing.T) {
	store, mr := newStore(t)
	require.NoError(t, mr.Set("inventario:session:s3", "{no-json"))

	_, err := store.Get(context.Background(), "s3")
	assert.Error(t, err)
}

func TestNewClient_SinServidor(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient(context.Background(), configFor(addr))
	assert.Error(t, err)
}
