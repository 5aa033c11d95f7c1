package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]KV {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	b, err := OpenBolt(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	sq, err := OpenSQLite(ctx, filepath.Join(dir, "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })

	mr := miniredis.RunT(t)
	rd := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { rd.Close() })

	return map[string]KV{
		"bolt":   b,
		"sqlite": sq,
		"redis":  rd,
		"memory": NewMemory(),
	}
}

func TestKV_Contract(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Set(ctx, "k", []byte(`{"a":1}`)))
			v, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `{"a":1}`, string(v))

			require.NoError(t, kv.Set(ctx, "k", []byte("second")))
			v, _, _ = kv.Get(ctx, "k")
			assert.Equal(t, "second", string(v))

			require.NoError(t, kv.Delete(ctx, "k"))
			_, ok, err = kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.False(t, ok)

			assert.NoError(t, kv.Delete(ctx, "never-set"))
		})
	}
}

func TestBolt_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "kv.db")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "sketchflow:active-id", []byte("abc")))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()
	v, ok, err := b.Get(ctx, "sketchflow:active-id")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", string(v))
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{"", DriverBolt, DriverSQLite, DriverMemory} {
		kv, err := Open(ctx, Options{Driver: driver, Dir: filepath.Join(dir, driver+"x")})
		require.NoError(t, err, driver)
		require.NoError(t, kv.Close())
	}

	mr := miniredis.RunT(t)
	kv, err := Open(ctx, Options{Driver: DriverRedis, RedisAddr: mr.Addr()})
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	_, err = Open(ctx, Options{Driver: "etcd"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestMemory_FailWrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "k", []byte("v")))

	boom := errors.New("disk full")
	m.FailWrites(boom)
	assert.ErrorIs(t, m.Set(ctx, "k", []byte("w")), boom)
	v, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "v", string(v))

	m.FailWrites(nil)
	assert.NoError(t, m.Set(ctx, "k", []byte("w")))
}
