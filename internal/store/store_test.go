package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBackends(t *testing.T) map[string]KV {
	t.Helper()

	backends := make(map[string]KV)
	for _, kind := range []string{BackendSQLite, BackendFile, BackendMemory} {
		kv, err := Open(kind, t.TempDir())
		require.NoError(t, err, kind)
		t.Cleanup(func() { _ = kv.Close() })
		backends[kind] = kv
	}
	return backends
}

func TestKVGetMissing(t *testing.T) {
	ctx := context.Background()
	for kind, kv := range openBackends(t) {
		_, err := kv.Get(ctx, "nothing-here")
		assert.True(t, errors.Is(err, ErrNotFound), "%s: err = %v, want ErrNotFound", kind, err)
	}
}

func TestKVSetReplaces(t *testing.T) {
	ctx := context.Background()
	for kind, kv := range openBackends(t) {
		require.NoError(t, kv.Set(ctx, "slot", []byte(`[1]`)), kind)
		require.NoError(t, kv.Set(ctx, "slot", []byte(`[1,2]`)), kind)

		got, err := kv.Get(ctx, "slot")
		require.NoError(t, err, kind)
		assert.Equal(t, `[1,2]`, string(got), kind)
	}
}

func TestSQLiteReopenKeepsValue(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "blossom.db")

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "slot", []byte("kept")))
	require.NoError(t, db.Close())

	db, err = OpenSQLite(path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	got, err := db.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "kept", string(got))
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	f, err := OpenFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(context.Background(), "orangeblossomalliance-donations", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "orangeblossomalliance-donations.json", entries[0].Name())

	info, err := entries[0].Info()
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}
