package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	t.Helper()

	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	return map[string]BlobStore{
		"memory": NewMemoryStore(),
		"local":  local,
	}
}

func TestPutOpenRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			payload := []byte("serialized tree bytes")
			require.NoError(t, store.Put(ctx, "tree.bin", payload))

			blob, err := store.Open(ctx, "tree.bin")
			require.NoError(t, err)
			defer blob.Close()

			assert.Equal(t, int64(len(payload)), blob.Size())

			got, err := ReadAll(blob)
			require.NoError(t, err)
			assert.Equal(t, payload, got)
		})
	}
}

func TestOpenMissing(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Open(ctx, "missing.bin")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestPutReplaces(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "tree.bin", []byte("v1")))
			require.NoError(t, store.Put(ctx, "tree.bin", []byte("v2-longer")))

			blob, err := store.Open(ctx, "tree.bin")
			require.NoError(t, err)
			defer blob.Close()

			got, err := ReadAll(blob)
			require.NoError(t, err)
			assert.Equal(t, []byte("v2-longer"), got)
		})
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "tree.bin", []byte("x")))
			require.NoError(t, store.Delete(ctx, "tree.bin"))

			_, err := store.Open(ctx, "tree.bin")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, store.Delete(ctx, "tree.bin"), ErrNotFound)
		})
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "trees/a.bin", []byte("a")))
			require.NoError(t, store.Put(ctx, "trees/b.bin", []byte("b")))
			require.NoError(t, store.Put(ctx, "other.bin", []byte("c")))

			names, err := store.List(ctx, "trees/")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"trees/a.bin", "trees/b.bin"}, names)
		})
	}
}

func TestReadAllEmpty(t *testing.T) {
	ctx := context.Background()

	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(ctx, "empty.bin", nil))

			blob, err := store.Open(ctx, "empty.bin")
			require.NoError(t, err)
			defer blob.Close()

			got, err := ReadAll(blob)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}
