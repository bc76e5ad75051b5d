package ktreego

import (
	"bytes"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/ktreego/persistence"
)

func buildTestTree(t *testing.T, order, dim, n int) *Tree {
	t.Helper()

	tree, err := New(order, dim)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		coords := make([]float32, dim)
		for d := range coords {
			coords[d] = rng.Float32() * 100
		}
		insertVector(t, tree, coords...)
	}
	return tree
}

func TestWriteReadRoundTrip(t *testing.T) {
	tree := buildTestTree(t, 3, 2, 100)
	defer tree.Close()

	var buf bytes.Buffer
	n, err := tree.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got, err := Read(&buf)
	require.NoError(t, err)
	defer got.Close()

	assert.Equal(t, tree.Order(), got.Order())
	assert.Equal(t, tree.Dimension(), got.Dimension())
	assert.Equal(t, tree.Len(), got.Len())
	assert.Equal(t, tree.Height(), got.Height())
	assert.NoError(t, got.Verify())

	// Same node kinds, counts, and member vectors.
	assert.Equal(t, tree.Dump(), got.Dump())
}

func TestWriteIdempotent(t *testing.T) {
	tree := buildTestTree(t, 4, 3, 60)
	defer tree.Close()

	var first, second bytes.Buffer
	_, err := tree.WriteTo(&first)
	require.NoError(t, err)
	_, err = tree.WriteTo(&second)
	require.NoError(t, err)

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestCompressedRoundTrip(t *testing.T) {
	tree := buildTestTree(t, 3, 4, 80)
	defer tree.Close()

	for _, c := range []persistence.Compression{
		persistence.CompressionZstd,
		persistence.CompressionLZ4,
	} {
		t.Run(c.String(), func(t *testing.T) {
			var buf bytes.Buffer
			_, err := tree.WriteCompressed(&buf, c)
			require.NoError(t, err)

			got, err := Read(&buf)
			require.NoError(t, err)
			defer got.Close()

			assert.NoError(t, got.Verify())
			assert.Equal(t, tree.Dump(), got.Dump())
		})
	}
}

func TestRoundTripPreservesIDs(t *testing.T) {
	tree := buildTestTree(t, 2, 1, 10)
	defer tree.Close()

	var buf bytes.Buffer
	_, err := tree.WriteTo(&buf)
	require.NoError(t, err)

	got, err := Read(&buf)
	require.NoError(t, err)
	defer got.Close()

	ids := map[uint32]bool{}
	got.walk(got.root, func(n *node) {
		for _, m := range n.members {
			ids[m.id] = true
		}
	})
	assert.Len(t, ids, 10)
	for id := uint32(0); id < 10; id++ {
		assert.True(t, ids[id])
	}

	// Loaded trees accept further inserts with fresh IDs.
	o, err := got.Prototype().NewObject()
	require.NoError(t, err)
	assert.Equal(t, uint32(10), o.ID())
	require.NoError(t, got.Insert(o))
	assert.NoError(t, got.Verify())
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("not a tree file at all, just text")))
	assert.Error(t, err)
}

func TestReadRejectsTruncated(t *testing.T) {
	tree := buildTestTree(t, 2, 1, 20)
	defer tree.Close()

	var buf bytes.Buffer
	_, err := tree.WriteTo(&buf)
	require.NoError(t, err)

	_, err = Read(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	tree := buildTestTree(t, 3, 2, 50)
	defer tree.Close()

	path := filepath.Join(t.TempDir(), "tree.bin")
	require.NoError(t, tree.SaveToFile(path, persistence.CompressionZstd))

	got, err := LoadFromFile(path)
	require.NoError(t, err)
	defer got.Close()

	assert.NoError(t, got.Verify())
	assert.Equal(t, tree.Dump(), got.Dump())
}

func TestWriteEmptyTree(t *testing.T) {
	tree, err := New(4, 2)
	require.NoError(t, err)
	defer tree.Close()

	var buf bytes.Buffer
	_, err = tree.WriteTo(&buf)
	require.NoError(t, err)

	got, err := Read(&buf)
	require.NoError(t, err)
	defer got.Close()

	assert.Zero(t, got.Len())
	assert.Equal(t, 1, got.Height())
	assert.NoError(t, got.Verify())
}
