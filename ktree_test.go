package ktreego

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func insertVector(t *testing.T, tree *Tree, coords ...float32) *Object {
	t.Helper()

	o, err := tree.Prototype().NewObject()
	require.NoError(t, err)
	copy(o.Vector(), coords)
	require.NoError(t, tree.Insert(o))
	return o
}

// leaves returns every leaf's member vectors, left to right.
func leaves(tree *Tree) [][][]float32 {
	var out [][][]float32
	tree.walk(tree.root, func(n *node) {
		if n.isLeaf() {
			members := make([][]float32, len(n.members))
			for i, m := range n.members {
				members[i] = m.vector
			}
			out = append(out, members)
		}
	})
	return out
}

func TestNewValidation(t *testing.T) {
	// Order 1 is rejected before any allocation.
	_, err := New(1, 2)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = New(1_000_001, 2)
	assert.ErrorIs(t, err, ErrInvalidOrder)

	_, err = New(2, 0)
	var invalidDim *ErrInvalidDimension
	assert.ErrorAs(t, err, &invalidDim)

	tree, err := New(2, 1)
	require.NoError(t, err)
	tree.Close()
}

func TestSingleLeafNoSplit(t *testing.T) {
	// Fewer than order+1 vectors keep the tree a single leaf: root == leaf.
	tree, err := New(4, 2)
	require.NoError(t, err)
	defer tree.Close()

	insertVector(t, tree, 1, 1)
	insertVector(t, tree, 2, 2)
	insertVector(t, tree, 3, 3)
	insertVector(t, tree, 4, 4)

	assert.Equal(t, 1, tree.Height())
	assert.True(t, tree.root.isLeaf())
	assert.Equal(t, 4, tree.Len())
	assert.Zero(t, tree.Stats().Splits)
	assert.NoError(t, tree.Verify())

	assert.InDelta(t, 2.5, tree.root.centroid[0], 1e-6)
	assert.InDelta(t, 2.5, tree.root.centroid[1], 1e-6)
}

func TestTwoClusterSplit(t *testing.T) {
	// order=2, dim=1, [1, 2, 10, 11] ends as two leaves {1,2} and {10,11}
	// under a single root.
	tree, err := New(2, 1)
	require.NoError(t, err)
	defer tree.Close()

	for _, v := range []float32{1, 2, 10, 11} {
		insertVector(t, tree, v)
	}

	require.NoError(t, tree.Verify())
	assert.Equal(t, 2, tree.Height())

	got := leaves(tree)
	require.Len(t, got, 2)
	assert.ElementsMatch(t,
		[][][]float32{{{1}, {2}}, {{10}, {11}}},
		got,
	)

	// Leaf centroids are the exact means of their members.
	var centroids []float32
	tree.walk(tree.root, func(n *node) {
		if n.isLeaf() {
			centroids = append(centroids, n.centroid[0])
		}
	})
	assert.ElementsMatch(t, []float32{1.5, 10.5}, centroids)

	// Root centroid is the mean of all four values.
	assert.InDelta(t, 6.0, tree.root.centroid[0], 1e-5)
}

func TestDimensionMismatchLeavesTreeUnchanged(t *testing.T) {
	tree, err := New(4, 2)
	require.NoError(t, err)
	defer tree.Close()

	insertVector(t, tree, 1, 1)

	other, err := New(4, 3)
	require.NoError(t, err)
	defer other.Close()

	o, err := other.Prototype().NewObject()
	require.NoError(t, err)

	err = tree.Insert(o)
	var mismatch *ErrDimensionMismatch
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, mismatch.Expected)
	assert.Equal(t, 3, mismatch.Actual)

	assert.Equal(t, 1, tree.Len())
	assert.NoError(t, tree.Verify())
}

func TestInsertTwice(t *testing.T) {
	tree, err := New(4, 1)
	require.NoError(t, err)
	defer tree.Close()

	o := insertVector(t, tree, 1)

	assert.ErrorIs(t, tree.Insert(o), ErrObjectInserted)
	assert.Equal(t, 1, tree.Len())
}

func TestInsertNil(t *testing.T) {
	tree, err := New(4, 1)
	require.NoError(t, err)
	defer tree.Close()

	assert.ErrorIs(t, tree.Insert(nil), ErrNilObject)
}

func TestHeightBalance(t *testing.T) {
	// Verify checks that all leaves share one depth; drive it through
	// enough inserts to force several levels of splits.
	tree, err := New(3, 2)
	require.NoError(t, err)
	defer tree.Close()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		insertVector(t, tree, rng.Float32()*100, rng.Float32()*100)
	}

	require.NoError(t, tree.Verify())
	assert.Equal(t, 500, tree.Len())
	assert.Greater(t, tree.Height(), 2)
}

func TestRootCentroidMatchesReference(t *testing.T) {
	tree, err := New(4, 3)
	require.NoError(t, err)
	defer tree.Close()

	rng := rand.New(rand.NewSource(7))
	sums := make([]float64, 3)
	n := 200
	for i := 0; i < n; i++ {
		v := []float32{rng.Float32() * 10, rng.Float32() * 10, rng.Float32() * 10}
		insertVector(t, tree, v...)
		floats.Add(sums, []float64{float64(v[0]), float64(v[1]), float64(v[2])})
	}

	mean := make([]float64, 3)
	floats.AddScaled(mean, 1/float64(n), sums)

	for d := 0; d < 3; d++ {
		assert.InDelta(t, mean[d], float64(tree.root.centroid[d]), 1e-2)
	}
}

func TestIdenticalVectors(t *testing.T) {
	// All-identical input exercises the empty-group guard in the split.
	tree, err := New(2, 2)
	require.NoError(t, err)
	defer tree.Close()

	for i := 0; i < 20; i++ {
		insertVector(t, tree, 5, 5)
	}

	require.NoError(t, tree.Verify())
	assert.Equal(t, 20, tree.Len())
	assert.InDelta(t, 5.0, tree.root.centroid[0], 1e-6)
}

func TestRoutingTieDeterministic(t *testing.T) {
	// Same insert sequence twice gives byte-identical trees even when
	// candidates are equidistant.
	build := func() *Tree {
		tree, err := New(2, 1)
		require.NoError(t, err)
		for _, v := range []float32{0, 4, 2, 2, 2, 6, -2} {
			insertVector(t, tree, v)
		}
		return tree
	}

	a := build()
	defer a.Close()
	b := build()
	defer b.Close()

	var bufA, bufB []byte
	{
		var w sliceWriter
		_, err := a.WriteTo(&w)
		require.NoError(t, err)
		bufA = w.data
	}
	{
		var w sliceWriter
		_, err := b.WriteTo(&w)
		require.NoError(t, err)
		bufB = w.data
	}
	assert.Equal(t, bufA, bufB)
}

type sliceWriter struct {
	data []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func TestStats(t *testing.T) {
	tree, err := New(2, 1)
	require.NoError(t, err)
	defer tree.Close()

	for _, v := range []float32{1, 2, 10, 11} {
		insertVector(t, tree, v)
	}

	stats := tree.Stats()
	assert.Equal(t, 4, stats.Objects)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 2, stats.Leaves)
	assert.Equal(t, 1, stats.Internals)
	assert.Equal(t, 2, stats.Height)
	assert.Equal(t, 1, stats.Splits)
	assert.Positive(t, stats.Arena.TotalAllocs)
}

func TestPrototypeDimension(t *testing.T) {
	tree, err := New(4, 7)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, 7, tree.Prototype().Dimension())

	o, err := tree.Prototype().NewObject()
	require.NoError(t, err)
	assert.Equal(t, 7, o.Dimension())
	for _, v := range o.Vector() {
		assert.Zero(t, v)
	}
}

func TestObjectIDsSequential(t *testing.T) {
	tree, err := New(4, 1)
	require.NoError(t, err)
	defer tree.Close()

	a, err := tree.Prototype().NewObject()
	require.NoError(t, err)
	b, err := tree.Prototype().NewObject()
	require.NoError(t, err)

	assert.Equal(t, uint32(0), a.ID())
	assert.Equal(t, uint32(1), b.ID())
}

func TestClose(t *testing.T) {
	tree, err := New(4, 2)
	require.NoError(t, err)

	insertVector(t, tree, 1, 2)
	tree.Close()

	assert.Error(t, tree.Verify())
	_, err = tree.Prototype().NewObject()
	assert.Error(t, err)
}

func TestLargeOrderAccepted(t *testing.T) {
	tree, err := New(1_000_000, 1)
	require.NoError(t, err)
	defer tree.Close()

	insertVector(t, tree, 1)
	assert.NoError(t, tree.Verify())
}
