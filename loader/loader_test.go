package loader

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	ctx := context.Background()
	input := "1.0 2.0\n3.0 4.0\n\n5.0 6.0\n"

	tree, n, err := Build(ctx, strings.NewReader(input), 4)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, 3, n)
	assert.Equal(t, 2, tree.Dimension())
	assert.Equal(t, 3, tree.Len())
	assert.NoError(t, tree.Verify())
}

func TestBuildSkipsBlankLines(t *testing.T) {
	ctx := context.Background()
	input := "\n\n1.0\n\n\n2.0\n\n"

	tree, n, err := Build(ctx, strings.NewReader(input), 2)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, 2, n)
	assert.Equal(t, 1, tree.Dimension())
}

func TestBuildDimensionFromFirstRecord(t *testing.T) {
	ctx := context.Background()

	tree, _, err := Build(ctx, strings.NewReader("1 2 3\n4 5 6\n"), 2)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, 3, tree.Dimension())
}

func TestBuildRejectsMismatchedRecord(t *testing.T) {
	ctx := context.Background()
	input := "1.0 2.0\n3.0\n"

	_, _, err := Build(ctx, strings.NewReader(input), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestBuildRejectsMalformedNumber(t *testing.T) {
	ctx := context.Background()
	input := "1.0 2.0\n3.0 four\n"

	_, _, err := Build(ctx, strings.NewReader(input), 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record 2")
}

func TestBuildEmptyInput(t *testing.T) {
	ctx := context.Background()

	_, _, err := Build(ctx, strings.NewReader("\n\n"), 4)
	assert.Error(t, err)
}

func TestBuildInvalidOrder(t *testing.T) {
	ctx := context.Background()

	_, _, err := Build(ctx, strings.NewReader("1.0\n"), 1)
	assert.Error(t, err)
}

func TestBuildFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "vectors.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 1\n2 2\n10 10\n11 11\n"), 0644))

	tree, n, err := BuildFile(ctx, path, 2)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, 4, n)
	assert.NoError(t, tree.Verify())
}

func TestBuildFileMissing(t *testing.T) {
	ctx := context.Background()

	_, _, err := BuildFile(ctx, filepath.Join(t.TempDir(), "missing.txt"), 2)
	assert.Error(t, err)
}

func TestInsertIntoExistingTree(t *testing.T) {
	ctx := context.Background()

	tree, _, err := Build(ctx, strings.NewReader("0 0\n"), 4)
	require.NoError(t, err)
	defer tree.Close()

	n, err := Insert(ctx, tree, strings.NewReader("1 1\n2 2\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 3, tree.Len())
	assert.NoError(t, tree.Verify())
}

func TestBuildParallelismDeterministic(t *testing.T) {
	ctx := context.Background()
	input := "1\n2\n10\n11\n20\n21\n30\n31\n"

	sequential, _, err := Build(ctx, strings.NewReader(input), 2, WithParallelism(1))
	require.NoError(t, err)
	defer sequential.Close()

	parallel, _, err := Build(ctx, strings.NewReader(input), 2, WithParallelism(8))
	require.NoError(t, err)
	defer parallel.Close()

	var seq, par strings.Builder
	_, err = sequential.WriteTo(&seq)
	require.NoError(t, err)
	_, err = parallel.WriteTo(&par)
	require.NoError(t, err)

	assert.Equal(t, seq.String(), par.String())
}
