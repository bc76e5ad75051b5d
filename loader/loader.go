// Package loader is the input collaborator for tree construction: it turns a
// text file of whitespace-separated decimal vectors, one per non-blank line,
// into prototype-created objects and inserts them sequentially.
//
// Dimensionality is fixed by the first record. Records with a different
// coordinate count are rejected here, before anything reaches the tree.
package loader

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	ktree "github.com/hupe1980/ktreego"
)

// Options contains configuration options for the loader.
type Options struct {
	// Parallelism bounds the workers of the parse phase.
	// Zero selects GOMAXPROCS.
	Parallelism int

	// Logger receives progress logs. Nil disables logging.
	Logger *ktree.Logger
}

// DefaultOptions contains the default loader configuration.
var DefaultOptions = Options{}

// WithParallelism bounds the parse-phase workers.
func WithParallelism(n int) func(o *Options) {
	return func(o *Options) {
		o.Parallelism = n
	}
}

// WithLogger configures progress logging. Pass nil to disable.
func WithLogger(logger *ktree.Logger) func(o *Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

// BuildFile reads the vector file at path, fixes the dimensionality from its
// first record, and builds a tree of the given order from all records.
// It returns the built tree and the number of inserted vectors.
func BuildFile(ctx context.Context, path string, order int, optFns ...func(o *Options)) (*ktree.Tree, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot read vector file %q: %w", path, err)
	}
	defer f.Close()

	return Build(ctx, f, order, optFns...)
}

// Build reads vectors from r and builds a tree of the given order. The whole
// input is read up front, like the tree's original batch workflow: parse
// everything, then insert one record at a time.
func Build(ctx context.Context, r io.Reader, order int, optFns ...func(o *Options)) (*ktree.Tree, int, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = ktree.NoopLogger()
	}

	lines, err := readLines(r)
	if err != nil {
		return nil, 0, err
	}
	if len(lines) == 0 {
		return nil, 0, fmt.Errorf("input holds no vectors")
	}

	dimension := len(bytes.Fields(lines[0]))
	if dimension == 0 {
		return nil, 0, fmt.Errorf("first record holds no coordinates")
	}

	t, err := ktree.New(order, dimension, ktree.WithLogger(opts.Logger))
	if err != nil {
		return nil, 0, err
	}

	n, err := insertAll(ctx, t, lines, opts)
	opts.Logger.LogBuild(ctx, n, err)
	if err != nil {
		t.Close()
		return nil, 0, err
	}
	return t, n, nil
}

// Insert parses records of the tree's dimensionality from r and inserts them
// into an existing tree. It returns the number of inserted vectors.
func Insert(ctx context.Context, t *ktree.Tree, r io.Reader, optFns ...func(o *Options)) (int, error) {
	opts := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = ktree.NoopLogger()
	}

	lines, err := readLines(r)
	if err != nil {
		return 0, err
	}
	return insertAll(ctx, t, lines, opts)
}

// readLines splits the input into non-blank lines.
func readLines(r io.Reader) ([][]byte, error) {
	var lines [][]byte

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 64*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		// Scanner reuses its buffer; keep a copy.
		lines = append(lines, append([]byte(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func insertAll(ctx context.Context, t *ktree.Tree, lines [][]byte, opts Options) (int, error) {
	dimension := t.Dimension()

	// Objects come from the single-writer arena, so allocate them
	// sequentially; the coordinate parsing is what gets parallelized.
	objects := make([]*ktree.Object, len(lines))
	for i := range lines {
		o, err := t.Prototype().NewObject()
		if err != nil {
			return 0, err
		}
		objects[i] = o
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := range lines {
		i := i
		g.Go(func() error {
			return parseRecord(lines[i], i+1, dimension, objects[i].Vector())
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	progress := rate.Sometimes{Interval: time.Second}
	for i, o := range objects {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := t.Insert(o); err != nil {
			return i, fmt.Errorf("record %d: %w", i+1, err)
		}
		progress.Do(func() {
			opts.Logger.InfoContext(ctx, "inserting vectors", "done", i+1, "total", len(objects))
		})
	}
	return len(objects), nil
}

// parseRecord parses one whitespace-separated record into dst, enforcing the
// fixed dimensionality.
func parseRecord(line []byte, lineNo, dimension int, dst []float32) error {
	fields := bytes.Fields(line)
	if len(fields) != dimension {
		return fmt.Errorf("record %d holds %d coordinates, expected %d", lineNo, len(fields), dimension)
	}
	for d, field := range fields {
		v, err := strconv.ParseFloat(string(field), 32)
		if err != nil {
			return fmt.Errorf("record %d, coordinate %d: %w", lineNo, d+1, err)
		}
		dst[d] = float32(v)
	}
	return nil
}
