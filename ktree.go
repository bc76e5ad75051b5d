package ktreego

import (
	"github.com/hupe1980/ktreego/distance"
	"github.com/hupe1980/ktreego/internal/arena"
)

const (
	// MinOrder is the smallest accepted branching order.
	MinOrder = 2
	// MaxOrder is the largest accepted branching order.
	MaxOrder = 1_000_000
)

// Tree is a height-balanced n-ary clustering tree. Vectors routed to the same
// leaf are similar under squared Euclidean distance, and every node's
// centroid summarizes its subtree.
//
// Construction is single-writer: one Insert completes (including splits and
// centroid propagation) before the next begins. Callers needing concurrent
// access must serialize externally.
type Tree struct {
	order     int
	dimension int

	arena   *arena.Arena
	nodes   *arena.Pool[node]
	objects *arena.Pool[Object]

	root   *node
	proto  *Prototype
	size   int
	splits int
	nextID uint32

	// scratch buffers reused across splits
	meanA []float32
	meanB []float32

	opts Options
}

// New creates a clustering tree with the given branching order and
// dimensionality. Order must be in [MinOrder, MaxOrder] and dimension
// positive; both are validated before any allocation.
func New(order, dimension int, optFns ...func(o *Options)) (*Tree, error) {
	if order < MinOrder || order > MaxOrder {
		return nil, ErrInvalidOrder
	}
	if dimension <= 0 {
		return nil, &ErrInvalidDimension{Dimension: dimension}
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	var arenaOpts []arena.Option
	if opts.ArenaChunkSize > 0 {
		arenaOpts = append(arenaOpts, arena.WithChunkSize(opts.ArenaChunkSize))
	}

	t := &Tree{
		order:     order,
		dimension: dimension,
		arena:     arena.New(arenaOpts...),
		nodes:     arena.NewPool[node](0),
		objects:   arena.NewPool[Object](0),
		meanA:     make([]float32, dimension),
		meanB:     make([]float32, dimension),
		opts:      opts,
	}
	t.proto = &Prototype{tree: t}

	root, err := t.newNode(leafNode)
	if err != nil {
		return nil, err
	}
	t.root = root

	return t, nil
}

// Order returns the branching order B.
func (t *Tree) Order() int { return t.order }

// Dimension returns the fixed dimensionality D.
func (t *Tree) Dimension() int { return t.dimension }

// Len returns the number of inserted objects.
func (t *Tree) Len() int { return t.size }

// Height returns the number of levels in the tree. A tree that is a single
// leaf has height 1.
func (t *Tree) Height() int {
	h := 1
	for n := t.root; !n.isLeaf(); n = n.children[0] {
		h++
	}
	return h
}

// Prototype returns the factory used to create objects for this tree.
func (t *Tree) Prototype() *Prototype { return t.proto }

// Close releases all tree memory in one step. Every Object and coordinate
// slice obtained from this tree becomes invalid.
func (t *Tree) Close() {
	t.arena.Free()
	t.nodes.Drop()
	t.objects.Drop()
	t.root = nil
}

func (t *Tree) newNode(kind nodeKind) (*node, error) {
	centroid, err := t.arena.AllocFloat32Slice(t.dimension)
	if err != nil {
		return nil, err
	}

	n := t.nodes.Alloc()
	n.kind = kind
	n.centroid = centroid
	return n, nil
}

// Insert routes the object to the nearest leaf, appends it, updates centroids
// along the path, and splits overflowing nodes. The object must come from
// this tree's prototype with fully populated coordinates; inserting it twice
// is an error. On rejection the tree is unchanged.
func (t *Tree) Insert(o *Object) error {
	if o == nil {
		return ErrNilObject
	}
	if len(o.vector) != t.dimension {
		return &ErrDimensionMismatch{Expected: t.dimension, Actual: len(o.vector)}
	}
	if o.leaf != nil {
		return ErrObjectInserted
	}

	leaf := t.route(o.vector)

	leaf.members = append(leaf.members, o)
	o.leaf = leaf

	// Incremental mean update from the leaf up to the root, each level
	// weighted by its pre-insert subtree count.
	for n := leaf; n != nil; n = n.parent {
		updateMean(n.centroid, o.vector, n.count)
		n.count++
	}
	t.size++

	if len(leaf.members) > t.order {
		if err := t.split(leaf); err != nil {
			return err
		}
	}
	return nil
}

// route descends from the root to the leaf whose centroid is nearest to v.
// Ties keep the first-encountered child, so routing is deterministic.
func (t *Tree) route(v []float32) *node {
	cur := t.root
	for !cur.isLeaf() {
		best := cur.children[0]
		bestDist := distance.SquaredL2(v, best.centroid)
		for _, child := range cur.children[1:] {
			if d := distance.SquaredL2(v, child.centroid); d < bestDist {
				best = child
				bestDist = d
			}
		}
		cur = best
	}
	return cur
}
