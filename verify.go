package ktreego

import (
	"fmt"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
)

// verifyTolerance bounds the accepted absolute error between a stored
// centroid coordinate and the exact subtree mean, scaled by the mean's
// magnitude. Incremental updates between splits accumulate rounding error
// but stay well inside this bound.
const verifyTolerance = 1e-3

// Verify checks the structural and numerical invariants of the tree:
// order bounds, uniform leaf depth, parent back-pointers, consistent subtree
// counts, exact-membership of every object in one leaf, and centroids within
// tolerance of the exact subtree means. It is intended for tests and
// debugging, not the steady-state data path.
func (t *Tree) Verify() error {
	if t.root == nil {
		return fmt.Errorf("ktree: tree is closed")
	}
	if t.root.parent != nil {
		return fmt.Errorf("ktree: root has a parent")
	}

	leafDepth := t.Height() - 1
	seen := roaring.New()

	count, _, err := t.verifyNode(t.root, 0, leafDepth, seen)
	if err != nil {
		return err
	}
	if count != t.size {
		return fmt.Errorf("ktree: tree holds %d objects, expected %d", count, t.size)
	}
	return nil
}

// verifyNode returns the subtree object count and exact per-coordinate sums.
func (t *Tree) verifyNode(n *node, depth, leafDepth int, seen *roaring.Bitmap) (int, []float64, error) {
	if n.kind != leafNode && n.kind != internalNode {
		return 0, nil, fmt.Errorf("ktree: node at depth %d has invalid kind %d", depth, n.kind)
	}
	if len(n.centroid) != t.dimension {
		return 0, nil, fmt.Errorf("ktree: node at depth %d missing centroid", depth)
	}
	if n.entries() > t.order {
		return 0, nil, fmt.Errorf("ktree: node at depth %d holds %d entries, order is %d", depth, n.entries(), t.order)
	}

	sums := make([]float64, t.dimension)
	count := 0

	if n.isLeaf() {
		if depth != leafDepth {
			return 0, nil, fmt.Errorf("ktree: leaf at depth %d, expected %d", depth, leafDepth)
		}
		for _, m := range n.members {
			if m.leaf != n {
				return 0, nil, fmt.Errorf("ktree: object %d does not point back to its leaf", m.id)
			}
			if len(m.vector) != t.dimension {
				return 0, nil, fmt.Errorf("ktree: object %d has %d coordinates, expected %d", m.id, len(m.vector), t.dimension)
			}
			if seen.Contains(m.id) {
				return 0, nil, fmt.Errorf("ktree: object %d is a member of more than one leaf", m.id)
			}
			seen.Add(m.id)
			for d, x := range m.vector {
				sums[d] += float64(x)
			}
		}
		count = len(n.members)
	} else {
		if len(n.children) == 0 {
			return 0, nil, fmt.Errorf("ktree: internal node at depth %d has no children", depth)
		}
		for _, c := range n.children {
			if c.parent != n {
				return 0, nil, fmt.Errorf("ktree: child at depth %d does not point back to its parent", depth+1)
			}
			childCount, childSums, err := t.verifyNode(c, depth+1, leafDepth, seen)
			if err != nil {
				return 0, nil, err
			}
			if childCount != c.count {
				return 0, nil, fmt.Errorf("ktree: node at depth %d stores count %d, subtree holds %d", depth+1, c.count, childCount)
			}
			count += childCount
			for d, s := range childSums {
				sums[d] += s
			}
		}
	}

	if n.count != count {
		return 0, nil, fmt.Errorf("ktree: node at depth %d stores count %d, subtree holds %d", depth, n.count, count)
	}

	if count > 0 {
		inv := 1 / float64(count)
		for d := range sums {
			mean := sums[d] * inv
			got := float64(n.centroid[d])
			if diff := math.Abs(got - mean); diff > verifyTolerance*(1+math.Abs(mean)) {
				return 0, nil, fmt.Errorf("ktree: centroid[%d] at depth %d is %g, exact mean is %g", d, depth, got, mean)
			}
		}
	}

	return count, sums, nil
}
