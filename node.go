package ktreego

type nodeKind uint8

const (
	leafNode nodeKind = iota + 1
	internalNode
)

// node is a tree node bounded by the tree's order. A leaf holds member
// objects; an internal node holds child nodes. Both carry the coordinate-wise
// mean of every object in their subtree and the subtree object count.
type node struct {
	kind     nodeKind
	parent   *node
	centroid []float32
	count    int // objects in this subtree

	children []*node   // internal only, insertion-ordered
	members  []*Object // leaf only, insertion-ordered
}

func (n *node) isLeaf() bool {
	return n.kind == leafNode
}

// entries returns the number of direct children or members.
func (n *node) entries() int {
	if n.isLeaf() {
		return len(n.members)
	}
	return len(n.children)
}

// depth returns the distance from n to the root.
func (n *node) depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// updateMean folds v into the running mean c that currently summarizes n
// entries: c' = c + (v - c)/(n+1).
func updateMean(c, v []float32, n int) {
	inv := 1 / float32(n+1)
	for i := range c {
		c[i] += (v[i] - c[i]) * inv
	}
}
