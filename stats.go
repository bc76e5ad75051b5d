package ktreego

import "github.com/hupe1980/ktreego/internal/arena"

// Stats describes the shape and memory footprint of a tree.
type Stats struct {
	Objects   int
	Nodes     int
	Leaves    int
	Internals int
	Height    int
	Splits    int
	Arena     arena.Stats
}

// Stats returns the current tree statistics.
func (t *Tree) Stats() Stats {
	s := Stats{
		Objects: t.size,
		Height:  t.Height(),
		Splits:  t.splits,
		Arena:   t.arena.Stats(),
	}
	t.walk(t.root, func(n *node) {
		s.Nodes++
		if n.isLeaf() {
			s.Leaves++
		} else {
			s.Internals++
		}
	})
	return s
}

// walk visits every node depth-first, parent before children.
func (t *Tree) walk(n *node, fn func(*node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.children {
		t.walk(c, fn)
	}
}
