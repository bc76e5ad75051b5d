package ktreego

import (
	"context"

	"github.com/hupe1980/ktreego/distance"
)

// split partitions an overflowing node's entries into two siblings with a
// deterministic 2-means pass and hooks them into the parent, recursing upward
// when the parent overflows in turn. The sibling centroids are exact means,
// which is where incremental drift accumulated since the last split is
// corrected.
func (t *Tree) split(n *node) error {
	if n.entries() <= t.order {
		panic("ktree: split on a node within its order bound")
	}

	vecs, weights := entryVectors(n)
	assign := t.twoMeans(n.centroid, vecs, weights)

	a, err := t.newNode(n.kind)
	if err != nil {
		return err
	}
	b, err := t.newNode(n.kind)
	if err != nil {
		return err
	}

	if n.isLeaf() {
		for i, m := range n.members {
			if assign[i] == 0 {
				a.members = append(a.members, m)
				m.leaf = a
			} else {
				b.members = append(b.members, m)
				m.leaf = b
			}
		}
	} else {
		for i, c := range n.children {
			if assign[i] == 0 {
				a.children = append(a.children, c)
				c.parent = a
			} else {
				b.children = append(b.children, c)
				c.parent = b
			}
		}
	}

	setExactMean(a, vecs, weights, assign, 0)
	setExactMean(b, vecs, weights, assign, 1)

	t.splits++
	t.opts.Logger.LogSplit(context.Background(), n.isLeaf(), n.depth(), len(vecs))

	if n == t.root {
		root, err := t.newNode(internalNode)
		if err != nil {
			return err
		}
		root.children = append(root.children, a, b)
		a.parent = root
		b.parent = root
		setExactMean(root, [][]float32{a.centroid, b.centroid}, []int{a.count, b.count}, []int{0, 0}, 0)
		t.root = root
		return nil
	}

	p := n.parent
	idx := -1
	for i, c := range p.children {
		if c == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic("ktree: node missing from its parent")
	}

	// The first sibling takes the original child position, the second goes
	// immediately after it.
	p.children = append(p.children, nil)
	copy(p.children[idx+2:], p.children[idx+1:])
	p.children[idx] = a
	p.children[idx+1] = b
	a.parent = p
	b.parent = p

	if len(p.children) > t.order {
		return t.split(p)
	}
	return nil
}

// entryVectors gathers the node's direct entries as vectors with object
// weights: member vectors with weight 1 for a leaf, child centroids weighted
// by subtree count for an internal node.
func entryVectors(n *node) ([][]float32, []int) {
	if n.isLeaf() {
		vecs := make([][]float32, len(n.members))
		weights := make([]int, len(n.members))
		for i, m := range n.members {
			vecs[i] = m.vector
			weights[i] = 1
		}
		return vecs, weights
	}

	vecs := make([][]float32, len(n.children))
	weights := make([]int, len(n.children))
	for i, c := range n.children {
		vecs[i] = c.centroid
		weights[i] = c.count
	}
	return vecs, weights
}

// twoMeans assigns every entry to one of two groups. Seeding is
// deterministic: seed A is the entry farthest from the node's current
// centroid, seed B the entry farthest from seed A, first-encountered winning
// on equal distances. The assign/recompute loop follows Lloyd's algorithm
// with an iteration cap.
func (t *Tree) twoMeans(centroid []float32, vecs [][]float32, weights []int) []int {
	seedA := farthest(vecs, centroid)
	seedB := farthest(vecs, vecs[seedA])

	copy(t.meanA, vecs[seedA])
	copy(t.meanB, vecs[seedB])

	assign := make([]int, len(vecs))
	for i := range assign {
		assign[i] = -1
	}

	for iter := 0; iter < t.opts.SplitIterations; iter++ {
		changed := false
		for i, v := range vecs {
			g := 0
			// Ties stay with the first group.
			if distance.SquaredL2(v, t.meanB) < distance.SquaredL2(v, t.meanA) {
				g = 1
			}
			if assign[i] != g {
				assign[i] = g
				changed = true
			}
		}
		if !changed {
			break
		}
		weightedMean(t.meanA, vecs, weights, assign, 0)
		weightedMean(t.meanB, vecs, weights, assign, 1)
	}

	// A group may converge empty (e.g. all entries identical). Move the entry
	// farthest from the surviving group's mean across so both siblings hold
	// at least one entry.
	fixEmptyGroup(assign, vecs, t.meanA, t.meanB)

	return assign
}

func farthest(vecs [][]float32, from []float32) int {
	best := 0
	bestDist := distance.SquaredL2(vecs[0], from)
	for i, v := range vecs[1:] {
		if d := distance.SquaredL2(v, from); d > bestDist {
			best = i + 1
			bestDist = d
		}
	}
	return best
}

func fixEmptyGroup(assign []int, vecs [][]float32, meanA, meanB []float32) {
	countA, countB := 0, 0
	for _, g := range assign {
		if g == 0 {
			countA++
		} else {
			countB++
		}
	}

	switch {
	case countB == 0:
		assign[farthest(vecs, meanA)] = 1
	case countA == 0:
		assign[farthest(vecs, meanB)] = 0
	}
}

// weightedMean recomputes dst as the weighted mean of the entries assigned to
// group g. An empty group keeps its previous mean.
func weightedMean(dst []float32, vecs [][]float32, weights []int, assign []int, g int) {
	var total int
	sums := make([]float64, len(dst))
	for i, v := range vecs {
		if assign[i] != g {
			continue
		}
		w := weights[i]
		total += w
		fw := float64(w)
		for d, x := range v {
			sums[d] += float64(x) * fw
		}
	}
	if total == 0 {
		return
	}
	inv := 1 / float64(total)
	for d := range dst {
		dst[d] = float32(sums[d] * inv)
	}
}

// setExactMean sets n's centroid to the exact weighted mean of its assigned
// entries and its count to the total weight.
func setExactMean(n *node, vecs [][]float32, weights []int, assign []int, g int) {
	var total int
	sums := make([]float64, len(n.centroid))
	for i, v := range vecs {
		if assign[i] != g {
			continue
		}
		w := weights[i]
		total += w
		fw := float64(w)
		for d, x := range v {
			sums[d] += float64(x) * fw
		}
	}
	if total == 0 {
		panic("ktree: split produced an empty sibling")
	}
	inv := 1 / float64(total)
	for d := range n.centroid {
		n.centroid[d] = float32(sums[d] * inv)
	}
	n.count = total
}
