package ktreego

import "github.com/hupe1980/ktreego/codec"

// NodeDump is the exported form of one tree node, nested children-inside-parent.
type NodeDump struct {
	Kind     string      `json:"kind"`
	Count    int         `json:"count"`
	Centroid []float32   `json:"centroid"`
	Children []*NodeDump `json:"children,omitempty"`
	Members  [][]float32 `json:"members,omitempty"`
}

// Dump renders the tree as a nested document for inspection. The binary
// format in WriteTo is the one meant for reconstruction; this one is for
// humans and downstream tooling.
func (t *Tree) Dump() *NodeDump {
	if t.root == nil {
		return nil
	}
	return dumpNode(t.root)
}

// Export encodes the dump with the given codec. A nil codec selects the
// default.
func (t *Tree) Export(c codec.Codec) ([]byte, error) {
	if c == nil {
		c = codec.Default
	}
	return c.Marshal(t.Dump())
}

func dumpNode(n *node) *NodeDump {
	d := &NodeDump{
		Count:    n.count,
		Centroid: n.centroid,
	}
	if n.isLeaf() {
		d.Kind = "leaf"
		d.Members = make([][]float32, len(n.members))
		for i, m := range n.members {
			d.Members[i] = m.vector
		}
		return d
	}
	d.Kind = "internal"
	d.Children = make([]*NodeDump, len(n.children))
	for i, c := range n.children {
		d.Children[i] = dumpNode(c)
	}
	return d
}
