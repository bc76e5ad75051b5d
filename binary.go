package ktreego

import (
	"fmt"
	"io"

	"github.com/hupe1980/ktreego/persistence"
)

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

// WriteTo writes the tree to w in binary format: a fixed header followed by
// a depth-first, parent-before-children node stream. The encoding is
// deterministic; writing the same tree twice yields identical bytes.
//
// It matches the io.WriterTo interface for toolchain friendliness.
func (t *Tree) WriteTo(w io.Writer) (int64, error) {
	return t.WriteCompressed(w, persistence.CompressionNone)
}

// WriteCompressed writes the tree with the node stream compressed by the
// given codec. The header stays uncompressed so readers can select the codec.
func (t *Tree) WriteCompressed(w io.Writer, c persistence.Compression) (int64, error) {
	if t.root == nil {
		return 0, fmt.Errorf("ktree: tree is closed")
	}

	cw := &countingWriter{w: w}

	header := &persistence.FileHeader{
		Compression: uint8(c),
		Order:       uint32(t.order),
		Dimension:   uint32(t.dimension),
		ObjectCount: uint64(t.size),
		NodeCount:   uint64(countNodes(t.root)),
	}
	if err := persistence.NewWriter(cw).WriteHeader(header); err != nil {
		return cw.n, err
	}

	body, err := persistence.NewCompressor(cw, c)
	if err != nil {
		return cw.n, err
	}
	if err := writeNode(persistence.NewWriter(body), t.root); err != nil {
		return cw.n, err
	}
	if err := body.Close(); err != nil {
		return cw.n, err
	}

	return cw.n, nil
}

// SaveToFile saves the tree to a file atomically.
func (t *Tree) SaveToFile(filename string, c persistence.Compression) error {
	return persistence.SaveToFile(filename, func(w io.Writer) error {
		_, err := t.WriteCompressed(w, c)
		return err
	})
}

func countNodes(n *node) int {
	total := 1
	for _, c := range n.children {
		total += countNodes(c)
	}
	return total
}

func writeNode(bw *persistence.Writer, n *node) error {
	if err := bw.WriteUint8(uint8(n.kind)); err != nil {
		return err
	}
	if err := bw.WriteUint32(uint32(n.entries())); err != nil {
		return err
	}
	if err := bw.WriteUint64(uint64(n.count)); err != nil {
		return err
	}
	if err := bw.WriteFloat32Slice(n.centroid); err != nil {
		return err
	}

	if n.isLeaf() {
		for _, m := range n.members {
			if err := bw.WriteUint32(m.id); err != nil {
				return err
			}
			if err := bw.WriteFloat32Slice(m.vector); err != nil {
				return err
			}
		}
		return nil
	}

	for _, c := range n.children {
		if err := writeNode(bw, c); err != nil {
			return err
		}
	}
	return nil
}

// Read reconstructs a tree from the binary format produced by WriteTo.
func Read(r io.Reader, optFns ...func(o *Options)) (*Tree, error) {
	header, err := persistence.NewReader(r).ReadHeader()
	if err != nil {
		return nil, err
	}

	t, err := New(int(header.Order), int(header.Dimension), optFns...)
	if err != nil {
		return nil, err
	}

	body, err := persistence.NewDecompressor(r, persistence.Compression(header.Compression))
	if err != nil {
		return nil, err
	}
	if bc, ok := body.(io.Closer); ok {
		defer bc.Close()
	}
	br := persistence.NewReader(body)

	nodesRead := 0
	root, err := t.readNode(br, &nodesRead)
	if err != nil {
		return nil, err
	}
	if uint64(nodesRead) != header.NodeCount {
		return nil, fmt.Errorf("ktree: read %d nodes, header claims %d", nodesRead, header.NodeCount)
	}
	if uint64(root.count) != header.ObjectCount {
		return nil, fmt.Errorf("ktree: read %d objects, header claims %d", root.count, header.ObjectCount)
	}

	t.root = root
	t.size = root.count
	return t, nil
}

// LoadFromFile loads a tree from a file.
func LoadFromFile(filename string, optFns ...func(o *Options)) (*Tree, error) {
	var t *Tree
	err := persistence.LoadFromFile(filename, func(r io.Reader) error {
		var err error
		t, err = Read(r, optFns...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) readNode(br *persistence.Reader, nodesRead *int) (*node, error) {
	kind, err := br.ReadUint8()
	if err != nil {
		return nil, err
	}
	if nodeKind(kind) != leafNode && nodeKind(kind) != internalNode {
		return nil, fmt.Errorf("ktree: invalid node kind %d", kind)
	}

	entries, err := br.ReadUint32()
	if err != nil {
		return nil, err
	}
	if int(entries) > t.order {
		return nil, fmt.Errorf("ktree: node holds %d entries, order is %d", entries, t.order)
	}

	count, err := br.ReadUint64()
	if err != nil {
		return nil, err
	}

	n, err := t.newNode(nodeKind(kind))
	if err != nil {
		return nil, err
	}
	n.count = int(count)
	*nodesRead++

	if err := br.ReadFloat32SliceInto(n.centroid); err != nil {
		return nil, err
	}

	if n.isLeaf() {
		for i := 0; i < int(entries); i++ {
			id, err := br.ReadUint32()
			if err != nil {
				return nil, err
			}

			o, err := t.proto.NewObject()
			if err != nil {
				return nil, err
			}
			if err := br.ReadFloat32SliceInto(o.vector); err != nil {
				return nil, err
			}
			o.id = id
			o.leaf = n
			n.members = append(n.members, o)

			if id >= t.nextID {
				t.nextID = id + 1
			}
		}
		return n, nil
	}

	for i := 0; i < int(entries); i++ {
		child, err := t.readNode(br, nodesRead)
		if err != nil {
			return nil, err
		}
		child.parent = n
		n.children = append(n.children, child)
	}
	return n, nil
}
