package ktreego

// Object is a fixed-dimension feature vector owned by the tree's arena.
//
// Objects are created through the tree's Prototype, which fixes the
// dimensionality for the whole tree. The caller populates the coordinate
// slice returned by Vector before insertion; once inserted, the coordinates
// must not be modified.
type Object struct {
	id     uint32
	vector []float32
	leaf   *node // leaf holding this object, nil until inserted
}

// ID returns the allocator-assigned identity of the object.
func (o *Object) ID() uint32 {
	return o.id
}

// Vector returns the coordinate slice. The slice is arena-owned and becomes
// invalid when the tree is closed.
func (o *Object) Vector() []float32 {
	return o.vector
}

// Dimension returns the number of coordinates.
func (o *Object) Dimension() int {
	return len(o.vector)
}

// Prototype is a factory for Objects of the tree's fixed dimensionality.
type Prototype struct {
	tree *Tree
}

// NewObject returns a zero-initialized Object with the tree's dimensionality.
// The object is owned by the tree's arena and must only be inserted into the
// tree that created it.
func (p *Prototype) NewObject() (*Object, error) {
	t := p.tree

	vec, err := t.arena.AllocFloat32Slice(t.dimension)
	if err != nil {
		return nil, err
	}

	o := t.objects.Alloc()
	o.id = t.nextID
	o.vector = vec
	t.nextID++

	return o, nil
}

// Dimension returns the dimensionality objects created by this prototype have.
func (p *Prototype) Dimension() int {
	return p.tree.dimension
}
