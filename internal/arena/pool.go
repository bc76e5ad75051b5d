package arena

// Pool is a paged object pool for tree nodes and vector objects. Pages are
// allocated at fixed capacity and never moved, so pointers returned by Alloc
// stay valid until the pool is dropped. Objects are never freed individually.
type Pool[T any] struct {
	pageSize int
	pages    [][]T
	used     int // entries used in the last page
	total    int
}

// DefaultPageSize is the default number of objects per pool page.
const DefaultPageSize = 4096

// NewPool creates a Pool with the given page size. Non-positive sizes fall
// back to DefaultPageSize.
func NewPool[T any](pageSize int) *Pool[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Pool[T]{pageSize: pageSize}
}

// Alloc returns a pointer to a zero-valued T owned by the pool.
func (p *Pool[T]) Alloc() *T {
	if len(p.pages) == 0 || p.used == p.pageSize {
		p.pages = append(p.pages, make([]T, p.pageSize))
		p.used = 0
	}
	page := p.pages[len(p.pages)-1]
	obj := &page[p.used]
	p.used++
	p.total++
	return obj
}

// Len returns the number of objects allocated from the pool.
func (p *Pool[T]) Len() int {
	return p.total
}

// Drop releases all pages. Every pointer previously returned becomes invalid.
func (p *Pool[T]) Drop() {
	p.pages = nil
	p.used = 0
	p.total = 0
}
