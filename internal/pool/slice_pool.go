package pool

import "sync"

// SlicePool recycles scratch slices of T.
type SlicePool[T any] struct {
	pool sync.Pool
}

// NewSlicePool creates an empty slice pool.
func NewSlicePool[T any]() *SlicePool[T] {
	return &SlicePool[T]{
		pool: sync.Pool{New: func() any { return new([]T) }},
	}
}

// Get returns a slice of length zero and capacity of at least size.
// The caller must call the returned release function, typically with defer,
// and must not use the slice afterwards.
//
// Example:
//
//	vals, release := pool.Float64s.Get(col.Len())
//	defer release()
//	vals = append(vals, ...)
func (p *SlicePool[T]) Get(size int) ([]T, func()) {
	ptr, _ := p.pool.Get().(*[]T)
	if cap(*ptr) < size {
		*ptr = make([]T, 0, size)
	}
	slice := (*ptr)[:0]

	return slice, func() {
		clear((*ptr)[:cap(*ptr)])
		p.pool.Put(ptr)
	}
}

var (
	// Float64s holds scratch slices for numeric reductions.
	Float64s = NewSlicePool[float64]()
	// Ints holds scratch slices of row indices.
	Ints = NewSlicePool[int]()
)
