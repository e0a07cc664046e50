package generic

import "sync"

// Pool is a typed wrapper around sync.Pool.
type Pool[T any] struct {
	pool sync.Pool
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	p.pool.Put(value)
}

// SlicePool hands out reusable slice buffers. Buffers come back with zero
// length and their previous capacity.
type SlicePool[T any] struct {
	pool *Pool[*[]T]
}

func NewSlicePool[T any](capacity int) *SlicePool[T] {
	return &SlicePool[T]{
		pool: NewPool(func() *[]T {
			s := make([]T, 0, capacity)
			return &s
		}),
	}
}

func (p *SlicePool[T]) Get() *[]T {
	s := p.pool.Get()
	*s = (*s)[:0]
	return s
}

// Put clears the buffer so pooled slices do not pin their elements.
func (p *SlicePool[T]) Put(s *[]T) {
	clear(*s)
	*s = (*s)[:0]
	p.pool.Put(s)
}
