package mempool

import (
	"unsafe"
)

// Pool is a fixed-size pool of T values.
//
// Elements live in per-group []T slabs, so pointers returned by Alloc stay
// valid until the element is freed or its group is released. A Pool is not
// safe for concurrent use.
type Pool[T any] struct {
	core  *core
	slabs [][]T
}

// New creates a pool of T. Zero-size types are rejected with
// ErrInvalidElementSize.
func New[T any](opts ...Option) (*Pool[T], error) {
	var zero T
	stride := unsafe.Sizeof(zero)
	if stride == 0 {
		return nil, ErrInvalidElementSize
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[T]{}
	c, err := newCore(stride, o, p)
	if err != nil {
		return nil, err
	}
	p.core = c
	return p, nil
}

// Alloc returns a pointer to a zeroed element.
func (p *Pool[T]) Alloc() (*T, error) {
	r, err := p.core.alloc()
	if err != nil {
		return nil, err
	}
	return p.At(r), nil
}

// AllocRef allocates a zeroed element and returns its slot address.
func (p *Pool[T]) AllocRef() (Ref, error) {
	return p.core.alloc()
}

// At returns the element behind r. r must come from AllocRef or RefOf and
// still be allocated.
func (p *Pool[T]) At(r Ref) *T {
	return &p.slabs[r.Group][r.Slot]
}

// RefOf maps a pointer returned by Alloc back to its slot address.
func (p *Pool[T]) RefOf(x *T) (Ref, bool) {
	if x == nil {
		return Ref{}, false
	}
	return p.core.lookup(uintptr(unsafe.Pointer(x))) //nolint:gosec // address identity only
}

// Free returns x to the pool and zeroes it. It reports false, and leaves the
// pool unchanged, when x is not a live element of this pool.
func (p *Pool[T]) Free(x *T) bool {
	r, ok := p.RefOf(x)
	if !ok {
		p.core.metrics.OnFreeRejected()
		return false
	}
	return p.core.free(r)
}

// FreeRef returns the slot r to the pool. It reports false when r is not
// allocated.
func (p *Pool[T]) FreeRef(r Ref) bool {
	return p.core.free(r)
}

// IsManaged reports whether x points into memory owned by the pool.
func (p *Pool[T]) IsManaged(x *T) bool {
	if x == nil {
		return false
	}
	return p.core.owns(uintptr(unsafe.Pointer(x))) //nolint:gosec // address identity only
}

// Len returns the number of allocated elements.
func (p *Pool[T]) Len() int { return p.core.live }

// ReleaseEmptyGroups sets the empty-group policy. Enabling it also releases
// groups that are already empty.
func (p *Pool[T]) ReleaseEmptyGroups(enabled bool) {
	p.core.setReleaseEmpty(enabled)
}

// Clear releases every group. Outstanding pointers become invalid; the pool
// stays usable.
func (p *Pool[T]) Clear() {
	p.core.clear()
	p.slabs = p.slabs[:0]
}

// Close releases every group. Alloc fails with ErrClosed afterwards.
func (p *Pool[T]) Close() error {
	p.core.close()
	p.slabs = nil
	return nil
}

// Stats returns the pool geometry and occupancy.
func (p *Pool[T]) Stats() Stats { return p.core.stats() }

// Verify checks the pool's internal bookkeeping.
func (p *Pool[T]) Verify() error { return p.core.verify() }

func (p *Pool[T]) grow(id uint32, elements int) (uintptr, error) {
	slab := make([]T, elements)
	if int(id) == len(p.slabs) {
		p.slabs = append(p.slabs, slab)
	} else {
		p.slabs[id] = slab
	}
	return uintptr(unsafe.Pointer(unsafe.SliceData(slab))), nil //nolint:gosec // address identity only
}

func (p *Pool[T]) shrink(id uint32) {
	p.slabs[id] = nil
}

func (p *Pool[T]) zero(r Ref) {
	var zero T
	p.slabs[r.Group][r.Slot] = zero
}
