package mempool

import (
	"github.com/hupe1980/memcore/avl"
)

// NodeStorage is an avl.Storage that draws tree nodes from a Pool.
type NodeStorage[K, V any] struct {
	pool *Pool[avl.Node[K, V]]
}

var _ avl.Storage[int, int] = (*NodeStorage[int, int])(nil)

// NewNodeStorage creates node storage over a dedicated pool configured by
// opts.
func NewNodeStorage[K, V any](opts ...Option) (*NodeStorage[K, V], error) {
	p, err := New[avl.Node[K, V]](opts...)
	if err != nil {
		return nil, err
	}
	return &NodeStorage[K, V]{pool: p}, nil
}

// Pool returns the underlying pool.
func (s *NodeStorage[K, V]) Pool() *Pool[avl.Node[K, V]] { return s.pool }

// Alloc implements avl.Storage.
func (s *NodeStorage[K, V]) Alloc() (avl.Handle, error) {
	r, err := s.pool.AllocRef()
	if err != nil {
		return 0, err
	}
	return refToHandle(r), nil
}

// Node implements avl.Storage.
func (s *NodeStorage[K, V]) Node(h avl.Handle) *avl.Node[K, V] {
	return s.pool.At(handleToRef(h))
}

// Free implements avl.Storage.
func (s *NodeStorage[K, V]) Free(h avl.Handle) {
	s.pool.FreeRef(handleToRef(h))
}

// Reset implements avl.Storage.
func (s *NodeStorage[K, V]) Reset() {
	s.pool.Clear()
}

// Close implements avl.Storage.
func (s *NodeStorage[K, V]) Close() error {
	return s.pool.Close()
}

// NewTree creates an avl.Tree whose nodes come from a dedicated pool that
// releases groups as soon as they empty. Tree options may not override the
// storage.
func NewTree[K, V any](compare func(a, b K) int, opts ...avl.Option[K, V]) (*avl.Tree[K, V], error) {
	s, err := NewNodeStorage[K, V](WithReleaseEmptyGroups(true))
	if err != nil {
		return nil, err
	}
	opts = append(opts[:len(opts):len(opts)], avl.WithStorage[K, V](s))
	return avl.New(compare, opts...), nil
}

// Handles are refs shifted by one so that the zero handle stays nil.
func refToHandle(r Ref) avl.Handle {
	return avl.Handle(uint64(r.Group)<<32|uint64(r.Slot)) + 1
}

func handleToRef(h avl.Handle) Ref {
	v := uint64(h - 1)
	return Ref{Group: uint32(v >> 32), Slot: uint32(v)} //nolint:gosec // unpacking refToHandle
}
