package memcore

import (
	"cmp"

	"github.com/hupe1980/memcore/avl"
	"github.com/hupe1980/memcore/heap"
	"github.com/hupe1980/memcore/internal/resource"
	"github.com/hupe1980/memcore/mempool"
)

// MemoryBudget is a byte budget shared by pools. Pass it with
// mempool.WithMemoryBudget.
type MemoryBudget = resource.Controller

// NewMemoryBudget creates a budget of limitBytes. Zero means unlimited; the
// budget then only tracks usage.
func NewMemoryBudget(limitBytes int64) *MemoryBudget {
	return resource.NewController(resource.Config{MemoryLimitBytes: limitBytes})
}

// NewHeap creates a positional max-heap ordered by compare.
func NewHeap[T any](compare func(a, b T) int, opts ...heap.Option[T]) *heap.Heap[T] {
	return heap.New(compare, opts...)
}

// NewHeapList creates a bounded heap whose entries are also kept in a list
// ordered by listCompare.
func NewHeapList[T any](capacity int, heapCompare, listCompare func(a, b T) int) *heap.List[T] {
	return heap.NewList(capacity, heapCompare, listCompare)
}

// NewIdentityTree creates an AVL tree keyed by pointer identity.
func NewIdentityTree[T, V any](opts ...avl.Option[*T, V]) *avl.Tree[*T, V] {
	return avl.NewIdentity(opts...)
}

// NewTree creates an AVL tree whose nodes come from the Go heap. compare
// follows the inverted convention of avl.Ordered.
func NewTree[K, V any](compare func(a, b K) int, opts ...avl.Option[K, V]) *avl.Tree[K, V] {
	return avl.New(compare, opts...)
}

// NewOrderedTree creates an AVL tree for naturally ordered keys.
func NewOrderedTree[K cmp.Ordered, V any](opts ...avl.Option[K, V]) *avl.Tree[K, V] {
	return avl.NewOrdered(opts...)
}

// NewPooledTree creates an AVL tree whose nodes come from a dedicated pool.
func NewPooledTree[K, V any](compare func(a, b K) int, opts ...avl.Option[K, V]) (*avl.Tree[K, V], error) {
	return mempool.NewTree(compare, opts...)
}

// NewPool creates a fixed-size pool of T.
func NewPool[T any](opts ...mempool.Option) (*mempool.Pool[T], error) {
	return mempool.New[T](opts...)
}

// NewBytePool creates a pool of elementSize-byte slots.
func NewBytePool(elementSize int, opts ...mempool.Option) (*mempool.Bytes, error) {
	return mempool.NewBytes(elementSize, opts...)
}
