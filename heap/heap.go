package heap

import (
	"errors"
	"fmt"
)

// Absent is the position reported to the position callback when an element
// leaves the heap.
const Absent = -1

// ErrCorrupt is returned by Verify when the heap property does not hold.
var ErrCorrupt = errors.New("heap: corrupt")

// Heap is an array-backed binary max-heap.
//
// compare(a, b) < 0 means a ranks below b; the highest-ranked element is kept
// at index 0. For a min-heap, invert the comparator.
type Heap[T any] struct {
	items   []T
	compare func(a, b T) int
	onMove  func(item T, pos int)
}

// Option configures a Heap.
type Option[T any] func(*Heap[T])

// WithPositionCallback registers fn to be called whenever an element's index
// changes. Removed elements are reported with Absent.
func WithPositionCallback[T any](fn func(item T, pos int)) Option[T] {
	return func(h *Heap[T]) {
		h.onMove = fn
	}
}

// WithCapacity preallocates room for n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(h *Heap[T]) {
		if n > 0 {
			h.items = make([]T, 0, n)
		}
	}
}

// New creates an empty heap ordered by compare.
func New[T any](compare func(a, b T) int, opts ...Option[T]) *Heap[T] {
	if compare == nil {
		panic("heap: nil comparator")
	}
	h := &Heap[T]{compare: compare}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Len returns the number of elements in the heap.
func (h *Heap[T]) Len() int { return len(h.items) }

// At returns the element at position pos.
func (h *Heap[T]) At(pos int) (T, bool) {
	if pos < 0 || pos >= len(h.items) {
		var zero T
		return zero, false
	}
	return h.items[pos], true
}

// Push inserts x while maintaining the heap invariant.
func (h *Heap[T]) Push(x T) {
	h.items = append(h.items, x)
	pos := len(h.items) - 1
	h.report(x, pos)
	h.siftUp(pos)
}

// Peek returns the root without removing it.
func (h *Heap[T]) Peek() (T, bool) {
	if len(h.items) == 0 {
		var zero T
		return zero, false
	}
	return h.items[0], true
}

// Pop removes and returns the root.
func (h *Heap[T]) Pop() (T, bool) {
	n := len(h.items)
	if n == 0 {
		var zero T
		return zero, false
	}
	root := h.items[0]
	h.swap(0, n-1)
	h.truncate()
	h.siftDown(0)
	h.report(root, Absent)
	return root, true
}

// Remove deletes the element at position pos and returns it.
func (h *Heap[T]) Remove(pos int) (T, bool) {
	n := len(h.items)
	if pos < 0 || pos >= n {
		var zero T
		return zero, false
	}
	item := h.items[pos]
	h.swap(pos, n-1)
	h.truncate()
	// The element moved into pos may come from another subtree, so it can
	// violate the invariant in either direction.
	h.fix(pos)
	h.report(item, Absent)
	return item, true
}

// Update re-establishes the heap invariant after the element at pos changed
// its ordering key outside of the heap API.
func (h *Heap[T]) Update(pos int) {
	if pos < 0 || pos >= len(h.items) {
		return
	}
	h.fix(pos)
}

// Clear removes all elements. If destroy is non-nil it is called once per
// element.
func (h *Heap[T]) Clear(destroy func(T)) {
	for i, item := range h.items {
		if destroy != nil {
			destroy(item)
		}
		var zero T
		h.items[i] = zero
	}
	h.items = h.items[:0]
}

// Verify checks the heap invariant for every non-root position.
func (h *Heap[T]) Verify() error {
	for i := 1; i < len(h.items); i++ {
		p := (i - 1) / 2
		if h.compare(h.items[p], h.items[i]) < 0 {
			return fmt.Errorf("%w: position %d ranks above its parent %d", ErrCorrupt, i, p)
		}
	}
	return nil
}

func (h *Heap[T]) less(i, j int) bool {
	return h.compare(h.items[i], h.items[j]) < 0
}

func (h *Heap[T]) report(item T, pos int) {
	if h.onMove != nil {
		h.onMove(item, pos)
	}
}

func (h *Heap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	if h.onMove != nil && i != j {
		h.onMove(h.items[i], i)
		h.onMove(h.items[j], j)
	}
}

func (h *Heap[T]) truncate() {
	n := len(h.items) - 1
	var zero T
	h.items[n] = zero
	h.items = h.items[:n]
}

func (h *Heap[T]) fix(pos int) {
	if pos >= len(h.items) {
		return
	}
	if pos > 0 && h.less((pos-1)/2, pos) {
		h.siftUp(pos)
		return
	}
	h.siftDown(pos)
}

func (h *Heap[T]) siftUp(i int) {
	for i > 0 {
		p := (i - 1) / 2
		if !h.less(p, i) {
			return
		}
		h.swap(i, p)
		i = p
	}
}

func (h *Heap[T]) siftDown(i int) {
	n := len(h.items)
	for {
		l := 2*i + 1
		if l >= n {
			return
		}
		best := l
		if r := l + 1; r < n && h.less(l, r) {
			best = r
		}
		if !h.less(i, best) {
			return
		}
		h.swap(i, best)
		i = best
	}
}
