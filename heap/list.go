package heap

import (
	"errors"
	"fmt"
	"iter"
)

var (
	// ErrFull is returned when a List has no free entry left.
	ErrFull = errors.New("heap: list is full")
	// ErrForeignEntry is returned when an entry does not belong to the list.
	ErrForeignEntry = errors.New("heap: entry not in list")
)

// Entry is an element of a List. It sits in the heap and in the list at the
// same time.
type Entry[T any] struct {
	Value T

	pos        int
	prev, next *Entry[T]
	list       *List[T]
	idx        int
}

// HeapPos returns the entry's position in the heap, or Absent once it was
// removed.
func (e *Entry[T]) HeapPos() int { return e.pos }

// Next returns the following entry in list order, or nil.
func (e *Entry[T]) Next() *Entry[T] { return e.next }

// Prev returns the preceding entry in list order, or nil.
func (e *Entry[T]) Prev() *Entry[T] { return e.prev }

// List is a bounded collection ordered two ways: a max-heap by heapCompare
// and a doubly linked list by listCompare.
//
// Entries are preallocated, so an *Entry stays valid until it is removed.
// Insert keeps list order; InsertBefore and InsertAfter place an entry
// explicitly and may break it. A nil listCompare appends in insertion order.
// A List is not safe for concurrent use.
type List[T any] struct {
	heap        *Heap[*Entry[T]]
	heapCompare func(a, b T) int
	listCompare func(a, b T) int
	head        *Entry[T]

	entries []Entry[T]
	free    []*Entry[T]
}

// NewList creates a list with room for capacity entries. It panics when
// capacity is not positive or heapCompare is nil.
func NewList[T any](capacity int, heapCompare, listCompare func(a, b T) int) *List[T] {
	if capacity <= 0 {
		panic("heap: list capacity must be positive")
	}
	if heapCompare == nil {
		panic("heap: nil comparator")
	}
	l := &List[T]{
		heapCompare: heapCompare,
		listCompare: listCompare,
		entries:     make([]Entry[T], capacity),
		free:        make([]*Entry[T], capacity),
	}
	l.heap = New(
		func(a, b *Entry[T]) int { return heapCompare(a.Value, b.Value) },
		WithPositionCallback(func(e *Entry[T], pos int) { e.pos = pos }),
		WithCapacity[*Entry[T]](capacity),
	)
	for i := range l.entries {
		e := &l.entries[i]
		e.idx, e.pos = i, Absent
		l.free[capacity-1-i] = e
	}
	return l
}

// Len returns the number of entries.
func (l *List[T]) Len() int { return l.heap.Len() }

// Cap returns the maximum number of entries.
func (l *List[T]) Cap() int { return len(l.entries) }

// Insert adds v to the heap and to the list, after every entry that does not
// sort after it.
func (l *List[T]) Insert(v T) (*Entry[T], error) {
	e, err := l.take(v)
	if err != nil {
		return nil, err
	}
	l.linkSorted(e)
	return e, nil
}

// InsertBefore adds v to the heap and places it right before mark in the
// list.
func (l *List[T]) InsertBefore(v T, mark *Entry[T]) (*Entry[T], error) {
	if !l.owns(mark) {
		return nil, ErrForeignEntry
	}
	e, err := l.take(v)
	if err != nil {
		return nil, err
	}
	l.link(e, mark.prev, mark)
	return e, nil
}

// InsertAfter adds v to the heap and places it right after mark in the list.
func (l *List[T]) InsertAfter(v T, mark *Entry[T]) (*Entry[T], error) {
	if !l.owns(mark) {
		return nil, ErrForeignEntry
	}
	e, err := l.take(v)
	if err != nil {
		return nil, err
	}
	l.link(e, mark, mark.next)
	return e, nil
}

// Peek returns the heap root without removing it.
func (l *List[T]) Peek() (*Entry[T], bool) {
	return l.heap.Peek()
}

// Pop removes the heap root from both orders and returns its value.
func (l *List[T]) Pop() (T, bool) {
	e, ok := l.heap.Pop()
	if !ok {
		var zero T
		return zero, false
	}
	v := e.Value
	l.unlink(e)
	l.release(e)
	return v, true
}

// Remove deletes e from both orders. It reports false when e is not in the
// list.
func (l *List[T]) Remove(e *Entry[T]) bool {
	if !l.owns(e) {
		return false
	}
	l.heap.Remove(e.pos)
	l.unlink(e)
	l.release(e)
	return true
}

// Front returns the first entry in list order, or nil.
func (l *List[T]) Front() *Entry[T] { return l.head }

// All yields values in list order.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for e := l.head; e != nil; e = e.next {
			if !yield(e.Value) {
				return
			}
		}
	}
}

// UpdateHeap restores heap order after e.Value changed its heap key.
func (l *List[T]) UpdateHeap(e *Entry[T]) {
	if l.owns(e) {
		l.heap.Update(e.pos)
	}
}

// UpdateList moves e to its sorted place after e.Value changed its list key.
func (l *List[T]) UpdateList(e *Entry[T]) {
	if l.owns(e) {
		l.unlink(e)
		l.linkSorted(e)
	}
}

// Clear removes every entry. If destroy is non-nil it is called once per
// value, in list order.
func (l *List[T]) Clear(destroy func(T)) {
	for e := l.head; e != nil; {
		next := e.next
		if destroy != nil {
			destroy(e.Value)
		}
		e.prev, e.next = nil, nil
		l.release(e)
		e = next
	}
	l.head = nil
	l.heap.Clear(nil)
}

// Clone returns an independent copy with the same heap layout and list
// order. Values are copied by assignment.
func (l *List[T]) Clone() *List[T] {
	c := NewList(len(l.entries), l.heapCompare, l.listCompare)
	at := func(e *Entry[T]) *Entry[T] {
		if e == nil {
			return nil
		}
		return &c.entries[e.idx]
	}

	c.free = c.free[:0]
	for _, e := range l.free {
		c.free = append(c.free, at(e))
	}
	for i := range l.entries {
		src, dst := &l.entries[i], &c.entries[i]
		if src.list != l {
			continue
		}
		dst.Value = src.Value
		dst.list = c
		dst.prev, dst.next = at(src.prev), at(src.next)
	}
	c.head = at(l.head)

	// Pushing a valid heap in position order moves nothing.
	for pos := 0; pos < l.heap.Len(); pos++ {
		e, _ := l.heap.At(pos)
		c.heap.Push(at(e))
	}
	return c
}

// Verify checks the heap invariant, cached heap positions and the list links.
func (l *List[T]) Verify() error {
	if err := l.heap.Verify(); err != nil {
		return err
	}
	for pos := 0; pos < l.heap.Len(); pos++ {
		e, _ := l.heap.At(pos)
		if e.pos != pos || e.list != l {
			return fmt.Errorf("%w: entry at %d caches position %d", ErrCorrupt, pos, e.pos)
		}
	}

	n := 0
	var prev *Entry[T]
	for e := l.head; e != nil; e = e.next {
		if e.prev != prev || e.list != l {
			return fmt.Errorf("%w: broken list link at entry %d", ErrCorrupt, n)
		}
		if n++; n > l.heap.Len() {
			return fmt.Errorf("%w: list longer than heap", ErrCorrupt)
		}
		prev = e
	}
	if n != l.heap.Len() {
		return fmt.Errorf("%w: %d listed, %d in heap", ErrCorrupt, n, l.heap.Len())
	}
	if n+len(l.free) != len(l.entries) {
		return fmt.Errorf("%w: %d entries unaccounted for", ErrCorrupt, len(l.entries)-n-len(l.free))
	}
	return nil
}

func (l *List[T]) owns(e *Entry[T]) bool {
	return e != nil && e.list == l
}

func (l *List[T]) take(v T) (*Entry[T], error) {
	n := len(l.free)
	if n == 0 {
		return nil, ErrFull
	}
	e := l.free[n-1]
	l.free = l.free[:n-1]
	e.Value = v
	e.list = l
	l.heap.Push(e)
	return e, nil
}

func (l *List[T]) release(e *Entry[T]) {
	var zero T
	e.Value = zero
	e.list = nil
	e.pos = Absent
	l.free = append(l.free, e)
}

func (l *List[T]) linkSorted(e *Entry[T]) {
	var prev *Entry[T]
	next := l.head
	for next != nil && (l.listCompare == nil || l.listCompare(e.Value, next.Value) >= 0) {
		prev, next = next, next.next
	}
	l.link(e, prev, next)
}

func (l *List[T]) link(e, prev, next *Entry[T]) {
	e.prev, e.next = prev, next
	if next != nil {
		next.prev = e
	}
	if prev != nil {
		prev.next = e
	} else {
		l.head = e
	}
}

func (l *List[T]) unlink(e *Entry[T]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		l.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.prev, e.next = nil, nil
}
