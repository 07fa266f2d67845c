// Package heap provides an array-backed binary heap that can report element
// positions to their owners.
//
// The position callback lets an owner cache "where am I in the heap" and later
// call Update or Remove in O(log n) without searching. The memory pool uses it
// to keep each group's heap slot current while its free count changes.
//
//	h := heap.New(cmp.Compare[int])
//	h.Push(3)
//	h.Push(7)
//	top, _ := h.Pop() // 7
//
// List threads a second, linked-list order through a bounded heap. Each Entry
// knows its heap position and its list neighbours, so an element can be
// re-ranked in either order or removed from both in one call:
//
//	l := heap.NewList(64, byPriority, byDeadline)
//	e, _ := l.Insert(job)
//	e.Value.priority++
//	l.UpdateHeap(e)
//
// Neither Heap nor List is safe for concurrent use.
package heap
