// Package mempool implements fixed-size slab pools.
//
// A pool hands out slots of one element size. Slots are carved from groups of
// GroupSize elements; each group keeps its own free chain, linked lazily as
// slots are first touched, and a bitset of allocated slots.
//
// # Placement
//
// Groups with free capacity sit in a positional heap ordered fewest-free
// first, so new allocations fill nearly full groups before touching emptier
// ones. Every group is also indexed by base address in an AVL tree whose
// comparator treats any address inside a group as equal to that group, which
// lets Free and IsManaged map a pointer back to its group in O(log groups).
// The index always uses an avl.Arena, never the pool itself.
//
// # Pool Types
//
//   - Pool[T] holds typed elements in per-group []T slabs on the Go heap.
//   - Bytes holds raw word-aligned byte slots. Group memory comes from the Go
//     heap or, with WithMmap, from anonymous mappings outside the heap.
//
// Addresses handed out stay valid until the slot is freed or its group is
// released. Neither pool type is safe for concurrent use; wrap a Pool in
// Locked when several goroutines share it.
//
// # Budgets
//
// Each new group is charged against a MemoryBudget before any memory is
// obtained. A rejected charge surfaces as ErrMemoryLimitExceeded from Alloc
// and leaves the pool untouched. One budget may be shared across pools.
//
// # Trees
//
// NodeStorage adapts a Pool to avl.Storage; NewTree builds a tree over it with
// empty-group release enabled:
//
//	t, err := mempool.NewTree[int, string](avl.Ordered[int]())
//	if err != nil { ... }
//	defer t.Destroy()
//	_ = t.Insert(1, "one")
package mempool
