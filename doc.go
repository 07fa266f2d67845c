// Package memcore provides a positional heap, an AVL ordered map and a
// fixed-size slab pool that work together.
//
// The building blocks live in their own packages:
//
//   - heap: array-backed priority queue that reports element positions
//   - avl: AVL-balanced ordered map with pluggable node storage
//   - mempool: fixed-size pools; each indexes its groups with an avl.Tree
//     and ranks them with a heap.Heap
//
// This package adds the constructors most programs need, a slog-based
// Logger, a BasicMetricsCollector for pool events and a shareable
// MemoryBudget.
//
// # Quick Start
//
//	tree := memcore.NewOrderedTree[int, string]()
//	_ = tree.Insert(50, "a")
//
//	pool, _ := memcore.NewPool[Record](mempool.WithGroupSize(16))
//	r, _ := pool.Alloc()
//	defer pool.Free(r)
//
// # Memory Budgets
//
// A MemoryBudget caps the combined group memory of every pool it is passed
// to:
//
//	budget := memcore.NewMemoryBudget(64 << 20)
//	nodes, _ := memcore.NewPool[Node](mempool.WithMemoryBudget(budget))
//	bufs, _ := memcore.NewBytePool(4096, mempool.WithMemoryBudget(budget), mempool.WithMmap())
//
// # Concurrency
//
// Trees, heaps and pools are not safe for concurrent use. Wrap a pool in
// mempool.Locked, or guard structures with your own locks.
package memcore
