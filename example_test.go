package memcore_test

import (
	"cmp"
	"errors"
	"fmt"
	"log"

	"github.com/hupe1980/memcore"
	"github.com/hupe1980/memcore/heap"
	"github.com/hupe1980/memcore/mempool"
)

// Example_tree demonstrates ordered traversal of an AVL tree.
func Example_tree() {
	tree := memcore.NewOrderedTree[int, string]()
	for _, k := range []int{50, 20, 80, 10, 30} {
		if err := tree.Insert(k, fmt.Sprintf("v%d", k)); err != nil {
			log.Fatal(err)
		}
	}

	for k, v := range tree.All() {
		fmt.Println(k, v)
	}
	// Output:
	// 10 v10
	// 20 v20
	// 30 v30
	// 50 v50
	// 80 v80
}

// Example_heap demonstrates a heap that reports element positions.
func Example_heap() {
	type job struct {
		name     string
		priority int
		pos      int
	}

	h := memcore.NewHeap(
		func(a, b *job) int { return cmp.Compare(a.priority, b.priority) },
		heap.WithPositionCallback(func(j *job, pos int) { j.pos = pos }),
	)
	low, high := &job{name: "low", priority: 1}, &job{name: "high", priority: 9}
	h.Push(low)
	h.Push(high)

	top, _ := h.Pop()
	fmt.Println(top.name, top.pos == heap.Absent, low.pos)
	// Output: high true 0
}

// Example_pool demonstrates slot reuse in a fixed-size pool.
func Example_pool() {
	type record [152]byte

	pool, err := memcore.NewPool[record](mempool.WithGroupSize(16))
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	ptrs := make([]*record, 17)
	for i := range ptrs {
		if ptrs[i], err = pool.Alloc(); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println("groups:", pool.Stats().Groups)

	pool.Free(ptrs[16])
	again, _ := pool.Alloc()
	fmt.Println("reused:", again == ptrs[16])
	// Output:
	// groups: 2
	// reused: true
}

// Example_memoryBudget demonstrates a budget shared by two pools.
func Example_memoryBudget() {
	budget := memcore.NewMemoryBudget(64 << 10)
	metrics := &memcore.BasicMetricsCollector{}

	nodes, _ := memcore.NewPool[[64]byte](mempool.WithMemoryBudget(budget), mempool.WithMetricsObserver(metrics))
	bufs, _ := memcore.NewBytePool(4096, mempool.WithMemoryBudget(budget), mempool.WithMetricsObserver(metrics))

	if _, err := nodes.Alloc(); err != nil {
		log.Fatal(err)
	}
	var err error
	for err == nil {
		_, err = bufs.Alloc()
	}

	fmt.Println(errors.Is(err, memcore.ErrMemoryLimitExceeded), metrics.GetStats().AllocFailures)
	// Output: true 1
}
