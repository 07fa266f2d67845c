package mempool

import (
	"cmp"
	"fmt"
	"log/slog"
	"math"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/memcore/avl"
	"github.com/hupe1980/memcore/heap"
	"github.com/hupe1980/memcore/internal/conv"
	"github.com/hupe1980/memcore/internal/resource"
)

// noSlot terminates a free chain.
const noSlot = math.MaxUint32

// Ref addresses one slot: the group id and the slot index inside it.
type Ref struct {
	Group uint32
	Slot  uint32
}

// Stats describes the geometry and occupancy of a pool.
type Stats struct {
	ElementSize   int
	GroupSize     int
	GroupBytes    int64
	Groups        int
	FreeSlots     int
	LiveSlots     int
	ReservedBytes int64
}

type group struct {
	id   uint32
	base uintptr

	// head is the first free slot; slots at or beyond touched have never
	// been linked and follow the chain implicitly.
	head    uint32
	touched uint32
	free    uint32
	heapPos int

	next []uint32
	live *bitset.BitSet
}

// backing owns the element memory of a pool. grow must leave nothing behind
// when it fails.
type backing interface {
	grow(id uint32, elements int) (uintptr, error)
	shrink(id uint32)
	zero(r Ref)
}

type core struct {
	stride     uintptr
	groupSize  uint32
	groupBytes int64

	totalFree int
	live      int

	avail  *heap.Heap[*group]
	index  *avl.Tree[uintptr, *group]
	groups []*group
	idle   []uint32 // recycled group ids

	releaseEmpty bool
	closed       bool

	budget  MemoryBudget
	logger  *slog.Logger
	metrics MetricsObserver
	store   backing
}

func defaultGroupSize(stride uintptr) int {
	return max(1, int((DefaultGroupBytes-GroupHeaderSize)/stride))
}

func newCore(stride uintptr, o options, store backing) (*core, error) {
	size := o.groupSize
	if size < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGroupSize, size)
	}
	if size == 0 {
		size = defaultGroupSize(stride)
	}
	groupSize, err := conv.IntToUint32(size)
	if err != nil || groupSize == noSlot {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGroupSize, size)
	}
	span, err := conv.MulInt(int(stride), size)
	if err != nil {
		return nil, fmt.Errorf("%w: %d elements of %d bytes", ErrInvalidGroupSize, size, stride)
	}
	groupBytes, err := conv.IntToInt64(span + GroupHeaderSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroupSize, err)
	}

	budget := o.budget
	if budget == nil {
		budget = resource.NewController(resource.Config{})
	}

	c := &core{
		stride:       stride,
		groupSize:    groupSize,
		groupBytes:   groupBytes,
		releaseEmpty: o.releaseEmpty,
		budget:       budget,
		logger:       o.logger.With("element_size", int(stride), "group_size", size),
		metrics:      o.metrics,
		store:        store,
	}
	// Fewest free slots on top.
	c.avail = heap.New(
		func(a, b *group) int { return cmp.Compare(b.free, a.free) },
		heap.WithPositionCallback(func(g *group, pos int) { g.heapPos = pos }),
	)
	c.index = avl.New[uintptr, *group](rangeCompare(uintptr(span)))
	return c, nil
}

// rangeCompare orders group base addresses and treats every address inside
// [base, base+span) as equal to base.
func rangeCompare(span uintptr) func(addr, base uintptr) int {
	return func(addr, base uintptr) int {
		switch {
		case addr < base:
			return 1
		case addr-base >= span:
			return -1
		}
		return 0
	}
}

func (c *core) alloc() (Ref, error) {
	if c.closed {
		return Ref{}, ErrClosed
	}

	g, ok := c.avail.Peek()
	fresh := false
	if !ok {
		var err error
		if g, err = c.grow(); err != nil {
			return Ref{}, err
		}
		fresh = true
	}

	if g.touched < c.groupSize {
		g.next[g.touched] = g.touched + 1
		g.touched++
	}
	slot := g.head
	g.free--
	c.totalFree--
	if g.free > 0 {
		g.head = g.next[slot]
	} else {
		g.head = noSlot
	}
	g.live.Set(uint(slot))
	c.live++

	// An existing group with room left only got fuller, so it stays on top.
	switch {
	case fresh && g.free > 0:
		c.avail.Push(g)
	case !fresh && g.free == 0:
		c.avail.Remove(g.heapPos)
	}
	return Ref{Group: g.id, Slot: slot}, nil
}

func (c *core) grow() (*group, error) {
	if err := c.budget.AcquireMemory(c.groupBytes); err != nil {
		c.logger.Warn("mempool: group rejected by memory budget",
			"elements", int(c.groupSize),
			"bytes", c.groupBytes,
			"error", err,
		)
		c.metrics.OnAllocFailed(err)
		return nil, fmt.Errorf("mempool: reserve group of %d bytes: %w", c.groupBytes, err)
	}

	var id uint32
	reuse := len(c.idle) > 0
	if reuse {
		id = c.idle[len(c.idle)-1]
	} else {
		n, err := conv.IntToUint32(len(c.groups))
		if err != nil {
			c.budget.ReleaseMemory(c.groupBytes)
			return nil, fmt.Errorf("mempool: group id: %w", err)
		}
		id = n
	}

	base, err := c.store.grow(id, int(c.groupSize))
	if err != nil {
		c.budget.ReleaseMemory(c.groupBytes)
		c.logger.Warn("mempool: group allocation failed",
			"elements", int(c.groupSize),
			"bytes", c.groupBytes,
			"error", err,
		)
		c.metrics.OnAllocFailed(err)
		return nil, fmt.Errorf("mempool: allocate group: %w", err)
	}

	g := &group{
		id:      id,
		base:    base,
		free:    c.groupSize,
		heapPos: heap.Absent,
		next:    make([]uint32, c.groupSize),
		live:    bitset.New(uint(c.groupSize)),
	}
	if err := c.index.Insert(base, g); err != nil {
		c.store.shrink(id)
		c.budget.ReleaseMemory(c.groupBytes)
		return nil, fmt.Errorf("mempool: index group: %w", err)
	}

	if reuse {
		c.idle = c.idle[:len(c.idle)-1]
		c.groups[id] = g
	} else {
		c.groups = append(c.groups, g)
	}
	c.totalFree += int(c.groupSize)

	c.logger.Debug("mempool: group created", "group", id, "elements", int(c.groupSize), "bytes", c.groupBytes)
	c.metrics.OnGroupCreated(int(c.groupSize), c.groupBytes)
	return g, nil
}

// lookup resolves addr to the slot it starts. Interior and misaligned
// addresses do not resolve.
func (c *core) lookup(addr uintptr) (Ref, bool) {
	g, ok := c.index.Find(addr)
	if !ok {
		return Ref{}, false
	}
	off := addr - g.base
	if off%c.stride != 0 {
		return Ref{}, false
	}
	return Ref{Group: g.id, Slot: uint32(off / c.stride)}, true //nolint:gosec // bounded by groupSize
}

func (c *core) owns(addr uintptr) bool {
	return c.index.Contains(addr)
}

func (c *core) group(r Ref) *group {
	if int(r.Group) >= len(c.groups) {
		return nil
	}
	g := c.groups[r.Group]
	if g == nil || r.Slot >= c.groupSize {
		return nil
	}
	return g
}

func (c *core) free(r Ref) bool {
	g := c.group(r)
	if g == nil || !g.live.Test(uint(r.Slot)) {
		c.metrics.OnFreeRejected()
		return false
	}

	g.live.Clear(uint(r.Slot))
	c.store.zero(r)

	wasFull := g.free == 0
	g.next[r.Slot] = g.head
	g.head = r.Slot
	g.free++
	c.totalFree++
	c.live--

	if wasFull {
		c.avail.Push(g)
	} else {
		c.avail.Update(g.heapPos)
	}

	if c.releaseEmpty && g.free == c.groupSize {
		c.release(g)
	}
	return true
}

func (c *core) release(g *group) {
	if g.heapPos != heap.Absent {
		c.avail.Remove(g.heapPos)
	}
	c.index.Remove(g.base)
	c.store.shrink(g.id)
	c.budget.ReleaseMemory(c.groupBytes)

	c.totalFree -= int(g.free)
	c.live -= int(c.groupSize - g.free)
	c.groups[g.id] = nil
	c.idle = append(c.idle, g.id)

	c.logger.Debug("mempool: group released", "group", g.id, "elements", int(c.groupSize), "bytes", c.groupBytes)
	c.metrics.OnGroupReleased(int(c.groupSize), c.groupBytes)
}

func (c *core) setReleaseEmpty(enabled bool) {
	c.releaseEmpty = enabled
	if !enabled {
		return
	}
	for _, g := range c.groups {
		if g != nil && g.free == c.groupSize {
			c.release(g)
		}
	}
}

func (c *core) clear() {
	for _, g := range c.groups {
		if g != nil {
			c.release(g)
		}
	}
	c.groups = c.groups[:0]
	c.idle = c.idle[:0]
}

func (c *core) close() {
	if c.closed {
		return
	}
	c.clear()
	c.closed = true
}

func (c *core) stats() Stats {
	groups := c.index.Len()
	return Stats{
		ElementSize:   int(c.stride),
		GroupSize:     int(c.groupSize),
		GroupBytes:    c.groupBytes,
		Groups:        groups,
		FreeSlots:     c.totalFree,
		LiveSlots:     c.live,
		ReservedBytes: int64(groups) * c.groupBytes,
	}
}
