package mempool

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/memcore/heap"
)

// verify checks every group's free chain against its live set, the pool-wide
// counters, heap membership with cached positions, and the address index.
func (c *core) verify() error {
	if err := c.avail.Verify(); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var (
		groups, withRoom int
		free, live       int
	)
	for id, g := range c.groups {
		if g == nil {
			continue
		}
		if int(g.id) != id {
			return fmt.Errorf("%w: group %d stored under id %d", ErrCorrupt, g.id, id)
		}
		if err := c.verifyChain(g); err != nil {
			return err
		}
		if err := c.verifyPlacement(g); err != nil {
			return err
		}

		groups++
		free += int(g.free)
		live += int(c.groupSize - g.free)
		if g.free > 0 {
			withRoom++
		}
	}

	switch {
	case groups != c.index.Len():
		return fmt.Errorf("%w: %d groups, %d indexed", ErrCorrupt, groups, c.index.Len())
	case withRoom != c.avail.Len():
		return fmt.Errorf("%w: %d groups with room, %d in heap", ErrCorrupt, withRoom, c.avail.Len())
	case free != c.totalFree:
		return fmt.Errorf("%w: %d free slots, tracked %d", ErrCorrupt, free, c.totalFree)
	case live != c.live:
		return fmt.Errorf("%w: %d live slots, tracked %d", ErrCorrupt, live, c.live)
	}
	return nil
}

func (c *core) verifyChain(g *group) error {
	// The linked part of the chain ends at noSlot or where untouched slots
	// begin. Once every slot is touched, the last one still links to touched.
	linked := roaring.New()
	for s := g.head; s != noSlot && s != g.touched; s = g.next[s] {
		if s >= g.touched {
			return fmt.Errorf("%w: group %d chain reaches untouched slot %d", ErrCorrupt, g.id, s)
		}
		if linked.Contains(s) {
			return fmt.Errorf("%w: group %d chain cycles at slot %d", ErrCorrupt, g.id, s)
		}
		if g.live.Test(uint(s)) {
			return fmt.Errorf("%w: group %d chain holds live slot %d", ErrCorrupt, g.id, s)
		}
		linked.Add(s)
	}

	allocated := roaring.New()
	for i, ok := g.live.NextSet(0); ok; i, ok = g.live.NextSet(i + 1) {
		allocated.Add(uint32(i)) //nolint:gosec // bounded by groupSize
	}

	touched := uint64(g.touched)
	if linked.GetCardinality()+allocated.GetCardinality() != touched {
		return fmt.Errorf("%w: group %d accounts for %d of %d touched slots", ErrCorrupt, g.id,
			linked.GetCardinality()+allocated.GetCardinality(), touched)
	}
	if allocated.GetCardinality() > 0 && allocated.Maximum() >= g.touched {
		return fmt.Errorf("%w: group %d has live untouched slot", ErrCorrupt, g.id)
	}
	if free := linked.GetCardinality() + uint64(c.groupSize-g.touched); free != uint64(g.free) {
		return fmt.Errorf("%w: group %d has %d free slots, tracked %d", ErrCorrupt, g.id, free, g.free)
	}
	return nil
}

func (c *core) verifyPlacement(g *group) error {
	if g.free == 0 {
		if g.heapPos != heap.Absent {
			return fmt.Errorf("%w: full group %d at heap position %d", ErrCorrupt, g.id, g.heapPos)
		}
	} else if at, ok := c.avail.At(g.heapPos); !ok || at != g {
		return fmt.Errorf("%w: group %d not at cached heap position %d", ErrCorrupt, g.id, g.heapPos)
	}

	if indexed, ok := c.index.Find(g.base); !ok || indexed != g {
		return fmt.Errorf("%w: group %d missing from address index", ErrCorrupt, g.id)
	}
	return nil
}
