package mempool

import (
	"fmt"
	"unsafe"

	"github.com/hupe1980/memcore/internal/mem"
)

const wordSize = 8

// Bytes is a fixed-size pool of raw byte slots.
//
// Slot strides are rounded up to the word size; the slices handed out have
// length and capacity equal to the requested element size. A Bytes pool is
// not safe for concurrent use.
type Bytes struct {
	core   *core
	size   int
	blocks [][]byte
	alloc  Allocator
	owned  *mem.Mmap // allocator created by WithMmap
}

// NewBytes creates a pool of elementSize-byte slots.
func NewBytes(elementSize int, opts ...Option) (*Bytes, error) {
	if elementSize <= 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrInvalidElementSize, elementSize)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Bytes{size: elementSize, alloc: o.allocator}
	switch {
	case o.mmap:
		b.owned = mem.NewMmap(mem.WithLogger(o.logger))
		b.alloc = b.owned
	case b.alloc == nil:
		b.alloc = mem.Heap{}
	}

	stride := uintptr((elementSize + wordSize - 1) &^ (wordSize - 1))
	c, err := newCore(stride, o, b)
	if err != nil {
		return nil, err
	}
	b.core = c
	return b, nil
}

// ElementSize returns the usable size of every slot.
func (b *Bytes) ElementSize() int { return b.size }

// Alloc returns a zeroed slot.
func (b *Bytes) Alloc() ([]byte, error) {
	r, err := b.core.alloc()
	if err != nil {
		return nil, err
	}
	return b.At(r), nil
}

// AllocRef allocates a zeroed slot and returns its address.
func (b *Bytes) AllocRef() (Ref, error) {
	return b.core.alloc()
}

// At returns the slot behind r.
func (b *Bytes) At(r Ref) []byte {
	off := int(r.Slot) * int(b.core.stride)
	return b.blocks[r.Group][off : off+b.size : off+b.size]
}

// Free returns the slot starting at &p[0] to the pool and zeroes it. It
// reports false, and leaves the pool unchanged, when p does not start a live
// slot of this pool.
func (b *Bytes) Free(p []byte) bool {
	r, ok := b.refOf(p)
	if !ok {
		b.core.metrics.OnFreeRejected()
		return false
	}
	return b.core.free(r)
}

// FreeRef returns the slot r to the pool.
func (b *Bytes) FreeRef(r Ref) bool {
	return b.core.free(r)
}

// IsManaged reports whether p points into memory owned by the pool.
func (b *Bytes) IsManaged(p []byte) bool {
	addr := sliceAddr(p)
	return addr != 0 && b.core.owns(addr)
}

// Len returns the number of allocated slots.
func (b *Bytes) Len() int { return b.core.live }

// ReleaseEmptyGroups sets the empty-group policy. Enabling it also releases
// groups that are already empty.
func (b *Bytes) ReleaseEmptyGroups(enabled bool) {
	b.core.setReleaseEmpty(enabled)
}

// Clear releases every group. Outstanding slices become invalid; the pool
// stays usable.
func (b *Bytes) Clear() {
	b.core.clear()
	b.blocks = b.blocks[:0]
}

// Close releases every group and, for WithMmap pools, the mapping allocator.
func (b *Bytes) Close() error {
	b.core.close()
	b.blocks = nil
	if b.owned != nil {
		return b.owned.Close()
	}
	return nil
}

// Stats returns the pool geometry and occupancy.
func (b *Bytes) Stats() Stats { return b.core.stats() }

// Verify checks the pool's internal bookkeeping.
func (b *Bytes) Verify() error { return b.core.verify() }

func (b *Bytes) refOf(p []byte) (Ref, bool) {
	addr := sliceAddr(p)
	if addr == 0 {
		return Ref{}, false
	}
	return b.core.lookup(addr)
}

func (b *Bytes) grow(id uint32, elements int) (uintptr, error) {
	block, err := b.alloc.Alloc(elements * int(b.core.stride))
	if err != nil {
		return 0, err
	}
	if int(id) == len(b.blocks) {
		b.blocks = append(b.blocks, block)
	} else {
		b.blocks[id] = block
	}
	return sliceAddr(block), nil
}

func (b *Bytes) shrink(id uint32) {
	block := b.blocks[id]
	b.blocks[id] = nil
	if err := b.alloc.Free(block); err != nil {
		b.core.logger.Warn("mempool: free group memory", "group", id, "error", err)
	}
}

func (b *Bytes) zero(r Ref) {
	off := int(r.Slot) * int(b.core.stride)
	clear(b.blocks[r.Group][off : off+int(b.core.stride)])
}

func sliceAddr(p []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(p))) //nolint:gosec // address identity only
}
