package mem

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/hupe1980/memcore/internal/mmap"
)

// Alignment is the byte alignment of every block (one cache line on common
// hardware).
const Alignment = 64

var (
	// ErrInvalidSize is returned for non-positive block sizes.
	ErrInvalidSize = errors.New("mem: invalid block size")
	// ErrUnknownBlock is returned when freeing a block the allocator never handed out.
	ErrUnknownBlock = errors.New("mem: unknown block")
)

// Allocator supplies raw backing memory.
type Allocator interface {
	// Alloc returns a zeroed, Alignment-aligned block of exactly size bytes.
	Alloc(size int) ([]byte, error)
	// Free returns a block obtained from Alloc.
	Free(b []byte) error
}

// AllocAligned allocates a byte slice of the given size with 64-byte alignment.
// The returned slice is guaranteed to start at a memory address divisible by 64.
//
// Note: This function allocates slightly more memory than requested to ensure alignment.
// The underlying array is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// Heap is an Allocator backed by the Go heap.
type Heap struct{}

var _ Allocator = Heap{}

// Alloc implements Allocator.
func (Heap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	return AllocAligned(size), nil
}

// Free implements Allocator. The garbage collector reclaims the block once
// the caller drops it.
func (Heap) Free([]byte) error { return nil }

// Mmap is an Allocator that maps each block anonymously. It is safe for
// concurrent use.
type Mmap struct {
	mu     sync.Mutex
	blocks map[uintptr]*mmap.Mapping

	logger *slog.Logger
	advise func(m *mmap.Mapping, pattern mmap.AccessPattern) error
}

var _ Allocator = (*Mmap)(nil)

// MmapOption configures an Mmap allocator.
type MmapOption func(*Mmap)

// WithLogger sets the logger that receives allocator warnings.
func WithLogger(l *slog.Logger) MmapOption {
	return func(a *Mmap) {
		if l != nil {
			a.logger = l
		}
	}
}

// NewMmap creates an Mmap allocator.
func NewMmap(opts ...MmapOption) *Mmap {
	a := &Mmap{
		blocks: make(map[uintptr]*mmap.Mapping),
		logger: slog.New(slog.DiscardHandler),
		advise: (*mmap.Mapping).Advise,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Alloc implements Allocator. Mappings are page-aligned, which satisfies
// Alignment.
func (a *Mmap) Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}
	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("mem: map %d bytes: %w", size, err)
	}
	// Pool slots are touched in no particular order. The hint is optional.
	if err := a.advise(m, mmap.AccessRandom); err != nil {
		a.logger.Warn("mem: advise mapping", "bytes", size, "error", err)
	}

	b := m.Bytes()
	a.mu.Lock()
	a.blocks[blockAddr(b)] = m
	a.mu.Unlock()
	return b, nil
}

// Free implements Allocator.
func (a *Mmap) Free(b []byte) error {
	if len(b) == 0 {
		return ErrUnknownBlock
	}
	addr := blockAddr(b)

	a.mu.Lock()
	m, ok := a.blocks[addr]
	if ok {
		delete(a.blocks, addr)
	}
	a.mu.Unlock()

	if !ok {
		return ErrUnknownBlock
	}
	return m.Close()
}

// Live returns the number of blocks not yet freed.
func (a *Mmap) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.blocks)
}

// Close unmaps every outstanding block.
func (a *Mmap) Close() error {
	a.mu.Lock()
	blocks := a.blocks
	a.blocks = make(map[uintptr]*mmap.Mapping)
	a.mu.Unlock()

	var errs []error
	for _, m := range blocks {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func blockAddr(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b))) //nolint:gosec // address identity only
}
