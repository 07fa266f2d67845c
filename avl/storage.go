package avl

import (
	"fmt"
	"math/bits"
)

// Handle is a stable reference to a node held by a Storage. The zero Handle is
// the nil link.
type Handle uint64

type balance uint8

const (
	balanced balance = iota
	leanRight
	leanLeft
)

// Node is a tree node as laid out in node storage. Its fields are owned by the
// tree; storage implementations only hold and zero it.
type Node[K, V any] struct {
	key   K
	value V
	left  Handle
	right Handle
	bal   balance
}

// Storage supplies node memory to a Tree.
//
// Pointers returned by Node must stay valid until the handle is freed or the
// storage is reset, even while other nodes are allocated.
type Storage[K, V any] interface {
	// Alloc reserves a node and returns its handle. It never returns the zero
	// Handle without an error.
	Alloc() (Handle, error)
	// Node returns the node behind h.
	Node(h Handle) *Node[K, V]
	// Free returns h to the storage.
	Free(h Handle)
	// Reset frees every node at once.
	Reset()
	// Close releases the storage itself.
	Close() error
}

// DefaultArenaChunkSize is the number of nodes per Arena chunk.
const DefaultArenaChunkSize = 256

// ArenaStats tracks Arena usage.
type ArenaStats struct {
	ChunksAllocated uint64 // Historical: chunks ever created
	ActiveChunks    uint64 // Current: chunks held
	NodesReserved   uint64 // Current: node slots in active chunks
	NodesLive       uint64 // Current: allocated nodes
	TotalAllocs     uint64 // Historical: Alloc calls that succeeded
}

// ArenaOption configures an Arena.
type ArenaOption func(*arenaConfig)

type arenaConfig struct {
	chunkSize int
}

// WithChunkSize sets the number of nodes per chunk. It is rounded up to a
// power of two; non-positive values select DefaultArenaChunkSize.
func WithChunkSize(n int) ArenaOption {
	return func(c *arenaConfig) {
		c.chunkSize = n
	}
}

// Arena is the general-allocator node storage. Nodes live in fixed-size
// chunks so growing the arena never moves an existing node.
type Arena[K, V any] struct {
	chunks    [][]Node[K, V]
	chunkBits uint
	next      int // first never-used index
	free      []Handle
	live      int

	chunksAllocated uint64
	totalAllocs     uint64
}

var _ Storage[int, int] = (*Arena[int, int])(nil)

// NewArena creates an empty Arena.
func NewArena[K, V any](opts ...ArenaOption) *Arena[K, V] {
	cfg := arenaConfig{chunkSize: DefaultArenaChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunkSize <= 0 {
		cfg.chunkSize = DefaultArenaChunkSize
	}
	return &Arena[K, V]{chunkBits: uint(bits.Len(uint(cfg.chunkSize - 1)))}
}

func (a *Arena[K, V]) chunkSize() int { return 1 << a.chunkBits }

// Alloc implements Storage.
func (a *Arena[K, V]) Alloc() (Handle, error) {
	a.totalAllocs++
	a.live++
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		return h, nil
	}
	idx := a.next
	if idx>>a.chunkBits >= len(a.chunks) {
		a.chunks = append(a.chunks, make([]Node[K, V], a.chunkSize()))
		a.chunksAllocated++
	}
	a.next++
	return Handle(idx + 1), nil
}

// Node implements Storage.
func (a *Arena[K, V]) Node(h Handle) *Node[K, V] {
	idx := int(h - 1)
	return &a.chunks[idx>>a.chunkBits][idx&(a.chunkSize()-1)]
}

// Free implements Storage.
func (a *Arena[K, V]) Free(h Handle) {
	*a.Node(h) = Node[K, V]{}
	a.free = append(a.free, h)
	a.live--
}

// Reset implements Storage. The first chunk is kept for reuse.
func (a *Arena[K, V]) Reset() {
	for i := range a.chunks {
		clear(a.chunks[i])
	}
	if len(a.chunks) > 1 {
		clear(a.chunks[1:])
		a.chunks = a.chunks[:1]
	}
	a.next = 0
	a.free = a.free[:0]
	a.live = 0
}

// Close implements Storage.
func (a *Arena[K, V]) Close() error {
	a.chunks = nil
	a.free = nil
	a.next = 0
	a.live = 0
	return nil
}

// Len returns the number of live nodes.
func (a *Arena[K, V]) Len() int { return a.live }

// Stats returns the current arena statistics.
func (a *Arena[K, V]) Stats() ArenaStats {
	return ArenaStats{
		ChunksAllocated: a.chunksAllocated,
		ActiveChunks:    uint64(len(a.chunks)),
		NodesReserved:   uint64(len(a.chunks) * a.chunkSize()), //nolint:gosec // non-negative
		NodesLive:       uint64(a.live),                         //nolint:gosec // non-negative
		TotalAllocs:     a.totalAllocs,
	}
}

// Usage returns the share of reserved node slots in use, in percent.
func (a *Arena[K, V]) Usage() float64 {
	st := a.Stats()
	if st.NodesReserved == 0 {
		return 0
	}
	return float64(st.NodesLive) / float64(st.NodesReserved) * 100
}

func (a *Arena[K, V]) String() string {
	st := a.Stats()
	return fmt.Sprintf("Arena{chunks: %d, reserved: %d, live: %d, usage: %.1f%%, allocs: %d}",
		st.ActiveChunks, st.NodesReserved, st.NodesLive, a.Usage(), st.TotalAllocs)
}
