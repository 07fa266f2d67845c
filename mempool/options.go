package mempool

import (
	"log/slog"

	"github.com/hupe1980/memcore/internal/resource"
)

const (
	// DefaultGroupBytes is the target footprint of one group when no group
	// size is configured.
	DefaultGroupBytes = 16 * 1024
	// GroupHeaderSize is the per-group bookkeeping overhead charged against
	// DefaultGroupBytes and the memory budget.
	GroupHeaderSize = 16
)

// MemoryBudget is charged once per group. *resource.Controller, as returned
// by memcore.NewMemoryBudget, implements it.
type MemoryBudget interface {
	// AcquireMemory reserves bytes or fails without blocking.
	AcquireMemory(bytes int64) error
	// ReleaseMemory returns bytes reserved earlier.
	ReleaseMemory(bytes int64)
}

// Allocator supplies group memory to a Bytes pool. Blocks must be zeroed and
// at least word aligned.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(b []byte) error
}

type options struct {
	groupSize    int
	releaseEmpty bool
	logger       *slog.Logger
	metrics      MetricsObserver
	budget       MemoryBudget
	allocator    Allocator
	mmap         bool
}

// Option configures a pool.
type Option func(*options)

func defaultOptions() options {
	return options{
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsObserver{},
	}
}

// WithGroupSize sets the number of elements per group. Zero selects the
// largest count that keeps a group within DefaultGroupBytes, but at least one.
func WithGroupSize(n int) Option {
	return func(o *options) {
		o.groupSize = n
	}
}

// WithReleaseEmptyGroups makes the pool give a group's memory back as soon as
// its last slot is freed.
func WithReleaseEmptyGroups(enabled bool) Option {
	return func(o *options) {
		o.releaseEmpty = enabled
	}
}

// WithLogger sets the logger for group lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetricsObserver sets the observer for pool events.
func WithMetricsObserver(m MetricsObserver) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithMemoryLimit caps the memory held by this pool's groups.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.budget = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

// WithMemoryBudget charges groups against b, which may be shared with other
// pools.
func WithMemoryBudget(b MemoryBudget) Option {
	return func(o *options) {
		if b != nil {
			o.budget = b
		}
	}
}

// WithAllocator sets the group memory source of a Bytes pool. Typed pools
// ignore it.
func WithAllocator(a Allocator) Option {
	return func(o *options) {
		if a != nil {
			o.allocator = a
			o.mmap = false
		}
	}
}

// WithMmap makes a Bytes pool map its groups anonymously, outside the Go
// heap. Typed pools ignore it.
func WithMmap() Option {
	return func(o *options) {
		o.allocator = nil
		o.mmap = true
	}
}
