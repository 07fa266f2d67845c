package mempool

import (
	"errors"

	"github.com/hupe1980/memcore/internal/resource"
)

var (
	// ErrInvalidElementSize is returned for zero-size element types and
	// non-positive byte slot sizes.
	ErrInvalidElementSize = errors.New("mempool: invalid element size")
	// ErrInvalidGroupSize is returned when the group size is negative or too large.
	ErrInvalidGroupSize = errors.New("mempool: invalid group size")
	// ErrClosed is returned when allocating from a closed pool.
	ErrClosed = errors.New("mempool: pool is closed")
	// ErrCorrupt is returned by Verify when pool bookkeeping is inconsistent.
	ErrCorrupt = errors.New("mempool: corrupt pool")
	// ErrMemoryLimitExceeded is returned when a new group would exceed the
	// memory budget.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)
