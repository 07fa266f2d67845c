package memcore

import (
	"github.com/hupe1980/memcore/mempool"
)

// Pool errors, re-exported so callers need only this package for errors.Is.
var (
	// ErrInvalidElementSize is returned for zero-size element types and
	// non-positive byte slot sizes.
	ErrInvalidElementSize = mempool.ErrInvalidElementSize
	// ErrInvalidGroupSize is returned for negative or oversized group sizes.
	ErrInvalidGroupSize = mempool.ErrInvalidGroupSize
	// ErrMemoryLimitExceeded is returned when a pool's budget is exhausted.
	ErrMemoryLimitExceeded = mempool.ErrMemoryLimitExceeded
	// ErrClosed is returned when allocating from a closed pool.
	ErrClosed = mempool.ErrClosed
)
