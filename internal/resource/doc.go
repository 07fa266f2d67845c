// Package resource implements the memory budget shared by pools.
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and atomic counters
// for usage tracking. AcquireMemory is non-blocking and returns immediately
// with ErrMemoryLimitExceeded if the limit would be exceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(16384); err != nil {
//	    // ErrMemoryLimitExceeded - caller decides what to give back
//	}
//	defer rc.ReleaseMemory(16384)
//
// Pools charge the controller once per group, so one controller passed to
// several pools caps their combined footprint.
//
// # Thread Safety
//
// All Controller methods are safe for concurrent use.
//
// # Nil Safety
//
// All methods handle nil Controller gracefully - they become no-ops.
// This allows optional resource limiting without nil checks everywhere.
package resource
