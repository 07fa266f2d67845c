package memcore

import (
	"sync/atomic"

	"github.com/hupe1980/memcore/mempool"
)

// MetricsObserver receives pool events. Implement it to integrate with
// monitoring systems like Prometheus, and pass it with
// mempool.WithMetricsObserver.
type MetricsObserver = mempool.MetricsObserver

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver = mempool.NoopMetricsObserver

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
// One collector may observe several pools.
type BasicMetricsCollector struct {
	GroupsCreated  atomic.Int64
	GroupsReleased atomic.Int64
	GroupBytes     atomic.Int64
	SlotsReserved  atomic.Int64
	AllocFailures  atomic.Int64
	FreeRejections atomic.Int64
}

var _ MetricsObserver = (*BasicMetricsCollector)(nil)

// OnGroupCreated implements MetricsObserver.
func (b *BasicMetricsCollector) OnGroupCreated(elements int, bytes int64) {
	b.GroupsCreated.Add(1)
	b.GroupBytes.Add(bytes)
	b.SlotsReserved.Add(int64(elements))
}

// OnGroupReleased implements MetricsObserver.
func (b *BasicMetricsCollector) OnGroupReleased(elements int, bytes int64) {
	b.GroupsReleased.Add(1)
	b.GroupBytes.Add(-bytes)
	b.SlotsReserved.Add(-int64(elements))
}

// OnAllocFailed implements MetricsObserver.
func (b *BasicMetricsCollector) OnAllocFailed(error) {
	b.AllocFailures.Add(1)
}

// OnFreeRejected implements MetricsObserver.
func (b *BasicMetricsCollector) OnFreeRejected() {
	b.FreeRejections.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GroupsCreated:  b.GroupsCreated.Load(),
		GroupsReleased: b.GroupsReleased.Load(),
		LiveGroups:     b.GroupsCreated.Load() - b.GroupsReleased.Load(),
		GroupBytes:     b.GroupBytes.Load(),
		SlotsReserved:  b.SlotsReserved.Load(),
		AllocFailures:  b.AllocFailures.Load(),
		FreeRejections: b.FreeRejections.Load(),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GroupsCreated  int64
	GroupsReleased int64
	LiveGroups     int64
	GroupBytes     int64
	SlotsReserved  int64
	AllocFailures  int64
	FreeRejections int64
}
