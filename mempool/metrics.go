package mempool

// MetricsObserver defines the interface for observing pool events.
//
// Callbacks run synchronously on the allocating goroutine and must not call
// back into the pool.
type MetricsObserver interface {
	// OnGroupCreated is called after a group has been added to the pool.
	OnGroupCreated(elements int, bytes int64)

	// OnGroupReleased is called after a group's memory has been given back.
	OnGroupReleased(elements int, bytes int64)

	// OnAllocFailed is called when a new group could not be obtained.
	OnAllocFailed(err error)

	// OnFreeRejected is called when Free is handed an address that is not a
	// live slot of the pool.
	OnFreeRejected()
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnGroupCreated(int, int64)  {}
func (NoopMetricsObserver) OnGroupReleased(int, int64) {}
func (NoopMetricsObserver) OnAllocFailed(error)        {}
func (NoopMetricsObserver) OnFreeRejected()            {}
