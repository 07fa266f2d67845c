package mempool

import "sync"

// Locked wraps a Pool with a mutex so several goroutines can share it.
type Locked[T any] struct {
	mu   sync.Mutex
	pool *Pool[T]
}

// NewLocked creates a mutex-guarded pool of T.
func NewLocked[T any](opts ...Option) (*Locked[T], error) {
	p, err := New[T](opts...)
	if err != nil {
		return nil, err
	}
	return &Locked[T]{pool: p}, nil
}

// Alloc returns a pointer to a zeroed element.
func (l *Locked[T]) Alloc() (*T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Alloc()
}

// Free returns x to the pool.
func (l *Locked[T]) Free(x *T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Free(x)
}

// IsManaged reports whether x points into memory owned by the pool.
func (l *Locked[T]) IsManaged(x *T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.IsManaged(x)
}

// Len returns the number of allocated elements.
func (l *Locked[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Len()
}

// ReleaseEmptyGroups sets the empty-group policy.
func (l *Locked[T]) ReleaseEmptyGroups(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pool.ReleaseEmptyGroups(enabled)
}

// Do runs fn with exclusive access to the underlying pool.
func (l *Locked[T]) Do(fn func(p *Pool[T])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.pool)
}

// Stats returns the pool geometry and occupancy.
func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Stats()
}

// Verify checks the pool's internal bookkeeping.
func (l *Locked[T]) Verify() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Verify()
}

// Close releases every group.
func (l *Locked[T]) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pool.Close()
}
