// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// MapAnon obtains read-write memory straight from the operating system. The
// pages are not scanned or moved by the Go garbage collector, which makes them
// suitable as backing storage for large pool groups.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): Uses mmap(2) with madvise(2) for access hints
//   - Windows: Uses VirtualAlloc/VirtualFree (madvise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by atomic operations. Callers must ensure
// no goroutines access Bytes() after Close() returns.
package mmap
