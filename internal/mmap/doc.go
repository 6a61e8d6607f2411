// Package mmap provides anonymous memory mappings for off-heap allocation.
//
// # Overview
//
// Anonymous mappings obtain large, zero-initialized memory regions directly
// from the operating system, outside the Go garbage collector's control.
// The arena package uses them as chunk backing storage so that multi-gigabyte
// regions do not inflate GC scan times.
//
// # Usage
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	buf := m.Bytes() // read-write, zero-initialized
//
//	// Provide kernel hints for access patterns
//	m.Advise(mmap.AccessRandom)
//
// # Platform Support
//
// The package provides a unified API across platforms:
//
//   - Unix (Linux, macOS, BSD): Uses mmap(2) with MAP_ANON|MAP_PRIVATE and
//     madvise(2) for access hints
//   - Windows: Uses VirtualAlloc with demand-paged commit (Advise is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent access to Bytes(). Close() is idempotent
// and protected by atomic operations, but callers must ensure no goroutine
// touches the mapped memory after Close() returns.
package mmap
