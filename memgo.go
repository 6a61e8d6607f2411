package memgo

// Allocator is a minimal byte allocator. Allocate returns a zeroed slice of
// exactly size bytes, or nil when size <= 0 or the allocation is denied.
// Reallocate resizes a previously allocated slice (possibly moving it), and
// Free releases one; both must be given the exact slice an earlier call
// returned. Implementations define their own alignment and failure
// behavior; see HeapAllocator, CheckedAllocator and LimitAllocator.
//
// An Allocator is deliberately not general purpose: it hands out byte
// slices for container payloads, nothing more.
type Allocator interface {
	Allocate(size int) []byte
	Reallocate(size int, b []byte) []byte
	Free(b []byte)
}

// DefaultAllocator is used anywhere an Allocator is required and none was
// configured.
//
// DefaultAllocator is safe to use from multiple goroutines.
var DefaultAllocator Allocator = NewHeapAllocator()
