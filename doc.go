// Package memgo provides the primitives that allocation-aware containers
// are built from: a byte allocator interface with reference implementations,
// type-level propagation rules for allocator-carrying values, and the
// pointer and power-of-two machinery that goes with them.
//
// # Allocators
//
// Allocator is a minimal byte allocator. HeapAllocator adapts the Go heap
// and returns 64-byte aligned buffers, CheckedAllocator instruments another
// allocator to catch leaks and bad frees, LimitAllocator enforces a
// resource.Controller budget:
//
//	mem := memgo.NewCheckedAllocator(memgo.NewHeapAllocator())
//	buf := mem.Allocate(4096)
//	defer mem.Free(buf)
//
//	if err := mem.AssertEmpty(); err != nil {
//	    // something leaked
//	}
//
// # Propagation
//
// Containers that embed an allocator must decide, on copy assignment, move
// assignment, and swap, whether the allocator travels with the payload.
// The Policy of the allocator type answers that once, and the three
// propagation rules apply it:
//
//	memgo.PropagateOnCopy(&dst.alloc, &src.alloc)
//	memgo.PropagateOnMove(&dst.alloc, &src.alloc)
//	memgo.PropagateOnSwap(&a.alloc, &b.alloc)
//
// Swapping containers whose allocators neither propagate nor compare equal
// has no correct outcome; with asserts enabled (the default) it panics.
// SetAsserts(false) removes the check for release builds.
//
// # Subpackages
//
//   - ptr: resolution of pointer-like values (arena handles, interior
//     offsets, tagged pointers) to raw addresses
//   - pow2: power-of-two arithmetic, fast modulus, alignment helpers
//   - arena: chunked off-heap bump arena with generation-checked handles
//   - resource: memory budget and growth throttling
package memgo
