package memgo

import (
	"unsafe"

	"github.com/hupe1980/memgo/pow2"
)

// Alignment is the byte alignment of buffers returned by HeapAllocator
// (64 bytes, matching cache lines and AVX-512 vector width).
const Alignment = 64

// HeapAllocator adapts the Go heap to the Allocator interface. Buffers are
// zeroed, 64-byte aligned and reclaimed by the garbage collector, so Free is
// a no-op.
//
// HeapAllocator is stateless: every instance is interchangeable with every
// other, and Equal always reports true. Its policy propagates on move only,
// which keeps moved-to containers self-contained without ever rebinding a
// copied or swapped container.
type HeapAllocator struct{}

// NewHeapAllocator creates a new HeapAllocator.
func NewHeapAllocator() *HeapAllocator { return &HeapAllocator{} }

// Allocate returns a zeroed, 64-byte aligned slice of exactly size bytes.
// It returns nil when size <= 0.
func (a *HeapAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}

	// Over-allocate so an aligned start always exists inside the buffer.
	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	shift := pow2.AlignUp(addr, Alignment) - addr

	return buf[shift : shift+uintptr(size) : shift+uintptr(size)]
}

// Reallocate resizes b to size bytes, moving it to a fresh aligned buffer
// when the size changes. Contents are preserved up to the smaller of the two
// sizes.
func (a *HeapAllocator) Reallocate(size int, b []byte) []byte {
	if size == len(b) {
		return b
	}

	newBuf := a.Allocate(size)
	copy(newBuf, b)
	return newBuf
}

// Free is a no-op; the garbage collector reclaims heap buffers.
func (a *HeapAllocator) Free(b []byte) {}

// Policy propagates on move assignment only.
func (*HeapAllocator) Policy() Policy { return Policy{OnMove: true} }

// Equal always reports true: HeapAllocator carries no state, so any
// instance can free what another allocated.
func (a *HeapAllocator) Equal(other *HeapAllocator) bool { return true }

var (
	_ Allocator                  = (*HeapAllocator)(nil)
	_ Propagator[*HeapAllocator] = (*HeapAllocator)(nil)
)
