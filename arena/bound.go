package arena

import (
	"github.com/hupe1980/memgo"
)

// BoundAllocator adapts an arena to the memgo.Allocator interface. Free is
// a no-op: bump arenas reclaim in bulk through Reset or Free on the arena
// itself, never per buffer.
//
// The policy is fully non-propagating. A bound allocator stands for one
// arena's lifetime, and silently rebinding a container to another arena on
// copy, move or swap would let its payload outlive the wrong arena; such
// containers may only swap payloads when both sides draw from the same
// arena, which is exactly what Equal reports. This makes BoundAllocator the
// canonical operand of the disabled-propagation swap check.
type BoundAllocator struct {
	arena *Arena
}

// Bind returns a BoundAllocator drawing from a.
func Bind(a *Arena) BoundAllocator {
	return BoundAllocator{arena: a}
}

// Arena returns the backing arena, or nil for the zero BoundAllocator.
func (b BoundAllocator) Arena() *Arena { return b.arena }

// Allocate draws size bytes from the arena. It returns nil when size <= 0,
// the allocator is unbound, or the arena cannot satisfy the allocation.
func (b BoundAllocator) Allocate(size int) []byte {
	if b.arena == nil || size <= 0 {
		return nil
	}

	_, buf, err := b.arena.Alloc(size)
	if err != nil {
		return nil
	}
	return buf
}

// Reallocate resizes buf. Shrinking reslices in place; growing allocates a
// fresh block and copies, abandoning the old block to the arena.
func (b BoundAllocator) Reallocate(size int, buf []byte) []byte {
	if size <= 0 {
		b.Free(buf)
		return nil
	}
	if size == len(buf) {
		return buf
	}
	if size < len(buf) {
		return buf[:size:size]
	}

	newBuf := b.Allocate(size)
	if newBuf == nil {
		return nil
	}
	copy(newBuf, buf)
	return newBuf
}

// Free is a no-op; the arena reclaims memory in bulk.
func (b BoundAllocator) Free(buf []byte) {}

// Policy never propagates.
func (BoundAllocator) Policy() memgo.Policy { return memgo.Policy{} }

// Equal reports whether both allocators draw from the same arena.
func (b BoundAllocator) Equal(other BoundAllocator) bool {
	return b.arena == other.arena
}

var (
	_ memgo.Allocator                  = BoundAllocator{}
	_ memgo.Propagator[BoundAllocator] = BoundAllocator{}
)
