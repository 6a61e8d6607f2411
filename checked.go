package memgo

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// CheckedAllocator instruments another Allocator to catch allocator misuse:
// leaks, double frees, and frees of buffers it never handed out. The base
// address of every live allocation is recorded in a roaring bitmap ledger;
// Free and Reallocate verify membership before delegating.
//
// An untracked free is a programming defect. With asserts enabled (the
// default) it panics; with asserts disabled it is logged through the
// configured Logger and the buffer is left alone.
//
// The policy propagates on copy, move and swap: the ledger must travel with
// the memory it tracks, so a container that changes hands takes its
// CheckedAllocator along. Equal reports ledger identity.
//
// CheckedAllocator is safe for concurrent use if the wrapped allocator is.
type CheckedAllocator struct {
	mem    Allocator
	logger *Logger

	mu     sync.Mutex
	ledger *roaring64.Bitmap
	bytes  int64
}

// CheckedOption is a configuration option for CheckedAllocator.
type CheckedOption func(*CheckedAllocator)

// WithLogger sets the logger used to report leaks and untracked frees.
// Pass nil to keep the default silent logger.
func WithLogger(logger *Logger) CheckedOption {
	return func(c *CheckedAllocator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCheckedAllocator creates a CheckedAllocator wrapping mem.
// If mem is nil, DefaultAllocator is wrapped.
func NewCheckedAllocator(mem Allocator, opts ...CheckedOption) *CheckedAllocator {
	if mem == nil {
		mem = DefaultAllocator
	}

	c := &CheckedAllocator{
		mem:    mem,
		logger: NoopLogger().WithAllocator("checked"),
		ledger: roaring64.New(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Allocate delegates to the wrapped allocator and records the allocation.
// A nil result from the wrapped allocator (denied or empty) is passed
// through untracked.
func (c *CheckedAllocator) Allocate(size int) []byte {
	buf := c.mem.Allocate(size)
	if len(buf) == 0 {
		return buf
	}

	c.mu.Lock()
	c.ledger.Add(baseAddr(buf))
	c.bytes += int64(len(buf))
	c.mu.Unlock()

	return buf
}

// Reallocate resizes a tracked buffer, updating the ledger to the new base
// address. Resizing an untracked buffer is a defect, handled like an
// untracked free. When the wrapped allocator denies the resize, b stays
// tracked and live.
func (c *CheckedAllocator) Reallocate(size int, b []byte) []byte {
	if len(b) == 0 {
		return c.Allocate(size)
	}
	if size <= 0 {
		c.Free(b)
		return nil
	}

	oldAddr := baseAddr(b)

	c.mu.Lock()
	tracked := c.ledger.Contains(oldAddr)
	c.mu.Unlock()

	if !tracked {
		c.onUntracked(oldAddr, len(b))
		return nil
	}

	newBuf := c.mem.Reallocate(size, b)
	if newBuf == nil {
		return nil
	}

	c.mu.Lock()
	c.ledger.Remove(oldAddr)
	c.bytes -= int64(len(b))
	c.ledger.Add(baseAddr(newBuf))
	c.bytes += int64(len(newBuf))
	c.mu.Unlock()

	return newBuf
}

// Free releases a tracked buffer. Freeing a buffer twice, or one obtained
// from a different allocator, is a defect: it panics with asserts enabled
// and is logged and skipped otherwise.
func (c *CheckedAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}

	addr := baseAddr(b)

	c.mu.Lock()
	if !c.ledger.Contains(addr) {
		c.mu.Unlock()
		c.onUntracked(addr, len(b))
		return
	}
	c.ledger.Remove(addr)
	c.bytes -= int64(len(b))
	c.mu.Unlock()

	c.mem.Free(b)
}

// LiveAllocs returns the number of allocations that have not been freed.
func (c *CheckedAllocator) LiveAllocs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return int(c.ledger.GetCardinality())
}

// LiveBytes returns the total size of allocations that have not been freed.
func (c *CheckedAllocator) LiveBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bytes
}

// AssertEmpty reports leaked allocations. It returns nil when every
// allocation has been freed, and a *LeakError (logged through the
// configured Logger) otherwise. Call it at teardown, after the owning
// container released everything.
func (c *CheckedAllocator) AssertEmpty() error {
	c.mu.Lock()
	allocs := int(c.ledger.GetCardinality())
	bytes := c.bytes
	c.mu.Unlock()

	if allocs == 0 {
		return nil
	}

	c.logger.LogLeaks(context.Background(), allocs, bytes)
	return &LeakError{Allocs: allocs, Bytes: bytes}
}

// Policy propagates on copy, move and swap: the ledger follows the memory
// it tracks.
func (*CheckedAllocator) Policy() Policy {
	return Policy{OnCopy: true, OnMove: true, OnSwap: true}
}

// Equal reports whether both wrappers share one ledger, i.e. are the same
// CheckedAllocator.
func (c *CheckedAllocator) Equal(other *CheckedAllocator) bool { return c == other }

func (c *CheckedAllocator) onUntracked(addr uint64, size int) {
	if AssertsEnabled() {
		panic(fmt.Sprintf("memgo: free of untracked buffer (addr=%#x, size=%d)", addr, size))
	}
	c.logger.LogUntrackedFree(context.Background(), addr, size)
}

// baseAddr returns the address of a slice's backing array, the key under
// which CheckedAllocator tracks it.
func baseAddr(b []byte) uint64 {
	return uint64(uintptr(unsafe.Pointer(unsafe.SliceData(b))))
}

var (
	_ Allocator                     = (*CheckedAllocator)(nil)
	_ Propagator[*CheckedAllocator] = (*CheckedAllocator)(nil)
)
