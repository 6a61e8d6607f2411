package memgo

import (
	"fmt"
	"sync"

	"github.com/hupe1980/memgo/resource"
)

// LimitAllocator enforces a resource.Controller memory budget on another
// Allocator. Allocations the budget denies return nil, the way a full
// allocator reports failure through the Allocator interface; the denial
// itself is retrievable via Err.
//
// A nil controller enforces nothing and only passes allocations through.
//
// The policy is fully non-propagating: the budget is bound to the wrapper,
// and moving it silently between containers would let one container spend
// another's budget. Equal reports whether two wrappers share a controller,
// which makes them interchangeable for accounting.
type LimitAllocator struct {
	mem  Allocator
	ctrl *resource.Controller

	mu  sync.Mutex
	err error
}

// NewLimitAllocator creates a LimitAllocator charging allocations from mem
// against ctrl. If mem is nil, DefaultAllocator is wrapped.
func NewLimitAllocator(mem Allocator, ctrl *resource.Controller) *LimitAllocator {
	if mem == nil {
		mem = DefaultAllocator
	}

	return &LimitAllocator{
		mem:  mem,
		ctrl: ctrl,
	}
}

// Allocate reserves size bytes from the budget, then delegates. It returns
// nil when the budget denies the reservation; Err reports the denial.
func (l *LimitAllocator) Allocate(size int) []byte {
	if size <= 0 {
		return nil
	}

	if !l.ctrl.TryAcquireMemory(int64(size)) {
		l.deny(size)
		return nil
	}

	buf := l.mem.Allocate(size)
	if buf == nil {
		l.ctrl.ReleaseMemory(int64(size))
		return nil
	}

	return buf
}

// Reallocate adjusts the reservation by the size delta, then delegates.
// A denied growth returns nil and leaves b reserved and live.
func (l *LimitAllocator) Reallocate(size int, b []byte) []byte {
	if size <= 0 {
		l.Free(b)
		return nil
	}

	delta := int64(size - len(b))
	if delta > 0 && !l.ctrl.TryAcquireMemory(delta) {
		l.deny(size)
		return nil
	}

	buf := l.mem.Reallocate(size, b)
	if buf == nil {
		if delta > 0 {
			l.ctrl.ReleaseMemory(delta)
		}
		return nil
	}

	if delta < 0 {
		l.ctrl.ReleaseMemory(-delta)
	}

	return buf
}

// Free delegates, then returns the buffer's reservation to the budget.
func (l *LimitAllocator) Free(b []byte) {
	l.mem.Free(b)
	l.ctrl.ReleaseMemory(int64(len(b)))
}

// Err returns the most recent budget denial, or nil if every request has
// been admitted so far.
func (l *LimitAllocator) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Controller returns the controller the budget is charged against.
func (l *LimitAllocator) Controller() *resource.Controller { return l.ctrl }

// Policy never propagates: the budget stays with the container it was
// configured for.
func (*LimitAllocator) Policy() Policy { return Policy{} }

// Equal reports whether both wrappers charge the same controller.
func (l *LimitAllocator) Equal(other *LimitAllocator) bool {
	if l == nil || other == nil {
		return l == other
	}
	return l.ctrl == other.ctrl
}

func (l *LimitAllocator) deny(size int) {
	err := fmt.Errorf("%w: %d bytes: %w", ErrBudgetExceeded, size, resource.ErrMemoryLimit)

	l.mu.Lock()
	l.err = err
	l.mu.Unlock()
}

var (
	_ Allocator                   = (*LimitAllocator)(nil)
	_ Propagator[*LimitAllocator] = (*LimitAllocator)(nil)
)
