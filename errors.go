package memgo

import (
	"errors"
	"fmt"
)

var (
	// ErrBudgetExceeded is returned when an allocation is denied because it
	// would exceed the configured memory budget.
	ErrBudgetExceeded = errors.New("memgo: memory budget exceeded")

	// ErrLeak indicates an allocator still tracks live allocations at a
	// point where none were expected.
	ErrLeak = errors.New("memgo: outstanding allocations")
)

// LeakError reports the outstanding allocations found by
// CheckedAllocator.AssertEmpty.
//
// LeakError wraps ErrLeak, so errors.Is(err, ErrLeak) matches it.
type LeakError struct {
	Allocs int
	Bytes  int64
}

func (e *LeakError) Error() string {
	return fmt.Sprintf("memgo: %d outstanding allocations (%d bytes)", e.Allocs, e.Bytes)
}

func (e *LeakError) Unwrap() error { return ErrLeak }
