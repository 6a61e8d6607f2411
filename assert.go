package memgo

import "sync/atomic"

// asserts gates the precondition checks that guard against programming
// defects, such as swapping containers with unequal non-propagating
// allocators or freeing through the wrong CheckedAllocator. Enabled by
// default.
var asserts atomic.Bool

func init() {
	asserts.Store(true)
}

// SetAsserts enables or disables precondition checks. Disabling trades the
// panics for silent skips; the conditions they guard remain programming
// defects either way.
func SetAsserts(enabled bool) {
	asserts.Store(enabled)
}

// AssertsEnabled reports whether precondition checks are active.
func AssertsEnabled() bool {
	return asserts.Load()
}
