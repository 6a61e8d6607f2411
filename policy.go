package memgo

// Policy declares how values of an allocator type travel when the container
// holding them is copy-assigned, move-assigned, or swapped. It is a
// property of the type: Policy() must return the same value for every
// receiver, including the zero value and, for pointer implementations, the
// nil receiver.
type Policy struct {
	// OnCopy propagates the source allocator on copy assignment.
	OnCopy bool

	// OnMove propagates (and consumes) the source allocator on move
	// assignment.
	OnMove bool

	// OnSwap exchanges the two allocators on swap. When false, swapping
	// is only meaningful between equal allocators.
	OnSwap bool
}

// Propagator is the constraint satisfied by allocator types that take part
// in container assignment and swap. Equal reports observable
// interchangeability: memory obtained from one allocator may be released
// through the other.
//
// The constraint is self-referential, so both operands of a propagation
// rule are forced to the same allocator type at compile time; there is no
// cross-type case to handle at runtime.
type Propagator[A any] interface {
	Policy() Policy
	Equal(A) bool
}

// PropagateOnCopy applies copy-assignment propagation: dst takes src's
// value iff the type's policy enables OnCopy. Otherwise both are left
// untouched. It never fails.
func PropagateOnCopy[A Propagator[A]](dst, src *A) {
	if (*src).Policy().OnCopy {
		*dst = *src
	}
}

// PropagateOnMove applies move-assignment propagation: iff the type's
// policy enables OnMove, dst takes src's value and src is reset to the zero
// value of A (valid but unspecified, the moved-from state). When disabled,
// dst and src are both left untouched and src is not consumed.
func PropagateOnMove[A Propagator[A]](dst, src *A) {
	if (*src).Policy().OnMove {
		*dst = *src

		var zero A
		*src = zero
	}
}

// PropagateOnSwap applies swap propagation: iff the type's policy enables
// OnSwap, the two values are exchanged. When disabled, the containers'
// payloads may still be swapped by the caller but the allocators stay put,
// which is only sound if they are interchangeable; a.Equal(b) is therefore
// a precondition of the disabled case. With asserts enabled a violation
// panics, with asserts disabled the check is skipped and the program is on
// its own.
func PropagateOnSwap[A Propagator[A]](a, b *A) {
	if (*a).Policy().OnSwap {
		*a, *b = *b, *a
		return
	}

	if AssertsEnabled() && !(*a).Equal(*b) {
		panic("memgo: cannot swap containers with unequal non-propagating allocators")
	}
}
