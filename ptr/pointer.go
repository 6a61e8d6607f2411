package ptr

import "unsafe"

// Pointer is implemented by pointer-like values that can resolve themselves
// to a raw address.
//
// Implementations built on top of other pointer-like values resolve by
// delegating to the wrapped value, so nesting is bounded by the static
// structure of the type. An implementation whose referent is absent (zero
// handle, stale generation, released backing store) must return nil rather
// than a dangling address.
type Pointer interface {
	UnsafePointer() unsafe.Pointer
}

// ToAddress resolves p to its raw address. A nil Pointer resolves to nil,
// mirroring how a nil *T carries no address.
func ToAddress(p Pointer) unsafe.Pointer {
	if p == nil {
		return nil
	}

	return p.UnsafePointer()
}

// As resolves p and reinterprets the address as a *T. The caller asserts
// that p designates a T; As(nil) and unresolvable pointers yield a nil *T.
func As[T any](p Pointer) *T {
	return (*T)(ToAddress(p))
}

// AddressOf returns the raw address of a plain pointer. It is the identity
// case of resolution: a *T already is its own address, no unwrapping
// applies.
func AddressOf[T any](p *T) unsafe.Pointer {
	return unsafe.Pointer(p)
}
