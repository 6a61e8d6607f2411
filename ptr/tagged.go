package ptr

import (
	"errors"
	"fmt"
	"unsafe"
)

var (
	// ErrTagTooLarge is returned when a tag needs more bits than the
	// pointee's alignment leaves free.
	ErrTagTooLarge = errors.New("ptr: tag does not fit in the alignment bits")

	// ErrNilTagged is returned when a non-zero tag is attached to a nil
	// pointer.
	ErrNilTagged = errors.New("ptr: nil pointer cannot carry a tag")
)

// Tagged packs a small integer tag into the low bits of a *T. Alignment
// guarantees those bits are zero in any valid address, so a T aligned to
// 8 bytes spares 3 bits, a T aligned to 1 spares none. The tagged word
// still points into the original allocation, which keeps the referent
// reachable while the tag rides along.
//
// The zero Tagged designates nil with tag 0. Resolving masks the tag away.
type Tagged[T any] struct {
	p unsafe.Pointer
}

// TagMask returns the largest tag a pointer to T can carry, i.e. the mask
// of low address bits that T's alignment forces to zero.
func TagMask[T any]() uintptr {
	var zero T

	return unsafe.Alignof(zero) - 1
}

// NewTagged combines p and tag. The tag must fit in TagMask[T] and a nil p
// accepts only tag 0.
func NewTagged[T any](p *T, tag uintptr) (Tagged[T], error) {
	if mask := TagMask[T](); tag&^mask != 0 {
		return Tagged[T]{}, fmt.Errorf("%w: tag %#x exceeds mask %#x", ErrTagTooLarge, tag, mask)
	}

	if p == nil {
		if tag != 0 {
			return Tagged[T]{}, ErrNilTagged
		}

		return Tagged[T]{}, nil
	}

	return Tagged[T]{p: unsafe.Add(unsafe.Pointer(p), tag)}, nil
}

// MustTagged is NewTagged that panics on error.
func MustTagged[T any](p *T, tag uintptr) Tagged[T] {
	t, err := NewTagged(p, tag)
	if err != nil {
		panic(err)
	}

	return t
}

// UnsafePointer returns the address with the tag bits cleared.
func (t Tagged[T]) UnsafePointer() unsafe.Pointer {
	if t.p == nil {
		return nil
	}

	return unsafe.Add(t.p, -int(uintptr(t.p)&TagMask[T]()))
}

// Pointer returns the untagged address as a typed pointer.
func (t Tagged[T]) Pointer() *T {
	return (*T)(t.UnsafePointer())
}

// Tag returns the tag bits.
func (t Tagged[T]) Tag() uintptr {
	return uintptr(t.p) & TagMask[T]()
}

// WithTag returns a Tagged to the same address carrying a new tag.
func (t Tagged[T]) WithTag(tag uintptr) (Tagged[T], error) {
	return NewTagged(t.Pointer(), tag)
}
