package ptr

import "unsafe"

// Interior designates a location inside the allocation another pointer-like
// value resolves to: the base, displaced by a fixed byte offset. It is the
// natural shape of a field or element reference when the containing object
// lives behind a handle rather than a *T.
//
// The offset must keep the resolved address within the base allocation;
// Interior cannot check that, the backing store's layout is the caller's to
// know.
type Interior struct {
	base   Pointer
	offset uintptr
}

// NewInterior returns an Interior resolving offset bytes past base.
func NewInterior(base Pointer, offset uintptr) Interior {
	return Interior{base: base, offset: offset}
}

// UnsafePointer resolves the base and displaces it. If the base resolves to
// nil the displacement is not applied and the result is nil.
func (i Interior) UnsafePointer() unsafe.Pointer {
	base := ToAddress(i.base)
	if base == nil {
		return nil
	}

	return unsafe.Add(base, i.offset)
}

// Base returns the pointer-like value the offset is applied to.
func (i Interior) Base() Pointer {
	return i.base
}

// Offset returns the byte displacement from the base.
func (i Interior) Offset() uintptr {
	return i.offset
}
