package arena

import (
	"context"
	"fmt"
	"math"
	"unsafe"
)

// Make allocates a zeroed T from the arena and returns its Ref and typed
// pointer. The pointer stays valid until the arena is reset or freed; the
// Ref resolves to nil afterwards instead of dangling.
//
// T must not contain Go pointers: chunk memory is off-heap and the garbage
// collector never scans it, so a pointer stored there does not keep its
// target alive.
func Make[T any](a *Arena) (Ref, *T, error) {
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size == 0 {
		// Zero-size types need no arena backing.
		return Ref{}, new(T), nil
	}

	ref, buf, err := a.alloc(context.Background(), size, int(unsafe.Alignof(zero)))
	if err != nil {
		return Ref{}, nil, err
	}

	return ref, (*T)(unsafe.Pointer(unsafe.SliceData(buf))), nil
}

// MakeSlice allocates a []T with the given length and capacity backed by
// the arena. Appending past the capacity reallocates onto the Go heap and
// silently leaves the arena; size slices for their worst case.
//
// Like Make, T must not contain Go pointers.
func MakeSlice[T any](a *Arena, length, capacity int) (Ref, []T, error) {
	if capacity < length {
		capacity = length
	}
	if capacity <= 0 {
		return Ref{}, nil, nil
	}

	var zero T
	elemSize := int(unsafe.Sizeof(zero))
	if elemSize == 0 {
		// Zero-size elements need no arena backing.
		return Ref{}, make([]T, length, capacity), nil
	}
	if capacity > math.MaxInt/elemSize {
		return Ref{}, nil, fmt.Errorf("%w: %d elements of %d bytes", ErrAllocTooLarge, capacity, elemSize)
	}

	ref, buf, err := a.alloc(context.Background(), elemSize*capacity, int(unsafe.Alignof(zero)))
	if err != nil {
		return Ref{}, nil, err
	}

	s := unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), capacity)
	return ref, s[:length], nil
}
