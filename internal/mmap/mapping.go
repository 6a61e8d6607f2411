package mmap

import (
	"errors"
	"sync/atomic"
)

// AccessPattern provides hints to the kernel about how the memory will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects memory to be accessed sequentially.
	AccessSequential
	// AccessRandom expects memory to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects memory to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects memory to not be accessed in the near future.
	AccessDontNeed
)

var (
	// ErrClosed is returned when attempting to access a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidSize is returned when the requested size is not positive.
	ErrInvalidSize = errors.New("mmap: invalid mapping size")
)

// Mapping represents an anonymous memory mapping.
// It owns the underlying byte slice and is responsible for unmapping it.
type Mapping struct {
	data   []byte
	size   int
	closed atomic.Bool
	// unmap is the platform-specific function to release the memory.
	unmap func([]byte) error
}

// MapAnon creates a read-write anonymous mapping of the given size.
// The returned memory is zero-initialized and not tracked by the Go GC.
func MapAnon(size int) (*Mapping, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	data, unmapFunc, err := osMapAnon(size)
	if err != nil {
		return nil, err
	}

	return &Mapping{
		data:  data,
		size:  size,
		unmap: unmapFunc,
	}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil // Already closed
	}
	if m.unmap != nil && m.data != nil {
		return m.unmap(m.data)
	}
	return nil
}

// Bytes returns the underlying byte slice.
// Warning: The slice is valid only until Close() is called.
// Accessing the slice after Close() results in undefined behavior (likely a crash).
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	return m.size
}

// Advise provides hints to the kernel about how the memory will be accessed.
func (m *Mapping) Advise(pattern AccessPattern) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if m.data == nil {
		return nil
	}
	return osAdvise(m.data, pattern)
}
