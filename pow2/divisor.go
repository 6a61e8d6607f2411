package pow2

import (
	"errors"
	"fmt"
)

// ErrNotPowerOfTwo is returned when a divisor fails power-of-two validation.
var ErrNotPowerOfTwo = errors.New("pow2: divisor is not a power of two")

// Divisor is a power-of-two divisor validated once at construction time.
//
// Mod performs no validation, so containers that fix their bucket count up
// front (and reduce millions of hash values against it) pay for the
// power-of-two check exactly once. The zero value is not a valid Divisor;
// construct one with NewDivisor or MustDivisor.
type Divisor[T Unsigned] struct {
	d    T
	mask T
}

// NewDivisor validates d and returns a Divisor for it.
func NewDivisor[T Unsigned](d T) (Divisor[T], error) {
	if !IsPowerOfTwo(d) {
		return Divisor[T]{}, fmt.Errorf("%w: %d", ErrNotPowerOfTwo, uint64(d))
	}
	return Divisor[T]{d: d, mask: d - 1}, nil
}

// MustDivisor is like NewDivisor but panics on an invalid divisor.
// It is intended for divisors fixed at program start.
func MustDivisor[T Unsigned](d T) Divisor[T] {
	div, err := NewDivisor(d)
	if err != nil {
		panic(err)
	}
	return div
}

// Mod returns v % d for the validated divisor.
func (d Divisor[T]) Mod(v T) T {
	return v & d.mask
}

// Value returns the divisor value.
func (d Divisor[T]) Value() T {
	return d.d
}

// Mask returns the reduction mask, i.e. the divisor minus one.
func (d Divisor[T]) Mask() T {
	return d.mask
}
