package pow2

import "math/bits"

// Integer represents all integer types usable in power-of-two arithmetic.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Unsigned represents the unsigned subset of Integer.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IsPowerOfTwo reports whether v is a power of two.
func IsPowerOfTwo[T Integer](v T) bool {
	return v > 0 && v&(v-1) == 0
}

// FastMod returns v % d for a power-of-two divisor d, computed as v & (d-1).
//
// FastMod panics if d is not a power of two: the mask would be wrong for
// every other divisor, and a silently wrong remainder corrupts whatever
// bucket or slot arithmetic is built on top of it. Callers that validate
// the divisor once and reduce many values should use Divisor instead.
func FastMod[T Unsigned](v, d T) T {
	if !IsPowerOfTwo(d) {
		panic("pow2: divisor must be a power of two")
	}
	return v & (d - 1)
}

// Log2 returns the base-2 logarithm of a power of two, i.e. the k for
// which v == 1<<k. It panics if v is not a power of two.
func Log2[T Unsigned](v T) int {
	if !IsPowerOfTwo(v) {
		panic("pow2: value must be a power of two")
	}
	return bits.TrailingZeros64(uint64(v))
}

// NextPowerOfTwo returns the smallest power of two >= v.
// NextPowerOfTwo(0) and NextPowerOfTwo(1) both return 1.
// v must not exceed the largest power of two representable in T.
func NextPowerOfTwo[T Unsigned](v T) T {
	if v <= 1 {
		return 1
	}
	return T(1) << bits.Len64(uint64(v-1))
}

// PrevPowerOfTwo returns the largest power of two <= v, or 0 if v is 0.
func PrevPowerOfTwo[T Unsigned](v T) T {
	if v == 0 {
		return 0
	}
	return T(1) << (bits.Len64(uint64(v)) - 1)
}

// AlignUp returns the smallest value >= v that is a multiple of align.
// align must be a power of two; AlignUp panics otherwise.
func AlignUp[T Integer](v, align T) T {
	if !IsPowerOfTwo(align) {
		panic("pow2: alignment must be a power of two")
	}
	return (v + align - 1) &^ (align - 1)
}

// AlignDown returns the largest value <= v that is a multiple of align.
// align must be a power of two; AlignDown panics otherwise.
func AlignDown[T Integer](v, align T) T {
	if !IsPowerOfTwo(align) {
		panic("pow2: alignment must be a power of two")
	}
	return v &^ (align - 1)
}

// IsAligned reports whether v is a multiple of align.
// align must be a power of two; IsAligned panics otherwise.
func IsAligned[T Integer](v, align T) bool {
	if !IsPowerOfTwo(align) {
		panic("pow2: alignment must be a power of two")
	}
	return v&(align-1) == 0
}
