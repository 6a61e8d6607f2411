// Package pow2 provides power-of-two integer arithmetic for index and
// size calculations on allocation hot paths.
//
// Hash-style containers that constrain their bucket counts to powers of two
// can replace division with masking: for any power of two d, v % d equals
// v & (d-1). FastMod and Divisor implement that reduction; the alignment
// helpers apply the same masking to size and address rounding.
//
// All functions that take a divisor or alignment require it to be a power
// of two and panic otherwise. A wrong divisor is a programming defect in the
// calling container, and masking with it would produce silently wrong values;
// failing loudly is the only safe behavior. Divisor moves the validation to
// construction time so steady-state code paths carry no check at all.
package pow2
