// Package ptr resolves pointer-like values to raw addresses.
//
// A pointer-like value is anything that ultimately designates a memory
// location but is not itself a *T: an offset handle into an arena, a
// displaced view of a field inside a larger allocation, or an address with
// metadata packed into its spare low bits. The Pointer interface captures
// the one capability all of them share, producing the raw address, and
// ToAddress is the uniform entry point that also tolerates nil.
//
// Resolution is structural. A wrapper resolves by resolving the value it
// wraps, so the depth of a chain is fixed by the types involved and every
// chain bottoms out in a raw unsafe.Pointer. There is no runtime walk that
// could cycle.
//
// For plain pointers no wrapper is needed: AddressOf is the identity case
// and As converts a resolved address back into a typed pointer.
package ptr
