// Package arena provides a chunked off-heap bump allocator with
// generation-checked references.
//
// # Memory Management
//
// Memory is obtained from the operating system in power-of-two chunks via
// anonymous mappings, outside the garbage collector's reach, so large
// regions do not inflate GC scan times. Within a chunk, allocation is a
// lock-free compare-and-swap bump; individual allocations are never freed,
// the arena reclaims in bulk through Reset or Free.
//
// # References
//
// Alloc returns a Ref alongside the raw bytes. A Ref pins nothing: Reset
// and Free advance the arena's generation, and a Ref issued under an
// earlier generation resolves to nil instead of a dangling address. Handle
// binds a Ref to its arena as a ptr.Pointer, so arena-backed structures
// compose with the pointer resolution machinery.
//
// # Concurrency Model
//
// Allocations may run concurrently from any number of goroutines. Reset and
// Free must not run concurrently with allocations or resolution; IncRef and
// DecRef bracket long-running readers so reclamation can wait them out.
//
// # Resource Limits
//
// The arena itself is unbounded. WithMemoryAcquirer charges chunk mappings
// against a budget and WithGrowthLimiter throttles how fast new chunks may
// be mapped; resource.Controller implements both.
package arena
