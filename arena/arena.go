package arena

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/memgo/internal/conv"
	"github.com/hupe1980/memgo/internal/mmap"
	"github.com/hupe1980/memgo/pow2"
)

// MemoryAcquirer reserves memory for chunk mappings before they are created
// and takes it back when they are released. *resource.Controller implements
// it.
type MemoryAcquirer interface {
	AcquireMemory(ctx context.Context, amount int64) error
	ReleaseMemory(amount int64)
}

// GrowthLimiter throttles how fast the arena may map new chunks.
// *resource.Controller implements it.
type GrowthLimiter interface {
	AwaitGrowth(ctx context.Context) error
}

var (
	// ErrClosed is returned when allocating from a freed arena.
	ErrClosed = errors.New("arena: arena is closed")
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum
	// number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrAllocTooLarge is returned when a single allocation cannot fit in
	// one chunk.
	ErrAllocTooLarge = errors.New("arena: allocation exceeds chunk size")
)

const (
	// DefaultChunkSize is the default size of a chunk (1MB).
	DefaultChunkSize = 1024 * 1024
	// DefaultAlignment is the default allocation alignment (8 bytes).
	DefaultAlignment = 8
	// MaxChunks limits the number of chunks to prevent excessive memory
	// usage. Limit to 64GB addressable space with 1MB chunks.
	MaxChunks = 65536
)

// Stats tracks arena memory usage metrics.
//
// Note on semantics:
//   - BytesReserved: total memory currently mapped from the OS
//   - BytesUsed: actual bytes requested by allocations (before alignment)
//   - BytesWasted: padding added for alignment
//   - ActiveChunks: number of chunks currently held
//   - ChunksAllocated, TotalAllocs: cumulative counts
type Stats struct {
	ChunksAllocated uint64
	BytesReserved   uint64
	BytesUsed       uint64
	BytesWasted     uint64
	ActiveChunks    uint64
	TotalAllocs     uint64
}

// Ref is a compact reference to an arena allocation: the generation under
// which it was issued and the global offset of its first byte. The zero Ref
// is null and never resolves; neither does a Ref whose generation is no
// longer current.
type Ref struct {
	Gen    uint32
	Offset uint64
}

// Null reports whether r is the null reference.
func (r Ref) Null() bool { return r.Gen == 0 }

type atomicStats struct {
	ChunksAllocated atomic.Uint64
	BytesReserved   atomic.Uint64
	BytesUsed       atomic.Uint64
	BytesWasted     atomic.Uint64
	ActiveChunks    atomic.Uint64
	TotalAllocs     atomic.Uint64
}

type chunk struct {
	data    []byte
	mapping *mmap.Mapping
	offset  atomic.Int64 // MUST be atomic - bumped concurrently without locks
	index   uint32
}

// Arena is a chunked bump allocator. See the package documentation for the
// concurrency model.
type Arena struct {
	chunkSize int
	chunkBits int                  // power of 2 exponent for chunk size
	div       pow2.Divisor[uint64] // reduces a global offset to its in-chunk part
	alignment int

	chunks     [MaxChunks]atomic.Pointer[chunk] // fixed-size array so Get stays lock-free
	chunkCount atomic.Uint32
	current    atomic.Pointer[chunk]
	mu         sync.Mutex

	stats      atomicStats
	refs       atomic.Int64
	generation atomic.Uint32

	acquirer MemoryAcquirer
	growth   GrowthLimiter
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithMemoryAcquirer charges chunk mappings against acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithGrowthLimiter throttles chunk mapping through limiter.
func WithGrowthLimiter(limiter GrowthLimiter) Option {
	return func(a *Arena) {
		a.growth = limiter
	}
}

// WithAlignment sets the allocation alignment. It must be a power of two.
func WithAlignment(align int) Option {
	return func(a *Arena) {
		a.alignment = align
	}
}

// New creates a new Arena. chunkSize is rounded up to the next power of
// two; chunkSize <= 0 selects DefaultChunkSize. The first chunk is mapped
// eagerly, so a misconfigured budget or mapping failure surfaces here
// rather than on the first allocation.
func New(chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	size := pow2.NextPowerOfTwo(uint64(chunkSize))
	sizeInt, err := conv.Uint64ToInt(size)
	if err != nil {
		return nil, fmt.Errorf("arena: chunk size: %w", err)
	}

	a := &Arena{
		chunkSize: sizeInt,
		chunkBits: pow2.Log2(size),
		div:       pow2.MustDivisor(size),
		alignment: DefaultAlignment,
	}

	for _, opt := range opts {
		opt(a)
	}

	if !pow2.IsPowerOfTwo(a.alignment) {
		return nil, fmt.Errorf("arena: alignment %d: %w", a.alignment, pow2.ErrNotPowerOfTwo)
	}

	// Generation 0 is reserved for the null Ref.
	a.generation.Store(1)

	if err := a.allocateChunk(context.Background()); err != nil {
		return nil, err
	}
	a.reserveNull()

	return a, nil
}

// IncRef marks the start of a long-running operation that reads through the
// arena. Reset and Free wait for the count to drop before reclaiming.
func (a *Arena) IncRef() {
	a.refs.Add(1)
}

// DecRef marks the end of an operation started with IncRef.
func (a *Arena) DecRef() {
	a.refs.Add(-1)
}

// Generation returns the current generation of the arena.
func (a *Arena) Generation() uint32 {
	return a.generation.Load()
}

// Get resolves ref to a raw pointer. It returns nil when ref is null, was
// issued under an earlier generation (its memory has been reset or freed),
// or does not designate an allocated chunk.
func (a *Arena) Get(ref Ref) unsafe.Pointer {
	if ref.Gen != a.generation.Load() {
		return nil
	}

	chunkIdx := ref.Offset >> a.chunkBits
	if chunkIdx >= uint64(a.chunkCount.Load()) {
		return nil
	}

	// Chunks are only appended, never moved, so the lock-free load
	// observes either nil or a fully initialized chunk.
	c := a.chunks[chunkIdx].Load()
	if c == nil {
		return nil
	}

	return unsafe.Add(unsafe.Pointer(&c.data[0]), a.div.Mod(ref.Offset))
}

// Bytes resolves ref to a size-byte slice over the allocation. It returns
// nil when ref does not resolve or size <= 0. The arena does not remember
// allocation lengths; the caller supplies the size it allocated.
func (a *Arena) Bytes(ref Ref, size int) []byte {
	if size <= 0 {
		return nil
	}

	p := a.Get(ref)
	if p == nil {
		return nil
	}

	return unsafe.Slice((*byte)(p), size)
}

func (a *Arena) allocateChunk(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocateChunkLocked(ctx)
}

func (a *Arena) allocateChunkLocked(ctx context.Context) error {
	idx := a.chunkCount.Load()
	if idx >= MaxChunks {
		return ErrMaxChunksExceeded
	}

	if a.growth != nil {
		if err := a.growth.AwaitGrowth(ctx); err != nil {
			return err
		}
	}

	if a.acquirer != nil {
		// Bound the budget wait when the caller did not.
		if _, ok := ctx.Deadline(); !ok {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, 100*time.Millisecond)
			defer cancel()
		}
		if err := a.acquirer.AcquireMemory(ctx, int64(a.chunkSize)); err != nil {
			return err
		}
	}

	mapping, err := mmap.MapAnon(a.chunkSize)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(a.chunkSize))
		}
		return fmt.Errorf("arena: map chunk: %w", err)
	}

	newChunk := &chunk{
		data:    mapping.Bytes(),
		mapping: mapping,
		index:   idx,
	}

	// Get reads the table lock-free, so the pointer must be published
	// atomically.
	a.chunks[idx].Store(newChunk)

	a.stats.ChunksAllocated.Add(1)
	a.stats.BytesReserved.Add(uint64(a.chunkSize))
	a.stats.ActiveChunks.Add(1)

	// Count before current: Get bounds-checks against the count, so it
	// must cover the new chunk before Alloc hands out offsets from it.
	a.chunkCount.Add(1)

	a.current.Store(newChunk)

	return nil
}

// Alloc allocates size bytes and returns a Ref to the allocation's first
// byte along with the zeroed byte slice itself. Alloc is safe for
// concurrent use.
func (a *Arena) Alloc(size int) (Ref, []byte, error) {
	return a.AllocContext(context.Background(), size)
}

// AllocContext allocates like Alloc; ctx bounds the budget acquisition and
// growth throttling that mapping a new chunk may require.
func (a *Arena) AllocContext(ctx context.Context, size int) (Ref, []byte, error) {
	return a.alloc(ctx, size, a.alignment)
}

func (a *Arena) alloc(ctx context.Context, size, align int) (Ref, []byte, error) {
	if size <= 0 {
		return Ref{}, nil, nil
	}
	if size > a.chunkSize {
		return Ref{}, nil, fmt.Errorf("%w: %d > %d", ErrAllocTooLarge, size, a.chunkSize)
	}

	for {
		curr := a.current.Load()
		if curr == nil {
			return Ref{}, nil, ErrClosed
		}

		offset, data, ok := a.tryAllocInChunk(curr, size, align)
		if ok {
			return Ref{Gen: a.generation.Load(), Offset: offset}, data, nil
		}

		// The chunk is full. Retry if another goroutine already grew the
		// arena, otherwise grow it under the lock.
		if a.current.Load() != curr {
			continue
		}

		a.mu.Lock()
		if a.current.Load() != curr {
			a.mu.Unlock()
			continue
		}
		if err := a.allocateChunkLocked(ctx); err != nil {
			a.mu.Unlock()
			return Ref{}, nil, err
		}
		a.mu.Unlock()
	}
}

func (a *Arena) tryAllocInChunk(curr *chunk, size, align int) (uint64, []byte, bool) {
	oldOffset := curr.offset.Load()
	start := pow2.AlignUp(oldOffset, int64(align))
	end := start + int64(size)

	if end > int64(len(curr.data)) {
		return 0, nil, false
	}

	if !curr.offset.CompareAndSwap(oldOffset, end) {
		return 0, nil, false
	}

	a.stats.BytesUsed.Add(uint64(size))
	a.stats.BytesWasted.Add(uint64(start - oldOffset))
	a.stats.TotalAllocs.Add(1)

	// GlobalOffset = ChunkIndex<<ChunkBits | ChunkOffset. start < chunkSize
	// always holds here, so the two parts cannot collide.
	globalOffset := uint64(curr.index)<<a.chunkBits | uint64(start)
	return globalOffset, curr.data[start:end:end], true
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		ChunksAllocated: a.stats.ChunksAllocated.Load(),
		BytesReserved:   a.stats.BytesReserved.Load(),
		BytesUsed:       a.stats.BytesUsed.Load(),
		BytesWasted:     a.stats.BytesWasted.Load(),
		ActiveChunks:    a.stats.ActiveChunks.Load(),
		TotalAllocs:     a.stats.TotalAllocs.Load(),
	}
}

// Free unmaps every chunk and returns their reservation to the acquirer.
// All Refs and slices issued by the arena become stale; resolving them
// yields nil. The arena cannot be reused after Free, create a new one.
//
// Free must not run concurrently with allocations. It waits for operations
// bracketed by IncRef/DecRef to finish.
func (a *Arena) Free() {
	for a.refs.Load() > 0 {
		runtime.Gosched()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.acquirer != nil {
		if reserved := a.stats.BytesReserved.Load(); reserved > 0 {
			a.acquirer.ReleaseMemory(int64(reserved))
		}
	}

	// Invalidate outstanding references before unmapping.
	a.generation.Add(1)

	count, _ := conv.Uint32ToInt(a.chunkCount.Load()) // count <= MaxChunks
	for i := 0; i < count; i++ {
		c := a.chunks[i].Load()
		if c != nil && c.mapping != nil {
			_ = c.mapping.Close()
		}
		a.chunks[i].Store(nil)
	}
	a.chunkCount.Store(0)
	a.current.Store(nil)

	a.stats.ActiveChunks.Store(0)
	a.stats.BytesReserved.Store(0)
	a.stats.BytesUsed.Store(0)
	a.stats.BytesWasted.Store(0)
}

// Reset clears all allocations, unmapping every chunk but the first, which
// is kept for reuse. All Refs and slices issued before the Reset become
// stale; resolving them yields nil. Cumulative stats survive.
//
// Reset must not run concurrently with allocations. It waits for operations
// bracketed by IncRef/DecRef to finish.
func (a *Arena) Reset() {
	for a.refs.Load() > 0 {
		runtime.Gosched()
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.generation.Add(1)

	count, _ := conv.Uint32ToInt(a.chunkCount.Load()) // count <= MaxChunks
	if count > 0 {
		if a.acquirer != nil && count > 1 {
			a.acquirer.ReleaseMemory(int64(count-1) * int64(a.chunkSize))
		}

		first := a.chunks[0].Load()

		for i := 1; i < count; i++ {
			c := a.chunks[i].Load()
			if c != nil && c.mapping != nil {
				_ = c.mapping.Close()
			}
			a.chunks[i].Store(nil)
		}
		a.chunkCount.Store(1)
		a.current.Store(first)
		a.reserveNull()

		a.stats.ActiveChunks.Store(1)
		a.stats.BytesReserved.Store(uint64(a.chunkSize))
	}

	a.stats.BytesUsed.Store(0)
	a.stats.BytesWasted.Store(0)
}

// reserveNull burns the first byte of the first chunk so that no live
// allocation is ever addressed by global offset zero.
func (a *Arena) reserveNull() {
	if c := a.current.Load(); c != nil {
		c.offset.Store(1)
	}
}

// Usage returns the memory usage percentage.
func (a *Arena) Usage() float64 {
	stats := a.Stats()
	if stats.BytesReserved == 0 {
		return 0
	}
	return float64(stats.BytesUsed) / float64(stats.BytesReserved) * 100
}

func (a *Arena) String() string {
	stats := a.Stats()
	return fmt.Sprintf(
		"Arena{chunks: %d, reserved: %.2f MB, used: %.2f MB, wasted: %.2f KB, usage: %.1f%%, allocs: %d}",
		stats.ActiveChunks,
		float64(stats.BytesReserved)/(1024*1024),
		float64(stats.BytesUsed)/(1024*1024),
		float64(stats.BytesWasted)/1024,
		a.Usage(),
		stats.TotalAllocs,
	)
}
