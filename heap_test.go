package memgo

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestHeapAllocatorAllocate(t *testing.T) {
	a := NewHeapAllocator()
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}

	for _, size := range sizes {
		buf := a.Allocate(size)
		assert.Len(t, buf, size)
		assert.Equal(t, size, cap(buf), "capacity should be clamped for size %d", size)

		ptr := unsafe.Pointer(&buf[0])
		addr := uintptr(ptr)
		assert.Equal(t, uintptr(0), addr%Alignment, "Address %d should be aligned to %d for size %d", addr, Alignment, size)
	}

	assert.Nil(t, a.Allocate(0))
	assert.Nil(t, a.Allocate(-1))
}

func TestHeapAllocatorReallocate(t *testing.T) {
	a := NewHeapAllocator()

	buf := a.Allocate(8)
	for i := range buf {
		buf[i] = byte(i + 1)
	}

	t.Run("same size returns the same buffer", func(t *testing.T) {
		same := a.Reallocate(8, buf)
		assert.Same(t, &buf[0], &same[0])
	})

	t.Run("grow preserves contents and alignment", func(t *testing.T) {
		grown := a.Reallocate(128, buf)
		assert.Len(t, grown, 128)
		assert.Equal(t, buf, grown[:8])

		addr := uintptr(unsafe.Pointer(&grown[0]))
		assert.Equal(t, uintptr(0), addr%Alignment)

		for i, c := range grown[8:] {
			assert.Equal(t, byte(0), c, "grown byte %d should be zero", i+8)
		}
	})

	t.Run("shrink preserves the prefix", func(t *testing.T) {
		shrunk := a.Reallocate(4, buf)
		assert.Len(t, shrunk, 4)
		assert.Equal(t, buf[:4], shrunk)
	})

	t.Run("nil buffer allocates fresh", func(t *testing.T) {
		fresh := a.Reallocate(16, nil)
		assert.Len(t, fresh, 16)
	})

	t.Run("zero size frees", func(t *testing.T) {
		assert.Nil(t, a.Reallocate(0, buf))
	})
}

func TestHeapAllocatorFree(t *testing.T) {
	a := NewHeapAllocator()

	assert.NotPanics(t, func() { a.Free(a.Allocate(64)) })
	assert.NotPanics(t, func() { a.Free(nil) })
}

func TestHeapAllocatorPropagation(t *testing.T) {
	a := NewHeapAllocator()
	b := NewHeapAllocator()

	assert.Equal(t, Policy{OnMove: true}, a.Policy())
	assert.True(t, a.Equal(b), "stateless instances are interchangeable")
}

func BenchmarkHeapAllocator(b *testing.B) {
	a := NewHeapAllocator()
	sizes := []int{64, 256, 1024, 4096}

	for _, size := range sizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = a.Allocate(size)
			}
		})
	}
}
