package benchmark_test

import (
	"fmt"
	"testing"

	"github.com/hupe1980/memgo"
	"github.com/hupe1980/memgo/arena"
	"github.com/hupe1980/memgo/resource"
)

var benchSizes = []int{64, 1024, 16384}

func BenchmarkAllocate_Heap(b *testing.B) {
	alloc := memgo.NewHeapAllocator()

	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = alloc.Allocate(size)
			}
		})
	}
}

func BenchmarkAllocate_Checked(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			alloc := memgo.NewCheckedAllocator(nil)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf := alloc.Allocate(size)
				alloc.Free(buf)
			}
		})
	}
}

func BenchmarkAllocate_Limited(b *testing.B) {
	ctrl := resource.NewController(resource.Config{MemoryLimitBytes: 1 << 30})
	alloc := memgo.NewLimitAllocator(nil, ctrl)

	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				buf := alloc.Allocate(size)
				alloc.Free(buf)
			}
		})
	}
}

func BenchmarkAllocate_ArenaBound(b *testing.B) {
	for _, size := range benchSizes {
		b.Run(fmt.Sprintf("size=%d", size), func(b *testing.B) {
			a, err := arena.New(arena.DefaultChunkSize)
			if err != nil {
				b.Fatal(err)
			}
			defer a.Free()
			alloc := arena.Bind(a)

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = alloc.Allocate(size)
			}
		})
	}
}
