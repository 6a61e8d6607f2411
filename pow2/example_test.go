package pow2_test

import (
	"fmt"

	"github.com/hupe1980/memgo/pow2"
)

func ExampleFastMod() {
	fmt.Println(pow2.FastMod(uint64(37), 16))
	fmt.Println(pow2.FastMod(uint64(16), 16))
	fmt.Println(pow2.FastMod(uint64(0), 16))
	// Output:
	// 5
	// 0
	// 0
}

func ExampleDivisor() {
	buckets := pow2.MustDivisor(uint32(8))

	for _, h := range []uint32{3, 8, 21} {
		fmt.Println(buckets.Mod(h))
	}
	// Output:
	// 3
	// 0
	// 5
}

func ExampleNextPowerOfTwo() {
	fmt.Println(pow2.NextPowerOfTwo(uint(1000)))
	// Output: 1024
}
