package transform_test

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-deconv/dsp/transform"
)

func ExamplePlan() {
	g := transform.Geometry{N1: 2, N2: 2, N3: 2}
	plan, err := transform.NewPlan[complex128](transform.AlgoFFT[complex128]{}, g)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer plan.Release()

	x := make([]complex128, g.Len())
	x[0] = 8
	if err := plan.Forward(x, x); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.1f %.1f\n", cmplx.Abs(x[0]), cmplx.Abs(x[7]))

	if err := plan.Inverse(x, x); err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.1f %.1f\n", cmplx.Abs(x[0]), cmplx.Abs(x[7]))

	// Output:
	// 8.0 8.0
	// 8.0 0.0
}

func ExampleCache() {
	cache := transform.NewCache[complex64](nil)
	g := transform.Geometry{N1: 4, N2: 4, N3: 1}

	a, _ := cache.Acquire(g)
	b, _ := cache.Acquire(g)
	fmt.Println(a == b, a.Refs(), cache.Len())

	a.Release()
	b.Release()
	fmt.Println(a.Cleared(), cache.Len())

	// Output:
	// true 2 1
	// true 0
}
