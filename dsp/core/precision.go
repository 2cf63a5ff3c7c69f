package core

import (
	"errors"
	"fmt"
	"unsafe"

	algofft "github.com/cwbudde/algo-fft"
)

// Float is the set of supported real sample types.
type Float = algofft.Float

// Complex is the set of supported spectral bin types.
type Complex = algofft.Complex

// ErrPrecisionMismatch reports a real/complex type pair of different widths,
// e.g. float32 samples with complex128 bins.
var ErrPrecisionMismatch = errors.New("core: precision mismatch")

// CheckPair verifies that C stores exactly two F values per element.
// Valid pairs are (float32, complex64) and (float64, complex128).
func CheckPair[F Float, C Complex]() error {
	var (
		f F
		c C
	)
	if unsafe.Sizeof(c) != 2*unsafe.Sizeof(f) {
		return fmt.Errorf("%w: %T with %T", ErrPrecisionMismatch, f, c)
	}
	return nil
}

// Interleaved returns c reinterpreted as consecutive (real, imag) pairs.
// The result aliases c. The pair F, C must pass CheckPair.
func Interleaved[F Float, C Complex](c []C) []F {
	if len(c) == 0 {
		return nil
	}
	return unsafe.Slice((*F)(unsafe.Pointer(&c[0])), 2*len(c))
}
