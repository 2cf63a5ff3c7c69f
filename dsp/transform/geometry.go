package transform

import (
	"fmt"
	"math"
)

// Geometry is the shape of a 3-D volume. N1 is the slowest varying axis
// and N3 the fastest; samples are stored row-major.
type Geometry struct {
	N1, N2, N3 int
}

// Validate reports ErrInvalidGeometry if any dimension is not positive
// or the sample count N1*N2*N3 does not fit in an int.
func (g Geometry) Validate() error {
	if g.N1 <= 0 || g.N2 <= 0 || g.N3 <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidGeometry, g)
	}
	if g.N2 > math.MaxInt/g.N1 || g.N3 > math.MaxInt/(g.N1*g.N2) {
		return fmt.Errorf("%w: %s overflows the sample count", ErrInvalidGeometry, g)
	}
	return nil
}

// Len returns the number of samples N1*N2*N3.
func (g Geometry) Len() int {
	return g.N1 * g.N2 * g.N3
}

// Index returns the linear offset of sample (i, j, k).
func (g Geometry) Index(i, j, k int) int {
	return (i*g.N2+j)*g.N3 + k
}

// Dims returns the dimensions in axis order.
func (g Geometry) Dims() [3]int {
	return [3]int{g.N1, g.N2, g.N3}
}

// Stride returns the linear distance between neighbours along axis.
func (g Geometry) Stride(axis int) int {
	switch axis {
	case 0:
		return g.N2 * g.N3
	case 1:
		return g.N3
	default:
		return 1
	}
}

func (g Geometry) String() string {
	return fmt.Sprintf("%dx%dx%d", g.N1, g.N2, g.N3)
}

// checkLen verifies that a buffer holds exactly one volume.
func (g Geometry) checkLen(name string, n int) error {
	if n != g.Len() {
		return fmt.Errorf("%w: %s has %d samples, geometry %s needs %d",
			ErrGeometryMismatch, name, n, g, g.Len())
	}
	return nil
}
