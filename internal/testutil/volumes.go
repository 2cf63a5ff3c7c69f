package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"

	algofft "github.com/cwbudde/algo-fft"
	"gonum.org/v1/gonum/floats"
)

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse3D generates an n1 x n2 x n3 volume with a unit sample at (i, j, k).
func Impulse3D(n1, n2, n3, i, j, k int) []float64 {
	out := make([]float64, n1*n2*n3)
	if i >= 0 && i < n1 && j >= 0 && j < n2 && k >= 0 && k < n3 {
		out[(i*n2+j)*n3+k] = 1
	}
	return out
}

// Gaussian3D generates a centred Gaussian blob with per-axis standard
// deviations in samples, normalized to unit sum.
func Gaussian3D(n1, n2, n3 int, s1, s2, s3 float64) []float64 {
	out := make([]float64, n1*n2*n3)
	c1, c2, c3 := float64(n1-1)/2, float64(n2-1)/2, float64(n3-1)/2
	idx := 0
	for i := range n1 {
		d1 := sq((float64(i) - c1) / s1)
		for j := range n2 {
			d2 := sq((float64(j) - c2) / s2)
			for k := range n3 {
				d3 := sq((float64(k) - c3) / s3)
				out[idx] = math.Exp(-0.5 * (d1 + d2 + d3))
				idx++
			}
		}
	}
	floats.Scale(1/floats.Sum(out), out)
	return out
}

func sq(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x * x
}

// DC generates a constant-valued volume.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns a slice of length n filled with 1.0.
func Ones(n int) []float64 {
	return DC(1.0, n)
}

// Convert returns x converted to element type F.
func Convert[F algofft.Float](x []float64) []F {
	out := make([]F, len(x))
	for i, v := range x {
		out[i] = F(v)
	}
	return out
}

// NaiveDFT3 computes the unnormalized forward 3-D DFT of a row-major
// n1 x n2 x n3 volume by direct summation.
func NaiveDFT3(x []complex128, n1, n2, n3 int) []complex128 {
	out := make([]complex128, len(x))
	for u := range n1 {
		for v := range n2 {
			for w := range n3 {
				var sum complex128
				for i := range n1 {
					for j := range n2 {
						for k := range n3 {
							phase := -2 * math.Pi * (float64(u*i)/float64(n1) +
								float64(v*j)/float64(n2) +
								float64(w*k)/float64(n3))
							sum += x[(i*n2+j)*n3+k] * cmplx.Rect(1, phase)
						}
					}
				}
				out[(u*n2+v)*n3+w] = sum
			}
		}
	}
	return out
}
