package psf

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/dsp/volume"
)

// ErrInvalidSigma is returned for a non-positive Gaussian width.
var ErrInvalidSigma = errors.New("psf: gaussian sigma must be > 0")

// Sigma holds per-axis Gaussian standard deviations in physical units,
// the same units as the voxel extents.
type Sigma struct {
	S1 float64 `yaml:"s1"`
	S2 float64 `yaml:"s2"`
	S3 float64 `yaml:"s3"`
}

// Validate reports whether every width is finite and positive.
func (s Sigma) Validate() error {
	for _, x := range [3]float64{s.S1, s.S2, s.S3} {
		if !(x > 0) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: %v", ErrInvalidSigma, s)
		}
	}
	return nil
}

// GaussianT samples a centred Gaussian on grid g with spacing v. The
// samples are normalized to unit sum.
func GaussianT[F algofft.Float, C algofft.Complex](g transform.Geometry, v volume.Voxel, s Sigma) (*PSFT[F, C], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	e1 := gaussianAxis(g.N1, v.V1, s.S1)
	e2 := gaussianAxis(g.N2, v.V2, s.S2)
	e3 := gaussianAxis(g.N3, v.V3, s.S3)

	w := make([]float64, 0, g.Len())
	var total float64
	for _, a := range e1 {
		for _, b := range e2 {
			for _, c := range e3 {
				x := a * b * c
				w = append(w, x)
				total += x
			}
		}
	}
	if total == 0 {
		return nil, ErrZeroSum
	}

	data := make([]F, len(w))
	for i, x := range w {
		data[i] = F(x / total)
	}
	return NewT[F, C](data, g, v)
}

// Gaussian returns a float64 Gaussian PSF.
func Gaussian(g transform.Geometry, v volume.Voxel, s Sigma) (*PSF, error) {
	return GaussianT[float64, complex128](g, v, s)
}

// Gaussian32 returns a float32 Gaussian PSF.
func Gaussian32(g transform.Geometry, v volume.Voxel, s Sigma) (*PSF32, error) {
	return GaussianT[float32, complex64](g, v, s)
}

func gaussianAxis(n int, spacing, sigma float64) []float64 {
	out := make([]float64, n)
	c := float64(n-1) / 2
	for i := range out {
		d := (float64(i) - c) * spacing / sigma
		out[i] = math.Exp(-0.5 * d * d)
	}
	return out
}
