// Package psf holds measured point-spread functions and derives the
// optical transfer function (OTF) used to blur or deblur volumes.
package psf

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/dsp/volume"
)

// Errors reported by PSF operations.
var (
	ErrEmpty        = errors.New("psf: empty point-spread function")
	ErrSizeMismatch = errors.New("psf: data size does not match geometry")
	ErrZeroSum      = errors.New("psf: resampled kernel sums to zero")
)

// PSFT is a point-spread function sampled on its own grid. Its centre is
// the geometric centre of the grid.
type PSFT[F algofft.Float, C algofft.Complex] struct {
	data  []F
	geom  transform.Geometry
	voxel volume.Voxel

	otf *volume.ImageT[F, C]
}

// PSF is the float64 specialization.
type PSF = PSFT[float64, complex128]

// PSF32 is the float32 specialization.
type PSF32 = PSFT[float32, complex64]

// NewT returns a PSF holding a copy of data.
func NewT[F algofft.Float, C algofft.Complex](data []F, g transform.Geometry, v volume.Voxel) (*PSFT[F, C], error) {
	p := &PSFT[F, C]{}
	if err := p.Set(data, g, v); err != nil {
		return nil, err
	}
	return p, nil
}

// New returns a float64 PSF.
func New(data []float64, g transform.Geometry, v volume.Voxel) (*PSF, error) {
	return NewT[float64, complex128](data, g, v)
}

// New32 returns a float32 PSF.
func New32(data []float32, g transform.Geometry, v volume.Voxel) (*PSF32, error) {
	return NewT[float32, complex64](data, g, v)
}

// Set replaces the samples and grid and drops the cached OTF.
func (p *PSFT[F, C]) Set(data []F, g transform.Geometry, v volume.Voxel) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if err := g.Validate(); err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	if len(data) != g.Len() {
		return fmt.Errorf("%w: %d samples for %s", ErrSizeMismatch, len(data), g)
	}

	p.Release()
	p.data = append(p.data[:0], data...)
	p.geom = g
	p.voxel = v
	return nil
}

// Geometry returns the PSF grid dimensions.
func (p *PSFT[F, C]) Geometry() transform.Geometry { return p.geom }

// Voxel returns the PSF sample spacing.
func (p *PSFT[F, C]) Voxel() volume.Voxel { return p.voxel }

// Kernel resamples the PSF onto grid g with spacing v by trilinear
// interpolation, moves its centre to index (0, 0, 0) with wrap-around and
// normalizes it to unit sum. Target samples outside the PSF support are 0.
func (p *PSFT[F, C]) Kernel(g transform.Geometry, v volume.Voxel) ([]F, error) {
	if len(p.data) == 0 {
		return nil, ErrEmpty
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	ax1 := newAxis(g.N1, v.V1, p.geom.N1, p.voxel.V1)
	ax2 := newAxis(g.N2, v.V2, p.geom.N2, p.voxel.V2)
	ax3 := newAxis(g.N3, v.V3, p.geom.N3, p.voxel.V3)

	out := make([]F, g.Len())
	sum := 0.0
	for i1, s1 := range ax1 {
		for i2, s2 := range ax2 {
			for i3, s3 := range ax3 {
				val := p.interpolate(s1, s2, s3)
				sum += val
				out[g.Index(ax1.shift(i1), ax2.shift(i2), ax3.shift(i3))] = F(val)
			}
		}
	}

	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: target %s voxel %s", ErrZeroSum, g, v)
	}
	scale := F(1 / sum)
	for i := range out {
		out[i] *= scale
	}
	return out, nil
}

// OTF returns the spectral image of Kernel on the grid of s. The result
// is cached until it is requested for different settings; the PSF owns
// it and callers must not modify or release it.
func (p *PSFT[F, C]) OTF(s *volume.SettingsT[C]) (*volume.ImageT[F, C], error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil settings", volume.ErrReleased)
	}
	if p.otf != nil && p.otf.Settings().Same(s) &&
		p.otf.Geometry() == s.Geometry() && p.otf.Voxel().Equal(s.Voxel()) {
		return p.otf, nil
	}

	kernel, err := p.Kernel(s.Geometry(), s.Voxel())
	if err != nil {
		return nil, err
	}
	otf, err := volume.NewImageT[F, C](s, kernel)
	if err != nil {
		return nil, err
	}
	if err := otf.Forward(); err != nil {
		otf.Release()
		return nil, err
	}

	p.Release()
	p.otf = otf
	return otf, nil
}

// Release drops the cached OTF and its settings reference.
func (p *PSFT[F, C]) Release() {
	if p.otf != nil {
		p.otf.Release()
		p.otf = nil
	}
}

// at returns the PSF sample at (j1, j2, j3), clamped to the grid.
func (p *PSFT[F, C]) at(j1, j2, j3 int) float64 {
	g := p.geom
	j1 = core.ClampIndex(j1, g.N1)
	j2 = core.ClampIndex(j2, g.N2)
	j3 = core.ClampIndex(j3, g.N3)
	return float64(p.data[g.Index(j1, j2, j3)])
}

func (p *PSFT[F, C]) interpolate(s1, s2, s3 sample) float64 {
	if !s1.inside || !s2.inside || !s3.inside {
		return 0
	}
	j1, j2, j3 := s1.index, s2.index, s3.index
	x1, x2, x3 := s1.frac, s2.frac, s3.frac

	c00 := p.at(j1, j2, j3)*(1-x1) + p.at(j1+1, j2, j3)*x1
	c01 := p.at(j1, j2, j3+1)*(1-x1) + p.at(j1+1, j2, j3+1)*x1
	c10 := p.at(j1, j2+1, j3)*(1-x1) + p.at(j1+1, j2+1, j3)*x1
	c11 := p.at(j1, j2+1, j3+1)*(1-x1) + p.at(j1+1, j2+1, j3+1)*x1

	c0 := c00*(1-x2) + c10*x2
	c1 := c01*(1-x2) + c11*x2
	return c0*(1-x3) + c1*x3
}
