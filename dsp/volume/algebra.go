package volume

import (
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// Add adds other to im. Both images must be in the same domain.
func (im *ImageT[F, C]) Add(other *ImageT[F, C]) error {
	if err := im.binary(other, im.domain); err != nil {
		return err
	}
	if im.domain == Spectral {
		addInPlace(core.Interleaved[F](im.spec), core.Interleaved[F](other.spec))
		return nil
	}
	addInPlace(im.data, other.data)
	return nil
}

// Mul multiplies im by other: a real product of samples in the spatial
// domain and a complex product of bins in the spectral domain.
func (im *ImageT[F, C]) Mul(other *ImageT[F, C]) error {
	if err := im.binary(other, im.domain); err != nil {
		return err
	}
	if im.domain == Spectral {
		mulComplex(im.spec, other.spec)
		return nil
	}
	mulInPlace(im.data, other.data)
	return nil
}

// Scale multiplies every sample or bin by f.
func (im *ImageT[F, C]) Scale(f float64) error {
	if err := im.live(); err != nil {
		return err
	}
	if im.domain == Spectral {
		scaleInPlace(core.Interleaved[F](im.spec), f)
		return nil
	}
	scaleInPlace(im.data, f)
	return nil
}

// Ratio replaces every spatial sample v of im with observed/v. Samples
// with v <= 0 become zero.
func (im *ImageT[F, C]) Ratio(observed *ImageT[F, C]) error {
	if err := im.binary(observed, Spatial); err != nil {
		return err
	}
	for i, v := range im.data {
		if v <= 0 {
			im.data[i] = 0
			continue
		}
		im.data[i] = observed.data[i] / v
	}
	return nil
}

// ProdRegularized computes im = im*image/(1 - lambda*div) in the spatial
// domain. Samples with a zero or non-finite result become zero.
func (im *ImageT[F, C]) ProdRegularized(image *ImageT[F, C], lambda float64, div *ImageT[F, C]) error {
	if err := im.binary(image, Spatial); err != nil {
		return err
	}
	if err := im.binary(div, Spatial); err != nil {
		return err
	}
	for i, v := range im.data {
		den := 1 - lambda*float64(div.data[i])
		r := F(float64(v) * float64(image.data[i]) / den)
		if den == 0 || !core.IsFinite(r) {
			r = 0
		}
		im.data[i] = r
	}
	return nil
}

func addInPlace[F algofft.Float](dst, src []F) {
	if d, ok := any(dst).([]float64); ok {
		vecmath.AddBlockInPlace(d, any(src).([]float64))
		return
	}
	for i := range dst {
		dst[i] += src[i]
	}
}

func mulInPlace[F algofft.Float](dst, src []F) {
	if d, ok := any(dst).([]float64); ok {
		vecmath.MulBlockInPlace(d, any(src).([]float64))
		return
	}
	for i := range dst {
		dst[i] *= src[i]
	}
}

func scaleInPlace[F algofft.Float](dst []F, f float64) {
	if d, ok := any(dst).([]float64); ok {
		vecmath.ScaleBlockInPlace(d, f)
		return
	}
	s := F(f)
	for i := range dst {
		dst[i] *= s
	}
}
