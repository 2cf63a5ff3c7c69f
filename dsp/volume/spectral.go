package volume

import (
	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// InvDivide replaces every bin of im with im/other. Both images must be
// spectral and compatible. Small denominators are handled by reg; any
// quotient that is not finite is set to zero.
func (im *ImageT[F, C]) InvDivide(other *ImageT[F, C], reg Regularization) error {
	if err := reg.Validate(); err != nil {
		return err
	}
	if err := im.binary(other, Spectral); err != nil {
		return err
	}

	a := core.Interleaved[F](im.spec)
	b := core.Interleaved[F](other.spec)
	eps := reg.Epsilon
	eps2 := eps * eps

	for i := 0; i < len(a); i += 2 {
		ar, ai := float64(a[i]), float64(a[i+1])
		br, bi := float64(b[i]), float64(b[i+1])
		den := br*br + bi*bi

		switch reg.Policy {
		case PolicyWiener:
			den += eps
		default:
			if !(den >= eps2) {
				a[i], a[i+1] = 0, 0
				continue
			}
		}

		qr := F((ar*br + ai*bi) / den)
		qi := F((ai*br - ar*bi) / den)
		if !core.IsFinite(qr) || !core.IsFinite(qi) {
			qr, qi = 0, 0
		}
		a[i], a[i+1] = qr, qi
	}
	return nil
}

// MulConj multiplies every bin of im by the conjugate of the matching bin
// of other. Both images must be spectral.
func (im *ImageT[F, C]) MulConj(other *ImageT[F, C]) error {
	if err := im.binary(other, Spectral); err != nil {
		return err
	}
	mulConj(core.Interleaved[F](im.spec), core.Interleaved[F](other.spec))
	return nil
}

// Convolve circularly convolves the spatial image im with a kernel given
// as a spectral image, e.g. an OTF.
func (im *ImageT[F, C]) Convolve(kernel *ImageT[F, C]) error {
	return im.convolve(kernel, false)
}

// ConvolveConj is Convolve with the conjugate kernel spectrum, i.e. a
// circular correlation with the kernel.
func (im *ImageT[F, C]) ConvolveConj(kernel *ImageT[F, C]) error {
	return im.convolve(kernel, true)
}

func (im *ImageT[F, C]) convolve(kernel *ImageT[F, C], conj bool) error {
	if err := im.Compatible(kernel); err != nil {
		return err
	}
	if err := kernel.expect(Spectral); err != nil {
		return err
	}
	if err := im.Forward(); err != nil {
		return err
	}

	if conj {
		mulConj(core.Interleaved[F](im.spec), core.Interleaved[F](kernel.spec))
	} else {
		mulComplex(im.spec, kernel.spec)
	}
	return im.Inverse()
}

func mulComplex[C algofft.Complex](dst, src []C) {
	for i := range dst {
		dst[i] *= src[i]
	}
}

// mulConj computes dst *= conj(src) on interleaved bins.
func mulConj[F algofft.Float](dst, src []F) {
	for i := 0; i < len(dst); i += 2 {
		ar, ai := dst[i], dst[i+1]
		br, bi := src[i], src[i+1]
		dst[i] = ar*br + ai*bi
		dst[i+1] = ai*br - ar*bi
	}
}
