package volume

import (
	"math"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// DivUnitGrad stores in im the divergence of the normalized gradient of
// image, div(grad f / |grad f|), the total variation term of regularized
// Richardson-Lucy. Forward differences are used for the normal component,
// minmod limited one-sided differences for the tangential ones, and
// borders are clamped. Both images must be spatial.
func (im *ImageT[F, C]) DivUnitGrad(image *ImageT[F, C]) error {
	if err := im.binary(image, Spatial); err != nil {
		return err
	}

	g := image.geom
	h0, h1, h2 := image.voxel.V1, image.voxel.V2, image.voxel.V3
	f := func(i, j, k int) float64 {
		return float64(image.data[g.Index(i, j, k)])
	}
	mm := core.Minmod

	out := make([]F, g.Len())
	for i := range g.N1 {
		im1, ip1 := core.ClampIndex(i-1, g.N1), core.ClampIndex(i+1, g.N1)
		for j := range g.N2 {
			jm1, jp1 := core.ClampIndex(j-1, g.N2), core.ClampIndex(j+1, g.N2)
			for k := range g.N3 {
				km1, kp1 := core.ClampIndex(k-1, g.N3), core.ClampIndex(k+1, g.N3)

				fijk := f(i, j, k)
				fim, fip := f(im1, j, k), f(ip1, j, k)
				fjm, fjp := f(i, jm1, k), f(i, jp1, k)
				fkm, fkp := f(i, j, km1), f(i, j, kp1)

				// unit gradient at (i, j, k)
				dxp, dxm := (fip-fijk)/h0, (fijk-fim)/h0
				dyp, dym := (fjp-fijk)/h1, (fijk-fjm)/h1
				dzp, dzm := (fkp-fijk)/h2, (fijk-fkm)/h2
				a := unitComponent(dxp, mm(dyp, dym), mm(dzp, dzm))
				b := unitComponent(dyp, mm(dxp, dxm), mm(dzp, dzm))
				c := unitComponent(dzp, mm(dyp, dym), mm(dxp, dxm))

				// x component at (i-1, j, k)
				fimjm, fimjp := f(im1, jm1, k), f(im1, jp1, k)
				fimkm, fimkp := f(im1, j, km1), f(im1, j, kp1)
				dxp = (fijk - fim) / h0
				dyp, dym = (fimjp-fim)/h1, (fim-fimjm)/h1
				dzp, dzm = (fimkp-fim)/h2, (fim-fimkm)/h2
				aPrev := unitComponent(dxp, mm(dyp, dym), mm(dzp, dzm))

				// y component at (i, j-1, k)
				fipjm := f(ip1, jm1, k)
				fjmkm, fjmkp := f(i, jm1, km1), f(i, jm1, kp1)
				dxp, dxm = (fipjm-fjm)/h0, (fjm-fimjm)/h0
				dyp = (fijk - fjm) / h1
				dzp, dzm = (fjmkp-fjm)/h2, (fjm-fjmkm)/h2
				bPrev := unitComponent(dyp, mm(dxp, dxm), mm(dzp, dzm))

				// z component at (i, j, k-1)
				fipkm, fjpkm := f(ip1, j, km1), f(i, jp1, km1)
				dxp, dxm = (fipkm-fkm)/h0, (fkm-fimkm)/h0
				dyp, dym = (fjpkm-fkm)/h1, (fkm-fjmkm)/h1
				dzp = (fijk - fkm) / h2
				cPrev := unitComponent(dzp, mm(dyp, dym), mm(dxp, dxm))

				out[g.Index(i, j, k)] = F((a-aPrev)/h0 + (b-bPrev)/h1 + (c-cPrev)/h2)
			}
		}
	}

	copy(im.data, out)
	return nil
}

// unitComponent returns d/|(d, p, q)|, or 0 for a vanishing gradient.
func unitComponent(d, p, q float64) float64 {
	n := math.Sqrt(d*d + p*p + q*q)
	if n > 0 {
		return d / n
	}
	return 0
}
