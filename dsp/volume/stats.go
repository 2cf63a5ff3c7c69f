package volume

import (
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-deconv/dsp/core"
)

// Stats summarizes the spatial samples of an image.
type Stats struct {
	Min, Max, Sum float64
}

// Stats returns the minimum, maximum and sum of the spatial samples.
func (im *ImageT[F, C]) Stats() (Stats, error) {
	if err := im.expect(Spatial); err != nil {
		return Stats{}, err
	}

	st := Stats{
		Min: math.Inf(1),
		Max: math.Inf(-1),
		Sum: sum(im.data),
	}
	for _, v := range im.data {
		x := float64(v)
		st.Min = math.Min(st.Min, x)
		st.Max = math.Max(st.Max, x)
	}
	return st, nil
}

// Nrm2 returns the squared Euclidean distance between the spatial samples
// of im and other.
func (im *ImageT[F, C]) Nrm2(other *ImageT[F, C]) (float64, error) {
	if err := im.binary(other, Spatial); err != nil {
		return 0, err
	}
	var n float64
	for i, v := range im.data {
		d := float64(v) - float64(other.data[i])
		n += d * d
	}
	return n, nil
}

// SNR estimates the Poisson signal to noise ratio of a photon count
// image: the square root of the largest mean over (2k+1)^3 boxes lying
// fully inside the volume. It returns 0 if no box fits.
func (im *ImageT[F, C]) SNR(k int) (float64, error) {
	if err := im.expect(Spatial); err != nil {
		return 0, err
	}
	if k < 0 {
		k = 0
	}

	g := im.geom
	peak := 0.0
	for i1 := k; i1 < g.N1-k; i1++ {
		for i2 := k; i2 < g.N2-k; i2++ {
			for i3 := k; i3 < g.N3-k; i3++ {
				s := 0.0
				for j1 := -k; j1 <= k; j1++ {
					for j2 := -k; j2 <= k; j2++ {
						row := g.Index(i1+j1, i2+j2, i3-k)
						for _, v := range im.data[row : row+2*k+1] {
							s += float64(v)
						}
					}
				}
				peak = math.Max(peak, s)
			}
		}
	}

	box := float64(2*k + 1)
	return math.Sqrt(peak / (box * box * box)), nil
}

// LambdaLSQ returns the least-squares estimate of the total variation
// weight for a Richardson-Lucy correction image cconv and the divergence
// image div: sum((1-cconv)*div) / sum(div^2). It returns 0 when div is
// identically zero.
func LambdaLSQ[F algofft.Float, C algofft.Complex](cconv, div *ImageT[F, C]) (float64, error) {
	if err := cconv.binary(div, Spatial); err != nil {
		return 0, err
	}
	var num, den float64
	for i, c := range cconv.data {
		d := float64(div.data[i])
		num += (1 - float64(c)) * d
		den += d * d
	}
	if den == 0 {
		return 0, nil
	}
	return num / den, nil
}

// Magnitude returns |X| for every bin of a spectral image.
func (im *ImageT[F, C]) Magnitude() ([]F, error) {
	if err := im.expect(Spectral); err != nil {
		return nil, err
	}

	n := len(im.spec)
	v := core.Interleaved[F](im.spec)
	out := make([]F, n)

	if o, ok := any(out).([]float64); ok {
		re := make([]float64, n)
		imPart := make([]float64, n)
		for i := range n {
			re[i] = float64(v[2*i])
			imPart[i] = float64(v[2*i+1])
		}
		vecmath.Magnitude(o, re, imPart)
		return out, nil
	}

	for i := range out {
		out[i] = F(math.Hypot(float64(v[2*i]), float64(v[2*i+1])))
	}
	return out, nil
}

func sum[F algofft.Float](x []F) float64 {
	if d, ok := any(x).([]float64); ok {
		return vecmath.Sum(d)
	}
	var s float64
	for _, v := range x {
		s += float64(v)
	}
	return s
}
