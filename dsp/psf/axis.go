package psf

import "math"

// sample locates one target coordinate on a PSF axis.
type sample struct {
	index  int
	frac   float64
	inside bool
}

// axis holds the PSF lookup for every target index along one axis.
type axis []sample

// newAxis maps n target samples with spacing v onto a PSF axis of m
// samples with spacing pv. Both grids are centred on their geometric
// centre. A PSF axis of length 1 only matches the centred target sample.
func newAxis(n int, v float64, m int, pv float64) axis {
	ax := make(axis, n)
	for i := range ax {
		d := v * (float64(i) + 0.5 - float64(n)*0.5)
		pos := d/pv + float64(m)*0.5 - 0.5

		j := int(math.Floor(pos))
		frac := pos - float64(j)
		switch {
		case m == 1:
			ax[i] = sample{index: 0, inside: pos == 0}
		case j == m-1 && frac == 0:
			ax[i] = sample{index: m - 2, frac: 1, inside: true}
		default:
			ax[i] = sample{index: j, frac: frac, inside: j >= 0 && j < m-1}
		}
	}
	return ax
}

// shift returns the wrapped target index that places the grid centre at 0.
func (ax axis) shift(i int) int {
	n := len(ax)
	return (i + n/2 + 1) % n
}
