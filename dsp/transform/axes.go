package transform

import algofft "github.com/cwbudde/algo-fft"

// lineFunc transforms one gathered line in place.
type lineFunc[C algofft.Complex] func(line []C) error

// sweepAxis applies fn to every line of data along axis. Lines are
// gathered into line, transformed and scattered back.
func sweepAxis[C algofft.Complex](g Geometry, axis int, data, line []C, fn lineFunc[C]) error {
	n := g.Dims()[axis]
	stride := g.Stride(axis)
	lines := g.Len() / n

	if stride == 1 {
		for l := range lines {
			if err := fn(data[l*n : (l+1)*n]); err != nil {
				return err
			}
		}
		return nil
	}

	for l := range lines {
		base := (l/stride)*stride*n + l%stride
		for j := range n {
			line[j] = data[base+j*stride]
		}
		if err := fn(line); err != nil {
			return err
		}
		for j := range n {
			data[base+j*stride] = line[j]
		}
	}
	return nil
}

// prepare copies src into dst unless both are the same buffer.
func prepare[C algofft.Complex](dst, src []C) {
	if len(dst) > 0 && &dst[0] != &src[0] {
		copy(dst, src)
	}
}
