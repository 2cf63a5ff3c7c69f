package volume

import (
	"testing"

	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/internal/testutil"
)

var unitVoxel = Voxel{1, 1, 1}

func newTestSettings(t *testing.T, g transform.Geometry) *Settings {
	t.Helper()
	s, err := NewSettings(nil, g, unitVoxel)
	if err != nil {
		t.Fatalf("NewSettings(%s): %v", g, err)
	}
	t.Cleanup(s.Release)
	return s
}

func newTestImage(t *testing.T, s *Settings, data []float64) *Image {
	t.Helper()
	im, err := NewImage(s, data)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}
	t.Cleanup(im.Release)
	return im
}

// spectralImage returns a spectral image holding spec.
func spectralImage(t *testing.T, s *Settings, spec []complex128) *Image {
	t.Helper()
	im := newTestImage(t, s, nil)
	if err := im.SetSpectrum(spec); err != nil {
		t.Fatalf("SetSpectrum: %v", err)
	}
	return im
}

func noise(seed int64, n int) []float64 {
	return testutil.DeterministicNoise(seed, 1, n)
}

func complexNoise(seed int64, n int) []complex128 {
	re, im := noise(seed, n), noise(seed+100, n)
	out := make([]complex128, n)
	for i := range out {
		out[i] = complex(re[i], im[i])
	}
	return out
}

func mustSpectrum(t *testing.T, im *Image) []complex128 {
	t.Helper()
	spec, err := im.Spectrum()
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	return spec
}

func mustData(t *testing.T, im *Image) []float64 {
	t.Helper()
	data, err := im.Data()
	if err != nil {
		t.Fatalf("Data: %v", err)
	}
	return data
}

func geom(n1, n2, n3 int) transform.Geometry {
	return transform.Geometry{N1: n1, N2: n2, N3: n3}
}
