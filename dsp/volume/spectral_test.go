package volume

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-deconv/dsp/transform"
	"github.com/cwbudde/algo-deconv/internal/testutil"
)

func TestInvDivideByOnesIsIdentity(t *testing.T) {
	g := geom(8, 8, 1)
	s := newTestSettings(t, g)

	a := newTestImage(t, s, noise(1, g.Len()))
	if err := a.Forward(); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	want := mustSpectrum(t, a)

	ones := make([]complex128, g.Len())
	for i := range ones {
		ones[i] = 1
	}
	b := spectralImage(t, s, ones)

	if err := a.InvDivide(b, DefaultRegularization()); err != nil {
		t.Fatalf("InvDivide: %v", err)
	}
	for i, v := range mustSpectrum(t, a) {
		if v != want[i] {
			t.Fatalf("bin %d = %v, want exactly %v", i, v, want[i])
		}
	}
}

func TestInvDivideByOnesIsIdentity32(t *testing.T) {
	g := geom(8, 8, 1)
	s, err := NewSettings32(nil, g, unitVoxel)
	if err != nil {
		t.Fatalf("NewSettings32: %v", err)
	}
	defer s.Release()

	spec := make([]complex64, g.Len())
	ones := make([]complex64, g.Len())
	for i, v := range complexNoise(2, g.Len()) {
		spec[i] = complex64(v)
		ones[i] = 1
	}

	a, _ := NewImage32(s, nil)
	b, _ := NewImage32(s, nil)
	defer a.Release()
	defer b.Release()
	if err := a.SetSpectrum(spec); err != nil {
		t.Fatalf("SetSpectrum: %v", err)
	}
	if err := b.SetSpectrum(ones); err != nil {
		t.Fatalf("SetSpectrum: %v", err)
	}

	if err := a.InvDivide(b, DefaultRegularization()); err != nil {
		t.Fatalf("InvDivide: %v", err)
	}
	got, err := a.Spectrum()
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}
	for i := range got {
		if got[i] != spec[i] {
			t.Fatalf("bin %d = %v, want exactly %v", i, got[i], spec[i])
		}
	}
}

func TestInvDivideThenMulReconstructs(t *testing.T) {
	g := geom(4, 4, 4)
	s := newTestSettings(t, g)

	want := complexNoise(3, g.Len())
	den := complexNoise(4, g.Len())
	for i, v := range den {
		// keep every bin well above the threshold
		den[i] = v + complex(2*math.Copysign(1, real(v)), 0)
	}

	a := spectralImage(t, s, want)
	b := spectralImage(t, s, den)

	for _, reg := range []Regularization{
		DefaultRegularization(),
		NewRegularization(WithEpsilon(1e-3)),
	} {
		if err := a.SetSpectrum(want); err != nil {
			t.Fatalf("SetSpectrum: %v", err)
		}
		if err := a.InvDivide(b, reg); err != nil {
			t.Fatalf("InvDivide: %v", err)
		}
		if err := a.Mul(b); err != nil {
			t.Fatalf("Mul: %v", err)
		}
		testutil.RequireComplexNearlyEqual(t, mustSpectrum(t, a), want, 1e-12)
	}
}

func TestInvDivideNeverProducesNonFinite(t *testing.T) {
	g := geom(2, 2, 4)
	s := newTestSettings(t, g)

	num := []complex128{
		1, 1e300, -1e300 + 1e300i, 5,
		0, 1i, 1e-300, 3,
		1e308, 2, 2, 2,
		1, 1, 1, 1,
	}
	den := []complex128{
		0, 0, 1e-300, complex(math.SmallestNonzeroFloat64, 0),
		0, 1e-7, 1e-300i, 1e-200,
		1e-5, complex(math.MaxFloat64, math.MaxFloat64), 1, -1i,
		1, 2, 1e-3, 0,
	}

	for _, reg := range []Regularization{
		DefaultRegularization(),
		NewRegularization(WithPolicy(PolicyWiener)),
		NewRegularization(WithPolicy(PolicyWiener), WithEpsilon(1e-300)),
		NewRegularization(WithEpsilon(1e-300)),
	} {
		t.Run(reg.Policy.String(), func(t *testing.T) {
			a := spectralImage(t, s, num)
			b := spectralImage(t, s, den)
			if err := a.InvDivide(b, reg); err != nil {
				t.Fatalf("InvDivide: %v", err)
			}
			got := mustSpectrum(t, a)
			testutil.RequireFiniteSpectrum(t, got)
			if got[0] != 0 || got[1] != 0 || got[4] != 0 {
				t.Fatalf("zero denominators gave %v %v %v, want 0", got[0], got[1], got[4])
			}
		})
	}
}

func TestInvDividePolicies(t *testing.T) {
	s := newTestSettings(t, geom(1, 1, 4))
	num := []complex128{2, 2, 3i, 2}
	den := []complex128{1 + 1i, 1e-7, 2e-6, 2}

	tests := []struct {
		name string
		reg  Regularization
		want []complex128
	}{
		{
			name: "threshold",
			reg:  DefaultRegularization(),
			want: []complex128{1 - 1i, 0, 1.5e6i, 1},
		},
		{
			name: "wiener",
			reg:  NewRegularization(WithPolicy(PolicyWiener), WithEpsilon(0.5)),
			want: []complex128{0.8 - 0.8i, 2e-7 / (1e-14 + 0.5), 6e-6i / (4e-12 + 0.5), 4 / 4.5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := spectralImage(t, s, num)
			b := spectralImage(t, s, den)
			if err := a.InvDivide(b, tt.reg); err != nil {
				t.Fatalf("InvDivide: %v", err)
			}
			got := mustSpectrum(t, a)
			for i := range got {
				if cmplx.Abs(got[i]-tt.want[i]) > 1e-9*math.Max(1, cmplx.Abs(tt.want[i])) {
					t.Fatalf("bin %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInvDivideErrors(t *testing.T) {
	s := newTestSettings(t, geom(2, 2, 2))
	a := spectralImage(t, s, make([]complex128, 8))
	b := spectralImage(t, s, make([]complex128, 8))

	if err := a.InvDivide(b, Regularization{Policy: PolicyThreshold}); !errors.Is(err, ErrInvalidEpsilon) {
		t.Fatalf("zero epsilon = %v, want ErrInvalidEpsilon", err)
	}
	if err := a.InvDivide(b, Regularization{Policy: 7, Epsilon: 1}); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("unknown policy = %v, want ErrUnknownPolicy", err)
	}

	spatial := newTestImage(t, s, nil)
	if err := a.InvDivide(spatial, DefaultRegularization()); !errors.Is(err, ErrWrongDomain) {
		t.Fatalf("spatial operand = %v, want ErrWrongDomain", err)
	}
	if err := spatial.InvDivide(a, DefaultRegularization()); !errors.Is(err, ErrWrongDomain) {
		t.Fatalf("spatial receiver = %v, want ErrWrongDomain", err)
	}

	other := spectralImage(t, newTestSettings(t, geom(2, 2, 4)), make([]complex128, 16))
	if err := a.InvDivide(other, DefaultRegularization()); !errors.Is(err, transform.ErrGeometryMismatch) {
		t.Fatalf("geometry mismatch = %v, want ErrGeometryMismatch", err)
	}
}

// shiftKernel returns the spectrum of a unit impulse at (0, 0, 1).
func shiftKernel(t *testing.T, s *Settings) *Image {
	t.Helper()
	g := s.Geometry()
	k := newTestImage(t, s, testutil.Impulse3D(g.N1, g.N2, g.N3, 0, 0, 1))
	if err := k.Forward(); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	return k
}

func TestConvolveShifts(t *testing.T) {
	g := geom(2, 3, 4)
	s, err := NewSettings(transform.NewCache[complex128](transform.Gonum{}), g, unitVoxel)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	defer s.Release()

	x := noise(6, g.Len())
	kernel := shiftKernel(t, s)

	tests := []struct {
		name  string
		conj  bool
		shift int
	}{
		{name: "convolve", conj: false, shift: 1},
		{name: "correlate", conj: true, shift: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := newTestImage(t, s, x)
			var err error
			if tt.conj {
				err = im.ConvolveConj(kernel)
			} else {
				err = im.Convolve(kernel)
			}
			if err != nil {
				t.Fatalf("convolve: %v", err)
			}

			want := make([]float64, g.Len())
			for i := range g.N1 {
				for j := range g.N2 {
					for k := range g.N3 {
						src := (k - tt.shift + g.N3) % g.N3
						want[g.Index(i, j, k)] = x[g.Index(i, j, src)]
					}
				}
			}
			testutil.RequireSliceNearlyEqual(t, mustData(t, im), want, 1e-12)
		})
	}

	if err := kernel.Convolve(kernel); !errors.Is(err, ErrWrongDomain) {
		t.Fatalf("Convolve on spectral image = %v, want ErrWrongDomain", err)
	}
}

func TestDeconvolveKnownBlur(t *testing.T) {
	g := geom(8, 8, 8)
	s := newTestSettings(t, g)

	// centre weight 0.7 and 0.05 on the six face neighbours: the
	// transfer function stays above 0.4 everywhere.
	psf := make([]float64, g.Len())
	psf[0] = 0.7
	for _, idx := range []int{
		g.Index(1, 0, 0), g.Index(7, 0, 0),
		g.Index(0, 1, 0), g.Index(0, 7, 0),
		g.Index(0, 0, 1), g.Index(0, 0, 7),
	} {
		psf[idx] = 0.05
	}
	otf := newTestImage(t, s, psf)
	if err := otf.Forward(); err != nil {
		t.Fatalf("Forward: %v", err)
	}

	object := testutil.Gaussian3D(8, 8, 8, 1.5, 1, 2)
	observed := newTestImage(t, s, object)
	if err := observed.Convolve(otf); err != nil {
		t.Fatalf("Convolve: %v", err)
	}

	if err := observed.Forward(); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := observed.InvDivide(otf, DefaultRegularization()); err != nil {
		t.Fatalf("InvDivide: %v", err)
	}
	if err := observed.Inverse(); err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	testutil.RequireSliceNearlyEqual(t, mustData(t, observed), object, 1e-12)
}

func TestMulConj(t *testing.T) {
	s := newTestSettings(t, geom(1, 1, 2))
	a := spectralImage(t, s, []complex128{1 + 2i, 3})
	b := spectralImage(t, s, []complex128{1 + 1i, 2i})

	if err := a.MulConj(b); err != nil {
		t.Fatalf("MulConj: %v", err)
	}
	want := []complex128{(1 + 2i) * (1 - 1i), 3 * -2i}
	testutil.RequireComplexNearlyEqual(t, mustSpectrum(t, a), want, 1e-15)
}

func TestRegularizationOptions(t *testing.T) {
	r := NewRegularization(WithPolicy(PolicyWiener), WithEpsilon(-1), nil)
	if r.Policy != PolicyWiener || r.Epsilon != 1e-6 {
		t.Fatalf("NewRegularization = %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	for _, name := range []string{"threshold", "wiener"} {
		p, err := ParsePolicy(name)
		if err != nil {
			t.Fatalf("ParsePolicy(%q): %v", name, err)
		}
		if p.String() != name {
			t.Fatalf("round trip %q -> %q", name, p.String())
		}
	}
	if _, err := ParsePolicy("tikhonov"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("ParsePolicy(tikhonov) = %v, want ErrUnknownPolicy", err)
	}
}
