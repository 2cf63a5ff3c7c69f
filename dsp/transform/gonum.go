package transform

import (
	"gonum.org/v1/gonum/dsp/fourier"
)

// Gonum plans float64 transforms with gonum's dsp/fourier package.
// Unlike AlgoFFT it accepts any axis length.
type Gonum struct{}

// PlanForward returns an unnormalized forward executor for g.
func (Gonum) PlanForward(g Geometry) (Executor[complex128], error) {
	return newGonumExecutor(g, false), nil
}

// PlanInverse returns a normalized inverse executor for g.
func (Gonum) PlanInverse(g Geometry) (Executor[complex128], error) {
	return newGonumExecutor(g, true), nil
}

// Destroy drops the per-axis plans of e.
func (Gonum) Destroy(e Executor[complex128]) {
	if ex, ok := e.(*gonumExecutor); ok {
		ex.axes = [3]*fourier.CmplxFFT{}
		ex.line, ex.out = nil, nil
	}
}

type gonumExecutor struct {
	geom    Geometry
	inverse bool
	axes    [3]*fourier.CmplxFFT
	line    []complex128
	out     []complex128
}

func newGonumExecutor(g Geometry, inverse bool) *gonumExecutor {
	ex := &gonumExecutor{geom: g, inverse: inverse}
	byLen := make(map[int]*fourier.CmplxFFT, 3)
	maxLen := 0

	for axis, n := range g.Dims() {
		if n == 1 {
			continue
		}
		fft, ok := byLen[n]
		if !ok {
			fft = fourier.NewCmplxFFT(n)
			byLen[n] = fft
		}
		ex.axes[axis] = fft
		maxLen = max(maxLen, n)
	}

	ex.line = make([]complex128, maxLen)
	ex.out = make([]complex128, maxLen)
	return ex
}

// Execute transforms src into dst along all non-unit axes. gonum's
// sequence transform is unnormalized, so inverse lines are scaled by 1/n.
func (ex *gonumExecutor) Execute(dst, src []complex128) error {
	if ex.line == nil {
		return ErrPlanCleared
	}
	prepare(dst, src)

	for axis, fft := range ex.axes {
		if fft == nil {
			continue
		}
		n := ex.geom.Dims()[axis]
		out := ex.out[:n]
		scale := complex(1/float64(n), 0)
		err := sweepAxis(ex.geom, axis, dst, ex.line[:n], func(line []complex128) error {
			if !ex.inverse {
				copy(line, fft.Coefficients(out, line))
				return nil
			}
			fft.Sequence(out, line)
			for j, v := range out {
				line[j] = v * scale
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
