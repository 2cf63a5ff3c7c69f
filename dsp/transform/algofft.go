package transform

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
)

// AlgoFFT plans transforms with algo-fft. It supports complex64 and
// complex128 and is the default planner.
type AlgoFFT[C algofft.Complex] struct{}

// PlanForward returns an unnormalized forward executor for g.
func (AlgoFFT[C]) PlanForward(g Geometry) (Executor[C], error) {
	return newAlgoExecutor[C](g, false)
}

// PlanInverse returns a normalized inverse executor for g.
func (AlgoFFT[C]) PlanInverse(g Geometry) (Executor[C], error) {
	return newAlgoExecutor[C](g, true)
}

// Destroy drops the per-axis plans of e.
func (AlgoFFT[C]) Destroy(e Executor[C]) {
	if ex, ok := e.(*algoExecutor[C]); ok {
		ex.axes = [3]*algofft.Plan[C]{}
		ex.line, ex.out = nil, nil
	}
}

// algoExecutor runs one 1-D plan per non-unit axis. Axes of equal length
// share a plan. algo-fft normalizes its inverse by 1/n per axis, which
// composes to 1/(N1*N2*N3).
type algoExecutor[C algofft.Complex] struct {
	geom    Geometry
	inverse bool
	axes    [3]*algofft.Plan[C]
	line    []C
	out     []C
}

func newAlgoExecutor[C algofft.Complex](g Geometry, inverse bool) (*algoExecutor[C], error) {
	ex := &algoExecutor[C]{geom: g, inverse: inverse}
	byLen := make(map[int]*algofft.Plan[C], 3)
	maxLen := 0

	for axis, n := range g.Dims() {
		if n == 1 {
			continue
		}
		plan, ok := byLen[n]
		if !ok {
			var err error
			plan, err = algofft.NewPlanT[C](n)
			if err != nil {
				return nil, fmt.Errorf("algo-fft plan of length %d: %w", n, err)
			}
			byLen[n] = plan
		}
		ex.axes[axis] = plan
		maxLen = max(maxLen, n)
	}

	ex.line = make([]C, maxLen)
	ex.out = make([]C, maxLen)
	return ex, nil
}

// Execute transforms src into dst along all non-unit axes.
func (ex *algoExecutor[C]) Execute(dst, src []C) error {
	if ex.line == nil {
		return ErrPlanCleared
	}
	prepare(dst, src)

	for axis, plan := range ex.axes {
		if plan == nil {
			continue
		}
		n := ex.geom.Dims()[axis]
		out := ex.out[:n]
		err := sweepAxis(ex.geom, axis, dst, ex.line[:n], func(line []C) error {
			var err error
			if ex.inverse {
				err = plan.Inverse(out, line)
			} else {
				err = plan.Forward(out, line)
			}
			if err != nil {
				return err
			}
			copy(line, out)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
