package transform

import algofft "github.com/cwbudde/algo-fft"

// Executor runs one precomputed transform over a full volume.
// dst and src have the plan's geometry length and may alias.
type Executor[C algofft.Complex] interface {
	Execute(dst, src []C) error
}

// Planner creates and destroys executors for a given geometry.
type Planner[C algofft.Complex] interface {
	// PlanForward returns an unnormalized forward executor.
	PlanForward(g Geometry) (Executor[C], error)
	// PlanInverse returns an inverse executor that includes the 1/N scale.
	PlanInverse(g Geometry) (Executor[C], error)
	// Destroy releases resources held by an executor built by this planner.
	Destroy(e Executor[C])
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc[C algofft.Complex] func(dst, src []C) error

// Execute calls f(dst, src).
func (f ExecutorFunc[C]) Execute(dst, src []C) error {
	return f(dst, src)
}

// PlannerFuncs is a Planner assembled from callables. It lets callers
// inject an alternate transform provider without defining a type.
// A nil Clear is a no-op.
type PlannerFuncs[C algofft.Complex] struct {
	Forward func(g Geometry) (Executor[C], error)
	Inverse func(g Geometry) (Executor[C], error)
	Clear   func(e Executor[C])
}

// PlanForward calls p.Forward.
func (p PlannerFuncs[C]) PlanForward(g Geometry) (Executor[C], error) {
	return p.Forward(g)
}

// PlanInverse calls p.Inverse.
func (p PlannerFuncs[C]) PlanInverse(g Geometry) (Executor[C], error) {
	return p.Inverse(g)
}

// Destroy calls p.Clear if set.
func (p PlannerFuncs[C]) Destroy(e Executor[C]) {
	if p.Clear != nil {
		p.Clear(e)
	}
}
