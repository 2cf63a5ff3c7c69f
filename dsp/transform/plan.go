package transform

import (
	"fmt"
	"sync"
	"sync/atomic"

	algofft "github.com/cwbudde/algo-fft"
)

// planning serializes executor construction and destruction across all
// plans. Providers with global planner state require it.
var planning sync.Mutex

// Plan is a forward/inverse transform pair bound to one geometry.
//
// A Plan is safe for concurrent use; executions are serialized because
// the executors own scratch buffers. It is reference counted: NewPlan
// returns it with one reference, Retain adds one and Release drops one.
// The last Release clears the plan.
type Plan[C algofft.Complex] struct {
	geom    Geometry
	planner Planner[C]

	execMu  sync.Mutex
	forward Executor[C]
	inverse Executor[C]

	cleared   atomic.Bool
	refs      atomic.Int64
	onRelease func(*Plan[C])
}

// NewPlan builds the executors for g with p.
func NewPlan[C algofft.Complex](p Planner[C], g Geometry) (*Plan[C], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	planning.Lock()
	defer planning.Unlock()

	fwd, err := p.PlanForward(g)
	if err != nil {
		return nil, fmt.Errorf("%w: forward %s: %w", ErrResourceExhausted, g, err)
	}

	inv, err := p.PlanInverse(g)
	if err != nil {
		p.Destroy(fwd)
		return nil, fmt.Errorf("%w: inverse %s: %w", ErrResourceExhausted, g, err)
	}

	plan := &Plan[C]{
		geom:    g,
		planner: p,
		forward: fwd,
		inverse: inv,
	}
	plan.refs.Store(1)
	return plan, nil
}

// Geometry returns the geometry the plan was built for.
func (p *Plan[C]) Geometry() Geometry {
	return p.geom
}

// Forward computes the unnormalized 3-D DFT of src into dst.
func (p *Plan[C]) Forward(dst, src []C) error {
	return p.execute(false, dst, src)
}

// Inverse computes the inverse 3-D DFT of src into dst, scaled by
// 1/(N1*N2*N3).
func (p *Plan[C]) Inverse(dst, src []C) error {
	return p.execute(true, dst, src)
}

func (p *Plan[C]) execute(inverse bool, dst, src []C) error {
	if err := p.geom.checkLen("dst", len(dst)); err != nil {
		return err
	}
	if err := p.geom.checkLen("src", len(src)); err != nil {
		return err
	}

	p.execMu.Lock()
	defer p.execMu.Unlock()

	if p.cleared.Load() {
		return ErrPlanCleared
	}
	if inverse {
		return p.inverse.Execute(dst, src)
	}
	return p.forward.Execute(dst, src)
}

// Clear destroys the executors. It waits for a running execution and is
// idempotent. Every later Forward or Inverse fails with ErrPlanCleared.
func (p *Plan[C]) Clear() {
	p.execMu.Lock()
	defer p.execMu.Unlock()

	if p.cleared.Load() {
		return
	}

	planning.Lock()
	p.planner.Destroy(p.forward)
	p.planner.Destroy(p.inverse)
	planning.Unlock()

	p.forward, p.inverse = nil, nil
	p.cleared.Store(true)
}

// Cleared reports whether the plan has been cleared.
func (p *Plan[C]) Cleared() bool {
	return p.cleared.Load()
}

// Refs returns the current reference count.
func (p *Plan[C]) Refs() int64 {
	return p.refs.Load()
}

// Retain adds a reference. It fails once the plan is cleared or fully
// released.
func (p *Plan[C]) Retain() error {
	for {
		n := p.refs.Load()
		if n <= 0 || p.cleared.Load() {
			return ErrPlanCleared
		}
		if p.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}

// Release drops a reference. Dropping the last one clears the plan.
func (p *Plan[C]) Release() {
	if p.refs.Add(-1) != 0 {
		return
	}
	p.Clear()
	if p.onRelease != nil {
		p.onRelease(p)
	}
}
