package volume

import (
	"fmt"
	"math"
	"sync/atomic"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-deconv/dsp/core"
	"github.com/cwbudde/algo-deconv/dsp/transform"
)

// voxelTolerance is the relative tolerance for voxel spacing comparison.
const voxelTolerance = 1e-13

// Voxel is the physical sample spacing along each axis.
type Voxel struct {
	V1, V2, V3 float64
}

// Validate reports ErrInvalidVoxel unless every spacing is finite and
// positive.
func (v Voxel) Validate() error {
	for _, x := range [3]float64{v.V1, v.V2, v.V3} {
		if !(x > 0) || math.IsInf(x, 1) {
			return fmt.Errorf("%w: %v", ErrInvalidVoxel, v)
		}
	}
	return nil
}

// Equal reports whether v and o describe the same spacing.
func (v Voxel) Equal(o Voxel) bool {
	return core.NearlyEqual(v.V1, o.V1, voxelTolerance) &&
		core.NearlyEqual(v.V2, o.V2, voxelTolerance) &&
		core.NearlyEqual(v.V3, o.V3, voxelTolerance)
}

func (v Voxel) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.V1, v.V2, v.V3)
}

// SettingsT describes a volume grid and owns a reference to its transform
// plan. Settings are reference counted: the creator holds one reference
// and every image built on the settings holds another.
type SettingsT[C algofft.Complex] struct {
	geom  transform.Geometry
	voxel Voxel
	id    uint64
	plan  *transform.Plan[C]
	refs  atomic.Int64
}

// Settings is the float64 specialization.
type Settings = SettingsT[complex128]

// Settings32 is the float32 specialization.
type Settings32 = SettingsT[complex64]

// NewSettingsT validates the grid and acquires a plan for it from cache.
// A nil cache builds a private plan with transform.AlgoFFT.
func NewSettingsT[C algofft.Complex](cache *transform.Cache[C], g transform.Geometry, v Voxel) (*SettingsT[C], error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}

	var (
		plan *transform.Plan[C]
		err  error
	)
	if cache != nil {
		plan, err = cache.Acquire(g)
	} else {
		plan, err = transform.NewPlan[C](transform.AlgoFFT[C]{}, g)
	}
	if err != nil {
		return nil, err
	}

	return newSettings(g, v, 0, plan), nil
}

// NewSettings creates float64 settings.
func NewSettings(cache *transform.Cache[complex128], g transform.Geometry, v Voxel) (*Settings, error) {
	return NewSettingsT(cache, g, v)
}

// NewSettings32 creates float32 settings.
func NewSettings32(cache *transform.Cache[complex64], g transform.Geometry, v Voxel) (*Settings32, error) {
	return NewSettingsT(cache, g, v)
}

func newSettings[C algofft.Complex](g transform.Geometry, v Voxel, id uint64, plan *transform.Plan[C]) *SettingsT[C] {
	s := &SettingsT[C]{geom: g, voxel: v, id: id, plan: plan}
	s.refs.Store(1)
	return s
}

// Derive returns new settings sharing the same plan instance. The ID is
// incremented when incrementID is set and copied otherwise.
func (s *SettingsT[C]) Derive(incrementID bool) (*SettingsT[C], error) {
	if s.refs.Load() <= 0 {
		return nil, ErrReleased
	}
	if err := s.plan.Retain(); err != nil {
		return nil, err
	}

	id := s.id
	if incrementID {
		id++
	}
	return newSettings(s.geom, s.voxel, id, s.plan), nil
}

// DeriveWithPlanner returns new settings for the same grid whose plan is
// built by p. The ID is incremented.
func (s *SettingsT[C]) DeriveWithPlanner(p transform.Planner[C]) (*SettingsT[C], error) {
	if s.refs.Load() <= 0 {
		return nil, ErrReleased
	}
	plan, err := transform.NewPlan(p, s.geom)
	if err != nil {
		return nil, err
	}
	return newSettings(s.geom, s.voxel, s.id+1, plan), nil
}

// Geometry returns the grid dimensions.
func (s *SettingsT[C]) Geometry() transform.Geometry { return s.geom }

// Voxel returns the sample spacing.
func (s *SettingsT[C]) Voxel() Voxel { return s.voxel }

// ID returns the identity tag. It only changes through derivation.
func (s *SettingsT[C]) ID() uint64 { return s.id }

// Plan returns the shared transform plan.
func (s *SettingsT[C]) Plan() *transform.Plan[C] { return s.plan }

// Same reports whether s and o have the same ID and share a plan.
func (s *SettingsT[C]) Same(o *SettingsT[C]) bool {
	return s != nil && o != nil && s.id == o.id && s.plan == o.plan
}

// Release drops the caller's reference. The plan reference goes with the
// last settings reference.
func (s *SettingsT[C]) Release() {
	if s.refs.Add(-1) == 0 {
		s.plan.Release()
	}
}

func (s *SettingsT[C]) retain() error {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return ErrReleased
		}
		if s.refs.CompareAndSwap(n, n+1) {
			return nil
		}
	}
}
