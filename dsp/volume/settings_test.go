package volume

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-deconv/dsp/transform"
)

func TestNewSettingsValidation(t *testing.T) {
	tests := []struct {
		name    string
		geom    transform.Geometry
		voxel   Voxel
		wantErr error
	}{
		{name: "valid", geom: geom(4, 4, 4), voxel: Voxel{0.1, 0.1, 0.3}},
		{name: "zero dim", geom: geom(4, 0, 4), voxel: unitVoxel, wantErr: transform.ErrInvalidGeometry},
		{name: "overflowing dims", geom: geom(1<<21, 1<<21, 1<<22), voxel: unitVoxel, wantErr: transform.ErrInvalidGeometry},
		{name: "negative dim", geom: geom(-2, 4, 4), voxel: unitVoxel, wantErr: transform.ErrInvalidGeometry},
		{name: "zero voxel", geom: geom(4, 4, 4), voxel: Voxel{1, 0, 1}, wantErr: ErrInvalidVoxel},
		{name: "negative voxel", geom: geom(4, 4, 4), voxel: Voxel{1, 1, -1}, wantErr: ErrInvalidVoxel},
		{name: "nan voxel", geom: geom(4, 4, 4), voxel: Voxel{math.NaN(), 1, 1}, wantErr: ErrInvalidVoxel},
		{name: "inf voxel", geom: geom(4, 4, 4), voxel: Voxel{1, math.Inf(1), 1}, wantErr: ErrInvalidVoxel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSettings(nil, tt.geom, tt.voxel)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewSettings: %v", err)
				}
				defer s.Release()
				if s.ID() != 0 {
					t.Fatalf("ID() = %d, want 0", s.ID())
				}
				if s.Geometry() != tt.geom || s.Voxel() != tt.voxel {
					t.Fatalf("settings do not keep geometry/voxel: %v %v", s.Geometry(), s.Voxel())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewSettings = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDeriveSharesPlan(t *testing.T) {
	s := newTestSettings(t, geom(4, 4, 2))

	same, err := s.Derive(false)
	if err != nil {
		t.Fatalf("Derive(false): %v", err)
	}
	defer same.Release()
	next, err := s.Derive(true)
	if err != nil {
		t.Fatalf("Derive(true): %v", err)
	}
	defer next.Release()

	if same.Plan() != s.Plan() || next.Plan() != s.Plan() {
		t.Fatal("derived settings do not share the plan instance")
	}
	if same.ID() != s.ID() {
		t.Fatalf("Derive(false) ID = %d, want %d", same.ID(), s.ID())
	}
	if next.ID() != s.ID()+1 {
		t.Fatalf("Derive(true) ID = %d, want %d", next.ID(), s.ID()+1)
	}
	if !same.Same(s) || next.Same(s) {
		t.Fatal("Same() does not follow the identity tag")
	}
	if same.Geometry() != s.Geometry() || next.Voxel() != s.Voxel() {
		t.Fatal("derived settings changed the grid")
	}
	if s.Plan().Refs() != 3 {
		t.Fatalf("plan refs = %d, want 3", s.Plan().Refs())
	}
}

func TestDeriveWithPlanner(t *testing.T) {
	s := newTestSettings(t, geom(2, 4, 4))

	var forward, inverse, executions int
	wrap := func(e transform.Executor[complex128]) transform.Executor[complex128] {
		return transform.ExecutorFunc[complex128](func(dst, src []complex128) error {
			executions++
			return e.Execute(dst, src)
		})
	}
	base := transform.Gonum{}
	planner := transform.PlannerFuncs[complex128]{
		Forward: func(g transform.Geometry) (transform.Executor[complex128], error) {
			forward++
			e, err := base.PlanForward(g)
			return wrap(e), err
		},
		Inverse: func(g transform.Geometry) (transform.Executor[complex128], error) {
			inverse++
			e, err := base.PlanInverse(g)
			return wrap(e), err
		},
	}

	d, err := s.DeriveWithPlanner(planner)
	if err != nil {
		t.Fatalf("DeriveWithPlanner: %v", err)
	}
	defer d.Release()

	if d.Plan() == s.Plan() {
		t.Fatal("DeriveWithPlanner reused the original plan")
	}
	if d.ID() != s.ID()+1 {
		t.Fatalf("ID = %d, want %d", d.ID(), s.ID()+1)
	}
	if forward != 1 || inverse != 1 {
		t.Fatalf("planner calls: forward %d inverse %d, want 1 each", forward, inverse)
	}

	im := newTestImage(t, d, noise(1, 32))
	if err := im.Forward(); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	if err := im.Inverse(); err != nil {
		t.Fatalf("Inverse: %v", err)
	}
	if executions != 2 {
		t.Fatalf("executions = %d, want 2", executions)
	}
}

func TestSettingsLifetime(t *testing.T) {
	s, err := NewSettings(nil, geom(2, 2, 2), unitVoxel)
	if err != nil {
		t.Fatalf("NewSettings: %v", err)
	}
	plan := s.Plan()

	im, err := NewImage(s, nil)
	if err != nil {
		t.Fatalf("NewImage: %v", err)
	}

	s.Release()
	if plan.Cleared() {
		t.Fatal("plan cleared while an image still uses the settings")
	}
	if err := im.Forward(); err != nil {
		t.Fatalf("Forward after settings release: %v", err)
	}

	im.Release()
	if !plan.Cleared() {
		t.Fatal("plan not cleared after the last user released it")
	}

	if _, err := s.Derive(false); !errors.Is(err, ErrReleased) {
		t.Fatalf("Derive after release = %v, want ErrReleased", err)
	}
	if _, err := NewImage(s, nil); !errors.Is(err, ErrReleased) {
		t.Fatalf("NewImage after release = %v, want ErrReleased", err)
	}
}

func TestSettingsFromCache(t *testing.T) {
	cache := transform.NewCache[complex64](nil)
	g := geom(4, 4, 4)

	a, err := NewSettings32(cache, g, unitVoxel)
	if err != nil {
		t.Fatalf("NewSettings32: %v", err)
	}
	b, err := NewSettings32(cache, g, Voxel{0.5, 0.5, 0.5})
	if err != nil {
		t.Fatalf("NewSettings32: %v", err)
	}

	if a.Plan() != b.Plan() {
		t.Fatal("settings with equal geometry do not share the cached plan")
	}
	if !a.Same(b) {
		t.Fatal("independently built settings with a shared plan and ID 0 should be Same")
	}
	if cache.Len() != 1 {
		t.Fatalf("cache Len() = %d, want 1", cache.Len())
	}

	a.Release()
	b.Release()
	if cache.Len() != 0 {
		t.Fatalf("cache Len() = %d, want 0 after release", cache.Len())
	}
}

func TestVoxelEqual(t *testing.T) {
	v := Voxel{0.1, 0.2, 0.3}
	if !v.Equal(Voxel{0.1, 0.2, 0.30000000000000004}) {
		t.Fatal("expected rounding-level differences to compare equal")
	}
	if v.Equal(Voxel{0.1, 0.2, 0.31}) {
		t.Fatal("expected different spacing to compare unequal")
	}
}
