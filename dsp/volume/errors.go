package volume

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-deconv/dsp/transform"
)

// Errors reported by settings and images.
var (
	ErrInvalidVoxel   = errors.New("volume: voxel spacing must be positive")
	ErrInvalidEpsilon = errors.New("volume: epsilon must be positive")
	ErrUnknownPolicy  = errors.New("volume: unknown regularization policy")
)

// State errors wrap transform.ErrPlanState.
var (
	ErrWrongDomain = fmt.Errorf("%w: wrong domain", transform.ErrPlanState)
	ErrReleased    = fmt.Errorf("%w: released", transform.ErrPlanState)
)
