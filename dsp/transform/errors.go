package transform

import (
	"errors"
	"fmt"
)

// Errors reported by plans and planners.
var (
	ErrInvalidGeometry   = errors.New("transform: invalid geometry")
	ErrGeometryMismatch  = errors.New("transform: geometry mismatch")
	ErrPlanState         = errors.New("transform: invalid plan state")
	ErrResourceExhausted = errors.New("transform: planner failed")
)

// ErrPlanCleared is returned when a cleared plan is used.
var ErrPlanCleared = fmt.Errorf("%w: plan cleared", ErrPlanState)
