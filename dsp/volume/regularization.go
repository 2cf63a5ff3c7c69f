package volume

import "fmt"

// Policy selects how InvDivide treats small denominators.
type Policy int

const (
	// PolicyThreshold zeroes bins whose denominator magnitude is below
	// Epsilon and divides exactly elsewhere:
	// a*conj(b)/|b|^2 if |b| >= Epsilon, else 0.
	PolicyThreshold Policy = iota

	// PolicyWiener damps every bin:
	// a*conj(b)/(|b|^2 + Epsilon).
	PolicyWiener
)

// String returns the configuration name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyThreshold:
		return "threshold"
	case PolicyWiener:
		return "wiener"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "threshold":
		return PolicyThreshold, nil
	case "wiener":
		return PolicyWiener, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Regularization configures spectral division.
type Regularization struct {
	// Policy selects the small-denominator treatment.
	Policy Policy

	// Epsilon is the magnitude threshold for PolicyThreshold and the
	// additive damping term for PolicyWiener.
	Epsilon float64
}

// RegularizationOption mutates a Regularization.
type RegularizationOption func(*Regularization)

// DefaultRegularization returns a hard threshold of 1e-6.
func DefaultRegularization() Regularization {
	return Regularization{
		Policy:  PolicyThreshold,
		Epsilon: 1e-6,
	}
}

// WithPolicy sets the regularization policy.
func WithPolicy(p Policy) RegularizationOption {
	return func(r *Regularization) {
		r.Policy = p
	}
}

// WithEpsilon sets the regularization constant.
func WithEpsilon(eps float64) RegularizationOption {
	return func(r *Regularization) {
		if eps > 0 {
			r.Epsilon = eps
		}
	}
}

// NewRegularization applies zero or more options to the defaults.
func NewRegularization(opts ...RegularizationOption) Regularization {
	r := DefaultRegularization()
	for _, opt := range opts {
		if opt != nil {
			opt(&r)
		}
	}
	return r
}

// Validate checks the policy and constant.
func (r Regularization) Validate() error {
	if r.Policy != PolicyThreshold && r.Policy != PolicyWiener {
		return fmt.Errorf("%w: %v", ErrUnknownPolicy, r.Policy)
	}
	if !(r.Epsilon > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidEpsilon, r.Epsilon)
	}
	return nil
}
