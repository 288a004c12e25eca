package motionplan

import (
	"github.com/pkg/errors"
)

// Defaults for the closed-chain constraint.
const (
	defaultTolerance         = 1e-3
	defaultTranslationWeight = 1.
	defaultRotationWeight    = 1.
)

// ClosedChainOptions configures a ClosedChainConstraint.
type ClosedChainOptions struct {
	// Tolerance is the largest residual at which a configuration is considered to satisfy the constraint.
	Tolerance float64 `json:"tolerance"`

	// JacobianStep is the finite difference step used by the default Jacobian strategy.
	JacobianStep float64 `json:"jacobian_step"`

	// The residual is TranslationWeight*d + RotationWeight*r, d in meters and r in radians.
	TranslationWeight float64 `json:"translation_weight"`
	RotationWeight    float64 `json:"rotation_weight"`

	// Jacobian overrides the Jacobian strategy. Defaults to CentralDifference with JacobianStep.
	Jacobian JacobianStrategy `json:"-"`
}

// NewDefaultClosedChainOptions returns options which sum the translational and rotational errors unweighted and
// differentiate by central differences.
func NewDefaultClosedChainOptions() *ClosedChainOptions {
	return &ClosedChainOptions{
		Tolerance:         defaultTolerance,
		JacobianStep:      DefaultJacobianStep,
		TranslationWeight: defaultTranslationWeight,
		RotationWeight:    defaultRotationWeight,
	}
}

func (o *ClosedChainOptions) validate() error {
	switch {
	case o.Tolerance <= 0:
		return errors.Errorf("tolerance must be positive, got %f", o.Tolerance)
	case o.JacobianStep <= 0:
		return errors.Errorf("jacobian step must be positive, got %f", o.JacobianStep)
	case o.TranslationWeight < 0 || o.RotationWeight < 0:
		return errors.New("residual weights cannot be negative")
	case o.TranslationWeight == 0 && o.RotationWeight == 0:
		return errors.New("at least one residual weight must be nonzero")
	}
	return nil
}

func (o *ClosedChainOptions) jacobianStrategy() JacobianStrategy {
	if o.Jacobian != nil {
		return o.Jacobian
	}
	return CentralDifference{Step: o.JacobianStep}
}
