package motionplan

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/dualarm/referenceframe"
)

// DefaultJacobianStep is the finite difference step, in radians, used when none is configured.
const DefaultJacobianStep = 1e-3

// ResidualFunc evaluates a constraint function at a configuration.
type ResidualFunc func(x []referenceframe.Input) ([]float64, error)

// JacobianStrategy computes the rows x len(x) Jacobian of a residual function at x.
// Numerical strategies use f; an analytic strategy may ignore it and use the arm kinematics directly.
type JacobianStrategy interface {
	Jacobian(f ResidualFunc, x []referenceframe.Input, rows int) (*mat.Dense, error)
}

// CentralDifference approximates each column as (f(x+h*e_i) - f(x-h*e_i)) / 2h.
// This costs two residual evaluations per joint.
type CentralDifference struct {
	Step float64
}

// Jacobian implements JacobianStrategy.
func (cd CentralDifference) Jacobian(f ResidualFunc, x []referenceframe.Input, rows int) (*mat.Dense, error) {
	h, err := checkStep(cd.Step)
	if err != nil {
		return nil, err
	}
	jac := mat.NewDense(rows, len(x), nil)
	scratch := make([]referenceframe.Input, len(x))
	copy(scratch, x)
	for i := range x {
		scratch[i] = x[i] + h
		plus, err := f(scratch)
		if err != nil {
			return nil, err
		}
		scratch[i] = x[i] - h
		minus, err := f(scratch)
		if err != nil {
			return nil, err
		}
		scratch[i] = x[i]
		if len(plus) != rows || len(minus) != rows {
			return nil, errors.Errorf("residual has %d rows, expected %d", len(plus), rows)
		}
		for r := 0; r < rows; r++ {
			jac.Set(r, i, (plus[r]-minus[r])/(2*h))
		}
	}
	return jac, nil
}

// ForwardDifference approximates each column as (f(x+h*e_i) - f(x)) / h.
// It is cheaper and less accurate than CentralDifference, and mostly useful as a cross-check.
type ForwardDifference struct {
	Step float64
}

// Jacobian implements JacobianStrategy.
func (fd ForwardDifference) Jacobian(f ResidualFunc, x []referenceframe.Input, rows int) (*mat.Dense, error) {
	h, err := checkStep(fd.Step)
	if err != nil {
		return nil, err
	}
	base, err := f(x)
	if err != nil {
		return nil, err
	}
	if len(base) != rows {
		return nil, errors.Errorf("residual has %d rows, expected %d", len(base), rows)
	}
	jac := mat.NewDense(rows, len(x), nil)
	scratch := make([]referenceframe.Input, len(x))
	copy(scratch, x)
	for i := range x {
		scratch[i] = x[i] + h
		plus, err := f(scratch)
		if err != nil {
			return nil, err
		}
		scratch[i] = x[i]
		for r := 0; r < rows; r++ {
			jac.Set(r, i, (plus[r]-base[r])/h)
		}
	}
	return jac, nil
}

func checkStep(h float64) (float64, error) {
	if h == 0 {
		return DefaultJacobianStep, nil
	}
	if h < 0 {
		return 0, errors.Errorf("finite difference step must be positive, got %f", h)
	}
	return h, nil
}
