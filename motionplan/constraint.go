// Package motionplan contains the constraint and validity primitives consumed by sampling based planners of a
// closed-chain dual arm robot.
package motionplan

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/dualarm/referenceframe"
)

// Constraint is an implicit equality constraint F(x) = 0 over an ambient joint space.
// Function returns CoDimension values and Jacobian returns a CoDimension x AmbientDimension matrix.
// Implementations must be deterministic and free of side effects so that a planner can call them freely.
type Constraint interface {
	AmbientDimension() int
	CoDimension() int
	Function(x []referenceframe.Input) ([]float64, error)
	Jacobian(x []referenceframe.Input) (*mat.Dense, error)
}

// ConstraintDistance returns the euclidean norm of the constraint function at x.
func ConstraintDistance(c Constraint, x []referenceframe.Input) (float64, error) {
	out, err := c.Function(x)
	if err != nil {
		return 0, err
	}
	return floats.Norm(out, 2), nil
}

// ConstraintSatisfied returns true if the constraint function at x has a norm no greater than tolerance.
func ConstraintSatisfied(c Constraint, x []referenceframe.Input, tolerance float64) (bool, error) {
	dist, err := ConstraintDistance(c, x)
	if err != nil {
		return false, err
	}
	return dist <= tolerance, nil
}
