package motionplan

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/spatialmath"
)

// KinematicsProvider computes the pose of an arm's end effector relative to the arm's base.
// Out-of-bounds inputs may be reported alongside a valid pose, as referenceframe frames do.
type KinematicsProvider interface {
	Transform([]referenceframe.Input) (spatialmath.Pose, error)
	DoF() []referenceframe.Limit
}

// ArmChain is one side of the closed chain: a named kinematics provider and the pose of its base in the world.
type ArmChain struct {
	Name       string
	Kinematics KinematicsProvider
	Mount      spatialmath.Pose
}

// ClosedChainConstraint keeps the relative pose between two end effectors equal to the one they had at construction.
// The configuration is the left arm's joints followed by the right arm's joints.
//
// The residual is a single value combining the translation error in meters with the rotation error in radians.
// The Jacobian is computed numerically by default, which costs two full forward kinematics evaluations per joint.
type ClosedChainConstraint struct {
	left, right ArmChain
	leftDoF     int
	rightDoF    int
	reference   spatialmath.Pose
	opts        ClosedChainOptions
	jacobian    JacobianStrategy
}

// NewClosedChainConstraint records the relative pose of the right end effector in the left end effector's frame at
// start, which must have ambientDim values. Nil options use NewDefaultClosedChainOptions.
func NewClosedChainConstraint(
	ambientDim int,
	left, right ArmChain,
	start []referenceframe.Input,
	opts *ClosedChainOptions,
	logger logging.Logger,
) (*ClosedChainConstraint, error) {
	if opts == nil {
		opts = NewDefaultClosedChainOptions()
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	for _, arm := range []*ArmChain{&left, &right} {
		if arm.Kinematics == nil {
			return nil, errors.Errorf("%s arm has no kinematics", arm.Name)
		}
		if arm.Mount == nil {
			arm.Mount = spatialmath.NewZeroPose()
		}
	}
	c := &ClosedChainConstraint{
		left:     left,
		right:    right,
		leftDoF:  len(left.Kinematics.DoF()),
		rightDoF: len(right.Kinematics.DoF()),
		opts:     *opts,
		jacobian: opts.jacobianStrategy(),
	}
	if c.leftDoF+c.rightDoF != ambientDim {
		return nil, errors.Errorf("arms have %d joints in total but ambient dimension is %d", c.leftDoF+c.rightDoF, ambientDim)
	}
	reference, err := c.closure(start)
	if err != nil {
		return nil, errors.Wrap(err, "cannot compute reference closure")
	}
	c.reference = reference
	if logger != nil {
		logger.Debugw("closed chain reference recorded",
			"translation", reference.Point(),
			"orientation", reference.Orientation().AxisAngles(),
			"tolerance", c.opts.Tolerance)
	}
	return c, nil
}

// AmbientDimension returns the total number of joints of both arms.
func (c *ClosedChainConstraint) AmbientDimension() int {
	return c.leftDoF + c.rightDoF
}

// CoDimension returns 1, the number of residual values.
func (c *ClosedChainConstraint) CoDimension() int {
	return 1
}

// Reference returns the relative pose of the right end effector in the left end effector's frame at construction.
func (c *ClosedChainConstraint) Reference() spatialmath.Pose {
	return c.reference
}

// Tolerance returns the residual below which the constraint is satisfied.
func (c *ClosedChainConstraint) Tolerance() float64 {
	return c.opts.Tolerance
}

// Function returns the one element residual at x.
func (c *ClosedChainConstraint) Function(x []referenceframe.Input) ([]float64, error) {
	r, err := c.Residual(x)
	if err != nil {
		return nil, err
	}
	return []float64{r}, nil
}

// Residual returns TranslationWeight*d + RotationWeight*r where d is the distance between the current and reference
// relative translations and r is the shortest arc angle between the current and reference relative rotations.
func (c *ClosedChainConstraint) Residual(x []referenceframe.Input) (float64, error) {
	current, err := c.closure(x)
	if err != nil {
		return 0, err
	}
	d := current.Point().Sub(c.reference.Point()).Norm()
	r := spatialmath.AngularDistance(current.Orientation(), c.reference.Orientation())
	return c.opts.TranslationWeight*d + c.opts.RotationWeight*r, nil
}

// Jacobian returns the 1 x AmbientDimension derivative of the residual at x.
func (c *ClosedChainConstraint) Jacobian(x []referenceframe.Input) (*mat.Dense, error) {
	if len(x) != c.AmbientDimension() {
		return nil, referenceframe.NewIncorrectDoFError(len(x), c.AmbientDimension())
	}
	return c.jacobian.Jacobian(c.Function, x, c.CoDimension())
}

// Distance returns the absolute residual at x.
func (c *ClosedChainConstraint) Distance(x []referenceframe.Input) (float64, error) {
	return ConstraintDistance(c, x)
}

// IsSatisfied returns true if the residual at x is within the configured tolerance.
func (c *ClosedChainConstraint) IsSatisfied(x []referenceframe.Input) (bool, error) {
	return ConstraintSatisfied(c, x, c.opts.Tolerance)
}

// closure returns inverse(leftMount*leftFK(xL)) * (rightMount*rightFK(xR)).
func (c *ClosedChainConstraint) closure(x []referenceframe.Input) (spatialmath.Pose, error) {
	parts, err := referenceframe.SplitInputs(x, c.leftDoF, c.rightDoF)
	if err != nil {
		return nil, err
	}
	leftEnd, err := endEffector(c.left, parts[0])
	if err != nil {
		return nil, err
	}
	rightEnd, err := endEffector(c.right, parts[1])
	if err != nil {
		return nil, err
	}
	return spatialmath.PoseBetween(leftEnd, rightEnd), nil
}

func endEffector(arm ArmChain, q []referenceframe.Input) (spatialmath.Pose, error) {
	pose, err := arm.Kinematics.Transform(q)
	// out of bounds inputs are the provider's business; only a missing pose or a real failure is fatal
	if pose == nil || (err != nil && !referenceframe.IsOOBError(err)) {
		return nil, NewKinematicsError(arm.Name, err)
	}
	return spatialmath.Compose(arm.Mount, pose), nil
}
