package panda

import (
	"github.com/pkg/errors"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/motionplan"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/spatialmath"
)

// DualArmOptions changes how NewDualArm builds the robot. The zero value builds the default robot.
type DualArmOptions struct {
	// Models replace the embedded arm model. Each must have DoF joints.
	LeftModel, RightModel referenceframe.Model

	// Mounts default to DefaultLeftMount and DefaultRightMount.
	LeftMount, RightMount spatialmath.Pose

	// Limits replaces JointLimits for both arms.
	Limits []referenceframe.Limit

	Constraint *motionplan.ClosedChainOptions

	// ExtraAllowed is added to AllowedCollisions.
	ExtraAllowed []motionplan.LinkPair

	// Engine defaults to the geometric collision engine.
	Engine motionplan.CollisionEngine
}

// DualArm is everything one planning worker needs for the two arms. None of it may be shared between goroutines.
type DualArm struct {
	Space      *referenceframe.JointSpace
	State      *referenceframe.RobotState
	Constraint *motionplan.ClosedChainConstraint
	Validity   *motionplan.SelfCollisionValidity
}

// NewDualArm builds the joint space, robot state, closed-chain constraint and self collision checker of the two
// arms. The constraint holds the end effectors at the relative pose they have at start. A nil opts uses defaults.
func NewDualArm(start []referenceframe.Input, opts *DualArmOptions, logger logging.Logger) (*DualArm, error) {
	if opts == nil {
		opts = &DualArmOptions{}
	}
	left, err := armModel(opts.LeftModel, LeftArm)
	if err != nil {
		return nil, err
	}
	right, err := armModel(opts.RightModel, RightArm)
	if err != nil {
		return nil, err
	}
	leftMount, rightMount := opts.LeftMount, opts.RightMount
	if leftMount == nil {
		leftMount = DefaultLeftMount()
	}
	if rightMount == nil {
		rightMount = DefaultRightMount()
	}
	limits := opts.Limits
	if limits == nil {
		limits = JointLimits()
	}
	if len(limits) != DoF {
		return nil, errors.Wrap(referenceframe.NewIncorrectDoFError(len(limits), DoF), "joint limits")
	}

	names := JointNames()
	space, err := referenceframe.NewJointSpace(names, append(append([]referenceframe.Limit{}, limits...), limits...))
	if err != nil {
		return nil, err
	}
	state, err := referenceframe.NewRobotState(
		[]referenceframe.MountedModel{{Model: left, Mount: leftMount}, {Model: right, Mount: rightMount}},
		names,
	)
	if err != nil {
		return nil, err
	}

	constraint, err := motionplan.NewClosedChainConstraint(
		space.Dimension(),
		motionplan.ArmChain{Name: left.Name(), Kinematics: left, Mount: leftMount},
		motionplan.ArmChain{Name: right.Name(), Kinematics: right, Mount: rightMount},
		start,
		opts.Constraint,
		logger,
	)
	if err != nil {
		return nil, err
	}

	allowed := AllowedCollisions()
	if len(opts.ExtraAllowed) > 0 {
		allowed = allowed.Union(motionplan.NewAllowedCollisionSet(opts.ExtraAllowed...))
	}
	validity, err := motionplan.NewSelfCollisionValidity(state, names, allowed, opts.Engine, logger)
	if err != nil {
		return nil, err
	}
	return &DualArm{Space: space, State: state, Constraint: constraint, Validity: validity}, nil
}

// BenchmarkWorker returns the objects motionplan.RunBenchmark drives.
func (da *DualArm) BenchmarkWorker() *motionplan.BenchmarkWorker {
	return &motionplan.BenchmarkWorker{Constraint: da.Constraint, Validity: da.Validity, Space: da.Space}
}

func armModel(model referenceframe.Model, name string) (referenceframe.Model, error) {
	if model == nil {
		return MakeModelFrame(name)
	}
	if len(model.DoF()) != DoF {
		return nil, errors.Wrapf(referenceframe.NewIncorrectDoFError(len(model.DoF()), DoF), "%s model", name)
	}
	return model, nil
}
