// Package config defines the on-disk configuration of the dual arm robot and turns it into the options used to
// build it.
package config

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/motionplan"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/robots/panda"
	"go.viam.com/dualarm/spatialmath"
)

// Jacobian strategies that can be configured.
const (
	JacobianCentral = "central"
	JacobianForward = "forward"
)

// Config describes the two arms, the closed-chain constraint and the self collision exceptions.
type Config struct {
	ConfigFilePath string `json:"-"`

	Left  ArmConfig `json:"left"`
	Right ArmConfig `json:"right"`

	// Start is the configuration that defines the closure, left arm first. Defaults to the home configuration.
	Start []float64 `json:"start,omitempty"`

	Constraint *ConstraintConfig `json:"constraint,omitempty"`

	// AllowedCollisions are added to the default allowed link pairs.
	AllowedCollisions []motionplan.LinkPair `json:"allowed_collisions,omitempty"`

	// JointLimits, in radians, replace the limits of the seven joints of both arms.
	JointLimits []LimitConfig `json:"joint_limits,omitempty"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel *logging.Level `json:"log_level,omitempty"`
}

// ArmConfig places one arm in the world.
type ArmConfig struct {
	// Name labels the arm's links; the default allowed collisions only apply to the default names.
	Name string `json:"name,omitempty"`
	// ModelFile is a kinematics JSON file replacing the built in arm model.
	ModelFile   string                         `json:"model_file,omitempty"`
	// Translation and Orientation place the arm base. The default mount is used when both are unset.
	Translation *spatialmath.TranslationConfig `json:"translation,omitempty"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
}

// ConstraintConfig overrides the closed-chain constraint defaults. Zero values keep the default.
type ConstraintConfig struct {
	Tolerance         float64  `json:"tolerance,omitempty"`
	JacobianStep      float64  `json:"jacobian_step,omitempty"`
	TranslationWeight *float64 `json:"translation_weight,omitempty"`
	RotationWeight    *float64 `json:"rotation_weight,omitempty"`
	Jacobian          string   `json:"jacobian,omitempty"`
}

// LimitConfig is a joint limit in radians.
type LimitConfig struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Ensure validates the whole config and reports every problem found.
func (c *Config) Ensure() error {
	var err error
	multierr.AppendInto(&err, c.Left.Validate("left"))
	multierr.AppendInto(&err, c.Right.Validate("right"))
	if name := c.Left.name(panda.LeftArm); name == c.Right.name(panda.RightArm) {
		multierr.AppendInto(&err, NewConfigValidationError("right.name", errors.Errorf("both arms are named %q", name)))
	}
	if c.Start != nil && len(c.Start) != 2*panda.DoF {
		multierr.AppendInto(&err, NewConfigValidationError("start", referenceframe.NewIncorrectDoFError(len(c.Start), 2*panda.DoF)))
	}
	for i, v := range c.Start {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			multierr.AppendInto(&err, NewConfigValidationError(fmt.Sprintf("start.%d", i), referenceframe.ErrNonFiniteInput))
		}
	}
	if c.Constraint != nil {
		multierr.AppendInto(&err, c.Constraint.Validate("constraint"))
	}
	for i, pair := range c.AllowedCollisions {
		path := fmt.Sprintf("allowed_collisions.%d", i)
		if pair.A == "" {
			multierr.AppendInto(&err, NewConfigValidationFieldRequiredError(path, "a"))
		}
		if pair.B == "" {
			multierr.AppendInto(&err, NewConfigValidationFieldRequiredError(path, "b"))
		}
	}
	if c.JointLimits != nil && len(c.JointLimits) != panda.DoF {
		multierr.AppendInto(&err,
			NewConfigValidationError("joint_limits", referenceframe.NewIncorrectDoFError(len(c.JointLimits), panda.DoF)))
	}
	for i, limit := range c.JointLimits {
		multierr.AppendInto(&err, limit.Validate(fmt.Sprintf("joint_limits.%d", i)))
	}
	return err
}

// Validate ensures all parts of the config are valid.
func (a *ArmConfig) Validate(path string) error {
	if _, err := a.Orientation.ParseConfig(); err != nil {
		return NewConfigValidationError(path+".orientation", err)
	}
	return nil
}

func (a *ArmConfig) name(def string) string {
	if a.Name == "" {
		return def
	}
	return a.Name
}

func (a *ArmConfig) mount() (spatialmath.Pose, error) {
	if a.Translation == nil && a.Orientation == nil {
		return nil, nil
	}
	orientation, err := a.Orientation.ParseConfig()
	if err != nil {
		return nil, err
	}
	return spatialmath.NewPose(a.Translation.ParseConfig(), orientation), nil
}

func (a *ArmConfig) model(def string) (referenceframe.Model, error) {
	if a.ModelFile != "" {
		return referenceframe.ParseModelJSONFile(a.ModelFile, a.name(def))
	}
	return panda.MakeModelFrame(a.name(def))
}

// Validate ensures all parts of the config are valid.
func (cc *ConstraintConfig) Validate(path string) error {
	var err error
	if cc.Tolerance < 0 {
		multierr.AppendInto(&err, NewConfigValidationError(path+".tolerance", errors.New("cannot be negative")))
	}
	if cc.JacobianStep < 0 {
		multierr.AppendInto(&err, NewConfigValidationError(path+".jacobian_step", errors.New("cannot be negative")))
	}
	if cc.TranslationWeight != nil && *cc.TranslationWeight < 0 {
		multierr.AppendInto(&err, NewConfigValidationError(path+".translation_weight", errors.New("cannot be negative")))
	}
	if cc.RotationWeight != nil && *cc.RotationWeight < 0 {
		multierr.AppendInto(&err, NewConfigValidationError(path+".rotation_weight", errors.New("cannot be negative")))
	}
	switch cc.Jacobian {
	case "", JacobianCentral, JacobianForward:
	default:
		multierr.AppendInto(&err, NewConfigValidationError(path+".jacobian", errors.Errorf("unknown strategy %q", cc.Jacobian)))
	}
	return err
}

// Options returns the constraint options with the configured overrides applied to the defaults.
func (cc *ConstraintConfig) Options() *motionplan.ClosedChainOptions {
	opts := motionplan.NewDefaultClosedChainOptions()
	if cc == nil {
		return opts
	}
	if cc.Tolerance > 0 {
		opts.Tolerance = cc.Tolerance
	}
	if cc.JacobianStep > 0 {
		opts.JacobianStep = cc.JacobianStep
	}
	if cc.TranslationWeight != nil {
		opts.TranslationWeight = *cc.TranslationWeight
	}
	if cc.RotationWeight != nil {
		opts.RotationWeight = *cc.RotationWeight
	}
	if cc.Jacobian == JacobianForward {
		opts.Jacobian = motionplan.ForwardDifference{Step: opts.JacobianStep}
	}
	return opts
}

// Validate ensures all parts of the config are valid.
func (l LimitConfig) Validate(path string) error {
	for _, v := range []float64{l.Min, l.Max} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewConfigValidationError(path, referenceframe.ErrNonFiniteInput)
		}
	}
	if l.Min == l.Max {
		return NewConfigValidationError(path, errors.Errorf("min and max are both %v", l.Min))
	}
	return nil
}

// StartConfiguration returns the configured start, or the home configuration if none is set.
func (c *Config) StartConfiguration() []referenceframe.Input {
	if len(c.Start) == 0 {
		return panda.HomeConfiguration()
	}
	return referenceframe.FloatsToInputs(c.Start)
}

// DualArmOptions loads the arm models and returns the options that build the configured robot.
func (c *Config) DualArmOptions() (*panda.DualArmOptions, error) {
	opts := &panda.DualArmOptions{
		Constraint:   c.Constraint.Options(),
		ExtraAllowed: c.AllowedCollisions,
	}
	var err error
	if opts.LeftModel, err = c.Left.model(panda.LeftArm); err != nil {
		return nil, errors.Wrap(err, "left arm model")
	}
	if opts.RightModel, err = c.Right.model(panda.RightArm); err != nil {
		return nil, errors.Wrap(err, "right arm model")
	}
	if opts.LeftMount, err = c.Left.mount(); err != nil {
		return nil, errors.Wrap(err, "left arm mount")
	}
	if opts.RightMount, err = c.Right.mount(); err != nil {
		return nil, errors.Wrap(err, "right arm mount")
	}
	for _, limit := range c.JointLimits {
		opts.Limits = append(opts.Limits, referenceframe.Limit{Min: limit.Min, Max: limit.Max})
	}
	return opts, nil
}
