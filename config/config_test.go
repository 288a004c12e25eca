package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/test"

	"go.viam.com/dualarm/logging"
	"go.viam.com/dualarm/motionplan"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/robots/panda"
	"go.viam.com/dualarm/spatialmath"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRead(t *testing.T) {
	t.Setenv("DUAL_ARM_SPACING", "0.25")
	path := writeConfig(t, `{
		"left": {"translation": {"x": 0, "y": ${DUAL_ARM_SPACING}, "z": 0}},
		"right": {
			"translation": {"x": 0, "y": -${DUAL_ARM_SPACING}, "z": 0},
			"orientation": {"type": "euler_angles", "value": {"yaw": 0.1}}
		},
		"constraint": {"tolerance": 0.01, "rotation_weight": 0.5, "jacobian": "forward"},
		"allowed_collisions": [{"a": "panda_left:hand", "b": "panda_right:hand"}]
	}`)
	logger, logs := logging.NewObservedTestLogger(t)
	cfg, err := Read(path, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.ConfigFilePath, test.ShouldEqual, path)
	test.That(t, cfg.Left.Translation.ParseConfig(), test.ShouldResemble, r3.Vector{Y: 0.25})
	test.That(t, cfg.Right.Translation.ParseConfig(), test.ShouldResemble, r3.Vector{Y: -0.25})
	test.That(t, logs.FilterMessage("config read").Len(), test.ShouldEqual, 1)

	opts := cfg.Constraint.Options()
	test.That(t, opts.Tolerance, test.ShouldEqual, 0.01)
	test.That(t, opts.JacobianStep, test.ShouldEqual, motionplan.DefaultJacobianStep)
	test.That(t, opts.TranslationWeight, test.ShouldEqual, 1.)
	test.That(t, opts.RotationWeight, test.ShouldEqual, 0.5)
	_, ok := opts.Jacobian.(motionplan.ForwardDifference)
	test.That(t, ok, test.ShouldBeTrue)

	test.That(t, cfg.StartConfiguration(), test.ShouldResemble, panda.HomeConfiguration())

	armOpts, err := cfg.DualArmOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, armOpts.LeftModel.Name(), test.ShouldEqual, panda.LeftArm)
	test.That(t, armOpts.RightModel.Name(), test.ShouldEqual, panda.RightArm)
	test.That(t, armOpts.Limits, test.ShouldBeNil)
	test.That(t, len(armOpts.ExtraAllowed), test.ShouldEqual, 1)
	test.That(t, spatialmath.AngularDistance(armOpts.RightMount.Orientation(), spatialmath.NewZeroOrientation()),
		test.ShouldAlmostEqual, 0.1, 1e-9)

	arm, err := panda.NewDualArm(cfg.StartConfiguration(), armOpts, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, arm.Constraint.Tolerance(), test.ShouldEqual, 0.01)
	test.That(t, arm.Validity.AllowedCollisions().Allowed("panda_right:hand", "panda_left:hand"), test.ShouldBeTrue)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"), nil)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Read(writeConfig(t, `{"left": `), nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "failed to decode")

	_, err = Read(writeConfig(t, `{"lefty": {}}`), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestEnsureCollectsEveryError(t *testing.T) {
	_, err := FromReader("", strings.NewReader(`{
		"left": {"orientation": {"type": "bogus"}},
		"right": {"name": "panda_left"},
		"start": [0, 0, 0],
		"constraint": {"tolerance": -1, "jacobian": "analytic"},
		"allowed_collisions": [{"a": "panda_left:hand"}],
		"joint_limits": [{"min": 1, "max": 1}]
	}`), nil)
	test.That(t, err, test.ShouldNotBeNil)
	errs := multierr.Errors(err)
	test.That(t, len(errs), test.ShouldEqual, 8)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"left.orientation"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "both arms are named")
	test.That(t, err.Error(), test.ShouldContainSubstring, `"constraint.jacobian"`)
	test.That(t, err.Error(), test.ShouldContainSubstring, `"b" is required`)
	test.That(t, errors.Is(err, referenceframe.ErrIncorrectDoF), test.ShouldBeTrue)
}

func TestValidConfigs(t *testing.T) {
	var cfg Config
	test.That(t, cfg.Ensure(), test.ShouldBeNil)

	cfg.Start = make([]float64, 2*panda.DoF)
	cfg.JointLimits = make([]LimitConfig, panda.DoF)
	for i, limit := range panda.JointLimits() {
		cfg.JointLimits[i] = LimitConfig{Min: limit.Min, Max: limit.Max}
	}
	test.That(t, cfg.Ensure(), test.ShouldBeNil)
	opts, err := cfg.DualArmOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.Limits, test.ShouldResemble, panda.JointLimits())
	test.That(t, cfg.StartConfiguration(), test.ShouldResemble, make([]referenceframe.Input, 2*panda.DoF))
}

// sevenJointArm is a kinematics file for a straight arm of seven joints about z, 0.1m apart.
func sevenJointArm() string {
	var links, joints []string
	links = append(links, `{"id": "base", "parent": "world", "translation": {"x": 0, "y": 0, "z": 0}}`)
	parent := "base"
	for i := 1; i <= panda.DoF; i++ {
		joints = append(joints, fmt.Sprintf(
			`{"id": "j%d", "type": "revolute", "parent": %q, "axis": {"z": 1}, "min": -170, "max": 170}`, i, parent))
		parent = fmt.Sprintf("l%d", i)
		links = append(links, fmt.Sprintf(
			`{"id": %q, "parent": "j%d", "translation": {"x": 0, "y": 0, "z": 0.1}, "geometry": {"r": 0.02}}`, parent, i))
	}
	return fmt.Sprintf(`{"name": "straight", "links": [%s], "joints": [%s]}`,
		strings.Join(links, ","), strings.Join(joints, ","))
}

func TestModelFile(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "straight.json")
	test.That(t, os.WriteFile(modelPath, []byte(sevenJointArm()), 0o600), test.ShouldBeNil)

	cfg := &Config{
		Left:  ArmConfig{Name: "a", ModelFile: modelPath, Translation: &spatialmath.TranslationConfig{Y: 0.5}},
		Right: ArmConfig{Name: "b", ModelFile: modelPath, Translation: &spatialmath.TranslationConfig{Y: -0.5}},
		Start: make([]float64, 2*panda.DoF),
	}
	test.That(t, cfg.Ensure(), test.ShouldBeNil)
	opts, err := cfg.DualArmOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.LeftModel.Name(), test.ShouldEqual, "a")

	arm, err := panda.NewDualArm(cfg.StartConfiguration(), opts, nil)
	test.That(t, err, test.ShouldBeNil)
	valid, err := arm.Validity.IsValid(cfg.StartConfiguration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, valid, test.ShouldBeTrue)
	r, err := arm.Constraint.Function(cfg.StartConfiguration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, r[0], test.ShouldAlmostEqual, 0, 1e-9)

	cfg.Left.ModelFile = filepath.Join(t.TempDir(), "nope.json")
	_, err = cfg.DualArmOptions()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "left arm model")
}

func TestDefaultMounts(t *testing.T) {
	cfg, err := FromReader("", strings.NewReader(`{}`), nil)
	test.That(t, err, test.ShouldBeNil)
	opts, err := cfg.DualArmOptions()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.LeftMount, test.ShouldBeNil)
	test.That(t, opts.RightMount, test.ShouldBeNil)

	arm, err := panda.NewDualArm(cfg.StartConfiguration(), opts, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	valid, err := arm.Validity.IsValid(panda.HomeConfiguration())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, valid, test.ShouldBeTrue)
}

func TestLogLevel(t *testing.T) {
	cfg, err := FromReader("", strings.NewReader(`{"log_level": "warn"}`), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, *cfg.LogLevel, test.ShouldEqual, logging.WARN)

	cfg, err = FromReader("", strings.NewReader(`{}`), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.LogLevel, test.ShouldBeNil)

	_, err = FromReader("", strings.NewReader(`{"log_level": "loud"}`), nil)
	test.That(t, err, test.ShouldNotBeNil)
}
