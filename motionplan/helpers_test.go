package motionplan

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/spatialmath"
)

// makeLineArm returns a planar arm with one joint about z and one unit link along x. The base carries a sphere of
// radius 0.1 and the tip of the link a sphere of radius 0.2.
func makeLineArm(t *testing.T, name string) referenceframe.Model {
	t.Helper()
	baseSphere, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.1, "")
	test.That(t, err, test.ShouldBeNil)
	base, err := referenceframe.NewStaticFrameWithGeometry("base", spatialmath.NewZeroPose(), baseSphere)
	test.That(t, err, test.ShouldBeNil)
	joint, err := referenceframe.NewRotationalFrame("j1", spatialmath.R4AA{RZ: 1}, referenceframe.Limit{Min: -math.Pi, Max: math.Pi})
	test.That(t, err, test.ShouldBeNil)
	tipSphere, err := spatialmath.NewSphere(spatialmath.NewZeroPose(), 0.2, "")
	test.That(t, err, test.ShouldBeNil)
	link, err := referenceframe.NewStaticFrameWithGeometry("link1", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}), tipSphere)
	test.That(t, err, test.ShouldBeNil)
	return referenceframe.NewSerialModel(name, base, joint, link)
}

// makeTwoLinkArm returns a planar arm with two joints about z and two unit links along x.
func makeTwoLinkArm(t *testing.T, name string) referenceframe.Model {
	t.Helper()
	limit := referenceframe.Limit{Min: -math.Pi, Max: math.Pi}
	j1, err := referenceframe.NewRotationalFrame("j1", spatialmath.R4AA{RZ: 1}, limit)
	test.That(t, err, test.ShouldBeNil)
	l1, err := referenceframe.NewStaticFrame("link1", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, err, test.ShouldBeNil)
	j2, err := referenceframe.NewRotationalFrame("j2", spatialmath.R4AA{RZ: 1}, limit)
	test.That(t, err, test.ShouldBeNil)
	l2, err := referenceframe.NewStaticFrame("link2", spatialmath.NewPoseFromPoint(r3.Vector{X: 1}))
	test.That(t, err, test.ShouldBeNil)
	return referenceframe.NewSerialModel(name, j1, l1, j2, l2)
}

// makeLineArmPair mounts two line arms one meter apart along y, facing +x.
func makeLineArmPair(t *testing.T) (*referenceframe.RobotState, []string) {
	t.Helper()
	names := []string{"left_j1", "right_j1"}
	rs, err := referenceframe.NewRobotState(
		[]referenceframe.MountedModel{
			{Model: makeLineArm(t, "left"), Mount: spatialmath.NewPoseFromPoint(r3.Vector{Y: 0.5})},
			{Model: makeLineArm(t, "right"), Mount: spatialmath.NewPoseFromPoint(r3.Vector{Y: -0.5})},
		},
		names,
	)
	test.That(t, err, test.ShouldBeNil)
	return rs, names
}
