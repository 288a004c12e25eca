// Package panda describes a pair of 7 DoF Panda arms mounted side by side, and assembles the closed-chain constraint
// and self collision checker for them.
package panda

import (
	_ "embed" // for embedding model file
	"fmt"

	"github.com/golang/geo/r3"

	"go.viam.com/dualarm/motionplan"
	"go.viam.com/dualarm/referenceframe"
	"go.viam.com/dualarm/spatialmath"
)

// Names of the two arm models. Link geometries are labeled "<model>:<link>".
const (
	LeftArm  = "panda_left"
	RightArm = "panda_right"
)

// DoF is the number of joints of one arm.
const DoF = 7

//go:embed panda_kinematics.json
var pandamodeljson []byte

// MakeModelFrame returns the kinematics model of one panda arm, with capsule link geometry.
func MakeModelFrame(name string) (referenceframe.Model, error) {
	return referenceframe.UnmarshalModelJSON(pandamodeljson, name)
}

// JointLimits returns the mechanical limits of the seven joints of one arm, in radians.
func JointLimits() []referenceframe.Limit {
	return []referenceframe.Limit{
		{Min: -2.8973, Max: 2.8973},
		{Min: -1.7628, Max: 1.7628},
		{Min: -2.8973, Max: 2.8973},
		{Min: -3.0718, Max: -0.0698},
		{Min: -2.8973, Max: 2.8973},
		{Min: -0.0175, Max: 3.7525},
		{Min: -2.8973, Max: 2.8973},
	}
}

// JointNames returns the names of the fourteen joints, the left arm's first.
func JointNames() []string {
	names := make([]string, 0, 2*DoF)
	for _, arm := range []string{"left", "right"} {
		for i := 1; i <= DoF; i++ {
			names = append(names, fmt.Sprintf("panda_%s_joint%d", arm, i))
		}
	}
	return names
}

// HomeConfiguration returns the ready pose of both arms.
func HomeConfiguration() []referenceframe.Input {
	arm := []referenceframe.Input{0, -0.785, 0, -2.356, 0, 1.571, 0.785}
	return append(append([]referenceframe.Input{}, arm...), arm...)
}

// DefaultLeftMount returns the pose of the left arm's base in the world.
func DefaultLeftMount() spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{Y: 0.2})
}

// DefaultRightMount returns the pose of the right arm's base in the world.
func DefaultRightMount() spatialmath.Pose {
	return spatialmath.NewPoseFromPoint(r3.Vector{Y: -0.2})
}

// AllowedCollisions returns the link pairs that may touch: neighbors along each arm, and links of the two arms that
// are close to one another around the shoulders.
func AllowedCollisions() *motionplan.AllowedCollisionSet {
	return motionplan.NewAllowedCollisionSet(allowedPairs...)
}

var allowedPairs = []motionplan.LinkPair{
	{A: "panda_left:hand", B: "panda_left:link3"},
	{A: "panda_left:hand", B: "panda_left:link4"},
	{A: "panda_left:hand", B: "panda_left:link5"},
	{A: "panda_left:hand", B: "panda_left:link6"},
	{A: "panda_left:hand", B: "panda_left:link7"},
	{A: "panda_left:hand", B: "panda_right:link0"},
	{A: "panda_left:link0", B: "panda_left:link1"},
	{A: "panda_left:link0", B: "panda_left:link2"},
	{A: "panda_left:link0", B: "panda_left:link3"},
	{A: "panda_left:link0", B: "panda_left:link4"},
	{A: "panda_left:link0", B: "panda_right:hand"},
	{A: "panda_left:link0", B: "panda_right:link0"},
	{A: "panda_left:link0", B: "panda_right:link1"},
	{A: "panda_left:link0", B: "panda_right:link2"},
	{A: "panda_left:link0", B: "panda_right:link3"},
	{A: "panda_left:link0", B: "panda_right:link4"},
	{A: "panda_left:link0", B: "panda_right:link5"},
	{A: "panda_left:link0", B: "panda_right:link6"},
	{A: "panda_left:link0", B: "panda_right:link7"},
	{A: "panda_left:link1", B: "panda_left:link2"},
	{A: "panda_left:link1", B: "panda_left:link3"},
	{A: "panda_left:link1", B: "panda_left:link4"},
	{A: "panda_left:link1", B: "panda_right:link0"},
	{A: "panda_left:link1", B: "panda_right:link1"},
	{A: "panda_left:link1", B: "panda_right:link2"},
	{A: "panda_left:link1", B: "panda_right:link3"},
	{A: "panda_left:link1", B: "panda_right:link4"},
	{A: "panda_left:link1", B: "panda_right:link5"},
	{A: "panda_left:link1", B: "panda_right:link6"},
	{A: "panda_left:link1", B: "panda_right:link7"},
	{A: "panda_left:link2", B: "panda_left:link3"},
	{A: "panda_left:link2", B: "panda_left:link4"},
	{A: "panda_left:link2", B: "panda_right:link0"},
	{A: "panda_left:link2", B: "panda_right:link1"},
	{A: "panda_left:link2", B: "panda_right:link2"},
	{A: "panda_left:link2", B: "panda_right:link3"},
	{A: "panda_left:link2", B: "panda_right:link4"},
	{A: "panda_left:link2", B: "panda_right:link5"},
	{A: "panda_left:link3", B: "panda_left:link4"},
	{A: "panda_left:link3", B: "panda_left:link5"},
	{A: "panda_left:link3", B: "panda_left:link6"},
	{A: "panda_left:link3", B: "panda_left:link7"},
	{A: "panda_left:link3", B: "panda_right:link0"},
	{A: "panda_left:link3", B: "panda_right:link1"},
	{A: "panda_left:link3", B: "panda_right:link2"},
	{A: "panda_left:link3", B: "panda_right:link3"},
	{A: "panda_left:link3", B: "panda_right:link4"},
	{A: "panda_left:link4", B: "panda_left:link5"},
	{A: "panda_left:link4", B: "panda_left:link6"},
	{A: "panda_left:link4", B: "panda_left:link7"},
	{A: "panda_left:link4", B: "panda_right:link0"},
	{A: "panda_left:link4", B: "panda_right:link1"},
	{A: "panda_left:link4", B: "panda_right:link2"},
	{A: "panda_left:link4", B: "panda_right:link3"},
	{A: "panda_left:link4", B: "panda_right:link4"},
	{A: "panda_left:link5", B: "panda_left:link6"},
	{A: "panda_left:link5", B: "panda_left:link7"},
	{A: "panda_left:link5", B: "panda_right:link0"},
	{A: "panda_left:link5", B: "panda_right:link1"},
	{A: "panda_left:link5", B: "panda_right:link2"},
	{A: "panda_left:link6", B: "panda_left:link7"},
	{A: "panda_left:link6", B: "panda_right:link0"},
	{A: "panda_left:link6", B: "panda_right:link1"},
	{A: "panda_left:link7", B: "panda_right:link0"},
	{A: "panda_left:link7", B: "panda_right:link1"},
	{A: "panda_right:hand", B: "panda_right:link3"},
	{A: "panda_right:hand", B: "panda_right:link4"},
	{A: "panda_right:hand", B: "panda_right:link5"},
	{A: "panda_right:hand", B: "panda_right:link6"},
	{A: "panda_right:hand", B: "panda_right:link7"},
	{A: "panda_right:link0", B: "panda_right:link1"},
	{A: "panda_right:link0", B: "panda_right:link2"},
	{A: "panda_right:link0", B: "panda_right:link3"},
	{A: "panda_right:link0", B: "panda_right:link4"},
	{A: "panda_right:link1", B: "panda_right:link2"},
	{A: "panda_right:link1", B: "panda_right:link3"},
	{A: "panda_right:link1", B: "panda_right:link4"},
	{A: "panda_right:link2", B: "panda_right:link3"},
	{A: "panda_right:link2", B: "panda_right:link4"},
	{A: "panda_right:link3", B: "panda_right:link4"},
	{A: "panda_right:link3", B: "panda_right:link5"},
	{A: "panda_right:link3", B: "panda_right:link6"},
	{A: "panda_right:link3", B: "panda_right:link7"},
	{A: "panda_right:link4", B: "panda_right:link5"},
	{A: "panda_right:link4", B: "panda_right:link6"},
	{A: "panda_right:link4", B: "panda_right:link7"},
	{A: "panda_right:link5", B: "panda_right:link6"},
	{A: "panda_right:link5", B: "panda_right:link7"},
	{A: "panda_right:link6", B: "panda_right:link7"},
}
