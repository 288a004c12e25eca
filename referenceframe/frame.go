// Package referenceframe defines the kinematic chains of the arms, the joint space they move in,
// and the robot state that turns joint values into positioned link geometry.
package referenceframe

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/dualarm/spatialmath"
)

// OOBErrString is a string that all OOB errors should contain, so that they can be checked for distinct from other Transform errors.
const OOBErrString = "input out of bounds"

// World is the name of the root frame. Links and joints may not use it.
const World = "world"

// Limit represents the limits of motion for a referenceframe.
type Limit struct {
	Min float64
	Max float64
}

// RandomFrameInputs will produce a list of valid, in-bounds inputs for the frame.
func RandomFrameInputs(m Frame, rSeed *rand.Rand) []Input {
	if rSeed == nil {
		//nolint:gosec
		rSeed = rand.New(rand.NewSource(1))
	}
	dof := m.DoF()
	pos := make([]Input, 0, len(dof))
	for _, lim := range dof {
		l, u := lim.Min, lim.Max

		// Default to [-999,999] as range if limits are infinite
		if l == math.Inf(-1) {
			l = -999
		}
		if u == math.Inf(1) {
			u = 999
		}

		jRange := math.Abs(u - l)
		pos = append(pos, rSeed.Float64()*jRange+math.Min(l, u))
	}
	return pos
}

// IsOOBError returns true if err is non-nil and every error it aggregates is an out-of-bounds error.
// Such errors are informational: the accompanying pose is still valid.
func IsOOBError(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range multierr.Errors(err) {
		if !strings.Contains(e.Error(), OOBErrString) {
			return false
		}
	}
	return true
}

// Frame represents a reference frame, e.g. an arm, a joint, a link.
type Frame interface {
	// Name returns the name of the referenceframe.
	Name() string

	// Transform is the pose (rotation and translation) that goes FROM current frame TO parent's referenceframe.
	Transform([]Input) (spatialmath.Pose, error)

	// Geometries returns the geometries of the frame and any intermediate frames, positioned for the given inputs
	// and expressed in the frame's parent. Frames without geometry return an empty slice.
	Geometries([]Input) ([]spatialmath.Geometry, error)

	// DoF will return a slice with length equal to the number of joints/degrees of freedom.
	// Each element describes the min and max movement limit of that joint/degree of freedom.
	// For robot parts that don't move, it returns an empty slice.
	DoF() []Limit
}

// a static Frame is a simple corrdinate system that encodes a fixed translation and rotation
// from the current Frame to the parent referenceframe.
type staticFrame struct {
	name      string
	transform spatialmath.Pose
	geometry  spatialmath.Geometry
}

// NewStaticFrame creates a frame given a pose relative to its parent. The pose is fixed for all time.
// Pose is not allowed to be nil.
func NewStaticFrame(name string, pose spatialmath.Pose) (Frame, error) {
	return NewStaticFrameWithGeometry(name, pose, nil)
}

// NewZeroStaticFrame creates a frame with no translation or orientation changes.
func NewZeroStaticFrame(name string) Frame {
	return &staticFrame{name, spatialmath.NewZeroPose(), nil}
}

// NewStaticFrameWithGeometry creates a frame given a pose relative to its parent. The pose is fixed for all time.
// It also has an associated geometry, expressed in the frame itself, representing the space that it occupies.
// Pose is not allowed to be nil.
func NewStaticFrameWithGeometry(name string, pose spatialmath.Pose, geometry spatialmath.Geometry) (Frame, error) {
	if pose == nil {
		return nil, errors.New("pose is not allowed to be nil")
	}
	return &staticFrame{name, pose, geometry}, nil
}

// Name is the name of the referenceframe.
func (sf *staticFrame) Name() string {
	return sf.name
}

// Transform returns the pose associated with this static referenceframe.
func (sf *staticFrame) Transform(input []Input) (spatialmath.Pose, error) {
	if len(input) != 0 {
		return nil, NewIncorrectDoFError(len(input), 0)
	}
	return sf.transform, nil
}

// Geometries returns the geometry of the staticFrame positioned by its transform.
func (sf *staticFrame) Geometries(input []Input) ([]spatialmath.Geometry, error) {
	pose, err := sf.Transform(input)
	if err != nil {
		return nil, err
	}
	if sf.geometry == nil {
		return []spatialmath.Geometry{}, nil
	}
	g := sf.geometry.Transform(pose)
	g.SetLabel(sf.name)
	return []spatialmath.Geometry{g}, nil
}

// DoF are the degrees of freedom of the transform. In the staticFrame, it is always 0.
func (sf *staticFrame) DoF() []Limit {
	return []Limit{}
}

// a prismatic Frame is a frame that can translate without rotation in any/all of the X, Y, and Z directions.
type translationalFrame struct {
	name      string
	transAxis r3.Vector
	limit     []Limit
	geometry  spatialmath.Geometry
}

// NewTranslationalFrame creates a frame given a name and the axis in which to translate.
func NewTranslationalFrame(name string, axis r3.Vector, limit Limit) (Frame, error) {
	return NewTranslationalFrameWithGeometry(name, axis, limit, nil)
}

// NewTranslationalFrameWithGeometry creates a frame given a name and the axis in which to translate.
// It also has an associated geometry representing the space that it occupies in 3D space.
func NewTranslationalFrameWithGeometry(name string, axis r3.Vector, limit Limit, geometry spatialmath.Geometry) (Frame, error) {
	if spatialmath.R3VectorAlmostEqual(r3.Vector{}, axis, 1e-8) {
		return nil, errors.New("cannot use zero vector as translation axis")
	}
	return &translationalFrame{name: name, transAxis: axis.Normalize(), limit: []Limit{limit}, geometry: geometry}, nil
}

// Name is the name of the frame.
func (pf *translationalFrame) Name() string {
	return pf.name
}

// Transform returns a pose translated by the amount specified in the inputs.
func (pf *translationalFrame) Transform(input []Input) (spatialmath.Pose, error) {
	var err error
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}

	// We allow out-of-bounds calculations, but will return a non-nil error
	if input[0] < pf.limit[0].Min || input[0] > pf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %v", input[0], OOBErrString, pf.limit[0])
	}
	return spatialmath.NewPoseFromPoint(pf.transAxis.Mul(input[0])), err
}

// Geometries returns the geometry of the translationalFrame moved along its axis.
func (pf *translationalFrame) Geometries(input []Input) ([]spatialmath.Geometry, error) {
	pose, err := pf.Transform(input)
	if pose == nil || (err != nil && !IsOOBError(err)) {
		return nil, err
	}
	if pf.geometry == nil {
		return []spatialmath.Geometry{}, err
	}
	g := pf.geometry.Transform(pose)
	g.SetLabel(pf.name)
	return []spatialmath.Geometry{g}, err
}

// DoF are the degrees of freedom of the transform.
func (pf *translationalFrame) DoF() []Limit {
	return pf.limit
}

type rotationalFrame struct {
	name    string
	rotAxis r3.Vector
	limit   []Limit
}

// NewRotationalFrame creates a new rotationalFrame struct.
// A standard revolute joint will have 1 DoF.
func NewRotationalFrame(name string, axis spatialmath.R4AA, limit Limit) (Frame, error) {
	axis.Normalize()
	return &rotationalFrame{
		name:    name,
		rotAxis: r3.Vector{X: axis.RX, Y: axis.RY, Z: axis.RZ},
		limit:   []Limit{limit},
	}, nil
}

// Transform returns the Pose representing the frame's 6DoF motion in space. Requires a slice
// of inputs that has length equal to the degrees of freedom of the referenceframe.
func (rf *rotationalFrame) Transform(input []Input) (spatialmath.Pose, error) {
	var err error
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}
	// We allow out-of-bounds calculations, but will return a non-nil error
	if input[0] < rf.limit[0].Min || input[0] > rf.limit[0].Max {
		err = fmt.Errorf("%.5f %s %v", input[0], OOBErrString, rf.limit[0])
	}
	// Create a copy of the r4aa for thread safety
	return spatialmath.NewPoseFromOrientation(&spatialmath.R4AA{Theta: input[0], RX: rf.rotAxis.X, RY: rf.rotAxis.Y, RZ: rf.rotAxis.Z}), err
}

// Geometries always returns an empty slice for rotationalFrames; links carry geometry instead.
func (rf *rotationalFrame) Geometries(input []Input) ([]spatialmath.Geometry, error) {
	if len(input) != 1 {
		return nil, NewIncorrectDoFError(len(input), 1)
	}
	return []spatialmath.Geometry{}, nil
}

// DoF returns the number of degrees of freedom that a joint has. This would be 1 for a standard revolute joint.
func (rf *rotationalFrame) DoF() []Limit {
	return rf.limit
}

// Name returns the name of the referenceframe.
func (rf *rotationalFrame) Name() string {
	return rf.name
}
