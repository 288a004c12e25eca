package referenceframe

import (
	"go.uber.org/multierr"

	"go.viam.com/dualarm/spatialmath"
)

// A Model represents a frame that can change its name.
type Model interface {
	Frame
	ChangeName(name string)
}

// SimpleModel is a serial kinematic chain.
// Generally speaking, a Joint will attach a Body to a Frame
// And a Fixed will attach a Frame to a Body
// Exceptions are the head of the tree where we are just starting the robot from World.
type SimpleModel struct {
	name string // the name of the arm
	// OrdTransforms is the list of transforms ordered from base to end effector
	OrdTransforms []Frame
	limits        []Limit
}

// NewSimpleModel constructs a new model.
func NewSimpleModel(name string) *SimpleModel {
	return &SimpleModel{name: name}
}

// NewSerialModel builds a SimpleModel from frames ordered from base to end effector.
func NewSerialModel(name string, frames ...Frame) *SimpleModel {
	m := NewSimpleModel(name)
	m.setOrdTransforms(frames)
	return m
}

func (m *SimpleModel) setOrdTransforms(ot []Frame) {
	m.OrdTransforms = ot
	limits := make([]Limit, 0, len(ot))
	for _, transform := range ot {
		limits = append(limits, transform.DoF()...)
	}
	m.limits = limits
}

// Name returns the name of this model.
func (m *SimpleModel) Name() string {
	return m.name
}

// ChangeName changes the name of this model - necessary for building a multi-arm robot state.
func (m *SimpleModel) ChangeName(name string) {
	m.name = name
}

// Transform takes a model and a list of joint angles in radians and computes the dual quaternion representing the
// cartesian position of the end effector. Out-of-bounds inputs still produce a pose alongside an OOB error.
func (m *SimpleModel) Transform(inputs []Input) (spatialmath.Pose, error) {
	frames, err := m.inputsToFrames(inputs, false)
	if err != nil && frames == nil {
		return nil, err
	}
	return frames[0].transform, err
}

// Geometries returns the link geometries of the model positioned for the given inputs, labeled "<model>:<link>".
func (m *SimpleModel) Geometries(inputs []Input) ([]spatialmath.Geometry, error) {
	frames, err := m.inputsToFrames(inputs, true)
	if err != nil && frames == nil {
		return nil, err
	}
	geometries := make([]spatialmath.Geometry, 0, len(frames))
	for _, frame := range frames {
		if frame.geometry == nil {
			continue
		}
		g := frame.geometry.Transform(frame.transform)
		g.SetLabel(m.name + ":" + frame.name)
		geometries = append(geometries, g)
	}
	return geometries, err
}

// inputsToFrames takes a model and a list of joint angles in radians and computes the dual quaternion representing the
// cartesian position of each of the links up to and including the end effector.
func (m *SimpleModel) inputsToFrames(inputs []Input, collectAll bool) ([]*staticFrame, error) {
	if len(inputs) != len(m.limits) {
		return nil, NewIncorrectDoFError(len(inputs), len(m.limits))
	}
	var err error
	poses := make([]*staticFrame, 0, len(m.OrdTransforms))
	// Start at ((1+0i+0j+0k)+(+0+0i+0j+0k)ϵ)
	composedTransformation := spatialmath.NewZeroPose()
	posIdx := 0
	// get quaternions from the base outwards.
	for _, transform := range m.OrdTransforms {
		dof := len(transform.DoF()) + posIdx
		input := inputs[posIdx:dof]
		posIdx = dof

		pose, errNew := transform.Transform(input)
		// Fail if inputs are incorrect and pose is nil, but allow querying out-of-bounds positions
		if pose == nil || (errNew != nil && !IsOOBError(errNew)) {
			return nil, errNew
		}
		multierr.AppendInto(&err, errNew)
		composedTransformation = spatialmath.Compose(composedTransformation, pose)
		if collectAll {
			poses = append(poses, &staticFrame{transform.Name(), composedTransformation, frameGeometry(transform)})
		}
	}
	if !collectAll {
		poses = append(poses, &staticFrame{"", composedTransformation, nil})
	}
	return poses, err
}

// frameGeometry returns the geometry a frame carries in its own coordinates, if any.
// Translational frame geometry is attached after the translation, like link geometry.
func frameGeometry(f Frame) spatialmath.Geometry {
	switch frame := f.(type) {
	case *staticFrame:
		return frame.geometry
	case *translationalFrame:
		return frame.geometry
	default:
		return nil
	}
}

// DoF returns the number of degrees of freedom within an arm.
func (m *SimpleModel) DoF() []Limit {
	return m.limits
}
