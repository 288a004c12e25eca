package referenceframe

import (
	"github.com/pkg/errors"

	"go.viam.com/dualarm/spatialmath"
)

// MountedModel is a kinematic model placed in the world by a fixed mount pose.
type MountedModel struct {
	Model Model
	Mount spatialmath.Pose
}

// RobotState holds the joint values of every mounted model of a robot and the world-frame link geometry derived
// from them. Geometry is recomputed lazily the first time it is requested after a joint value changes.
// A RobotState is scratch space: it is not safe for concurrent use, and each worker should own one.
type RobotState struct {
	models     []MountedModel
	offsets    []int
	names      []string
	jointIndex map[string]int
	positions  []Input

	dirty      bool
	geometries []spatialmath.Geometry
	updateErr  error
}

// NewRobotState creates a robot state over the given mounted models. jointNames names every joint of every model,
// in model order, and defines the order of SetVariablePositions. All joints start at zero.
func NewRobotState(models []MountedModel, jointNames []string) (*RobotState, error) {
	offsets := make([]int, 0, len(models)+1)
	total := 0
	for _, m := range models {
		if m.Model == nil {
			return nil, errors.New("mounted model cannot be nil")
		}
		offsets = append(offsets, total)
		total += len(m.Model.DoF())
	}
	offsets = append(offsets, total)
	if len(jointNames) != total {
		return nil, errors.Wrap(NewIncorrectDoFError(len(jointNames), total), "joint names")
	}

	jointIndex := make(map[string]int, total)
	for i, name := range jointNames {
		if _, ok := jointIndex[name]; ok {
			return nil, errors.Errorf("duplicate joint name %q", name)
		}
		jointIndex[name] = i
	}

	names := make([]string, total)
	copy(names, jointNames)
	models = append([]MountedModel(nil), models...)
	for i := range models {
		if models[i].Mount == nil {
			models[i].Mount = spatialmath.NewZeroPose()
		}
	}
	return &RobotState{
		models:     models,
		offsets:    offsets,
		names:      names,
		jointIndex: jointIndex,
		positions:  make([]Input, total),
		dirty:      true,
	}, nil
}

// VariableCount returns the total number of joints across all models.
func (rs *RobotState) VariableCount() int {
	return len(rs.positions)
}

// JointNames returns the ordered joint names.
func (rs *RobotState) JointNames() []string {
	names := make([]string, len(rs.names))
	copy(names, rs.names)
	return names
}

// SetJointPositions assigns values to the named joints. No joint is changed if any name is unknown.
func (rs *RobotState) SetJointPositions(names []string, values []Input) error {
	if len(names) != len(values) {
		return NewIncorrectDoFError(len(values), len(names))
	}
	for _, name := range names {
		if _, ok := rs.jointIndex[name]; !ok {
			return NewUnknownJointError(name)
		}
	}
	for i, name := range names {
		rs.positions[rs.jointIndex[name]] = values[i]
	}
	rs.dirty = true
	return nil
}

// SetVariablePositions assigns every joint at once, in joint name order.
func (rs *RobotState) SetVariablePositions(values []Input) error {
	if len(values) != len(rs.positions) {
		return NewIncorrectDoFError(len(values), len(rs.positions))
	}
	copy(rs.positions, values)
	rs.dirty = true
	return nil
}

// JointPositions returns a copy of the current joint values.
func (rs *RobotState) JointPositions() []Input {
	positions := make([]Input, len(rs.positions))
	copy(positions, rs.positions)
	return positions
}

// Update recomputes link geometry if any joint changed since the last update. Out-of-bounds joint values are not
// an error here; the geometry is computed wherever the joints put it.
func (rs *RobotState) Update() error {
	if !rs.dirty {
		return rs.updateErr
	}
	rs.geometries = rs.geometries[:0]
	rs.updateErr = nil
	for i, m := range rs.models {
		geometries, err := m.Model.Geometries(rs.positions[rs.offsets[i]:rs.offsets[i+1]])
		if err == nil || IsOOBError(err) {
			if geometries != nil {
				for _, g := range geometries {
					rs.geometries = append(rs.geometries, g.Transform(m.Mount))
				}
				continue
			}
			err = ErrNilGeometries
		}
		rs.updateErr = errors.Wrapf(err, "computing geometry of %s", m.Model.Name())
		rs.geometries = nil
		break
	}
	rs.dirty = false
	return rs.updateErr
}

// Geometries returns the world-frame link geometries for the current joint values, updating them if needed.
// The returned slice is owned by the RobotState and is only valid until the next joint change.
func (rs *RobotState) Geometries() ([]spatialmath.Geometry, error) {
	if err := rs.Update(); err != nil {
		return nil, err
	}
	return rs.geometries, nil
}

// EndEffectorPoses returns the world-frame pose of the end of each model for the current joint values.
func (rs *RobotState) EndEffectorPoses() ([]spatialmath.Pose, error) {
	poses := make([]spatialmath.Pose, 0, len(rs.models))
	for i, m := range rs.models {
		pose, err := m.Model.Transform(rs.positions[rs.offsets[i]:rs.offsets[i+1]])
		if err != nil && !IsOOBError(err) {
			return nil, errors.Wrapf(err, "computing end effector of %s", m.Model.Name())
		}
		if pose == nil {
			return nil, errors.Wrapf(ErrNilPose, "computing end effector of %s", m.Model.Name())
		}
		poses = append(poses, spatialmath.Compose(m.Mount, pose))
	}
	return poses, nil
}
