package referenceframe

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/dualarm/spatialmath"
	"go.viam.com/dualarm/utils"
)

// Joint types understood by the kinematics parser.
const (
	RevoluteJoint  = "revolute"
	PrismaticJoint = "prismatic"
)

// ModelConfigJSON represents all supported fields in a kinematics JSON file.
type ModelConfigJSON struct {
	Name         string        `json:"name"`
	KinParamType string        `json:"kinematic_param_type,omitempty"`
	Links        []LinkConfig  `json:"links,omitempty"`
	Joints       []JointConfig `json:"joints,omitempty"`
}

// LinkConfig is a static frame with a specified parent. Geometry is expressed in the link's own frame,
// i.e. after its translation and orientation are applied.
type LinkConfig struct {
	ID          string                         `json:"id"`
	Translation spatialmath.TranslationConfig  `json:"translation"`
	Orientation *spatialmath.OrientationConfig `json:"orientation,omitempty"`
	Geometry    *spatialmath.GeometryConfig    `json:"geometry,omitempty"`
	Parent      string                         `json:"parent"`
}

// JointConfig is a frame with nonzero DOF. Supports revolute or prismatic joints. Limits are in degrees for
// revolute joints and meters for prismatic joints.
type JointConfig struct {
	ID       string                      `json:"id"`
	Type     string                      `json:"type"`
	Parent   string                      `json:"parent"`
	Axis     spatialmath.AxisConfig      `json:"axis"`
	Max      float64                     `json:"max"`
	Min      float64                     `json:"min"`
	Geometry *spatialmath.GeometryConfig `json:"geometry,omitempty"` // only valid for prismatic joints
}

// ToStaticFrame converts a LinkConfig into a staticFrame with a new name.
func (cfg *LinkConfig) ToStaticFrame(name string) (Frame, error) {
	if name == "" {
		name = cfg.ID
	}
	orientation, err := cfg.Orientation.ParseConfig()
	if err != nil {
		return nil, err
	}
	pose := spatialmath.NewPose(cfg.Translation.ParseConfig(), orientation)
	if cfg.Geometry == nil {
		return NewStaticFrame(name, pose)
	}
	geometry, err := cfg.Geometry.ParseConfig()
	if err != nil {
		return nil, errors.Wrapf(err, "link %q", name)
	}
	return NewStaticFrameWithGeometry(name, pose, geometry)
}

// ToFrame converts a JointConfig into a joint frame.
func (cfg *JointConfig) ToFrame() (Frame, error) {
	switch cfg.Type {
	case RevoluteJoint:
		axis, err := cfg.Axis.ParseConfig()
		if err != nil {
			return nil, errors.Wrapf(err, "joint %q", cfg.ID)
		}
		return NewRotationalFrame(cfg.ID, axis, Limit{
			Min: utils.DegToRad(cfg.Min),
			Max: utils.DegToRad(cfg.Max),
		})
	case PrismaticJoint:
		var geometry spatialmath.Geometry
		if cfg.Geometry != nil {
			var err error
			if geometry, err = cfg.Geometry.ParseConfig(); err != nil {
				return nil, errors.Wrapf(err, "joint %q", cfg.ID)
			}
		}
		return NewTranslationalFrameWithGeometry(cfg.ID, r3.Vector{X: cfg.Axis.X, Y: cfg.Axis.Y, Z: cfg.Axis.Z}, Limit{Min: cfg.Min, Max: cfg.Max}, geometry)
	default:
		return nil, NewUnsupportedJointTypeError(cfg.Type)
	}
}

// UnmarshalModelJSON will parse the given JSON data into a kinematics model. modelName sets the name of the model,
// will use the name from the JSON if string is empty.
func UnmarshalModelJSON(jsonData []byte, modelName string) (Model, error) {
	// empty data probably means that the arm has no model information
	if len(jsonData) == 0 {
		return nil, ErrNoModelInformation
	}

	m := &ModelConfigJSON{}
	if err := json.Unmarshal(jsonData, m); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal json file")
	}

	return m.ParseConfig(modelName)
}

// ParseConfig converts the ModelConfigJSON struct into a full Model with the name modelName.
func (cfg *ModelConfigJSON) ParseConfig(modelName string) (Model, error) {
	if modelName == "" {
		modelName = cfg.Name
	}
	if cfg.KinParamType != "" && cfg.KinParamType != "SVA" {
		return nil, errors.Errorf("unsupported param type: %s, supported params are SVA", cfg.KinParamType)
	}

	model := NewSimpleModel(modelName)
	transforms := map[string]Frame{}

	// Make a map of parents for each element for post-process, to allow items to be processed out of order
	parentMap := map[string]string{}

	for _, link := range cfg.Links {
		if link.ID == World {
			return nil, NewReservedWordError("link", World)
		}
	}
	for _, joint := range cfg.Joints {
		if joint.ID == World {
			return nil, NewReservedWordError("joint", World)
		}
	}

	for i := range cfg.Links {
		link := &cfg.Links[i]
		frame, err := link.ToStaticFrame(link.ID)
		if err != nil {
			return nil, err
		}
		parentMap[link.ID] = link.Parent
		transforms[link.ID] = frame
	}

	for i := range cfg.Joints {
		joint := &cfg.Joints[i]
		frame, err := joint.ToFrame()
		if err != nil {
			return nil, err
		}
		parentMap[joint.ID] = joint.Parent
		transforms[joint.ID] = frame
	}

	// Create an ordered list of transforms
	ot, err := sortTransforms(transforms, parentMap)
	if err != nil {
		return nil, err
	}

	model.setOrdTransforms(ot)
	return model, nil
}

// ParseModelJSONFile will read a given file and then parse the contained JSON data.
func ParseModelJSONFile(filename, modelName string) (Model, error) {
	//nolint:gosec
	jsonData, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read json file")
	}
	return UnmarshalModelJSON(jsonData, modelName)
}

// Create an ordered list of transforms given a mapping of child to parent frames.
func sortTransforms(transforms map[string]Frame, parents map[string]string) ([]Frame, error) {
	// find the end effector first - determine which transforms have no children
	// copy the map of children -> parents
	ees := map[string]string{}
	for child, parent := range parents {
		ees[child] = parent
	}
	// now remove all parents
	for _, parent := range parents {
		delete(ees, parent)
	}
	// ensure there is only on end effector
	if len(ees) != 1 {
		return nil, fmt.Errorf("%w, have %v", ErrNeedOneEndEffector, ees)
	}

	// start the search from the end effector
	var curr string
	for ee := range ees {
		curr = ee
	}
	seen := map[string]bool{curr: true}
	orderedTransforms := []Frame{}
	for i := 0; i < len(parents); i++ {
		frame, ok := transforms[curr]
		if !ok {
			return nil, NewFrameNotInListOfTransformsError(curr)
		}
		orderedTransforms = append(orderedTransforms, frame)

		// find the parent of the current transform
		parent, ok := parents[curr]
		if !ok {
			return nil, NewParentFrameNotInMapOfParentsError(curr)
		}

		// make sure it wasn't seen, mark it seen, then add it to the list
		if seen[parent] {
			return nil, ErrCircularReference
		}
		seen[parent] = true

		// update the frame to add next
		curr = parent
	}
	if curr != World {
		return nil, NewFrameNotInListOfTransformsError(curr)
	}

	// After the above loop, the transforms are in reverse order, so we reverse the list.
	for i, j := 0, len(orderedTransforms)-1; i < j; i, j = i+1, j-1 {
		orderedTransforms[i], orderedTransforms[j] = orderedTransforms[j], orderedTransforms[i]
	}

	return orderedTransforms, nil
}
