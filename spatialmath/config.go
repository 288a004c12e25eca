package spatialmath

import (
	"encoding/json"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/num/quat"
)

// OrientationType defines what orientation representations are known.
type OrientationType string

// The set of allowed representations for orientation.
const (
	NoOrientation = OrientationType("")
	AxisAngles    = OrientationType("axis_angles")
	EulerAngleRPY = OrientationType("euler_angles")
	Quaternion    = OrientationType("quaternion")
)

// OrientationConfig holds the underlying type of orientation, and the value.
type OrientationConfig struct {
	Type  OrientationType `json:"type"`
	Value json.RawMessage `json:"value"`
}

type quaternionJSON struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewOrientationConfig encodes an orientation as a quaternion config.
func NewOrientationConfig(o Orientation) (*OrientationConfig, error) {
	q := o.Quaternion()
	bytes, err := json.Marshal(quaternionJSON{W: q.Real, X: q.Imag, Y: q.Jmag, Z: q.Kmag})
	if err != nil {
		return nil, err
	}
	return &OrientationConfig{Type: Quaternion, Value: bytes}, nil
}

// ParseConfig will use the Type in OrientationConfig and convert into the correct struct that implements Orientation.
func (config *OrientationConfig) ParseConfig() (Orientation, error) {
	if config == nil {
		return NewZeroOrientation(), nil
	}
	switch config.Type {
	case NoOrientation:
		return NewZeroOrientation(), nil
	case AxisAngles:
		var aa R4AA
		if err := json.Unmarshal(config.Value, &aa); err != nil {
			return nil, errors.Wrap(err, "failed to parse axis angles")
		}
		aa.Normalize()
		return &aa, nil
	case EulerAngleRPY:
		var ea EulerAngles
		if err := json.Unmarshal(config.Value, &ea); err != nil {
			return nil, errors.Wrap(err, "failed to parse euler angles")
		}
		return &ea, nil
	case Quaternion:
		var qj quaternionJSON
		if err := json.Unmarshal(config.Value, &qj); err != nil {
			return nil, errors.Wrap(err, "failed to parse quaternion")
		}
		return NewQuaternion(quat.Number{Real: qj.W, Imag: qj.X, Jmag: qj.Y, Kmag: qj.Z}), nil
	default:
		return nil, newOrientationTypeUnsupportedError(string(config.Type))
	}
}

// TranslationConfig represents an x, y, z translation in meters.
type TranslationConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NewTranslationConfig returns a TranslationConfig from the given vector.
func NewTranslationConfig(pt r3.Vector) *TranslationConfig {
	return &TranslationConfig{X: pt.X, Y: pt.Y, Z: pt.Z}
}

// ParseConfig converts a TranslationConfig into an r3.Vector. A nil config is the zero vector.
func (tc *TranslationConfig) ParseConfig() r3.Vector {
	if tc == nil {
		return r3.Vector{}
	}
	return r3.Vector{X: tc.X, Y: tc.Y, Z: tc.Z}
}

// AxisConfig represents the axis of rotation of a revolute joint.
type AxisConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ParseConfig converts an AxisConfig into an R4AA with zero rotation about the configured axis.
func (a AxisConfig) ParseConfig() (R4AA, error) {
	axis := R4AA{RX: a.X, RY: a.Y, RZ: a.Z}
	if a.X == 0 && a.Y == 0 && a.Z == 0 {
		return axis, errors.New("joint axis must be nonzero")
	}
	axis.Normalize()
	return axis, nil
}

// GeometryType defines what geometry creator representations are known.
type GeometryType string

// The set of allowed representations for geometries.
const (
	UnknownType = GeometryType("")
	SphereType  = GeometryType("sphere")
	CapsuleType = GeometryType("capsule")
)

// GeometryConfig specifies the format of geometries specified through the configuration file.
// Capsules are aligned with the z axis of their offset pose.
type GeometryConfig struct {
	Type GeometryType `json:"type"`

	// parameters used for defining a sphere, its radius
	R float64 `json:"r"`

	// parameters used for defining a capsule, its length, tip to tip
	L float64 `json:"l"`

	// define an offset to position the geometry
	TranslationOffset TranslationConfig `json:"translation,omitempty"`
	OrientationOffset *OrientationConfig `json:"orientation,omitempty"`

	Label string `json:"label,omitempty"`
}

// ParseConfig converts a GeometryConfig into the correct Geometry type.
func (config *GeometryConfig) ParseConfig() (Geometry, error) {
	orientation, err := config.OrientationOffset.ParseConfig()
	if err != nil {
		return nil, err
	}
	offset := NewPose(config.TranslationOffset.ParseConfig(), orientation)

	// infer type given what is present in the config
	if config.Type == UnknownType {
		switch {
		case config.L != 0:
			config.Type = CapsuleType
		case config.R != 0:
			config.Type = SphereType
		}
	}

	switch config.Type {
	case SphereType:
		return NewSphere(offset, config.R, config.Label)
	case CapsuleType:
		return NewCapsule(offset, config.R, config.L, config.Label)
	case UnknownType:
		return nil, newGeometryTypeUnsupportedError(string(config.Type))
	default:
		return nil, newGeometryTypeUnsupportedError(string(config.Type))
	}
}
