package spatialmath

import (
	"encoding/json"
	"fmt"
)

// CollisionBuffer is the default buffer used when determining whether two geometries are in collision.
// Geometries whose separation is at most this distance, in meters, are considered touching.
const CollisionBuffer = 1e-8

// Geometry is an entry point with which to access all types of collision geometries.
type Geometry interface {
	Pose() Pose
	Transform(Pose) Geometry
	CollidesWith(Geometry) (bool, error)
	DistanceFrom(Geometry) (float64, error)
	AlmostEqual(Geometry) bool
	Label() string
	SetLabel(string)
	String() string
	json.Marshaler
}

// NewGeometryConfig returns the config used to create the given geometry, expressed relative to its own pose.
func NewGeometryConfig(g Geometry) (*GeometryConfig, error) {
	orientation, err := NewOrientationConfig(g.Pose().Orientation())
	if err != nil {
		return nil, err
	}
	config := &GeometryConfig{
		TranslationOffset: *NewTranslationConfig(g.Pose().Point()),
		OrientationOffset: orientation,
		Label:             g.Label(),
	}
	switch gType := g.(type) {
	case *sphere:
		config.Type = SphereType
		config.R = gType.radius
	case *capsule:
		config.Type = CapsuleType
		config.R = gType.radius
		config.L = gType.length
	default:
		return nil, fmt.Errorf("%w: %T", errGeometryTypeUnsupported, gType)
	}
	return config, nil
}
