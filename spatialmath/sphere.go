package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/dualarm/utils"
)

// sphere is a collision geometry that represents a sphere, it has a pose and a radius that fully define it.
type sphere struct {
	pose   Pose
	radius float64
	label  string
}

// NewSphere instantiates a new sphere Geometry.
func NewSphere(offset Pose, radius float64, label string) (Geometry, error) {
	if radius <= 0 {
		return nil, newBadGeometryDimensionsError(&sphere{})
	}
	return &sphere{pose: offset, radius: radius, label: label}, nil
}

// MarshalJSON encodes the sphere as a GeometryConfig.
func (s *sphere) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// String returns a human readable string that represents the sphere.
func (s *sphere) String() string {
	pt := s.pose.Point()
	return fmt.Sprintf("Type: Sphere, Center: (%.4f, %.4f, %.4f), Radius: %.4f", pt.X, pt.Y, pt.Z, s.radius)
}

// Label returns the label of this sphere.
func (s *sphere) Label() string {
	return s.label
}

// SetLabel sets the label of this sphere.
func (s *sphere) SetLabel(label string) {
	s.label = label
}

// Pose returns the pose of the sphere.
func (s *sphere) Pose() Pose {
	return s.pose
}

// AlmostEqual compares the sphere with another geometry and checks if they are equivalent.
func (s *sphere) AlmostEqual(g Geometry) bool {
	other, ok := g.(*sphere)
	if !ok {
		return false
	}
	return PoseAlmostEqual(s.pose, other.pose) && utils.Float64AlmostEqual(s.radius, other.radius, 1e-8)
}

// Transform premultiplies the sphere pose with a transform, allowing the sphere to be moved in space.
func (s *sphere) Transform(toPremultiply Pose) Geometry {
	return &sphere{pose: Compose(toPremultiply, s.pose), radius: s.radius, label: s.label}
}

// CollidesWith checks if the given sphere collides with the given geometry and returns true if it does.
func (s *sphere) CollidesWith(g Geometry) (bool, error) {
	dist, err := s.DistanceFrom(g)
	if err != nil {
		return true, err
	}
	return dist <= CollisionBuffer, nil
}

// DistanceFrom returns the signed separation between the sphere and the given geometry.
// Negative values are penetration depths.
func (s *sphere) DistanceFrom(g Geometry) (float64, error) {
	switch other := g.(type) {
	case *sphere:
		return sphereVsSphereDistance(s, other), nil
	case *capsule:
		return capsuleVsSphereDistance(other, s), nil
	default:
		return math.Inf(-1), newCollisionTypeUnsupportedError(s, g)
	}
}

func sphereVsPointDistance(s *sphere, pt r3.Vector) float64 {
	return s.pose.Point().Sub(pt).Norm() - s.radius
}

func sphereVsSphereDistance(a, b *sphere) float64 {
	return sphereVsPointDistance(a, b.pose.Point()) - b.radius
}
