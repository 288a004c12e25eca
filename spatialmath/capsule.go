package spatialmath

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/dualarm/utils"
)

// capsule is a collision geometry that represents a capsule, it has a pose and a radius that fully define it.
//
// ....___________________
// .../                   \
// .x|  |-------O-------|  |x
// ...\___________________/
//
// Length is the distance between the x's, or internal segment length + 2*radius.
type capsule struct {
	// pose of the capsule center. The capsule extends length/2 in both directions along the pose's z axis.
	pose   Pose
	radius float64
	length float64 // total length of the capsule, tip to tip
	label  string

	// generated at creation time, not to be altered by hand
	segA r3.Vector // proximal endpoint of the capsule line segment
	segB r3.Vector // distal endpoint of the capsule line segment
}

// NewCapsule instantiates a new capsule Geometry.
func NewCapsule(offset Pose, radius, length float64, label string) (Geometry, error) {
	if radius <= 0 || length <= 0 {
		return nil, newBadGeometryDimensionsError(&capsule{})
	}
	if length < radius*2 {
		return nil, newBadCapsuleLengthError(length, radius)
	}
	if length == radius*2 {
		return NewSphere(offset, radius, label)
	}
	return newCapsuleWithSegPoints(offset, radius, length, label), nil
}

// Will precalculate the linear endpoints for a capsule.
func newCapsuleWithSegPoints(offset Pose, radius, length float64, label string) *capsule {
	return &capsule{
		pose:   offset,
		radius: radius,
		length: length,
		label:  label,
		segA:   Compose(offset, NewPoseFromPoint(r3.Vector{Z: -length/2 + radius})).Point(),
		segB:   Compose(offset, NewPoseFromPoint(r3.Vector{Z: length/2 - radius})).Point(),
	}
}

// MarshalJSON encodes the capsule as a GeometryConfig.
func (c *capsule) MarshalJSON() ([]byte, error) {
	config, err := NewGeometryConfig(c)
	if err != nil {
		return nil, err
	}
	return json.Marshal(config)
}

// String returns a human readable string that represents the capsule.
func (c *capsule) String() string {
	return fmt.Sprintf("Type: Capsule, Radius: %.4f, Length: %.4f", c.radius, c.length)
}

// Label returns the label of this capsule.
func (c *capsule) Label() string {
	return c.label
}

// SetLabel sets the label of this capsule.
func (c *capsule) SetLabel(label string) {
	c.label = label
}

// Pose returns the pose of the capsule.
func (c *capsule) Pose() Pose {
	return c.pose
}

// AlmostEqual compares the capsule with another geometry and checks if they are equivalent.
func (c *capsule) AlmostEqual(g Geometry) bool {
	other, ok := g.(*capsule)
	if !ok {
		return false
	}
	return PoseAlmostEqualEps(c.pose, other.pose, 1e-6) &&
		utils.Float64AlmostEqual(c.radius, other.radius, 1e-8) &&
		utils.Float64AlmostEqual(c.length, other.length, 1e-8)
}

// Transform premultiplies the capsule pose with a transform, allowing the capsule to be moved in space.
func (c *capsule) Transform(toPremultiply Pose) Geometry {
	return &capsule{
		pose:   Compose(toPremultiply, c.pose),
		radius: c.radius,
		length: c.length,
		label:  c.label,
		segA:   Compose(toPremultiply, NewPoseFromPoint(c.segA)).Point(),
		segB:   Compose(toPremultiply, NewPoseFromPoint(c.segB)).Point(),
	}
}

// CollidesWith checks if the given capsule collides with the given geometry and returns true if it does.
func (c *capsule) CollidesWith(g Geometry) (bool, error) {
	dist, err := c.DistanceFrom(g)
	if err != nil {
		return true, err
	}
	return dist <= CollisionBuffer, nil
}

// DistanceFrom returns the signed separation between the capsule and the given geometry.
func (c *capsule) DistanceFrom(g Geometry) (float64, error) {
	switch other := g.(type) {
	case *capsule:
		return capsuleVsCapsuleDistance(c, other), nil
	case *sphere:
		return capsuleVsSphereDistance(c, other), nil
	default:
		return math.Inf(-1), newCollisionTypeUnsupportedError(c, g)
	}
}

func capsuleVsSphereDistance(c *capsule, other *sphere) float64 {
	return DistToLineSegment(c.segA, c.segB, other.pose.Point()) - (c.radius + other.radius)
}

func capsuleVsCapsuleDistance(c, other *capsule) float64 {
	return SegmentDistanceToSegment(c.segA, c.segB, other.segA, other.segB) - (c.radius + other.radius)
}
