package spatialmath

import (
	"fmt"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// dualQuaternion defines functions to perform rigid dualQuaternion transformations in 3D.
// The real part holds the rotation and the dual part holds half the translation multiplied by the rotation.
type dualQuaternion struct {
	dualquat.Number
}

// newDualQuaternion returns a pointer to a new dualQuaternion object whose Quaternion is an identity Quaternion.
func newDualQuaternion() *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// newDualQuaternionFromRotation returns a dual quaternion with the given rotation and no translation.
func newDualQuaternionFromRotation(o Orientation) *dualQuaternion {
	return &dualQuaternion{dualquat.Number{
		Real: Normalize(o.Quaternion()),
		Dual: quat.Number{},
	}}
}

// dualQuaternionFromPose returns the dual quaternion backing a pose, building a new one if needed.
func dualQuaternionFromPose(p Pose) *dualQuaternion {
	if q, ok := p.(*dualQuaternion); ok {
		return q
	}
	q := newDualQuaternionFromRotation(p.Orientation())
	q.SetTranslation(p.Point())
	return q
}

// Point multiplies the dual quaternion by the quaternion conjugate of its rotation to recover the translation.
func (q *dualQuaternion) Point() r3.Vector {
	t := quat.Mul(quat.Scale(2, q.Dual), quat.Conj(q.Real))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Orientation returns the rotation quaternion as an Orientation.
func (q *dualQuaternion) Orientation() Orientation {
	o := quaternion(q.Real)
	return &o
}

// SetTranslation correctly sets the translation quaternion against the rotation.
func (q *dualQuaternion) SetTranslation(pt r3.Vector) {
	q.Dual = quat.Scale(0.5, quat.Mul(quat.Number{Imag: pt.X, Jmag: pt.Y, Kmag: pt.Z}, q.Real))
}

// Invert returns a dualQuaternion representing the opposite transformation. So if the input q would transform a -> b,
// then Invert(p) will transform b -> a.
func (q *dualQuaternion) Invert() *dualQuaternion {
	return &dualQuaternion{dualquat.ConjQuat(q.Number)}
}

// Transformation multiplies the dual quat contained in this dualQuaternion by another dual quat.
func (q *dualQuaternion) Transformation(by dualquat.Number) dualquat.Number {
	// Ensure we are multiplying by a unit dual quaternion
	if vecLen := quat.Abs(by.Real); vecLen != 1 && vecLen != 0 {
		by.Real = quat.Scale(1/vecLen, by.Real)
	}
	return dualquat.Mul(q.Number, by)
}

// String returns a human readable representation of the pose.
func (q *dualQuaternion) String() string {
	pt := q.Point()
	aa := q.Orientation().AxisAngles()
	return fmt.Sprintf("{X:%.6f Y:%.6f Z:%.6f OX:%.4f OY:%.4f OZ:%.4f Theta:%.4f}",
		pt.X, pt.Y, pt.Z, aa.RX, aa.RY, aa.RZ, aa.Theta)
}
