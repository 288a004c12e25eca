package spatialmath

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// RotationMatrix is a 3x3 rotation matrix, stored column-major as in mgl64.
type RotationMatrix struct {
	mat mgl64.Mat3
}

// QuatToRotationMatrix converts a quaternion to a rotation matrix.
func QuatToRotationMatrix(q quat.Number) *RotationMatrix {
	q = Normalize(q)
	glQuat := mgl64.Quat{W: q.Real, V: mgl64.Vec3{q.Imag, q.Jmag, q.Kmag}}
	return &RotationMatrix{glQuat.Mat4().Mat3()}
}

// At returns the element at the given row and column.
func (rm *RotationMatrix) At(row, col int) float64 {
	return rm.mat.At(row, col)
}

// Row returns the row of the rotation matrix at the given index.
func (rm *RotationMatrix) Row(row int) r3.Vector {
	return r3.Vector{X: rm.mat.At(row, 0), Y: rm.mat.At(row, 1), Z: rm.mat.At(row, 2)}
}

// Col returns the column of the rotation matrix at the given index.
func (rm *RotationMatrix) Col(col int) r3.Vector {
	return r3.Vector{X: rm.mat.At(0, col), Y: rm.mat.At(1, col), Z: rm.mat.At(2, col)}
}

// Mul rotates the given vector by this matrix.
func (rm *RotationMatrix) Mul(v r3.Vector) r3.Vector {
	out := rm.mat.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out[0], Y: out[1], Z: out[2]}
}
