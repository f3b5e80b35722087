package datatypes

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/vrtypes/internal/types"
)

// Vec2D is a vector in 2D space.
type Vec2D [2]float32

// Vec3D is a vector in 3D space.
type Vec3D [3]float32

// Vec4D is a vector in 4D space.
type Vec4D [4]float32

// UVec2D is an unsigned integer vector in 2D space.
type UVec2D [2]uint32

// UVec3D is an unsigned integer vector in 3D space.
type UVec3D [3]uint32

// Quaternion is a rotation stored as xyzw. It need not be normalised.
type Quaternion [4]float32

// Mat3x3 is a 3x3 matrix stored in column-major order.
type Mat3x3 [9]float32

// Mat4x4 is a 4x4 matrix stored in column-major order.
type Mat4x4 [16]float32

// Range1D is an inclusive [min, max] interval.
type Range1D [2]float64

// UUID is a 16-byte universally unique identifier.
type UUID [16]byte

var (
	Vec2DLoggable      = types.NewFloat32FixedSizeLoggable[Vec2D]("vr.datatypes.Vec2D", 2)
	Vec3DLoggable      = types.NewFloat32FixedSizeLoggable[Vec3D]("vr.datatypes.Vec3D", 3)
	Vec4DLoggable      = types.NewFloat32FixedSizeLoggable[Vec4D]("vr.datatypes.Vec4D", 4)
	UVec2DLoggable     = types.NewUint32FixedSizeLoggable[UVec2D]("vr.datatypes.UVec2D", 2)
	UVec3DLoggable     = types.NewUint32FixedSizeLoggable[UVec3D]("vr.datatypes.UVec3D", 3)
	QuaternionLoggable = types.NewFloat32FixedSizeLoggable[Quaternion]("vr.datatypes.Quaternion", 4)
	Mat3x3Loggable     = types.NewFloat32FixedSizeLoggable[Mat3x3]("vr.datatypes.Mat3x3", 9)
	Mat4x4Loggable     = types.NewFloat32FixedSizeLoggable[Mat4x4]("vr.datatypes.Mat4x4", 16)
	Range1DLoggable    = types.NewFloat64FixedSizeLoggable[Range1D]("vr.datatypes.Range1D", 2)
	UUIDLoggable       = types.NewUint8FixedSizeLoggable[UUID]("vr.datatypes.UUID", 16)
)

func (v Vec2D) X() float32 { return v[0] }
func (v Vec2D) Y() float32 { return v[1] }

func (v Vec3D) X() float32 { return v[0] }
func (v Vec3D) Y() float32 { return v[1] }
func (v Vec3D) Z() float32 { return v[2] }

// R3 converts v to a gonum vector.
func (v Vec3D) R3() r3.Vec {
	return r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])}
}

// Vec3DFromR3 converts a gonum vector, narrowing to float32.
func Vec3DFromR3(v r3.Vec) Vec3D {
	return Vec3D{float32(v.X), float32(v.Y), float32(v.Z)}
}

// QuaternionIdentity is the rotation that leaves vectors unchanged.
var QuaternionIdentity = Quaternion{0, 0, 0, 1}

// QuaternionFromXYZW builds a quaternion from its components.
func QuaternionFromXYZW(x, y, z, w float32) Quaternion {
	return Quaternion{x, y, z, w}
}

// QuaternionFromAxisAngle returns the rotation of angle radians about axis.
func QuaternionFromAxisAngle(axis Vec3D, radians float64) Quaternion {
	return QuaternionFromQuat(quat.Number(r3.NewRotation(radians, axis.R3())))
}

// Quat converts q to a gonum quaternion.
func (q Quaternion) Quat() quat.Number {
	return quat.Number{Real: float64(q[3]), Imag: float64(q[0]), Jmag: float64(q[1]), Kmag: float64(q[2])}
}

// QuaternionFromQuat converts a gonum quaternion.
func QuaternionFromQuat(n quat.Number) Quaternion {
	return Quaternion{float32(n.Imag), float32(n.Jmag), float32(n.Kmag), float32(n.Real)}
}

// Normalized returns q scaled to unit length. The zero quaternion is
// returned unchanged.
func (q Quaternion) Normalized() Quaternion {
	n := q.Quat()
	abs := quat.Abs(n)
	if abs == 0 {
		return q
	}
	return QuaternionFromQuat(quat.Scale(1/abs, n))
}

// Rotate applies the (normalised) rotation to v.
func (q Quaternion) Rotate(v Vec3D) Vec3D {
	rot := r3.Rotation(q.Normalized().Quat())
	return Vec3DFromR3(rot.Rotate(v.R3()))
}

// Mat3x3 returns the rotation matrix of q.
func (q Quaternion) Mat3x3() Mat3x3 {
	var m Mat3x3
	for c, basis := range []Vec3D{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
		col := q.Rotate(basis)
		copy(m[c*3:c*3+3], col[:])
	}
	return m
}

// Mat3x3Identity is the identity matrix.
var Mat3x3Identity = Mat3x3{1, 0, 0, 0, 1, 0, 0, 0, 1}

// At returns the element at row i, column j.
func (m Mat3x3) At(i, j int) float32 { return m[j*3+i] }

// Dense converts m to a gonum matrix.
func (m Mat3x3) Dense() *mat.Dense {
	d := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, float64(m.At(i, j)))
		}
	}
	return d
}

// Mat3x3FromMatrix converts a 3x3 gonum matrix.
func Mat3x3FromMatrix(a mat.Matrix) (Mat3x3, error) {
	var m Mat3x3
	if r, c := a.Dims(); r != 3 || c != 3 {
		return m, fmt.Errorf("expected 3x3 matrix, got %dx%d", r, c)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[j*3+i] = float32(a.At(i, j))
		}
	}
	return m, nil
}

// Mat4x4Identity is the identity matrix.
var Mat4x4Identity = Mat4x4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// At returns the element at row i, column j.
func (m Mat4x4) At(i, j int) float32 { return m[j*4+i] }

// Dense converts m to a gonum matrix.
func (m Mat4x4) Dense() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			d.Set(i, j, float64(m.At(i, j)))
		}
	}
	return d
}

// Mat4x4FromMatrix converts a 4x4 gonum matrix.
func Mat4x4FromMatrix(a mat.Matrix) (Mat4x4, error) {
	var m Mat4x4
	if r, c := a.Dims(); r != 4 || c != 4 {
		return m, fmt.Errorf("expected 4x4 matrix, got %dx%d", r, c)
	}
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			m[j*4+i] = float32(a.At(i, j))
		}
	}
	return m, nil
}

// Contains reports whether v lies within the range.
func (r Range1D) Contains(v float64) bool {
	return v >= r[0] && v <= r[1]
}

// Valid reports whether min <= max and neither bound is NaN.
func (r Range1D) Valid() bool {
	return !math.IsNaN(r[0]) && !math.IsNaN(r[1]) && r[0] <= r[1]
}

// UUIDFrom converts a google/uuid value.
func UUIDFrom(u uuid.UUID) UUID { return UUID(u) }

// UUID converts back to a google/uuid value.
func (u UUID) UUID() uuid.UUID { return uuid.UUID(u) }

func (u UUID) String() string { return uuid.UUID(u).String() }
