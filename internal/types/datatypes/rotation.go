package datatypes

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/banshee-data/vrtypes/internal/types"
)

// AngleKind selects the unit of an Angle. Values are the union type codes.
type AngleKind uint8

const (
	AngleRadians AngleKind = 1
	AngleDegrees AngleKind = 2
)

// Angle is an angle in either radians or degrees.
type Angle struct {
	Kind  AngleKind
	Value float32
}

// Radians returns an angle in radians.
func Radians(v float32) Angle { return Angle{Kind: AngleRadians, Value: v} }

// Degrees returns an angle in degrees.
func Degrees(v float32) Angle { return Angle{Kind: AngleDegrees, Value: v} }

// Rad returns the angle in radians whatever its unit.
func (a Angle) Rad() float64 {
	if a.Kind == AngleDegrees {
		return float64(a.Value) * math.Pi / 180
	}
	return float64(a.Value)
}

var angleType = types.DenseUnionOf(
	types.Required("Radians", arrow.PrimitiveTypes.Float32),
	types.Required("Degrees", arrow.PrimitiveTypes.Float32),
)

var AngleLoggable = types.NewCompositeLoggable("vr.datatypes.Angle", angleType, fillAngle, decodeAngle)

func fillAngle(b array.Builder, elems []*Angle) error {
	ub, err := types.UnionBuilder(b)
	if err != nil {
		return err
	}
	for i, e := range elems {
		if e == nil {
			ub.AppendNull()
			continue
		}
		switch e.Kind {
		case AngleRadians, AngleDegrees:
			if err := types.AppendVariant(ub, arrow.UnionTypeCode(e.Kind), Float32Loggable, Float32(e.Value)); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: angle kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
	}
	return nil
}

func decodeAngle(arr arrow.Array) ([]*Angle, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	rad, err := types.DecodeVariant(u, arrow.UnionTypeCode(AngleRadians), Float32Loggable)
	if err != nil {
		return nil, err
	}
	deg, err := types.DecodeVariant(u, arrow.UnionTypeCode(AngleDegrees), Float32Loggable)
	if err != nil {
		return nil, err
	}
	out := make([]*Angle, u.Len())
	for i := range out {
		off := int(u.ValueOffset(i))
		var (
			v   Float32
			err error
		)
		switch code := u.TypeCode(i); code {
		case 0:
			continue
		case arrow.UnionTypeCode(AngleRadians):
			v, err = types.Require(rad, "Radians", off)
		case arrow.UnionTypeCode(AngleDegrees):
			v, err = types.Require(deg, "Degrees", off)
		default:
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
		if err != nil {
			return nil, err
		}
		out[i] = &Angle{Kind: AngleKind(u.TypeCode(i)), Value: float32(v)}
	}
	return out, nil
}

// RotationAxisAngle is a rotation of Angle about Axis. The axis need not
// be normalised.
type RotationAxisAngle struct {
	Axis  Vec3D
	Angle Angle
}

// Quaternion converts the rotation. A zero axis yields the identity.
func (r RotationAxisAngle) Quaternion() Quaternion {
	axis := r.Axis.R3()
	n := math.Sqrt(axis.X*axis.X + axis.Y*axis.Y + axis.Z*axis.Z)
	if n == 0 {
		return QuaternionIdentity
	}
	unit := Vec3D{float32(axis.X / n), float32(axis.Y / n), float32(axis.Z / n)}
	return QuaternionFromAxisAngle(unit, r.Angle.Rad())
}

var rotationAxisAngleType = arrow.StructOf(
	types.Required("axis", Vec3DLoggable.ArrowDatatype()),
	types.Required("angle", angleType),
)

var RotationAxisAngleLoggable = types.NewCompositeLoggable(
	"vr.datatypes.RotationAxisAngle", rotationAxisAngleType, fillRotationAxisAngle, decodeRotationAxisAngle)

func fillRotationAxisAngle(b array.Builder, elems []*RotationAxisAngle) error {
	sb, err := types.BuilderAs[*array.StructBuilder](b)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if e == nil {
			sb.AppendNull()
			continue
		}
		sb.Append(true)
		if err := types.AppendOne(Vec3DLoggable, sb.FieldBuilder(0), e.Axis); err != nil {
			return err
		}
		if err := types.AppendOne(AngleLoggable, sb.FieldBuilder(1), e.Angle); err != nil {
			return err
		}
	}
	return nil
}

func decodeRotationAxisAngle(arr arrow.Array) ([]*RotationAxisAngle, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	axes, err := types.DecodeField(st, "axis", Vec3DLoggable)
	if err != nil {
		return nil, err
	}
	angles, err := types.DecodeField(st, "angle", AngleLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*RotationAxisAngle, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		axis, err := types.Require(axes, "axis", i)
		if err != nil {
			return nil, err
		}
		angle, err := types.Require(angles, "angle", i)
		if err != nil {
			return nil, err
		}
		out[i] = &RotationAxisAngle{Axis: axis, Angle: angle}
	}
	return out, nil
}

// Rotation3DKind selects the representation held by a Rotation3D.
type Rotation3DKind uint8

const (
	Rotation3DQuaternion Rotation3DKind = 1
	Rotation3DAxisAngle  Rotation3DKind = 2
)

// Rotation3D is a 3D rotation, either a quaternion or an axis-angle pair.
type Rotation3D struct {
	Kind       Rotation3DKind
	Quaternion Quaternion
	AxisAngle  RotationAxisAngle
}

// RotationFromQuaternion wraps a quaternion.
func RotationFromQuaternion(q Quaternion) Rotation3D {
	return Rotation3D{Kind: Rotation3DQuaternion, Quaternion: q}
}

// RotationFromAxisAngle wraps an axis-angle rotation.
func RotationFromAxisAngle(axis Vec3D, angle Angle) Rotation3D {
	return Rotation3D{Kind: Rotation3DAxisAngle, AxisAngle: RotationAxisAngle{Axis: axis, Angle: angle}}
}

// AsQuaternion converts either representation to a quaternion.
func (r Rotation3D) AsQuaternion() Quaternion {
	if r.Kind == Rotation3DAxisAngle {
		return r.AxisAngle.Quaternion()
	}
	return r.Quaternion
}

var rotation3DType = types.DenseUnionOf(
	types.Required("Quaternion", QuaternionLoggable.ArrowDatatype()),
	types.Required("AxisAngle", rotationAxisAngleType),
)

var Rotation3DLoggable = types.NewCompositeLoggable("vr.datatypes.Rotation3D", rotation3DType, fillRotation3D, decodeRotation3D)

func fillRotation3D(b array.Builder, elems []*Rotation3D) error {
	ub, err := types.UnionBuilder(b)
	if err != nil {
		return err
	}
	for i, e := range elems {
		if e == nil {
			ub.AppendNull()
			continue
		}
		code := arrow.UnionTypeCode(e.Kind)
		switch e.Kind {
		case Rotation3DQuaternion:
			err = types.AppendVariant(ub, code, QuaternionLoggable, e.Quaternion)
		case Rotation3DAxisAngle:
			err = types.AppendVariant(ub, code, RotationAxisAngleLoggable, e.AxisAngle)
		default:
			err = fmt.Errorf("%w: rotation kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeRotation3D(arr arrow.Array) ([]*Rotation3D, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	quats, err := types.DecodeVariant(u, arrow.UnionTypeCode(Rotation3DQuaternion), QuaternionLoggable)
	if err != nil {
		return nil, err
	}
	axisAngles, err := types.DecodeVariant(u, arrow.UnionTypeCode(Rotation3DAxisAngle), RotationAxisAngleLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*Rotation3D, u.Len())
	for i := range out {
		off := int(u.ValueOffset(i))
		switch code := u.TypeCode(i); code {
		case 0:
		case arrow.UnionTypeCode(Rotation3DQuaternion):
			q, err := types.Require(quats, "Quaternion", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Rotation3D{Kind: Rotation3DQuaternion, Quaternion: q}
		case arrow.UnionTypeCode(Rotation3DAxisAngle):
			aa, err := types.Require(axisAngles, "AxisAngle", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Rotation3D{Kind: Rotation3DAxisAngle, AxisAngle: aa}
		default:
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
	}
	return out, nil
}

// Scale3DKind selects the representation held by a Scale3D.
type Scale3DKind uint8

const (
	Scale3DThreeD  Scale3DKind = 1
	Scale3DUniform Scale3DKind = 2
)

// Scale3D is either a per-axis or a uniform scale.
type Scale3D struct {
	Kind    Scale3DKind
	ThreeD  Vec3D
	Uniform float32
}

// ScaleThreeD returns a per-axis scale.
func ScaleThreeD(v Vec3D) Scale3D { return Scale3D{Kind: Scale3DThreeD, ThreeD: v} }

// ScaleUniform returns a uniform scale.
func ScaleUniform(s float32) Scale3D { return Scale3D{Kind: Scale3DUniform, Uniform: s} }

// Vec3D expands the scale to per-axis factors.
func (s Scale3D) Vec3D() Vec3D {
	if s.Kind == Scale3DUniform {
		return Vec3D{s.Uniform, s.Uniform, s.Uniform}
	}
	return s.ThreeD
}

var scale3DType = types.DenseUnionOf(
	types.Required("ThreeD", Vec3DLoggable.ArrowDatatype()),
	types.Required("Uniform", arrow.PrimitiveTypes.Float32),
)

var Scale3DLoggable = types.NewCompositeLoggable("vr.datatypes.Scale3D", scale3DType, fillScale3D, decodeScale3D)

func fillScale3D(b array.Builder, elems []*Scale3D) error {
	ub, err := types.UnionBuilder(b)
	if err != nil {
		return err
	}
	for i, e := range elems {
		if e == nil {
			ub.AppendNull()
			continue
		}
		code := arrow.UnionTypeCode(e.Kind)
		switch e.Kind {
		case Scale3DThreeD:
			err = types.AppendVariant(ub, code, Vec3DLoggable, e.ThreeD)
		case Scale3DUniform:
			err = types.AppendVariant(ub, code, Float32Loggable, Float32(e.Uniform))
		default:
			err = fmt.Errorf("%w: scale kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeScale3D(arr arrow.Array) ([]*Scale3D, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	threeD, err := types.DecodeVariant(u, arrow.UnionTypeCode(Scale3DThreeD), Vec3DLoggable)
	if err != nil {
		return nil, err
	}
	uniform, err := types.DecodeVariant(u, arrow.UnionTypeCode(Scale3DUniform), Float32Loggable)
	if err != nil {
		return nil, err
	}
	out := make([]*Scale3D, u.Len())
	for i := range out {
		off := int(u.ValueOffset(i))
		switch code := u.TypeCode(i); code {
		case 0:
		case arrow.UnionTypeCode(Scale3DThreeD):
			v, err := types.Require(threeD, "ThreeD", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Scale3D{Kind: Scale3DThreeD, ThreeD: v}
		case arrow.UnionTypeCode(Scale3DUniform):
			s, err := types.Require(uniform, "Uniform", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Scale3D{Kind: Scale3DUniform, Uniform: float32(s)}
		default:
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
	}
	return out, nil
}
