package datatypes

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/banshee-data/vrtypes/internal/types"
)

// TranslationRotationScale3D is an affine transform built from optional
// parts, applied as scale, then rotation, then translation. FromParent
// marks the inverse direction (parent space into child space).
type TranslationRotationScale3D struct {
	Translation *Vec3D
	Rotation    *Rotation3D
	Scale       *Scale3D
	FromParent  bool
}

var translationRotationScaleType = arrow.StructOf(
	types.Optional("translation", Vec3DLoggable.ArrowDatatype()),
	types.Optional("rotation", rotation3DType),
	types.Optional("scale", scale3DType),
	types.Required("from_parent", arrow.FixedWidthTypes.Boolean),
)

var TranslationRotationScale3DLoggable = types.NewCompositeLoggable(
	"vr.datatypes.TranslationRotationScale3D", translationRotationScaleType,
	fillTranslationRotationScale3D, decodeTranslationRotationScale3D)

func fillTranslationRotationScale3D(b array.Builder, elems []*TranslationRotationScale3D) error {
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
		if err := types.AppendMaybe(Vec3DLoggable, sb.FieldBuilder(0), e.Translation); err != nil {
			return err
		}
		if err := types.AppendMaybe(Rotation3DLoggable, sb.FieldBuilder(1), e.Rotation); err != nil {
			return err
		}
		if err := types.AppendMaybe(Scale3DLoggable, sb.FieldBuilder(2), e.Scale); err != nil {
			return err
		}
		if err := types.AppendOne(BoolLoggable, sb.FieldBuilder(3), Bool(e.FromParent)); err != nil {
			return err
		}
	}
	return nil
}

func decodeTranslationRotationScale3D(arr arrow.Array) ([]*TranslationRotationScale3D, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	translations, err := types.DecodeField(st, "translation", Vec3DLoggable)
	if err != nil {
		return nil, err
	}
	rotations, err := types.DecodeField(st, "rotation", Rotation3DLoggable)
	if err != nil {
		return nil, err
	}
	scales, err := types.DecodeField(st, "scale", Scale3DLoggable)
	if err != nil {
		return nil, err
	}
	fromParent, err := types.DecodeField(st, "from_parent", BoolLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*TranslationRotationScale3D, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		fp, err := types.Require(fromParent, "from_parent", i)
		if err != nil {
			return nil, err
		}
		out[i] = &TranslationRotationScale3D{
			Translation: translations[i],
			Rotation:    rotations[i],
			Scale:       scales[i],
			FromParent:  bool(fp),
		}
	}
	return out, nil
}

// Mat4x4 returns the homogeneous matrix of the transform. FromParent is
// not applied.
func (t TranslationRotationScale3D) Mat4x4() Mat4x4 {
	rot := Mat3x3Identity
	if t.Rotation != nil {
		rot = t.Rotation.AsQuaternion().Mat3x3()
	}
	scale := Vec3D{1, 1, 1}
	if t.Scale != nil {
		scale = t.Scale.Vec3D()
	}
	var m Mat4x4
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			m[c*4+r] = rot.At(r, c) * scale[c]
		}
	}
	if t.Translation != nil {
		copy(m[12:15], t.Translation[:])
	}
	m[15] = 1
	return m
}

// TranslationAndMat3x3 is an affine transform given as an optional
// translation and an optional linear part.
type TranslationAndMat3x3 struct {
	Translation *Vec3D
	Mat3x3      *Mat3x3
	FromParent  bool
}

var translationAndMat3x3Type = arrow.StructOf(
	types.Optional("translation", Vec3DLoggable.ArrowDatatype()),
	types.Optional("mat3x3", Mat3x3Loggable.ArrowDatatype()),
	types.Required("from_parent", arrow.FixedWidthTypes.Boolean),
)

var TranslationAndMat3x3Loggable = types.NewCompositeLoggable(
	"vr.datatypes.TranslationAndMat3x3", translationAndMat3x3Type,
	fillTranslationAndMat3x3, decodeTranslationAndMat3x3)

func fillTranslationAndMat3x3(b array.Builder, elems []*TranslationAndMat3x3) error {
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
		if err := types.AppendMaybe(Vec3DLoggable, sb.FieldBuilder(0), e.Translation); err != nil {
			return err
		}
		if err := types.AppendMaybe(Mat3x3Loggable, sb.FieldBuilder(1), e.Mat3x3); err != nil {
			return err
		}
		if err := types.AppendOne(BoolLoggable, sb.FieldBuilder(2), Bool(e.FromParent)); err != nil {
			return err
		}
	}
	return nil
}

func decodeTranslationAndMat3x3(arr arrow.Array) ([]*TranslationAndMat3x3, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	translations, err := types.DecodeField(st, "translation", Vec3DLoggable)
	if err != nil {
		return nil, err
	}
	mats, err := types.DecodeField(st, "mat3x3", Mat3x3Loggable)
	if err != nil {
		return nil, err
	}
	fromParent, err := types.DecodeField(st, "from_parent", BoolLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*TranslationAndMat3x3, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		fp, err := types.Require(fromParent, "from_parent", i)
		if err != nil {
			return nil, err
		}
		out[i] = &TranslationAndMat3x3{Translation: translations[i], Mat3x3: mats[i], FromParent: bool(fp)}
	}
	return out, nil
}

// Mat4x4 returns the homogeneous matrix of the transform.
func (t TranslationAndMat3x3) Mat4x4() Mat4x4 {
	lin := Mat3x3Identity
	if t.Mat3x3 != nil {
		lin = *t.Mat3x3
	}
	var m Mat4x4
	for c := 0; c < 3; c++ {
		copy(m[c*4:c*4+3], lin[c*3:c*3+3])
	}
	if t.Translation != nil {
		copy(m[12:15], t.Translation[:])
	}
	m[15] = 1
	return m
}

// Transform3DKind selects the representation held by a Transform3D.
type Transform3DKind uint8

const (
	Transform3DTranslationAndMat3x3     Transform3DKind = 1
	Transform3DTranslationRotationScale Transform3DKind = 2
)

// Transform3D is a 3D affine transform in one of two representations.
type Transform3D struct {
	Kind                     Transform3DKind
	TranslationAndMat3x3     TranslationAndMat3x3
	TranslationRotationScale TranslationRotationScale3D
}

// TransformFromTranslation returns a pure translation.
func TransformFromTranslation(v Vec3D) Transform3D {
	return Transform3D{
		Kind:                     Transform3DTranslationRotationScale,
		TranslationRotationScale: TranslationRotationScale3D{Translation: &v},
	}
}

// TransformFromTRS wraps a translation/rotation/scale transform.
func TransformFromTRS(trs TranslationRotationScale3D) Transform3D {
	return Transform3D{Kind: Transform3DTranslationRotationScale, TranslationRotationScale: trs}
}

// TransformFromMat3x3 wraps a translation and linear part.
func TransformFromMat3x3(t TranslationAndMat3x3) Transform3D {
	return Transform3D{Kind: Transform3DTranslationAndMat3x3, TranslationAndMat3x3: t}
}

// Mat4x4 returns the homogeneous matrix of whichever representation is set.
func (t Transform3D) Mat4x4() Mat4x4 {
	if t.Kind == Transform3DTranslationAndMat3x3 {
		return t.TranslationAndMat3x3.Mat4x4()
	}
	return t.TranslationRotationScale.Mat4x4()
}

var transform3DType = types.DenseUnionOf(
	types.Required("TranslationAndMat3x3", translationAndMat3x3Type),
	types.Required("TranslationRotationScale", translationRotationScaleType),
)

var Transform3DLoggable = types.NewCompositeLoggable("vr.datatypes.Transform3D", transform3DType, fillTransform3D, decodeTransform3D)

func fillTransform3D(b array.Builder, elems []*Transform3D) error {
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
		case Transform3DTranslationAndMat3x3:
			err = types.AppendVariant(ub, code, TranslationAndMat3x3Loggable, e.TranslationAndMat3x3)
		case Transform3DTranslationRotationScale:
			err = types.AppendVariant(ub, code, TranslationRotationScale3DLoggable, e.TranslationRotationScale)
		default:
			err = fmt.Errorf("%w: transform kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeTransform3D(arr arrow.Array) ([]*Transform3D, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	mats, err := types.DecodeVariant(u, arrow.UnionTypeCode(Transform3DTranslationAndMat3x3), TranslationAndMat3x3Loggable)
	if err != nil {
		return nil, err
	}
	trs, err := types.DecodeVariant(u, arrow.UnionTypeCode(Transform3DTranslationRotationScale), TranslationRotationScale3DLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*Transform3D, u.Len())
	for i := range out {
		off := int(u.ValueOffset(i))
		switch code := u.TypeCode(i); code {
		case 0:
		case arrow.UnionTypeCode(Transform3DTranslationAndMat3x3):
			v, err := types.Require(mats, "TranslationAndMat3x3", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Transform3D{Kind: Transform3DTranslationAndMat3x3, TranslationAndMat3x3: v}
		case arrow.UnionTypeCode(Transform3DTranslationRotationScale):
			v, err := types.Require(trs, "TranslationRotationScale", off)
			if err != nil {
				return nil, err
			}
			out[i] = &Transform3D{Kind: Transform3DTranslationRotationScale, TranslationRotationScale: v}
		default:
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
	}
	return out, nil
}
