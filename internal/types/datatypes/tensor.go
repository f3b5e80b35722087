package datatypes

import (
	"errors"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/banshee-data/vrtypes/internal/types"
)

// TensorDimension is one axis of a tensor.
type TensorDimension struct {
	Size uint64
	Name *string
}

var tensorDimensionType = arrow.StructOf(
	types.Required("size", arrow.PrimitiveTypes.Uint64),
	types.Optional("name", arrow.BinaryTypes.String),
)

var TensorDimensionLoggable = types.NewCompositeLoggable("vr.datatypes.TensorDimension", tensorDimensionType, fillTensorDimension, decodeTensorDimension)

func fillTensorDimension(b array.Builder, elems []*TensorDimension) error {
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
		if err := types.AppendOne(UInt64Loggable, sb.FieldBuilder(0), UInt64(e.Size)); err != nil {
			return err
		}
		if err := types.AppendMaybe(Utf8Loggable, sb.FieldBuilder(1), (*Utf8)(e.Name)); err != nil {
			return err
		}
	}
	return nil
}

func decodeTensorDimension(arr arrow.Array) ([]*TensorDimension, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	sizes, err := types.DecodeField(st, "size", UInt64Loggable)
	if err != nil {
		return nil, err
	}
	names, err := types.DecodeField(st, "name", Utf8Loggable)
	if err != nil {
		return nil, err
	}
	out := make([]*TensorDimension, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		size, err := types.Require(sizes, "size", i)
		if err != nil {
			return nil, err
		}
		out[i] = &TensorDimension{Size: uint64(size), Name: (*string)(names[i])}
	}
	return out, nil
}

// TensorBufferKind identifies the element type of a TensorBuffer.
type TensorBufferKind uint8

const (
	TensorBufferU8  TensorBufferKind = 1
	TensorBufferU16 TensorBufferKind = 2
	TensorBufferU32 TensorBufferKind = 3
	TensorBufferU64 TensorBufferKind = 4
	TensorBufferI8  TensorBufferKind = 5
	TensorBufferI16 TensorBufferKind = 6
	TensorBufferI32 TensorBufferKind = 7
	TensorBufferI64 TensorBufferKind = 8
	TensorBufferF32 TensorBufferKind = 9
	TensorBufferF64 TensorBufferKind = 10
)

var tensorBufferKindNames = map[TensorBufferKind]string{
	TensorBufferU8: "U8", TensorBufferU16: "U16", TensorBufferU32: "U32", TensorBufferU64: "U64",
	TensorBufferI8: "I8", TensorBufferI16: "I16", TensorBufferI32: "I32", TensorBufferI64: "I64",
	TensorBufferF32: "F32", TensorBufferF64: "F64",
}

func (k TensorBufferKind) String() string {
	if s, ok := tensorBufferKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TensorBufferKind(%d)", uint8(k))
}

// TensorBuffer is the flat, row-major element storage of a tensor. Only
// the slice selected by Kind is meaningful.
type TensorBuffer struct {
	Kind TensorBufferKind
	U8   []uint8
	U16  []uint16
	U32  []uint32
	U64  []uint64
	I8   []int8
	I16  []int16
	I32  []int32
	I64  []int64
	F32  []float32
	F64  []float64
}

// Len returns the number of elements held.
func (t TensorBuffer) Len() int {
	switch t.Kind {
	case TensorBufferU8:
		return len(t.U8)
	case TensorBufferU16:
		return len(t.U16)
	case TensorBufferU32:
		return len(t.U32)
	case TensorBufferU64:
		return len(t.U64)
	case TensorBufferI8:
		return len(t.I8)
	case TensorBufferI16:
		return len(t.I16)
	case TensorBufferI32:
		return len(t.I32)
	case TensorBufferI64:
		return len(t.I64)
	case TensorBufferF32:
		return len(t.F32)
	case TensorBufferF64:
		return len(t.F64)
	}
	return 0
}

var (
	u8ListLoggable  = types.NewListLoggable[[]uint8](tensorBufferName, types.NewUint8Loggable[uint8](tensorBufferName))
	u16ListLoggable = types.NewListLoggable[[]uint16](tensorBufferName, types.NewUint16Loggable[uint16](tensorBufferName))
	u32ListLoggable = types.NewListLoggable[[]uint32](tensorBufferName, types.NewUint32Loggable[uint32](tensorBufferName))
	u64ListLoggable = types.NewListLoggable[[]uint64](tensorBufferName, types.NewUint64Loggable[uint64](tensorBufferName))
	i8ListLoggable  = types.NewListLoggable[[]int8](tensorBufferName, types.NewInt8Loggable[int8](tensorBufferName))
	i16ListLoggable = types.NewListLoggable[[]int16](tensorBufferName, types.NewInt16Loggable[int16](tensorBufferName))
	i32ListLoggable = types.NewListLoggable[[]int32](tensorBufferName, types.NewInt32Loggable[int32](tensorBufferName))
	i64ListLoggable = types.NewListLoggable[[]int64](tensorBufferName, types.NewInt64Loggable[int64](tensorBufferName))
	f32ListLoggable = types.NewListLoggable[[]float32](tensorBufferName, types.NewFloat32Loggable[float32](tensorBufferName))
	f64ListLoggable = types.NewListLoggable[[]float64](tensorBufferName, types.NewFloat64Loggable[float64](tensorBufferName))
)

const tensorBufferName = "vr.datatypes.TensorBuffer"

var tensorBufferType = types.DenseUnionOf(
	types.Required("U8", u8ListLoggable.ArrowDatatype()),
	types.Required("U16", u16ListLoggable.ArrowDatatype()),
	types.Required("U32", u32ListLoggable.ArrowDatatype()),
	types.Required("U64", u64ListLoggable.ArrowDatatype()),
	types.Required("I8", i8ListLoggable.ArrowDatatype()),
	types.Required("I16", i16ListLoggable.ArrowDatatype()),
	types.Required("I32", i32ListLoggable.ArrowDatatype()),
	types.Required("I64", i64ListLoggable.ArrowDatatype()),
	types.Required("F32", f32ListLoggable.ArrowDatatype()),
	types.Required("F64", f64ListLoggable.ArrowDatatype()),
)

var TensorBufferLoggable = types.NewCompositeLoggable(tensorBufferName, tensorBufferType, fillTensorBuffer, decodeTensorBuffer)

func fillTensorBuffer(b array.Builder, elems []*TensorBuffer) error {
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
		case TensorBufferU8:
			err = types.AppendVariant(ub, code, u8ListLoggable, e.U8)
		case TensorBufferU16:
			err = types.AppendVariant(ub, code, u16ListLoggable, e.U16)
		case TensorBufferU32:
			err = types.AppendVariant(ub, code, u32ListLoggable, e.U32)
		case TensorBufferU64:
			err = types.AppendVariant(ub, code, u64ListLoggable, e.U64)
		case TensorBufferI8:
			err = types.AppendVariant(ub, code, i8ListLoggable, e.I8)
		case TensorBufferI16:
			err = types.AppendVariant(ub, code, i16ListLoggable, e.I16)
		case TensorBufferI32:
			err = types.AppendVariant(ub, code, i32ListLoggable, e.I32)
		case TensorBufferI64:
			err = types.AppendVariant(ub, code, i64ListLoggable, e.I64)
		case TensorBufferF32:
			err = types.AppendVariant(ub, code, f32ListLoggable, e.F32)
		case TensorBufferF64:
			err = types.AppendVariant(ub, code, f64ListLoggable, e.F64)
		default:
			err = fmt.Errorf("%w: buffer kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// bufferGetter resolves a value offset within one union child.
type bufferGetter func(off int) (TensorBuffer, error)

func addVariant[E any](getters map[arrow.UnionTypeCode]bufferGetter, u *array.DenseUnion, kind TensorBufferKind, l types.Loggable[[]E], wrap func([]E) TensorBuffer) error {
	vals, err := types.DecodeVariant(u, arrow.UnionTypeCode(kind), l)
	if err != nil {
		return err
	}
	getters[arrow.UnionTypeCode(kind)] = func(off int) (TensorBuffer, error) {
		v, err := types.Require(vals, kind.String(), off)
		if err != nil {
			return TensorBuffer{}, err
		}
		return wrap(v), nil
	}
	return nil
}

func decodeTensorBuffer(arr arrow.Array) ([]*TensorBuffer, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	g := make(map[arrow.UnionTypeCode]bufferGetter, len(tensorBufferKindNames))
	err = errors.Join(
		addVariant(g, u, TensorBufferU8, u8ListLoggable, func(v []uint8) TensorBuffer { return TensorBuffer{Kind: TensorBufferU8, U8: v} }),
		addVariant(g, u, TensorBufferU16, u16ListLoggable, func(v []uint16) TensorBuffer { return TensorBuffer{Kind: TensorBufferU16, U16: v} }),
		addVariant(g, u, TensorBufferU32, u32ListLoggable, func(v []uint32) TensorBuffer { return TensorBuffer{Kind: TensorBufferU32, U32: v} }),
		addVariant(g, u, TensorBufferU64, u64ListLoggable, func(v []uint64) TensorBuffer { return TensorBuffer{Kind: TensorBufferU64, U64: v} }),
		addVariant(g, u, TensorBufferI8, i8ListLoggable, func(v []int8) TensorBuffer { return TensorBuffer{Kind: TensorBufferI8, I8: v} }),
		addVariant(g, u, TensorBufferI16, i16ListLoggable, func(v []int16) TensorBuffer { return TensorBuffer{Kind: TensorBufferI16, I16: v} }),
		addVariant(g, u, TensorBufferI32, i32ListLoggable, func(v []int32) TensorBuffer { return TensorBuffer{Kind: TensorBufferI32, I32: v} }),
		addVariant(g, u, TensorBufferI64, i64ListLoggable, func(v []int64) TensorBuffer { return TensorBuffer{Kind: TensorBufferI64, I64: v} }),
		addVariant(g, u, TensorBufferF32, f32ListLoggable, func(v []float32) TensorBuffer { return TensorBuffer{Kind: TensorBufferF32, F32: v} }),
		addVariant(g, u, TensorBufferF64, f64ListLoggable, func(v []float64) TensorBuffer { return TensorBuffer{Kind: TensorBufferF64, F64: v} }),
	)
	if err != nil {
		return nil, err
	}
	out := make([]*TensorBuffer, u.Len())
	for i := range out {
		code := u.TypeCode(i)
		if code == 0 {
			continue
		}
		get, ok := g[code]
		if !ok {
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
		v, err := get(int(u.ValueOffset(i)))
		if err != nil {
			return nil, err
		}
		out[i] = &v
	}
	return out, nil
}

// ErrShapeMismatch is returned when a tensor's shape does not account for
// every buffer element.
var ErrShapeMismatch = errors.New("tensor shape does not match buffer length")

// TensorData is an n-dimensional array.
type TensorData struct {
	Shape  []TensorDimension
	Buffer TensorBuffer
}

// NumElements returns the product of the dimension sizes.
func (t TensorData) NumElements() uint64 {
	if len(t.Shape) == 0 {
		return 0
	}
	n := uint64(1)
	for _, d := range t.Shape {
		n *= d.Size
	}
	return n
}

// Validate checks the shape against the buffer length.
func (t TensorData) Validate() error {
	if got, want := uint64(t.Buffer.Len()), t.NumElements(); got != want {
		return fmt.Errorf("%w: shape holds %d elements, buffer has %d", ErrShapeMismatch, want, got)
	}
	return nil
}

var tensorShapeLoggable = types.NewListLoggable[[]TensorDimension]("vr.datatypes.TensorData", TensorDimensionLoggable)

var tensorDataType = arrow.StructOf(
	types.Required("shape", tensorShapeLoggable.ArrowDatatype()),
	types.Required("buffer", tensorBufferType),
)

var TensorDataLoggable = types.NewCompositeLoggable("vr.datatypes.TensorData", tensorDataType, fillTensorData, decodeTensorData)

func fillTensorData(b array.Builder, elems []*TensorData) error {
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
		if err := types.AppendOne(tensorShapeLoggable, sb.FieldBuilder(0), e.Shape); err != nil {
			return err
		}
		if err := types.AppendOne(TensorBufferLoggable, sb.FieldBuilder(1), e.Buffer); err != nil {
			return err
		}
	}
	return nil
}

func decodeTensorData(arr arrow.Array) ([]*TensorData, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	shapes, err := types.DecodeField(st, "shape", tensorShapeLoggable)
	if err != nil {
		return nil, err
	}
	buffers, err := types.DecodeField(st, "buffer", TensorBufferLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*TensorData, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		shape, err := types.Require(shapes, "shape", i)
		if err != nil {
			return nil, err
		}
		buf, err := types.Require(buffers, "buffer", i)
		if err != nil {
			return nil, err
		}
		out[i] = &TensorData{Shape: shape, Buffer: buf}
	}
	return out, nil
}
