package types

import (
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// valueAppender is satisfied by the primitive builders (Float32Builder,
// StringBuilder, BooleanBuilder, ...).
type valueAppender[E any] interface {
	array.Builder
	Append(E)
	AppendValues([]E, []bool)
}

// valueArray is satisfied by the primitive arrays.
type valueArray[E any] interface {
	arrow.Array
	Value(int) E
}

// primitive serializes T, whose underlying type is the Arrow-native E, as a
// flat primitive column.
type primitive[T any, E any, B valueAppender[E], A valueArray[E]] struct {
	name  string
	dtype arrow.DataType
}

func (p primitive[T, E, B, A]) Name() string                  { return p.name }
func (p primitive[T, E, B, A]) ArrowDatatype() arrow.DataType { return p.dtype }

func (p primitive[T, E, B, A]) FillArrowBuilder(b array.Builder, elems []T) error {
	tb, err := BuilderAs[B](b)
	if err != nil {
		return SerializeError(p.name, err)
	}
	tb.AppendValues(reinterpret[T, E](elems), nil)
	return nil
}

func (p primitive[T, E, B, A]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	tb, err := BuilderAs[B](b)
	if err != nil {
		return SerializeError(p.name, err)
	}
	tb.Reserve(len(elems))
	for _, e := range elems {
		if e == nil {
			tb.AppendNull()
			continue
		}
		tb.Append(*(*E)(unsafe.Pointer(e)))
	}
	return nil
}

func (p primitive[T, E, B, A]) FromArrow(arr arrow.Array) ([]T, error) {
	ta, err := ArrayAs[A](arr)
	if err != nil {
		return nil, DeserializeError(p.name, "", err)
	}
	out := make([]T, ta.Len())
	flat := reinterpret[T, E](out)
	for i := range flat {
		if ta.IsNull(i) {
			return nil, DeserializeError(p.name, "", MissingAt(i))
		}
		flat[i] = ta.Value(i)
	}
	return out, nil
}

func (p primitive[T, E, B, A]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	ta, err := ArrayAs[A](arr)
	if err != nil {
		return nil, DeserializeError(p.name, "", err)
	}
	vals := make([]T, ta.Len())
	flat := reinterpret[T, E](vals)
	out := make([]*T, ta.Len())
	for i := range out {
		if ta.IsNull(i) {
			continue
		}
		flat[i] = ta.Value(i)
		out[i] = &vals[i]
	}
	return out, nil
}

func NewFloat32Loggable[T ~float32](name string) Loggable[T] {
	return primitive[T, float32, *array.Float32Builder, *array.Float32]{name, arrow.PrimitiveTypes.Float32}
}

func NewFloat64Loggable[T ~float64](name string) Loggable[T] {
	return primitive[T, float64, *array.Float64Builder, *array.Float64]{name, arrow.PrimitiveTypes.Float64}
}

func NewUint8Loggable[T ~uint8](name string) Loggable[T] {
	return primitive[T, uint8, *array.Uint8Builder, *array.Uint8]{name, arrow.PrimitiveTypes.Uint8}
}

func NewUint16Loggable[T ~uint16](name string) Loggable[T] {
	return primitive[T, uint16, *array.Uint16Builder, *array.Uint16]{name, arrow.PrimitiveTypes.Uint16}
}

func NewUint32Loggable[T ~uint32](name string) Loggable[T] {
	return primitive[T, uint32, *array.Uint32Builder, *array.Uint32]{name, arrow.PrimitiveTypes.Uint32}
}

func NewUint64Loggable[T ~uint64](name string) Loggable[T] {
	return primitive[T, uint64, *array.Uint64Builder, *array.Uint64]{name, arrow.PrimitiveTypes.Uint64}
}

func NewInt8Loggable[T ~int8](name string) Loggable[T] {
	return primitive[T, int8, *array.Int8Builder, *array.Int8]{name, arrow.PrimitiveTypes.Int8}
}

func NewInt16Loggable[T ~int16](name string) Loggable[T] {
	return primitive[T, int16, *array.Int16Builder, *array.Int16]{name, arrow.PrimitiveTypes.Int16}
}

func NewInt32Loggable[T ~int32](name string) Loggable[T] {
	return primitive[T, int32, *array.Int32Builder, *array.Int32]{name, arrow.PrimitiveTypes.Int32}
}

func NewInt64Loggable[T ~int64](name string) Loggable[T] {
	return primitive[T, int64, *array.Int64Builder, *array.Int64]{name, arrow.PrimitiveTypes.Int64}
}

func NewBoolLoggable[T ~bool](name string) Loggable[T] {
	return primitive[T, bool, *array.BooleanBuilder, *array.Boolean]{name, arrow.FixedWidthTypes.Boolean}
}

func NewStringLoggable[T ~string](name string) Loggable[T] {
	return primitive[T, string, *array.StringBuilder, *array.String]{name, arrow.BinaryTypes.String}
}
