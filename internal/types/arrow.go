package types

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// NullMarkersField is the first variant of every union. A slot pointing
// at it is a null union value, since unions carry no validity bitmap.
const NullMarkersField = "_null_markers"

// Required returns a non-nullable field.
func Required(name string, t arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: t, Nullable: false}
}

// Optional returns a nullable field.
func Optional(name string, t arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: t, Nullable: true}
}

// FixedSizeListOf returns a fixed-size list of n non-null elements.
func FixedSizeListOf(n int32, elem arrow.DataType) *arrow.FixedSizeListType {
	return arrow.FixedSizeListOfField(n, Required("item", elem))
}

// ListOf returns a variable-length list of non-null elements.
func ListOf(elem arrow.DataType) *arrow.ListType {
	return arrow.ListOfField(Required("item", elem))
}

// DenseUnionOf returns a dense union whose first variant is the null
// marker and whose remaining variants are the given fields, with type
// codes assigned in order starting at 1.
func DenseUnionOf(variants ...arrow.Field) *arrow.DenseUnionType {
	fields := make([]arrow.Field, 0, len(variants)+1)
	fields = append(fields, Optional(NullMarkersField, arrow.Null))
	fields = append(fields, variants...)
	codes := make([]arrow.UnionTypeCode, len(fields))
	for i := range codes {
		codes[i] = arrow.UnionTypeCode(i)
	}
	return arrow.DenseUnionOf(fields, codes)
}

// BuilderAs asserts that b is a non-nil builder of type B.
func BuilderAs[B array.Builder](b array.Builder) (B, error) {
	var zero B
	if isNil(b) {
		return zero, ErrNilBuilder
	}
	typed, ok := b.(B)
	if !ok {
		return zero, fmt.Errorf("%w: got %T, want %T", ErrUnexpectedBuilder, b, zero)
	}
	return typed, nil
}

// ArrayAs asserts that arr is a non-nil array of type A.
func ArrayAs[A arrow.Array](arr arrow.Array) (A, error) {
	var zero A
	if isNil(arr) {
		return zero, ErrNilArray
	}
	typed, ok := arr.(A)
	if !ok {
		return zero, fmt.Errorf("%w: got %s", ErrUnexpectedArrowType, arr.DataType())
	}
	return typed, nil
}

// StructField looks up a child of a struct array by name.
func StructField(st *array.Struct, name string) (arrow.Array, error) {
	idx, ok := st.DataType().(*arrow.StructType).FieldIdx(name)
	if !ok {
		return nil, fmt.Errorf("%w: struct has no field %q", ErrUnexpectedArrowType, name)
	}
	return st.Field(idx), nil
}

// CheckBuilderType rejects a builder whose datatype differs from want.
func CheckBuilderType(b array.Builder, want arrow.DataType) error {
	if isNil(b) {
		return ErrNilBuilder
	}
	if !arrow.TypeEqual(b.Type(), want) {
		return fmt.Errorf("%w: builder has %s, want %s", ErrUnexpectedBuilder, b.Type(), want)
	}
	return nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice:
		return rv.IsNil()
	}
	return false
}

// reinterpret views a slice of From as a slice of To without copying.
// Both element types must share memory layout (checked by layout tests).
func reinterpret[From, To any](s []From) []To {
	if len(s) == 0 {
		return []To{}
	}
	var f From
	var t To
	n := len(s) * int(unsafe.Sizeof(f)) / int(unsafe.Sizeof(t))
	return unsafe.Slice((*To)(unsafe.Pointer(unsafe.SliceData(s))), n)
}

// Pointers returns a slice of pointers into elems.
func Pointers[T any](elems []T) []*T {
	out := make([]*T, len(elems))
	for i := range elems {
		out[i] = &elems[i]
	}
	return out
}

// RequireAll dereferences every pointer, failing on the first nil.
func RequireAll[T any](elems []*T) ([]T, error) {
	out := make([]T, len(elems))
	for i, p := range elems {
		if p == nil {
			return nil, MissingAt(i)
		}
		out[i] = *p
	}
	return out, nil
}
