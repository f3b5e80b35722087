package types

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// composite adapts a pair of nullable fill/decode routines into a full
// Loggable. Structs and unions are written this way: the required forms
// go through the optional ones.
type composite[T any] struct {
	name   string
	dtype  arrow.DataType
	fill   func(b array.Builder, elems []*T) error
	decode func(arr arrow.Array) ([]*T, error)
}

// NewCompositeLoggable builds a Loggable from nullable routines.
func NewCompositeLoggable[T any](
	name string,
	dtype arrow.DataType,
	fill func(b array.Builder, elems []*T) error,
	decode func(arr arrow.Array) ([]*T, error),
) Loggable[T] {
	return composite[T]{name: name, dtype: dtype, fill: fill, decode: decode}
}

func (c composite[T]) Name() string                  { return c.name }
func (c composite[T]) ArrowDatatype() arrow.DataType { return c.dtype }

func (c composite[T]) FillArrowBuilder(b array.Builder, elems []T) error {
	return c.FillArrowBuilderOpt(b, Pointers(elems))
}

func (c composite[T]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	if err := CheckBuilderType(b, c.dtype); err != nil {
		return SerializeError(c.name, err)
	}
	return SerializeError(c.name, c.fill(b, elems))
}

func (c composite[T]) FromArrow(arr arrow.Array) ([]T, error) {
	opt, err := c.FromArrowOpt(arr)
	if err != nil {
		return nil, err
	}
	out, err := RequireAll(opt)
	if err != nil {
		return nil, DeserializeError(c.name, "", err)
	}
	return out, nil
}

func (c composite[T]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	if isNil(arr) {
		return nil, DeserializeError(c.name, "", ErrNilArray)
	}
	if !arrow.TypeEqual(arr.DataType(), c.dtype) {
		return nil, DeserializeError(c.name, "", fmt.Errorf("%w: got %s, want %s", ErrUnexpectedArrowType, arr.DataType(), c.dtype))
	}
	out, err := c.decode(arr)
	if err != nil {
		return nil, DeserializeError(c.name, "", err)
	}
	return out, nil
}

// AppendOne appends a single required value to a child builder.
func AppendOne[T any](l Loggable[T], b array.Builder, v T) error {
	return l.FillArrowBuilder(b, []T{v})
}

// AppendMaybe appends a single optional value to a child builder.
func AppendMaybe[T any](l Loggable[T], b array.Builder, v *T) error {
	return l.FillArrowBuilderOpt(b, []*T{v})
}

// DecodeField decodes the named child of a struct array. Rows are aligned
// with the parent.
func DecodeField[T any](st *array.Struct, field string, l Loggable[T]) ([]*T, error) {
	child, err := StructField(st, field)
	if err != nil {
		return nil, err
	}
	vals, err := l.FromArrowOpt(child)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", field, err)
	}
	return vals, nil
}

// Require dereferences a decoded required member, reporting its field.
func Require[T any](vals []*T, field string, i int) (T, error) {
	var zero T
	if vals[i] == nil {
		return zero, fmt.Errorf("field %s: %w", field, MissingAt(i))
	}
	return *vals[i], nil
}

// UnionBuilder asserts a dense union builder.
func UnionBuilder(b array.Builder) (*array.DenseUnionBuilder, error) {
	return BuilderAs[*array.DenseUnionBuilder](b)
}

// AppendVariant appends one value under the given type code.
func AppendVariant[T any](ub *array.DenseUnionBuilder, code arrow.UnionTypeCode, l Loggable[T], v T) error {
	ub.Append(code)
	return AppendOne(l, ub.Child(int(code)), v)
}

// UnionArray asserts a dense union array.
func UnionArray(arr arrow.Array) (*array.DenseUnion, error) {
	return ArrayAs[*array.DenseUnion](arr)
}

// DecodeVariant decodes every value of one union child. Index the result
// with the union's ValueOffset.
func DecodeVariant[T any](u *array.DenseUnion, code arrow.UnionTypeCode, l Loggable[T]) ([]*T, error) {
	if int(code) >= u.NumFields() {
		return nil, fmt.Errorf("%w: type code %d", ErrUnknownVariant, code)
	}
	vals, err := l.FromArrowOpt(u.Field(int(code)))
	if err != nil {
		return nil, fmt.Errorf("variant %d: %w", code, err)
	}
	return vals, nil
}
