package types

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// fixedSize serializes T, laid out in memory as [width]E, as a
// fixed-size list of E. The whole batch is flattened into the child
// builder with a single AppendValues call.
type fixedSize[T any, E any, B valueAppender[E], A valueArray[E]] struct {
	name   string
	width  int
	elem   arrow.DataType
	values func(A) []E
}

func (f fixedSize[T, E, B, A]) Name() string { return f.name }

func (f fixedSize[T, E, B, A]) ArrowDatatype() arrow.DataType {
	return FixedSizeListOf(int32(f.width), f.elem)
}

func (f fixedSize[T, E, B, A]) builders(b array.Builder) (*array.FixedSizeListBuilder, B, error) {
	var zero B
	fb, err := BuilderAs[*array.FixedSizeListBuilder](b)
	if err != nil {
		return nil, zero, err
	}
	if n := fb.Type().(*arrow.FixedSizeListType).Len(); n != int32(f.width) {
		return nil, zero, fmt.Errorf("%w: list width %d, want %d", ErrUnexpectedBuilder, n, f.width)
	}
	vb, err := BuilderAs[B](fb.ValueBuilder())
	if err != nil {
		return nil, zero, err
	}
	return fb, vb, nil
}

func (f fixedSize[T, E, B, A]) FillArrowBuilder(b array.Builder, elems []T) error {
	fb, vb, err := f.builders(b)
	if err != nil {
		return SerializeError(f.name, err)
	}
	fb.Reserve(len(elems))
	for range elems {
		fb.Append(true)
	}
	vb.AppendValues(reinterpret[T, E](elems), nil)
	return nil
}

func (f fixedSize[T, E, B, A]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	fb, vb, err := f.builders(b)
	if err != nil {
		return SerializeError(f.name, err)
	}
	fb.Reserve(len(elems))
	for _, e := range elems {
		if e == nil {
			// Also appends width nulls to the child.
			fb.AppendNull()
			continue
		}
		fb.Append(true)
		vb.AppendValues(reinterpret[T, E]([]T{*e}), nil)
	}
	return nil
}

func (f fixedSize[T, E, B, A]) child(arr arrow.Array) (*array.FixedSizeList, []E, error) {
	fl, err := ArrayAs[*array.FixedSizeList](arr)
	if err != nil {
		return nil, nil, err
	}
	if n := fl.DataType().(*arrow.FixedSizeListType).Len(); n != int32(f.width) {
		return nil, nil, fmt.Errorf("%w: list width %d, want %d", ErrUnexpectedArrowType, n, f.width)
	}
	values, err := ArrayAs[A](fl.ListValues())
	if err != nil {
		return nil, nil, err
	}
	return fl, f.values(values), nil
}

func (f fixedSize[T, E, B, A]) FromArrow(arr arrow.Array) ([]T, error) {
	fl, raw, err := f.child(arr)
	if err != nil {
		return nil, DeserializeError(f.name, "", err)
	}
	out := make([]T, fl.Len())
	flat := reinterpret[T, E](out)
	for i := 0; i < fl.Len(); i++ {
		if fl.IsNull(i) {
			return nil, DeserializeError(f.name, "", MissingAt(i))
		}
		start, _ := fl.ValueOffsets(i)
		copy(flat[i*f.width:(i+1)*f.width], raw[start:start+int64(f.width)])
	}
	return out, nil
}

func (f fixedSize[T, E, B, A]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	fl, raw, err := f.child(arr)
	if err != nil {
		return nil, DeserializeError(f.name, "", err)
	}
	vals := make([]T, fl.Len())
	flat := reinterpret[T, E](vals)
	out := make([]*T, fl.Len())
	for i := range out {
		if fl.IsNull(i) {
			continue
		}
		start, _ := fl.ValueOffsets(i)
		copy(flat[i*f.width:(i+1)*f.width], raw[start:start+int64(f.width)])
		out[i] = &vals[i]
	}
	return out, nil
}

// NewFloat32FixedSizeLoggable serializes T, laid out as [width]float32.
func NewFloat32FixedSizeLoggable[T any](name string, width int) Loggable[T] {
	return fixedSize[T, float32, *array.Float32Builder, *array.Float32]{
		name: name, width: width, elem: arrow.PrimitiveTypes.Float32,
		values: (*array.Float32).Float32Values,
	}
}

// NewFloat64FixedSizeLoggable serializes T, laid out as [width]float64.
func NewFloat64FixedSizeLoggable[T any](name string, width int) Loggable[T] {
	return fixedSize[T, float64, *array.Float64Builder, *array.Float64]{
		name: name, width: width, elem: arrow.PrimitiveTypes.Float64,
		values: (*array.Float64).Float64Values,
	}
}

// NewUint32FixedSizeLoggable serializes T, laid out as [width]uint32.
func NewUint32FixedSizeLoggable[T any](name string, width int) Loggable[T] {
	return fixedSize[T, uint32, *array.Uint32Builder, *array.Uint32]{
		name: name, width: width, elem: arrow.PrimitiveTypes.Uint32,
		values: (*array.Uint32).Uint32Values,
	}
}

// NewUint8FixedSizeLoggable serializes T, laid out as [width]uint8.
func NewUint8FixedSizeLoggable[T any](name string, width int) Loggable[T] {
	return fixedSize[T, uint8, *array.Uint8Builder, *array.Uint8]{
		name: name, width: width, elem: arrow.PrimitiveTypes.Uint8,
		values: (*array.Uint8).Uint8Values,
	}
}

// validated wraps a loggable whose values are restricted to a known set.
type validated[T any] struct {
	Loggable[T]
	valid func(T) bool
}

// NewEnumLoggable serializes a uint8 enum, rejecting values valid refuses
// in both directions.
func NewEnumLoggable[T ~uint8](name string, valid func(T) bool) Loggable[T] {
	return validated[T]{Loggable: NewUint8Loggable[T](name), valid: valid}
}

// NewValidatedLoggable restricts inner to the values valid accepts. Other
// values fail with ErrInvalidEnum on both encode and decode.
func NewValidatedLoggable[T any](inner Loggable[T], valid func(T) bool) Loggable[T] {
	return validated[T]{Loggable: inner, valid: valid}
}

func (e validated[T]) check(elems []T) error {
	for i, v := range elems {
		if !e.valid(v) {
			return fmt.Errorf("%w %v at index %d", ErrInvalidEnum, v, i)
		}
	}
	return nil
}

func (e validated[T]) FillArrowBuilder(b array.Builder, elems []T) error {
	if err := e.check(elems); err != nil {
		return SerializeError(e.Name(), err)
	}
	return e.Loggable.FillArrowBuilder(b, elems)
}

func (e validated[T]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	for i, v := range elems {
		if v != nil && !e.valid(*v) {
			return SerializeError(e.Name(), fmt.Errorf("%w %v at index %d", ErrInvalidEnum, *v, i))
		}
	}
	return e.Loggable.FillArrowBuilderOpt(b, elems)
}

func (e validated[T]) FromArrow(arr arrow.Array) ([]T, error) {
	out, err := e.Loggable.FromArrow(arr)
	if err != nil {
		return nil, err
	}
	if err := e.check(out); err != nil {
		return nil, DeserializeError(e.Name(), "", err)
	}
	return out, nil
}

func (e validated[T]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	out, err := e.Loggable.FromArrowOpt(arr)
	if err != nil {
		return nil, err
	}
	for i, v := range out {
		if v != nil && !e.valid(*v) {
			return nil, DeserializeError(e.Name(), "", fmt.Errorf("%w %v at index %d", ErrInvalidEnum, *v, i))
		}
	}
	return out, nil
}

// list serializes T, a slice of E, as a variable-length list of E.
type list[T ~[]E, E any] struct {
	name  string
	inner Loggable[E]
}

// NewListLoggable serializes slices of E using inner for the elements.
func NewListLoggable[T ~[]E, E any](name string, inner Loggable[E]) Loggable[T] {
	return list[T, E]{name: name, inner: inner}
}

func (l list[T, E]) Name() string { return l.name }

func (l list[T, E]) ArrowDatatype() arrow.DataType {
	return ListOf(l.inner.ArrowDatatype())
}

func (l list[T, E]) FillArrowBuilder(b array.Builder, elems []T) error {
	lb, err := BuilderAs[*array.ListBuilder](b)
	if err != nil {
		return SerializeError(l.name, err)
	}
	lb.Reserve(len(elems))
	for _, e := range elems {
		lb.Append(true)
		if err := l.inner.FillArrowBuilder(lb.ValueBuilder(), []E(e)); err != nil {
			return SerializeError(l.name, err)
		}
	}
	return nil
}

func (l list[T, E]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	lb, err := BuilderAs[*array.ListBuilder](b)
	if err != nil {
		return SerializeError(l.name, err)
	}
	lb.Reserve(len(elems))
	for _, e := range elems {
		if e == nil {
			lb.AppendNull()
			continue
		}
		lb.Append(true)
		if err := l.inner.FillArrowBuilder(lb.ValueBuilder(), []E(*e)); err != nil {
			return SerializeError(l.name, err)
		}
	}
	return nil
}

func (l list[T, E]) decode(arr arrow.Array) (*array.List, []E, error) {
	la, err := ArrayAs[*array.List](arr)
	if err != nil {
		return nil, nil, DeserializeError(l.name, "", err)
	}
	values, err := l.inner.FromArrow(la.ListValues())
	if err != nil {
		return nil, nil, DeserializeError(l.name, "", err)
	}
	return la, values, nil
}

func (l list[T, E]) FromArrow(arr arrow.Array) ([]T, error) {
	la, values, err := l.decode(arr)
	if err != nil {
		return nil, err
	}
	out := make([]T, la.Len())
	for i := range out {
		if la.IsNull(i) {
			return nil, DeserializeError(l.name, "", MissingAt(i))
		}
		start, end := la.ValueOffsets(i)
		cp := make([]E, end-start)
		copy(cp, values[start:end])
		out[i] = T(cp)
	}
	return out, nil
}

func (l list[T, E]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	la, values, err := l.decode(arr)
	if err != nil {
		return nil, err
	}
	out := make([]*T, la.Len())
	for i := range out {
		if la.IsNull(i) {
			continue
		}
		start, end := la.ValueOffsets(i)
		cp := make([]E, end-start)
		copy(cp, values[start:end])
		v := T(cp)
		out[i] = &v
	}
	return out, nil
}

// renamed gives a datatype's codec a component name. T must share D's
// memory layout; batches are reinterpreted, not copied.
type renamed[T, D any] struct {
	name  string
	inner Loggable[D]
}

// Rename returns a loggable for T, a named type over D.
func Rename[T, D any](name string, inner Loggable[D]) Loggable[T] {
	return renamed[T, D]{name: name, inner: inner}
}

func (r renamed[T, D]) Name() string                  { return r.name }
func (r renamed[T, D]) ArrowDatatype() arrow.DataType { return r.inner.ArrowDatatype() }

func (r renamed[T, D]) FillArrowBuilder(b array.Builder, elems []T) error {
	return SerializeError(r.name, r.inner.FillArrowBuilder(b, reinterpret[T, D](elems)))
}

func (r renamed[T, D]) FillArrowBuilderOpt(b array.Builder, elems []*T) error {
	return SerializeError(r.name, r.inner.FillArrowBuilderOpt(b, reinterpret[*T, *D](elems)))
}

func (r renamed[T, D]) FromArrow(arr arrow.Array) ([]T, error) {
	out, err := r.inner.FromArrow(arr)
	if err != nil {
		return nil, DeserializeError(r.name, "", err)
	}
	return reinterpret[D, T](out), nil
}

func (r renamed[T, D]) FromArrowOpt(arr arrow.Array) ([]*T, error) {
	out, err := r.inner.FromArrowOpt(arr)
	if err != nil {
		return nil, DeserializeError(r.name, "", err)
	}
	return reinterpret[*D, *T](out), nil
}
