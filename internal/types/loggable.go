// Package types defines the serialization contract shared by every
// datatype and component: a unique name, a declared Arrow datatype, and a
// pair of routines moving typed Go values in and out of Arrow arrays.
//
// Required values are written as dense runs without a validity bitmap.
// Optional values (the *T forms) encode presence through the validity
// bitmap, or through the null-marker variant for unions. Every call is
// all-or-nothing: on error the returned array is nil and the caller owns
// nothing.
package types

import (
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Loggable is implemented once per datatype and component.
type Loggable[T any] interface {
	// Name is the unique identifier, e.g. "vr.components.Position3D".
	Name() string

	// ArrowDatatype is the declared columnar layout.
	ArrowDatatype() arrow.DataType

	// FillArrowBuilder appends elems to b. b must build ArrowDatatype.
	FillArrowBuilder(b array.Builder, elems []T) error

	// FillArrowBuilderOpt appends elems to b, writing nil entries as nulls.
	FillArrowBuilderOpt(b array.Builder, elems []*T) error

	// FromArrow decodes arr, failing if any slot is null.
	FromArrow(arr arrow.Array) ([]T, error)

	// FromArrowOpt decodes arr, returning nil for null slots.
	FromArrowOpt(arr arrow.Array) ([]*T, error)
}

// ToArrow serializes elems into a new array of l's declared datatype.
// A nil allocator selects the default Go allocator. Zero elements yield a
// valid empty array.
func ToArrow[T any](mem memory.Allocator, l Loggable[T], elems []T) (arrow.Array, error) {
	b := newBuilder(mem, l.ArrowDatatype())
	defer b.Release()
	if err := l.FillArrowBuilder(b, elems); err != nil {
		return nil, err
	}
	return b.NewArray(), nil
}

// ToArrowOpt serializes elems, encoding nil entries as nulls.
func ToArrowOpt[T any](mem memory.Allocator, l Loggable[T], elems []*T) (arrow.Array, error) {
	b := newBuilder(mem, l.ArrowDatatype())
	defer b.Release()
	if err := l.FillArrowBuilderOpt(b, elems); err != nil {
		return nil, err
	}
	return b.NewArray(), nil
}

func newBuilder(mem memory.Allocator, dt arrow.DataType) array.Builder {
	if mem == nil {
		mem = memory.DefaultAllocator
	}
	return array.NewBuilder(mem, dt)
}

// ComponentName is the column name of a component inside a chunk.
type ComponentName string

func (n ComponentName) String() string { return string(n) }

// ComponentBatch is a type-erased run of values for one component.
type ComponentBatch interface {
	ComponentName() ComponentName
	ArrowDatatype() arrow.DataType
	Len() int
	FillArrowBuilder(b array.Builder) error
	ToArrow(mem memory.Allocator) (arrow.Array, error)
}

// Batch binds values to the loggable that serializes them.
type Batch[T any] struct {
	loggable Loggable[T]
	values   []T
}

// NewBatch returns a ComponentBatch over values.
func NewBatch[T any](l Loggable[T], values []T) *Batch[T] {
	return &Batch[T]{loggable: l, values: values}
}

func (b *Batch[T]) ComponentName() ComponentName { return ComponentName(b.loggable.Name()) }
func (b *Batch[T]) ArrowDatatype() arrow.DataType { return b.loggable.ArrowDatatype() }
func (b *Batch[T]) Len() int                      { return len(b.values) }
func (b *Batch[T]) Values() []T                   { return b.values }

func (b *Batch[T]) FillArrowBuilder(builder array.Builder) error {
	return b.loggable.FillArrowBuilder(builder, b.values)
}

func (b *Batch[T]) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	return ToArrow(mem, b.loggable, b.values)
}

// Maybe returns a batch of one value, or nil when v is nil.
func Maybe[T any](l Loggable[T], v *T) ComponentBatch {
	if v == nil {
		return nil
	}
	return NewBatch(l, []T{*v})
}

// Many returns a batch over values, or nil when there are none.
func Many[T any](l Loggable[T], values []T) ComponentBatch {
	if len(values) == 0 {
		return nil
	}
	return NewBatch(l, values)
}

// IndicatorBatch marks which archetype produced a set of components. It
// carries no data: a single null of the null datatype.
type IndicatorBatch struct {
	name ComponentName
}

// Indicator returns the indicator component for the named archetype.
func Indicator(archetype string) *IndicatorBatch {
	return &IndicatorBatch{name: IndicatorName(archetype)}
}

// IndicatorName maps "vr.archetypes.Points3D" to
// "vr.components.Points3DIndicator" and
// "vr.blueprint.archetypes.Background" to
// "vr.blueprint.components.BackgroundIndicator". A bare name is placed
// under "vr.components.".
func IndicatorName(archetype string) ComponentName {
	if prefix, short, ok := strings.Cut(archetype, "archetypes."); ok {
		return ComponentName(prefix + "components." + short + "Indicator")
	}
	return ComponentName("vr.components." + archetype + "Indicator")
}

func (b *IndicatorBatch) ComponentName() ComponentName { return b.name }
func (b *IndicatorBatch) ArrowDatatype() arrow.DataType { return arrow.Null }
func (b *IndicatorBatch) Len() int                      { return 1 }

func (b *IndicatorBatch) FillArrowBuilder(builder array.Builder) error {
	nb, err := BuilderAs[*array.NullBuilder](builder)
	if err != nil {
		return SerializeError(string(b.name), err)
	}
	nb.AppendNull()
	return nil
}

func (b *IndicatorBatch) ToArrow(mem memory.Allocator) (arrow.Array, error) {
	builder := newBuilder(mem, arrow.Null)
	defer builder.Release()
	if err := b.FillArrowBuilder(builder); err != nil {
		return nil, err
	}
	return builder.NewArray(), nil
}
