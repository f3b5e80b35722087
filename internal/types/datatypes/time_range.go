package datatypes

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/banshee-data/vrtypes/internal/types"
)

// TimeRangeBoundaryKind selects how a boundary is resolved.
type TimeRangeBoundaryKind uint8

const (
	// BoundaryCursorRelative is an offset from the time cursor.
	BoundaryCursorRelative TimeRangeBoundaryKind = 1
	// BoundaryAbsolute is a fixed point on the timeline.
	BoundaryAbsolute TimeRangeBoundaryKind = 2
	// BoundaryInfinite extends to the start or end of the timeline.
	BoundaryInfinite TimeRangeBoundaryKind = 3
)

// TimeRangeBoundary is one end of a visible time range.
type TimeRangeBoundary struct {
	Kind TimeRangeBoundaryKind
	Time TimeInt
}

func CursorRelative(offset TimeInt) TimeRangeBoundary {
	return TimeRangeBoundary{Kind: BoundaryCursorRelative, Time: offset}
}

func Absolute(t TimeInt) TimeRangeBoundary {
	return TimeRangeBoundary{Kind: BoundaryAbsolute, Time: t}
}

func Infinite() TimeRangeBoundary {
	return TimeRangeBoundary{Kind: BoundaryInfinite}
}

// Resolve returns the boundary as a timeline point. Infinite resolves to
// math.MinInt64 for a start and math.MaxInt64 for an end.
func (b TimeRangeBoundary) Resolve(cursor TimeInt, start bool) TimeInt {
	switch b.Kind {
	case BoundaryCursorRelative:
		return cursor + b.Time
	case BoundaryAbsolute:
		return b.Time
	}
	if start {
		return math.MinInt64
	}
	return math.MaxInt64
}

var timeRangeBoundaryType = types.DenseUnionOf(
	types.Required("CursorRelative", arrow.PrimitiveTypes.Int64),
	types.Required("Absolute", arrow.PrimitiveTypes.Int64),
	types.Optional("Infinite", arrow.Null),
)

var TimeRangeBoundaryLoggable = types.NewCompositeLoggable("vr.datatypes.TimeRangeBoundary", timeRangeBoundaryType, fillTimeRangeBoundary, decodeTimeRangeBoundary)

func fillTimeRangeBoundary(b array.Builder, elems []*TimeRangeBoundary) error {
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
		case BoundaryCursorRelative, BoundaryAbsolute:
			err = types.AppendVariant(ub, code, TimeIntLoggable, e.Time)
		case BoundaryInfinite:
			ub.Append(code)
			ub.Child(int(code)).AppendNull()
		default:
			err = fmt.Errorf("%w: boundary kind %d at index %d", types.ErrUnknownVariant, e.Kind, i)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeTimeRangeBoundary(arr arrow.Array) ([]*TimeRangeBoundary, error) {
	u, err := types.UnionArray(arr)
	if err != nil {
		return nil, err
	}
	relative, err := types.DecodeVariant(u, arrow.UnionTypeCode(BoundaryCursorRelative), TimeIntLoggable)
	if err != nil {
		return nil, err
	}
	absolute, err := types.DecodeVariant(u, arrow.UnionTypeCode(BoundaryAbsolute), TimeIntLoggable)
	if err != nil {
		return nil, err
	}
	if u.NumFields() <= int(BoundaryInfinite) {
		return nil, fmt.Errorf("%w: type code %d", types.ErrUnknownVariant, BoundaryInfinite)
	}
	out := make([]*TimeRangeBoundary, u.Len())
	for i := range out {
		off := int(u.ValueOffset(i))
		switch code := u.TypeCode(i); code {
		case 0:
		case arrow.UnionTypeCode(BoundaryCursorRelative):
			t, err := types.Require(relative, "CursorRelative", off)
			if err != nil {
				return nil, err
			}
			out[i] = &TimeRangeBoundary{Kind: BoundaryCursorRelative, Time: t}
		case arrow.UnionTypeCode(BoundaryAbsolute):
			t, err := types.Require(absolute, "Absolute", off)
			if err != nil {
				return nil, err
			}
			out[i] = &TimeRangeBoundary{Kind: BoundaryAbsolute, Time: t}
		case arrow.UnionTypeCode(BoundaryInfinite):
			out[i] = &TimeRangeBoundary{Kind: BoundaryInfinite}
		default:
			return nil, fmt.Errorf("%w: type code %d at index %d", types.ErrUnknownVariant, code, i)
		}
	}
	return out, nil
}

// TimeRange is a span of a timeline given by two boundaries.
type TimeRange struct {
	Start TimeRangeBoundary
	End   TimeRangeBoundary
}

// Resolve returns the inclusive [min, max] span around cursor.
func (r TimeRange) Resolve(cursor TimeInt) (TimeInt, TimeInt) {
	return r.Start.Resolve(cursor, true), r.End.Resolve(cursor, false)
}

var timeRangeType = arrow.StructOf(
	types.Required("start", timeRangeBoundaryType),
	types.Required("end", timeRangeBoundaryType),
)

var TimeRangeLoggable = types.NewCompositeLoggable("vr.datatypes.TimeRange", timeRangeType, fillTimeRange, decodeTimeRange)

func fillTimeRange(b array.Builder, elems []*TimeRange) error {
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
		if err := types.AppendOne(TimeRangeBoundaryLoggable, sb.FieldBuilder(0), e.Start); err != nil {
			return err
		}
		if err := types.AppendOne(TimeRangeBoundaryLoggable, sb.FieldBuilder(1), e.End); err != nil {
			return err
		}
	}
	return nil
}

func decodeTimeRange(arr arrow.Array) ([]*TimeRange, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	starts, err := types.DecodeField(st, "start", TimeRangeBoundaryLoggable)
	if err != nil {
		return nil, err
	}
	ends, err := types.DecodeField(st, "end", TimeRangeBoundaryLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*TimeRange, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		start, err := types.Require(starts, "start", i)
		if err != nil {
			return nil, err
		}
		end, err := types.Require(ends, "end", i)
		if err != nil {
			return nil, err
		}
		out[i] = &TimeRange{Start: start, End: end}
	}
	return out, nil
}

// VisibleTimeRange is the time range shown for one timeline.
type VisibleTimeRange struct {
	Timeline Utf8
	Range    TimeRange
}

var visibleTimeRangeType = arrow.StructOf(
	types.Required("timeline", arrow.BinaryTypes.String),
	types.Required("range", timeRangeType),
)

var VisibleTimeRangeLoggable = types.NewCompositeLoggable("vr.datatypes.VisibleTimeRange", visibleTimeRangeType, fillVisibleTimeRange, decodeVisibleTimeRange)

func fillVisibleTimeRange(b array.Builder, elems []*VisibleTimeRange) error {
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
		if err := types.AppendOne(Utf8Loggable, sb.FieldBuilder(0), e.Timeline); err != nil {
			return err
		}
		if err := types.AppendOne(TimeRangeLoggable, sb.FieldBuilder(1), e.Range); err != nil {
			return err
		}
	}
	return nil
}

func decodeVisibleTimeRange(arr arrow.Array) ([]*VisibleTimeRange, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	timelines, err := types.DecodeField(st, "timeline", Utf8Loggable)
	if err != nil {
		return nil, err
	}
	ranges, err := types.DecodeField(st, "range", TimeRangeLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*VisibleTimeRange, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		timeline, err := types.Require(timelines, "timeline", i)
		if err != nil {
			return nil, err
		}
		r, err := types.Require(ranges, "range", i)
		if err != nil {
			return nil, err
		}
		out[i] = &VisibleTimeRange{Timeline: timeline, Range: r}
	}
	return out, nil
}
