// Package chunk groups component cells for one entity into columnar
// records. A chunk has one row per logged event: a row id, a value per
// timeline, and a list cell per component. Chunks convert to and from
// arrow.Record and travel as framed Arrow IPC streams.
package chunk

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/google/uuid"

	"github.com/banshee-data/vrtypes/internal/types"
)

// Column and schema metadata keys.
const (
	RowIDColumn = "vr.row_id"

	MetaEntityPath   = "vr.entity_path"
	MetaChunkID      = "vr.chunk_id"
	MetaHeapSize     = "vr.heap_size_bytes"
	MetaKind         = "vr.kind"
	MetaComponent    = "vr.component"
	MetaTimelineKind = "vr.timeline_kind"

	kindControl = "control"
	kindTime    = "time"
	kindData    = "data"
)

var rowIDType = &arrow.FixedSizeBinaryType{ByteWidth: 16}

var (
	ErrUnknownComponent = errors.New("chunk has no such component")
	ErrComponentAbsent  = errors.New("component not present in row")
	ErrInvalidRecord    = errors.New("record is not a chunk")
)

// TimelineKind says how a timeline's int64 values are read.
type TimelineKind string

const (
	// Sequence timelines count frames or steps.
	Sequence TimelineKind = "sequence"
	// Temporal timelines hold nanoseconds since the Unix epoch.
	Temporal TimelineKind = "time"
)

// Timeline names an axis rows are indexed along.
type Timeline struct {
	Name string
	Kind TimelineKind
}

// TimePoint places a row on zero or more timelines.
type TimePoint map[Timeline]int64

// TimeColumn holds one timeline's value per row; rows not placed on the
// timeline are null.
type TimeColumn struct {
	Timeline Timeline
	Values   *array.Int64
}

// ComponentColumn holds one list cell per row; rows without the component
// are null.
type ComponentColumn struct {
	Name  types.ComponentName
	Lists *array.List
}

// Chunk is an immutable set of rows for one entity. Release it when done.
type Chunk struct {
	id         uuid.UUID
	entityPath string
	rowIDs     *array.FixedSizeBinary
	times      []TimeColumn
	components []ComponentColumn
}

func (c *Chunk) ID() uuid.UUID                 { return c.id }
func (c *Chunk) EntityPath() string            { return c.entityPath }
func (c *Chunk) NumRows() int                  { return c.rowIDs.Len() }
func (c *Chunk) Timelines() []TimeColumn       { return c.times }
func (c *Chunk) Components() []ComponentColumn { return c.components }

// RowID returns the id of row i.
func (c *Chunk) RowID(i int) uuid.UUID {
	var id uuid.UUID
	copy(id[:], c.rowIDs.Value(i))
	return id
}

// ComponentNames lists the component columns in order.
func (c *Chunk) ComponentNames() []types.ComponentName {
	out := make([]types.ComponentName, len(c.components))
	for i, col := range c.components {
		out[i] = col.Name
	}
	return out
}

// Column returns the list column of a component.
func (c *Chunk) Column(name types.ComponentName) (*array.List, bool) {
	for _, col := range c.components {
		if col.Name == name {
			return col.Lists, true
		}
	}
	return nil, false
}

// ComponentArray returns the values of a component in one row. The caller
// owns the returned array.
func (c *Chunk) ComponentArray(name types.ComponentName, row int) (arrow.Array, error) {
	lists, ok := c.Column(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownComponent, name)
	}
	if row < 0 || row >= lists.Len() {
		return nil, fmt.Errorf("row %d out of range [0, %d)", row, lists.Len())
	}
	if lists.IsNull(row) {
		return nil, fmt.Errorf("%w: %s at row %d", ErrComponentAbsent, name, row)
	}
	start, end := lists.ValueOffsets(row)
	return array.NewSlice(lists.ListValues(), start, end), nil
}

// Decode deserializes a component of one row with l.
func Decode[T any](c *Chunk, l types.Loggable[T], row int) ([]T, error) {
	arr, err := c.ComponentArray(types.ComponentName(l.Name()), row)
	if err != nil {
		return nil, err
	}
	defer arr.Release()
	return l.FromArrow(arr)
}

// HeapSizeBytes is the total size of the chunk's Arrow buffers.
func (c *Chunk) HeapSizeBytes() int {
	n := dataSize(c.rowIDs.Data())
	for _, t := range c.times {
		n += dataSize(t.Values.Data())
	}
	for _, col := range c.components {
		n += dataSize(col.Lists.Data())
	}
	return n
}

func dataSize(d arrow.ArrayData) int {
	n := 0
	for _, b := range d.Buffers() {
		if b != nil {
			n += b.Len()
		}
	}
	for _, child := range d.Children() {
		n += dataSize(child)
	}
	return n
}

// Release drops the chunk's references to its arrays.
func (c *Chunk) Release() {
	if c.rowIDs != nil {
		c.rowIDs.Release()
		c.rowIDs = nil
	}
	for _, t := range c.times {
		t.Values.Release()
	}
	for _, col := range c.components {
		col.Lists.Release()
	}
	c.times, c.components = nil, nil
}

// ToRecord returns the chunk as a record: the row id column, then
// timelines, then components, each group sorted by name.
func (c *Chunk) ToRecord() arrow.Record {
	fields := make([]arrow.Field, 0, 1+len(c.times)+len(c.components))
	cols := make([]arrow.Array, 0, cap(fields))

	fields = append(fields, arrow.Field{
		Name:     RowIDColumn,
		Type:     rowIDType,
		Metadata: arrow.NewMetadata([]string{MetaKind}, []string{kindControl}),
	})
	cols = append(cols, c.rowIDs)

	for _, t := range c.times {
		fields = append(fields, arrow.Field{
			Name:     t.Timeline.Name,
			Type:     arrow.PrimitiveTypes.Int64,
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{MetaKind, MetaTimelineKind},
				[]string{kindTime, string(t.Timeline.Kind)}),
		})
		cols = append(cols, t.Values)
	}
	for _, col := range c.components {
		fields = append(fields, arrow.Field{
			Name:     string(col.Name),
			Type:     col.Lists.DataType(),
			Nullable: true,
			Metadata: arrow.NewMetadata(
				[]string{MetaKind, MetaComponent},
				[]string{kindData, string(col.Name)}),
		})
		cols = append(cols, col.Lists)
	}

	meta := arrow.NewMetadata(
		[]string{MetaEntityPath, MetaChunkID, MetaHeapSize},
		[]string{c.entityPath, c.id.String(), strconv.Itoa(c.HeapSizeBytes())})
	schema := arrow.NewSchema(fields, &meta)
	return array.NewRecord(schema, cols, int64(c.NumRows()))
}

// FromRecord rebuilds a chunk from a record produced by ToRecord. The
// chunk retains the record's columns; the record may be released.
func FromRecord(rec arrow.Record) (*Chunk, error) {
	schema := rec.Schema()
	meta := schema.Metadata()
	entity, ok := metaValue(meta, MetaEntityPath)
	if !ok {
		return nil, fmt.Errorf("%w: missing %s", ErrInvalidRecord, MetaEntityPath)
	}
	c := &Chunk{entityPath: entity}
	if raw, ok := metaValue(meta, MetaChunkID); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: bad %s: %v", ErrInvalidRecord, MetaChunkID, err)
		}
		c.id = id
	}

	for i, f := range schema.Fields() {
		col := rec.Column(i)
		kind, _ := metaValue(f.Metadata, MetaKind)
		switch kind {
		case kindControl:
			if f.Name != RowIDColumn {
				continue
			}
			ids, ok := col.(*array.FixedSizeBinary)
			if !ok || !arrow.TypeEqual(col.DataType(), rowIDType) {
				c.Release()
				return nil, fmt.Errorf("%w: %s has type %s", ErrInvalidRecord, RowIDColumn, col.DataType())
			}
			ids.Retain()
			c.rowIDs = ids
		case kindTime:
			vals, ok := col.(*array.Int64)
			if !ok {
				c.Release()
				return nil, fmt.Errorf("%w: timeline %s has type %s", ErrInvalidRecord, f.Name, col.DataType())
			}
			tk, _ := metaValue(f.Metadata, MetaTimelineKind)
			vals.Retain()
			c.times = append(c.times, TimeColumn{Timeline: Timeline{Name: f.Name, Kind: TimelineKind(tk)}, Values: vals})
		case kindData:
			lists, ok := col.(*array.List)
			if !ok {
				c.Release()
				return nil, fmt.Errorf("%w: component %s has type %s", ErrInvalidRecord, f.Name, col.DataType())
			}
			name := f.Name
			if v, ok := metaValue(f.Metadata, MetaComponent); ok {
				name = v
			}
			lists.Retain()
			c.components = append(c.components, ComponentColumn{Name: types.ComponentName(name), Lists: lists})
		default:
			opsf("ignoring column %q with kind %q", f.Name, kind)
		}
	}
	if c.rowIDs == nil {
		c.Release()
		return nil, fmt.Errorf("%w: missing %s column", ErrInvalidRecord, RowIDColumn)
	}
	sort.Slice(c.times, func(i, j int) bool { return c.times[i].Timeline.Name < c.times[j].Timeline.Name })
	sort.Slice(c.components, func(i, j int) bool { return c.components[i].Name < c.components[j].Name })
	return c, nil
}

func metaValue(m arrow.Metadata, key string) (string, bool) {
	idx := m.FindKey(key)
	if idx < 0 {
		return "", false
	}
	return m.Values()[idx], true
}
