package chunk

import (
	"errors"
	"fmt"
	"sort"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"

	"github.com/banshee-data/vrtypes/internal/types"
)

var (
	ErrChunkFull      = errors.New("chunk is full")
	ErrEmptyChunk     = errors.New("chunk has no rows")
	ErrTimelineKind   = errors.New("timeline kind changed")
	ErrDuplicateBatch = errors.New("component appears twice in one row")
	ErrBuilderFailed  = errors.New("builder failed on an earlier row")
)

// Option configures a Builder.
type Option func(*Builder)

// WithAllocator sets the allocator for every array the builder creates.
func WithAllocator(mem memory.Allocator) Option {
	return func(b *Builder) { b.mem = mem }
}

// WithMaxRows caps the number of rows; AddRow returns ErrChunkFull once
// reached. Zero means unlimited.
func WithMaxRows(n int) Option {
	return func(b *Builder) { b.maxRows = n }
}

type timeBuilder struct {
	timeline Timeline
	values   *array.Int64Builder
}

// Builder accumulates rows for one entity. It is not safe for concurrent
// use.
type Builder struct {
	mem        memory.Allocator
	entityPath string
	maxRows    int

	rows       int
	rowIDs     *array.FixedSizeBinaryBuilder
	times      map[string]*timeBuilder
	components map[types.ComponentName]*array.ListBuilder
	err        error
}

// NewBuilder starts a chunk for entityPath.
func NewBuilder(entityPath string, opts ...Option) *Builder {
	b := &Builder{entityPath: entityPath, mem: memory.DefaultAllocator}
	for _, opt := range opts {
		opt(b)
	}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.rows = 0
	b.rowIDs = array.NewFixedSizeBinaryBuilder(b.mem, rowIDType)
	b.times = make(map[string]*timeBuilder)
	b.components = make(map[types.ComponentName]*array.ListBuilder)
	b.err = nil
}

// Len returns the number of rows added since the last Build.
func (b *Builder) Len() int { return b.rows }

// Full reports whether the row cap has been reached.
func (b *Builder) Full() bool { return b.maxRows > 0 && b.rows >= b.maxRows }

// AddRow appends one row carrying the given batches. Rows are checked
// before anything is written; if serializing a batch fails part way the
// builder is poisoned and Build returns the error.
func (b *Builder) AddRow(tp TimePoint, batches ...types.ComponentBatch) error {
	if b.err != nil {
		return fmt.Errorf("%w: %v", ErrBuilderFailed, b.err)
	}
	if b.Full() {
		return ErrChunkFull
	}
	if err := b.check(tp, batches); err != nil {
		return err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("failed to generate row id: %w", err)
	}
	b.rowIDs.Append(id[:])

	for tl := range tp {
		if _, ok := b.times[tl.Name]; !ok {
			tb := &timeBuilder{timeline: tl, values: array.NewInt64Builder(b.mem)}
			tb.values.AppendNulls(b.rows)
			b.times[tl.Name] = tb
		}
	}
	for _, tb := range b.times {
		if v, ok := tp[tb.timeline]; ok {
			tb.values.Append(v)
		} else {
			tb.values.AppendNull()
		}
	}

	present := make(map[types.ComponentName]bool, len(batches))
	for _, batch := range batches {
		if batch == nil {
			continue
		}
		name := batch.ComponentName()
		lb, ok := b.components[name]
		if !ok {
			lb = array.NewListBuilderWithField(b.mem, arrow.Field{Name: "item", Type: batch.ArrowDatatype(), Nullable: true})
			lb.AppendNulls(b.rows)
			b.components[name] = lb
		}
		lb.Append(true)
		if err := batch.FillArrowBuilder(lb.ValueBuilder()); err != nil {
			b.err = err
			opsf("entity %s: row %d: %v", b.entityPath, b.rows, err)
			return err
		}
		present[name] = true
	}
	for name, lb := range b.components {
		if !present[name] {
			lb.AppendNull()
		}
	}
	b.rows++
	tracef("entity %s: row %d with %d components", b.entityPath, b.rows, len(present))
	return nil
}

func (b *Builder) check(tp TimePoint, batches []types.ComponentBatch) error {
	for tl := range tp {
		if tl.Name == "" {
			return fmt.Errorf("timeline with empty name")
		}
		if tb, ok := b.times[tl.Name]; ok && tb.timeline.Kind != tl.Kind {
			return fmt.Errorf("%w: %s is %s, got %s", ErrTimelineKind, tl.Name, tb.timeline.Kind, tl.Kind)
		}
		if tl.Name == RowIDColumn {
			return fmt.Errorf("timeline name %q is reserved", tl.Name)
		}
	}
	seenTimeline := make(map[string]TimelineKind, len(tp))
	for tl := range tp {
		if k, ok := seenTimeline[tl.Name]; ok && k != tl.Kind {
			return fmt.Errorf("%w: %s given as both %s and %s", ErrTimelineKind, tl.Name, k, tl.Kind)
		}
		seenTimeline[tl.Name] = tl.Kind
	}

	seen := make(map[types.ComponentName]bool, len(batches))
	for _, batch := range batches {
		if batch == nil {
			continue
		}
		name := batch.ComponentName()
		if seen[name] {
			return fmt.Errorf("%w: %s", ErrDuplicateBatch, name)
		}
		seen[name] = true
		if lb, ok := b.components[name]; ok {
			want := lb.Type().(*arrow.ListType).Elem()
			if !arrow.TypeEqual(want, batch.ArrowDatatype()) {
				return fmt.Errorf("%w: %s was %s, got %s", types.ErrUnexpectedArrowType, name, want, batch.ArrowDatatype())
			}
		}
	}
	return nil
}

// AddArchetype appends one row carrying every batch of a.
func (b *Builder) AddArchetype(tp TimePoint, a types.Archetype) error {
	batches, err := a.ComponentBatches()
	if err != nil {
		return err
	}
	return b.AddRow(tp, batches...)
}

// Build finishes the chunk and resets the builder for reuse.
func (b *Builder) Build() (*Chunk, error) {
	defer b.reset()
	defer b.releaseBuilders()
	if b.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuilderFailed, b.err)
	}
	if b.rows == 0 {
		return nil, ErrEmptyChunk
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chunk id: %w", err)
	}
	c := &Chunk{id: id, entityPath: b.entityPath, rowIDs: b.rowIDs.NewFixedSizeBinaryArray()}
	for _, tb := range b.times {
		c.times = append(c.times, TimeColumn{Timeline: tb.timeline, Values: tb.values.NewInt64Array()})
	}
	for name, lb := range b.components {
		c.components = append(c.components, ComponentColumn{Name: name, Lists: lb.NewListArray()})
	}
	sort.Slice(c.times, func(i, j int) bool { return c.times[i].Timeline.Name < c.times[j].Timeline.Name })
	sort.Slice(c.components, func(i, j int) bool { return c.components[i].Name < c.components[j].Name })
	diagf("built chunk %s for %s: %d rows, %d timelines, %d components",
		c.id, c.entityPath, c.NumRows(), len(c.times), len(c.components))
	return c, nil
}

func (b *Builder) releaseBuilders() {
	b.rowIDs.Release()
	for _, tb := range b.times {
		tb.values.Release()
	}
	for _, lb := range b.components {
		lb.Release()
	}
}

// Release frees any rows added since the last Build.
func (b *Builder) Release() {
	b.releaseBuilders()
	b.reset()
}
