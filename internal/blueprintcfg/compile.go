package blueprintcfg

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/blueprint"
	"github.com/banshee-data/vrtypes/internal/types/components"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// DefaultTimeline is the sequence timeline blueprint rows are logged on.
const DefaultTimeline = "blueprint"

// Fixed entity paths of the viewport and panels.
const (
	ViewportPath       = "/viewport"
	BlueprintPanelPath = "/blueprint_panel"
	SelectionPanelPath = "/selection_panel"
	TimePanelPath      = "/time_panel"

	containerPrefix = "/container/"
	viewPrefix      = "/space_view/"
)

// Entry is one archetype logged at an entity path.
type Entry struct {
	Path      string
	Archetype types.Archetype
}

// Blueprint is a compiled blueprint file.
type Blueprint struct {
	ApplicationID string
	RootID        uuid.UUID
	Entries       []Entry
}

// Paths lists the entity paths in logging order.
func (b *Blueprint) Paths() []string {
	out := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		out[i] = e.Path
	}
	return out
}

// NodeID is the stable id of the node at path ("root", "root/0", ...)
// of an application. The same file always yields the same ids.
func NodeID(applicationID, path string) uuid.UUID {
	ns := uuid.NewSHA1(uuid.NameSpaceURL, []byte("vrtypes:blueprint:"+applicationID))
	return uuid.NewSHA1(ns, []byte(path))
}

type compiler struct {
	appID     string
	maximized string
	entries   []Entry
	maxID     *uuid.UUID
}

// Compile validates f and turns it into blueprint archetypes.
func Compile(f *File) (*Blueprint, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	c := &compiler{appID: f.ApplicationID, maximized: f.Maximized}

	for _, p := range []struct{ path, state string }{
		{BlueprintPanelPath, f.Panels.Blueprint},
		{SelectionPanelPath, f.Panels.Selection},
		{TimePanelPath, f.Panels.Time},
	} {
		if p.state == "" {
			continue
		}
		s, _ := blueprint.ParsePanelState(p.state)
		c.add(p.path, blueprint.PanelBlueprint{State: &s})
	}

	vp := blueprint.ViewportBlueprint{
		AutoLayout:     (*blueprint.AutoLayout)(f.AutoLayout),
		AutoSpaceViews: (*blueprint.AutoSpaceViews)(f.AutoViews),
	}
	bp := &Blueprint{ApplicationID: f.ApplicationID}
	if f.Root != nil {
		if err := c.node(f.Root, "root"); err != nil {
			return nil, err
		}
		bp.RootID = NodeID(c.appID, "root")
		root := blueprint.RootContainer(datatypes.UUIDFrom(bp.RootID))
		vp.RootContainer = &root
		if c.maxID != nil {
			m := blueprint.SpaceViewMaximized(datatypes.UUIDFrom(*c.maxID))
			vp.Maximized = &m
		}
	}
	c.add(ViewportPath, vp)

	bp.Entries = c.entries
	diagf("compiled %q: %d entities", bp.ApplicationID, len(bp.Entries))
	return bp, nil
}

func (c *compiler) add(path string, a types.Archetype) {
	tracef("%s: %s", path, a.ArchetypeName())
	c.entries = append(c.entries, Entry{Path: path, Archetype: a})
}

func (c *compiler) entityPath(n *Node, path string) string {
	id := NodeID(c.appID, path).String()
	if n.IsView() {
		return viewPrefix + id
	}
	return containerPrefix + id
}

func (c *compiler) node(n *Node, path string) error {
	if n.IsView() {
		return c.view(n, path)
	}

	kind, err := blueprint.ParseContainerKind(n.Container)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	cb := blueprint.ContainerBlueprint{
		Kind:        kind,
		DisplayName: name(n.Name),
		Visible:     (*blueprint.Visible)(n.Visible),
		GridColumns: (*blueprint.GridColumns)(n.GridColumns),
	}
	childPaths := make([]string, len(n.Contents))
	for i, child := range n.Contents {
		childPaths[i] = fmt.Sprintf("%s/%d", path, i)
		cb.Contents = append(cb.Contents, blueprint.IncludedContent(c.entityPath(child, childPaths[i])))
	}
	for _, s := range n.ColumnShares {
		cb.ColumnShares = append(cb.ColumnShares, blueprint.ColumnShare(s))
	}
	for _, s := range n.RowShares {
		cb.RowShares = append(cb.RowShares, blueprint.RowShare(s))
	}
	if n.ActiveTab != nil {
		tab := blueprint.ActiveTab(cb.Contents[*n.ActiveTab])
		cb.ActiveTab = &tab
	}
	c.add(c.entityPath(n, path), cb)

	for i, child := range n.Contents {
		if err := c.node(child, childPaths[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *compiler) view(n *Node, path string) error {
	ep := c.entityPath(n, path)
	if c.maximized != "" && n.Name == c.maximized {
		id := NodeID(c.appID, path)
		c.maxID = &id
	}

	sv := blueprint.SpaceViewBlueprint{
		Class:       blueprint.ViewClass(n.View),
		DisplayName: name(n.Name),
		Visible:     (*blueprint.Visible)(n.Visible),
	}
	if n.Origin != "" {
		o := blueprint.SpaceViewOrigin(n.Origin)
		sv.SpaceOrigin = &o
	}
	c.add(ep, sv)

	if len(n.Query) > 0 {
		q := blueprint.SpaceViewContents{}
		for _, expr := range n.Query {
			q.Query = append(q.Query, blueprint.QueryExpression(expr))
		}
		c.add(ep+"/SpaceViewContents", q)
	}

	if len(n.TimeRanges) > 0 {
		tr := blueprint.VisibleTimeRanges{}
		for _, r := range n.TimeRanges {
			start, err := r.Start.boundary()
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			end, err := r.End.boundary()
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			tr.Ranges = append(tr.Ranges, blueprint.VisibleTimeRange{
				Timeline: datatypes.Utf8(r.Timeline),
				Range:    datatypes.TimeRange{Start: start, End: end},
			})
		}
		c.add(ep+"/VisibleTimeRanges", tr)
	}

	if bg := n.Background; bg != nil {
		kind, err := blueprint.ParseBackgroundKind(bg.Kind)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
		}
		b := blueprint.Background{Kind: kind}
		if bg.Color != "" {
			rgba, err := datatypes.ParseRgba32(bg.Color)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			col := components.Color(rgba)
			b.Color = &col
		}
		c.add(ep+"/Background", b)
	}

	if lg := n.Legend; lg != nil {
		l := blueprint.PlotLegend{Visible: (*blueprint.Visible)(lg.Visible)}
		if lg.Corner != "" {
			corner, err := blueprint.ParseCorner2D(lg.Corner)
			if err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
			}
			l.Corner = &corner
		}
		c.add(ep+"/PlotLegend", l)
	}

	if ax := n.Axis; ax != nil {
		a := blueprint.ScalarAxis{ZoomLockEnabled: (*blueprint.LockRangeDuringZoom)(ax.LockRangeDuringZoom)}
		if len(ax.Range) == 2 {
			r := components.Range1D{ax.Range[0], ax.Range[1]}
			a.Range = &r
		}
		c.add(ep+"/ScalarAxis", a)
	}
	return nil
}

func name(s string) *components.Name {
	if s == "" {
		return nil
	}
	n := components.Name(s)
	return &n
}

// Chunks logs every entry as a one-row chunk at time zero of a sequence
// timeline. An empty timeline selects DefaultTimeline. The caller must
// Release the chunks.
func (b *Blueprint) Chunks(timeline string, opts ...chunk.Option) ([]*chunk.Chunk, error) {
	if timeline == "" {
		timeline = DefaultTimeline
	}
	tp := chunk.TimePoint{chunk.Timeline{Name: timeline, Kind: chunk.Sequence}: 0}

	out := make([]*chunk.Chunk, 0, len(b.Entries))
	fail := func(err error) ([]*chunk.Chunk, error) {
		for _, c := range out {
			c.Release()
		}
		return nil, err
	}
	for _, e := range b.Entries {
		bld := chunk.NewBuilder(e.Path, opts...)
		if err := bld.AddArchetype(tp, e.Archetype); err != nil {
			bld.Release()
			return fail(fmt.Errorf("%s: %w", e.Path, err))
		}
		c, err := bld.Build()
		if err != nil {
			return fail(fmt.Errorf("%s: %w", e.Path, err))
		}
		out = append(out, c)
	}
	return out, nil
}
