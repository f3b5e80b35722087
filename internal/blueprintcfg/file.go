// Package blueprintcfg reads declarative viewer layouts from YAML or JSON
// files and compiles them into blueprint archetypes and chunks.
//
// A file describes the side panels, a tree of containers and views, and
// per-view settings:
//
//	application_id: lidar-review
//	auto_layout: false
//	panels:
//	  blueprint: collapsed
//	  time: expanded
//	root:
//	  container: horizontal
//	  column_shares: [2, 1]
//	  contents:
//	    - view: Spatial3D
//	      name: Points
//	      origin: /world
//	      query: ["+ /world/**"]
//	    - view: TimeSeries
//	      name: Speed
//	      origin: /speed
//	      legend: {corner: right_top}
package blueprintcfg

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/banshee-data/vrtypes/internal/fsutil"
	"github.com/banshee-data/vrtypes/internal/types/blueprint"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Extensions accepted by Load. JSON is read through the YAML decoder.
var Extensions = []string{".yaml", ".yml", ".json"}

var ErrInvalid = errors.New("invalid blueprint")

// File is the top level of a blueprint file.
type File struct {
	ApplicationID string `yaml:"application_id" json:"application_id"`
	AutoLayout    *bool  `yaml:"auto_layout,omitempty" json:"auto_layout,omitempty"`
	AutoViews     *bool  `yaml:"auto_views,omitempty" json:"auto_views,omitempty"`
	Panels        Panels `yaml:"panels,omitempty" json:"panels,omitempty"`
	// Maximized names a view to show full size.
	Maximized string `yaml:"maximized,omitempty" json:"maximized,omitempty"`
	Root      *Node  `yaml:"root,omitempty" json:"root,omitempty"`
}

// Panels holds the state of each side panel: hidden, collapsed or
// expanded. Empty leaves the viewer default.
type Panels struct {
	Blueprint string `yaml:"blueprint,omitempty" json:"blueprint,omitempty"`
	Selection string `yaml:"selection,omitempty" json:"selection,omitempty"`
	Time      string `yaml:"time,omitempty" json:"time,omitempty"`
}

// Node is either a container (Container set) or a view (View set).
type Node struct {
	Container string  `yaml:"container,omitempty" json:"container,omitempty"`
	View      string  `yaml:"view,omitempty" json:"view,omitempty"`
	Name      string  `yaml:"name,omitempty" json:"name,omitempty"`
	Visible   *bool   `yaml:"visible,omitempty" json:"visible,omitempty"`
	Contents  []*Node `yaml:"contents,omitempty" json:"contents,omitempty"`

	// Container only.
	ColumnShares []float32 `yaml:"column_shares,omitempty" json:"column_shares,omitempty"`
	RowShares    []float32 `yaml:"row_shares,omitempty" json:"row_shares,omitempty"`
	GridColumns  *uint32   `yaml:"grid_columns,omitempty" json:"grid_columns,omitempty"`
	ActiveTab    *int      `yaml:"active_tab,omitempty" json:"active_tab,omitempty"` // index into Contents

	// View only.
	Origin     string      `yaml:"origin,omitempty" json:"origin,omitempty"`
	Query      []string    `yaml:"query,omitempty" json:"query,omitempty"`
	TimeRanges []TimeRange `yaml:"time_ranges,omitempty" json:"time_ranges,omitempty"`
	Background *Background `yaml:"background,omitempty" json:"background,omitempty"`
	Legend     *Legend     `yaml:"legend,omitempty" json:"legend,omitempty"`
	Axis       *Axis       `yaml:"axis,omitempty" json:"axis,omitempty"`
}

// IsView reports whether n is a view.
func (n *Node) IsView() bool { return n.View != "" }

// TimeRange is the visible window of a view on one timeline.
type TimeRange struct {
	Timeline string   `yaml:"timeline" json:"timeline"`
	Start    Boundary `yaml:"start" json:"start"`
	End      Boundary `yaml:"end" json:"end"`
}

// Boundary is one end of a TimeRange. Kind is cursor, absolute or
// infinite; Time is the offset from the cursor or the absolute time.
type Boundary struct {
	Kind string `yaml:"kind" json:"kind"`
	Time int64  `yaml:"time,omitempty" json:"time,omitempty"`
}

// Background of a 3D view. Color is "#RRGGBB" or "#RRGGBBAA".
type Background struct {
	Kind  string `yaml:"kind" json:"kind"`
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
}

// Legend of a plot view.
type Legend struct {
	Corner  string `yaml:"corner,omitempty" json:"corner,omitempty"`
	Visible *bool  `yaml:"visible,omitempty" json:"visible,omitempty"`
}

// Axis is the value axis of a plot view.
type Axis struct {
	Range               []float64 `yaml:"range,omitempty" json:"range,omitempty"` // [min, max]
	LockRangeDuringZoom *bool     `yaml:"lock_range_during_zoom,omitempty" json:"lock_range_during_zoom,omitempty"`
}

// Load reads and validates a blueprint file.
func Load(fsys fsutil.FileSystem, path string) (*File, error) {
	data, err := fsutil.ReadLimited(fsys, path, maxFileSize, Extensions...)
	if err != nil {
		return nil, fmt.Errorf("blueprint file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		opsf("rejected %s: %v", path, err)
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	diagf("loaded %s: application %q", path, f.ApplicationID)
	return f, nil
}

// Parse decodes and validates a blueprint document. Unknown keys are
// rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, fmt.Errorf("failed to parse blueprint: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks enum names, tree shape and view references.
func (f *File) Validate() error {
	if f.ApplicationID == "" {
		return fmt.Errorf("%w: application_id is required", ErrInvalid)
	}
	for name, s := range map[string]string{"blueprint": f.Panels.Blueprint, "selection": f.Panels.Selection, "time": f.Panels.Time} {
		if s == "" {
			continue
		}
		if _, err := blueprint.ParsePanelState(s); err != nil {
			return fmt.Errorf("%w: panels.%s: %v", ErrInvalid, name, err)
		}
	}
	if f.Root == nil {
		if f.Maximized != "" {
			return fmt.Errorf("%w: maximized %q set without a root", ErrInvalid, f.Maximized)
		}
		return nil
	}
	if f.Root.IsView() && f.Root.Container == "" {
		return fmt.Errorf("%w: root must be a container", ErrInvalid)
	}

	views := make(map[string]int)
	if err := validateNode(f.Root, "root", views); err != nil {
		return err
	}
	if f.Maximized != "" {
		switch views[f.Maximized] {
		case 0:
			return fmt.Errorf("%w: maximized view %q not found", ErrInvalid, f.Maximized)
		case 1:
		default:
			return fmt.Errorf("%w: maximized view %q is ambiguous", ErrInvalid, f.Maximized)
		}
	}
	return nil
}

func validateNode(n *Node, path string, views map[string]int) error {
	if n == nil {
		return fmt.Errorf("%w: %s: empty node", ErrInvalid, path)
	}
	if (n.Container == "") == (n.View == "") {
		return fmt.Errorf("%w: %s: exactly one of container or view must be set", ErrInvalid, path)
	}
	if n.IsView() {
		return validateView(n, path, views)
	}

	kind, err := blueprint.ParseContainerKind(n.Container)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	if n.Origin != "" || len(n.Query) > 0 || len(n.TimeRanges) > 0 || n.Background != nil || n.Legend != nil || n.Axis != nil {
		return fmt.Errorf("%w: %s: view settings on a container", ErrInvalid, path)
	}
	if len(n.ColumnShares) > len(n.Contents) {
		return fmt.Errorf("%w: %s: %d column shares for %d children", ErrInvalid, path, len(n.ColumnShares), len(n.Contents))
	}
	if len(n.RowShares) > len(n.Contents) {
		return fmt.Errorf("%w: %s: %d row shares for %d children", ErrInvalid, path, len(n.RowShares), len(n.Contents))
	}
	for _, s := range append(append([]float32{}, n.ColumnShares...), n.RowShares...) {
		if s < 0 {
			return fmt.Errorf("%w: %s: negative share %v", ErrInvalid, path, s)
		}
	}
	if n.GridColumns != nil && kind != blueprint.ContainerGrid {
		return fmt.Errorf("%w: %s: grid_columns on a %s container", ErrInvalid, path, kind)
	}
	if n.ActiveTab != nil {
		if kind != blueprint.ContainerTabs {
			return fmt.Errorf("%w: %s: active_tab on a %s container", ErrInvalid, path, kind)
		}
		if *n.ActiveTab < 0 || *n.ActiveTab >= len(n.Contents) {
			return fmt.Errorf("%w: %s: active_tab %d out of range", ErrInvalid, path, *n.ActiveTab)
		}
	}
	for i, child := range n.Contents {
		if err := validateNode(child, fmt.Sprintf("%s/%d", path, i), views); err != nil {
			return err
		}
	}
	return nil
}

func validateView(n *Node, path string, views map[string]int) error {
	if len(n.Contents) > 0 || len(n.ColumnShares) > 0 || len(n.RowShares) > 0 || n.GridColumns != nil || n.ActiveTab != nil {
		return fmt.Errorf("%w: %s: container settings on a view", ErrInvalid, path)
	}
	if n.Name != "" {
		views[n.Name]++
	}

	seen := make(map[string]bool, len(n.TimeRanges))
	for _, tr := range n.TimeRanges {
		if tr.Timeline == "" {
			return fmt.Errorf("%w: %s: time range without a timeline", ErrInvalid, path)
		}
		if seen[tr.Timeline] {
			return fmt.Errorf("%w: %s: two time ranges for timeline %q", ErrInvalid, path, tr.Timeline)
		}
		seen[tr.Timeline] = true
		if _, err := tr.Start.boundary(); err != nil {
			return fmt.Errorf("%w: %s: %s start: %v", ErrInvalid, path, tr.Timeline, err)
		}
		if _, err := tr.End.boundary(); err != nil {
			return fmt.Errorf("%w: %s: %s end: %v", ErrInvalid, path, tr.Timeline, err)
		}
	}
	if bg := n.Background; bg != nil {
		if _, err := blueprint.ParseBackgroundKind(bg.Kind); err != nil {
			return fmt.Errorf("%w: %s: background: %v", ErrInvalid, path, err)
		}
		if bg.Color != "" {
			if _, err := datatypes.ParseRgba32(bg.Color); err != nil {
				return fmt.Errorf("%w: %s: background: %v", ErrInvalid, path, err)
			}
		}
	}
	if lg := n.Legend; lg != nil && lg.Corner != "" {
		if _, err := blueprint.ParseCorner2D(lg.Corner); err != nil {
			return fmt.Errorf("%w: %s: legend: %v", ErrInvalid, path, err)
		}
	}
	if ax := n.Axis; ax != nil && ax.Range != nil {
		if len(ax.Range) != 2 {
			return fmt.Errorf("%w: %s: axis range needs [min, max], got %d values", ErrInvalid, path, len(ax.Range))
		}
		if ax.Range[0] > ax.Range[1] {
			return fmt.Errorf("%w: %s: axis range min %v above max %v", ErrInvalid, path, ax.Range[0], ax.Range[1])
		}
	}
	return nil
}

func (b Boundary) boundary() (datatypes.TimeRangeBoundary, error) {
	switch b.Kind {
	case "cursor":
		return datatypes.CursorRelative(datatypes.TimeInt(b.Time)), nil
	case "absolute":
		return datatypes.Absolute(datatypes.TimeInt(b.Time)), nil
	case "infinite":
		if b.Time != 0 {
			return datatypes.TimeRangeBoundary{}, fmt.Errorf("infinite boundary takes no time")
		}
		return datatypes.Infinite(), nil
	}
	return datatypes.TimeRangeBoundary{}, fmt.Errorf("unknown boundary kind %q (want cursor, absolute or infinite)", b.Kind)
}
