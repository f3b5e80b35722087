package blueprintcfg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/fsutil"
	"github.com/banshee-data/vrtypes/internal/testutil"
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/blueprint"
	"github.com/banshee-data/vrtypes/internal/types/components"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

const layoutYAML = `
application_id: lidar-review
auto_layout: false
panels:
  blueprint: collapsed
  time: expanded
maximized: Points
root:
  container: tabs
  active_tab: 1
  contents:
    - view: Spatial3D
      name: Points
      origin: /world
      query: ["+ /world/**", "- /world/debug"]
      background: {kind: solid_color, color: "#202020"}
      time_ranges:
        - timeline: frame
          start: {kind: cursor, time: -10}
          end: {kind: infinite}
    - container: grid
      grid_columns: 2
      contents:
        - view: TimeSeries
          name: Speed
          origin: /speed
          legend: {corner: right_top, visible: true}
          axis: {range: [0, 40], lock_range_during_zoom: true}
        - view: TextLog
          visible: false
`

func mustCompile(t *testing.T, src string) *Blueprint {
	t.Helper()
	f, err := Parse([]byte(src))
	require.NoError(t, err)
	bp, err := Compile(f)
	require.NoError(t, err)
	return bp
}

func TestCompile_Paths(t *testing.T) {
	bp := mustCompile(t, layoutYAML)

	id := func(path string) string { return NodeID("lidar-review", path).String() }
	want := []string{
		BlueprintPanelPath,
		TimePanelPath,
		"/container/" + id("root"),
		"/space_view/" + id("root/0"),
		"/space_view/" + id("root/0") + "/SpaceViewContents",
		"/space_view/" + id("root/0") + "/VisibleTimeRanges",
		"/space_view/" + id("root/0") + "/Background",
		"/container/" + id("root/1"),
		"/space_view/" + id("root/1/0"),
		"/space_view/" + id("root/1/0") + "/PlotLegend",
		"/space_view/" + id("root/1/0") + "/ScalarAxis",
		"/space_view/" + id("root/1/1"),
		ViewportPath,
	}
	if diff := cmp.Diff(want, bp.Paths()); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, NodeID("lidar-review", "root"), bp.RootID)
}

func TestCompile_StableIDs(t *testing.T) {
	a := mustCompile(t, layoutYAML)
	b := mustCompile(t, layoutYAML)
	assert.Equal(t, a.Paths(), b.Paths())

	other := strings.Replace(layoutYAML, "lidar-review", "other-app", 1)
	c := mustCompile(t, other)
	assert.NotEqual(t, a.RootID, c.RootID)
}

func TestCompile_Archetypes(t *testing.T) {
	bp := mustCompile(t, layoutYAML)
	byPath := make(map[string]Entry, len(bp.Entries))
	for _, e := range bp.Entries {
		byPath[e.Path] = e
	}

	root, ok := byPath["/container/"+bp.RootID.String()].Archetype.(blueprint.ContainerBlueprint)
	require.True(t, ok)
	assert.Equal(t, blueprint.ContainerTabs, root.Kind)
	require.Len(t, root.Contents, 2)
	require.NotNil(t, root.ActiveTab)
	assert.Equal(t, string(root.Contents[1]), string(*root.ActiveTab))

	vp, ok := byPath[ViewportPath].Archetype.(blueprint.ViewportBlueprint)
	require.True(t, ok)
	require.NotNil(t, vp.RootContainer)
	assert.Equal(t, bp.RootID, datatypes.UUID(*vp.RootContainer).UUID())
	require.NotNil(t, vp.Maximized)
	assert.Equal(t, NodeID("lidar-review", "root/0"), datatypes.UUID(*vp.Maximized).UUID())
	require.NotNil(t, vp.AutoLayout)
	assert.False(t, bool(*vp.AutoLayout))
	assert.Nil(t, vp.AutoSpaceViews)

	view0 := "/space_view/" + NodeID("lidar-review", "root/0").String()
	bg, ok := byPath[view0+"/Background"].Archetype.(blueprint.Background)
	require.True(t, ok)
	assert.Equal(t, blueprint.BackgroundSolidColor, bg.Kind)
	require.NotNil(t, bg.Color)
	assert.Equal(t, components.Color(0x202020ff), *bg.Color)

	tr, ok := byPath[view0+"/VisibleTimeRanges"].Archetype.(blueprint.VisibleTimeRanges)
	require.True(t, ok)
	require.Len(t, tr.Ranges, 1)
	assert.Equal(t, datatypes.Utf8("frame"), tr.Ranges[0].Timeline)
	assert.Equal(t, datatypes.CursorRelative(-10), tr.Ranges[0].Range.Start)
	assert.Equal(t, datatypes.Infinite(), tr.Ranges[0].Range.End)
}

func TestCompile_EmptyLayout(t *testing.T) {
	bp := mustCompile(t, "application_id: bare\n")
	assert.Equal(t, []string{ViewportPath}, bp.Paths())

	vp := bp.Entries[0].Archetype.(blueprint.ViewportBlueprint)
	assert.Nil(t, vp.RootContainer)
}

func TestParse_JSON(t *testing.T) {
	src := `{
  "application_id": "json-app",
  "panels": {"selection": "hidden"},
  "root": {"container": "vertical", "row_shares": [1, 3], "contents": [
    {"view": "Spatial2D", "origin": "/camera"},
    {"view": "TextDocument", "name": "Notes"}
  ]}
}`
	f, err := Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "json-app", f.ApplicationID)
	assert.Equal(t, "hidden", f.Panels.Selection)
	require.Len(t, f.Root.Contents, 2)
	assert.Equal(t, []float32{1, 3}, f.Root.RowShares)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"empty", "", "empty document"},
		{"no app id", "root: {container: tabs}\n", "application_id"},
		{"unknown key", "application_id: a\ncolour: red\n", "not found"},
		{"bad panel", "application_id: a\npanels: {time: open}\n", "panels.time"},
		{"view root", "application_id: a\nroot: {view: Spatial3D}\n", "root must be a container"},
		{"both kinds", "application_id: a\nroot: {container: tabs, view: Spatial3D}\n", "exactly one"},
		{"both kinds nested", "application_id: a\nroot: {container: tabs, contents: [{container: grid, view: V}]}\n", "root/0: exactly one"},
		{"bad container", "application_id: a\nroot: {container: stack}\n", "unknown container kind"},
		{"view on container", "application_id: a\nroot: {container: tabs, origin: /x}\n", "view settings"},
		{"contents on view", "application_id: a\nroot: {container: tabs, contents: [{view: V, contents: [{view: W}]}]}\n", "container settings"},
		{"too many shares", "application_id: a\nroot: {container: horizontal, column_shares: [1, 2]}\n", "column shares"},
		{"negative share", "application_id: a\nroot: {container: horizontal, column_shares: [-1], contents: [{view: V}]}\n", "negative share"},
		{"grid columns", "application_id: a\nroot: {container: tabs, grid_columns: 2}\n", "grid_columns"},
		{"active tab kind", "application_id: a\nroot: {container: grid, active_tab: 0, contents: [{view: V}]}\n", "active_tab on a grid"},
		{"active tab range", "application_id: a\nroot: {container: tabs, active_tab: 3, contents: [{view: V}]}\n", "out of range"},
		{"null child", "application_id: a\nroot: {container: tabs, contents: [null]}\n", "empty node"},
		{"bad boundary", "application_id: a\nroot: {container: tabs, contents: [{view: V, time_ranges: [{timeline: t, start: {kind: soon}, end: {kind: infinite}}]}]}\n", "unknown boundary kind"},
		{"infinite with time", "application_id: a\nroot: {container: tabs, contents: [{view: V, time_ranges: [{timeline: t, start: {kind: infinite, time: 4}, end: {kind: infinite}}]}]}\n", "takes no time"},
		{"duplicate timeline", "application_id: a\nroot: {container: tabs, contents: [{view: V, time_ranges: [{timeline: t, start: {kind: absolute}, end: {kind: infinite}}, {timeline: t, start: {kind: absolute}, end: {kind: infinite}}]}]}\n", "two time ranges"},
		{"bad colour", "application_id: a\nroot: {container: tabs, contents: [{view: V, background: {kind: solid_color, color: red}}]}\n", "invalid colour"},
		{"bad corner", "application_id: a\nroot: {container: tabs, contents: [{view: V, legend: {corner: middle}}]}\n", "unknown corner"},
		{"axis range", "application_id: a\nroot: {container: tabs, contents: [{view: V, axis: {range: [5, 1]}}]}\n", "above max"},
		{"missing maximized", "application_id: a\nmaximized: Nope\nroot: {container: tabs, contents: [{view: V}]}\n", "not found"},
		{"ambiguous maximized", "application_id: a\nmaximized: X\nroot: {container: tabs, contents: [{view: V, name: X}, {view: W, name: X}]}\n", "ambiguous"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/layouts/review.yaml", []byte(layoutYAML))
	mfs.WriteFile("/layouts/review.toml", []byte(layoutYAML))

	f, err := Load(mfs, "/layouts/review.yaml")
	require.NoError(t, err)
	assert.Equal(t, "lidar-review", f.ApplicationID)

	_, err = Load(mfs, "/layouts/review.toml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "extensions")

	_, err = Load(mfs, "/layouts/missing.yml")
	require.Error(t, err)
}

func TestChunks(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	bp := mustCompile(t, layoutYAML)

	chunks, err := bp.Chunks("", chunk.WithAllocator(mem))
	require.NoError(t, err)
	defer func() {
		for _, c := range chunks {
			c.Release()
		}
	}()
	require.Len(t, chunks, len(bp.Entries))

	for i, c := range chunks {
		assert.Equal(t, bp.Entries[i].Path, c.EntityPath())
		assert.Equal(t, 1, c.NumRows())
		require.Len(t, c.Timelines(), 1)
		tl := c.Timelines()[0]
		assert.Equal(t, chunk.Timeline{Name: DefaultTimeline, Kind: chunk.Sequence}, tl.Timeline)
		assert.Equal(t, int64(0), tl.Values.Value(0))
	}

	root := chunks[2]
	kinds, err := chunk.Decode(root, blueprint.ContainerKindLoggable, 0)
	require.NoError(t, err)
	assert.Equal(t, []blueprint.ContainerKind{blueprint.ContainerTabs}, kinds)

	contents, err := chunk.Decode(root, blueprint.IncludedContentLoggable, 0)
	require.NoError(t, err)
	assert.Len(t, contents, 2)
	assert.Contains(t, root.ComponentNames(), types.ComponentName("vr.blueprint.components.ContainerBlueprintIndicator"))
}

func TestChunks_StreamRoundTrip(t *testing.T) {
	mem := testutil.NewCheckedAllocator(t)
	bp := mustCompile(t, layoutYAML)

	chunks, err := bp.Chunks("layout", chunk.WithAllocator(mem))
	require.NoError(t, err)

	var buf bytes.Buffer
	enc := chunk.NewEncoder(&buf, chunk.WithCompression(chunk.CompressionZstd), chunk.WithEncoderAllocator(mem))
	for _, c := range chunks {
		require.NoError(t, enc.Encode(c))
		c.Release()
	}
	require.NoError(t, enc.Close())

	decoded, err := chunk.NewDecoder(&buf, mem).ReadAll()
	require.NoError(t, err)
	defer func() {
		for _, c := range decoded {
			c.Release()
		}
	}()

	require.Len(t, decoded, len(bp.Entries))
	var paths []string
	for _, c := range decoded {
		paths = append(paths, c.EntityPath())
		assert.Equal(t, "layout", c.Timelines()[0].Timeline.Name)
	}
	assert.Equal(t, bp.Paths(), paths)

	axisChunk := decoded[10]
	ranges, err := chunk.Decode(axisChunk, components.Range1DLoggable, 0)
	require.NoError(t, err)
	assert.Equal(t, []components.Range1D{{0, 40}}, ranges)
}
