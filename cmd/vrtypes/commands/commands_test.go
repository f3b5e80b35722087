package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/vrtypes/internal/chunk"
	"github.com/banshee-data/vrtypes/internal/fsutil"
	"github.com/banshee-data/vrtypes/internal/monitoring"
)

const layout = `
application_id: cli-test
panels: {time: collapsed}
root:
  container: horizontal
  column_shares: [3, 1]
  contents:
    - view: Spatial3D
      name: World
      origin: /world
      query: ["+ /world/**"]
    - view: TimeSeries
      axis: {range: [-1, 1]}
`

func run(t *testing.T, mfs *fsutil.MemoryFileSystem, args ...string) (string, error) {
	t.Helper()
	original := monitoring.Logf
	t.Cleanup(func() { monitoring.Logf = original })

	var out, errOut bytes.Buffer
	root := NewRootCmd(mfs)
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, fsutil.NewMemoryFileSystem(), "list")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "NAME"))
	assert.Contains(t, out, "vr.datatypes.Vec3D")
	assert.Contains(t, out, "vr.components.Position3D")
	assert.Contains(t, out, "vr.blueprint.components.PanelState")
}

func TestList_Kind(t *testing.T) {
	out, err := run(t, fsutil.NewMemoryFileSystem(), "list", "--kind", "blueprint")
	require.NoError(t, err)
	assert.Contains(t, out, "vr.blueprint.components.ContainerKind")
	assert.NotContains(t, out, "vr.datatypes.")

	_, err = run(t, fsutil.NewMemoryFileSystem(), "list", "--kind", "archetype")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestDescribe(t *testing.T) {
	out, err := run(t, fsutil.NewMemoryFileSystem(), "describe", "vr.components.Color")
	require.NoError(t, err)
	assert.Contains(t, out, "name:  vr.components.Color")
	assert.Contains(t, out, "kind:  component")
	assert.Contains(t, out, "arrow: uint32")

	_, err = run(t, fsutil.NewMemoryFileSystem(), "describe", "vr.components.Nope")
	require.Error(t, err)
}

func TestEncodeAndInspect(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/in/layout.yaml", []byte(layout))
	mfs.WriteFile("/in/codec.json", []byte(`{"compression": "lz4", "checked_allocator": true, "blueprint_timeline": "bp"}`))

	out, err := run(t, mfs, "encode-blueprint", "/in/layout.yaml", "-o", "/out/layout.vrlog", "--config", "/in/codec.json")
	require.NoError(t, err)
	// panel, root, view + contents, view + axis, viewport
	assert.Equal(t, "wrote 7 chunks (lz4) to /out/layout.vrlog\n", out)

	data, err := mfs.ReadFile("/out/layout.vrlog")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte(chunk.Magic)))

	out, err = run(t, mfs, "inspect", "/out/layout.vrlog")
	require.NoError(t, err)
	assert.Contains(t, out, "/time_panel")
	assert.Contains(t, out, "/viewport")
	assert.Contains(t, out, "timeline bp (sequence): 0")
	assert.Contains(t, out, "vr.blueprint.components.PanelState[0]: [collapsed]")
	assert.Contains(t, out, "vr.blueprint.components.ContainerKind[0]: [horizontal]")
	assert.Contains(t, out, "vr.blueprint.components.ColumnShare[0]: [3, 1]")
	assert.Contains(t, out, "vr.blueprint.components.QueryExpression[0]: [+ /world/**]")
	assert.Contains(t, out, "vr.blueprint.components.PanelBlueprintIndicator[0]: indicator")
	assert.True(t, strings.HasSuffix(out, "7 chunks\n"))

	out, err = run(t, mfs, "inspect", "--headers", "/out/layout.vrlog")
	require.NoError(t, err)
	assert.NotContains(t, out, "timeline")
	assert.Equal(t, 8, strings.Count(out, "\n"))
}

func TestEncode_CompressionOverride(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/layout.yml", []byte(layout))

	out, err := run(t, mfs, "encode-blueprint", "/layout.yml", "-o", "/layout.vrlog", "--compression", "zstd")
	require.NoError(t, err)
	assert.Contains(t, out, "(zstd)")

	_, err = run(t, mfs, "encode-blueprint", "/layout.yml", "-o", "/layout.vrlog", "--compression", "gzip")
	require.Error(t, err)
}

func TestEncode_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/bad.yaml", []byte("application_id: x\nroot: {container: pile}\n"))
	mfs.WriteFile("/ok.yaml", []byte(layout))
	mfs.WriteFile("/bad.json", []byte(`{"compression": "brotli"}`))

	tests := []struct {
		name string
		args []string
	}{
		{"missing output", []string{"encode-blueprint", "/ok.yaml"}},
		{"invalid layout", []string{"encode-blueprint", "/bad.yaml", "-o", "/x.vrlog"}},
		{"missing layout", []string{"encode-blueprint", "/none.yaml", "-o", "/x.vrlog"}},
		{"bad config", []string{"encode-blueprint", "/ok.yaml", "-o", "/x.vrlog", "--config", "/bad.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, mfs, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestInspect_Errors(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/junk.vrlog", []byte("not a stream"))

	_, err := run(t, mfs, "inspect", "/junk.vrlog")
	require.Error(t, err)
	assert.ErrorIs(t, err, chunk.ErrBadMagic)

	_, err = run(t, mfs, "inspect", "/missing.vrlog")
	require.Error(t, err)
}

func TestInspect_CorruptFrame(t *testing.T) {
	mfs := fsutil.NewMemoryFileSystem()
	mfs.WriteFile("/layout.yaml", []byte(layout))
	_, err := run(t, mfs, "encode-blueprint", "/layout.yaml", "-o", "/layout.vrlog")
	require.NoError(t, err)

	data, err := mfs.ReadFile("/layout.vrlog")
	require.NoError(t, err)
	mfs.WriteFile("/broken.vrlog", append(data, 4, 0, 0, 0, 'j', 'u', 'n', 'k'))

	out, err := run(t, mfs, "inspect", "/broken.vrlog")
	require.Error(t, err)
	assert.ErrorIs(t, err, chunk.ErrCorruptFrame)
	assert.NotContains(t, out, "chunks\n")
}

func TestVersion(t *testing.T) {
	out, err := run(t, fsutil.NewMemoryFileSystem(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "vrtypes dev")
	assert.Contains(t, out, "stream format: VRLG v1")
}
