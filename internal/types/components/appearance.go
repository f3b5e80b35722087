package components

import (
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// Color is an sRGBA colour packed as 0xRRGGBBAA.
type Color datatypes.Rgba32

// Radius is the size of a point or the thickness of a line.
type Radius datatypes.Float32

// DrawOrder orders overlapping 2D primitives; higher values are drawn on
// top.
type DrawOrder datatypes.Float32

// Opacity is a 0..1 multiplier applied to the alpha channel.
type Opacity datatypes.Float32

// ShowLabels toggles label rendering.
type ShowLabels datatypes.Bool

// Material is the surface appearance of a mesh.
type Material datatypes.Material

var (
	ColorLoggable      = types.Rename[Color]("vr.components.Color", datatypes.Rgba32Loggable)
	RadiusLoggable     = types.Rename[Radius]("vr.components.Radius", datatypes.Float32Loggable)
	DrawOrderLoggable  = types.Rename[DrawOrder]("vr.components.DrawOrder", datatypes.Float32Loggable)
	OpacityLoggable    = types.Rename[Opacity]("vr.components.Opacity", datatypes.Float32Loggable)
	ShowLabelsLoggable = types.Rename[ShowLabels]("vr.components.ShowLabels", datatypes.BoolLoggable)
	MaterialLoggable   = types.Rename[Material]("vr.components.Material", datatypes.MaterialLoggable)
)

// ColorRGB returns an opaque colour.
func ColorRGB(r, g, b uint8) Color { return Color(datatypes.RGB(r, g, b)) }

func (c Color) String() string { return datatypes.Rgba32(c).String() }

// FillMode selects how a 3D shape is drawn.
type FillMode uint8

const (
	FillModeMajorWireframe FillMode = 1
	FillModeDenseWireframe FillMode = 2
	FillModeSolid          FillMode = 3
)

var FillModeLoggable = types.NewEnumLoggable("vr.components.FillMode", func(m FillMode) bool {
	return m >= FillModeMajorWireframe && m <= FillModeSolid
})

// MarkerShape is the glyph used for a 2D point in plots.
type MarkerShape uint8

const (
	MarkerCircle   MarkerShape = 1
	MarkerDiamond  MarkerShape = 2
	MarkerSquare   MarkerShape = 3
	MarkerCross    MarkerShape = 4
	MarkerPlus     MarkerShape = 5
	MarkerUp       MarkerShape = 6
	MarkerDown     MarkerShape = 7
	MarkerLeft     MarkerShape = 8
	MarkerRight    MarkerShape = 9
	MarkerAsterisk MarkerShape = 10
)

var MarkerShapeLoggable = types.NewEnumLoggable("vr.components.MarkerShape", func(m MarkerShape) bool {
	return m >= MarkerCircle && m <= MarkerAsterisk
})
