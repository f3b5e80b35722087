// Package archetypes bundles components into the objects users log:
// point clouds, boxes, line strips, transforms, images, tensors, text and
// scalars.
package archetypes

import (
	"errors"
	"fmt"

	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/components"
)

const prefix = "vr.archetypes."

// Points3D is a cloud of 3D points.
type Points3D struct {
	Positions   []components.Position3D
	Radii       []components.Radius
	Colors      []components.Color
	Labels      []components.Text
	ClassIds    []components.ClassId
	KeypointIds []components.KeypointId
	ShowLabels  *components.ShowLabels
}

func (Points3D) ArchetypeName() string { return prefix + "Points3D" }

func (a Points3D) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.Many(components.Position3DLoggable, a.Positions)).
		Optional(types.Many(components.RadiusLoggable, a.Radii)).
		Optional(types.Many(components.ColorLoggable, a.Colors)).
		Optional(types.Many(components.TextLoggable, a.Labels)).
		Optional(types.Many(components.ClassIdLoggable, a.ClassIds)).
		Optional(types.Many(components.KeypointIdLoggable, a.KeypointIds)).
		Optional(types.Maybe(components.ShowLabelsLoggable, a.ShowLabels)).
		Build()
}

// Points2D is a set of 2D points.
type Points2D struct {
	Positions []components.Position2D
	Radii     []components.Radius
	Colors    []components.Color
	Labels    []components.Text
	DrawOrder *components.DrawOrder
	ClassIds  []components.ClassId
}

func (Points2D) ArchetypeName() string { return prefix + "Points2D" }

func (a Points2D) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.Many(components.Position2DLoggable, a.Positions)).
		Optional(types.Many(components.RadiusLoggable, a.Radii)).
		Optional(types.Many(components.ColorLoggable, a.Colors)).
		Optional(types.Many(components.TextLoggable, a.Labels)).
		Optional(types.Maybe(components.DrawOrderLoggable, a.DrawOrder)).
		Optional(types.Many(components.ClassIdLoggable, a.ClassIds)).
		Build()
}

// Boxes3D is a set of oriented boxes given by half extents.
type Boxes3D struct {
	HalfSizes []components.HalfSize3D
	Centers   []components.Position3D
	Colors    []components.Color
	Radii     []components.Radius
	FillMode  *components.FillMode
	Labels    []components.Text
	ClassIds  []components.ClassId
}

func (Boxes3D) ArchetypeName() string { return prefix + "Boxes3D" }

func (a Boxes3D) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.Many(components.HalfSize3DLoggable, a.HalfSizes)).
		Optional(types.Many(components.Position3DLoggable, a.Centers)).
		Optional(types.Many(components.ColorLoggable, a.Colors)).
		Optional(types.Many(components.RadiusLoggable, a.Radii)).
		Optional(types.Maybe(components.FillModeLoggable, a.FillMode)).
		Optional(types.Many(components.TextLoggable, a.Labels)).
		Optional(types.Many(components.ClassIdLoggable, a.ClassIds)).
		Build()
}

// LineStrips3D is a set of polylines.
type LineStrips3D struct {
	Strips []components.LineStrip3D
	Radii  []components.Radius
	Colors []components.Color
	Labels []components.Text
}

func (LineStrips3D) ArchetypeName() string { return prefix + "LineStrips3D" }

func (a LineStrips3D) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.Many(components.LineStrip3DLoggable, a.Strips)).
		Optional(types.Many(components.RadiusLoggable, a.Radii)).
		Optional(types.Many(components.ColorLoggable, a.Colors)).
		Optional(types.Many(components.TextLoggable, a.Labels)).
		Build()
}

// Transform3D places an entity in its parent's space.
type Transform3D struct {
	Transform components.Transform3D
}

func (Transform3D) ArchetypeName() string { return prefix + "Transform3D" }

func (a Transform3D) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.Transform3DLoggable, []components.Transform3D{a.Transform})).
		Build()
}

// ErrBufferSize is returned when an image buffer does not match its format.
var ErrBufferSize = errors.New("image buffer size does not match format")

// Image is an uncompressed raster image.
type Image struct {
	Buffer    components.Blob
	Format    components.ImageFormat
	Opacity   *components.Opacity
	DrawOrder *components.DrawOrder
}

func (Image) ArchetypeName() string { return prefix + "Image" }

func (a Image) ComponentBatches() ([]types.ComponentBatch, error) {
	if want := a.Format.NumBytes(); want > 0 && want != len(a.Buffer) {
		return nil, fmt.Errorf("%s: %w: %d bytes, format needs %d", a.ArchetypeName(), ErrBufferSize, len(a.Buffer), want)
	}
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.BlobLoggable, []components.Blob{a.Buffer})).
		Required(types.NewBatch(components.ImageFormatLoggable, []components.ImageFormat{a.Format})).
		Optional(types.Maybe(components.OpacityLoggable, a.Opacity)).
		Optional(types.Maybe(components.DrawOrderLoggable, a.DrawOrder)).
		Build()
}

// Tensor is an n-dimensional array.
type Tensor struct {
	Data components.TensorData
}

func (Tensor) ArchetypeName() string { return prefix + "Tensor" }

func (a Tensor) ComponentBatches() ([]types.ComponentBatch, error) {
	if err := a.Data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", a.ArchetypeName(), err)
	}
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.TensorDataLoggable, []components.TensorData{a.Data})).
		Build()
}

// TextLog is one log line.
type TextLog struct {
	Text  components.Text
	Level *components.TextLogLevel
	Color *components.Color
}

func (TextLog) ArchetypeName() string { return prefix + "TextLog" }

func (a TextLog) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.TextLoggable, []components.Text{a.Text})).
		Optional(types.Maybe(components.TextLogLevelLoggable, a.Level)).
		Optional(types.Maybe(components.ColorLoggable, a.Color)).
		Build()
}

// TextDocument is a block of text, optionally markdown.
type TextDocument struct {
	Text      components.Text
	MediaType *components.MediaType
}

func (TextDocument) ArchetypeName() string { return prefix + "TextDocument" }

func (a TextDocument) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.TextLoggable, []components.Text{a.Text})).
		Optional(types.Maybe(components.MediaTypeLoggable, a.MediaType)).
		Build()
}

// Scalar is one sample of a time series.
type Scalar struct {
	Value components.Scalar
}

func (Scalar) ArchetypeName() string { return prefix + "Scalar" }

func (a Scalar) ComponentBatches() ([]types.ComponentBatch, error) {
	return types.NewBatchList(a.ArchetypeName()).
		Required(types.NewBatch(components.ScalarLoggable, []components.Scalar{a.Value})).
		Build()
}
