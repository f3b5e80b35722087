package registry

import (
	"sync"

	"github.com/banshee-data/vrtypes/internal/types/blueprint"
	"github.com/banshee-data/vrtypes/internal/types/components"
	dt "github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// Builtin returns the descriptors of every datatype, component and
// blueprint component defined in this module.
func Builtin() []Descriptor {
	return []Descriptor{
		Describe(KindDatatype, dt.Float32Loggable, "single-precision float"),
		Describe(KindDatatype, dt.Float64Loggable, "double-precision float"),
		Describe(KindDatatype, dt.UInt16Loggable, "unsigned 16-bit integer"),
		Describe(KindDatatype, dt.UInt32Loggable, "unsigned 32-bit integer"),
		Describe(KindDatatype, dt.UInt64Loggable, "unsigned 64-bit integer"),
		Describe(KindDatatype, dt.BoolLoggable, "boolean flag"),
		Describe(KindDatatype, dt.Utf8Loggable, "UTF-8 string"),
		Describe(KindDatatype, dt.EntityPathLoggable, "slash-separated entity path"),
		Describe(KindDatatype, dt.TimeIntLoggable, "timeline point: sequence number or nanoseconds"),
		Describe(KindDatatype, dt.UUIDLoggable, "16-byte identifier"),
		Describe(KindDatatype, dt.Vec2DLoggable, "2D float32 vector"),
		Describe(KindDatatype, dt.Vec3DLoggable, "3D float32 vector"),
		Describe(KindDatatype, dt.Vec4DLoggable, "4D float32 vector"),
		Describe(KindDatatype, dt.UVec2DLoggable, "2D uint32 vector"),
		Describe(KindDatatype, dt.UVec3DLoggable, "3D uint32 vector"),
		Describe(KindDatatype, dt.QuaternionLoggable, "rotation quaternion, xyzw"),
		Describe(KindDatatype, dt.Mat3x3Loggable, "3x3 column-major matrix"),
		Describe(KindDatatype, dt.Mat4x4Loggable, "4x4 column-major matrix"),
		Describe(KindDatatype, dt.Rgba32Loggable, "sRGBA colour packed as 0xRRGGBBAA"),
		Describe(KindDatatype, dt.Range1DLoggable, "closed float64 interval"),
		Describe(KindDatatype, dt.KeypointPairLoggable, "pair of connected keypoint ids"),
		Describe(KindDatatype, dt.AngleLoggable, "angle in radians or degrees"),
		Describe(KindDatatype, dt.RotationAxisAngleLoggable, "rotation about an axis"),
		Describe(KindDatatype, dt.Rotation3DLoggable, "quaternion or axis-angle rotation"),
		Describe(KindDatatype, dt.Scale3DLoggable, "per-axis or uniform scale"),
		Describe(KindDatatype, dt.TranslationRotationScale3DLoggable, "affine transform from optional parts"),
		Describe(KindDatatype, dt.TranslationAndMat3x3Loggable, "affine transform from translation and linear part"),
		Describe(KindDatatype, dt.Transform3DLoggable, "3D affine transform"),
		Describe(KindDatatype, dt.MaterialLoggable, "mesh surface properties"),
		Describe(KindDatatype, dt.PixelFormatLoggable, "packed or subsampled pixel layout"),
		Describe(KindDatatype, dt.ColorModelLoggable, "image channel layout"),
		Describe(KindDatatype, dt.ChannelDatatypeLoggable, "image channel element type"),
		Describe(KindDatatype, dt.ImageFormatLoggable, "image buffer layout"),
		Describe(KindDatatype, dt.TensorDimensionLoggable, "tensor axis size and name"),
		Describe(KindDatatype, dt.TensorBufferLoggable, "typed tensor element storage"),
		Describe(KindDatatype, dt.TensorDataLoggable, "n-dimensional array"),
		Describe(KindDatatype, dt.TimeRangeBoundaryLoggable, "one end of a time range"),
		Describe(KindDatatype, dt.TimeRangeLoggable, "span of a timeline"),
		Describe(KindDatatype, dt.VisibleTimeRangeLoggable, "time range for a named timeline"),

		Describe(KindComponent, components.Position2DLoggable, "point in 2D space"),
		Describe(KindComponent, components.Position3DLoggable, "point in 3D space"),
		Describe(KindComponent, components.Vector3DLoggable, "3D direction and magnitude"),
		Describe(KindComponent, components.HalfSize3DLoggable, "half extents of a box"),
		Describe(KindComponent, components.Texcoord2DLoggable, "texture coordinate"),
		Describe(KindComponent, components.ColorLoggable, "sRGBA colour"),
		Describe(KindComponent, components.RadiusLoggable, "point size or line thickness"),
		Describe(KindComponent, components.DrawOrderLoggable, "2D draw order"),
		Describe(KindComponent, components.OpacityLoggable, "alpha multiplier"),
		Describe(KindComponent, components.ScalarLoggable, "time series sample"),
		Describe(KindComponent, components.TextLoggable, "label or document text"),
		Describe(KindComponent, components.NameLoggable, "display name"),
		Describe(KindComponent, components.MediaTypeLoggable, "IANA media type"),
		Describe(KindComponent, components.TextLogLevelLoggable, "log line severity"),
		Describe(KindComponent, components.ClassIdLoggable, "annotation class id"),
		Describe(KindComponent, components.KeypointIdLoggable, "keypoint id"),
		Describe(KindComponent, components.ShowLabelsLoggable, "label visibility"),
		Describe(KindComponent, components.DisconnectedSpaceLoggable, "breaks the transform chain"),
		Describe(KindComponent, components.Range1DLoggable, "plot axis range"),
		Describe(KindComponent, components.TriangleIndicesLoggable, "mesh triangle vertex indices"),
		Describe(KindComponent, components.LineStrip2DLoggable, "2D polyline"),
		Describe(KindComponent, components.LineStrip3DLoggable, "3D polyline"),
		Describe(KindComponent, components.BlobLoggable, "opaque bytes"),
		Describe(KindComponent, components.ViewCoordinatesLoggable, "axis directions of a space"),
		Describe(KindComponent, components.FillModeLoggable, "3D shape fill mode"),
		Describe(KindComponent, components.MarkerShapeLoggable, "plot marker glyph"),
		Describe(KindComponent, components.Transform3DLoggable, "entity transform"),
		Describe(KindComponent, components.ImageFormatLoggable, "image buffer layout"),
		Describe(KindComponent, components.TensorDataLoggable, "tensor payload"),
		Describe(KindComponent, components.MaterialLoggable, "mesh material"),
		Describe(KindComponent, components.KeypointPairLoggable, "skeleton edge"),

		Describe(KindBlueprintComponent, blueprint.PanelStateLoggable, "side panel state"),
		Describe(KindBlueprintComponent, blueprint.ContainerKindLoggable, "container layout strategy"),
		Describe(KindBlueprintComponent, blueprint.BackgroundKindLoggable, "3D background fill"),
		Describe(KindBlueprintComponent, blueprint.Corner2DLoggable, "legend anchor corner"),
		Describe(KindBlueprintComponent, blueprint.ViewClassLoggable, "space view class"),
		Describe(KindBlueprintComponent, blueprint.QueryExpressionLoggable, "view contents rule"),
		Describe(KindBlueprintComponent, blueprint.SpaceViewOriginLoggable, "view origin entity"),
		Describe(KindBlueprintComponent, blueprint.IncludedContentLoggable, "container child"),
		Describe(KindBlueprintComponent, blueprint.ActiveTabLoggable, "selected tab"),
		Describe(KindBlueprintComponent, blueprint.RootContainerLoggable, "root container id"),
		Describe(KindBlueprintComponent, blueprint.SpaceViewMaximizedLoggable, "maximized view id"),
		Describe(KindBlueprintComponent, blueprint.VisibleLoggable, "visibility"),
		Describe(KindBlueprintComponent, blueprint.AutoLayoutLoggable, "automatic layout"),
		Describe(KindBlueprintComponent, blueprint.AutoSpaceViewsLoggable, "automatic views"),
		Describe(KindBlueprintComponent, blueprint.LockRangeDuringZoomLoggable, "pin axis range while zooming"),
		Describe(KindBlueprintComponent, blueprint.GridColumnsLoggable, "grid column count"),
		Describe(KindBlueprintComponent, blueprint.ColumnShareLoggable, "relative column width"),
		Describe(KindBlueprintComponent, blueprint.RowShareLoggable, "relative row height"),
		Describe(KindBlueprintComponent, blueprint.ViewerRecommendationHashLoggable, "applied view recommendation"),
		Describe(KindBlueprintComponent, blueprint.VisibleTimeRangeLoggable, "view time window"),
	}
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Default returns the registry populated with Builtin. It is built once.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		r := New()
		for _, d := range Builtin() {
			if err := r.Register(d); err != nil {
				defaultErr = err
				return
			}
		}
		defaultReg = r
	})
	return defaultReg, defaultErr
}
