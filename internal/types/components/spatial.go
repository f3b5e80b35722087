// Package components defines the named, strongly typed values that can be
// attached to a logged entity. Each component is a defined type over a
// datatype and shares its memory layout, so batches are serialized by the
// datatype codec without copying.
package components

import (
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// Position2D is a point in 2D space.
type Position2D datatypes.Vec2D

// Position3D is a point in 3D space.
type Position3D datatypes.Vec3D

// Vector3D is a direction and magnitude in 3D space.
type Vector3D datatypes.Vec3D

// HalfSize3D is half the extent of a box along each axis.
type HalfSize3D datatypes.Vec3D

// Texcoord2D is a texture coordinate; (0, 0) is the top left corner.
type Texcoord2D datatypes.Vec2D

// TriangleIndices indexes three vertices of a mesh.
type TriangleIndices datatypes.UVec3D

// Range1D is a single closed interval, used for plot axes.
type Range1D datatypes.Range1D

// LineStrip2D is a connected sequence of 2D points.
type LineStrip2D []datatypes.Vec2D

// LineStrip3D is a connected sequence of 3D points.
type LineStrip3D []datatypes.Vec3D

// Transform3D places an entity relative to its parent.
type Transform3D datatypes.Transform3D

// DisconnectedSpace marks an entity whose space is unrelated to its
// parent's.
type DisconnectedSpace datatypes.Bool

var (
	Position2DLoggable        = types.Rename[Position2D]("vr.components.Position2D", datatypes.Vec2DLoggable)
	Position3DLoggable        = types.Rename[Position3D]("vr.components.Position3D", datatypes.Vec3DLoggable)
	Vector3DLoggable          = types.Rename[Vector3D]("vr.components.Vector3D", datatypes.Vec3DLoggable)
	HalfSize3DLoggable        = types.Rename[HalfSize3D]("vr.components.HalfSize3D", datatypes.Vec3DLoggable)
	Texcoord2DLoggable        = types.Rename[Texcoord2D]("vr.components.Texcoord2D", datatypes.Vec2DLoggable)
	TriangleIndicesLoggable   = types.Rename[TriangleIndices]("vr.components.TriangleIndices", datatypes.UVec3DLoggable)
	Range1DLoggable           = types.Rename[Range1D]("vr.components.Range1D", datatypes.Range1DLoggable)
	LineStrip2DLoggable       = types.NewListLoggable[LineStrip2D]("vr.components.LineStrip2D", datatypes.Vec2DLoggable)
	LineStrip3DLoggable       = types.NewListLoggable[LineStrip3D]("vr.components.LineStrip3D", datatypes.Vec3DLoggable)
	Transform3DLoggable       = types.Rename[Transform3D]("vr.components.Transform3D", datatypes.Transform3DLoggable)
	DisconnectedSpaceLoggable = types.Rename[DisconnectedSpace]("vr.components.DisconnectedSpace", datatypes.BoolLoggable)
)

// Vec3D returns p as its underlying datatype.
func (p Position3D) Vec3D() datatypes.Vec3D { return datatypes.Vec3D(p) }

// Mat4x4 returns the homogeneous matrix of the transform.
func (t Transform3D) Mat4x4() datatypes.Mat4x4 { return datatypes.Transform3D(t).Mat4x4() }

// ViewDir is one axis direction of a ViewCoordinates.
type ViewDir uint8

const (
	ViewUp      ViewDir = 1
	ViewDown    ViewDir = 2
	ViewRight   ViewDir = 3
	ViewLeft    ViewDir = 4
	ViewForward ViewDir = 5
	ViewBack    ViewDir = 6
)

// ViewCoordinates names the direction of the X, Y and Z axes, e.g. RDF
// means X=Right, Y=Down, Z=Forward.
type ViewCoordinates [3]ViewDir

var (
	ViewCoordinatesRDF = ViewCoordinates{ViewRight, ViewDown, ViewForward}
	ViewCoordinatesRUB = ViewCoordinates{ViewRight, ViewUp, ViewBack}
	ViewCoordinatesRFU = ViewCoordinates{ViewRight, ViewForward, ViewUp}
	ViewCoordinatesFLU = ViewCoordinates{ViewForward, ViewLeft, ViewUp}
)

// ViewCoordinatesLoggable rejects coordinates that are not Valid.
var ViewCoordinatesLoggable = types.NewValidatedLoggable(
	types.NewUint8FixedSizeLoggable[ViewCoordinates]("vr.components.ViewCoordinates", 3),
	ViewCoordinates.Valid,
)

// Valid reports whether the three directions are known and span all
// three axes.
func (v ViewCoordinates) Valid() bool {
	var seen [3]bool
	for _, d := range v {
		if d < ViewUp || d > ViewBack {
			return false
		}
		axis := (d - 1) / 2
		if seen[axis] {
			return false
		}
		seen[axis] = true
	}
	return true
}

func (v ViewCoordinates) String() string {
	letters := [...]byte{0, 'U', 'D', 'R', 'L', 'F', 'B'}
	out := make([]byte, 0, 3)
	for _, d := range v {
		if int(d) < len(letters) && d > 0 {
			out = append(out, letters[d])
		} else {
			out = append(out, '?')
		}
	}
	return string(out)
}
