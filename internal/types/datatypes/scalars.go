// Package datatypes holds the reusable value shapes that components are
// built from, each paired with its Arrow codec.
package datatypes

import "github.com/banshee-data/vrtypes/internal/types"

// Float32 is a single-precision float.
type Float32 float32

// Float64 is a double-precision float.
type Float64 float64

// UInt16 is an unsigned 16-bit integer.
type UInt16 uint16

// UInt32 is an unsigned 32-bit integer.
type UInt32 uint32

// UInt64 is an unsigned 64-bit integer.
type UInt64 uint64

// Bool is a single boolean flag.
type Bool bool

// Utf8 is a UTF-8 string.
type Utf8 string

// EntityPath is a slash-separated path to an entity, e.g. "/world/points".
type EntityPath string

// TimeInt is a point on a timeline: a sequence number or nanoseconds since
// the Unix epoch, depending on the timeline.
type TimeInt int64

var (
	Float32Loggable    = types.NewFloat32Loggable[Float32]("vr.datatypes.Float32")
	Float64Loggable    = types.NewFloat64Loggable[Float64]("vr.datatypes.Float64")
	UInt16Loggable     = types.NewUint16Loggable[UInt16]("vr.datatypes.UInt16")
	UInt32Loggable     = types.NewUint32Loggable[UInt32]("vr.datatypes.UInt32")
	UInt64Loggable     = types.NewUint64Loggable[UInt64]("vr.datatypes.UInt64")
	BoolLoggable       = types.NewBoolLoggable[Bool]("vr.datatypes.Bool")
	Utf8Loggable       = types.NewStringLoggable[Utf8]("vr.datatypes.Utf8")
	EntityPathLoggable = types.NewStringLoggable[EntityPath]("vr.datatypes.EntityPath")
	TimeIntLoggable    = types.NewInt64Loggable[TimeInt]("vr.datatypes.TimeInt")
)
