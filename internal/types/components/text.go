package components

import (
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// Text is a label or a document body.
type Text datatypes.Utf8

// Name is a display name.
type Name datatypes.Utf8

// MediaType is an IANA media type, e.g. "text/markdown".
type MediaType datatypes.Utf8

// TextLogLevel is the severity of a log line. Any string is accepted; the
// constants below are the conventional ones.
type TextLogLevel datatypes.Utf8

// Scalar is a single value plotted over time.
type Scalar datatypes.Float64

// ClassId identifies an annotation class.
type ClassId datatypes.UInt16

// KeypointId identifies a keypoint within a class skeleton.
type KeypointId datatypes.UInt16

// KeypointPair connects two keypoints of a skeleton.
type KeypointPair datatypes.KeypointPair

const (
	MediaTypePlainText = MediaType("text/plain")
	MediaTypeMarkdown  = MediaType("text/markdown")
	MediaTypeJPEG      = MediaType("image/jpeg")
	MediaTypePNG       = MediaType("image/png")
	MediaTypeGLB       = MediaType("model/gltf-binary")
	MediaTypeSTL       = MediaType("model/stl")
)

const (
	LevelCritical = TextLogLevel("CRITICAL")
	LevelError    = TextLogLevel("ERROR")
	LevelWarn     = TextLogLevel("WARN")
	LevelInfo     = TextLogLevel("INFO")
	LevelDebug    = TextLogLevel("DEBUG")
	LevelTrace    = TextLogLevel("TRACE")
)

var (
	TextLoggable         = types.Rename[Text]("vr.components.Text", datatypes.Utf8Loggable)
	NameLoggable         = types.Rename[Name]("vr.components.Name", datatypes.Utf8Loggable)
	MediaTypeLoggable    = types.Rename[MediaType]("vr.components.MediaType", datatypes.Utf8Loggable)
	TextLogLevelLoggable = types.Rename[TextLogLevel]("vr.components.TextLogLevel", datatypes.Utf8Loggable)
	ScalarLoggable       = types.Rename[Scalar]("vr.components.Scalar", datatypes.Float64Loggable)
	ClassIdLoggable      = types.Rename[ClassId]("vr.components.ClassId", datatypes.UInt16Loggable)
	KeypointIdLoggable   = types.Rename[KeypointId]("vr.components.KeypointId", datatypes.UInt16Loggable)
	KeypointPairLoggable = types.Rename[KeypointPair]("vr.components.KeypointPair", datatypes.KeypointPairLoggable)
)
