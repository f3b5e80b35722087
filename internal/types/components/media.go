package components

import (
	"github.com/banshee-data/vrtypes/internal/types"
	"github.com/banshee-data/vrtypes/internal/types/datatypes"
)

// Blob is an opaque byte payload, e.g. an encoded image or mesh file.
type Blob []byte

// ImageFormat describes the pixel layout of an image buffer.
type ImageFormat datatypes.ImageFormat

// TensorData is an n-dimensional array of numbers.
type TensorData datatypes.TensorData

var (
	BlobLoggable        = types.NewListLoggable[Blob]("vr.components.Blob", types.NewUint8Loggable[byte]("vr.components.Blob"))
	ImageFormatLoggable = types.Rename[ImageFormat]("vr.components.ImageFormat", datatypes.ImageFormatLoggable)
	TensorDataLoggable  = types.Rename[TensorData]("vr.components.TensorData", datatypes.TensorDataLoggable)
)

// NumBytes returns the expected size of a buffer in this format.
func (f ImageFormat) NumBytes() int { return datatypes.ImageFormat(f).NumBytes() }

// Validate checks the tensor shape against its buffer.
func (t TensorData) Validate() error { return datatypes.TensorData(t).Validate() }
