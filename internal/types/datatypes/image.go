package datatypes

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/banshee-data/vrtypes/internal/types"
)

// ColorModel is the channel layout of an uncompressed image.
type ColorModel uint8

const (
	ColorModelL    ColorModel = 1
	ColorModelRGB  ColorModel = 2
	ColorModelRGBA ColorModel = 3
	ColorModelBGR  ColorModel = 4
	ColorModelBGRA ColorModel = 5
)

// NumChannels returns the channel count, or 0 for an unknown model.
func (c ColorModel) NumChannels() int {
	switch c {
	case ColorModelL:
		return 1
	case ColorModelRGB, ColorModelBGR:
		return 3
	case ColorModelRGBA, ColorModelBGRA:
		return 4
	}
	return 0
}

func (c ColorModel) String() string {
	switch c {
	case ColorModelL:
		return "L"
	case ColorModelRGB:
		return "RGB"
	case ColorModelRGBA:
		return "RGBA"
	case ColorModelBGR:
		return "BGR"
	case ColorModelBGRA:
		return "BGRA"
	}
	return fmt.Sprintf("ColorModel(%d)", uint8(c))
}

// ChannelDatatype is the element type of each image channel.
type ChannelDatatype uint8

const (
	ChannelU8  ChannelDatatype = 6
	ChannelI8  ChannelDatatype = 7
	ChannelU16 ChannelDatatype = 8
	ChannelI16 ChannelDatatype = 9
	ChannelU32 ChannelDatatype = 10
	ChannelI32 ChannelDatatype = 11
	ChannelU64 ChannelDatatype = 12
	ChannelI64 ChannelDatatype = 13
	ChannelF16 ChannelDatatype = 33
	ChannelF32 ChannelDatatype = 34
	ChannelF64 ChannelDatatype = 35
)

// Bits returns the bit width, or 0 for an unknown datatype.
func (c ChannelDatatype) Bits() int {
	switch c {
	case ChannelU8, ChannelI8:
		return 8
	case ChannelU16, ChannelI16, ChannelF16:
		return 16
	case ChannelU32, ChannelI32, ChannelF32:
		return 32
	case ChannelU64, ChannelI64, ChannelF64:
		return 64
	}
	return 0
}

// PixelFormat is a packed or chroma-subsampled pixel layout. When set it
// overrides ColorModel and ChannelDatatype.
type PixelFormat uint8

const (
	PixelFormatNV12 PixelFormat = 26
	PixelFormatYUY2 PixelFormat = 27
)

var (
	ColorModelLoggable = types.NewEnumLoggable("vr.datatypes.ColorModel", func(c ColorModel) bool {
		return c.NumChannels() > 0
	})
	ChannelDatatypeLoggable = types.NewEnumLoggable("vr.datatypes.ChannelDatatype", func(c ChannelDatatype) bool {
		return c.Bits() > 0
	})
	PixelFormatLoggable = types.NewEnumLoggable("vr.datatypes.PixelFormat", func(p PixelFormat) bool {
		return p == PixelFormatNV12 || p == PixelFormatYUY2
	})
)

// ImageFormat describes how the bytes of an image buffer are laid out.
type ImageFormat struct {
	Width           uint32
	Height          uint32
	PixelFormat     *PixelFormat
	ColorModel      *ColorModel
	ChannelDatatype *ChannelDatatype
}

// NumBytes returns the expected buffer size, or 0 when the format is
// underspecified.
func (f ImageFormat) NumBytes() int {
	pixels := int(f.Width) * int(f.Height)
	if f.PixelFormat != nil {
		switch *f.PixelFormat {
		case PixelFormatNV12:
			return pixels * 3 / 2
		case PixelFormatYUY2:
			return pixels * 2
		}
		return 0
	}
	if f.ColorModel == nil || f.ChannelDatatype == nil {
		return 0
	}
	return pixels * f.ColorModel.NumChannels() * f.ChannelDatatype.Bits() / 8
}

var imageFormatType = arrow.StructOf(
	types.Required("width", arrow.PrimitiveTypes.Uint32),
	types.Required("height", arrow.PrimitiveTypes.Uint32),
	types.Optional("pixel_format", arrow.PrimitiveTypes.Uint8),
	types.Optional("color_model", arrow.PrimitiveTypes.Uint8),
	types.Optional("channel_datatype", arrow.PrimitiveTypes.Uint8),
)

var ImageFormatLoggable = types.NewCompositeLoggable("vr.datatypes.ImageFormat", imageFormatType, fillImageFormat, decodeImageFormat)

func fillImageFormat(b array.Builder, elems []*ImageFormat) error {
	sb, err := types.BuilderAs[*array.StructBuilder](b)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if e == nil {
			sb.AppendNull()
			continue
		}
		sb.Append(true)
		if err := types.AppendOne(UInt32Loggable, sb.FieldBuilder(0), UInt32(e.Width)); err != nil {
			return err
		}
		if err := types.AppendOne(UInt32Loggable, sb.FieldBuilder(1), UInt32(e.Height)); err != nil {
			return err
		}
		if err := types.AppendMaybe(PixelFormatLoggable, sb.FieldBuilder(2), e.PixelFormat); err != nil {
			return err
		}
		if err := types.AppendMaybe(ColorModelLoggable, sb.FieldBuilder(3), e.ColorModel); err != nil {
			return err
		}
		if err := types.AppendMaybe(ChannelDatatypeLoggable, sb.FieldBuilder(4), e.ChannelDatatype); err != nil {
			return err
		}
	}
	return nil
}

func decodeImageFormat(arr arrow.Array) ([]*ImageFormat, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	widths, err := types.DecodeField(st, "width", UInt32Loggable)
	if err != nil {
		return nil, err
	}
	heights, err := types.DecodeField(st, "height", UInt32Loggable)
	if err != nil {
		return nil, err
	}
	pixelFormats, err := types.DecodeField(st, "pixel_format", PixelFormatLoggable)
	if err != nil {
		return nil, err
	}
	colorModels, err := types.DecodeField(st, "color_model", ColorModelLoggable)
	if err != nil {
		return nil, err
	}
	channelTypes, err := types.DecodeField(st, "channel_datatype", ChannelDatatypeLoggable)
	if err != nil {
		return nil, err
	}
	out := make([]*ImageFormat, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		w, err := types.Require(widths, "width", i)
		if err != nil {
			return nil, err
		}
		h, err := types.Require(heights, "height", i)
		if err != nil {
			return nil, err
		}
		out[i] = &ImageFormat{
			Width:           uint32(w),
			Height:          uint32(h),
			PixelFormat:     pixelFormats[i],
			ColorModel:      colorModels[i],
			ChannelDatatype: channelTypes[i],
		}
	}
	return out, nil
}

// Material holds the surface properties of a mesh.
type Material struct {
	AlbedoFactor *Rgba32
}

var materialType = arrow.StructOf(types.Optional("albedo_factor", arrow.PrimitiveTypes.Uint32))

var MaterialLoggable = types.NewCompositeLoggable("vr.datatypes.Material", materialType, fillMaterial, decodeMaterial)

func fillMaterial(b array.Builder, elems []*Material) error {
	sb, err := types.BuilderAs[*array.StructBuilder](b)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if e == nil {
			sb.AppendNull()
			continue
		}
		sb.Append(true)
		if err := types.AppendMaybe(Rgba32Loggable, sb.FieldBuilder(0), e.AlbedoFactor); err != nil {
			return err
		}
	}
	return nil
}

func decodeMaterial(arr arrow.Array) ([]*Material, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	albedo, err := types.DecodeField(st, "albedo_factor", Rgba32Loggable)
	if err != nil {
		return nil, err
	}
	out := make([]*Material, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		out[i] = &Material{AlbedoFactor: albedo[i]}
	}
	return out, nil
}

// KeypointPair connects two keypoints of the same class.
type KeypointPair struct {
	Keypoint0 uint16
	Keypoint1 uint16
}

var keypointPairType = arrow.StructOf(
	types.Required("keypoint0", arrow.PrimitiveTypes.Uint16),
	types.Required("keypoint1", arrow.PrimitiveTypes.Uint16),
)

var KeypointPairLoggable = types.NewCompositeLoggable("vr.datatypes.KeypointPair", keypointPairType, fillKeypointPair, decodeKeypointPair)

func fillKeypointPair(b array.Builder, elems []*KeypointPair) error {
	sb, err := types.BuilderAs[*array.StructBuilder](b)
	if err != nil {
		return err
	}
	for _, e := range elems {
		if e == nil {
			sb.AppendNull()
			continue
		}
		sb.Append(true)
		if err := types.AppendOne(UInt16Loggable, sb.FieldBuilder(0), UInt16(e.Keypoint0)); err != nil {
			return err
		}
		if err := types.AppendOne(UInt16Loggable, sb.FieldBuilder(1), UInt16(e.Keypoint1)); err != nil {
			return err
		}
	}
	return nil
}

func decodeKeypointPair(arr arrow.Array) ([]*KeypointPair, error) {
	st, err := types.ArrayAs[*array.Struct](arr)
	if err != nil {
		return nil, err
	}
	first, err := types.DecodeField(st, "keypoint0", UInt16Loggable)
	if err != nil {
		return nil, err
	}
	second, err := types.DecodeField(st, "keypoint1", UInt16Loggable)
	if err != nil {
		return nil, err
	}
	out := make([]*KeypointPair, st.Len())
	for i := range out {
		if st.IsNull(i) {
			continue
		}
		k0, err := types.Require(first, "keypoint0", i)
		if err != nil {
			return nil, err
		}
		k1, err := types.Require(second, "keypoint1", i)
		if err != nil {
			return nil, err
		}
		out[i] = &KeypointPair{Keypoint0: uint16(k0), Keypoint1: uint16(k1)}
	}
	return out, nil
}
