package datatypes

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/banshee-data/vrtypes/internal/types"
)

// Rgba32 is an sRGB colour with linear alpha packed as 0xRRGGBBAA.
type Rgba32 uint32

var Rgba32Loggable = types.NewUint32Loggable[Rgba32]("vr.datatypes.Rgba32")

// RGBA packs four channels.
func RGBA(r, g, b, a uint8) Rgba32 {
	return Rgba32(uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a))
}

// RGB packs three channels with full opacity.
func RGB(r, g, b uint8) Rgba32 {
	return RGBA(r, g, b, 0xff)
}

// Channels unpacks the colour.
func (c Rgba32) Channels() (r, g, b, a uint8) {
	return uint8(c >> 24), uint8(c >> 16), uint8(c >> 8), uint8(c)
}

func (c Rgba32) String() string {
	return fmt.Sprintf("#%08x", uint32(c))
}

// ParseRgba32 parses "#RRGGBB" or "#RRGGBBAA"; the leading '#' is optional.
func ParseRgba32(s string) (Rgba32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 6:
		hex += "ff"
	case 8:
	default:
		return 0, fmt.Errorf("invalid colour %q: want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return Rgba32(v), nil
}
