package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor is an opaque colour with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBAColor is a colour with 8-bit components and alpha.
type RGBAColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"` // 0 transparent, 255 opaque
}

// HSLColor is a colour in hue, saturation and lightness.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent
	L int `json:"l"` // Lightness: 0-100 percent
}

// ColorResult describes one colour in several notations. Marker colours are
// reported this way so clients can match them against rendered overlays.
type ColorResult struct {
	Hex  string    `json:"hex"`  // "#RRGGBB", alpha excluded
	RGB  RGBColor  `json:"rgb"`  // components without alpha
	RGBA RGBAColor `json:"rgba"` // components with alpha
	HSL  HSLColor  `json:"hsl"`
}

// DescribeColor converts c into every notation of ColorResult.
//
// The hue, saturation and lightness come from go-colorful and are rounded
// to whole degrees and percent.
func DescribeColor(c color.Color) ColorResult {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	cf := colorful.Color{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}

	return ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  RGBColor{R: n.R, G: n.G, B: n.B},
		RGBA: RGBAColor{R: n.R, G: n.G, B: n.B, A: n.A},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
	}
}

// ParseHexColor parses "#RRGGBB" or "#RRGGBBAA". The leading '#' is
// optional.
func ParseHexColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	switch len(hex) {
	case 7:
		c, err := colorful.Hex(hex)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 9:
		c, err := colorful.Hex(hex[:7])
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
		}
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in %q: %w", hex, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: uint8(a)}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length in %q", hex)
	}
}
