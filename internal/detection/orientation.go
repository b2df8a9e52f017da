package detection

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Orientation is the transform that brings a decoded marker's inner grid to
// its reading position.
type Orientation int

const (
	OrientationInvalid Orientation = iota
	FlipHorizontal
	RotateCCWThenFlip
	FlipVertical
	RotateCWThenFlip
)

// Corner bits of the orientation ring.
const (
	cornerBottomRight = 1
	cornerTopLeft     = 2
	cornerTopRight    = 4
	cornerBottomLeft  = 8
)

// orientationCodes maps the corner code to its transform. Codes not listed
// are invalid.
var orientationCodes = map[int]Orientation{
	cornerBottomRight | cornerTopLeft | cornerTopRight:    FlipHorizontal,    // 7
	cornerBottomRight | cornerTopRight | cornerBottomLeft: RotateCCWThenFlip, // 13
	cornerBottomRight | cornerTopLeft | cornerBottomLeft:  FlipVertical,      // 11
	cornerTopLeft | cornerTopRight | cornerBottomLeft:     RotateCWThenFlip,  // 14
}

// OrientationFromCode resolves a corner code.
func OrientationFromCode(code int) Orientation {
	return orientationCodes[code]
}

func (o Orientation) String() string {
	switch o {
	case FlipHorizontal:
		return "flip-horizontal"
	case RotateCCWThenFlip:
		return "rotate-ccw-flip"
	case FlipVertical:
		return "flip-vertical"
	case RotateCWThenFlip:
		return "rotate-cw-flip"
	default:
		return "invalid"
	}
}

// MarshalText encodes the orientation by name.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText accepts the names MarshalText produces.
func (o *Orientation) UnmarshalText(text []byte) error {
	for _, c := range []Orientation{OrientationInvalid, FlipHorizontal, RotateCCWThenFlip, FlipVertical, RotateCWThenFlip} {
		if c.String() == string(text) {
			*o = c
			return nil
		}
	}
	return fmt.Errorf("detection: unknown orientation %q", text)
}

// Apply transforms img. The result starts at the origin.
func (o Orientation) Apply(img image.Image) *image.Gray {
	switch o {
	case FlipHorizontal:
		return toGray(imaging.FlipH(img))
	case RotateCCWThenFlip:
		return toGray(imaging.FlipH(imaging.Rotate90(img)))
	case FlipVertical:
		return toGray(imaging.FlipV(img))
	case RotateCWThenFlip:
		return toGray(imaging.FlipH(imaging.Rotate270(img)))
	default:
		return toGray(imaging.Clone(img))
	}
}

// toGray converts the NRGBA results of the imaging package back to one
// channel. The canonical images are binary, so the red channel carries the
// whole value.
func toGray(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}
