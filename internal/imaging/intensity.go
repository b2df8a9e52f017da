package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// ToIntensity converts any image to a single-channel intensity image whose
// bounds start at the origin.
//
// Gray images are copied as they are. Everything else goes through bild's
// luminance-weighted grayscale conversion.
func ToIntensity(img image.Image) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))

	if g, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], g.Pix[g.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return out
	}

	rgba := effect.Grayscale(img)
	rb := rgba.Bounds()
	for y := 0; y < rb.Dy(); y++ {
		src := rgba.Pix[rgba.PixOffset(rb.Min.X, rb.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < rb.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return out
}
