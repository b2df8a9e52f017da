package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestToIntensity_Gray(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 10, 10))
	for i := range base.Pix {
		base.Pix[i] = uint8(i)
	}
	sub := base.SubImage(image.Rect(3, 4, 8, 9)).(*image.Gray)

	got := ToIntensity(sub)
	if got.Bounds() != image.Rect(0, 0, 5, 5) {
		t.Fatalf("bounds: got %v", got.Bounds())
	}
	if v := got.GrayAt(0, 0).Y; v != 43 {
		t.Errorf("origin pixel: got %d, want 43", v)
	}
	if v := got.GrayAt(4, 4).Y; v != 87 {
		t.Errorf("last pixel: got %d, want 87", v)
	}

	got.SetGray(0, 0, color.Gray{0})
	if base.GrayAt(3, 4).Y != 43 {
		t.Error("ToIntensity must copy, not alias, the source")
	}
}

func TestToIntensity_Color(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{255, 255, 255, 255})
	img.Set(1, 0, color.RGBA{0, 0, 0, 255})
	img.Set(2, 0, color.RGBA{0, 255, 0, 255})

	got := ToIntensity(img)
	if v := got.GrayAt(0, 0).Y; v < 254 {
		t.Errorf("white: got %d", v)
	}
	if v := got.GrayAt(1, 0).Y; v != 0 {
		t.Errorf("black: got %d", v)
	}
	// Green dominates luminance, so it is well above mid gray.
	if v := got.GrayAt(2, 0).Y; v < 128 || v == 255 {
		t.Errorf("green: got %d", v)
	}
}
