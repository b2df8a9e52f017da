package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestCellGrid(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 240, 240))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	result := CellGrid(img, 12, false, "#00FF00")
	if result.Bounds() != img.Bounds() {
		t.Fatalf("bounds: got %v, want %v", result.Bounds(), img.Bounds())
	}

	// Lines sit on every multiple of the 20 pixel cell.
	for _, x := range []int{20, 120, 220} {
		c := result.RGBAAt(x, 7)
		if c.G != 255 || c.R != 0 || c.B != 0 {
			t.Errorf("vertical line at x=%d: got %+v", x, c)
		}
	}
	for _, y := range []int{40, 200} {
		c := result.RGBAAt(7, y)
		if c.G != 255 || c.R != 0 {
			t.Errorf("horizontal line at y=%d: got %+v", y, c)
		}
	}

	// Cell interiors are untouched.
	if c := result.RGBAAt(10, 10); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("cell interior changed: %+v", c)
	}
	if c := result.RGBAAt(0, 0); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("outer edge should have no line: %+v", c)
	}
}

func TestCellGrid_DefaultColor(t *testing.T) {
	img := solidRGBA(120, 120, color.RGBA{0, 0, 0, 255})

	for _, hex := range []string{"", "not-a-colour"} {
		result := CellGrid(img, 6, false, hex)
		c := result.RGBAAt(20, 50)
		if c.R == 0 || c.G != 0 || c.B != 0 {
			t.Errorf("grid colour %q: expected red line, got %+v", hex, c)
		}
	}
}

func TestCellGrid_Labels(t *testing.T) {
	img := solidRGBA(240, 240, color.RGBA{255, 255, 255, 255})

	plain := CellGrid(img, 12, false, "")
	labelled := CellGrid(img, 12, true, "")

	differs := 0
	for y := 0; y < 20; y++ {
		for x := 0; x < 20; x++ {
			if plain.RGBAAt(x, y) != labelled.RGBAAt(x, y) {
				differs++
			}
		}
	}
	if differs == 0 {
		t.Error("labels did not change the first cell")
	}
}

func TestCellGrid_NoCells(t *testing.T) {
	img := solidRGBA(30, 30, color.RGBA{1, 2, 3, 255})
	result := CellGrid(img, 0, true, "")
	if c := result.RGBAAt(15, 15); c != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("zero cells should copy the image, got %+v", c)
	}
}

func TestCellGrid_OffsetBounds(t *testing.T) {
	base := solidRGBA(100, 100, color.RGBA{9, 9, 9, 255})
	sub := base.SubImage(image.Rect(50, 50, 100, 100))

	result := CellGrid(sub, 2, false, "#0000FF")
	if result.Bounds() != image.Rect(0, 0, 50, 50) {
		t.Errorf("bounds: got %v", result.Bounds())
	}
	if c := result.RGBAAt(25, 10); c.B != 255 {
		t.Errorf("expected line at x=25, got %+v", c)
	}
}
