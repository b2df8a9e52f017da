package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

var red = color.RGBA{255, 0, 0, 255}

func TestToRGBA(t *testing.T) {
	g := image.NewGray(image.Rect(10, 10, 20, 20))
	g.SetGray(10, 10, color.Gray{200})

	got := ToRGBA(g)
	if got.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds: got %v", got.Bounds())
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{200, 200, 200, 255}) {
		t.Errorf("origin: got %+v", c)
	}
}

func TestDrawLine(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	DrawLine(img, geometry.Pt(5, 5), geometry.Pt(45, 5), red, 1)

	for x := 5; x <= 45; x++ {
		if img.RGBAAt(x, 5) != red {
			t.Fatalf("pixel (%d,5) not drawn", x)
		}
	}
	if img.RGBAAt(5, 6) == red || img.RGBAAt(4, 5) == red {
		t.Error("thin line leaked outside its path")
	}

	diag := image.NewRGBA(image.Rect(0, 0, 50, 50))
	DrawLine(diag, geometry.Pt(0, 0), geometry.Pt(20, 20), red, 1)
	for i := 0; i <= 20; i++ {
		if diag.RGBAAt(i, i) != red {
			t.Fatalf("diagonal pixel (%d,%d) not drawn", i, i)
		}
	}
}

func TestDrawLine_Thickness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 50, 50))
	DrawLine(img, geometry.Pt(10, 20), geometry.Pt(40, 20), red, 3)

	for _, y := range []int{19, 20, 21} {
		if img.RGBAAt(25, y) != red {
			t.Errorf("row %d not covered by thick line", y)
		}
	}
	if img.RGBAAt(25, 22) == red || img.RGBAAt(25, 18) == red {
		t.Error("thick line wider than requested")
	}
}

func TestDrawLine_Clipped(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	DrawLine(img, geometry.Pt(-20, 5), geometry.Pt(30, 5), red, 2)
	if img.RGBAAt(0, 5) != red || img.RGBAAt(9, 5) != red {
		t.Error("visible part of clipped line not drawn")
	}
}

func TestDrawPolygon(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 40))
	square := []geometry.Point{
		geometry.Pt(10, 10), geometry.Pt(30, 10), geometry.Pt(30, 30), geometry.Pt(10, 30),
	}
	DrawPolygon(img, square, red, 1)

	for _, p := range []image.Point{{20, 10}, {30, 20}, {20, 30}, {10, 20}} {
		if img.RGBAAt(p.X, p.Y) != red {
			t.Errorf("edge pixel %v not drawn", p)
		}
	}
	if img.RGBAAt(20, 20) == red {
		t.Error("polygon interior should stay empty")
	}
}

func TestDrawLabel(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 60, 30))
	bg := color.RGBA{0, 0, 255, 255}
	DrawLabel(img, 5, 5, "42", color.RGBA{255, 255, 255, 255}, bg)

	if img.RGBAAt(4, 4) != bg {
		t.Errorf("background box missing: %+v", img.RGBAAt(4, 4))
	}
	white := 0
	for y := 5; y < 20; y++ {
		for x := 5; x < 20; x++ {
			if img.RGBAAt(x, y).R > 128 {
				white++
			}
		}
	}
	if white == 0 {
		t.Error("no glyph pixels drawn")
	}
	if img.RGBAAt(50, 25) != (color.RGBA{}) {
		t.Error("label box too large")
	}
}
