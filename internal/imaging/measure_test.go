package imaging

import (
	"image"
	"math"
	"testing"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

func TestMeasureDistance(t *testing.T) {
	bounds := image.Rect(0, 0, 200, 100)

	tests := []struct {
		name     string
		a, b     geometry.Point
		distance float64
		angle    float64
		pctW     float64
		pctH     float64
	}{
		{"horizontal", geometry.Pt(0, 0), geometry.Pt(100, 0), 100, 0, 50, 100},
		{"down", geometry.Pt(10, 10), geometry.Pt(10, 60), 50, 90, 25, 50},
		{"left", geometry.Pt(50, 0), geometry.Pt(0, 0), 50, 180, 25, 50},
		{"diagonal", geometry.Pt(0, 0), geometry.Pt(30, 40), 50, 53.1, 25, 50},
		{"subpixel", geometry.Pt(0.5, 0.5), geometry.Pt(1.5, 0.5), 1, 0, 0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeasureDistance(bounds, tt.a, tt.b)
			if got.DistancePixels != tt.distance {
				t.Errorf("distance: got %v, want %v", got.DistancePixels, tt.distance)
			}
			if got.AngleDegrees != tt.angle {
				t.Errorf("angle: got %v, want %v", got.AngleDegrees, tt.angle)
			}
			if got.DistancePercentWidth != tt.pctW || got.DistancePercentHeight != tt.pctH {
				t.Errorf("percent: got %v/%v, want %v/%v", got.DistancePercentWidth, got.DistancePercentHeight, tt.pctW, tt.pctH)
			}
		})
	}

	if got := MeasureDistance(image.Rectangle{}, geometry.Pt(0, 0), geometry.Pt(3, 4)); got.DistancePercentWidth != 0 {
		t.Errorf("empty bounds should leave percentages at zero, got %+v", got)
	}
}

func TestMeasureQuad_Square(t *testing.T) {
	bounds := image.Rect(0, 0, 480, 480)
	square := [4]geometry.Point{
		geometry.Pt(120, 120), geometry.Pt(360, 120), geometry.Pt(360, 360), geometry.Pt(120, 360),
	}

	m := MeasureQuad(bounds, square)
	for i, e := range m.Edges {
		if e.DistancePixels != 240 {
			t.Errorf("edge %d: got %v, want 240", i, e.DistancePixels)
		}
		if m.CornerAngles[i] != 90 {
			t.Errorf("corner %d: got %v, want 90", i, m.CornerAngles[i])
		}
	}
	if m.Edges[1].AngleDegrees != 90 {
		t.Errorf("second edge should point down, got %v", m.Edges[1].AngleDegrees)
	}
	diag := math.Round(240*math.Sqrt2*100) / 100
	if m.Diagonals != [2]float64{diag, diag} {
		t.Errorf("diagonals: got %v, want %v", m.Diagonals, diag)
	}
	if m.Area != 240*240 {
		t.Errorf("area: got %v", m.Area)
	}
	if m.EdgeRatio != 1 {
		t.Errorf("edge ratio: got %v", m.EdgeRatio)
	}
}

func TestMeasureQuad_Perspective(t *testing.T) {
	// A trapezoid: the far edge is half as long as the near one.
	trapezoid := [4]geometry.Point{
		geometry.Pt(50, 0), geometry.Pt(150, 0), geometry.Pt(200, 100), geometry.Pt(0, 100),
	}

	m := MeasureQuad(image.Rect(0, 0, 200, 100), trapezoid)
	if m.EdgeRatio != 0.5 {
		t.Errorf("edge ratio: got %v, want 0.5", m.EdgeRatio)
	}
	if m.Area != 15000 {
		t.Errorf("area: got %v, want 15000", m.Area)
	}
	sum := 0.0
	for _, a := range m.CornerAngles {
		sum += a
	}
	if math.Abs(sum-360) > 0.2 {
		t.Errorf("corner angles should sum to 360, got %v", sum)
	}
	if m.CornerAngles[0] <= 90 || m.CornerAngles[3] >= 90 {
		t.Errorf("unexpected corner angles %v", m.CornerAngles)
	}
}

func TestMeasureQuad_Degenerate(t *testing.T) {
	var pts [4]geometry.Point
	m := MeasureQuad(image.Rect(0, 0, 10, 10), pts)
	if m.EdgeRatio != 0 || m.Area != 0 || m.CornerAngles != [4]float64{} {
		t.Errorf("coincident points should measure zero, got %+v", m)
	}
}
