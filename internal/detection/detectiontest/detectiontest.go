// Package detectiontest renders synthetic marker frames for tests of the
// packages built on the detector.
package detectiontest

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/ironsheep/marker-tools-mcp/internal/detection"
)

// CellSize is the pixel size of one grid cell in rendered markers, which
// makes Marker the same size as the canonical image.
const CellSize = detection.DefaultMarkerSize / detection.GridCells

const inner = detection.GridCells - 2

// Marker renders a valid marker for id, black border included, mirrored
// left to right as a camera looking at a printed marker through a mirror
// would see it. The decoder undoes the mirror.
func Marker(id uint64) *image.Gray {
	sum := detection.Checksum(id)
	var cells [inner][inner]bool
	cells[0][0] = true
	cells[0][inner-1] = true
	cells[inner-1][0] = true
	for r := 0; r < detection.DataCells; r++ {
		for c := 0; c < detection.DataCells; c++ {
			var bit uint64
			if r < detection.IDRows {
				bit = id >> (r*detection.DataCells + c) & 1
			} else {
				bit = uint64(sum) >> ((r-detection.IDRows)*detection.DataCells + c) & 1
			}
			cells[r+1][c+1] = bit == 1
		}
	}

	size := detection.GridCells * CellSize
	img := image.NewGray(image.Rect(0, 0, size, size))
	white := image.NewUniform(color.Gray{Y: 255})
	for r := range cells {
		for c := range cells[r] {
			if !cells[r][inner-1-c] {
				continue
			}
			rect := image.Rect((c+1)*CellSize, (r+1)*CellSize, (c+2)*CellSize, (r+2)*CellSize)
			draw.Draw(img, rect, white, image.Point{}, draw.Src)
		}
	}
	return img
}

// Scene pastes the marker for id at (at, at) on a white size×size frame.
func Scene(id uint64, size, at int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	m := Marker(id)
	draw.Draw(img, m.Bounds().Add(image.Pt(at, at)), m, image.Point{}, draw.Src)
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
