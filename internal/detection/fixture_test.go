package detection

import (
	"image"
	"image/color"
	"image/draw"
)

// grid is the 10×10 area inside the black border, true for white cells.
type grid [GridCells - 2][GridCells - 2]bool

const gridSide = GridCells - 2

var colorWhite = color.Gray{Y: 255}

// readingGrid lays out a marker in reading position: white corners at the
// top left, top right and bottom left, the data area holding id and sum.
func readingGrid(id uint64, sum uint16) grid {
	var g grid
	g[0][0] = true
	g[0][gridSide-1] = true
	g[gridSide-1][0] = true
	for r := 0; r < DataCells; r++ {
		for c := 0; c < DataCells; c++ {
			var bit bool
			if r < IDRows {
				bit = id>>(r*DataCells+c)&1 == 1
			} else {
				bit = sum>>((r-IDRows)*DataCells+c)&1 == 1
			}
			g[r+1][c+1] = bit
		}
	}
	return g
}

func flipH(g grid) grid {
	var out grid
	for r := range g {
		for c := range g[r] {
			out[r][c] = g[r][gridSide-1-c]
		}
	}
	return out
}

func flipV(g grid) grid {
	var out grid
	for r := range g {
		out[r] = g[gridSide-1-r]
	}
	return out
}

func rotateCW(g grid) grid {
	var out grid
	for r := range g {
		for c := range g[r] {
			out[r][c] = g[gridSide-1-c][r]
		}
	}
	return out
}

func rotateCCW(g grid) grid {
	var out grid
	for r := range g {
		for c := range g[r] {
			out[r][c] = g[c][gridSide-1-r]
		}
	}
	return out
}

// turnedGrid returns the grid as it appears before the decoder applies the
// transform of the given corner code.
func turnedGrid(reading grid, code int) grid {
	switch code {
	case 7:
		return flipH(reading)
	case 11:
		return flipV(reading)
	case 13:
		return rotateCW(flipH(reading))
	case 14:
		return rotateCCW(flipH(reading))
	}
	panic("no transform for code")
}

// renderCanonical draws g with its black border at cell pixels per cell.
func renderCanonical(g grid, cell int) *image.Gray {
	size := GridCells * cell
	img := image.NewGray(image.Rect(0, 0, size, size))
	for r := range g {
		for c := range g[r] {
			if !g[r][c] {
				continue
			}
			rect := image.Rect((c+1)*cell, (r+1)*cell, (c+2)*cell, (r+2)*cell)
			draw.Draw(img, rect, image.NewUniform(colorWhite), image.Point{}, draw.Src)
		}
	}
	return img
}

// canonicalMarker renders a valid marker for id as seen with the given
// orientation code.
func canonicalMarker(id uint64, code int) *image.Gray {
	return renderCanonical(turnedGrid(readingGrid(id, Checksum(id)), code), 20)
}

// markerScene pastes the canonical marker for id at (at, at) on a white
// size×size frame.
func markerScene(id uint64, size, at int) *image.Gray {
	return scene(canonicalMarker(id, 7), size, at)
}

// scene pastes m at (at, at) on a white size×size frame.
func scene(m *image.Gray, size, at int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorWhite), image.Point{}, draw.Src)
	draw.Draw(img, m.Bounds().Add(image.Pt(at, at)), m, image.Point{}, draw.Src)
	return img
}

// fill paints rect of img with the given gray value.
func fill(img *image.Gray, rect image.Rectangle, v uint8) {
	draw.Draw(img, rect, image.NewUniform(color.Gray{Y: v}), image.Point{}, draw.Src)
}
