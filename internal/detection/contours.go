package detection

import "image"

// FindContours traces the borders of every 8-connected region of nonzero
// pixels, both outer borders and the borders of holes, using Suzuki and
// Abe's border following. Every border pixel is listed in tracing order with
// no chain compression, and no hierarchy is kept. Pixels outside the image
// count as zero.
//
// Points are reported in the coordinates of bin.
func FindContours(bin *image.Gray) [][]image.Point {
	b := bin.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}

	// Labels live in a copy framed by a one pixel border of zeros.
	pw, ph := w+2, h+2
	f := make([]int32, pw*ph)
	for y := 0; y < h; y++ {
		row := bin.Pix[bin.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < w; x++ {
			if row[x] != 0 {
				f[(y+1)*pw+x+1] = 1
			}
		}
	}

	t := tracer{
		f:      f,
		stride: pw,
		origin: b.Min,
		// Clockwise on screen, starting east.
		dirs: [8]int{1, pw + 1, pw, pw - 1, -1, -pw - 1, -pw, -pw + 1},
	}

	var contours [][]image.Point
	nbd := int32(1)
	for i := 1; i < ph-1; i++ {
		for j := 1; j < pw-1; j++ {
			idx := i*pw + j
			v := f[idx]
			if v == 0 {
				continue
			}

			var from int
			switch {
			case v == 1 && f[idx-1] == 0:
				from = idx - 1 // outer border
			case v >= 1 && f[idx+1] == 0:
				from = idx + 1 // hole border
			default:
				continue
			}

			nbd++
			contours = append(contours, t.follow(idx, from, nbd))
		}
	}
	return contours
}

type tracer struct {
	f      []int32
	stride int
	origin image.Point
	dirs   [8]int
}

func (t *tracer) point(idx int) image.Point {
	return image.Point{
		X: idx%t.stride - 1 + t.origin.X,
		Y: idx/t.stride - 1 + t.origin.Y,
	}
}

func (t *tracer) direction(center, neighbor int) int {
	d := neighbor - center
	for k, off := range t.dirs {
		if off == d {
			return k
		}
	}
	return 0
}

// follow traces one border starting at start, whose zero neighbour from
// decides the side being followed, and labels it with nbd.
func (t *tracer) follow(start, from int, nbd int32) []image.Point {
	f := t.f

	// Clockwise search for the first nonzero neighbour.
	k0 := t.direction(start, from)
	first := -1
	for n := 0; n < 8; n++ {
		nb := start + t.dirs[(k0+n)%8]
		if f[nb] != 0 {
			first = nb
			break
		}
	}
	if first < 0 {
		f[start] = -nbd
		return []image.Point{t.point(start)}
	}

	var pts []image.Point
	prev, cur := first, start
	for {
		pts = append(pts, t.point(cur))

		// Counter-clockwise search starting just after prev.
		k := t.direction(cur, prev)
		eastZero := false
		next := prev
		for n := 0; n < 8; n++ {
			k = (k + 7) % 8
			nb := cur + t.dirs[k]
			if f[nb] != 0 {
				next = nb
				break
			}
			if k == 0 {
				eastZero = true
			}
		}

		if eastZero {
			f[cur] = -nbd
		} else if f[cur] == 1 {
			f[cur] = nbd
		}

		if next == start && cur == first {
			return pts
		}
		prev, cur = cur, next
	}
}
