package detection

import (
	"image"
	"math"
)

// SeedThreshold is used when the histogram admits no split, for example
// when every pixel has the same value.
const SeedThreshold = 127

// otsuEpsilon matches single precision machine epsilon, below which a class
// weight counts as empty.
const otsuEpsilon = 1.1920929e-07

// OtsuThreshold returns the threshold that maximises the between-class
// variance of the intensity histogram. On ties the lowest threshold wins.
// The second result is false when no threshold splits the pixels into two
// non-empty classes.
func OtsuThreshold(gray *image.Gray) (uint8, bool) {
	b := gray.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return SeedThreshold, false
	}

	var hist [256]int
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := gray.Pix[gray.PixOffset(b.Min.X, y):]
		for x := 0; x < b.Dx(); x++ {
			hist[row[x]]++
		}
	}

	scale := 1 / float64(total)
	var mu float64
	for i, h := range hist {
		mu += float64(i) * float64(h)
	}
	mu *= scale

	var q1, mu1, maxSigma float64
	best, found := 0, false
	for i, h := range hist {
		p := float64(h) * scale
		mu1 *= q1
		q1 += p
		q2 := 1 - q1

		if math.Min(q1, q2) < otsuEpsilon || math.Max(q1, q2) > 1-otsuEpsilon {
			continue
		}

		mu1 = (mu1 + float64(i)*p) / q1
		mu2 := (mu - q1*mu1) / q2
		sigma := q1 * q2 * (mu1 - mu2) * (mu1 - mu2)
		if sigma > maxSigma {
			maxSigma, best, found = sigma, i, true
		}
	}
	if !found {
		return SeedThreshold, false
	}
	return uint8(best), true
}

// Binarize thresholds gray with Otsu's method. Pixels brighter than the
// threshold become 255, the rest 0. The result always starts at the origin.
func Binarize(gray *image.Gray) (*image.Gray, uint8) {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if b.Empty() {
		return out, SeedThreshold
	}

	t, _ := OtsuThreshold(gray)
	for y := 0; y < b.Dy(); y++ {
		src := gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < b.Dx(); x++ {
			if src[x] > t {
				dst[x] = 255
			}
		}
	}
	return out, t
}
