package detection

import "github.com/rs/zerolog"

// DefaultContourDivisor gives the minimum contour length recorded in a Frame,
// a fifth of the frame width, when no filter divisor is set.
const DefaultContourDivisor = 5

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger receiving integrity mismatches and per-frame
// summaries. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

// WithMinContourDivisor skips contours shorter than the frame width divided
// by n before polygon approximation. Every contour is approximated by
// default; zero or less keeps that.
func WithMinContourDivisor(n int) Option {
	return func(d *Detector) {
		d.contourDivisor = n
	}
}

// WithSubpixel overrides corner refinement. A window of zero disables it.
func WithSubpixel(window, maxIterations int, epsilon float64) Option {
	return func(d *Detector) {
		d.subpixel = SubpixelCriteria{Window: window, MaxIterations: maxIterations, Epsilon: epsilon}
	}
}

// WithoutSubpixel keeps the integer corners of the contour.
func WithoutSubpixel() Option {
	return WithSubpixel(0, 0, 0)
}

// WithoutPose skips pose estimation and cube projection.
func WithoutPose() Option {
	return func(d *Detector) {
		d.estimatePose = false
	}
}

// WithMarkerSize changes the side of the canonical image candidates are
// warped onto. It must hold at least one pixel per cell.
func WithMarkerSize(size int) Option {
	return func(d *Detector) {
		if size >= GridCells {
			d.layout = NewLayout(size)
		}
	}
}
