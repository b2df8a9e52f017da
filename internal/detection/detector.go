package detection

import (
	"errors"
	"fmt"
	"image"

	"github.com/rs/zerolog"

	"github.com/ironsheep/marker-tools-mcp/internal/camera"
	"github.com/ironsheep/marker-tools-mcp/internal/pose"
)

// Detector finds, decodes and localises markers in grayscale frames.
//
// A Detector does not change after New returns. Every call to Detect works
// on its own Frame, so one Detector can serve several goroutines.
type Detector struct {
	camera         *camera.Model
	layout         Layout
	decoder        *Decoder
	logger         zerolog.Logger
	contourDivisor int
	subpixel       SubpixelCriteria
	estimatePose   bool
}

// New builds a detector around a camera model. A nil or invalid model is
// reported as a *camera.ConfigurationError.
func New(model *camera.Model, opts ...Option) (*Detector, error) {
	if model == nil {
		return nil, &camera.ConfigurationError{Err: camera.ErrNoCalibration}
	}
	if err := model.Validate(); err != nil {
		return nil, &camera.ConfigurationError{Err: err}
	}

	d := &Detector{
		camera:         model,
		layout:         NewLayout(DefaultMarkerSize),
		logger:         zerolog.Nop(),
		contourDivisor: DefaultContourDivisor,
		subpixel:       DefaultSubpixel,
		estimatePose:   true,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.decoder = NewDecoder(d.layout)
	return d, nil
}

// NewFromFile loads the camera calibration at path and builds a detector.
func NewFromFile(path string, opts ...Option) (*Detector, error) {
	model, err := camera.Load(path)
	if err != nil {
		return nil, err
	}
	return New(model, opts...)
}

// Camera returns the detector's camera model.
func (d *Detector) Camera() *camera.Model {
	return d.camera
}

// Layout returns the canonical geometry candidates are decoded in.
func (d *Detector) Layout() Layout {
	return d.layout
}

// Detect runs the whole pipeline on one frame.
//
// Rejected candidates are only counted in the returned frame. The error is
// non-nil only when a decoded marker's corners cannot give a pose; the frame
// is still returned with every decoded marker, without poses from the failing
// one onward.
func (d *Detector) Detect(gray *image.Gray) (*Frame, error) {
	gray = atOrigin(gray)
	b := gray.Bounds()
	frame := &Frame{Width: b.Dx(), Height: b.Dy()}
	if b.Empty() {
		frame.Binarized = image.NewGray(image.Rectangle{})
		return frame, nil
	}

	minContour := 0
	frame.MinContourSize = b.Dx() / DefaultContourDivisor
	if d.contourDivisor > 0 {
		minContour = b.Dx() / d.contourDivisor
		frame.MinContourSize = minContour
	}
	frame.Binarized, frame.Threshold = Binarize(gray)
	frame.Contours = FindContours(frame.Binarized)
	frame.Candidates = FindCandidates(frame.Contours, minContour)

	for _, c := range frame.Candidates {
		if m, ok := d.recognize(gray, frame, c); ok {
			frame.Markers = append(frame.Markers, m)
		}
	}

	var err error
	if d.estimatePose {
		err = d.localize(frame)
	}

	d.logger.Debug().
		Uint8("threshold", frame.Threshold).
		Int("contours", len(frame.Contours)).
		Int("candidates", len(frame.Candidates)).
		Int("markers", len(frame.Markers)).
		Int("rejected_border", frame.Rejections.Border).
		Int("rejected_orientation", frame.Rejections.Orientation).
		Int("rejected_checksum", frame.Rejections.Checksum).
		Msg("frame processed")
	return frame, err
}

// recognize rectifies and decodes one candidate, refining its corners when
// it turns out to be a marker.
func (d *Detector) recognize(gray *image.Gray, frame *Frame, c Candidate) (Marker, bool) {
	canonical, err := Rectify(frame.Binarized, c.Points, d.layout.MarkerSize)
	if err != nil {
		frame.Rejections.Geometry++
		return Marker{}, false
	}

	dec, err := d.decoder.Decode(canonical)
	var integrity *IntegrityError
	switch {
	case err == nil:
	case errors.Is(err, ErrBorder):
		frame.Rejections.Border++
		return Marker{}, false
	case errors.Is(err, ErrOrientation):
		frame.Rejections.Orientation++
		return Marker{}, false
	case errors.As(err, &integrity):
		frame.Rejections.Checksum++
		d.logger.Warn().
			Uint64("id", integrity.ID).
			Uint16("decoded", integrity.Decoded).
			Uint16("computed", integrity.Computed).
			Msg("marker checksum mismatch")
		return Marker{}, false
	default:
		frame.Rejections.Geometry++
		return Marker{}, false
	}

	m := Marker{
		Points:      c.Points,
		ID:          dec.ID,
		Valid:       true,
		Color:       ColorFromID(dec.ID),
		Checksum:    dec.Checksum,
		Orientation: dec.Orientation,
	}
	if d.subpixel.Window > 0 {
		copy(m.Points[:], RefineCorners(gray, c.Points[:], d.subpixel))
	}
	return m, true
}

// localize estimates the pose of every marker and projects its cube.
func (d *Detector) localize(frame *Frame) error {
	for i := range frame.Markers {
		m := &frame.Markers[i]
		p, err := pose.Solve(d.camera, pose.MarkerSquare, m.Points)
		if err != nil {
			return fmt.Errorf("detection: pose of marker %d: %w", m.ID, err)
		}
		m.Pose = &p
		m.Cube = pose.Cube(d.camera, p)
	}
	return nil
}

// atOrigin returns gray itself when its bounds start at the origin and a
// shifted copy otherwise, so every stage can work in frame coordinates.
func atOrigin(gray *image.Gray) *image.Gray {
	if gray == nil {
		return image.NewGray(image.Rectangle{})
	}
	b := gray.Bounds()
	if b.Min == (image.Point{}) {
		return gray
	}
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+b.Dx()], gray.Pix[gray.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	return out
}
