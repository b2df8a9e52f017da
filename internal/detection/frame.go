package detection

import (
	"image"
	"strconv"
	"strings"
)

// Frame holds everything one Detect call produced.
type Frame struct {
	Width  int `json:"width"`
	Height int `json:"height"`
	// MinContourSize is the frame width over the contour divisor. Shorter
	// contours are skipped only when WithMinContourDivisor is set.
	MinContourSize int             `json:"min_contour_size"`
	Threshold      uint8           `json:"threshold"`
	Binarized      *image.Gray     `json:"-"`
	Contours       [][]image.Point `json:"-"`
	Candidates     []Candidate     `json:"candidates"`
	Markers        []Marker        `json:"markers"`
	Rejections     Rejections      `json:"rejections"`
}

// Rejections counts the candidates dropped at each stage.
type Rejections struct {
	Geometry    int `json:"geometry"`
	Border      int `json:"border"`
	Orientation int `json:"orientation"`
	Checksum    int `json:"checksum"`
}

// IDs returns the space separated identifiers of the frame's markers, in
// detection order.
func (f *Frame) IDs() string {
	ids := make([]string, len(f.Markers))
	for i, m := range f.Markers {
		ids[i] = strconv.FormatUint(m.ID, 10)
	}
	return strings.Join(ids, " ")
}
