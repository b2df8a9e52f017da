package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
)

// EncodedImage is an image ready to hand to an MCP client.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Encode scales img and encodes it as base64 PNG.
//
// A scale of 1, or any scale <= 0, keeps the original size.
// Binary images such as rectified markers should be scaled with
// imaging.NearestNeighbor to keep their cells crisp, which is what Encode
// does for *image.Gray; other images use Lanczos.
func Encode(img image.Image, scale float64) (*EncodedImage, error) {
	if scale > 0 && scale != 1 {
		filter := imaging.Lanczos
		if _, ok := img.(*image.Gray); ok {
			filter = imaging.NearestNeighbor
		}
		w := int(math.Round(float64(img.Bounds().Dx()) * scale))
		h := int(math.Round(float64(img.Bounds().Dy()) * scale))
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g leaves no pixels", scale)
		}
		img = imaging.Resize(img, w, h, filter)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Crop extracts r from img and encodes it.
//
// Parameters:
//   - img: The source frame.
//   - r: Region to extract, top-left inclusive and bottom-right exclusive.
//     It must lie inside the image.
//   - scale: Resize factor applied after cropping (1 keeps the size).
func Crop(img image.Image, r image.Rectangle, scale float64) (*EncodedImage, error) {
	bounds := img.Bounds()
	if r.Empty() {
		return nil, fmt.Errorf("invalid crop region %v", r)
	}
	if !r.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", r, bounds)
	}
	return Encode(imaging.Crop(img, r), scale)
}

// RegionAround returns the bounding box of pts grown by margin on every
// side and clipped to bounds.
func RegionAround(pts []geometry.Point, margin int, bounds image.Rectangle) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range pts {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	r := image.Rect(
		int(math.Floor(minX))-margin, int(math.Floor(minY))-margin,
		int(math.Ceil(maxX))+margin+1, int(math.Ceil(maxY))+margin+1,
	)
	return r.Intersect(bounds)
}
