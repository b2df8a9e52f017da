//go:build gocv
// +build gocv

package capture

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"strconv"

	"gocv.io/x/gocv"

	"github.com/ironsheep/marker-tools-mcp/internal/imaging"
)

// Camera reads frames from a capture device or video file.
type Camera struct {
	capture *gocv.VideoCapture
	frame   gocv.Mat
	gray    gocv.Mat
	closed  bool
}

func openCamera(device string) (Source, error) {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if _, statErr := os.Stat(device); statErr == nil {
		vc, err = gocv.VideoCaptureFile(device)
	} else {
		id, convErr := strconv.Atoi(device)
		if convErr != nil {
			return nil, fmt.Errorf("capture: device %q is neither a file nor a camera index", device)
		}
		vc, err = gocv.VideoCaptureDevice(id)
	}
	if err != nil {
		return nil, fmt.Errorf("capture: open %s: %w", device, err)
	}

	return &Camera{capture: vc, frame: gocv.NewMat(), gray: gocv.NewMat()}, nil
}

// Read grabs the next frame and converts it to intensity.
func (c *Camera) Read(ctx context.Context) (*image.Gray, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ok := c.capture.Read(&c.frame); !ok || c.frame.Empty() {
		return nil, io.EOF
	}

	src := &c.frame
	if c.frame.Channels() != 1 {
		gocv.CvtColor(c.frame, &c.gray, gocv.ColorBGRToGray)
		src = &c.gray
	}
	img, err := src.ToImage()
	if err != nil {
		return nil, fmt.Errorf("capture: convert frame: %w", err)
	}
	return imaging.ToIntensity(img), nil
}

// Close releases the device and the frame buffers.
func (c *Camera) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.frame.Close()
	c.gray.Close()
	return c.capture.Close()
}
