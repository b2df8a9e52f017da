// Package capture supplies grayscale frames to the detector.
//
// Frames come either from a camera or video file, read through OpenCV when
// the binary is built with the gocv tag, or from a directory of still
// images, which needs nothing beyond the image decoders.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ironsheep/marker-tools-mcp/internal/imaging"
)

var (
	// ErrClosed is returned by Read after Close.
	ErrClosed = errors.New("capture: source closed")
	// ErrNoOpenCV is returned for cameras and video files when the binary
	// was built without the gocv tag.
	ErrNoOpenCV = errors.New("gocv build tag is not enabled")
)

// Source yields frames until it is exhausted, at which point Read returns
// io.EOF.
type Source interface {
	Read(ctx context.Context) (*image.Gray, error)
	Close() error
}

// Open picks a source for device. A directory is played back as an image
// sequence; anything else (a camera index or a video file) goes to OpenCV.
func Open(device string) (Source, error) {
	if info, err := os.Stat(device); err == nil && info.IsDir() {
		return OpenSequence(device)
	}
	return openCamera(device)
}

var sequenceExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Sequence plays back the images of a directory in name order.
type Sequence struct {
	paths  []string
	next   int
	cache  *imaging.ImageCache
	closed bool
}

// OpenSequence lists the images in dir. A directory without images is an
// error.
func OpenSequence(dir string) (*Sequence, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !sequenceExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("capture: no images in %s", dir)
	}
	sort.Strings(paths)

	return &Sequence{paths: paths, cache: imaging.NewImageCache()}, nil
}

// Len returns the number of frames in the sequence.
func (s *Sequence) Len() int {
	return len(s.paths)
}

// Read decodes the next image. Each frame is evicted from the cache once
// read, so long sequences do not accumulate in memory.
func (s *Sequence) Read(ctx context.Context) (*image.Gray, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.next >= len(s.paths) {
		return nil, io.EOF
	}

	path := s.paths[s.next]
	s.next++
	gray, err := s.cache.Intensity(path)
	s.cache.Evict(path)
	if err != nil {
		return nil, fmt.Errorf("capture: frame %s: %w", filepath.Base(path), err)
	}
	return gray, nil
}

// Close releases the sequence.
func (s *Sequence) Close() error {
	s.closed = true
	s.cache.Clear()
	return nil
}

// Each reads frames from src and hands them to fn until the source is
// exhausted, ctx is cancelled or fn fails. Exhaustion is not an error.
func Each(ctx context.Context, src Source, fn func(n int, frame *image.Gray) error) error {
	for n := 0; ; n++ {
		frame, err := src.Read(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(n, frame); err != nil {
			return err
		}
	}
}
