package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ImageCache keeps decoded frames and their intensity images in memory so
// that repeated tool calls on the same file skip disk reads and conversion.
//
// Entries are keyed by the exact path string they were loaded with. The
// cache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Each entry may hold two copies of a frame: the decoded image and its
// single-channel intensity image. Evict or Clear entries that are no longer
// needed in long-running processes.
//
// # Example Usage
//
//	cache := imaging.NewImageCache()
//	gray, err := cache.Intensity("/path/to/frame.png")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	frame, err := detector.Detect(gray)
type ImageCache struct {
	mu        sync.RWMutex
	images    map[string]image.Image
	intensity map[string]*image.Gray
}

// NewImageCache creates an empty image cache.
func NewImageCache() *ImageCache {
	return &ImageCache{
		images:    make(map[string]image.Image),
		intensity: make(map[string]*image.Gray),
	}
}

// Load returns the decoded image at path, reading it from disk on first use.
//
// Supported formats are PNG, JPEG and GIF.
//
// # Errors
//
//   - the file does not exist or cannot be read
//   - the file is not a valid PNG, JPEG or GIF image
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.RLock()
	if img, ok := c.images[path]; ok {
		c.mu.RUnlock()
		return img, nil
	}
	c.mu.RUnlock()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	c.mu.Lock()
	c.images[path] = img
	c.mu.Unlock()

	return img, nil
}

// Intensity returns the single-channel intensity image of the frame at
// path, the input the marker detector works on.
//
// Parameters:
//   - path: Frame file, loaded through Load when not cached yet.
//
// Returns:
//   - *image.Gray: The intensity image, converted with ToIntensity once per
//     path.
//   - error: Non-nil if the frame cannot be loaded.
//
// The returned image is shared by every caller and must not be modified.
func (c *ImageCache) Intensity(path string) (*image.Gray, error) {
	c.mu.RLock()
	if gray, ok := c.intensity[path]; ok {
		c.mu.RUnlock()
		return gray, nil
	}
	c.mu.RUnlock()

	img, err := c.Load(path)
	if err != nil {
		return nil, err
	}
	gray := ToIntensity(img)

	c.mu.Lock()
	c.intensity[path] = gray
	c.mu.Unlock()

	return gray, nil
}

// Clear drops every cached entry.
func (c *ImageCache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]image.Image)
	c.intensity = make(map[string]*image.Gray)
	c.mu.Unlock()
}

// Evict drops the entry for path, both the decoded frame and its intensity
// image.
//
// Parameters:
//   - path: The exact path string the frame was loaded with. Unknown paths
//     are ignored.
//
// Sequences call Evict after handing a frame to the detector so a long
// replay does not keep every frame in memory.
func (c *ImageCache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	delete(c.intensity, path)
	c.mu.Unlock()
}

// Len reports how many frames are cached.
func (c *ImageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo describes a frame file.
type ImageInfo struct {
	// Width is the frame width in pixels.
	Width int `json:"width"`

	// Height is the frame height in pixels.
	Height int `json:"height"`

	// Format is "png", "jpeg", "gif" or "unknown", taken from the extension.
	Format string `json:"format"`

	// ColorModel is "gray" for single-channel frames, which the detector
	// uses without conversion, and "color" otherwise.
	ColorModel string `json:"color_model"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads the frame at path into the cache and describes it.
//
// Parameters:
//   - cache: The image cache to load through. Must not be nil.
//   - path: Path to the frame file.
//
// Returns:
//   - *ImageInfo: Dimensions, format, colour model and file size.
//   - error: Non-nil if the frame cannot be loaded or the file cannot be stat'd.
func LoadImageInfo(cache *ImageCache, path string) (*ImageInfo, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	}

	model := "color"
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		model = "gray"
	}

	bounds := img.Bounds()
	return &ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorModel:    model,
		FileSizeBytes: stat.Size(),
	}, nil
}

// DimensionsResult holds the width and height of a frame.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// GetDimensions returns the dimensions of the frame at path, loading it
// into the cache if needed.
func GetDimensions(cache *ImageCache, path string) (*DimensionsResult, error) {
	img, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	return &DimensionsResult{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}
