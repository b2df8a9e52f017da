// Package imaging provides the image plumbing around the marker detector.
//
// The detector itself only sees single-channel *image.Gray frames. This
// package turns files and colour frames into that form, and turns the
// detector's outputs back into pictures a client can look at: annotated
// frames, rectified markers with a cell grid, and cropped previews.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left) and Max is exclusive (bottom-right)
//
// Subpixel positions, such as refined marker corners, use geometry.Point
// with the same axes; integer values address pixel centres.
//
// # Intensity Conversion
//
// ToIntensity copies gray images unchanged and converts everything else with
// bild's luminance-weighted grayscale. ImageCache.Intensity caches the result
// per path so repeated detection on the same file converts only once.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The drawing helpers write
// into the image they are given and must not be called concurrently on the
// same destination.
//
// # Color Representation
//
// DescribeColor reports a colour in several formats:
//   - Hex: 6-character format "#RRGGBB" (alpha excluded)
//   - RGB: 8-bit components (0-255)
//   - RGBA: 8-bit components with alpha (0-255)
//   - HSL: Hue (0-360), Saturation (0-100), Lightness (0-100)
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Regions outside the image bounds or empty regions
//   - Malformed hex colours
//   - File I/O errors during image loading
//   - Encoding errors during image output
package imaging
