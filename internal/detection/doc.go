// Package detection finds square fiducial markers in grayscale frames and
// decodes the identifier each one carries.
//
// A marker is a 12×12 grid of black and white cells. The outer ring is
// solid black. Three corners of the ring inside it are white and tell the
// reader how the marker is turned. The remaining 8×8 cells carry 48 bits of
// identifier followed by its 16-bit CRC, least significant bit first.
//
// # Pipeline
//
// Detector.Detect runs these stages on every frame:
//
//  1. Binarize: Otsu threshold over the intensity histogram
//  2. FindContours: border following over the white regions, outer borders and holes
//  3. FindCandidates: Douglas-Peucker reduction to convex quads, size filter,
//     winding normalisation and removal of near duplicates
//  4. Rectify: perspective warp of each candidate onto a 240×240 canonical image
//  5. Decoder.Decode: border check, orientation, identifier and checksum
//  6. RefineCorners: subpixel corner positions on the raw intensity image
//  7. Pose: camera pose of each marker and the projected cube standing on it
//
// Each stage is exported so it can be exercised and inspected on its own.
//
// # Coordinate System
//
// Points use the image convention: origin at the top-left pixel, X grows
// rightward and Y grows downward. Integer coordinates are pixel centres.
//
// # Rejections
//
// Candidates that fail a check are counted in Frame.Rejections and are not
// reported as errors. Checksum mismatches are also logged at warn level with
// the decoded and the computed checksum. The only error Detect returns is a
// pose that cannot be estimated from a marker's corners.
//
// # Thread Safety
//
// A Detector is immutable once built. All per-frame state lives in the Frame
// returned by Detect, so one Detector may process several streams at once.
package detection
