package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/marker-tools-mcp/internal/camera"
	"github.com/ironsheep/marker-tools-mcp/internal/detection"
	"github.com/ironsheep/marker-tools-mcp/internal/geometry"
	"github.com/ironsheep/marker-tools-mcp/internal/imaging"
	"github.com/ironsheep/marker-tools-mcp/internal/pose"
	"github.com/ironsheep/marker-tools-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "marker_detect").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// errNoDetector is returned by the marker tools when the server was started
// without a camera calibration.
var errNoDetector = fmt.Errorf("marker tools unavailable: %w", camera.ErrNoCalibration)

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Debug().Str("tool", params.Name).Err(err).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Marker Operations
	case "marker_detect":
		return s.handleMarkerDetect(args)
	case "marker_render":
		return s.handleMarkerRender(args)
	case "marker_rectify":
		return s.handleMarkerRectify(args)
	case "marker_crop":
		return s.handleMarkerCrop(args)

	// Camera
	case "camera_info":
		return s.handleCameraInfo()

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating a missing object as empty.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Marker Handlers ===

// detect runs the detector on the image at path.
//
// Parameters:
//   - path: Image file, loaded through the server's cache so repeated calls
//     reuse the decoded frame and its intensity image.
//
// Returns:
//   - *detection.Frame: The frame context: threshold, candidates, markers
//     and rejection counts. Nil only when the image could not be read or the
//     server has no detector.
//   - error: errNoDetector, a load error, or a wrapped pose.ErrDegenerate.
//     A pose failure still yields the frame with every decoded marker.
func (s *Server) detect(path string) (*detection.Frame, error) {
	if s.detector == nil {
		return nil, errNoDetector
	}
	gray, err := s.cache.Intensity(path)
	if err != nil {
		return nil, err
	}
	return s.detector.Detect(gray)
}

// candidateColor outlines quads that did not necessarily decode.
var candidateColor = color.RGBA{R: 255, G: 255, A: 255}

// MarkerResult is one marker as reported to clients.
type MarkerResult struct {
	ID          uint64                  `json:"id"`
	Valid       bool                    `json:"valid"`
	Checksum    uint16                  `json:"checksum"`
	Orientation detection.Orientation   `json:"orientation"`
	Corners     [4]geometry.Point       `json:"corners"`
	Center      geometry.Point          `json:"center"`
	Color       imaging.ColorResult     `json:"color"`
	Geometry    imaging.QuadMeasurement `json:"geometry"`
	Pose        *pose.Pose              `json:"pose,omitempty"`
	Cube        []geometry.Segment      `json:"cube,omitempty"`
}

func newMarkerResult(frame *detection.Frame, m detection.Marker) MarkerResult {
	bounds := image.Rect(0, 0, frame.Width, frame.Height)
	return MarkerResult{
		ID:          m.ID,
		Valid:       m.Valid,
		Checksum:    m.Checksum,
		Orientation: m.Orientation,
		Corners:     m.Points,
		Center:      m.Center(),
		Color:       imaging.DescribeColor(m.Color),
		Geometry:    imaging.MeasureQuad(bounds, m.Points),
		Pose:        m.Pose,
		Cube:        m.Cube,
	}
}

// DetectResult is the marker_detect response.
type DetectResult struct {
	Width          int                   `json:"width"`
	Height         int                   `json:"height"`
	Threshold      uint8                 `json:"threshold"`
	MinContourSize int                   `json:"min_contour_size"`
	Contours       int                   `json:"contours"`
	IDs            string                `json:"ids"`
	Markers        []MarkerResult        `json:"markers"`
	Rejections     detection.Rejections  `json:"rejections"`
	Candidates     []detection.Candidate `json:"candidates,omitempty"`
	PoseError      string                `json:"pose_error,omitempty"`
}

type markerDetectArgs struct {
	Path              string `json:"path"`
	IncludeCandidates bool   `json:"include_candidates"`
}

// handleMarkerDetect reports every valid marker in the image.
//
// Each marker carries its id, checksum, orientation, refined corners,
// colour description, quad geometry and, when pose estimation succeeded,
// its pose and cube edges. A pose failure does not fail the call; it is
// reported in pose_error and the markers from the failing one onward have
// no pose.
//
// Arguments:
//   - path (required): Image file.
//   - include_candidates: Also list every quad candidate, decoded or not.
func (s *Server) handleMarkerDetect(args json.RawMessage) (interface{}, error) {
	var a markerDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	frame, poseErr := s.detect(a.Path)
	if frame == nil {
		return nil, poseErr
	}

	result := &DetectResult{
		Width:          frame.Width,
		Height:         frame.Height,
		Threshold:      frame.Threshold,
		MinContourSize: frame.MinContourSize,
		Contours:       len(frame.Contours),
		IDs:            frame.IDs(),
		Markers:        make([]MarkerResult, 0, len(frame.Markers)),
		Rejections:     frame.Rejections,
	}
	for _, m := range frame.Markers {
		result.Markers = append(result.Markers, newMarkerResult(frame, m))
	}
	if a.IncludeCandidates {
		result.Candidates = frame.Candidates
	}
	if poseErr != nil {
		result.PoseError = poseErr.Error()
	}
	return result, nil
}

// RenderResult is the marker_render response.
type RenderResult struct {
	*imaging.EncodedImage
	IDs string `json:"ids"`
}

type markerRenderArgs struct {
	Path       string  `json:"path"`
	Thickness  int     `json:"thickness"`
	Labels     *bool   `json:"labels"`
	Cube       *bool   `json:"cube"`
	Candidates bool    `json:"candidates"`
	Scale      float64 `json:"scale"`
}

func (s *Server) handleMarkerRender(args json.RawMessage) (interface{}, error) {
	var a markerRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts := render.DefaultOptions
	if a.Thickness > 0 {
		opts.Thickness = a.Thickness
	}
	if a.Labels != nil {
		opts.Labels = *a.Labels
	}
	if a.Cube != nil {
		opts.Cube = *a.Cube
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	frame, err := s.detect(a.Path)
	if frame == nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	out := imaging.ToRGBA(img)
	if a.Candidates {
		render.Candidates(out, frame.Candidates, candidateColor, 1)
	}
	render.Markers(out, frame.Markers, opts)

	encoded, err := imaging.Encode(out, a.Scale)
	if err != nil {
		return nil, err
	}
	return &RenderResult{EncodedImage: encoded, IDs: frame.IDs()}, nil
}

// RectifyResult describes one candidate seen through the canonical warp.
type RectifyResult struct {
	Index   int                   `json:"index"`
	Corners [4]geometry.Point     `json:"corners"`
	Decoded bool                  `json:"decoded"`
	ID      uint64                `json:"id,omitempty"`
	Reason  string                `json:"reason,omitempty"`
	Image   *imaging.EncodedImage `json:"image,omitempty"`
}

type markerRectifyArgs struct {
	Path   string  `json:"path"`
	Grid   bool    `json:"grid"`
	Labels bool    `json:"labels"`
	Scale  float64 `json:"scale"`
}

func (s *Server) handleMarkerRectify(args json.RawMessage) (interface{}, error) {
	var a markerRectifyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	frame, err := s.detect(a.Path)
	if frame == nil {
		return nil, err
	}

	layout := s.detector.Layout()
	decoder := detection.NewDecoder(layout)
	results := make([]RectifyResult, 0, len(frame.Candidates))
	for i, c := range frame.Candidates {
		r := RectifyResult{Index: i, Corners: c.Points}

		canonical, err := detection.Rectify(frame.Binarized, c.Points, layout.MarkerSize)
		if err != nil {
			r.Reason = err.Error()
			results = append(results, r)
			continue
		}
		if dec, err := decoder.Decode(canonical); err != nil {
			r.Reason = err.Error()
		} else {
			r.Decoded, r.ID = true, dec.ID
		}

		var view image.Image = canonical
		if a.Grid {
			view = imaging.CellGrid(canonical, detection.GridCells, a.Labels, "")
		}
		if r.Image, err = imaging.Encode(view, a.Scale); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

type markerCropArgs struct {
	Path   string  `json:"path"`
	ID     uint64  `json:"id"`
	Margin int     `json:"margin"`
	Scale  float64 `json:"scale"`
}

// handleMarkerCrop crops the region around one marker.
//
// Arguments:
//   - path (required): Image file.
//   - id (required): Marker id as reported by marker_detect.
//   - margin: Pixels added on every side, default 10. Negative margins are
//     rejected. The region is clipped to the image.
//   - scale: Resize factor applied after cropping, default 1.
//
// # Errors
//
//   - the server has no detector or the image cannot be read
//   - no valid marker in the image has the requested id
func (s *Server) handleMarkerCrop(args json.RawMessage) (interface{}, error) {
	a := markerCropArgs{Margin: 10, Scale: 1.0}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Margin < 0 {
		return nil, fmt.Errorf("margin must not be negative, got %d", a.Margin)
	}

	frame, err := s.detect(a.Path)
	if frame == nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	for _, m := range frame.Markers {
		if m.ID != a.ID {
			continue
		}
		canvas := imaging.ToRGBA(img)
		region := imaging.RegionAround(m.Points[:], a.Margin, canvas.Bounds())
		return imaging.Crop(canvas, region, a.Scale)
	}
	return nil, fmt.Errorf("marker %d not found in %s", a.ID, a.Path)
}

// CameraInfo is the camera_info response.
type CameraInfo struct {
	Calibration string           `json:"calibration,omitempty"`
	Model       *camera.Model    `json:"model"`
	Focal       [2]float64       `json:"focal"`
	Principal   geometry.Point   `json:"principal"`
	Layout      detection.Layout `json:"layout"`
}

func (s *Server) handleCameraInfo() (interface{}, error) {
	if s.detector == nil {
		return nil, errNoDetector
	}
	model := s.detector.Camera()
	fx, fy := model.Focal()
	return &CameraInfo{
		Calibration: s.calibration,
		Model:       model,
		Focal:       [2]float64{fx, fy},
		Principal:   model.Principal(),
		Layout:      s.detector.Layout(),
	}, nil
}
