package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

func scaleProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
		"default":     1.0,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and colour model. The image stays cached for the marker tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Marker Operations
		{
			Name: "marker_detect",
			Description: "Detect square fiducial markers and return, for each one, its id, checksum, orientation, " +
				"subpixel corners, colour, camera pose and the projected edges of the cube standing on it. " +
				"Also reports the Otsu threshold and how many candidates each check rejected.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"include_candidates": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return every quadrilateral candidate, decoded or not. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "marker_render",
			Description: "Draw detected markers over the image: outline and cube in the marker colour plus the id label. Returns a base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"thickness": map[string]interface{}{
						"type":        "integer",
						"description": "Line width in pixels. Default 2",
						"default":     2,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Write marker ids. Default true",
						"default":     true,
					},
					"cube": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the projected cube. Default true",
						"default":     true,
					},
					"candidates": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline every candidate quad in yellow. Default false",
						"default":     false,
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "marker_rectify",
			Description: "Warp every candidate quad onto the 240x240 canonical square that bits are read from, " +
				"and report whether it decoded. Use the 12x12 grid to see which cells were read as white.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Overlay the 12x12 cell grid. Default false",
						"default":     false,
					},
					"labels": map[string]interface{}{
						"type":        "boolean",
						"description": "Number grid rows and columns. Default false",
						"default":     false,
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "marker_crop",
			Description: "Crop the region around one detected marker and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"id": map[string]interface{}{
						"type":        "integer",
						"description": "Marker id as reported by marker_detect",
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added on every side. Default 10",
						"default":     10,
					},
					"scale": scaleProperty(),
				},
				"required": []string{"path", "id"},
			},
		},

		// Camera
		{
			Name:        "camera_info",
			Description: "Report the camera intrinsics and distortion coefficients used for pose estimation, and the canonical marker layout.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}
