// Package server implements the MCP (Model Context Protocol) server for the
// marker detector.
//
// This package provides a JSON-RPC 2.0 server that exposes marker detection,
// decoding and pose estimation through the MCP protocol, so a client can ask
// what markers an image holds and look at how each one was read.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Marker Operations:
//   - marker_detect: Ids, corners, colours, poses and cube edges
//   - marker_render: Annotated PNG
//   - marker_rectify: Canonical 240x240 view of every candidate
//   - marker_crop: Preview of one marker
//
// Camera:
//   - camera_info: Intrinsics, distortion and marker layout
//
// # Image Caching
//
// Images and their intensity conversions are cached by path and reused
// across tool calls for the lifetime of the process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// Marker tools fail with camera.ErrNoCalibration in the data when the server
// was started without a detector. A marker whose pose cannot be solved does
// not fail marker_detect; the message is reported in pose_error.
//
// # Usage
//
//	det, err := detection.NewFromFile("cameraCalibration.yaml")
//	if err != nil {
//	    return err
//	}
//	srv := server.New(det, server.WithLogger(logger))
//	return srv.Run()
package server
