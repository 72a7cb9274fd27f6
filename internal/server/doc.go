// Package server implements the MCP (Model Context Protocol) server for
// flowchart reconstruction tools.
//
// The server speaks JSON-RPC 2.0 over stdio and exposes the
// reconstruction pipeline to MCP-compatible clients: a detection
// document goes in, a directed graph with its adjacency matrix comes
// back.
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
// Image Information:
//   - image_load: Load an image and get its metadata
//   - image_dimensions: Get width and height
//
// Chart Reconstruction:
//   - flowchart_reconstruct: Detections to graph plus matrix
//   - flowchart_matrix: Detections to adjacency matrix
//
// Label Recovery:
//   - flowchart_region_crops: Cut node regions out of the image
//   - flowchart_ocr_merge: Read node labels and merge them in
//
// Recreation:
//   - flowchart_render_plan: Shapes and connectors for redrawing
//
// Every reconstruction tool accepts its detection document either
// inline ("detections") or by path ("detections_path"). Tool responses
// wrap their JSON payload in MCP's text content format.
//
// # Image Caching
//
// Loaded images are cached by path and reused across tool calls for
// the lifetime of the server process.
//
// # Error Handling
//
// Tool failures become JSON-RPC error responses with code -32000 and
// the Go error string in the data field; malformed parameters get
// -32602. Recoverable reconstruction problems are not errors: they
// ride along as diagnostics inside successful responses.
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(nil)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// New(nil) runs with built-in defaults; pass a config.Config to tune
// pipeline thresholds, OCR language, and render behavior.
package server
