// Package flowgraph reconstructs directed flowchart graphs from the
// shape and arrow detections found on chart images.
package flowgraph

// Version is reported by the CLI and the MCP server.
const Version = "0.1.0"
