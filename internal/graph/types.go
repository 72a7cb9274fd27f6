package graph

import (
	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/geometry"
)

// Node is one flowchart shape promoted to a graph vertex.
//
// Identifiers are dense integers starting at 0, assigned in raster order
// over the shape boxes. Two runs over the same detections always assign
// the same identifiers, regardless of the order the detector emitted
// them in.
type Node struct {
	// ID is the stable raster-order identifier. It doubles as the
	// node's row and column index in the adjacency matrix.
	ID int `json:"id"`

	// Type is the shape class (process, decision, terminal, input,
	// output).
	Type detect.Class `json:"type"`

	// Box is the shape's bounding box in image pixel space.
	Box geometry.Box `json:"bbox"`

	// Text is the label recovered for this shape. Empty until an OCR
	// pass merges text in.
	Text string `json:"text"`

	// Confidence is the detector score of the underlying shape region.
	Confidence float64 `json:"confidence"`
}

// Edge is a directed connection between two nodes.
type Edge struct {
	// Source is the tail node's identifier.
	Source int `json:"source"`

	// Target is the head node's identifier.
	Target int `json:"target"`

	// Confidence is the score of the arrow evidence behind the edge.
	// When several parallel arrows collapse into one edge, this is the
	// strongest of them.
	Confidence float64 `json:"confidence"`

	// Ambiguous marks edges where an endpoint matched more than one
	// candidate node and the nearest one was chosen.
	Ambiguous bool `json:"ambiguous,omitempty"`
}
