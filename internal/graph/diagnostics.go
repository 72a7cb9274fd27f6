package graph

import (
	"fmt"

	"github.com/chartwright/flowgraph/internal/geometry"
)

// Code classifies a recoverable reconstruction problem.
//
// Every code here is non-fatal: the pipeline records the diagnostic,
// drops or flags the affected element, and keeps going. Conditions that
// abort a run are ordinary Go errors instead.
type Code string

const (
	// CodeEmptyDetectionSet means no shape detections survived
	// normalization; the result is an empty graph.
	CodeEmptyDetectionSet Code = "empty_detection_set"

	// CodeUnresolvedArrow means an arrow could not be matched to nodes
	// at both ends and was dropped.
	CodeUnresolvedArrow Code = "unresolved_arrow"

	// CodeAmbiguousMatch means an arrow endpoint matched several
	// candidate nodes; the nearest was chosen and the resulting edge
	// flagged.
	CodeAmbiguousMatch Code = "ambiguous_match"

	// CodeSelfLoopRejected means an arrow resolved to the same node at
	// both ends and was dropped.
	CodeSelfLoopRejected Code = "self_loop_rejected"

	// CodeStructuralWarning means the assembled graph violates a
	// flowchart convention, such as a decision with one outgoing
	// branch. The graph is kept as reconstructed.
	CodeStructuralWarning Code = "structural_warning"
)

// Diagnostic is one recoverable problem encountered during
// reconstruction.
type Diagnostic struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`

	// Box is the image region the problem is about, when one applies.
	Box *geometry.Box `json:"bbox,omitempty"`

	// NodeID is the affected node, when one applies.
	NodeID *int `json:"node_id,omitempty"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// Diagnostics is the ordered list of problems from one reconstruction
// run. Order follows the pipeline stages and, within a stage, the
// raster order of the elements involved, so it is stable across runs.
type Diagnostics []Diagnostic

// Has reports whether any diagnostic carries the given code.
func (ds Diagnostics) Has(code Code) bool {
	for _, d := range ds {
		if d.Code == code {
			return true
		}
	}
	return false
}

// Filter returns the diagnostics carrying the given code, in order.
func (ds Diagnostics) Filter(code Code) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// addf appends a diagnostic with a formatted message and returns a
// pointer to it so callers can attach the box or node.
func (ds *Diagnostics) addf(code Code, format string, args ...any) *Diagnostic {
	*ds = append(*ds, Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)})
	return &(*ds)[len(*ds)-1]
}

// boxRef returns a pointer to a copy of b, for attaching to a
// diagnostic.
func boxRef(b geometry.Box) *geometry.Box {
	c := b
	return &c
}

// nodeRef returns a pointer to a copy of id, for attaching to a
// diagnostic.
func nodeRef(id int) *int {
	c := id
	return &c
}
