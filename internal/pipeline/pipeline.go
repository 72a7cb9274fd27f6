package pipeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// Options are the tuning knobs for one reconstruction run. Start from
// DefaultOptions; the zero value deliberately matches nothing.
type Options struct {
	// MinConfidence drops detections scoring below it.
	MinConfidence float64

	// IoUThreshold collapses same-class detections overlapping at or
	// above it.
	IoUThreshold float64

	// MarginFrac expands node boxes by this fraction of their diagonal
	// when matching arrow anchors.
	MarginFrac float64

	// MaxRadiusFrac caps anchor matching distance at this fraction of
	// the image diagonal.
	MaxRadiusFrac float64

	// MaxBranch is the accepted upper bound of decision fan-out.
	MaxBranch int

	// OCRPadding grows region handles by this many pixels per side.
	OCRPadding float64

	// CollapseChains merges multi-segment arrows into single edges.
	CollapseChains bool

	// ChainRadiusFrac is the loose-end joining distance as a fraction
	// of the image diagonal. Only used when CollapseChains is on.
	ChainRadiusFrac float64

	// Direction overrides the fallback arrow orientation rule. Nil
	// means reading order.
	Direction graph.DirectionFunc
}

// DefaultOptions returns the tuning used in production runs.
func DefaultOptions() Options {
	return Options{
		MinConfidence:   0.25,
		IoUThreshold:    0.5,
		MarginFrac:      0.15,
		MaxRadiusFrac:   0.05,
		MaxBranch:       2,
		OCRPadding:      5,
		CollapseChains:  false,
		ChainRadiusFrac: 0.05,
	}
}

// Result is everything one reconstruction run produces.
type Result struct {
	// RunID uniquely identifies this run in logs and tool responses.
	RunID string `json:"run_id"`

	// Graph is the reconstructed flowchart.
	Graph *graph.Graph `json:"-"`

	// Matrix is the graph's adjacency matrix.
	Matrix graph.Matrix `json:"matrix"`

	// Diagnostics lists every recoverable problem, in pipeline order.
	Diagnostics graph.Diagnostics `json:"diagnostics"`

	// Handles address the padded node regions for text recovery.
	Handles []export.RegionHandle `json:"handles"`

	// Extent is the coordinate space the run worked in.
	Extent geometry.Box `json:"extent"`

	// ShapeCount and ArrowCount are the normalized input sizes.
	ShapeCount int `json:"shape_count"`
	ArrowCount int `json:"arrow_count"`

	// Discarded counts detections removed during normalization.
	Discarded int `json:"discarded"`

	// Junctions counts chain meeting points (chain collapsing only).
	Junctions int `json:"junctions"`

	// Elapsed is the wall-clock reconstruction time.
	Elapsed time.Duration `json:"elapsed"`
}

// Run reconstructs a flowchart graph from a detection document.
//
// The stages run in fixed order: normalize, build nodes, resolve
// arrows, assemble, derive the matrix and region handles. Recoverable
// problems accumulate in Result.Diagnostics; the returned error is
// reserved for internal consistency failures, which indicate a bug
// rather than a difficult chart.
func Run(doc *detect.Document, opts Options) (*Result, error) {
	start := time.Now()

	set := detect.Normalize(doc.Detections, detect.NormalizeOptions{
		MinConfidence: opts.MinConfidence,
		IoUThreshold:  opts.IoUThreshold,
	})
	extent := doc.Extent()

	var diags graph.Diagnostics
	if len(set.Shapes) == 0 {
		diags = append(diags, graph.Diagnostic{
			Code:    graph.CodeEmptyDetectionSet,
			Message: "no shape detections survived normalization",
		})
	}

	nodes := graph.BuildNodes(set.Shapes)
	resolution := graph.ResolveArrows(set.Arrows, set.Arrowheads, nodes, graph.ResolveOptions{
		MarginFrac:     opts.MarginFrac,
		MaxRadius:      opts.MaxRadiusFrac * extent.Diagonal(),
		Direction:      opts.Direction,
		CollapseChains: opts.CollapseChains,
		ChainRadius:    opts.ChainRadiusFrac * extent.Diagonal(),
	})
	diags = append(diags, resolution.Diagnostics...)

	g, warnings, err := graph.Assemble(nodes, resolution.Edges, graph.AssembleOptions{
		MaxBranch: opts.MaxBranch,
	})
	if err != nil {
		return nil, fmt.Errorf("assembling graph: %w", err)
	}
	diags = append(diags, warnings...)

	return &Result{
		RunID:       uuid.NewString(),
		Graph:       g,
		Matrix:      g.AdjacencyMatrix(),
		Diagnostics: diags,
		Handles:     export.RegionHandles(g, opts.OCRPadding, extent),
		Extent:      extent,
		ShapeCount:  len(set.Shapes),
		ArrowCount:  len(set.Arrows),
		Discarded:   set.Discarded,
		Junctions:   resolution.Junctions,
		Elapsed:     time.Since(start),
	}, nil
}

// RunBytes parses a raw detection document and reconstructs it.
func RunBytes(data []byte, opts Options) (*Result, error) {
	doc, err := detect.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return Run(doc, opts)
}
