package graph

import (
	"fmt"
	"sort"

	"github.com/chartwright/flowgraph/internal/detect"
)

// AssembleOptions tunes structural validation of the finished graph.
type AssembleOptions struct {
	// MaxBranch is the largest accepted number of outgoing branches on
	// a decision node before a structural warning is raised.
	MaxBranch int
}

// DefaultAssembleOptions expects classic two-way decisions.
func DefaultAssembleOptions() AssembleOptions {
	return AssembleOptions{MaxBranch: 2}
}

// Assemble validates nodes and edges and combines them into a Graph.
//
// Endpoint validation is strict: an edge referencing an identifier that
// is not among the nodes means an upstream stage broke its contract,
// and Assemble fails with an error wrapping ErrInternalConsistency.
// The same holds for duplicate node identifiers and for self-loop
// edges, which the resolver never emits.
//
// Parallel edges (same source and target) collapse into one edge
// keeping the highest confidence; the collapsed edge is ambiguous if
// any of the originals was. Edges come out sorted by (source, target),
// nodes by identifier.
//
// Structural conventions are checked last: a decision node with fewer
// than two or more than MaxBranch outgoing edges yields a
// CodeStructuralWarning diagnostic. Convention violations never reject
// the graph; the chart may genuinely be drawn that way.
func Assemble(nodes []Node, edges []Edge, opts AssembleOptions) (*Graph, Diagnostics, error) {
	if opts.MaxBranch <= 0 {
		opts.MaxBranch = DefaultAssembleOptions().MaxBranch
	}

	ordered := make([]Node, len(nodes))
	copy(ordered, nodes)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	ids := make(map[int]bool, len(ordered))
	for _, n := range ordered {
		if ids[n.ID] {
			return nil, nil, fmt.Errorf("%w: duplicate node id %d", ErrInternalConsistency, n.ID)
		}
		ids[n.ID] = true
	}

	type pair struct{ s, t int }
	merged := make(map[pair]Edge)
	for _, e := range edges {
		if !ids[e.Source] {
			return nil, nil, fmt.Errorf("%w: edge %d -> %d references unknown source", ErrInternalConsistency, e.Source, e.Target)
		}
		if !ids[e.Target] {
			return nil, nil, fmt.Errorf("%w: edge %d -> %d references unknown target", ErrInternalConsistency, e.Source, e.Target)
		}
		if e.Source == e.Target {
			return nil, nil, fmt.Errorf("%w: self-loop edge on node %d", ErrInternalConsistency, e.Source)
		}

		key := pair{e.Source, e.Target}
		if prev, ok := merged[key]; ok {
			if prev.Confidence > e.Confidence {
				e.Confidence = prev.Confidence
			}
			e.Ambiguous = e.Ambiguous || prev.Ambiguous
		}
		merged[key] = e
	}

	final := make([]Edge, 0, len(merged))
	for _, e := range merged {
		final = append(final, e)
	}
	sort.Slice(final, func(i, j int) bool {
		if final[i].Source != final[j].Source {
			return final[i].Source < final[j].Source
		}
		return final[i].Target < final[j].Target
	})

	g := newGraph(ordered, final)

	var diags Diagnostics
	for _, n := range ordered {
		if n.Type != detect.ClassDecision {
			continue
		}
		deg := len(g.Outgoing(n.ID))
		if deg < 2 || deg > opts.MaxBranch {
			d := diags.addf(CodeStructuralWarning,
				"decision node %d has %d outgoing branches, expected 2 to %d",
				n.ID, deg, opts.MaxBranch)
			d.NodeID = nodeRef(n.ID)
			d.Box = boxRef(n.Box)
		}
	}

	return g, diags, nil
}
