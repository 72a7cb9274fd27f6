package export

import (
	"encoding/json"
	"fmt"

	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// ChartNode is the persisted form of a graph node. Text is always
// present, as an empty string before OCR has run, so consumers can rely
// on the key existing.
type ChartNode struct {
	ID   int          `json:"id"`
	Type detect.Class `json:"type"`
	Box  geometry.Box `json:"bbox"`
	Text string       `json:"text"`
}

// ChartEdge is the persisted form of a directed edge.
type ChartEdge struct {
	Source     int     `json:"source"`
	Target     int     `json:"target"`
	Confidence float64 `json:"confidence"`
	Ambiguous  bool    `json:"ambiguous,omitempty"`
}

// ChartDocument is the canonical JSON representation of a reconstructed
// flowchart: nodes in identifier order, edges in (source, target)
// order, and the adjacency matrix whose row i belongs to the i-th node.
type ChartDocument struct {
	Nodes  []ChartNode  `json:"nodes"`
	Edges  []ChartEdge  `json:"edges"`
	Matrix graph.Matrix `json:"matrix"`
}

// BuildChart converts a graph into its document form.
func BuildChart(g *graph.Graph) *ChartDocument {
	nodes := g.Nodes()
	edges := g.Edges()

	doc := &ChartDocument{
		Nodes:  make([]ChartNode, len(nodes)),
		Edges:  make([]ChartEdge, len(edges)),
		Matrix: g.AdjacencyMatrix(),
	}
	for i, n := range nodes {
		doc.Nodes[i] = ChartNode{ID: n.ID, Type: n.Type, Box: n.Box, Text: n.Text}
	}
	for i, e := range edges {
		doc.Edges[i] = ChartEdge{
			Source:     e.Source,
			Target:     e.Target,
			Confidence: e.Confidence,
			Ambiguous:  e.Ambiguous,
		}
	}
	return doc
}

// MarshalChart serializes a graph as indented chart JSON.
func MarshalChart(g *graph.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(BuildChart(g), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding chart document: %w", err)
	}
	return data, nil
}

// ParseChart decodes chart JSON back into a graph.
//
// The document is fully re-validated: node identifiers must be the
// dense sequence 0..n-1, edges must reference existing nodes, and an
// embedded matrix must agree with the edge list. Reconstructing the
// graph through the same assembly step that produced it means a parsed
// chart obeys every invariant a freshly built one does.
func ParseChart(data []byte) (*graph.Graph, graph.Matrix, error) {
	var doc ChartDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("decoding chart document: %w", err)
	}

	nodes := make([]graph.Node, len(doc.Nodes))
	for i, n := range doc.Nodes {
		if !n.Type.IsShape() {
			return nil, nil, fmt.Errorf("node %d has non-shape type %q", n.ID, n.Type)
		}
		if !n.Box.IsValid() {
			return nil, nil, fmt.Errorf("node %d has a degenerate box", n.ID)
		}
		nodes[i] = graph.Node{ID: n.ID, Type: n.Type, Box: n.Box, Text: n.Text}
	}

	edges := make([]graph.Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		edges[i] = graph.Edge{
			Source:     e.Source,
			Target:     e.Target,
			Confidence: e.Confidence,
			Ambiguous:  e.Ambiguous,
		}
	}

	g, _, err := graph.Assemble(nodes, edges, graph.DefaultAssembleOptions())
	if err != nil {
		return nil, nil, fmt.Errorf("invalid chart document: %w", err)
	}
	for i, n := range g.Nodes() {
		if n.ID != i {
			return nil, nil, fmt.Errorf("node identifiers are not dense: found %d at position %d", n.ID, i)
		}
	}

	m := g.AdjacencyMatrix()
	if doc.Matrix != nil {
		if err := matricesEqual(doc.Matrix, m); err != nil {
			return nil, nil, fmt.Errorf("embedded matrix disagrees with edges: %w", err)
		}
	}
	return g, m, nil
}

func matricesEqual(a, b graph.Matrix) error {
	if len(a) != len(b) {
		return fmt.Errorf("size %d, want %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return fmt.Errorf("row %d has %d columns, want %d", i, len(a[i]), len(b[i]))
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return fmt.Errorf("entry [%d][%d] is %d, want %d", i, j, a[i][j], b[i][j])
			}
		}
	}
	return nil
}
