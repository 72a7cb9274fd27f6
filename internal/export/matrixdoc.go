package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// MatrixShape is the shape inventory entry of a matrix document.
type MatrixShape struct {
	ID     int            `json:"id"`
	Type   detect.Class   `json:"type"`
	Box    geometry.Box   `json:"bbox"`
	Center geometry.Point `json:"center"`
	Text   string         `json:"text,omitempty"`
}

// MatrixDocument is the matrix-first export: the adjacency matrix plus
// just enough shape information to interpret its rows.
type MatrixDocument struct {
	Matrix graph.Matrix  `json:"matrix"`
	Shapes []MatrixShape `json:"shapes"`
}

// BuildMatrixDocument derives the matrix document from a graph.
func BuildMatrixDocument(g *graph.Graph) *MatrixDocument {
	nodes := g.Nodes()
	doc := &MatrixDocument{
		Matrix: g.AdjacencyMatrix(),
		Shapes: make([]MatrixShape, len(nodes)),
	}
	for i, n := range nodes {
		doc.Shapes[i] = MatrixShape{
			ID:     n.ID,
			Type:   n.Type,
			Box:    n.Box,
			Center: n.Box.Center(),
			Text:   n.Text,
		}
	}
	return doc
}

// MarshalMatrixDocument serializes the matrix document as indented
// JSON.
func MarshalMatrixDocument(g *graph.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(BuildMatrixDocument(g), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding matrix document: %w", err)
	}
	return data, nil
}

// WriteMatrixTable writes the matrix as a plain tab-separated table,
// one row per line. A zero-by-zero matrix writes nothing.
func WriteMatrixTable(w io.Writer, m graph.Matrix) error {
	var sb strings.Builder
	for _, row := range m {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte('\t')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(w, sb.String()); err != nil {
		return fmt.Errorf("writing matrix table: %w", err)
	}
	return nil
}
