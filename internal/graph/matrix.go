package graph

// Matrix is a square adjacency matrix over the graph's nodes. Row and
// column i correspond to the node at position i of the identifier
// order, and every entry is 0 or 1: multiplicity never appears, even
// where several arrows were drawn between the same pair of shapes. The
// main diagonal is always zero.
type Matrix [][]int

// AdjacencyMatrix derives the graph's adjacency matrix. An empty graph
// yields a zero-by-zero matrix.
func (g *Graph) AdjacencyMatrix() Matrix {
	n := len(g.nodes)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	for _, e := range g.edges {
		m[g.index[e.Source]][g.index[e.Target]] = 1
	}
	return m
}

// Size returns the matrix dimension.
func (m Matrix) Size() int { return len(m) }
