package graph

import (
	"fmt"
	"sync"
)

// Graph is a reconstructed flowchart: nodes in identifier order and
// directed edges in (source, target) order.
//
// The structure is immutable after assembly with one exception: node
// text, which arrives later from OCR and is merged in through
// MergeText. That method is safe for concurrent use; everything else is
// read-only and therefore safe to share.
type Graph struct {
	mu    sync.Mutex
	nodes []Node
	edges []Edge
	index map[int]int // node id -> position in nodes
}

// newGraph wires up a graph from already validated, ordered slices.
// Callers go through Assemble, which establishes the invariants.
func newGraph(nodes []Node, edges []Edge) *Graph {
	index := make(map[int]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}
	return &Graph{nodes: nodes, edges: edges, index: index}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in identifier order. The slice is a copy;
// mutating it does not affect the graph.
func (g *Graph) Nodes() []Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns the edges in (source, target) order. The slice is a
// copy; mutating it does not affect the graph.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Node returns the node with the given identifier.
func (g *Graph) Node(id int) (Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Outgoing returns the edges leaving the given node, in target order.
func (g *Graph) Outgoing(id int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Source == id {
			out = append(out, e)
		}
	}
	return out
}

// Incoming returns the edges entering the given node, in source order.
func (g *Graph) Incoming(id int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Target == id {
			out = append(out, e)
		}
	}
	return out
}

// MergeText attaches recovered label text to a node. Later merges for
// the same node replace the text, so repeating a merge with the same
// value is a no-op. Merging to an unknown identifier returns an error
// wrapping ErrNodeNotFound.
//
// MergeText is safe to call from concurrent OCR workers.
func (g *Graph) MergeText(id int, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	i, ok := g.index[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	g.nodes[i].Text = text
	return nil
}
