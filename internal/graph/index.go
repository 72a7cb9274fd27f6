package graph

import (
	"math"
	"sort"

	"github.com/chartwright/flowgraph/internal/geometry"
)

// defaultCell is the grid cell size used when a node set is empty or
// degenerate and no sensible size can be derived from it.
const defaultCell = 64.0

// NodeIndex answers "which nodes could this point attach to" without
// scanning every node.
//
// Each node is indexed under its bounding box expanded by a margin
// fraction of the box diagonal. A point is a candidate for a node when
// the expanded box contains it and the point lies within maxRadius of
// the unexpanded box. Since candidacy requires containment, a query
// only ever needs to inspect the bucket of the cell the point falls in.
type NodeIndex struct {
	nodes    []Node
	expanded []geometry.Box
	byID     map[int]int // node id -> position in nodes
	cell     float64
	buckets  map[cellKey][]int
}

type cellKey struct{ cx, cy int }

// NewNodeIndex builds a grid index over the nodes with the given
// expansion margin.
func NewNodeIndex(nodes []Node, marginFrac float64) *NodeIndex {
	ix := &NodeIndex{
		nodes:    nodes,
		expanded: make([]geometry.Box, len(nodes)),
		byID:     make(map[int]int, len(nodes)),
		buckets:  make(map[cellKey][]int),
	}
	for i, n := range nodes {
		ix.byID[n.ID] = i
	}

	var diagSum float64
	for i, n := range nodes {
		ix.expanded[i] = n.Box.ExpandFrac(marginFrac)
		diagSum += ix.expanded[i].Diagonal()
	}

	ix.cell = defaultCell
	if len(nodes) > 0 {
		if mean := diagSum / float64(len(nodes)); mean > 1 {
			ix.cell = mean
		}
	}

	for i := range nodes {
		ix.insert(i, ix.expanded[i])
	}
	return ix
}

func (ix *NodeIndex) insert(pos int, b geometry.Box) {
	x1, y1 := ix.cellOf(b.X1, b.Y1)
	x2, y2 := ix.cellOf(b.X2, b.Y2)
	for cy := y1; cy <= y2; cy++ {
		for cx := x1; cx <= x2; cx++ {
			key := cellKey{cx, cy}
			ix.buckets[key] = append(ix.buckets[key], pos)
		}
	}
}

func (ix *NodeIndex) cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / ix.cell)), int(math.Floor(y / ix.cell))
}

// Candidates returns the identifiers of nodes the point could attach
// to: the expanded box contains the point and the point is within
// maxRadius of the original box. Results are sorted by identifier.
func (ix *NodeIndex) Candidates(p geometry.Point, maxRadius float64) []int {
	cx, cy := ix.cellOf(p.X, p.Y)
	bucket := ix.buckets[cellKey{cx, cy}]

	var ids []int
	for _, pos := range bucket {
		if !ix.expanded[pos].Contains(p) {
			continue
		}
		if ix.nodes[pos].Box.DistanceTo(p) > maxRadius {
			continue
		}
		ids = append(ids, ix.nodes[pos].ID)
	}
	sort.Ints(ids)
	return ids
}

// Node returns the indexed node with the given identifier.
func (ix *NodeIndex) Node(id int) (Node, bool) {
	pos, ok := ix.byID[id]
	if !ok {
		return Node{}, false
	}
	return ix.nodes[pos], true
}
