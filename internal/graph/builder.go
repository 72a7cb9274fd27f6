package graph

import (
	"sort"

	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/geometry"
)

// BuildNodes promotes normalized shape detections to nodes and assigns
// identifiers.
//
// Identifiers are assigned in raster order (top-to-bottom, then
// left-to-right over the boxes' top-left corners, with the remaining
// coordinates and finally the class as tie-breaks). Because the order
// is derived purely from geometry, identifier assignment is a function
// of the detection set itself: shuffling detector output does not
// renumber the graph.
func BuildNodes(shapes []detect.Detection) []Node {
	ordered := make([]detect.Detection, len(shapes))
	copy(ordered, shapes)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Box != ordered[j].Box {
			return geometry.RasterLess(ordered[i].Box, ordered[j].Box)
		}
		return ordered[i].Class < ordered[j].Class
	})

	nodes := make([]Node, len(ordered))
	for i, d := range ordered {
		nodes[i] = Node{
			ID:         i,
			Type:       d.Class,
			Box:        d.Box,
			Confidence: d.Confidence,
		}
	}
	return nodes
}
