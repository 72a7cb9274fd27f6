package export

import (
	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// RegionHandle addresses the image region belonging to one node, padded
// for downstream crop-and-read passes. Handles carry no pixels: they
// let text recovery run later, against the original image, without
// rerunning reconstruction.
type RegionHandle struct {
	NodeID int          `json:"node_id"`
	Box    geometry.Box `json:"bbox"`
}

// RegionHandles produces one handle per node, each box grown by pad
// pixels on every side and clamped to the image extent when a valid
// extent is given.
//
// The padding absorbs detector boxes that clip a character or two off
// the shape's label; text recovery reads noticeably better with a few
// pixels of slack.
func RegionHandles(g *graph.Graph, pad float64, extent geometry.Box) []RegionHandle {
	nodes := g.Nodes()
	handles := make([]RegionHandle, len(nodes))
	for i, n := range nodes {
		box := n.Box.Expand(pad)
		if extent.IsValid() {
			box = box.ClampTo(extent)
		}
		handles[i] = RegionHandle{NodeID: n.ID, Box: box}
	}
	return handles
}
