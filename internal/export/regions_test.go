package export

import (
	"testing"

	"github.com/chartwright/flowgraph/internal/geometry"
)

func TestRegionHandles(t *testing.T) {
	g := smallGraph(t)
	extent := geometry.Box{X1: 0, Y1: 0, X2: 700, Y2: 500}

	handles := RegionHandles(g, 5, extent)

	if len(handles) != 4 {
		t.Fatalf("got %d handles, want 4", len(handles))
	}

	// Node 0 box is (100, 40, 300, 100); padded by 5 on every side.
	want := geometry.Box{X1: 95, Y1: 35, X2: 305, Y2: 105}
	if handles[0].NodeID != 0 || handles[0].Box != want {
		t.Errorf("handle 0 = %+v, want node 0 at %+v", handles[0], want)
	}
}

func TestRegionHandlesClampToExtent(t *testing.T) {
	g := smallGraph(t)
	// Extent ends exactly at the rightmost node edge, so padding past
	// it must clamp.
	extent := geometry.Box{X1: 0, Y1: 0, X2: 600, Y2: 440}

	handles := RegionHandles(g, 10, extent)

	// Node 2 box is (400, 200, 600, 280).
	h := handles[2]
	if h.Box.X2 != 600 {
		t.Errorf("handle 2 right edge = %v, want clamped to 600", h.Box.X2)
	}
	if h.Box.X1 != 390 || h.Box.Y1 != 190 || h.Box.Y2 != 290 {
		t.Errorf("handle 2 box = %+v, want (390, 190, 600, 290)", h.Box)
	}

	// Node 3 box is (100, 380, 300, 440); its bottom clamps too.
	if handles[3].Box.Y2 != 440 {
		t.Errorf("handle 3 bottom edge = %v, want clamped to 440", handles[3].Box.Y2)
	}
}

func TestRegionHandlesWithoutExtent(t *testing.T) {
	g := smallGraph(t)

	handles := RegionHandles(g, 5, geometry.Box{})

	// No valid extent: padding applies unclamped, even past the origin.
	if handles[0].Box.Y1 != 35 {
		t.Errorf("handle 0 top = %v, want 35", handles[0].Box.Y1)
	}
}
