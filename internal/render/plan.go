package render

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// Shape is one node ready to draw: where it goes, what outline to use,
// what to fill it with, and what to write inside.
type Shape struct {
	// ID is the graph node id.
	ID int `json:"id"`

	// Kind is the outline to draw.
	Kind Kind `json:"kind"`

	// Box is the placement in source-image coordinates.
	Box geometry.Box `json:"bbox"`

	// Label is the node text, empty when no text was recognized.
	Label string `json:"label"`

	// Fill is the "#rrggbb" fill color.
	Fill string `json:"fill"`
}

// Connector is one edge ready to draw as an arrowed line between two
// shape borders.
type Connector struct {
	// Source and Target are graph node ids.
	Source int `json:"source"`
	Target int `json:"target"`

	// Start and End are the line endpoints on the shape borders. The
	// arrowhead belongs at End.
	Start geometry.Point `json:"start"`
	End   geometry.Point `json:"end"`

	// Dashed marks connectors whose edge was ambiguous, so a drawing
	// can show them as tentative.
	Dashed bool `json:"dashed,omitempty"`
}

// Plan is a drawing-tool-neutral recreation of a chart: shapes with
// fills and labels plus the connectors between them, all in the source
// image's coordinate space.
type Plan struct {
	// Width and Height are the canvas size in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Shapes are the nodes in id order.
	Shapes []Shape `json:"shapes"`

	// Connectors are the edges in (source, target) order.
	Connectors []Connector `json:"connectors"`
}

// BuildPlan lays out a recreation of the graph. Extent should be the
// detection extent the graph was built from; a degenerate extent falls
// back to the union of the node boxes.
//
// Connector endpoints follow the relative position of the two centers:
// a source above its target leaves from its bottom edge and lands on
// the target's top edge, and so on for the other directions. The line
// attaches at edge midpoints, which reads cleanly for the rectilinear
// layouts flowcharts use.
func BuildPlan(g *graph.Graph, extent geometry.Box) *Plan {
	nodes := g.Nodes()

	if !extent.IsValid() {
		boxes := make([]geometry.Box, len(nodes))
		for i, n := range nodes {
			boxes[i] = n.Box
		}
		extent = geometry.Extent(boxes)
	}

	plan := &Plan{
		Shapes:     make([]Shape, 0, len(nodes)),
		Connectors: make([]Connector, 0, g.EdgeCount()),
	}
	if extent.IsValid() {
		plan.Width = int(math.Ceil(extent.X2))
		plan.Height = int(math.Ceil(extent.Y2))
	}

	for _, n := range nodes {
		plan.Shapes = append(plan.Shapes, Shape{
			ID:    n.ID,
			Kind:  KindFor(n.Type),
			Box:   n.Box,
			Label: n.Text,
			Fill:  FillFor(n.Type),
		})
	}

	for _, e := range g.Edges() {
		src, ok := g.Node(e.Source)
		if !ok {
			continue
		}
		dst, ok := g.Node(e.Target)
		if !ok {
			continue
		}
		start, end := attachPoints(src.Box, dst.Box)
		plan.Connectors = append(plan.Connectors, Connector{
			Source: e.Source,
			Target: e.Target,
			Start:  start,
			End:    end,
			Dashed: e.Ambiguous,
		})
	}

	return plan
}

// attachPoints picks the border points a connector should run between,
// by where the source center sits relative to the target center.
func attachPoints(src, dst geometry.Box) (start, end geometry.Point) {
	sc, tc := src.Center(), dst.Center()
	switch {
	case sc.Y < tc.Y:
		start = geometry.Point{X: sc.X, Y: src.Y2}
		end = geometry.Point{X: tc.X, Y: dst.Y1}
	case sc.Y > tc.Y:
		start = geometry.Point{X: sc.X, Y: src.Y1}
		end = geometry.Point{X: tc.X, Y: dst.Y2}
	case sc.X < tc.X:
		start = geometry.Point{X: src.X2, Y: sc.Y}
		end = geometry.Point{X: dst.X1, Y: tc.Y}
	default:
		start = geometry.Point{X: src.X1, Y: sc.Y}
		end = geometry.Point{X: dst.X2, Y: tc.Y}
	}
	return start, end
}

// MarshalPlan renders a plan as indented JSON.
func MarshalPlan(p *Plan) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding render plan: %w", err)
	}
	return data, nil
}
