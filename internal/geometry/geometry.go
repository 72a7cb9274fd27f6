// Package geometry provides the pixel-space primitives shared by the
// flowchart reconstruction pipeline: points, axis-aligned boxes, and the
// measurements (overlap, distance, expansion) the matching stages are
// built on.
//
// All coordinates are float64 in image pixel space with the origin at the
// top-left corner, x growing rightward and y growing downward. Detector
// output is frequently sub-pixel, so no rounding happens here; callers
// that need integer rectangles (cropping, rendering) convert at the edge.
package geometry

import (
	"encoding/json"
	"fmt"
	"math"
)

// Point is a location in image pixel space.
//
// Points serialize as a two-element JSON array [x, y], matching the
// persisted chart format.
type Point struct {
	X float64
	Y float64
}

// MarshalJSON encodes the point as [x, y].
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

// UnmarshalJSON decodes a two-element [x, y] array.
func (p *Point) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("point must be a [x, y] array: %w", err)
	}
	if len(arr) != 2 {
		return fmt.Errorf("point must have exactly 2 elements, got %d", len(arr))
	}
	p.X, p.Y = arr[0], arr[1]
	return nil
}

// DistanceTo returns the Euclidean distance between two points.
func (p Point) DistanceTo(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Box is an axis-aligned bounding box in image pixel space.
//
// A box is valid when X1 < X2 and Y1 < Y2. Boxes serialize as a
// four-element JSON array [x1, y1, x2, y2], matching both the detector
// input format and the persisted chart format.
type Box struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64
}

// NewBox builds a box from two opposite corners, normalizing the corner
// order so the result satisfies X1 <= X2 and Y1 <= Y2.
func NewBox(x1, y1, x2, y2 float64) Box {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Box{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// MarshalJSON encodes the box as [x1, y1, x2, y2].
func (b Box) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.X1, b.Y1, b.X2, b.Y2})
}

// UnmarshalJSON decodes a four-element [x1, y1, x2, y2] array.
func (b *Box) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("box must be a [x1, y1, x2, y2] array: %w", err)
	}
	if len(arr) != 4 {
		return fmt.Errorf("box must have exactly 4 elements, got %d", len(arr))
	}
	b.X1, b.Y1, b.X2, b.Y2 = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// IsValid reports whether the box has strictly positive extent on both
// axes.
func (b Box) IsValid() bool {
	return b.X1 < b.X2 && b.Y1 < b.Y2
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.X2 - b.X1 }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.Y2 - b.Y1 }

// Area returns the box area, or 0 for degenerate boxes.
func (b Box) Area() float64 {
	if !b.IsValid() {
		return 0
	}
	return b.Width() * b.Height()
}

// Center returns the geometric center of the box.
func (b Box) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Diagonal returns the length of the box diagonal. Matching margins and
// search radii throughout the pipeline are expressed as fractions of a
// diagonal, so this is the scale unit of the whole system.
func (b Box) Diagonal() float64 {
	return math.Hypot(b.Width(), b.Height())
}

// Contains reports whether the point lies inside the box. Points exactly
// on the boundary count as inside.
func (b Box) Contains(p Point) bool {
	return p.X >= b.X1 && p.X <= b.X2 && p.Y >= b.Y1 && p.Y <= b.Y2
}

// Expand grows the box by m pixels on every side. Negative m shrinks it;
// callers are responsible for checking validity afterwards.
func (b Box) Expand(m float64) Box {
	return Box{X1: b.X1 - m, Y1: b.Y1 - m, X2: b.X2 + m, Y2: b.Y2 + m}
}

// ExpandFrac grows the box on every side by frac of its own diagonal.
// This is the expansion rule used when matching arrow anchors to nodes:
// the margin scales with the node, so large shapes tolerate larger
// detector offsets than small ones.
func (b Box) ExpandFrac(frac float64) Box {
	return b.Expand(frac * b.Diagonal())
}

// Intersect returns the overlapping region of two boxes and whether that
// region is non-empty.
func (b Box) Intersect(o Box) (Box, bool) {
	r := Box{
		X1: math.Max(b.X1, o.X1),
		Y1: math.Max(b.Y1, o.Y1),
		X2: math.Min(b.X2, o.X2),
		Y2: math.Min(b.Y2, o.Y2),
	}
	return r, r.IsValid()
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	return Box{
		X1: math.Min(b.X1, o.X1),
		Y1: math.Min(b.Y1, o.Y1),
		X2: math.Max(b.X2, o.X2),
		Y2: math.Max(b.Y2, o.Y2),
	}
}

// IoU returns the intersection-over-union of two boxes in [0, 1].
// Degenerate boxes always score 0.
func (b Box) IoU(o Box) float64 {
	inter, ok := b.Intersect(o)
	if !ok {
		return 0
	}
	union := b.Area() + o.Area() - inter.Area()
	if union <= 0 {
		return 0
	}
	return inter.Area() / union
}

// DistanceTo returns the shortest distance from the point to the box
// boundary, or 0 when the point lies inside the box.
func (b Box) DistanceTo(p Point) float64 {
	dx := math.Max(0, math.Max(b.X1-p.X, p.X-b.X2))
	dy := math.Max(0, math.Max(b.Y1-p.Y, p.Y-b.Y2))
	return math.Hypot(dx, dy)
}

// ClampTo restricts the box to the given bounds. The result may be
// degenerate when the boxes do not overlap; callers should check IsValid.
func (b Box) ClampTo(bounds Box) Box {
	return Box{
		X1: math.Min(math.Max(b.X1, bounds.X1), bounds.X2),
		Y1: math.Min(math.Max(b.Y1, bounds.Y1), bounds.Y2),
		X2: math.Max(math.Min(b.X2, bounds.X2), bounds.X1),
		Y2: math.Max(math.Min(b.Y2, bounds.Y2), bounds.Y1),
	}
}

// RasterLess orders boxes in reading order: top-to-bottom, then
// left-to-right, with the remaining coordinates as deterministic
// tie-breaks. It is the ordering that node identifiers are assigned in,
// which makes identifier assignment a pure function of geometry rather
// than of detector output order.
func RasterLess(a, b Box) bool {
	if a.Y1 != b.Y1 {
		return a.Y1 < b.Y1
	}
	if a.X1 != b.X1 {
		return a.X1 < b.X1
	}
	if a.X2 != b.X2 {
		return a.X2 < b.X2
	}
	return a.Y2 < b.Y2
}

// Extent returns the smallest box covering all the given boxes, or the
// zero box when the slice is empty.
func Extent(boxes []Box) Box {
	if len(boxes) == 0 {
		return Box{}
	}
	ext := boxes[0]
	for _, b := range boxes[1:] {
		ext = ext.Union(b)
	}
	return ext
}
