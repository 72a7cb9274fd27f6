package render

import (
	"image"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/chartwright/flowgraph/internal/detect"
)

// Kind names the outline a drawing tool should use for a node.
type Kind string

const (
	KindRectangle     Kind = "rectangle"
	KindDiamond       Kind = "diamond"
	KindEllipse       Kind = "ellipse"
	KindParallelogram Kind = "parallelogram"
	KindDisplay       Kind = "display"
)

// KindFor maps a node class to its conventional flowchart outline.
// Unknown classes draw as plain rectangles.
func KindFor(c detect.Class) Kind {
	switch c {
	case detect.ClassDecision:
		return KindDiamond
	case detect.ClassTerminal:
		return KindEllipse
	case detect.ClassInput:
		return KindParallelogram
	case detect.ClassOutput:
		return KindDisplay
	default:
		return KindRectangle
	}
}

// The default fills follow the flowchart drawing convention of one
// saturated primary per class.
var palette = map[detect.Class]colorful.Color{
	detect.ClassProcess:  {R: 1, G: 0, B: 0},
	detect.ClassDecision: {R: 0, G: 1, B: 0},
	detect.ClassOutput:   {R: 0, G: 0, B: 1},
	detect.ClassInput:    {R: 1, G: 1, B: 0},
	detect.ClassTerminal: {R: 0, G: 1, B: 1},
}

// FillFor returns the palette fill for a class as a "#rrggbb" hex
// string, defaulting to white for classes outside the palette.
func FillFor(c detect.Class) string {
	if col, ok := palette[c]; ok {
		return col.Hex()
	}
	return colorful.Color{R: 1, G: 1, B: 1}.Hex()
}

// SampleFills replaces each shape's palette fill with the color at the
// center of its region in the source image, keeping hand-drawn charts
// recognizable in the recreation. Shapes whose center falls outside
// the image, or on a fully transparent pixel, keep their palette fill.
func SampleFills(p *Plan, img image.Image) {
	if img == nil {
		return
	}
	bounds := img.Bounds()
	for i := range p.Shapes {
		center := p.Shapes[i].Box.Center()
		px := image.Pt(int(center.X), int(center.Y))
		if !px.In(bounds) {
			continue
		}
		if col, ok := colorful.MakeColor(img.At(px.X, px.Y)); ok {
			p.Shapes[i].Fill = col.Hex()
		}
	}
}
