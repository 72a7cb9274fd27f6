package detect

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/chartwright/flowgraph/internal/geometry"
)

// Detection is a single classified region reported by the upstream
// object detector.
type Detection struct {
	// Class is the detected primitive kind.
	Class Class `json:"class"`

	// Confidence is the detector's score for this region (0.0 to 1.0).
	Confidence float64 `json:"confidence" validate:"gte=0,lte=1"`

	// Box is the region's bounding box in image pixel space.
	Box geometry.Box `json:"bbox"`
}

// ImageInfo carries the dimensions of the image the detections were
// produced on, and optionally its path for stages that reopen the pixels
// (cropping, OCR, rendering).
type ImageInfo struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
	Path   string  `json:"path,omitempty"`
}

// Bounds returns the image extent as a box anchored at the origin.
func (i ImageInfo) Bounds() geometry.Box {
	return geometry.Box{X1: 0, Y1: 0, X2: i.Width, Y2: i.Height}
}

// Document is the detector output format consumed by the pipeline.
//
// The image block is optional: when absent, stages that need an extent
// (search radii, clamping) fall back to the union of all detection
// boxes.
type Document struct {
	Image      *ImageInfo  `json:"image,omitempty"`
	Detections []Detection `json:"detections" validate:"dive"`
}

// Extent returns the coordinate extent of the document: the declared
// image bounds when present, otherwise the union of all detection boxes.
func (d *Document) Extent() geometry.Box {
	if d.Image != nil {
		return d.Image.Bounds()
	}
	boxes := make([]geometry.Box, len(d.Detections))
	for i, det := range d.Detections {
		boxes[i] = det.Box
	}
	return geometry.Extent(boxes)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		det := sl.Current().Interface().(Detection)
		if !det.Box.IsValid() {
			sl.ReportError(det.Box, "Box", "bbox", "validbox", "")
		}
	}, Detection{})
	return v
}

// ParseDocument decodes and validates a detector output document.
//
// Validation rejects malformed boxes (x1 >= x2 or y1 >= y2), confidences
// outside [0, 1], and non-positive image dimensions. An empty detection
// list is valid input; downstream stages report it as a diagnostic
// rather than an error.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding detection document: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("invalid detection document: %w", err)
	}
	return &doc, nil
}
