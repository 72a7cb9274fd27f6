package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"github.com/chartwright/flowgraph/internal/export"
)

// Crops below this side length get a 2x Lanczos upscale before OCR so
// glyph strokes span more than a pixel or two.
const minOCRSide = 48

// CropResult is one node's region cut out of the source chart, encoded
// as a PNG for transport.
type CropResult struct {
	// NodeID is the graph node the region belongs to.
	NodeID int `json:"node_id"`

	// Width and Height are the pixel dimensions of the crop after any
	// scaling.
	Width  int `json:"width"`
	Height int `json:"height"`

	// ImageBase64 is the PNG bytes, base64 encoded.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// CropRegion cuts a node's region out of the source image and encodes
// it as a base64 PNG. The handle's box is rounded outward to whole
// pixels and clipped to the image; a handle that misses the image
// entirely is an error. Scale stretches the crop by that factor, with
// 0 and 1 both meaning no scaling.
func CropRegion(img image.Image, h export.RegionHandle, scale float64) (*CropResult, error) {
	rect, err := regionRect(img, h)
	if err != nil {
		return nil, err
	}

	crop := imaging.Crop(img, rect)
	if scale > 0 && scale != 1 {
		w := int(math.Round(float64(crop.Bounds().Dx()) * scale))
		ht := int(math.Round(float64(crop.Bounds().Dy()) * scale))
		if w < 1 || ht < 1 {
			return nil, fmt.Errorf("scale %g collapses region for node %d", scale, h.NodeID)
		}
		crop = imaging.Resize(crop, w, ht, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("encoding crop for node %d: %w", h.NodeID, err)
	}

	return &CropResult{
		NodeID:      h.NodeID,
		Width:       crop.Bounds().Dx(),
		Height:      crop.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// CropAllRegions crops every handle against the same source image.
// Handles that miss the image are skipped; the error reports the first
// failure only if no handle produced a crop.
func CropAllRegions(img image.Image, handles []export.RegionHandle, scale float64) ([]*CropResult, error) {
	results := make([]*CropResult, 0, len(handles))
	var firstErr error
	for _, h := range handles {
		res, err := CropRegion(img, h, scale)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// CropForOCR cuts a node's region out of the source image and prepares
// it for text recognition.
func CropForOCR(img image.Image, h export.RegionHandle, level uint8) (image.Image, error) {
	rect, err := regionRect(img, h)
	if err != nil {
		return nil, err
	}
	return PrepareForOCR(imaging.Crop(img, rect), level), nil
}

// PrepareForOCR converts a crop into the high-contrast form recognizers
// want: small crops are upscaled 2x, then the image is grayscaled and
// thresholded to black and white at the given level.
//
// Printed flowchart labels are dark strokes on a light fill, so a level
// around 128 separates them cleanly. Very dark fills invert that
// assumption and come out as white-on-black, which most recognizers
// still accept.
func PrepareForOCR(img image.Image, level uint8) image.Image {
	b := img.Bounds()
	if b.Dx() < minOCRSide || b.Dy() < minOCRSide {
		img = imaging.Resize(img, b.Dx()*2, b.Dy()*2, imaging.Lanczos)
	}
	gray := effect.Grayscale(img)
	return segment.Threshold(gray, level)
}

// EncodePNG renders any image to PNG bytes. OCR adapters feed these to
// recognizers that take encoded images rather than pixel buffers.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// regionRect converts a handle's box to a pixel rectangle: rounded
// outward so fractional boxes never shave label strokes, then clipped
// to the image bounds.
func regionRect(img image.Image, h export.RegionHandle) (image.Rectangle, error) {
	if !h.Box.IsValid() {
		return image.Rectangle{}, fmt.Errorf("degenerate region for node %d", h.NodeID)
	}
	rect := image.Rect(
		int(math.Floor(h.Box.X1)),
		int(math.Floor(h.Box.Y1)),
		int(math.Ceil(h.Box.X2)),
		int(math.Ceil(h.Box.Y2)),
	)
	rect = rect.Intersect(img.Bounds())
	if rect.Empty() {
		return image.Rectangle{}, fmt.Errorf("region for node %d lies outside the image", h.NodeID)
	}
	return rect, nil
}
