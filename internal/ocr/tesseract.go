package ocr

import (
	"context"
	"fmt"
	"image"

	"github.com/otiai10/gosseract/v2"

	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/imaging"
)

// Tesseract reads node labels with the Tesseract engine through
// gosseract. Each region is cropped, binarized, and handed to a fresh
// client, so one bad region cannot poison the next.
//
// The language data for Language must be installed on the system; with
// none named the engine's default applies.
type Tesseract struct {
	// Language is a Tesseract language code such as "eng".
	Language string

	// Threshold is the black-and-white cutoff used to prepare crops.
	Threshold uint8
}

// NewTesseract returns a reader configured for English labels with the
// standard binarization level.
func NewTesseract() *Tesseract {
	return &Tesseract{Language: "eng", Threshold: 128}
}

// ReadRegion recognizes the text inside one node region.
//
// The region is cropped out of the source image and prepared the way
// recognizers want it before the engine sees it. Flowchart labels are
// short and centered, so the engine runs in single-block page mode
// rather than full layout analysis.
func (t *Tesseract) ReadRegion(ctx context.Context, img image.Image, h export.RegionHandle) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	prepared, err := imaging.CropForOCR(img, h, t.Threshold)
	if err != nil {
		return "", err
	}
	data, err := imaging.EncodePNG(prepared)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.Language != "" {
		if err := client.SetLanguage(t.Language); err != nil {
			return "", fmt.Errorf("setting language %q: %w", t.Language, err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		return "", fmt.Errorf("setting page mode: %w", err)
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognizing text: %w", err)
	}
	return text, nil
}
