package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"regexp"
	"sort"
	"strings"

	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/graph"
)

// TextReader recognizes the label text inside one node region of a
// chart image. Implementations must be safe for sequential reuse
// across regions of the same image.
type TextReader interface {
	ReadRegion(ctx context.Context, img image.Image, h export.RegionHandle) (string, error)
}

// Recognizers that echo a prompt back tend to wrap the payload in
// double quotes. The first quoted run, if any, is the label.
var quotedLabel = regexp.MustCompile(`"(.*?)"`)

// CleanText normalizes raw recognizer output into a node label: outer
// whitespace is trimmed, and if the text contains a double-quoted run
// the first one replaces the whole string.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if m := quotedLabel.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// ReadAll runs the reader over every region handle and collects the
// raw text per node id. A region that fails to read is skipped rather
// than aborting the batch; the joined error reports every failure. A
// canceled context stops the batch and returns what was read so far.
func ReadAll(ctx context.Context, r TextReader, img image.Image, handles []export.RegionHandle) (map[int]string, error) {
	texts := make(map[int]string, len(handles))
	var errs []error
	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return texts, err
		}
		text, err := r.ReadRegion(ctx, img, h)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading region for node %d: %w", h.NodeID, err))
			continue
		}
		texts[h.NodeID] = text
	}
	return texts, errors.Join(errs...)
}

// MergeResults cleans each recognized text and attaches it to its
// graph node. Texts that clean down to nothing are dropped so an
// unreadable region never blanks a label set by an earlier pass. Node
// ids are visited in order, and an id the graph does not know is an
// error.
func MergeResults(g *graph.Graph, texts map[int]string) error {
	ids := make([]int, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		label := CleanText(texts[id])
		if label == "" {
			continue
		}
		if err := g.MergeText(id, label); err != nil {
			return fmt.Errorf("merging text: %w", err)
		}
	}
	return nil
}
