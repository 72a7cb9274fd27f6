package detect

import (
	"sort"

	"github.com/chartwright/flowgraph/internal/geometry"
)

// NormalizeOptions controls confidence filtering and duplicate
// suppression.
type NormalizeOptions struct {
	// MinConfidence is the inclusive confidence floor. Detections
	// scoring below it are discarded before anything else happens.
	MinConfidence float64

	// IoUThreshold is the overlap level at which two same-class
	// detections are considered duplicates of one region. Overlap is
	// never treated as duplication across classes: a small decision
	// inside a large process is a legitimate layout.
	IoUThreshold float64
}

// DefaultNormalizeOptions returns the thresholds tuned for typical
// flowchart detector output.
func DefaultNormalizeOptions() NormalizeOptions {
	return NormalizeOptions{
		MinConfidence: 0.25,
		IoUThreshold:  0.5,
	}
}

// Set is the cleaned, partitioned detector output that the graph stages
// consume.
type Set struct {
	// Shapes are node candidates in raster order.
	Shapes []Detection `json:"shapes"`

	// Arrows are connector candidates in raster order.
	Arrows []Detection `json:"arrows"`

	// Arrowheads are direction markers in raster order.
	Arrowheads []Detection `json:"arrowheads"`

	// Discarded counts detections removed by the confidence floor or
	// duplicate suppression.
	Discarded int `json:"discarded"`
}

// Normalize filters, deduplicates, and partitions raw detections.
//
// # Algorithm
//
//  1. Confidence floor: drop every detection below MinConfidence.
//  2. Duplicate suppression, per class: sort candidates by confidence
//     (descending), keep each detection unless it overlaps an already
//     kept same-class detection with IoU at or above IoUThreshold.
//  3. Partition survivors into shapes, arrows, and arrowheads, each
//     sorted in raster order.
//
// Ties in step 2 break by raster order, so the outcome is a pure
// function of the detection multiset: feeding the same detections in a
// different order produces the same Set.
func Normalize(dets []Detection, opts NormalizeOptions) Set {
	kept := make([]Detection, 0, len(dets))
	for _, d := range dets {
		if d.Confidence >= opts.MinConfidence {
			kept = append(kept, d)
		}
	}
	discarded := len(dets) - len(kept)

	byClass := make(map[Class][]Detection)
	for _, d := range kept {
		byClass[d.Class] = append(byClass[d.Class], d)
	}

	set := Set{}
	for class, group := range byClass {
		survivors := suppressDuplicates(group, opts.IoUThreshold)
		discarded += len(group) - len(survivors)

		switch {
		case class.IsShape():
			set.Shapes = append(set.Shapes, survivors...)
		case class == ClassArrow:
			set.Arrows = append(set.Arrows, survivors...)
		case class == ClassArrowhead:
			set.Arrowheads = append(set.Arrowheads, survivors...)
		default:
			// Unknown classes never survive ParseDocument; dropping
			// here keeps Normalize total for hand-built input.
			discarded += len(survivors)
		}
	}

	rasterSort(set.Shapes)
	rasterSort(set.Arrows)
	rasterSort(set.Arrowheads)
	set.Discarded = discarded
	return set
}

// suppressDuplicates keeps the highest-confidence detection of each
// overlapping cluster. Disjoint boxes (IoU of exactly 0) are never
// suppressed, regardless of how low the threshold is set.
func suppressDuplicates(group []Detection, iouThreshold float64) []Detection {
	ordered := make([]Detection, len(group))
	copy(ordered, group)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Confidence != ordered[j].Confidence {
			return ordered[i].Confidence > ordered[j].Confidence
		}
		return geometry.RasterLess(ordered[i].Box, ordered[j].Box)
	})

	survivors := make([]Detection, 0, len(ordered))
	for _, cand := range ordered {
		duplicate := false
		for _, kept := range survivors {
			iou := cand.Box.IoU(kept.Box)
			if iou > 0 && iou >= iouThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			survivors = append(survivors, cand)
		}
	}
	return survivors
}

func rasterSort(dets []Detection) {
	sort.SliceStable(dets, func(i, j int) bool {
		if dets[i].Box != dets[j].Box {
			return geometry.RasterLess(dets[i].Box, dets[j].Box)
		}
		return dets[i].Class < dets[j].Class
	})
}
