package detect

import (
	"reflect"
	"testing"
)

func TestNormalizeConfidenceFloor(t *testing.T) {
	dets := []Detection{
		det(ClassProcess, 0.90, 0, 0, 100, 50),
		det(ClassProcess, 0.25, 0, 100, 100, 150), // exactly at the floor, kept
		det(ClassProcess, 0.24, 0, 200, 100, 250), // below, dropped
		det(ClassArrow, 0.10, 0, 300, 10, 400),
	}

	set := Normalize(dets, DefaultNormalizeOptions())

	if len(set.Shapes) != 2 {
		t.Errorf("got %d shapes, want 2", len(set.Shapes))
	}
	if len(set.Arrows) != 0 {
		t.Errorf("got %d arrows, want 0", len(set.Arrows))
	}
	if set.Discarded != 2 {
		t.Errorf("Discarded = %d, want 2", set.Discarded)
	}
}

func TestNormalizeSuppressesDuplicates(t *testing.T) {
	// Two near-identical process boxes plus a third that only slightly
	// overlaps the winner.
	dets := []Detection{
		det(ClassProcess, 0.70, 100, 100, 200, 160),
		det(ClassProcess, 0.90, 102, 101, 202, 161),
		det(ClassProcess, 0.80, 190, 100, 290, 160),
	}

	set := Normalize(dets, DefaultNormalizeOptions())

	if len(set.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(set.Shapes))
	}
	// The 0.90 detection wins its cluster; the 0.80 box overlaps it
	// too little to be suppressed. Raster order puts the 0.80 box
	// first because its top edge is one pixel higher.
	if set.Shapes[0].Confidence != 0.80 {
		t.Errorf("first shape confidence = %v, want 0.80", set.Shapes[0].Confidence)
	}
	if set.Shapes[1].Confidence != 0.90 {
		t.Errorf("second shape confidence = %v, want 0.90", set.Shapes[1].Confidence)
	}
	if set.Discarded != 1 {
		t.Errorf("Discarded = %d, want 1", set.Discarded)
	}
}

func TestNormalizeKeepsOverlapAcrossClasses(t *testing.T) {
	dets := []Detection{
		det(ClassProcess, 0.90, 100, 100, 200, 160),
		det(ClassDecision, 0.60, 100, 100, 200, 160),
	}

	set := Normalize(dets, DefaultNormalizeOptions())

	if len(set.Shapes) != 2 {
		t.Errorf("got %d shapes, want 2; same box in different classes is not a duplicate", len(set.Shapes))
	}
}

func TestNormalizePartitions(t *testing.T) {
	dets := []Detection{
		det(ClassArrow, 0.80, 195, 100, 205, 180),
		det(ClassTerminal, 0.95, 100, 40, 300, 100),
		det(ClassArrowhead, 0.70, 193, 170, 207, 184),
		det(ClassProcess, 0.90, 100, 180, 300, 240),
	}

	set := Normalize(dets, DefaultNormalizeOptions())

	if len(set.Shapes) != 2 || len(set.Arrows) != 1 || len(set.Arrowheads) != 1 {
		t.Fatalf("partition = %d/%d/%d shapes/arrows/arrowheads, want 2/1/1",
			len(set.Shapes), len(set.Arrows), len(set.Arrowheads))
	}
	// Shapes come back in raster order, not input order.
	if set.Shapes[0].Class != ClassTerminal || set.Shapes[1].Class != ClassProcess {
		t.Errorf("shapes out of raster order: %v, %v", set.Shapes[0].Class, set.Shapes[1].Class)
	}
}

func TestNormalizeOrderIndependent(t *testing.T) {
	dets := []Detection{
		det(ClassProcess, 0.70, 100, 100, 200, 160),
		det(ClassProcess, 0.90, 102, 101, 202, 161),
		det(ClassDecision, 0.85, 400, 100, 520, 220),
		det(ClassArrow, 0.60, 250, 120, 380, 140),
		det(ClassArrow, 0.64, 251, 121, 381, 141),
		det(ClassArrowhead, 0.55, 370, 118, 386, 142),
	}

	permuted := []Detection{dets[5], dets[2], dets[0], dets[4], dets[1], dets[3]}

	a := Normalize(dets, DefaultNormalizeOptions())
	b := Normalize(permuted, DefaultNormalizeOptions())

	if !reflect.DeepEqual(a, b) {
		t.Errorf("Normalize is order-dependent:\n  forward:  %+v\n  permuted: %+v", a, b)
	}
}

func TestNormalizeZeroThresholdKeepsDisjoint(t *testing.T) {
	dets := []Detection{
		det(ClassProcess, 0.90, 0, 0, 100, 50),
		det(ClassProcess, 0.80, 500, 500, 600, 550),
	}

	set := Normalize(dets, NormalizeOptions{MinConfidence: 0, IoUThreshold: 0})

	if len(set.Shapes) != 2 {
		t.Errorf("got %d shapes, want 2; disjoint boxes must never be suppressed", len(set.Shapes))
	}
}
