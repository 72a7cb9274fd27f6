package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
	"reflect"
	"strings"
	"testing"

	"github.com/chartwright/flowgraph/internal/detect"
	"github.com/chartwright/flowgraph/internal/export"
	"github.com/chartwright/flowgraph/internal/geometry"
	"github.com/chartwright/flowgraph/internal/graph"
)

// fakeReader returns scripted text per node id, failing where told to.
type fakeReader struct {
	texts map[int]string
	fail  map[int]bool
	calls []int
}

func (f *fakeReader) ReadRegion(_ context.Context, _ image.Image, h export.RegionHandle) (string, error) {
	f.calls = append(f.calls, h.NodeID)
	if f.fail[h.NodeID] {
		return "", fmt.Errorf("scripted failure for node %d", h.NodeID)
	}
	return f.texts[h.NodeID], nil
}

func regionHandles(ids ...int) []export.RegionHandle {
	handles := make([]export.RegionHandle, len(ids))
	for i, id := range ids {
		y := float64(id * 100)
		handles[i] = export.RegionHandle{
			NodeID: id,
			Box:    geometry.Box{X1: 0, Y1: y, X2: 80, Y2: y + 60},
		}
	}
	return handles
}

func labelGraph(t *testing.T, count int) *graph.Graph {
	t.Helper()
	shapes := make([]detect.Detection, count)
	for i := range shapes {
		y := float64(i * 100)
		shapes[i] = detect.Detection{
			Class:      detect.ClassProcess,
			Confidence: 0.9,
			Box:        geometry.Box{X1: 0, Y1: y, X2: 80, Y2: y + 60},
		}
	}
	nodes := graph.BuildNodes(shapes)
	g, _, err := graph.Assemble(nodes, nil, graph.DefaultAssembleOptions())
	if err != nil {
		t.Fatalf("assembling fixture graph: %v", err)
	}
	return g
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Start", "Start"},
		{"  Check value  ", "Check value"},
		{"\n Yes \n", "Yes"},
		{`The label reads "Start"`, "Start"},
		{`"A" or "B"`, "A"},
		{`""`, ""},
		{"line one\nline two", "line one\nline two"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadAll(t *testing.T) {
	reader := &fakeReader{texts: map[int]string{0: "Start", 1: "Check", 2: "End"}}

	texts, err := ReadAll(context.Background(), reader, nil, regionHandles(0, 1, 2))
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	want := map[int]string{0: "Start", 1: "Check", 2: "End"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("texts: got %v, want %v", texts, want)
	}
	if !reflect.DeepEqual(reader.calls, []int{0, 1, 2}) {
		t.Errorf("visit order: got %v, want [0 1 2]", reader.calls)
	}
}

func TestReadAllContinuesPastFailures(t *testing.T) {
	reader := &fakeReader{
		texts: map[int]string{0: "Start", 2: "End"},
		fail:  map[int]bool{1: true},
	}

	texts, err := ReadAll(context.Background(), reader, nil, regionHandles(0, 1, 2))
	if err == nil {
		t.Fatal("ReadAll should report the failed region")
	}
	if !strings.Contains(err.Error(), "node 1") {
		t.Errorf("error should name the failed node: %v", err)
	}
	want := map[int]string{0: "Start", 2: "End"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("texts: got %v, want %v", texts, want)
	}
}

func TestReadAllJoinsEveryFailure(t *testing.T) {
	reader := &fakeReader{fail: map[int]bool{0: true, 2: true}}

	_, err := ReadAll(context.Background(), reader, nil, regionHandles(0, 1, 2))
	if err == nil {
		t.Fatal("ReadAll should report the failed regions")
	}
	for _, frag := range []string{"node 0", "node 2"} {
		if !strings.Contains(err.Error(), frag) {
			t.Errorf("error should mention %q: %v", frag, err)
		}
	}
}

func TestReadAllCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reader := &fakeReader{texts: map[int]string{0: "Start"}}
	texts, err := ReadAll(ctx, reader, nil, regionHandles(0))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error: got %v, want context.Canceled", err)
	}
	if len(texts) != 0 {
		t.Errorf("canceled batch should read nothing, got %v", texts)
	}
	if len(reader.calls) != 0 {
		t.Errorf("canceled batch should not touch the reader, got calls %v", reader.calls)
	}
}

func TestMergeResults(t *testing.T) {
	g := labelGraph(t, 3)

	err := MergeResults(g, map[int]string{
		0: `"Start"`,
		1: "  Check value  ",
		2: "   ",
	})
	if err != nil {
		t.Fatalf("MergeResults failed: %v", err)
	}

	wantLabels := []string{"Start", "Check value", ""}
	for id, want := range wantLabels {
		node, ok := g.Node(id)
		if !ok {
			t.Fatalf("Node(%d): not found", id)
		}
		if node.Text != want {
			t.Errorf("node %d text: got %q, want %q", id, node.Text, want)
		}
	}
}

func TestMergeResultsBlankTextKeepsExistingLabel(t *testing.T) {
	g := labelGraph(t, 1)
	if err := g.MergeText(0, "Start"); err != nil {
		t.Fatalf("seeding label: %v", err)
	}

	if err := MergeResults(g, map[int]string{0: "  \n "}); err != nil {
		t.Fatalf("MergeResults failed: %v", err)
	}

	node, ok := g.Node(0)
	if !ok {
		t.Fatal("Node(0): not found")
	}
	if node.Text != "Start" {
		t.Errorf("blank recognition overwrote label: got %q, want %q", node.Text, "Start")
	}
}

func TestMergeResultsUnknownNode(t *testing.T) {
	g := labelGraph(t, 1)

	err := MergeResults(g, map[int]string{9: "Ghost"})
	if !errors.Is(err, graph.ErrNodeNotFound) {
		t.Fatalf("error: got %v, want ErrNodeNotFound", err)
	}
}
