package geometry

import (
	"encoding/json"
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestNewBoxNormalizesCorners(t *testing.T) {
	b := NewBox(50, 80, 10, 20)
	want := Box{X1: 10, Y1: 20, X2: 50, Y2: 80}
	if b != want {
		t.Errorf("NewBox(50, 80, 10, 20) = %+v, want %+v", b, want)
	}
}

func TestBoxMeasurements(t *testing.T) {
	b := Box{X1: 10, Y1: 20, X2: 40, Y2: 60}

	if got := b.Width(); !almostEqual(got, 30) {
		t.Errorf("Width() = %v, want 30", got)
	}
	if got := b.Height(); !almostEqual(got, 40) {
		t.Errorf("Height() = %v, want 40", got)
	}
	if got := b.Area(); !almostEqual(got, 1200) {
		t.Errorf("Area() = %v, want 1200", got)
	}
	if got := b.Diagonal(); !almostEqual(got, 50) {
		t.Errorf("Diagonal() = %v, want 50", got)
	}
	if got := b.Center(); !almostEqual(got.X, 25) || !almostEqual(got.Y, 40) {
		t.Errorf("Center() = %+v, want (25, 40)", got)
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}

	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{X: 15, Y: 15}, true},
		{"corner", Point{X: 10, Y: 10}, true},
		{"edge", Point{X: 20, Y: 15}, true},
		{"outside x", Point{X: 20.1, Y: 15}, false},
		{"outside y", Point{X: 15, Y: 9.9}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxIoU(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want float64
	}{
		{
			name: "identical",
			a:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			want: 1,
		},
		{
			name: "disjoint",
			a:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    Box{X1: 20, Y1: 20, X2: 30, Y2: 30},
			want: 0,
		},
		{
			name: "half overlap",
			a:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    Box{X1: 5, Y1: 0, X2: 15, Y2: 10},
			want: 50.0 / 150.0,
		},
		{
			name: "touching edges",
			a:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			b:    Box{X1: 10, Y1: 0, X2: 20, Y2: 10},
			want: 0,
		},
		{
			name: "degenerate",
			a:    Box{X1: 5, Y1: 5, X2: 5, Y2: 5},
			b:    Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.IoU(tt.b); !almostEqual(got, tt.want) {
				t.Errorf("IoU = %v, want %v", got, tt.want)
			}
			// IoU is symmetric.
			if got := tt.b.IoU(tt.a); !almostEqual(got, tt.want) {
				t.Errorf("reversed IoU = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxExpandFrac(t *testing.T) {
	// A 30x40 box has a diagonal of 50, so a 0.1 fraction expands every
	// side by 5 pixels.
	b := Box{X1: 100, Y1: 100, X2: 130, Y2: 140}
	got := b.ExpandFrac(0.1)
	want := Box{X1: 95, Y1: 95, X2: 135, Y2: 145}

	if !almostEqual(got.X1, want.X1) || !almostEqual(got.Y1, want.Y1) ||
		!almostEqual(got.X2, want.X2) || !almostEqual(got.Y2, want.Y2) {
		t.Errorf("ExpandFrac(0.1) = %+v, want %+v", got, want)
	}
}

func TestBoxDistanceTo(t *testing.T) {
	b := Box{X1: 10, Y1: 10, X2: 20, Y2: 20}

	tests := []struct {
		name string
		p    Point
		want float64
	}{
		{"inside", Point{X: 15, Y: 15}, 0},
		{"on edge", Point{X: 10, Y: 15}, 0},
		{"left of box", Point{X: 7, Y: 15}, 3},
		{"above box", Point{X: 15, Y: 4}, 6},
		{"diagonal corner", Point{X: 7, Y: 6}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.DistanceTo(tt.p); !almostEqual(got, tt.want) {
				t.Errorf("DistanceTo(%+v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestBoxClampTo(t *testing.T) {
	bounds := Box{X1: 0, Y1: 0, X2: 100, Y2: 100}

	t.Run("partially outside", func(t *testing.T) {
		got := Box{X1: -10, Y1: 50, X2: 50, Y2: 150}.ClampTo(bounds)
		want := Box{X1: 0, Y1: 50, X2: 50, Y2: 100}
		if got != want {
			t.Errorf("ClampTo = %+v, want %+v", got, want)
		}
	})

	t.Run("fully outside becomes degenerate", func(t *testing.T) {
		got := Box{X1: 200, Y1: 200, X2: 300, Y2: 300}.ClampTo(bounds)
		if got.IsValid() {
			t.Errorf("ClampTo of disjoint box = %+v, want degenerate", got)
		}
	})
}

func TestRasterLess(t *testing.T) {
	tests := []struct {
		name string
		a, b Box
		want bool
	}{
		{
			name: "higher row first",
			a:    Box{X1: 50, Y1: 10, X2: 60, Y2: 20},
			b:    Box{X1: 0, Y1: 30, X2: 10, Y2: 40},
			want: true,
		},
		{
			name: "same row orders by x1",
			a:    Box{X1: 10, Y1: 10, X2: 20, Y2: 20},
			b:    Box{X1: 30, Y1: 10, X2: 40, Y2: 20},
			want: true,
		},
		{
			name: "same corner orders by x2",
			a:    Box{X1: 10, Y1: 10, X2: 20, Y2: 20},
			b:    Box{X1: 10, Y1: 10, X2: 25, Y2: 20},
			want: true,
		},
		{
			name: "identical boxes",
			a:    Box{X1: 10, Y1: 10, X2: 20, Y2: 20},
			b:    Box{X1: 10, Y1: 10, X2: 20, Y2: 20},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RasterLess(tt.a, tt.b); got != tt.want {
				t.Errorf("RasterLess = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxJSONRoundTrip(t *testing.T) {
	b := Box{X1: 1.5, Y1: 2, X2: 30, Y2: 42.25}

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != "[1.5,2,30,42.25]" {
		t.Errorf("Marshal = %s, want [1.5,2,30,42.25]", data)
	}

	var back Box
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if back != b {
		t.Errorf("round trip = %+v, want %+v", back, b)
	}
}

func TestBoxUnmarshalRejectsWrongShape(t *testing.T) {
	var b Box
	if err := json.Unmarshal([]byte(`{"x1": 0}`), &b); err == nil {
		t.Error("expected error for object-form box, got nil")
	}
	if err := json.Unmarshal([]byte(`[1, 2, 3]`), &b); err == nil {
		t.Error("expected error for three-element box, got nil")
	}
}

func TestExtent(t *testing.T) {
	boxes := []Box{
		{X1: 10, Y1: 20, X2: 30, Y2: 40},
		{X1: 5, Y1: 25, X2: 15, Y2: 60},
		{X1: 20, Y1: 10, X2: 50, Y2: 35},
	}
	got := Extent(boxes)
	want := Box{X1: 5, Y1: 10, X2: 50, Y2: 60}
	if got != want {
		t.Errorf("Extent = %+v, want %+v", got, want)
	}

	if got := Extent(nil); got != (Box{}) {
		t.Errorf("Extent(nil) = %+v, want zero box", got)
	}
}
