package detect

import (
	"encoding/json"
	"testing"
)

func TestParseClass(t *testing.T) {
	tests := []struct {
		input   string
		want    Class
		wantErr bool
	}{
		{"process", ClassProcess, false},
		{"decision", ClassDecision, false},
		{"terminal", ClassTerminal, false},
		{"input", ClassInput, false},
		{"output", ClassOutput, false},
		{"arrow", ClassArrow, false},
		{"arrowhead", ClassArrowhead, false},
		{"Process", ClassProcess, false},
		{"  DECISION  ", ClassDecision, false},
		{"start_end", ClassTerminal, false},
		{"scan", ClassInput, false},
		{"arrow_up", ClassArrow, false},
		{"arrow_down", ClassArrow, false},
		{"arrow_left", ClassArrow, false},
		{"arrow_right", ClassArrow, false},
		{"head", ClassArrowhead, false},
		{"rectangle", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClass(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseClass(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseClass(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClass(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestClassIsShape(t *testing.T) {
	shapes := []Class{ClassProcess, ClassDecision, ClassTerminal, ClassInput, ClassOutput}
	for _, c := range shapes {
		if !c.IsShape() {
			t.Errorf("%v.IsShape() = false, want true", c)
		}
	}
	for _, c := range []Class{ClassArrow, ClassArrowhead} {
		if c.IsShape() {
			t.Errorf("%v.IsShape() = true, want false", c)
		}
	}
}

func TestClassJSONRoundTrip(t *testing.T) {
	for c := ClassProcess; c <= ClassArrowhead; c++ {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("Marshal(%v) failed: %v", c, err)
		}

		var back Class
		if err := json.Unmarshal(data, &back); err != nil {
			t.Fatalf("Unmarshal(%s) failed: %v", data, err)
		}
		if back != c {
			t.Errorf("round trip of %v = %v", c, back)
		}
	}
}

func TestClassUnmarshalRejectsUnknown(t *testing.T) {
	var c Class
	if err := json.Unmarshal([]byte(`"blob"`), &c); err == nil {
		t.Error("expected error for unknown class name, got nil")
	}
	if err := json.Unmarshal([]byte(`3`), &c); err == nil {
		t.Error("expected error for numeric class, got nil")
	}
}
