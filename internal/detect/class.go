package detect

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Class identifies what kind of visual primitive a detector region is.
//
// Shape classes become graph nodes; ClassArrow regions become edge
// candidates; ClassArrowhead regions only disambiguate arrow direction
// and never appear in the graph themselves.
type Class int

const (
	// ClassProcess is a rectangular action step.
	ClassProcess Class = iota

	// ClassDecision is a diamond with two or more outgoing branches.
	ClassDecision

	// ClassTerminal is a start or end capsule.
	ClassTerminal

	// ClassInput is a data-entry parallelogram.
	ClassInput

	// ClassOutput is a data-display parallelogram.
	ClassOutput

	// ClassArrow is a connector region linking two shapes.
	ClassArrow

	// ClassArrowhead is the tip marker of an arrow, used only to decide
	// which end of the arrow is the head.
	ClassArrowhead
)

var classNames = map[Class]string{
	ClassProcess:   "process",
	ClassDecision:  "decision",
	ClassTerminal:  "terminal",
	ClassInput:     "input",
	ClassOutput:    "output",
	ClassArrow:     "arrow",
	ClassArrowhead: "arrowhead",
}

// classAliases maps detector vocabularies that encode direction or
// legacy names onto the canonical classes. Directional arrow classes
// collapse to ClassArrow: direction is derived from geometry and
// arrowheads downstream, never taken from the detector label.
var classAliases = map[string]Class{
	"start_end":   ClassTerminal,
	"startend":    ClassTerminal,
	"scan":        ClassInput,
	"arrow_up":    ClassArrow,
	"arrow_down":  ClassArrow,
	"arrow_left":  ClassArrow,
	"arrow_right": ClassArrow,
	"head":        ClassArrowhead,
}

// String returns the canonical lowercase name of the class.
func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return fmt.Sprintf("class(%d)", int(c))
}

// IsShape reports whether detections of this class become graph nodes.
func (c Class) IsShape() bool {
	switch c {
	case ClassProcess, ClassDecision, ClassTerminal, ClassInput, ClassOutput:
		return true
	}
	return false
}

// ParseClass resolves a detector class label to a Class. Matching is
// case-insensitive and accepts the alias vocabulary of common flowchart
// detectors alongside the canonical names.
func ParseClass(s string) (Class, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for c, name := range classNames {
		if key == name {
			return c, nil
		}
	}
	if c, ok := classAliases[key]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown detection class %q", s)
}

// MarshalJSON encodes the class as its canonical name.
func (c Class) MarshalJSON() ([]byte, error) {
	name, ok := classNames[c]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unknown class %d", int(c))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes a class from its name or an accepted alias.
func (c *Class) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("class must be a string: %w", err)
	}
	parsed, err := ParseClass(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
