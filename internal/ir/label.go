package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Step is a diatonic staff step. The order follows the staff from the top
// line of a treble staff downward.
type Step int

const (
	Fa Step = iota
	Mi
	Re
	Do
	Si
	La
	Sol
)

// StepCount is the length of the step cycle.
const StepCount = 7

var stepNames = [StepCount]string{"fa", "mi", "re", "do", "si", "la", "sol"}

// basePitch holds the MIDI value of each step in octave 0 (fa_0 is F5).
var basePitch = [StepCount]int{77, 76, 74, 72, 71, 69, 67}

func (s Step) String() string {
	if s < 0 || int(s) >= StepCount {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// ParseStep parses a step name.
func ParseStep(name string) (Step, error) {
	for i, n := range stepNames {
		if n == name {
			return Step(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step %q", name)
}

// Residue returns the pitch class (0-11) of the step.
func (s Step) Residue() int { return basePitch[s] % 12 }

// Label is a diatonic staff position independent of absolute pitch.
// Octave counts full step cycles; it grows downward.
type Label struct {
	Step   Step
	Octave int
}

// LabelAt maps a diatonic index to its label. Index 0 is fa_0; negative
// indexes wrap into negative octaves.
func LabelAt(index int) Label {
	return Label{
		Step:   Step(floorMod(index, StepCount)),
		Octave: floorDiv(index, StepCount),
	}
}

// Index returns the diatonic index of the label.
func (l Label) Index() int { return l.Octave*StepCount + int(l.Step) }

// Next returns the label one step further down.
func (l Label) Next() Label { return LabelAt(l.Index() + 1) }

// Prev returns the label one step further up.
func (l Label) Prev() Label { return LabelAt(l.Index() - 1) }

// Pitch returns the MIDI value of the label under a treble-equivalent clef.
func (l Label) Pitch() int { return basePitch[l.Step] - 12*l.Octave }

func (l Label) String() string { return fmt.Sprintf("%s_%d", l.Step, l.Octave) }

// ParseLabel parses the "<step>_<octave>" form. A bare step means octave 0.
func ParseLabel(s string) (Label, error) {
	name, octave, found := strings.Cut(s, "_")
	step, err := ParseStep(name)
	if err != nil {
		return Label{}, err
	}
	if !found {
		return Label{Step: step}, nil
	}
	n, err := strconv.Atoi(octave)
	if err != nil {
		return Label{}, fmt.Errorf("label %q: bad octave: %w", s, err)
	}
	return Label{Step: step, Octave: n}, nil
}

// MarshalText encodes the label in its "<step>_<octave>" form.
func (l Label) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText decodes the "<step>_<octave>" form.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
