package harness

import (
	"fmt"
	"slices"

	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/ir"
)

// AssertionError describes one failed assertion.
type AssertionError struct {
	Index    int
	Type     string
	Staff    *int
	Expected any
	Actual   any
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	if e.Staff != nil {
		return fmt.Sprintf("assertion %d (%s) failed on staff %d: expected %v, got %v",
			e.Index, e.Type, *e.Staff, e.Expected, e.Actual)
	}
	return fmt.Sprintf("assertion %d (%s) failed: expected %v, got %v",
		e.Index, e.Type, e.Expected, e.Actual)
}

// evaluateAssertion checks one assertion against the engine result.
// It returns nil when the assertion holds.
func evaluateAssertion(index int, a Assertion, r *engine.Result) error {
	staff := a.Staff
	fail := func(staff *int, expected, actual any) error {
		return &AssertionError{Index: index, Type: a.Type, Staff: staff, Expected: expected, Actual: actual}
	}

	switch a.Type {
	case AssertFailed:
		if !r.Failed() {
			return fail(nil, "failed page", "page processed")
		}
		return nil

	case AssertKeyCase:
		if string(r.KeyCase) != a.Value {
			return fail(nil, a.Value, string(r.KeyCase))
		}
		return nil

	case AssertDiagnosticCount:
		if got := r.Count(a.Code); got != a.Count {
			return fail(nil, fmt.Sprintf("%d %s", a.Count, a.Code), got)
		}
		return nil
	}

	part, ok := findPart(r.Parts, a.Staff)
	if !ok {
		return fail(&staff, "staff present", "no such staff")
	}

	switch a.Type {
	case AssertPitches:
		got := chordPitches(part)
		if !slices.EqualFunc(got, a.Pitches, slices.Equal[[]int]) {
			return fail(&staff, a.Pitches, got)
		}
	case AssertClef:
		if string(part.Clef) != a.Clef {
			return fail(&staff, a.Clef, string(part.Clef))
		}
	case AssertKeySignature:
		if part.KeySignature != a.Key {
			return fail(&staff, a.Key, part.KeySignature)
		}
	case AssertChords:
		if got := len(part.Chords()); got != a.Count {
			return fail(&staff, a.Count, got)
		}
	default:
		return fmt.Errorf("assertion %d: unknown type %q", index, a.Type)
	}
	return nil
}

func findPart(parts []ir.ScorePart, staff int) (ir.ScorePart, bool) {
	for _, p := range parts {
		if p.StaffIndex == staff {
			return p, true
		}
	}
	return ir.ScorePart{}, false
}

// chordPitches returns each chord's pitches, low to high.
func chordPitches(part ir.ScorePart) [][]int {
	chords := part.Chords()
	out := make([][]int, 0, len(chords))
	for _, c := range chords {
		pitches := make([]int, len(c.Notes))
		for i, n := range c.Notes {
			pitches[i] = n.Pitch
		}
		slices.Sort(pitches)
		out = append(out, pitches)
	}
	return out
}
