package chord

import (
	"cmp"
	"math"
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// DefaultTolerance is the largest horizontal center distance between two
// notes of one chord.
const DefaultTolerance = 10.0

// SameOnset reports whether b sounds together with a.
func SameOnset(a, b ir.LabeledNote, tolerance float64) bool {
	if math.Abs(a.Box.CenterX()-b.Box.CenterX()) <= tolerance {
		return true
	}
	return a.Box.OverlapsX(b.Box)
}

// Group splits one staff's notes into chords, left to right.
func Group(notes []ir.LabeledNote, tolerance float64) []ir.Chord {
	sorted := slices.Clone(notes)
	slices.SortFunc(sorted, func(a, b ir.LabeledNote) int {
		return cmp.Or(
			cmp.Compare(a.Box.CenterX(), b.Box.CenterX()),
			cmp.Compare(a.Box.CenterY(), b.Box.CenterY()),
			cmp.Compare(a.ID, b.ID),
		)
	})

	var chords []ir.Chord
	var current []ir.LabeledNote
	for _, n := range sorted {
		if len(current) > 0 && !SameOnset(current[len(current)-1], n, tolerance) {
			chords = append(chords, newChord(current))
			current = nil
		}
		current = append(current, n)
	}
	if len(current) > 0 {
		chords = append(chords, newChord(current))
	}
	return chords
}

// Regroup flattens chords and groups their notes again.
func Regroup(chords []ir.Chord, tolerance float64) []ir.Chord {
	var notes []ir.LabeledNote
	for _, c := range chords {
		notes = append(notes, c.Notes...)
	}
	return Group(notes, tolerance)
}

func newChord(notes []ir.LabeledNote) ir.Chord {
	ordered := slices.Clone(notes)
	slices.SortFunc(ordered, func(a, b ir.LabeledNote) int {
		return cmp.Or(
			cmp.Compare(a.Pitch, b.Pitch),
			cmp.Compare(b.Label.Index(), a.Label.Index()),
			cmp.Compare(a.ID, b.ID),
		)
	})
	return ir.Chord{Notes: ordered}
}
