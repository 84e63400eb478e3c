package resolve

import (
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// ClefResult is the outcome of the clef pass.
type ClefResult struct {
	// Notes are the input notes with Clef set and Pitch shifted, in input
	// order.
	Notes []ir.LabeledNote

	// Assignments lists the default-clef transitions in staff order.
	Assignments []ir.ClefAssignment

	// Defaults maps staff index to its default clef.
	Defaults map[int]ir.ClefKind

	Diagnostics []*ir.Error
}

// Clefs resolves the governing clef of every note.
//
// The governing clef is the nearest in-band clef strictly left of the note.
// A note without one keeps its pitch and is flagged MISSING_CLEF. A staff's
// default clef is its leftmost in-band clef; an assignment is recorded each
// time a staff's default kind differs from the last recorded one.
func Clefs(notes []ir.LabeledNote, clefs []ir.Detection, opts Options) ClefResult {
	res := ClefResult{
		Notes:    slices.Clone(notes),
		Defaults: make(map[int]ir.ClefKind),
	}

	for i := range res.Notes {
		n := &res.Notes[i]
		b := bandOf(n.Range, opts.BandTolerance)
		x := n.Box.CenterInt().X

		clef, ok := nearestBefore(candidates(clefs, b, x), x, true)
		if !ok {
			n.Flags |= ir.FlagMissingClef
			res.Diagnostics = append(res.Diagnostics, &ir.Error{
				Code:        ir.CodeMissingClef,
				Message:     "no clef precedes the note on its staff",
				DetectionID: n.ID,
				Staff:       n.Staff,
			})
			continue
		}
		n.Clef = clef.Class.Clef
		n.Pitch += n.Clef.Offset()
	}

	order, ranges := staffRanges(notes)
	var last ir.ClefKind
	for _, staff := range order {
		def, ok := leftmost(clefs, bandOf(ranges[staff], opts.BandTolerance))
		if !ok {
			continue
		}
		res.Defaults[staff] = def.Class.Clef
		if def.Class.Clef != last {
			res.Assignments = append(res.Assignments, ir.ClefAssignment{
				Index:     len(res.Assignments),
				Staff:     staff,
				Detection: def,
			})
			last = def.Class.Clef
		}
	}
	return res
}
