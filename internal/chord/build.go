package chord

import (
	"cmp"
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// Staff describes one staff's declared defaults.
type Staff struct {
	Index int
	Range ir.StaffRange
	Clef  ir.ClefKind
	Key   int
}

// Build assembles one part per staff, in the order given.
func Build(staves []Staff, notes []ir.LabeledNote, rests []ir.Rest, tolerance float64) []ir.ScorePart {
	notesBy := make(map[int][]ir.LabeledNote)
	for _, n := range notes {
		notesBy[n.Staff] = append(notesBy[n.Staff], n)
	}
	restsBy := make(map[int][]ir.Rest)
	for _, r := range rests {
		restsBy[r.Staff] = append(restsBy[r.Staff], r)
	}

	parts := make([]ir.ScorePart, 0, len(staves))
	for _, s := range staves {
		parts = append(parts, ir.ScorePart{
			StaffIndex:   s.Index,
			Range:        s.Range,
			Clef:         s.Clef,
			KeySignature: s.Key,
			Entries:      entries(s.Clef, Group(notesBy[s.Index], tolerance), restsBy[s.Index]),
		})
	}
	return parts
}

// entries interleaves chords and rests by x. A clef-change marker precedes
// a chord whose clef differs from both the staff default and the previous
// chord's clef, so a return to the default clef carries no marker.
func entries(defaultClef ir.ClefKind, chords []ir.Chord, rests []ir.Rest) []ir.Entry {
	rests = slices.Clone(rests)
	slices.SortStableFunc(rests, func(a, b ir.Rest) int {
		return cmp.Compare(a.Box.CenterX(), b.Box.CenterX())
	})

	var out []ir.Entry
	prev := defaultClef
	r := 0
	for i := range chords {
		c := &chords[i]
		for r < len(rests) && rests[r].Box.CenterX() < c.CenterX() {
			out = append(out, ir.Entry{Rest: &rests[r]})
			r++
		}
		if clef := c.Clef(); clef != "" {
			if clef != defaultClef && clef != prev {
				out = append(out, ir.Entry{ClefChange: clef})
			}
			prev = clef
		}
		out = append(out, ir.Entry{Chord: c})
	}
	for ; r < len(rests); r++ {
		out = append(out, ir.Entry{Rest: &rests[r]})
	}
	return out
}
