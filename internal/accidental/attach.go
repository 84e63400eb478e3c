package accidental

import (
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// Attach records each pair's accidental on its note. A note keeps the
// first pair that names it. Pitches are not changed: the accidental is
// carried alongside the pitch for the notation writer.
func Attach(notes []ir.LabeledNote, pairs []Pair) []ir.LabeledNote {
	out := slices.Clone(notes)
	index := make(map[string]int, len(out))
	for i, n := range out {
		index[n.ID] = i
	}
	for _, p := range pairs {
		i, ok := index[p.NoteID]
		if !ok || out[i].AccidentalID != "" {
			continue
		}
		out[i].Accidental = p.Kind
		out[i].AccidentalID = p.AccidentalID
	}
	return out
}
