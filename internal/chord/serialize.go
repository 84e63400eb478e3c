package chord

import (
	"github.com/roach88/notemap/internal/ir"
)

// PartRecord is the serialized form of a ScorePart.
type PartRecord struct {
	StaffIndex   int      `json:"staff_index" yaml:"staff_index"`
	Clef         string   `json:"clef,omitempty" yaml:"clef,omitempty"`
	KeySignature int      `json:"key_signature" yaml:"key_signature"`
	Notes        []Record `json:"notes" yaml:"notes"`
}

// Record is one serialized staff entry. Exactly one shape is populated:
// a chord (Pitch, Type, Duration, optional Acc), a clef change, or a rest
// (Rest, Duration). Pitch, Type, Duration and Acc hold a scalar for a
// single note and a list for a chord.
type Record struct {
	Pitch      any    `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Type       any    `json:"type,omitempty" yaml:"type,omitempty"`
	Duration   any    `json:"duration,omitempty" yaml:"duration,omitempty"`
	Acc        any    `json:"acc,omitempty" yaml:"acc,omitempty"`
	ClefChange string `json:"clef_change,omitempty" yaml:"clef_change,omitempty"`
	Rest       string `json:"rest,omitempty" yaml:"rest,omitempty"`
}

// Serialize converts parts into score records.
func Serialize(parts []ir.ScorePart) []PartRecord {
	out := make([]PartRecord, len(parts))
	for i, p := range parts {
		rec := PartRecord{
			StaffIndex:   p.StaffIndex,
			Clef:         string(p.Clef),
			KeySignature: p.KeySignature,
			Notes:        make([]Record, 0, len(p.Entries)),
		}
		for _, e := range p.Entries {
			switch {
			case e.Chord != nil:
				rec.Notes = append(rec.Notes, chordRecord(*e.Chord))
			case e.Rest != nil:
				rec.Notes = append(rec.Notes, Record{
					Rest:     string(e.Rest.Class.Rest),
					Duration: e.Rest.Class.Rest.Duration(),
				})
			default:
				rec.Notes = append(rec.Notes, Record{ClefChange: string(e.ClefChange)})
			}
		}
		out[i] = rec
	}
	return out
}

func chordRecord(c ir.Chord) Record {
	pitches := make([]any, len(c.Notes))
	durations := make([]any, len(c.Notes))
	accs := make([]any, len(c.Notes))
	hasAcc := false
	for i, n := range c.Notes {
		pitches[i] = n.Pitch
		durations[i] = n.Class.Note.Duration()
		if n.Accidental != "" {
			accs[i] = string(n.Accidental)
			hasAcc = true
		}
	}

	rec := Record{
		Pitch:    unwrap(pitches),
		Duration: unwrap(durations),
	}
	if len(c.Notes) > 1 {
		rec.Type = "chord"
	} else {
		rec.Type = c.Notes[0].Class.Note.TypeName()
	}
	if hasAcc {
		rec.Acc = unwrap(accs)
	}
	return rec
}

func unwrap(vs []any) any {
	if len(vs) == 1 {
		return vs[0]
	}
	return vs
}
