package ir

// Chord is a set of notes sharing one onset, ordered from the lowest to the
// highest staff position.
type Chord struct {
	Notes []LabeledNote
}

// Clef returns the clef of the chord's leftmost note.
func (c Chord) Clef() ClefKind { return c.anchor().Clef }

// Key returns the key signature of the chord's leftmost note.
func (c Chord) Key() int { return c.anchor().Key }

// CenterX returns the horizontal center of the chord's leftmost note.
func (c Chord) CenterX() float64 { return c.anchor().Box.CenterX() }

func (c Chord) anchor() LabeledNote {
	best := c.Notes[0]
	for _, n := range c.Notes[1:] {
		if n.Box.CenterX() < best.Box.CenterX() {
			best = n
		}
	}
	return best
}

// Rest is a rest detection placed on a staff.
type Rest struct {
	Detection
	Staff int
}

// Entry is one element of a staff sequence: a chord, a rest or a clef change.
type Entry struct {
	Chord      *Chord
	Rest       *Rest
	ClefChange ClefKind
}

// ScorePart is the reconstructed content of one staff.
type ScorePart struct {
	StaffIndex   int
	Range        StaffRange
	Clef         ClefKind
	KeySignature int
	Entries      []Entry
}

// Chords returns the chords of the part in order, skipping rests and markers.
func (p ScorePart) Chords() []Chord {
	var chords []Chord
	for _, e := range p.Entries {
		if e.Chord != nil {
			chords = append(chords, *e.Chord)
		}
	}
	return chords
}
