package ir

// RawDetection is a detection as delivered by the upstream detector.
// Tag has the form "<kind>_<variant>".
type RawDetection struct {
	TopLeft     Point   `json:"top_left"`
	BottomRight Point   `json:"bottom_right"`
	Confidence  float64 `json:"confidence"`
	Tag         string  `json:"tag"`
}

// Detection is a classified detection. Immutable once created; ID is the
// only identity used by later stages.
type Detection struct {
	ID         string  `json:"id"`
	Box        Box     `json:"box"`
	Confidence float64 `json:"confidence"`
	Class      Class   `json:"-"`
}

// NoteFlags records conditions raised while resolving a note.
type NoteFlags uint8

const (
	// FlagMissingClef marks a note with no governing clef.
	FlagMissingClef NoteFlags = 1 << iota
	// FlagInvalidKey marks a note whose key signature was rejected.
	FlagInvalidKey
	// FlagLedger marks a note labeled by ledger extrapolation.
	FlagLedger
)

// Has reports whether all bits of f are set.
func (n NoteFlags) Has(f NoteFlags) bool { return n&f == f }

// LabeledNote is a note detection placed on a staff. Created by the pitch
// labeler; later stages only fill Clef, Key, Pitch and Accidental.
type LabeledNote struct {
	Detection
	Label        Label          `json:"label"`
	Staff        int            `json:"staff"`
	Range        StaffRange     `json:"range"`
	Clef         ClefKind       `json:"clef,omitempty"`
	Key          int            `json:"key"`
	Pitch        int            `json:"pitch"`
	Accidental   AccidentalKind `json:"accidental,omitempty"`
	AccidentalID string         `json:"accidental_id,omitempty"`
	Flags        NoteFlags      `json:"flags,omitempty"`
}

// ClefAssignment marks the clef governing a staff from its start. Index
// increments only when the default clef changes between staves.
type ClefAssignment struct {
	Index     int       `json:"index"`
	Staff     int       `json:"staff"`
	Detection Detection `json:"detection"`
}

// KeySignatureAssignment marks the key signature governing a staff.
type KeySignatureAssignment struct {
	Index     int        `json:"index"`
	Staff     int        `json:"staff"`
	Key       int        `json:"key"`
	Detection *Detection `json:"detection,omitempty"`
}

// KeySignature is a group of accidentals attached to a clef. Key is the
// signed count: positive for sharps, negative for flats.
type KeySignature struct {
	Clef    Detection   `json:"clef"`
	Key     int         `json:"key"`
	Members []Detection `json:"members"`
}

// Page is one scanned page worth of upstream geometry.
type Page struct {
	Name       string
	Staves     [][]int
	Detections []RawDetection
	Centroids  []Point
}
