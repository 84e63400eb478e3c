package ir

import "fmt"

// Category is the broad class of a detection.
type Category int

const (
	CategoryNote Category = iota
	CategoryClef
	CategoryAccidental
	CategoryRest
)

func (c Category) String() string {
	switch c {
	case CategoryNote:
		return "note"
	case CategoryClef:
		return "clef"
	case CategoryAccidental:
		return "accidental"
	case CategoryRest:
		return "rest"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// NoteKind is the notehead shape, which fixes the note duration.
type NoteKind string

const (
	NoteFilled NoteKind = "f"
	NoteOpen   NoteKind = "o"
)

// ClefKind identifies a clef glyph.
type ClefKind string

const (
	ClefTreble ClefKind = "cg"
	ClefBass   ClefKind = "cf"
)

// AccidentalKind identifies an accidental glyph.
type AccidentalKind string

const (
	Sharp   AccidentalKind = "as"
	Natural AccidentalKind = "an"
	Flat    AccidentalKind = "ab"
)

// RestKind identifies a rest glyph.
type RestKind string

const (
	RestQuaver     RestKind = "rq"
	RestSemiquaver RestKind = "rs"
)

type noteInfo struct {
	typeName string
	duration float64
}

var noteTable = map[NoteKind]noteInfo{
	NoteFilled: {typeName: "note", duration: 0.5},
	NoteOpen:   {typeName: "note_whole", duration: 4},
}

var clefOffsets = map[ClefKind]int{
	ClefTreble: 0,
	ClefBass:   -21,
}

var accidentalSigns = map[AccidentalKind]int{
	Sharp:   1,
	Natural: 0,
	Flat:    -1,
}

var restDurations = map[RestKind]float64{
	RestQuaver:     0.5,
	RestSemiquaver: 0.25,
}

// Valid reports whether k is a known note kind.
func (k NoteKind) Valid() bool { _, ok := noteTable[k]; return ok }

// TypeName is the note type written to the score document.
func (k NoteKind) TypeName() string { return noteTable[k].typeName }

// Duration is the note length in quarter notes.
func (k NoteKind) Duration() float64 { return noteTable[k].duration }

// Valid reports whether k is a known clef kind.
func (k ClefKind) Valid() bool { _, ok := clefOffsets[k]; return ok }

// Offset is the pitch offset the clef applies to treble-equivalent values.
func (k ClefKind) Offset() int { return clefOffsets[k] }

// Valid reports whether k is a known accidental kind.
func (k AccidentalKind) Valid() bool { _, ok := accidentalSigns[k]; return ok }

// Sign is +1 for sharps, -1 for flats and 0 for naturals.
func (k AccidentalKind) Sign() int { return accidentalSigns[k] }

// Valid reports whether k is a known rest kind.
func (k RestKind) Valid() bool { _, ok := restDurations[k]; return ok }

// Duration is the rest length in quarter notes.
func (k RestKind) Duration() float64 { return restDurations[k] }

// Class is the typed classification of a detection. Exactly one kind field
// is set, matching Category.
type Class struct {
	Category   Category
	Note       NoteKind
	Clef       ClefKind
	Accidental AccidentalKind
	Rest       RestKind
}

// Kind returns the short kind code of the class.
func (c Class) Kind() string {
	switch c.Category {
	case CategoryNote:
		return string(c.Note)
	case CategoryClef:
		return string(c.Clef)
	case CategoryAccidental:
		return string(c.Accidental)
	case CategoryRest:
		return string(c.Rest)
	default:
		return ""
	}
}

func (c Class) String() string { return c.Category.String() + "(" + c.Kind() + ")" }

// ClassOf resolves a kind code against the closed kind tables.
func ClassOf(kind string) (Class, bool) {
	switch {
	case NoteKind(kind).Valid():
		return Class{Category: CategoryNote, Note: NoteKind(kind)}, true
	case ClefKind(kind).Valid():
		return Class{Category: CategoryClef, Clef: ClefKind(kind)}, true
	case AccidentalKind(kind).Valid():
		return Class{Category: CategoryAccidental, Accidental: AccidentalKind(kind)}, true
	case RestKind(kind).Valid():
		return Class{Category: CategoryRest, Rest: RestKind(kind)}, true
	default:
		return Class{}, false
	}
}
