package engine

import (
	"github.com/roach88/notemap/internal/accidental"
	"github.com/roach88/notemap/internal/chord"
	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/resolve"
)

// Result is everything the engine derived from one page.
type Result struct {
	Page string
	Hash string

	Parts []ir.ScorePart
	Score []chord.PartRecord

	ClefAssignments []ir.ClefAssignment
	KeyAssignments  []ir.KeySignatureAssignment
	KeySignatures   []ir.KeySignature
	KeyCase         resolve.KeyCase
	Pairs           []accidental.Pair

	Diagnostics []*ir.Error
	Stats       Stats
}

// Stats counts what each stage saw.
type Stats struct {
	Detections  int `json:"detections" yaml:"detections"`
	Staves      int `json:"staves" yaml:"staves"`
	Notes       int `json:"notes" yaml:"notes"`
	LedgerNotes int `json:"ledger_notes" yaml:"ledger_notes"`
	Unresolved  int `json:"unresolved" yaml:"unresolved"`
	Clefs       int `json:"clefs" yaml:"clefs"`
	Accidentals int `json:"accidentals" yaml:"accidentals"`
	Rests       int `json:"rests" yaml:"rests"`
	Chords      int `json:"chords" yaml:"chords"`
}

// Diagnostic is the serialized form of an ir.Error.
type Diagnostic struct {
	Code        ir.Code `json:"code" yaml:"code"`
	Message     string  `json:"message" yaml:"message"`
	DetectionID string  `json:"detection_id,omitempty" yaml:"detection_id,omitempty"`
	Staff       *int    `json:"staff,omitempty" yaml:"staff,omitempty"`
}

// Report is the document written for a processed page.
type Report struct {
	Page        string             `json:"page" yaml:"page"`
	Hash        string             `json:"hash" yaml:"hash"`
	KeyCase     resolve.KeyCase    `json:"key_case,omitempty" yaml:"key_case,omitempty"`
	Score       []chord.PartRecord `json:"score" yaml:"score"`
	Diagnostics []Diagnostic       `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Stats       Stats              `json:"stats" yaml:"stats"`
}

// Failed reports whether a fatal diagnostic stopped the page.
func (r *Result) Failed() bool {
	for _, d := range r.Diagnostics {
		if d.Code.Fatal() {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics with the given code.
func (r *Result) Count(code ir.Code) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

// Report converts the result to its document form.
func (r *Result) Report() Report {
	score := r.Score
	if score == nil {
		score = []chord.PartRecord{}
	}
	return Report{
		Page:        r.Page,
		Hash:        r.Hash,
		KeyCase:     r.KeyCase,
		Score:       score,
		Diagnostics: Diagnostics(r.Diagnostics),
		Stats:       r.Stats,
	}
}

// Diagnostics converts errors to their serialized form.
func Diagnostics(errs []*ir.Error) []Diagnostic {
	if len(errs) == 0 {
		return nil
	}
	out := make([]Diagnostic, len(errs))
	for i, e := range errs {
		out[i] = Diagnostic{Code: e.Code, Message: e.Message, DetectionID: e.DetectionID}
		if e.Staff >= 0 {
			staff := e.Staff
			out[i].Staff = &staff
		}
	}
	return out
}
