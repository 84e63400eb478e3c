package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/roach88/notemap/internal/chord"
	"github.com/roach88/notemap/internal/engine"
)

// renderReport writes a report with one line per staff.
func renderReport(w io.Writer, r engine.Report) {
	fmt.Fprintf(w, "%s %s (%s)\n", statusMark(!reportFailed(r)), r.Page, shortHash(r.Hash))
	if r.KeyCase != "" {
		fmt.Fprintf(w, "  key case: %s\n", r.KeyCase)
	}
	for _, part := range r.Score {
		clef := part.Clef
		if clef == "" {
			clef = "-"
		}
		fmt.Fprintf(w, "  staff %d [%s, key %+d]: %s\n",
			part.StaffIndex, clef, part.KeySignature, renderRecords(part.Notes))
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "  %s\n", formatDiagnostic(d))
	}
	fmt.Fprintf(w, "  %d notes, %d chords, %d diagnostics\n",
		r.Stats.Notes, r.Stats.Chords, len(r.Diagnostics))
}

func renderRecords(records []chord.Record) string {
	if len(records) == 0 {
		return "(empty)"
	}
	parts := make([]string, len(records))
	for i, rec := range records {
		switch {
		case rec.Rest != "":
			parts[i] = "rest:" + rec.Rest
		case rec.ClefChange != "":
			parts[i] = "|" + rec.ClefChange
		default:
			s := fmt.Sprint(rec.Pitch)
			if rec.Acc != nil {
				s += ":" + formatAcc(rec.Acc)
			}
			parts[i] = s
		}
	}
	return strings.Join(parts, " ")
}

func formatAcc(acc any) string {
	list, ok := acc.([]any)
	if !ok {
		return fmt.Sprint(acc)
	}
	out := make([]string, len(list))
	for i, a := range list {
		if a == nil {
			out[i] = "-"
		} else {
			out[i] = fmt.Sprint(a)
		}
	}
	return "[" + strings.Join(out, " ") + "]"
}

func formatDiagnostic(d engine.Diagnostic) string {
	s := fmt.Sprintf("%s: %s", d.Code, d.Message)
	switch {
	case d.DetectionID != "" && d.Staff != nil:
		s += fmt.Sprintf(" (detection=%s, staff=%d)", d.DetectionID, *d.Staff)
	case d.DetectionID != "":
		s += fmt.Sprintf(" (detection=%s)", d.DetectionID)
	case d.Staff != nil:
		s += fmt.Sprintf(" (staff=%d)", *d.Staff)
	}
	return s
}

func reportFailed(r engine.Report) bool {
	for _, d := range r.Diagnostics {
		if d.Code.Fatal() {
			return true
		}
	}
	return false
}

func statusMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// shortHash truncates a hash for display.
func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
