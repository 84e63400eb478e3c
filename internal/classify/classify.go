package classify

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/notemap/internal/ir"
)

// Result holds the classified detections of one page, split by category
// and kept in input order.
type Result struct {
	Notes       []ir.Detection
	Clefs       []ir.Detection
	Accidentals []ir.Detection
	Rests       []ir.Detection

	byID map[string]ir.Detection
}

// Lookup returns the detection with the given ID.
func (r *Result) Lookup(id string) (ir.Detection, bool) {
	d, ok := r.byID[id]
	return d, ok
}

// Len returns the number of accepted detections.
func (r *Result) Len() int { return len(r.byID) }

// NormalizeTag returns the canonical form of a class tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(tag)))
}

// KindOf returns the kind part of a class tag, without its variant suffix.
func KindOf(tag string) string {
	kind, _, _ := strings.Cut(NormalizeTag(tag), "_")
	return kind
}

// Classify converts raw detections into typed detections.
//
// Rejected detections are reported in the returned diagnostics; the Result
// only holds accepted ones.
func Classify(raw []ir.RawDetection, gen IDGenerator) (*Result, []*ir.Error) {
	res := &Result{byID: make(map[string]ir.Detection, len(raw))}
	var diags []*ir.Error

	seen := make(map[ir.Box]string, len(raw))
	for i, r := range raw {
		kind := KindOf(r.Tag)
		class, ok := ir.ClassOf(kind)
		if !ok {
			diags = append(diags, ir.Errorf(ir.CodeUnknownTag,
				"detection %d: unknown class tag %q", i, r.Tag))
			continue
		}

		box := ir.NewBox(r.TopLeft, r.BottomRight)
		if prev, dup := seen[box]; dup {
			diags = append(diags, ir.DetectionErrorf(ir.CodeDuplicateLocation, prev,
				"detection %d (%s) repeats the box of an earlier detection", i, r.Tag))
			continue
		}

		d := ir.Detection{
			ID:         gen.Generate(),
			Box:        box,
			Confidence: r.Confidence,
			Class:      class,
		}
		seen[box] = d.ID
		res.byID[d.ID] = d

		switch class.Category {
		case ir.CategoryNote:
			res.Notes = append(res.Notes, d)
		case ir.CategoryClef:
			res.Clefs = append(res.Clefs, d)
		case ir.CategoryAccidental:
			res.Accidentals = append(res.Accidentals, d)
		case ir.CategoryRest:
			res.Rests = append(res.Rests, d)
		}
	}
	return res, diags
}
