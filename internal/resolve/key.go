package resolve

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/roach88/notemap/internal/ir"
)

// KeyCase names the rule that decided the page's key signatures.
type KeyCase string

const (
	// KeyCaseNone: the page has no key signatures; every key is 0.
	KeyCaseNone KeyCase = "none"
	// KeyCaseUniform: every key signature agrees.
	KeyCaseUniform KeyCase = "uniform"
	// KeyCaseNearUniform: a majority at or above the ratio agrees.
	KeyCaseNearUniform KeyCase = "near_uniform"
	// KeyCasePerStaff: key signatures are resolved per note.
	KeyCasePerStaff KeyCase = "per_staff"
)

// KeyResult is the outcome of the key pass.
type KeyResult struct {
	// Notes are the input notes with Key set and Pitch adjusted, in input
	// order.
	Notes []ir.LabeledNote

	// Case is the rule that decided the keys.
	Case KeyCase

	// Assignments lists the default-key transitions in staff order.
	Assignments []ir.KeySignatureAssignment

	// Defaults maps staff index to its default key.
	Defaults map[int]int

	Diagnostics []*ir.Error
}

// Keys resolves the key signature of every note and applies it.
//
// Signatures are located by their clef. Values outside [-6, 6] raise
// INVALID_KEY_SIGNATURE and leave the affected pitches untouched.
func Keys(notes []ir.LabeledNote, sigs []ir.KeySignature, opts Options) KeyResult {
	res := KeyResult{
		Notes:    slices.Clone(notes),
		Defaults: make(map[int]int),
	}

	sorted := slices.Clone(sigs)
	slices.SortStableFunc(sorted, func(a, b ir.KeySignature) int {
		return cmp.Or(
			cmp.Compare(a.Clef.Box.TopLeft.Y, b.Clef.Box.TopLeft.Y),
			cmp.Compare(a.Clef.Box.TopLeft.X, b.Clef.Box.TopLeft.X),
			cmp.Compare(a.Clef.ID, b.Clef.ID),
		)
	})

	order, ranges := staffRanges(notes)

	if len(sorted) == 0 {
		res.Case = KeyCaseNone
		res.pageWide(order, 0)
		return res
	}

	value, count := majority(sorted)
	switch {
	case count == len(sorted):
		res.Case = KeyCaseUniform
		res.pageWide(order, value)
	case float64(count) >= opts.NearUniformRatio*float64(len(sorted)):
		res.Case = KeyCaseNearUniform
		res.Diagnostics = append(res.Diagnostics, ir.Errorf(ir.CodeNearUniformKey,
			"%d of %d key signatures read %d; assuming a missed accidental in the rest",
			count, len(sorted), value))
		res.pageWide(order, value)
	default:
		res.Case = KeyCasePerStaff
		res.perStaff(sorted, order, ranges, opts)
	}
	return res
}

// majority returns the most frequent key value and its count. Ties keep
// the value seen first.
func majority(sigs []ir.KeySignature) (value, count int) {
	var values []int
	var counts []float64
	for _, s := range sigs {
		if i := slices.Index(values, s.Key); i >= 0 {
			counts[i]++
			continue
		}
		values = append(values, s.Key)
		counts = append(counts, 1)
	}
	i := floats.MaxIdx(counts)
	return values[i], int(counts[i])
}

// pageWide gives every note the same key and shifts its pitch the same way
// the per-staff scan does.
func (r *KeyResult) pageWide(staves []int, key int) {
	if _, err := AffectedSteps(key); err != nil {
		r.Diagnostics = append(r.Diagnostics, asError(err))
		for i := range r.Notes {
			r.Notes[i].Flags |= ir.FlagInvalidKey
		}
		return
	}
	for i := range r.Notes {
		r.Notes[i].Key = key
		r.Notes[i].Pitch, _ = ApplyKey(r.Notes[i].Pitch, key)
	}
	for _, staff := range staves {
		r.Defaults[staff] = key
	}
	if len(staves) > 0 {
		r.Assignments = append(r.Assignments, ir.KeySignatureAssignment{
			Index: 0,
			Staff: staves[0],
			Key:   key,
		})
	}
}

func (r *KeyResult) perStaff(sigs []ir.KeySignature, staves []int, ranges map[int]ir.StaffRange, opts Options) {
	anchors := make([]ir.Detection, len(sigs))
	byID := make(map[string]int, len(sigs))
	for i, s := range sigs {
		anchors[i] = s.Clef
		byID[s.Clef.ID] = s.Key
	}

	for i := range r.Notes {
		n := &r.Notes[i]
		b := bandOf(n.Range, opts.BandTolerance)
		x := n.Box.CenterInt().X

		anchor, ok := nearestBefore(candidates(anchors, b, x), x, false)
		if !ok {
			continue
		}
		key := byID[anchor.ID]
		pitch, err := ApplyKey(n.Pitch, key)
		if err != nil {
			n.Flags |= ir.FlagInvalidKey
			e := asError(err)
			e.DetectionID = n.ID
			e.Staff = n.Staff
			r.Diagnostics = append(r.Diagnostics, e)
			continue
		}
		n.Key = key
		n.Pitch = pitch
	}

	last := 0
	for _, staff := range staves {
		def, ok := leftmost(anchors, bandOf(ranges[staff], opts.BandTolerance))
		if !ok {
			continue
		}
		key := byID[def.ID]
		r.Defaults[staff] = key
		if len(r.Assignments) == 0 || key != last {
			d := def
			r.Assignments = append(r.Assignments, ir.KeySignatureAssignment{
				Index:     len(r.Assignments),
				Staff:     staff,
				Key:       key,
				Detection: &d,
			})
			last = key
		}
	}
}

func asError(err error) *ir.Error {
	if e, ok := err.(*ir.Error); ok {
		cp := *e
		return &cp
	}
	return ir.Errorf(ir.CodeInvalidKeySignature, "%v", err)
}
