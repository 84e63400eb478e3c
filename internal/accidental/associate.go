package accidental

import (
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// maxKey bounds the number of accidentals in a key signature.
const maxKey = 6

// Options holds the associator thresholds, in pixels.
type Options struct {
	// GroupDistance merges accidentals whose anchors are closer than this.
	GroupDistance float64

	// MatchXLimit and MatchYThreshold bound the notes a group may match:
	// x in (group x max, group x max + MatchXLimit], y within
	// MatchYThreshold of the group's vertical span.
	MatchXLimit     int
	MatchYThreshold int

	// ClefXLimit and ClefYThreshold bound the clef a key-signature group
	// may attach to.
	ClefXLimit     int
	ClefYThreshold int

	// LeftoverXLimit and LeftoverYThreshold bound the note a single
	// leftover accidental may attach to.
	LeftoverXLimit     int
	LeftoverYThreshold int
}

// DefaultOptions returns the associator defaults.
func DefaultOptions() Options {
	return Options{
		GroupDistance:      50,
		MatchXLimit:        50,
		MatchYThreshold:    20,
		ClefXLimit:         30,
		ClefYThreshold:     20,
		LeftoverXLimit:     50,
		LeftoverYThreshold: 10,
	}
}

// Rule names how an accidental was resolved.
type Rule string

const (
	RuleBijective Rule = "bijective"
	RuleKey       Rule = "key_signature"
	RuleLeftover  Rule = "leftover"
)

// Pair attaches one accidental to one note.
type Pair struct {
	NoteID       string            `json:"note_id"`
	AccidentalID string            `json:"accidental_id"`
	Kind         ir.AccidentalKind `json:"kind"`
	Rule         Rule              `json:"rule"`
}

// Result is the outcome of Associate.
type Result struct {
	// Groups are all proximity groups, in canonical order.
	Groups []Group

	// Pairs lists bijective pairs first, then leftover pairs.
	Pairs []Pair

	// KeySignatures lists the groups attached to clefs.
	KeySignatures []ir.KeySignature

	// Unmatched holds accidentals no rule could place.
	Unmatched []ir.Detection

	Diagnostics []*ir.Error
}

type anchored struct {
	note   ir.LabeledNote
	anchor ir.Point
}

// Associate resolves every accidental against the labeled notes and clefs.
func Associate(accs []ir.Detection, notes []ir.LabeledNote, clefs []ir.Detection, opts Options) Result {
	res := Result{Groups: GroupAccidentals(accs, opts.GroupDistance)}

	targets := make([]anchored, len(notes))
	for i, n := range notes {
		targets[i] = anchored{note: n, anchor: n.Box.CenterInt()}
	}
	slices.SortFunc(targets, func(a, b anchored) int {
		return compareAnchored(a.anchor, b.anchor, a.note.ID, b.note.ID)
	})

	sortedClefs := slices.Clone(clefs)
	slices.SortFunc(sortedClefs, func(a, b ir.Detection) int {
		return compareAnchored(a.Box.TopLeft, b.Box.TopLeft, a.ID, b.ID)
	})

	var bijective []Pair
	var leftover []Group
	for _, g := range res.Groups {
		matched, err := matchBijective(g, targets, opts)
		if err == nil {
			pairs, perr := pairByHeight(g, matched)
			if perr != nil {
				res.Diagnostics = append(res.Diagnostics, perr)
				continue
			}
			bijective = append(bijective, pairs...)
			continue
		}
		res.Diagnostics = append(res.Diagnostics, err)

		clef, ok := matchClef(g.leftmost().Anchor, sortedClefs, opts)
		if !ok {
			leftover = append(leftover, g)
			continue
		}
		ks, kerrs := keySignature(g, clef)
		res.Diagnostics = append(res.Diagnostics, kerrs...)
		if ks != nil {
			res.KeySignatures = append(res.KeySignatures, *ks)
		}
	}
	res.Pairs = append(res.Pairs, bijective...)

	for _, g := range leftover {
		for _, m := range g.Members {
			note, ok := nearestLeftover(m.Anchor, targets, opts)
			if !ok {
				res.Unmatched = append(res.Unmatched, m.Detection)
				res.Diagnostics = append(res.Diagnostics, ir.DetectionErrorf(ir.CodeUnmatchedAccidental,
					m.Detection.ID, "no note or clef to attach the accidental to"))
				continue
			}
			res.Pairs = append(res.Pairs, Pair{
				NoteID:       note.ID,
				AccidentalID: m.Detection.ID,
				Kind:         m.Detection.Class.Accidental,
				Rule:         RuleLeftover,
			})
		}
	}
	return res
}

// matchBijective returns the notes matched one-to-one with the group.
func matchBijective(g Group, targets []anchored, opts Options) ([]anchored, *ir.Error) {
	xMax, yMin, yMax := g.bounds()

	var valid []anchored
	for _, t := range targets {
		p := t.anchor
		if xMax < p.X && p.X <= xMax+opts.MatchXLimit &&
			yMin-opts.MatchYThreshold <= p.Y && p.Y <= yMax+opts.MatchYThreshold {
			valid = append(valid, t)
		}
	}
	if len(valid) != len(g.Members) {
		return nil, ir.DetectionErrorf(ir.CodeBijectiveMatchFailure, g.Members[0].Detection.ID,
			"group of %d accidentals has %d candidate notes", len(g.Members), len(valid))
	}

	used := make([]bool, len(valid))
	matched := make([]anchored, 0, len(g.Members))
	for _, m := range g.Members {
		best := -1
		bestDist := 0
		for i, t := range valid {
			if used[i] {
				continue
			}
			d := abs(t.anchor.X - m.Anchor.X)
			if best < 0 || d < bestDist {
				best, bestDist = i, d
			}
		}
		used[best] = true
		matched = append(matched, valid[best])
	}
	return matched, nil
}

// pairByHeight pairs members and notes in ascending y order. Associate only
// calls it with the equal-length result of matchBijective; unequal lengths
// are reported as PAIRING_MISMATCH.
func pairByHeight(g Group, notes []anchored) ([]Pair, *ir.Error) {
	if len(notes) != len(g.Members) {
		return nil, ir.DetectionErrorf(ir.CodePairingMismatch, g.Members[0].Detection.ID,
			"cannot pair %d accidentals with %d notes", len(g.Members), len(notes))
	}

	members := slices.Clone(g.Members)
	slices.SortStableFunc(members, func(a, b Member) int { return a.Anchor.Y - b.Anchor.Y })
	sorted := slices.Clone(notes)
	slices.SortStableFunc(sorted, func(a, b anchored) int { return a.anchor.Y - b.anchor.Y })

	pairs := make([]Pair, len(members))
	for i, m := range members {
		pairs[i] = Pair{
			NoteID:       sorted[i].note.ID,
			AccidentalID: m.Detection.ID,
			Kind:         m.Detection.Class.Accidental,
			Rule:         RuleBijective,
		}
	}
	return pairs, nil
}

// matchClef finds the clef a key-signature group starting at p follows:
// first a clef strictly to the left whose vertical span (widened by the
// threshold) holds p, then any clef whose nearest point is to the left
// and within the thresholds. Nearest by horizontal distance wins.
func matchClef(p ir.Point, clefs []ir.Detection, opts Options) (ir.Detection, bool) {
	var best ir.Detection
	found := false
	bestDist := 0

	for _, c := range clefs {
		b := c.Box
		if b.BottomRight.X < p.X &&
			b.TopLeft.Y-opts.ClefYThreshold <= p.Y && p.Y <= b.BottomRight.Y+opts.ClefYThreshold {
			dx := p.X - b.BottomRight.X
			if dx <= opts.ClefXLimit && (!found || dx < bestDist) {
				best, bestDist, found = c, dx, true
			}
		}
	}
	if found {
		return best, true
	}

	for _, c := range clefs {
		cp := c.Box.ClosestPoint(p)
		dx := p.X - cp.X
		dy := abs(p.Y - cp.Y)
		if dx >= 0 && dy <= opts.ClefYThreshold && dx <= opts.ClefXLimit && (!found || dx < bestDist) {
			best, bestDist, found = c, dx, true
		}
	}
	return best, found
}

// keySignature builds the key signature of a group attached to clef. The
// value takes its sign from the leftmost member. A nil signature means the
// group cannot form one.
func keySignature(g Group, clef ir.Detection) (*ir.KeySignature, []*ir.Error) {
	kind := g.leftmost().Detection.Class.Accidental
	value := kind.Sign() * len(g.Members)

	switch {
	case value == 0:
		return nil, []*ir.Error{ir.DetectionErrorf(ir.CodeInvalidKeySignature, clef.ID,
			"key signature of %d naturals", len(g.Members))}
	case value > maxKey || value < -maxKey:
		return nil, []*ir.Error{ir.DetectionErrorf(ir.CodeInvalidKeySignature, clef.ID,
			"key signature value %d is outside [-%d, %d]", value, maxKey, maxKey)}
	}

	var diags []*ir.Error
	for _, m := range g.Members[1:] {
		if m.Detection.Class.Accidental != kind {
			diags = append(diags, ir.DetectionErrorf(ir.CodeInvalidKeySignature, clef.ID,
				"key signature mixes %s and %s; counting all as %s",
				kind, m.Detection.Class.Accidental, kind))
			break
		}
	}
	return &ir.KeySignature{Clef: clef, Key: value, Members: g.detections()}, diags
}

// nearestLeftover finds the vertically nearest note shortly right of p.
func nearestLeftover(p ir.Point, targets []anchored, opts Options) (ir.LabeledNote, bool) {
	var best ir.LabeledNote
	found := false
	bestDist := 0
	for _, t := range targets {
		dy := abs(p.Y - t.anchor.Y)
		dx := t.anchor.X - p.X
		if dy <= opts.LeftoverYThreshold && dx > 0 && dx <= opts.LeftoverXLimit && (!found || dy < bestDist) {
			best, bestDist, found = t.note, dy, true
		}
	}
	return best, found
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
