package pitch

import (
	"math"

	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/staff"
)

// Labeler assigns diatonic labels using the label maps of a page's staves.
type Labeler struct {
	systems []*staff.System
}

// NewLabeler creates a labeler over the given systems. Nil systems (staves
// without lines) are skipped.
func NewLabeler(systems []*staff.System) *Labeler {
	l := &Labeler{}
	for _, s := range systems {
		if s != nil {
			l.systems = append(l.systems, s)
		}
	}
	return l
}

// Systems returns the staves the labeler scans, in declaration order.
func (l *Labeler) Systems() []*staff.System { return l.systems }

// System returns the staff with the given declaration index.
func (l *Labeler) System(index int) (*staff.System, bool) {
	for _, s := range l.systems {
		if s.Index() == index {
			return s, true
		}
	}
	return nil, false
}

// LabelNote returns the label of the mapped position nearest to y across
// all staves. ok is false when there are no staves.
func (l *Labeler) LabelNote(y float64) (label ir.Label, ok bool) {
	best := math.Inf(1)
	for _, s := range l.systems {
		for _, e := range s.Entries() {
			if d := math.Abs(float64(e.Y) - y); d < best {
				best = d
				label = e.Label
				ok = true
			}
		}
	}
	return label, ok
}

// Label labels every note accepted by some staff's tolerance band.
//
// The owning staff is the first one in declaration order whose band holds
// the note's center; the label is the nearest one over all staves. Notes no
// band accepts are returned unchanged as ledger candidates.
func (l *Labeler) Label(notes []ir.Detection) (labeled []ir.LabeledNote, ledger []ir.Detection) {
	for _, n := range notes {
		y := n.Box.CenterY()
		owner := l.accepting(y)
		if owner == nil {
			ledger = append(ledger, n)
			continue
		}
		label, _ := l.LabelNote(y)
		labeled = append(labeled, newLabeledNote(n, label, owner))
	}
	return labeled, ledger
}

func (l *Labeler) accepting(y float64) *staff.System {
	for _, s := range l.systems {
		if s.Accepts(y) {
			return s
		}
	}
	return nil
}

func newLabeledNote(d ir.Detection, label ir.Label, owner *staff.System) ir.LabeledNote {
	return ir.LabeledNote{
		Detection: d,
		Label:     label,
		Staff:     owner.Index(),
		Range:     owner.Range(),
		Pitch:     label.Pitch(),
	}
}
