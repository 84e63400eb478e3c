package pitch

import (
	"math"
	"slices"

	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/staff"
)

// LedgerIndex extrapolates the diatonic index of a position outside the
// span of positions.
//
// Above the first position: steps = round((min-y)/gap), index = -steps-1.
// Below the last position: steps = round((y-max)/gap)-1, index =
// (n-1)+steps. gap is the mean consecutive distance of positions; rounding
// is half to even. A y inside [min, max] is not a ledger position.
func LedgerIndex(y float64, positions []int) (int, error) {
	if len(positions) < 2 {
		return 0, ir.Errorf(ir.CodeGeometry, "ledger extrapolation needs at least 2 positions, got %d", len(positions))
	}
	sorted := slices.Clone(positions)
	slices.Sort(sorted)

	gap := staff.MeanGap(sorted)
	if gap == 0 {
		return 0, ir.Errorf(ir.CodeGeometry, "ledger extrapolation over zero-gap positions")
	}

	lo, hi := float64(sorted[0]), float64(sorted[len(sorted)-1])
	switch {
	case y < lo:
		steps := int(math.RoundToEven((lo - y) / gap))
		return -steps - 1, nil
	case y > hi:
		steps := int(math.RoundToEven((y-hi)/gap)) - 1
		return len(sorted) - 1 + steps, nil
	default:
		return 0, ir.Errorf(ir.CodeUnresolvedDetection,
			"y=%g lies within [%g, %g] and is not a ledger position", y, lo, hi)
	}
}

// PseudoCentroids returns the integer centers of the given notes. They
// stand in for upstream centroids when a page supplies none.
func PseudoCentroids(notes []ir.Detection) []ir.Point {
	pts := make([]ir.Point, len(notes))
	for i, n := range notes {
		pts[i] = n.Box.CenterInt()
	}
	return pts
}

// AssociateLedger attaches ledger candidates to staves and labels them by
// extrapolation.
//
// A candidate needs at least one centroid inside its box. Its staff is the
// one whose position span has a boundary nearest to the candidate's center,
// kept only if some centroid lies at or beyond that staff's top or bottom
// position. Candidates failing either check are reported as
// UNRESOLVED_DETECTION. Results are ordered by top edge.
func (l *Labeler) AssociateLedger(notes []ir.Detection, centroids []ir.Point) ([]ir.LabeledNote, []*ir.Error) {
	ordered := slices.Clone(notes)
	slices.SortStableFunc(ordered, func(a, b ir.Detection) int {
		return a.Box.TopLeft.Y - b.Box.TopLeft.Y
	})

	var labeled []ir.LabeledNote
	var diags []*ir.Error
	for _, n := range ordered {
		if !containsAny(n.Box, centroids) {
			diags = append(diags, ir.DetectionErrorf(ir.CodeUnresolvedDetection, n.ID,
				"no centroid inside the note box"))
			continue
		}

		y := n.Box.CenterY()
		sys := l.nearestSystem(y)
		if sys == nil {
			diags = append(diags, ir.DetectionErrorf(ir.CodeUnresolvedDetection, n.ID,
				"no staff to extrapolate from"))
			continue
		}
		if !linked(sys, centroids) {
			diags = append(diags, &ir.Error{
				Code:        ir.CodeUnresolvedDetection,
				Message:     "no centroid continues past the staff boundary",
				DetectionID: n.ID,
				Staff:       sys.Index(),
			})
			continue
		}

		index, err := LedgerIndex(y, sys.Positions())
		if err != nil {
			e := asError(err)
			e.DetectionID = n.ID
			e.Staff = sys.Index()
			diags = append(diags, e)
			continue
		}

		// Over padded positions the extrapolated index is already a label
		// index: the upper padding sits at -1, one step above the top line.
		label := ir.LabelAt(index)
		ln := newLabeledNote(n, label, sys)
		ln.Flags |= ir.FlagLedger
		labeled = append(labeled, ln)
	}
	return labeled, diags
}

func (l *Labeler) nearestSystem(y float64) *staff.System {
	var best *staff.System
	bestDist := math.Inf(1)
	for _, s := range l.systems {
		d := min(math.Abs(float64(s.Min())-y), math.Abs(float64(s.Max())-y))
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best
}

func containsAny(b ir.Box, pts []ir.Point) bool {
	for _, p := range pts {
		if b.Contains(p) {
			return true
		}
	}
	return false
}

func linked(s *staff.System, centroids []ir.Point) bool {
	for _, c := range centroids {
		if c.Y <= s.Min() || c.Y >= s.Max() {
			return true
		}
	}
	return false
}

func asError(err error) *ir.Error {
	if e, ok := err.(*ir.Error); ok {
		cp := *e
		return &cp
	}
	return ir.Errorf(ir.CodeUnresolvedDetection, "%v", err)
}
