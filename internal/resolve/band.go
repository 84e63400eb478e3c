package resolve

import (
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// Options tunes the resolver.
type Options struct {
	// BandTolerance widens the staff band beyond half the staff span.
	BandTolerance int

	// NearUniformRatio is the share of key signatures that must agree for
	// the majority value to govern the whole page.
	NearUniformRatio float64
}

// DefaultOptions returns the resolver defaults.
func DefaultOptions() Options {
	return Options{BandTolerance: 0, NearUniformRatio: 0.96}
}

type band struct{ lo, hi int }

func bandOf(r ir.StaffRange, tolerance int) band {
	mid := r.Mid()
	half := r.Span()/2 + tolerance
	return band{lo: mid - half, hi: mid + half}
}

func (b band) holds(y int) bool { return b.lo <= y && y <= b.hi }

// candidates returns the detections in the band at or left of x.
func candidates(ds []ir.Detection, b band, x int) []ir.Detection {
	var out []ir.Detection
	for _, d := range ds {
		c := d.Box.CenterInt()
		if b.holds(c.Y) && c.X <= x {
			out = append(out, d)
		}
	}
	return out
}

// nearestBefore returns the candidate closest to x, optionally requiring a
// strictly positive distance. Ties keep the first candidate.
func nearestBefore(cands []ir.Detection, x int, strict bool) (ir.Detection, bool) {
	var best ir.Detection
	found := false
	bestDist := 0
	for _, d := range cands {
		dist := x - d.Box.CenterInt().X
		if strict && dist <= 0 {
			continue
		}
		if !found || dist < bestDist {
			best, bestDist, found = d, dist, true
		}
	}
	return best, found
}

// leftmost returns the detection with the smallest center x in the band.
func leftmost(ds []ir.Detection, b band) (ir.Detection, bool) {
	var best ir.Detection
	found := false
	for _, d := range ds {
		c := d.Box.CenterInt()
		if !b.holds(c.Y) {
			continue
		}
		if !found || c.X < best.Box.CenterInt().X {
			best, found = d, true
		}
	}
	return best, found
}

// staffRanges returns the staves the notes belong to, by ascending index.
func staffRanges(notes []ir.LabeledNote) ([]int, map[int]ir.StaffRange) {
	ranges := make(map[int]ir.StaffRange)
	var order []int
	for _, n := range notes {
		if _, ok := ranges[n.Staff]; !ok {
			ranges[n.Staff] = n.Range
			order = append(order, n.Staff)
		}
	}
	slices.Sort(order)
	return order, ranges
}
