package staff

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/roach88/notemap/internal/ir"
)

// ToleranceRatio is the share of the mean half-gap a note may sit outside
// the outermost positions and still belong to the staff.
const ToleranceRatio = 2.0 / 3.0

// Entry binds one vertical position to its label.
type Entry struct {
	Y     int      `json:"y"`
	Label ir.Label `json:"label"`
}

// System is the label map of one staff. Entries are sorted by y and their
// label indexes increase strictly with y.
type System struct {
	index       int
	lines       []int
	entries     []Entry
	meanHalfGap float64
}

// Build creates the label map for the staff with the given anchor lines.
//
// With fewer than two lines the spacing is undefined: Build returns a
// degenerate zero-gap system holding the single line (no padding) together
// with a GEOMETRY_ERROR. With no lines it returns nil and the error.
func Build(index int, lines []int) (*System, error) {
	if len(lines) == 0 {
		return nil, ir.StaffErrorf(ir.CodeGeometry, index, "staff has no lines")
	}

	sorted := slices.Clone(lines)
	slices.Sort(sorted)

	s := &System{index: index, lines: sorted}

	if len(sorted) < 2 {
		s.entries = []Entry{{Y: sorted[0], Label: ir.LabelAt(0)}}
		return s, ir.StaffErrorf(ir.CodeGeometry, index, "staff has %d line, spacing is undefined", len(sorted))
	}

	s.meanHalfGap = MeanHalfGap(sorted)

	// Later assignments win when two rounded positions collide.
	byY := make(map[int]ir.Label, 2*len(sorted)+1)
	var order []int
	set := func(y int, l ir.Label) {
		if _, ok := byY[y]; !ok {
			order = append(order, y)
		}
		byY[y] = l
	}

	idx := 0
	for i := 0; i < len(sorted)-1; i++ {
		set(sorted[i], ir.LabelAt(idx))
		idx++
		set(roundHalfEven(float64(sorted[i]+sorted[i+1])/2), ir.LabelAt(idx))
		idx++
	}
	set(sorted[len(sorted)-1], ir.LabelAt(idx))

	first := byY[sorted[0]]
	last := byY[sorted[len(sorted)-1]]
	set(roundHalfEven(float64(sorted[0])-s.meanHalfGap), first.Prev())
	set(roundHalfEven(float64(sorted[len(sorted)-1])+s.meanHalfGap), last.Next())

	slices.Sort(order)
	s.entries = make([]Entry, len(order))
	for i, y := range order {
		s.entries[i] = Entry{Y: y, Label: byY[y]}
	}
	return s, nil
}

// MeanHalfGap returns the mean of half the consecutive distances between
// lines, or 0 for fewer than two lines.
func MeanHalfGap(lines []int) float64 {
	if len(lines) < 2 {
		return 0
	}
	halves := make([]float64, len(lines)-1)
	for i := range halves {
		halves[i] = float64(lines[i+1]-lines[i]) / 2
	}
	return stat.Mean(halves, nil)
}

// MeanGap returns the mean consecutive distance between positions, or 0
// for fewer than two positions.
func MeanGap(positions []int) float64 {
	return 2 * MeanHalfGap(positions)
}

func roundHalfEven(v float64) int { return int(math.RoundToEven(v)) }

// Index returns the staff's declaration index on the page.
func (s *System) Index() int { return s.index }

// Lines returns the sorted anchor lines.
func (s *System) Lines() []int { return slices.Clone(s.lines) }

// Entries returns the label map sorted by y.
func (s *System) Entries() []Entry { return slices.Clone(s.entries) }

// Positions returns the y of every entry, sorted.
func (s *System) Positions() []int {
	ys := make([]int, len(s.entries))
	for i, e := range s.entries {
		ys[i] = e.Y
	}
	return ys
}

// MeanHalfGap returns the mean half distance between anchor lines.
func (s *System) MeanHalfGap() float64 { return s.meanHalfGap }

// Tolerance is how far outside the outermost positions a note may sit and
// still be accepted by the staff.
func (s *System) Tolerance() float64 { return ToleranceRatio * s.meanHalfGap }

// Min returns the smallest mapped y (the upper padding position).
func (s *System) Min() int { return s.entries[0].Y }

// Max returns the largest mapped y (the lower padding position).
func (s *System) Max() int { return s.entries[len(s.entries)-1].Y }

// Range returns the first and last anchor lines.
func (s *System) Range() ir.StaffRange {
	return ir.StaffRange{Start: s.lines[0], End: s.lines[len(s.lines)-1]}
}

// Accepts reports whether y lies within the tolerance band of the staff.
func (s *System) Accepts(y float64) bool {
	tol := s.Tolerance()
	return float64(s.Min())-tol <= y && y <= float64(s.Max())+tol
}

// Degenerate reports whether the staff has no defined spacing.
func (s *System) Degenerate() bool { return len(s.lines) < 2 }

// LabelOf returns the label bound to y, if y is a mapped position.
func (s *System) LabelOf(y int) (ir.Label, bool) {
	i, found := slices.BinarySearchFunc(s.entries, y, func(e Entry, target int) int {
		return e.Y - target
	})
	if !found {
		return ir.Label{}, false
	}
	return s.entries[i].Label, true
}
