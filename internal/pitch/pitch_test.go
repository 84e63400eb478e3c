package pitch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/staff"
)

func note(id string, x1, y1, x2, y2 int) ir.Detection {
	class, _ := ir.ClassOf("f")
	return ir.Detection{
		ID:         id,
		Box:        ir.NewBox(ir.Point{X: x1, Y: y1}, ir.Point{X: x2, Y: y2}),
		Confidence: 1,
		Class:      class,
	}
}

func systems(t *testing.T, staves ...[]int) []*staff.System {
	t.Helper()
	out := make([]*staff.System, len(staves))
	for i, lines := range staves {
		s, err := staff.Build(i, lines)
		require.NoError(t, err)
		out[i] = s
	}
	return out
}

func TestLabeler_LabelsInStaffNotes(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}, []int{200, 210, 220, 230, 240}))

	labeled, ledger := l.Label([]ir.Detection{
		note("a", 50, 115, 62, 125),
		note("b", 80, 215, 92, 225),
		note("c", 90, 95, 102, 105),
	})
	require.Empty(t, ledger)
	require.Len(t, labeled, 3)

	assert.Equal(t, "si_0", labeled[0].Label.String())
	assert.Equal(t, 0, labeled[0].Staff)
	assert.Equal(t, ir.StaffRange{Start: 100, End: 140}, labeled[0].Range)
	assert.Equal(t, 71, labeled[0].Pitch)

	assert.Equal(t, "si_0", labeled[1].Label.String())
	assert.Equal(t, 1, labeled[1].Staff)
	assert.Equal(t, ir.StaffRange{Start: 200, End: 240}, labeled[1].Range)

	assert.Equal(t, "fa_0", labeled[2].Label.String())
	assert.Equal(t, 77, labeled[2].Pitch)
}

func TestLabeler_ToleranceBoundary(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}))
	// Max is 145 and tolerance 10/3: a center at 148 is inside, 149 outside.
	labeled, ledger := l.Label([]ir.Detection{
		note("in", 10, 145, 20, 151),
		note("out", 30, 146, 40, 152),
	})

	require.Len(t, labeled, 1)
	assert.Equal(t, "in", labeled[0].ID)
	assert.Equal(t, "re_1", labeled[0].Label.String())

	require.Len(t, ledger, 1)
	assert.Equal(t, "out", ledger[0].ID)
}

func TestLabeler_LabelNoteTieKeepsFirstScanned(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}))

	label, ok := l.LabelNote(97.5)
	require.True(t, ok)
	assert.Equal(t, "sol_-1", label.String())

	_, ok = NewLabeler(nil).LabelNote(100)
	assert.False(t, ok)
}

func TestNewLabeler_SkipsNilSystems(t *testing.T) {
	sys := systems(t, []int{100, 110, 120, 130, 140})
	l := NewLabeler([]*staff.System{nil, sys[0]})
	assert.Len(t, l.Systems(), 1)

	got, ok := l.System(0)
	require.True(t, ok)
	assert.Same(t, sys[0], got)

	_, ok = l.System(5)
	assert.False(t, ok)
}

func TestLedgerIndex_AboveStaff(t *testing.T) {
	idx, err := LedgerIndex(95, []int{100, 110, 120, 130, 140})
	require.NoError(t, err)
	assert.Equal(t, -1, idx)

	idx, err = LedgerIndex(80, []int{100, 110, 120, 130, 140})
	require.NoError(t, err)
	assert.Equal(t, -3, idx)
}

func TestLedgerIndex_InverseConsistentBelowStaff(t *testing.T) {
	lines := []int{100, 110, 120, 130, 140}
	for k := 1; k <= 6; k++ {
		idx, err := LedgerIndex(float64(140+10*k), lines)
		require.NoError(t, err)
		assert.Equal(t, (len(lines)-1)+(k-1), idx, "k=%d", k)
	}
}

func TestLedgerIndex_Errors(t *testing.T) {
	_, err := LedgerIndex(120, []int{100, 110, 120, 130, 140})
	assert.True(t, ir.IsUnresolved(err))

	_, err = LedgerIndex(120, []int{100})
	assert.True(t, ir.IsGeometryError(err))

	_, err = LedgerIndex(120, []int{100, 100})
	assert.True(t, ir.IsGeometryError(err))
}

func TestAssociateLedger_BelowAndAbove(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}))
	below := note("below", 300, 147, 310, 153)
	above := note("above", 200, 82, 210, 88)

	labeled, diags := l.AssociateLedger(
		[]ir.Detection{below, above},
		PseudoCentroids([]ir.Detection{below, above}),
	)
	require.Empty(t, diags)
	require.Len(t, labeled, 2)

	// Ordered by top edge.
	assert.Equal(t, "above", labeled[0].ID)
	assert.Equal(t, "si_-1", labeled[0].Label.String())
	assert.Equal(t, 83, labeled[0].Pitch)
	assert.True(t, labeled[0].Flags.Has(ir.FlagLedger))

	assert.Equal(t, "below", labeled[1].ID)
	assert.Equal(t, "do_1", labeled[1].Label.String())
	assert.Equal(t, 60, labeled[1].Pitch)
	assert.Equal(t, 0, labeled[1].Staff)
	assert.Equal(t, ir.StaffRange{Start: 100, End: 140}, labeled[1].Range)
}

func TestAssociateLedger_PicksNearestStaff(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}, []int{300, 310, 320, 330, 340}))
	n := note("n", 50, 277, 60, 283)

	labeled, diags := l.AssociateLedger([]ir.Detection{n}, PseudoCentroids([]ir.Detection{n}))
	require.Empty(t, diags)
	require.Len(t, labeled, 1)
	assert.Equal(t, 1, labeled[0].Staff)
	assert.Equal(t, ir.StaffRange{Start: 300, End: 340}, labeled[0].Range)
}

func TestAssociateLedger_RequiresCentroidInBox(t *testing.T) {
	l := NewLabeler(systems(t, []int{100, 110, 120, 130, 140}))
	n := note("n", 300, 147, 310, 153)

	labeled, diags := l.AssociateLedger([]ir.Detection{n}, []ir.Point{{X: 0, Y: 0}})
	assert.Empty(t, labeled)
	require.Len(t, diags, 1)
	assert.Equal(t, ir.CodeUnresolvedDetection, diags[0].Code)
	assert.Equal(t, "n", diags[0].DetectionID)
}

func TestPseudoCentroids(t *testing.T) {
	pts := PseudoCentroids([]ir.Detection{note("a", 0, 0, 5, 5), note("b", 10, 20, 20, 31)})
	assert.Equal(t, []ir.Point{{X: 2, Y: 2}, {X: 15, Y: 25}}, pts)
}
