package staff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notemap/internal/ir"
)

func fiveLines() []int { return []int{100, 110, 120, 130, 140} }

func TestBuild_FiveLineStaff(t *testing.T) {
	sys, err := Build(0, fiveLines())
	require.NoError(t, err)

	entries := sys.Entries()
	require.Len(t, entries, 11)

	wantY := []int{95, 100, 105, 110, 115, 120, 125, 130, 135, 140, 145}
	wantLabels := []string{"sol_-1", "fa_0", "mi_0", "re_0", "do_0", "si_0", "la_0", "sol_0", "fa_1", "mi_1", "re_1"}
	for i, e := range entries {
		assert.Equal(t, wantY[i], e.Y, "entry %d", i)
		assert.Equal(t, wantLabels[i], e.Label.String(), "entry %d", i)
	}

	assert.Equal(t, 5.0, sys.MeanHalfGap())
	assert.InDelta(t, 10.0/3.0, sys.Tolerance(), 1e-9)
	assert.Equal(t, 95, sys.Min())
	assert.Equal(t, 145, sys.Max())
	assert.Equal(t, ir.StaffRange{Start: 100, End: 140}, sys.Range())
	assert.False(t, sys.Degenerate())
}

func TestBuild_EntryCountAndOrdering(t *testing.T) {
	cases := map[string][]int{
		"two lines":      {200, 220},
		"five lines":     {100, 112, 123, 135, 148},
		"six lines":      {10, 30, 50, 70, 90, 110},
		"unsorted input": {140, 100, 120, 110, 130},
		"wide staff":     {1000, 1031, 1062, 1093, 1124},
	}

	for name, lines := range cases {
		t.Run(name, func(t *testing.T) {
			sys, err := Build(3, lines)
			require.NoError(t, err)

			entries := sys.Entries()
			n := len(lines)
			assert.Len(t, entries, (2*n-1)+2)

			seen := make(map[ir.Label]bool)
			for i := 1; i < len(entries); i++ {
				assert.Less(t, entries[i-1].Y, entries[i].Y)
				assert.Less(t, entries[i-1].Label.Index(), entries[i].Label.Index())
			}
			for _, e := range entries {
				assert.False(t, seen[e.Label], "label %s repeated", e.Label)
				seen[e.Label] = true
			}
			assert.Equal(t, 3, sys.Index())
		})
	}
}

func TestBuild_MidpointsRoundHalfToEven(t *testing.T) {
	// (100+111)/2 = 105.5 rounds to 106, (111+120)/2 = 115.5 rounds to 116.
	sys, err := Build(0, []int{100, 111, 120})
	require.NoError(t, err)

	assert.Equal(t, []int{95, 100, 106, 111, 116, 120, 125}, sys.Positions())
}

func TestBuild_DegenerateStaff(t *testing.T) {
	sys, err := Build(2, []int{150})
	require.Error(t, err)
	assert.True(t, ir.IsGeometryError(err))
	require.NotNil(t, sys)

	assert.True(t, sys.Degenerate())
	assert.Equal(t, 0.0, sys.MeanHalfGap())
	assert.Equal(t, 0.0, sys.Tolerance())
	assert.Equal(t, []int{150}, sys.Positions())
	assert.True(t, sys.Accepts(150))
	assert.False(t, sys.Accepts(151))
}

func TestBuild_NoLines(t *testing.T) {
	sys, err := Build(1, nil)
	assert.Nil(t, sys)
	require.Error(t, err)
	assert.True(t, ir.IsGeometryError(err))
	assert.Equal(t, 1, err.(*ir.Error).Staff)
}

func TestSystem_AcceptsBoundary(t *testing.T) {
	sys, err := Build(0, fiveLines())
	require.NoError(t, err)

	top := float64(sys.Min()) - sys.Tolerance()
	bottom := float64(sys.Max()) + sys.Tolerance()

	assert.True(t, sys.Accepts(top))
	assert.True(t, sys.Accepts(bottom))
	assert.False(t, sys.Accepts(top-1))
	assert.False(t, sys.Accepts(bottom+1))
	assert.True(t, sys.Accepts(120))
}

func TestSystem_LabelOf(t *testing.T) {
	sys, err := Build(0, fiveLines())
	require.NoError(t, err)

	l, ok := sys.LabelOf(120)
	require.True(t, ok)
	assert.Equal(t, "si_0", l.String())

	_, ok = sys.LabelOf(121)
	assert.False(t, ok)
}

func TestMeanGap(t *testing.T) {
	assert.Equal(t, 10.0, MeanGap(fiveLines()))
	assert.Equal(t, 0.0, MeanGap([]int{5}))
	assert.InDelta(t, 5.0, MeanHalfGap([]int{0, 8, 20}), 1e-9)
}

func TestSystem_AccessorsReturnCopies(t *testing.T) {
	sys, err := Build(0, fiveLines())
	require.NoError(t, err)

	lines := sys.Lines()
	lines[0] = -1
	assert.Equal(t, 100, sys.Lines()[0])

	entries := sys.Entries()
	entries[0].Y = -1
	assert.Equal(t, 95, sys.Entries()[0].Y)
}
