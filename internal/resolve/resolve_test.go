package resolve

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notemap/internal/ir"
)

var (
	upper = ir.StaffRange{Start: 100, End: 140}
	lower = ir.StaffRange{Start: 300, End: 340}
	third = ir.StaffRange{Start: 500, End: 540}
)

func ranged(staff int) ir.StaffRange {
	return []ir.StaffRange{upper, lower, third}[staff]
}

// labeled builds a note on staff with its center at (x, y) and the given
// label index.
func labeled(id string, staff, x, y, index int) ir.LabeledNote {
	class, _ := ir.ClassOf("f")
	label := ir.LabelAt(index)
	return ir.LabeledNote{
		Detection: ir.Detection{
			ID:    id,
			Box:   ir.NewBox(ir.Point{X: x - 5, Y: y - 5}, ir.Point{X: x + 5, Y: y + 5}),
			Class: class,
		},
		Label: label,
		Staff: staff,
		Range: ranged(staff),
		Pitch: label.Pitch(),
	}
}

func clef(id, kind string, x, y int) ir.Detection {
	class, ok := ir.ClassOf(kind)
	if !ok {
		panic("unknown clef kind " + kind)
	}
	return ir.Detection{
		ID:    id,
		Box:   ir.NewBox(ir.Point{X: x - 15, Y: y - 30}, ir.Point{X: x + 15, Y: y + 30}),
		Class: class,
	}
}

func TestClefs_NearestPrecedingClefGoverns(t *testing.T) {
	clefs := []ir.Detection{clef("treble", "cg", 25, 120), clef("bass", "cf", 215, 120)}
	notes := []ir.LabeledNote{
		labeled("a", 0, 100, 120, 4),
		labeled("b", 0, 215, 120, 4),
		labeled("c", 0, 300, 120, 4),
	}

	res := Clefs(notes, clefs, DefaultOptions())
	require.Empty(t, res.Diagnostics)

	assert.Equal(t, ir.ClefKind("cg"), res.Notes[0].Clef)
	assert.Equal(t, 71, res.Notes[0].Pitch)

	// A clef at the note's own x does not govern it.
	assert.Equal(t, ir.ClefKind("cg"), res.Notes[1].Clef)

	assert.Equal(t, ir.ClefKind("cf"), res.Notes[2].Clef)
	assert.Equal(t, 71-21, res.Notes[2].Pitch)

	// Input is not modified.
	assert.Equal(t, ir.ClefKind(""), notes[2].Clef)
}

func TestClefs_IgnoresClefsOutsideBand(t *testing.T) {
	clefs := []ir.Detection{clef("other", "cf", 25, 320)}
	res := Clefs([]ir.LabeledNote{labeled("a", 0, 100, 120, 0)}, clefs, DefaultOptions())

	require.Len(t, res.Diagnostics, 1)
	assert.True(t, res.Notes[0].Flags.Has(ir.FlagMissingClef))

	// A wide enough band reaches the other staff's clef.
	res = Clefs([]ir.LabeledNote{labeled("a", 0, 100, 120, 0)}, clefs, Options{BandTolerance: 200})
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, ir.ClefKind("cf"), res.Notes[0].Clef)
}

func TestClefs_MissingClef(t *testing.T) {
	clefs := []ir.Detection{clef("treble", "cg", 50, 120)}
	res := Clefs([]ir.LabeledNote{labeled("early", 0, 20, 120, 0)}, clefs, DefaultOptions())

	require.Len(t, res.Diagnostics, 1)
	d := res.Diagnostics[0]
	assert.True(t, ir.IsMissingClef(d))
	assert.Equal(t, "early", d.DetectionID)
	assert.Equal(t, 0, d.Staff)

	n := res.Notes[0]
	assert.True(t, n.Flags.Has(ir.FlagMissingClef))
	assert.Equal(t, 77, n.Pitch)
	assert.Equal(t, ir.ClefKind(""), n.Clef)

	// The staff still has a default clef.
	assert.Equal(t, ir.ClefKind("cg"), res.Defaults[0])
}

func TestClefs_AssignmentsTrackDefaultChanges(t *testing.T) {
	clefs := []ir.Detection{
		clef("c0", "cg", 25, 120),
		clef("c1", "cg", 25, 320),
		clef("c2", "cf", 25, 520),
		clef("c2b", "cg", 400, 520),
	}
	notes := []ir.LabeledNote{
		labeled("n2", 2, 100, 520, 0),
		labeled("n0", 0, 100, 120, 0),
		labeled("n1", 1, 100, 320, 0),
	}

	res := Clefs(notes, clefs, DefaultOptions())
	require.Len(t, res.Assignments, 2)

	assert.Equal(t, 0, res.Assignments[0].Index)
	assert.Equal(t, 0, res.Assignments[0].Staff)
	assert.Equal(t, "c0", res.Assignments[0].Detection.ID)

	assert.Equal(t, 1, res.Assignments[1].Index)
	assert.Equal(t, 2, res.Assignments[1].Staff)
	assert.Equal(t, "c2", res.Assignments[1].Detection.ID)

	assert.Equal(t, map[int]ir.ClefKind{0: "cg", 1: "cg", 2: "cf"}, res.Defaults)
}

func TestAffectedSteps(t *testing.T) {
	steps, err := AffectedSteps(2)
	require.NoError(t, err)
	assert.Equal(t, []ir.Step{ir.Fa, ir.Do}, steps)

	steps, err = AffectedSteps(-3)
	require.NoError(t, err)
	assert.Equal(t, []ir.Step{ir.Si, ir.Mi, ir.La}, steps)

	steps, err = AffectedSteps(0)
	require.NoError(t, err)
	assert.Empty(t, steps)

	for _, key := range []int{7, -7, 12} {
		_, err := AffectedSteps(key)
		assert.True(t, ir.IsInvalidKeySignature(err), "key %d", key)
	}
}

func TestApplyKey_EveryKey(t *testing.T) {
	all := []ir.Step{ir.Fa, ir.Mi, ir.Re, ir.Do, ir.Si, ir.La, ir.Sol}

	for key := -MaxKey; key <= MaxKey; key++ {
		t.Run(fmt.Sprintf("key=%d", key), func(t *testing.T) {
			affected, err := AffectedSteps(key)
			require.NoError(t, err)
			require.Len(t, affected, max(key, -key))

			for _, step := range all {
				for octave := -2; octave <= 2; octave++ {
					pitch := ir.Label{Step: step, Octave: octave}.Pitch()
					got, err := ApplyKey(pitch, key)
					require.NoError(t, err)

					want := pitch
					for _, a := range affected {
						if a == step {
							if key > 0 {
								want = pitch + 1
							} else {
								want = pitch - 1
							}
						}
					}
					assert.Equal(t, want, got, "%s_%d", step, octave)
				}
			}
		})
	}

	_, err := ApplyKey(60, 7)
	assert.True(t, ir.IsInvalidKeySignature(err))
}

func sig(clefID string, x, y, key int) ir.KeySignature {
	return ir.KeySignature{Clef: clef(clefID, "cg", x, y), Key: key}
}

func TestKeys_NoSignatures(t *testing.T) {
	res := Keys([]ir.LabeledNote{labeled("a", 0, 100, 120, 0)}, nil, DefaultOptions())

	assert.Equal(t, KeyCaseNone, res.Case)
	assert.Equal(t, 0, res.Notes[0].Key)
	assert.Equal(t, 77, res.Notes[0].Pitch)
	assert.Equal(t, map[int]int{0: 0}, res.Defaults)
}

func TestKeys_Uniform(t *testing.T) {
	notes := []ir.LabeledNote{
		labeled("fa", 0, 100, 100, 0),
		labeled("si", 0, 120, 120, 4),
		labeled("do", 1, 100, 315, 3),
	}
	sigs := []ir.KeySignature{sig("k0", 25, 120, 2), sig("k1", 25, 320, 2)}

	res := Keys(notes, sigs, DefaultOptions())
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, KeyCaseUniform, res.Case)

	assert.Equal(t, 78, res.Notes[0].Pitch)
	assert.Equal(t, 71, res.Notes[1].Pitch)
	assert.Equal(t, 73, res.Notes[2].Pitch)
	for _, n := range res.Notes {
		assert.Equal(t, 2, n.Key)
	}

	require.Len(t, res.Assignments, 1)
	assert.Equal(t, 2, res.Assignments[0].Key)
	assert.Nil(t, res.Assignments[0].Detection)
	assert.Equal(t, map[int]int{0: 2, 1: 2}, res.Defaults)
}

func TestKeys_NearUniformWarns(t *testing.T) {
	var sigs []ir.KeySignature
	for i := 0; i < 25; i++ {
		sigs = append(sigs, sig(fmt.Sprintf("k%02d", i), 25, 120+i, 1))
	}
	sigs = append(sigs, sig("odd", 25, 320, -1))

	res := Keys([]ir.LabeledNote{labeled("fa", 1, 100, 300, 0)}, sigs, DefaultOptions())
	assert.Equal(t, KeyCaseNearUniform, res.Case)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, ir.CodeNearUniformKey, res.Diagnostics[0].Code)

	assert.Equal(t, 1, res.Notes[0].Key)
	assert.Equal(t, 78, res.Notes[0].Pitch)
}

func TestKeys_PerStaff(t *testing.T) {
	notes := []ir.LabeledNote{
		labeled("fa", 0, 100, 100, 0),
		labeled("si", 1, 100, 320, 4),
		labeled("before", 1, 10, 320, 4),
	}
	sigs := []ir.KeySignature{sig("k0", 25, 120, 1), sig("k1", 25, 320, -1)}

	res := Keys(notes, sigs, DefaultOptions())
	require.Empty(t, res.Diagnostics)
	assert.Equal(t, KeyCasePerStaff, res.Case)

	assert.Equal(t, 1, res.Notes[0].Key)
	assert.Equal(t, 78, res.Notes[0].Pitch)

	assert.Equal(t, -1, res.Notes[1].Key)
	assert.Equal(t, 70, res.Notes[1].Pitch)

	// No signature at or before the note.
	assert.Equal(t, 0, res.Notes[2].Key)
	assert.Equal(t, 71, res.Notes[2].Pitch)

	require.Len(t, res.Assignments, 2)
	assert.Equal(t, 1, res.Assignments[0].Key)
	assert.Equal(t, "k0", res.Assignments[0].Detection.ID)
	assert.Equal(t, -1, res.Assignments[1].Key)
	assert.Equal(t, 1, res.Assignments[1].Index)
	assert.Equal(t, map[int]int{0: 1, 1: -1}, res.Defaults)
}

func TestKeys_InvalidPageWideKey(t *testing.T) {
	res := Keys([]ir.LabeledNote{labeled("fa", 0, 100, 100, 0)}, []ir.KeySignature{sig("k", 25, 120, 7)}, DefaultOptions())

	require.Len(t, res.Diagnostics, 1)
	assert.True(t, ir.IsInvalidKeySignature(res.Diagnostics[0]))
	assert.True(t, res.Notes[0].Flags.Has(ir.FlagInvalidKey))
	assert.Equal(t, 77, res.Notes[0].Pitch)
	assert.Empty(t, res.Assignments)
}
