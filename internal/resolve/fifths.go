package resolve

import (
	"github.com/roach88/notemap/internal/ir"
)

// MaxKey is the largest number of sharps or flats a key signature holds.
const MaxKey = 6

var (
	sharpOrder = [MaxKey]ir.Step{ir.Fa, ir.Do, ir.Sol, ir.Re, ir.La, ir.Mi}
	flatOrder  = [MaxKey]ir.Step{ir.Si, ir.Mi, ir.La, ir.Re, ir.Sol, ir.Do}
)

// AffectedSteps returns the steps a key signature alters: the first key
// entries of the sharp order for positive keys, the first -key entries of
// the flat order for negative keys.
func AffectedSteps(key int) ([]ir.Step, error) {
	switch {
	case key > MaxKey || key < -MaxKey:
		return nil, ir.Errorf(ir.CodeInvalidKeySignature, "key %d is outside [-%d, %d]", key, MaxKey, MaxKey)
	case key > 0:
		return sharpOrder[:key], nil
	case key < 0:
		return flatOrder[:-key], nil
	default:
		return nil, nil
	}
}

// ApplyKey shifts pitch by one semitone in the direction of key when its
// pitch class matches an affected step.
func ApplyKey(pitch, key int) (int, error) {
	steps, err := AffectedSteps(key)
	if err != nil {
		return pitch, err
	}
	class := ir.FloorMod(pitch, 12)
	for _, s := range steps {
		if s.Residue() == class {
			if key > 0 {
				return pitch + 1, nil
			}
			return pitch - 1, nil
		}
	}
	return pitch, nil
}
