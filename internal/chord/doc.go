// Package chord groups resolved notes into chords and serializes staves.
//
// Within a staff, notes are walked left to right. A note joins the current
// chord when its horizontal center is within the tolerance of the previous
// note's, or when their horizontal spans overlap. A chord lists its notes
// from the lowest to the highest pitch and takes its clef and key from its
// leftmost note.
//
// Build interleaves rests by x and inserts a clef-change marker before
// every chord whose clef differs from the clef in force, starting from the
// staff's default clef.
//
// Serialize converts parts into the score document handed to notation
// writers:
//
//	{staff_index, clef, key_signature, notes: [
//	    {pitch, type, duration, acc?} | {clef_change} | {rest, duration}]}
//
// Single-note chords unwrap their lists into scalars.
package chord
