// Package accidental attaches accidental detections to notes and key
// signatures.
//
// Accidentals are first grouped by transitive proximity of their anchors.
// Each group is then resolved by the first rule that applies:
//
//  1. Bijective match: the group's size equals the number of notes just to
//     its right; members are paired with those notes by height.
//  2. Key signature: the group sits just right of a clef; it becomes that
//     clef's key signature with value sign × member count.
//  3. Leftover: each member separately takes the vertically nearest note
//     shortly to its right.
//
// Grouping and matching work on a canonical (x, y, id) ordering, so the
// order of the input slices never changes the outcome.
package accidental
