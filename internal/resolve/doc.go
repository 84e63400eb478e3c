// Package resolve assigns clefs and key signatures to labeled notes.
//
// Both passes scan a staff's horizontal band: a detection belongs to a
// note's staff when its vertical center lies within
//
//	staff_mid ± (staff_span/2 + band tolerance)
//
// and it governs the note when it is the nearest such detection at or to
// the left of the note's center. Clefs shift the note's pitch by their
// offset. Key signatures shift it by one semitone when the note's pitch
// class is among the steps the circle of fifths affects for that key.
//
// Key signatures are resolved page-wide first: when every signature agrees,
// or an overwhelming majority does, that value governs every note. Only a
// page with genuinely different signatures falls back to the per-staff scan.
package resolve
