// Package engine reconstructs the symbolic score of one page.
//
// The engine owns the stage order and nothing else. Every stage is a pure
// function from the packages below it; the engine feeds each one the output
// of the previous stage and collects the diagnostics they return.
//
// Stage order:
//
//  1. classify: tags become typed detections with stable IDs
//  2. staff: every stave's line list becomes a position/label map
//  3. pitch: in-band notes are labeled, the rest go through ledger
//     extrapolation
//  4. resolve.Clefs: governing clef and clef offset
//  5. accidental.Associate: bijective groups, key-signature groups next to
//     clefs, leftovers
//  6. resolve.Keys: key signatures from step 5, circle-of-fifths adjustment
//  7. accidental.Attach: accidental kinds on their notes
//  8. chord: onset grouping, per-staff parts, score records
//
// Processing is single-threaded and deterministic for a given ID generator.
// A page with no staves, no detections or no staff of at least two lines
// stops after the first step that notices it; the returned Result carries
// the diagnostic and the error is a *PageError.
package engine
