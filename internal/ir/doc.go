// Package ir provides the shared value types for notemap.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. Every stage of the reconstruction
// pipeline consumes and produces these types:
//
//   - Geometry: Point, Box, StaffRange (image pixel coordinates, origin top-left,
//     y grows downward)
//   - Vocabulary: Step, Label, NoteKind, ClefKind, AccidentalKind, RestKind
//   - Records: Detection, LabeledNote, Chord, Rest, ScorePart
//   - Diagnostics: Error and its Code constants
//
// Key design constraints:
//   - Detections are identified by their ID, never by coordinates
//   - Kind tables are closed: an unknown tag is an error, not a default
//   - All JSON tags use snake_case
package ir
