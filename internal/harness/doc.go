// Package harness runs conformance scenarios against the engine.
//
// A scenario is a YAML file naming a page document, an optional config
// file and a list of assertions:
//
//	name: treble
//	description: Key signature next to the clef
//	page: ../pages/treble.yaml
//	assertions:
//	  - type: key_signature
//	    staff: 0
//	    key: 1
//	  - type: pitches
//	    staff: 0
//	    pitches: [[67], [74], [64, 71]]
//
// Paths are resolved relative to the scenario file. Every run uses a fresh
// sequential ID generator, so the same scenario always yields the same
// detection IDs and the same report.
//
// RunWithGolden additionally compares the report snapshot against
// testdata/golden/<name>.golden. To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
