// Package config loads engine thresholds.
//
// The embedded CUE schema (schema.cue) declares every threshold with its
// default and its valid range. A user file, written in CUE or JSON, is
// unified with the schema: omitted fields take their defaults, unknown
// fields and out-of-range values are rejected.
//
//	accidental: group_distance: 40
//	chord: tolerance: 12
package config
