// Package classify turns raw upstream detections into typed records.
//
// A raw detection carries a free-form class tag of the form
// "<kind>_<variant>". Classify normalizes the tag (Unicode NFC, trimmed,
// lowercased), drops the variant suffix and resolves the kind against the
// closed tables in package ir. Unknown kinds are reported as UNKNOWN_TAG and
// dropped; nothing falls back to a default kind.
//
// Every accepted detection receives a stable ID from an IDGenerator. Later
// stages cross-reference detections only by that ID, never by coordinates.
// Two detections with the same box violate the one-detection-per-location
// contract: the later one is reported as DUPLICATE_LOCATION and dropped.
package classify
