package ir

import (
	"errors"
	"fmt"
)

// Error is a condition detected while reconstructing a page.
//
// Most codes are recoverable: the stage records the error, skips or degrades
// the affected detection and the pipeline continues. EMPTY_PAGE and a page
// without any usable staff stop the page.
type Error struct {
	// Code identifies the error category.
	Code Code

	// Message is a human-readable description.
	Message string

	// DetectionID identifies the affected detection, if any.
	DetectionID string

	// Staff is the affected staff index, or -1.
	Staff int
}

// Code categorizes reconstruction errors.
type Code string

const (
	// CodeGeometry indicates degenerate or insufficient staff-line data.
	CodeGeometry Code = "GEOMETRY_ERROR"

	// CodeUnresolvedDetection indicates a note that no staff can label.
	CodeUnresolvedDetection Code = "UNRESOLVED_DETECTION"

	// CodeBijectiveMatchFailure indicates an accidental group whose size
	// differs from the notes available to its right.
	CodeBijectiveMatchFailure Code = "BIJECTIVE_MATCH_FAILURE"

	// CodeInvalidKeySignature indicates a key signature outside [-6, 6] or
	// built from naturals.
	CodeInvalidKeySignature Code = "INVALID_KEY_SIGNATURE"

	// CodeMissingClef indicates a note with no preceding clef on its staff.
	CodeMissingClef Code = "MISSING_CLEF"

	// CodeUnknownTag indicates a class tag outside the kind tables.
	CodeUnknownTag Code = "UNKNOWN_TAG"

	// CodeDuplicateLocation indicates two detections with the same box.
	CodeDuplicateLocation Code = "DUPLICATE_LOCATION"

	// CodeEmptyPage indicates a page with no staves or no detections.
	CodeEmptyPage Code = "EMPTY_PAGE"

	// CodeNearUniformKey warns that one key-signature detection disagrees
	// with an overwhelming majority.
	CodeNearUniformKey Code = "NEAR_UNIFORM_KEY"

	// CodePairingMismatch indicates a matched accidental group whose notes
	// cannot be paired one-to-one by height.
	CodePairingMismatch Code = "PAIRING_MISMATCH"

	// CodeUnmatchedAccidental indicates an accidental attached to nothing.
	CodeUnmatchedAccidental Code = "UNMATCHED_ACCIDENTAL"
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.DetectionID != "" && e.Staff >= 0:
		return fmt.Sprintf("%s: %s (detection=%s, staff=%d)", e.Code, e.Message, e.DetectionID, e.Staff)
	case e.DetectionID != "":
		return fmt.Sprintf("%s: %s (detection=%s)", e.Code, e.Message, e.DetectionID)
	case e.Staff >= 0:
		return fmt.Sprintf("%s: %s (staff=%d)", e.Code, e.Message, e.Staff)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

// Errorf creates an Error that is not tied to a detection or staff.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Staff: -1}
}

// DetectionErrorf creates an Error about one detection.
func DetectionErrorf(code Code, id string, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), DetectionID: id, Staff: -1}
}

// StaffErrorf creates an Error about one staff.
func StaffErrorf(code Code, staff int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Staff: staff}
}

// CodeOf returns the code of err, or "" if err is not an *Error.
// Uses errors.As to handle wrapped errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsGeometryError returns true if err is a geometry error.
func IsGeometryError(err error) bool { return CodeOf(err) == CodeGeometry }

// IsUnresolved returns true if err reports an unresolved detection.
func IsUnresolved(err error) bool { return CodeOf(err) == CodeUnresolvedDetection }

// IsBijectiveMatchFailure returns true if err reports a failed group match.
func IsBijectiveMatchFailure(err error) bool { return CodeOf(err) == CodeBijectiveMatchFailure }

// IsInvalidKeySignature returns true if err reports a rejected key signature.
func IsInvalidKeySignature(err error) bool { return CodeOf(err) == CodeInvalidKeySignature }

// IsMissingClef returns true if err reports a note without a clef.
func IsMissingClef(err error) bool { return CodeOf(err) == CodeMissingClef }

// Fatal reports whether the code stops processing of the whole page.
func (c Code) Fatal() bool { return c == CodeEmptyPage }
