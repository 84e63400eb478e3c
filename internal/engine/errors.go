package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/notemap/internal/ir"
)

// PageError reports a page the engine could not reconstruct at all.
type PageError struct {
	// Page is the page name.
	Page string

	// Cause is the diagnostic that stopped processing.
	Cause *ir.Error
}

// Error implements the error interface.
func (e *PageError) Error() string {
	if e.Page != "" {
		return fmt.Sprintf("page %s: %v", e.Page, e.Cause)
	}
	return e.Cause.Error()
}

// Unwrap exposes the diagnostic to errors.As and ir.CodeOf.
func (e *PageError) Unwrap() error { return e.Cause }

// IsPageError returns true if err stopped a whole page.
// Uses errors.As to handle wrapped errors.
func IsPageError(err error) bool {
	var pe *PageError
	return errors.As(err, &pe)
}
