package harness

import "github.com/roach88/notemap/internal/engine"

// Result is the outcome of running one scenario.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool

	// Errors collects the failed assertions in scenario order.
	Errors []string

	// Engine is the full engine result for the page.
	Engine *engine.Result
}

// NewResult creates a passing result for r.
func NewResult(r *engine.Result) *Result {
	return &Result{Pass: true, Errors: []string{}, Engine: r}
}

// AddError records a failed assertion.
func (r *Result) AddError(err string) {
	r.Pass = false
	r.Errors = append(r.Errors, err)
}
