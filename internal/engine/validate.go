package engine

import (
	"github.com/roach88/notemap/internal/classify"
	"github.com/roach88/notemap/internal/ir"
)

// Validate checks the structure of page p without reconstructing it.
//
// It returns the diagnostics Process records before labeling starts:
// an empty page, unknown or duplicate detections and staves with fewer
// than two lines. The page is processable when none of them is fatal.
func (e *Engine) Validate(p ir.Page) []*ir.Error {
	var diags []*ir.Error
	if len(p.Staves) == 0 || len(p.Detections) == 0 {
		diags = append(diags, ir.Errorf(ir.CodeEmptyPage,
			"page has %d staves and %d detections", len(p.Staves), len(p.Detections)))
	}

	_, cdiags := classify.Classify(p.Detections, e.ids)
	diags = append(diags, cdiags...)

	res := &Result{}
	systems := e.buildSystems(res, p.Staves)
	diags = append(diags, res.Diagnostics...)
	if len(p.Staves) > 0 && len(systems) == 0 {
		diags = append(diags, ir.Errorf(ir.CodeEmptyPage,
			"none of %d staves has two or more lines", len(p.Staves)))
	}
	return diags
}
