package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/testutil"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		page  ir.Page
		codes []ir.Code
	}{
		{
			name:  "valid page",
			page:  treblePage(),
			codes: nil,
		},
		{
			name:  "no detections",
			page:  testutil.NewPage("empty").Staff(testutil.Staff(100, 10, 5)...).Page(),
			codes: []ir.Code{ir.CodeEmptyPage},
		},
		{
			name: "unknown tag and thin staff",
			page: testutil.NewPage("bad").
				Staff(50).
				Staff(testutil.Staff(100, 10, 5)...).
				At("f_1", 60, 130).
				At("zz_1", 80, 130).
				Page(),
			codes: []ir.Code{ir.CodeUnknownTag, ir.CodeGeometry},
		},
		{
			name:  "no usable staff",
			page:  testutil.NewPage("thin").Staff(100).At("f_1", 60, 100).Page(),
			codes: []ir.Code{ir.CodeGeometry, ir.CodeEmptyPage},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := newTestEngine().Validate(tt.page)
			var codes []ir.Code
			for _, d := range diags {
				codes = append(codes, d.Code)
			}
			assert.Equal(t, tt.codes, codes)
		})
	}
}

func TestValidate_AgreesWithProcess(t *testing.T) {
	p := testutil.NewPage("dup").
		Staff(testutil.Staff(100, 10, 5)...).
		Box("cg_1", 10, 90, 30, 150).
		At("f_1", 60, 130).
		At("f_1", 60, 130).
		Page()

	diags := newTestEngine().Validate(p)
	res, err := newTestEngine().Process(p)
	assert.NoError(t, err)
	assert.Len(t, diags, 1)
	assert.Equal(t, 1, res.Count(diags[0].Code))
}
