package testutil

import "github.com/roach88/notemap/internal/ir"

// Staff returns n evenly spaced line positions starting at top.
func Staff(top, gap, n int) []int {
	lines := make([]int, n)
	for i := range lines {
		lines[i] = top + i*gap
	}
	return lines
}

// PageBuilder assembles an ir.Page detection by detection.
//
// Example:
//
//	p := testutil.NewPage("p1").
//		Staff(testutil.Staff(100, 10, 5)...).
//		Box("cg_1", 10, 90, 30, 150).
//		At("f_1", 55, 130).
//		Page()
type PageBuilder struct {
	page ir.Page
}

// NewPage starts an empty page.
func NewPage(name string) *PageBuilder {
	return &PageBuilder{page: ir.Page{Name: name}}
}

// Staff adds a stave with the given line positions.
func (b *PageBuilder) Staff(lines ...int) *PageBuilder {
	b.page.Staves = append(b.page.Staves, lines)
	return b
}

// Box adds a detection with explicit corners.
func (b *PageBuilder) Box(tag string, x1, y1, x2, y2 int) *PageBuilder {
	b.page.Detections = append(b.page.Detections, ir.RawDetection{
		TopLeft:     ir.Point{X: x1, Y: y1},
		BottomRight: ir.Point{X: x2, Y: y2},
		Confidence:  0.9,
		Tag:         tag,
	})
	return b
}

// At adds a 10x10 detection centered on (x, y).
func (b *PageBuilder) At(tag string, x, y int) *PageBuilder {
	return b.Box(tag, x-5, y-5, x+5, y+5)
}

// Centroid adds a ledger-line centroid.
func (b *PageBuilder) Centroid(x, y int) *PageBuilder {
	b.page.Centroids = append(b.page.Centroids, ir.Point{X: x, Y: y})
	return b
}

// Page returns the assembled page.
func (b *PageBuilder) Page() ir.Page { return b.page }
