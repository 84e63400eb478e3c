package ir

import "math"

// Point is an integer pixel coordinate.
type Point struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Distance returns the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	dx := float64(p.X - other.X)
	dy := float64(p.Y - other.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	TopLeft     Point `json:"top_left" yaml:"top_left"`
	BottomRight Point `json:"bottom_right" yaml:"bottom_right"`
}

// NewBox builds a box from two corners in any order.
func NewBox(a, b Point) Box {
	return Box{
		TopLeft:     Point{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		BottomRight: Point{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int { return b.BottomRight.X - b.TopLeft.X }

// Height returns the vertical extent of the box.
func (b Box) Height() int { return b.BottomRight.Y - b.TopLeft.Y }

// CenterX returns the exact horizontal center.
func (b Box) CenterX() float64 { return float64(b.TopLeft.X+b.BottomRight.X) / 2 }

// CenterY returns the exact vertical center.
func (b Box) CenterY() float64 { return float64(b.TopLeft.Y+b.BottomRight.Y) / 2 }

// CenterInt returns the center rounded down on both axes.
func (b Box) CenterInt() Point {
	return Point{
		X: floorDiv(b.TopLeft.X+b.BottomRight.X, 2),
		Y: floorDiv(b.TopLeft.Y+b.BottomRight.Y, 2),
	}
}

// Contains reports whether p lies inside the box, borders included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.TopLeft.X && p.X <= b.BottomRight.X &&
		p.Y >= b.TopLeft.Y && p.Y <= b.BottomRight.Y
}

// OverlapsX reports whether the horizontal spans of two boxes intersect.
func (b Box) OverlapsX(other Box) bool {
	return b.TopLeft.X <= other.BottomRight.X && b.BottomRight.X >= other.TopLeft.X
}

// ClosestPoint returns the point of the box nearest to p.
func (b Box) ClosestPoint(p Point) Point {
	return Point{
		X: max(b.TopLeft.X, min(p.X, b.BottomRight.X)),
		Y: max(b.TopLeft.Y, min(p.Y, b.BottomRight.Y)),
	}
}

// StaffRange identifies a staff by the y of its first and last anchor line.
type StaffRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// Mid returns the integer vertical midpoint of the range.
func (r StaffRange) Mid() int { return floorDiv(r.Start+r.End, 2) }

// Span returns the distance between the first and last line.
func (r StaffRange) Span() int { return r.End - r.Start }

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	m := a % b
	if m != 0 && ((m < 0) != (b < 0)) {
		m += b
	}
	return m
}

// FloorMod is the always-non-negative modulo used for pitch residues and
// label cycling.
func FloorMod(a, b int) int { return floorMod(a, b) }
