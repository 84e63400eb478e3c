package accidental

import (
	"cmp"
	"slices"

	"github.com/roach88/notemap/internal/ir"
)

// Member is an accidental with its matching anchor.
type Member struct {
	Detection ir.Detection
	Anchor    ir.Point
}

// Group is a set of accidentals merged by proximity, ordered by anchor
// (x, y) then ID.
type Group struct {
	Members []Member
}

// Anchor returns the point an accidental is matched by. Flats are anchored
// two thirds down their box, where the glyph's bowl sits; other kinds at
// the box center.
func Anchor(d ir.Detection) ir.Point {
	c := d.Box.CenterInt()
	if d.Class.Accidental == ir.Flat {
		c.Y = d.Box.TopLeft.Y + 2*d.Box.Height()/3
	}
	return c
}

func compareAnchored(a, b ir.Point, aID, bID string) int {
	return cmp.Or(cmp.Compare(a.X, b.X), cmp.Compare(a.Y, b.Y), cmp.Compare(aID, bID))
}

// GroupAccidentals merges accidentals whose anchors lie closer than
// distance, transitively.
func GroupAccidentals(accs []ir.Detection, distance float64) []Group {
	members := make([]Member, len(accs))
	for i, d := range accs {
		members[i] = Member{Detection: d, Anchor: Anchor(d)}
	}
	slices.SortFunc(members, func(a, b Member) int {
		return compareAnchored(a.Anchor, b.Anchor, a.Detection.ID, b.Detection.ID)
	})

	parent := make([]int, len(members))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if members[i].Anchor.Distance(members[j].Anchor) < distance {
				ri, rj := find(i), find(j)
				if ri != rj {
					// The root is always the smallest index, so groups
					// come out ordered by their first member.
					parent[max(ri, rj)] = min(ri, rj)
				}
			}
		}
	}

	index := make(map[int]int)
	var groups []Group
	for i, m := range members {
		root := find(i)
		g, ok := index[root]
		if !ok {
			g = len(groups)
			index[root] = g
			groups = append(groups, Group{})
		}
		groups[g].Members = append(groups[g].Members, m)
	}
	return groups
}

// IDs returns the member detection IDs in group order.
func (g Group) IDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.Detection.ID
	}
	return ids
}

func (g Group) bounds() (xMax, yMin, yMax int) {
	xMax, yMin, yMax = g.Members[0].Anchor.X, g.Members[0].Anchor.Y, g.Members[0].Anchor.Y
	for _, m := range g.Members[1:] {
		xMax = max(xMax, m.Anchor.X)
		yMin = min(yMin, m.Anchor.Y)
		yMax = max(yMax, m.Anchor.Y)
	}
	return xMax, yMin, yMax
}

func (g Group) leftmost() Member {
	// Members are sorted by x first.
	return g.Members[0]
}

func (g Group) detections() []ir.Detection {
	ds := make([]ir.Detection, len(g.Members))
	for i, m := range g.Members {
		ds[i] = m.Detection
	}
	return ds
}
