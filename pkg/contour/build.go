package contour

import (
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/fixed"
)

// FromContours nests a set of simple, mutually non-crossing contours by
// containment. Winding of the input is ignored: each contour is reoriented
// to the convention for its depth. Contours with fewer than three points or
// zero area are skipped.
func FromContours(cs []fixed.Contour) *Tree {
	type item struct {
		c    fixed.Contour
		area float64
	}
	items := make([]item, 0, len(cs))
	for _, c := range cs {
		if len(c) < 3 {
			continue
		}
		a := math.Abs(c.Area())
		if a == 0 {
			continue
		}
		items = append(items, item{c, a})
	}
	// Larger contours first so every parent is placed before its children.
	sort.SliceStable(items, func(i, j int) bool { return items[i].area > items[j].area })

	t := New()
	for _, it := range items {
		parent := Root
	descend:
		for {
			for _, child := range t.Nodes[parent].Children {
				if Encloses(t.Nodes[child].Contour, it.c) {
					parent = child
					continue descend
				}
			}
			break
		}
		hole := parent != Root && !t.Nodes[parent].Hole
		t.Add(parent, Orient(it.c, hole), hole)
	}
	return t
}

// Orient returns c wound counter-clockwise for an outer contour and
// clockwise for a hole, copying only when the winding must change.
func Orient(c fixed.Contour, hole bool) fixed.Contour {
	if c.IsCCW() == hole {
		return c.Reversed()
	}
	return c
}

// Encloses reports whether inner lies inside outer. The decision is made at
// the first vertex of inner that is not on outer's boundary; contours that
// share every vertex are not considered nested.
func Encloses(outer, inner fixed.Contour) bool {
	for _, p := range inner {
		if OnBoundary(outer, p) {
			continue
		}
		return outer.Contains(p)
	}
	return false
}

// OnBoundary reports whether p lies on any edge of c.
func OnBoundary(c fixed.Contour, p fixed.Point) bool {
	for i := range c {
		a, b := c.Edge(i)
		if fixed.OnSegment(p, a, b) {
			return true
		}
	}
	return false
}
