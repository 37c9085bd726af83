package region

import (
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/samber/lo"
)

// filter copies the nodes accepted by keep. A rejected node drops its
// whole subtree.
func (r *Region) filter(keep func(n contour.Node) bool) *Region {
	out := contour.New()
	ids := make([]contour.NodeID, len(r.tree.Nodes))
	r.tree.Walk(func(id contour.NodeID, _ int) bool {
		n := r.tree.Nodes[id]
		if !keep(n) {
			return false
		}
		ids[id] = out.Add(ids[n.Parent], n.Contour.Clone(), n.Hole)
		return true
	})
	return r.with(out)
}

// RemoveHoles returns r with every hole whose perimeter is below
// maxPerimeter working units filled in, together with anything nested
// inside it.
func (r *Region) RemoveHoles(maxPerimeter float64) *Region {
	return r.filter(func(n contour.Node) bool {
		return !n.Hole || n.Contour.Perimeter()/fixed.Scale >= maxPerimeter
	})
}

// PolygonsWithHoles keeps the top-level polygons that have at least one
// hole.
func (r *Region) PolygonsWithHoles() *Region {
	return r.with(r.tree.Subtree(lo.Filter(r.tree.TopLevel(), func(id contour.NodeID, _ int) bool {
		return len(r.tree.Nodes[id].Children) > 0
	})...))
}

// PolygonsWithoutHoles keeps the top-level polygons that have no holes.
func (r *Region) PolygonsWithoutHoles() *Region {
	return r.with(r.tree.Subtree(lo.Filter(r.tree.TopLevel(), func(id contour.NodeID, _ int) bool {
		return len(r.tree.Nodes[id].Children) == 0
	})...))
}

// IndividualPolygons splits r into one region per top-level outer contour,
// each carrying all of its descendants.
func (r *Region) IndividualPolygons() []*Region {
	return lo.Map(r.tree.TopLevel(), func(id contour.NodeID, _ int) *Region {
		return r.with(r.tree.Subtree(id))
	})
}

// OutsidePairs returns, for every outer contour at depth 0, 4, 8 and so
// on, a region holding that outer and its direct holes. These are the
// outermost boundaries of material and of every second island level.
func (r *Region) OutsidePairs() []*Region { return r.pairs(0) }

// InsidePairs is OutsidePairs for outers at depth 2, 6, 10 and so on: the
// islands sitting directly inside top-level holes.
func (r *Region) InsidePairs() []*Region { return r.pairs(2) }

func (r *Region) pairs(parity int) []*Region {
	var out []*Region
	r.tree.Walk(func(id contour.NodeID, depth int) bool {
		n := r.tree.Nodes[id]
		if n.Hole || depth%4 != parity {
			return true
		}
		t := contour.New()
		o := t.Add(contour.Root, n.Contour.Clone(), false)
		for _, c := range n.Children {
			t.Add(o, r.tree.Nodes[c].Contour.Clone(), true)
		}
		out = append(out, r.with(t))
		return true
	})
	return out
}
