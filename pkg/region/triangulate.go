package region

import (
	"fmt"
	"math"
	"sort"

	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/polygon"
)

// seedOffsets are the distances, in fixed units, a hole seed is moved off
// the hole's boundary, tried in order until the point lands inside.
var seedOffsets = []float64{4, 2, 1}

// Triangulation is a region filled with planar triangles.
type Triangulation struct {
	*polygon.Mesh2D
	// Seeds holds one interior point per seeded hole. Holes too thin to
	// hold a fixed-point seed are counted in Dropped and clear Complete.
	Seeds []fixed.Point
}

// Area returns the triangulated area in working units squared.
func (t *Triangulation) Area() float64 {
	var a float64
	for i := range t.TriangleCount() {
		a += t.Triangle(i).Area()
	}
	return a / (fixed.Scale * fixed.Scale)
}

// ToMesh lifts the triangles into 3D on plane p. Vertices closer than eps
// are merged.
func (t *Triangulation) ToMesh(p geom.Plane, eps float64) *mesh.TriangleMesh {
	m := mesh.New(eps)
	for i := range t.TriangleCount() {
		tri := t.Triangle(i)
		m.AddTriangle(p.Unproject(tri[0]), p.Unproject(tri[1]), p.Unproject(tri[2]))
	}
	return m
}

// Triangulate fills the region using tr. Every contour is passed as a
// closed chain of boundary segments and every hole is marked with a seed
// point just inside its longest edge.
func (r *Region) Triangulate(tr polygon.Constrained) (*Triangulation, error) {
	var (
		points   []fixed.Point
		segs     []polygon.Segment
		seeds    []fixed.Point
		unseeded int
	)
	for _, n := range r.tree.Nodes[1:] {
		base := len(points)
		points = append(points, n.Contour...)
		for i := range n.Contour {
			segs = append(segs, polygon.Segment{base + i, base + (i+1)%len(n.Contour)})
		}
		if n.Hole {
			if s, ok := HoleSeed(n.Contour); ok {
				seeds = append(seeds, s)
			} else {
				unseeded++
			}
		}
	}
	m, err := tr.TriangulateSegments(points, segs, seeds)
	if err != nil {
		return nil, fmt.Errorf("region: triangulate: %w", err)
	}
	if unseeded > 0 {
		m.Dropped += unseeded
		m.Complete = false
	}
	return &Triangulation{Mesh2D: m, Seeds: seeds}, nil
}

// HoleSeed returns a point strictly inside the hole c. Edges are tried
// longest first: the seed is the edge midpoint moved a short way along the
// edge's right-hand normal, which points inward for a clockwise hole, then
// along the left-hand one. ok is false when no such point lies inside c.
func HoleSeed(c fixed.Contour) (fixed.Point, bool) {
	if len(c) < 3 {
		return fixed.Point{}, false
	}
	order := make([]int, len(c))
	lengths := make([]float64, len(c))
	for i := range c {
		order[i] = i
		a, b := c.Edge(i)
		lengths[i] = b.Sub(a).Length()
	}
	sort.SliceStable(order, func(i, j int) bool { return lengths[order[i]] > lengths[order[j]] })

	for _, i := range order {
		l := lengths[i]
		if l == 0 {
			break
		}
		a, b := c.Edge(i)
		d := b.Sub(a)
		mx := (float64(a.X) + float64(b.X)) / 2
		my := (float64(a.Y) + float64(b.Y)) / 2
		nx, ny := float64(d.Y)/l, -float64(d.X)/l
		for _, side := range []float64{1, -1} {
			for _, off := range seedOffsets {
				p := fixed.Point{
					X: int64(math.Round(mx + side*nx*off)),
					Y: int64(math.Round(my + side*ny*off)),
				}
				if c.Contains(p) {
					return p, true
				}
			}
		}
	}
	return fixed.Point{}, false
}
