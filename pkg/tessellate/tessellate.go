// Package tessellate turns planar regions back into closed triangle meshes
// by extrusion. One mesh is produced per region.
package tessellate

import (
	"fmt"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/polygon"
	"github.com/chazu/kerf/pkg/region"
)

// Extruder builds prisms from regions.
type Extruder struct {
	Triangulator polygon.Constrained
	// Epsilon is the vertex merge distance of produced meshes.
	Epsilon float64
}

// New returns an Extruder configured from cfg.
func New(cfg config.Config) *Extruder {
	return &Extruder{Triangulator: polygon.New(cfg), Epsilon: cfg.MergeEpsilon}
}

// Extrude sweeps r from plane p along its normal by height. The result has
// a bottom cap facing -normal, a top cap facing +normal and one wall quad
// per boundary edge, all wound outward. An empty region yields an empty
// mesh.
func (e *Extruder) Extrude(r *region.Region, p geom.Plane, height float64) (*mesh.TriangleMesh, error) {
	if height <= 0 {
		return nil, fmt.Errorf("tessellate: height must be positive, got %g", height)
	}
	m := mesh.New(e.Epsilon)
	if r.IsEmpty() {
		return m, nil
	}
	tri, err := r.Triangulate(e.Triangulator)
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	if !tri.Complete {
		return nil, fmt.Errorf("tessellate: triangulation incomplete (%d holes dropped)", tri.Dropped)
	}

	top := p.Offset(height)
	bottom := func(q fixed.Point) int { return m.AddVertex(p.Unproject(q)) }
	upper := func(q fixed.Point) int { return m.AddVertex(top.Unproject(q)) }

	for i := range tri.TriangleCount() {
		t := tri.Triangle(i)
		m.AddIndexed(bottom(t[0]), bottom(t[2]), bottom(t[1]))
		m.AddIndexed(upper(t[0]), upper(t[1]), upper(t[2]))
	}
	for _, edge := range boundary(tri.Mesh2D) {
		a, b := tri.Vertices[edge[0]], tri.Vertices[edge[1]]
		a0, b0, a1, b1 := bottom(a), bottom(b), upper(a), upper(b)
		m.AddIndexed(a0, b0, b1)
		m.AddIndexed(a0, b1, a1)
	}
	return m, nil
}

// ExtrudeLayers extrudes each region as a slab of thickness step, the i-th
// starting at p offset by i*step.
func (e *Extruder) ExtrudeLayers(layers []*region.Region, p geom.Plane, step float64) ([]*mesh.TriangleMesh, error) {
	out := make([]*mesh.TriangleMesh, 0, len(layers))
	for i, r := range layers {
		m, err := e.Extrude(r, p.Offset(float64(i)*step), step)
		if err != nil {
			return nil, fmt.Errorf("tessellate: layer %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// boundary returns the directed edges used by exactly one triangle, in
// triangle order. Material lies to the left of each edge.
func boundary(m *polygon.Mesh2D) [][2]int {
	type key struct{ a, b int }
	count := make(map[key]int)
	norm := func(a, b int) key {
		if a > b {
			a, b = b, a
		}
		return key{a, b}
	}
	for i := 0; i < len(m.Indices); i += 3 {
		for k := range 3 {
			count[norm(m.Indices[i+k], m.Indices[i+(k+1)%3])]++
		}
	}
	var out [][2]int
	for i := 0; i < len(m.Indices); i += 3 {
		for k := range 3 {
			a, b := m.Indices[i+k], m.Indices[i+(k+1)%3]
			if count[norm(a, b)] == 1 {
				out = append(out, [2]int{a, b})
			}
		}
	}
	return out
}
