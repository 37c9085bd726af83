package mesh

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// SetTransform sets the affine placement applied to vertices on read.
// Stored vertices are not modified.
func (m *TriangleMesh) SetTransform(t sdf.M44) {
	m.transform = t
	m.hasTransform = true
}

// ClearTransform removes the placement.
func (m *TriangleMesh) ClearTransform() {
	m.hasTransform = false
}

// WorldVertex returns vertex i with the placement applied.
func (m *TriangleMesh) WorldVertex(i int) v3.Vec {
	if !m.hasTransform {
		return m.Vertices[i]
	}
	return m.transform.MulPosition(m.Vertices[i])
}

// WorldBounds returns the bounding box of the placed mesh.
func (m *TriangleMesh) WorldBounds() sdf.Box3 {
	if !m.hasTransform || len(m.Vertices) == 0 {
		return m.bounds
	}
	lo := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for i := range m.Vertices {
		p := m.WorldVertex(i)
		lo = v3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = v3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return sdf.Box3{Min: lo, Max: hi}
}

// Baked returns a copy of the mesh with the placement applied to the stored
// vertices and no pending transform.
func (m *TriangleMesh) Baked() *TriangleMesh {
	out := New(m.Epsilon)
	for _, tri := range m.Triangles {
		out.AddTriangle(m.WorldVertex(tri[0]), m.WorldVertex(tri[1]), m.WorldVertex(tri[2]))
	}
	return out
}
