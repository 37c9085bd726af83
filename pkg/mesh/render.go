package mesh

import "math"

// Render is a triangle mesh flattened for display. All arrays are flat:
// Vertices has 3 floats per vertex (x,y,z), Normals has 3 floats per vertex,
// Indices has 3 uint32s per triangle.
type Render struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which solid or section this came from
}

// VertexCount returns the number of vertices.
func (r *Render) VertexCount() int {
	return len(r.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (r *Render) TriangleCount() int {
	return len(r.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (r *Render) IsEmpty() bool {
	return len(r.Vertices) == 0
}

// Render flattens the placed mesh. Per-vertex normals are the area-weighted
// average of the surrounding face normals.
func (m *TriangleMesh) Render(name string) *Render {
	n := len(m.Vertices)
	r := &Render{
		Vertices: make([]float32, 0, n*3),
		Normals:  make([]float32, n*3),
		Indices:  make([]uint32, 0, len(m.Triangles)*3),
		Name:     name,
	}
	for i := range m.Vertices {
		p := m.WorldVertex(i)
		r.Vertices = append(r.Vertices, float32(p.X), float32(p.Y), float32(p.Z))
	}

	acc := make([]float64, n*3)
	for _, tri := range m.Triangles {
		a, b, c := m.WorldVertex(tri[0]), m.WorldVertex(tri[1]), m.WorldVertex(tri[2])
		fn := b.Sub(a).Cross(c.Sub(a))
		for _, v := range tri {
			acc[v*3] += fn.X
			acc[v*3+1] += fn.Y
			acc[v*3+2] += fn.Z
			r.Indices = append(r.Indices, uint32(v))
		}
	}
	for i := 0; i < n; i++ {
		x, y, z := acc[i*3], acc[i*3+1], acc[i*3+2]
		l := x*x + y*y + z*z
		if l == 0 {
			continue
		}
		l = 1 / math.Sqrt(l)
		r.Normals[i*3] = float32(x * l)
		r.Normals[i*3+1] = float32(y * l)
		r.Normals[i*3+2] = float32(z * l)
	}
	return r
}
