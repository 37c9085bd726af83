package mesh

import "sort"

// BoundaryEdges returns the edges touched by exactly one triangle, sorted.
func (m *TriangleMesh) BoundaryEdges() []Edge {
	var out []Edge
	for e, ts := range m.edges {
		if len(ts) == 1 {
			out = append(out, e)
		}
	}
	sortEdges(out)
	return out
}

// NonManifoldEdges returns the edges touched by more than two triangles,
// sorted.
func (m *TriangleMesh) NonManifoldEdges() []Edge {
	var out []Edge
	for e, ts := range m.edges {
		if len(ts) > 2 {
			out = append(out, e)
		}
	}
	sortEdges(out)
	return out
}

func sortEdges(es []Edge) {
	sort.Slice(es, func(i, j int) bool {
		if es[i].A != es[j].A {
			return es[i].A < es[j].A
		}
		return es[i].B < es[j].B
	})
}

// ConnectedComponents groups triangles that share an edge. Each component
// lists triangle indices in breadth-first order; components are ordered by
// their lowest triangle index.
func (m *TriangleMesh) ConnectedComponents() [][]int {
	visited := make([]bool, len(m.Triangles))
	var comps [][]int
	for seed := range m.Triangles {
		if visited[seed] {
			continue
		}
		visited[seed] = true
		comp := []int{seed}
		for head := 0; head < len(comp); head++ {
			tri := m.Triangles[comp[head]]
			for i := range 3 {
				for _, o := range m.edges[NewEdge(tri[i], tri[(i+1)%3])] {
					if !visited[o] {
						visited[o] = true
						comp = append(comp, o)
					}
				}
			}
		}
		comps = append(comps, comp)
	}
	return comps
}

// Component returns a new mesh holding only the given triangles.
func (m *TriangleMesh) Component(tris []int) *TriangleMesh {
	out := New(m.Epsilon)
	for _, t := range tris {
		tri := m.Triangles[t]
		out.AddTriangle(m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]])
	}
	if m.hasTransform {
		out.SetTransform(m.transform)
	}
	return out
}
