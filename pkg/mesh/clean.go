package mesh

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// IsManifold reports whether every edge touches exactly two triangles.
// An empty mesh is not manifold.
func (m *TriangleMesh) IsManifold() bool {
	if len(m.edges) == 0 {
		return false
	}
	for _, ts := range m.edges {
		if len(ts) != 2 {
			return false
		}
	}
	return true
}

// Clean repairs slivers in a closed manifold mesh. It returns false, leaving
// the mesh untouched, if any edge does not touch exactly two triangles.
//
// A sliver is a triangle whose vertex opposite its longest edge lies within
// Epsilon of that edge. It is removed by flipping the longest edge with the
// neighbouring triangle, which keeps the covered quad intact. A flip is only
// made when both new triangles are proper (not slivers) and the new edge
// does not exist yet, so every flip lowers the sliver count and repeated
// calls change nothing.
func (m *TriangleMesh) Clean() bool {
	if !m.IsManifold() {
		return false
	}
	for {
		flipped := false
		for t := range m.Triangles {
			if m.flipSliver(t) {
				flipped = true
			}
		}
		if !flipped {
			return true
		}
	}
}

// longestEdge returns the rotation of triangle t that puts its longest edge
// first: (u, v) is the longest edge and w the opposite vertex.
func (m *TriangleMesh) longestEdge(tri [3]int) (u, v, w int) {
	best, bestLen := 0, -1.0
	for i := range 3 {
		l := m.Vertices[tri[(i+1)%3]].Sub(m.Vertices[tri[i]]).Length()
		if l > bestLen {
			best, bestLen = i, l
		}
	}
	return tri[best], tri[(best+1)%3], tri[(best+2)%3]
}

// height returns the distance of vertex w from the line through u and v.
func (m *TriangleMesh) height(u, v, w int) float64 {
	pu, pv, pw := m.Vertices[u], m.Vertices[v], m.Vertices[w]
	base := pv.Sub(pu).Length()
	if base == 0 {
		return 0
	}
	return pv.Sub(pu).Cross(pw.Sub(pu)).Length() / base
}

// IsSliver reports whether triangle t is a sliver.
func (m *TriangleMesh) IsSliver(t int) bool {
	return m.isSliver(m.Triangles[t])
}

func (m *TriangleMesh) isSliver(tri [3]int) bool {
	u, v, w := m.longestEdge(tri)
	return m.height(u, v, w) <= m.Epsilon
}

func (m *TriangleMesh) normal(a, b, c int) v3.Vec {
	pa := m.Vertices[a]
	return m.Vertices[b].Sub(pa).Cross(m.Vertices[c].Sub(pa))
}

// flipSliver flips the longest edge of triangle t if t is a sliver and the
// flip is valid.
func (m *TriangleMesh) flipSliver(t int) bool {
	tri := m.Triangles[t]
	if !m.isSliver(tri) {
		return false
	}
	u, v, w := m.longestEdge(tri)
	var t2 = -1
	for _, o := range m.edges[NewEdge(u, v)] {
		if o != t {
			t2 = o
		}
	}
	if t2 < 0 {
		return false
	}
	x := -1
	for _, c := range m.Triangles[t2] {
		if c != u && c != v {
			x = c
		}
	}
	if x < 0 || x == w {
		return false
	}
	if _, exists := m.edges[NewEdge(w, x)]; exists {
		return false
	}

	// t is (u, v, w) and t2 is (v, u, x); the quad is u, x, v, w.
	n1 := [3]int{u, x, w}
	n2 := [3]int{x, v, w}
	if m.isSliver(n1) || m.isSliver(n2) {
		return false
	}
	quad := m.normal(u, v, w).Add(m.normal(v, u, x))
	if m.normal(n1[0], n1[1], n1[2]).Dot(quad) <= 0 || m.normal(n2[0], n2[1], n2[2]).Dot(quad) <= 0 {
		return false
	}

	m.unlink(t)
	m.unlink(t2)
	m.Triangles[t] = n1
	m.Triangles[t2] = n2
	m.link(t)
	m.link(t2)
	return true
}
