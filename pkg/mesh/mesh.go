// Package mesh implements the indexed triangle mesh shared by solids,
// slicing and extrusion.
//
// Storage is structure-of-arrays: a vertex array, a triangle array of
// vertex indices, and an edge table keyed by the sorted vertex-index pair
// that lists the triangles touching each edge. Vertices are merged within
// an epsilon distance as they are added; the lookup uses an R-tree.
package mesh

import (
	"math"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"
)

// Edge is an undirected edge between two vertex indices, stored with A < B.
type Edge struct {
	A, B int
}

// NewEdge returns the edge between a and b in canonical order.
func NewEdge(a, b int) Edge {
	if a > b {
		a, b = b, a
	}
	return Edge{a, b}
}

// TriangleMesh is an indexed triangle mesh. The zero value is not usable;
// call New.
type TriangleMesh struct {
	Vertices  []v3.Vec
	Triangles [][3]int

	// Epsilon is the vertex merge distance.
	Epsilon float64

	edges  map[Edge][]int
	exact  map[v3.Vec]int
	index  *rtreego.Rtree
	bounds sdf.Box3

	transform    sdf.M44
	hasTransform bool
}

// New returns an empty mesh that merges vertices closer than eps.
func New(eps float64) *TriangleMesh {
	return &TriangleMesh{
		Epsilon: math.Max(eps, 0),
		edges:   make(map[Edge][]int),
		exact:   make(map[v3.Vec]int),
		index:   rtreego.NewTree(3, 25, 50),
	}
}

// NewFromConfig returns an empty mesh using cfg.MergeEpsilon.
func NewFromConfig(cfg config.Config) *TriangleMesh {
	return New(cfg.MergeEpsilon)
}

// vertexEntry is a vertex stored in the R-tree.
type vertexEntry struct {
	id   int
	rect rtreego.Rect
}

func (e *vertexEntry) Bounds() rtreego.Rect { return e.rect }

func toPoint(p v3.Vec) rtreego.Point { return rtreego.Point{p.X, p.Y, p.Z} }

// AddVertex returns the index of the existing vertex nearest to p within
// Epsilon, or appends p as a new vertex.
func (m *TriangleMesh) AddVertex(p v3.Vec) int {
	if i, ok := m.exact[p]; ok {
		return i
	}
	if m.Epsilon > 0 && m.index.Size() > 0 {
		best, bestDist := -1, math.Inf(1)
		for _, s := range m.index.SearchIntersect(toPoint(p).ToRect(m.Epsilon)) {
			id := s.(*vertexEntry).id
			if d := m.Vertices[id].Sub(p).Length(); d <= m.Epsilon && d < bestDist {
				best, bestDist = id, d
			}
		}
		if best >= 0 {
			return best
		}
	}

	id := len(m.Vertices)
	m.Vertices = append(m.Vertices, p)
	m.exact[p] = id
	if m.Epsilon > 0 {
		m.index.Insert(&vertexEntry{id: id, rect: toPoint(p).ToRect(m.Epsilon / 2)})
	}
	if id == 0 {
		m.bounds = sdf.Box3{Min: p, Max: p}
	} else {
		m.bounds = sdf.Box3{
			Min: v3.Vec{X: math.Min(m.bounds.Min.X, p.X), Y: math.Min(m.bounds.Min.Y, p.Y), Z: math.Min(m.bounds.Min.Z, p.Z)},
			Max: v3.Vec{X: math.Max(m.bounds.Max.X, p.X), Y: math.Max(m.bounds.Max.Y, p.Y), Z: math.Max(m.bounds.Max.Z, p.Z)},
		}
	}
	return id
}

// AddTriangle merges the corners into the vertex set and appends the
// triangle. It returns the new triangle index, or ok == false when two
// corners resolve to the same vertex and the triangle is dropped.
func (m *TriangleMesh) AddTriangle(a, b, c v3.Vec) (int, bool) {
	ia, ib, ic := m.AddVertex(a), m.AddVertex(b), m.AddVertex(c)
	return m.AddIndexed(ia, ib, ic)
}

// AddIndexed appends a triangle over existing vertex indices, rejecting
// repeated indices.
func (m *TriangleMesh) AddIndexed(a, b, c int) (int, bool) {
	if a == b || b == c || c == a {
		return -1, false
	}
	t := len(m.Triangles)
	m.Triangles = append(m.Triangles, [3]int{a, b, c})
	m.link(t)
	return t, true
}

func (m *TriangleMesh) link(t int) {
	tri := m.Triangles[t]
	for i := range 3 {
		e := NewEdge(tri[i], tri[(i+1)%3])
		m.edges[e] = append(m.edges[e], t)
	}
}

func (m *TriangleMesh) unlink(t int) {
	tri := m.Triangles[t]
	for i := range 3 {
		e := NewEdge(tri[i], tri[(i+1)%3])
		ts := m.edges[e]
		for j, u := range ts {
			if u == t {
				ts = append(ts[:j], ts[j+1:]...)
				break
			}
		}
		if len(ts) == 0 {
			delete(m.edges, e)
		} else {
			m.edges[e] = ts
		}
	}
}

// VertexCount returns the number of vertices.
func (m *TriangleMesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m *TriangleMesh) TriangleCount() int { return len(m.Triangles) }

// EdgeCount returns the number of distinct edges.
func (m *TriangleMesh) EdgeCount() int { return len(m.edges) }

// IsEmpty reports whether the mesh has no triangles.
func (m *TriangleMesh) IsEmpty() bool { return len(m.Triangles) == 0 }

// Triangle returns triangle t in local coordinates.
func (m *TriangleMesh) Triangle(t int) geom.Triangle {
	tri := m.Triangles[t]
	return geom.Triangle{m.Vertices[tri[0]], m.Vertices[tri[1]], m.Vertices[tri[2]]}
}

// EdgeTriangles returns the triangles touching the edge between vertices a
// and b. The returned slice must not be modified.
func (m *TriangleMesh) EdgeTriangles(a, b int) []int {
	return m.edges[NewEdge(a, b)]
}

// Edges calls fn for every edge with the triangles touching it.
func (m *TriangleMesh) Edges(fn func(e Edge, tris []int)) {
	for e, ts := range m.edges {
		fn(e, ts)
	}
}

// Bounds returns the local-space bounding box.
func (m *TriangleMesh) Bounds() sdf.Box3 {
	return m.bounds
}
