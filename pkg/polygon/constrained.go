package polygon

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
)

// ErrOpenBoundary is returned when boundary segments do not form closed
// loops.
var ErrOpenBoundary = errors.New("polygon: boundary segments do not form closed loops")

// Segment joins two entries of a point list by index.
type Segment [2]int

// Mesh2D is an indexed planar triangle set.
type Mesh2D struct {
	Vertices []fixed.Point
	Indices  []int // three per triangle, counter-clockwise
	Complete bool
	Dropped  int
}

// TriangleCount returns the number of triangles.
func (m *Mesh2D) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the i-th triangle.
func (m *Mesh2D) Triangle(i int) Triangle {
	return Triangle{m.Vertices[m.Indices[3*i]], m.Vertices[m.Indices[3*i+1]], m.Vertices[m.Indices[3*i+2]]}
}

// Constrained is a constrained triangulation service: it fills the faces
// bounded by segments, leaving empty every face that contains a hole seed
// and everything outside the outermost loops.
type Constrained interface {
	TriangulateSegments(points []fixed.Point, segments []Segment, holeSeeds []fixed.Point) (*Mesh2D, error)
}

// Compile-time interface check.
var _ Constrained = (*Triangulator)(nil)

// TriangulateSegments implements Constrained on top of bridging and ear
// clipping. Every point referenced by segments must have exactly two
// incident segments.
func (tr *Triangulator) TriangulateSegments(points []fixed.Point, segments []Segment, holeSeeds []fixed.Point) (*Mesh2D, error) {
	loops, err := loopsFromSegments(points, segments)
	if err != nil {
		return nil, err
	}
	t := contour.FromContours(loops)

	out := &Mesh2D{Complete: true}
	index := make(map[fixed.Point]int)
	vertex := func(p fixed.Point) int {
		if i, ok := index[p]; ok {
			return i
		}
		i := len(out.Vertices)
		out.Vertices = append(out.Vertices, p)
		index[p] = i
		return i
	}

	t.Walk(func(id contour.NodeID, _ int) bool {
		n := t.Nodes[id]
		holes := make([]fixed.Contour, 0, len(n.Children))
		for _, c := range n.Children {
			holes = append(holes, t.Nodes[c].Contour)
		}
		if faceHasSeed(n.Contour, holes, holeSeeds) {
			return true
		}
		res := tr.TriangulateGroup(n.Contour, holes)
		out.Complete = out.Complete && res.Complete
		out.Dropped += res.Dropped
		for _, tri := range res.Triangles {
			out.Indices = append(out.Indices, vertex(tri[0]), vertex(tri[1]), vertex(tri[2]))
		}
		return true
	})
	return out, nil
}

// faceHasSeed reports whether a seed lies inside outer but outside every
// contour in inner.
func faceHasSeed(outer fixed.Contour, inner []fixed.Contour, seeds []fixed.Point) bool {
next:
	for _, s := range seeds {
		if !outer.Contains(s) {
			continue
		}
		for _, c := range inner {
			if c.Contains(s) || contour.OnBoundary(c, s) {
				continue next
			}
		}
		return true
	}
	return false
}

// loopsFromSegments walks segments into closed loops.
func loopsFromSegments(points []fixed.Point, segments []Segment) ([]fixed.Contour, error) {
	adj := make(map[int][]int)
	for _, s := range segments {
		for _, i := range s {
			if i < 0 || i >= len(points) {
				return nil, fmt.Errorf("%w: segment %v references point %d of %d", ErrOpenBoundary, s, i, len(points))
			}
		}
		if s[0] == s[1] {
			continue
		}
		adj[s[0]] = append(adj[s[0]], s[1])
		adj[s[1]] = append(adj[s[1]], s[0])
	}
	for v, ns := range adj {
		if len(ns) != 2 {
			return nil, fmt.Errorf("%w: point %d has %d incident segments", ErrOpenBoundary, v, len(ns))
		}
	}

	visited := make(map[int]bool, len(adj))
	var loops []fixed.Contour
	// Walk in segment order so the output is deterministic.
	for _, s := range segments {
		start := s[0]
		if visited[start] || s[0] == s[1] {
			continue
		}
		var loop fixed.Contour
		prev, cur := -1, start
		for !visited[cur] {
			visited[cur] = true
			loop = append(loop, points[cur])
			ns := adj[cur]
			nxt := ns[0]
			if nxt == prev {
				nxt = ns[1]
			}
			prev, cur = cur, nxt
		}
		loops = append(loops, loop)
	}
	return loops, nil
}
