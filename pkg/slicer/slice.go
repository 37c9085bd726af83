// Package slicer cuts triangle meshes with planes and turns the resulting
// segment soup into nested contour trees.
package slicer

import (
	"fmt"

	"github.com/chazu/kerf/pkg/clip"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/mesh"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Stats summarises one Slice call across its three passes.
type Stats struct {
	Passes     int
	Crossing   int // triangles crossing a test plane
	Coplanar   int // coplanar triangles whose edges were emitted
	Segments   int
	Loops      int
	Open       int
	Degenerate int
}

func (s *Stats) add(r StitchResult, segs int) {
	s.Passes++
	s.Segments += segs
	s.Loops += len(r.Loops)
	s.Open += r.Open
	s.Degenerate += r.Degenerate
}

// Slicer intersects meshes with planes.
type Slicer struct {
	// Epsilon is the distance of the two auxiliary test planes from the
	// requested plane.
	Epsilon float64
	// Snap is the endpoint snapping distance in fixed units.
	Snap   int64
	Engine clip.Engine
}

// New returns a Slicer configured from cfg that combines passes with engine.
func New(cfg config.Config, engine clip.Engine) *Slicer {
	return &Slicer{
		Epsilon: cfg.SliceEpsilon,
		Snap:    cfg.SnapDistance,
		Engine:  engine,
	}
}

// Slice returns the cross-section of m in plane p as a contour tree in the
// plane's 2D frame. The mesh is cut at p and at p offset by -Epsilon and
// +Epsilon; each pass is stitched into loops and the three resulting
// regions are unioned.
func (s *Slicer) Slice(m *mesh.TriangleMesh, p geom.Plane) (*contour.Tree, Stats, error) {
	var st Stats
	offsets := []float64{-s.Epsilon, 0, s.Epsilon}
	if s.Epsilon == 0 {
		offsets = []float64{0}
	}
	var all []fixed.Contour
	for _, d := range offsets {
		segs := s.segments(m, p.Offset(d), p, &st)
		res := StitchDirected(segs, s.Snap)
		st.add(res, len(segs))
		// Shells run counter-clockwise and cavities clockwise, so non-zero
		// filling merges overlapping or nested shells and keeps cavities
		// as holes.
		pass, err := s.Engine.Boolean(clip.Union, res.Loops, nil, clip.NonZero)
		if err != nil {
			return nil, st, fmt.Errorf("slicer: pass at offset %g: %w", d, err)
		}
		all = append(all, pass.Contours()...)
	}
	t, err := s.Engine.Boolean(clip.Union, all, nil, clip.NonZero)
	if err != nil {
		return nil, st, fmt.Errorf("slicer: combine passes: %w", err)
	}
	return t, st, nil
}

// SliceMany slices m at count planes starting at p and stepping step along
// its normal.
func (s *Slicer) SliceMany(m *mesh.TriangleMesh, p geom.Plane, step float64, count int) ([]*contour.Tree, error) {
	out := make([]*contour.Tree, 0, count)
	for i := range count {
		t, _, err := s.Slice(m, p.Offset(float64(i)*step))
		if err != nil {
			return nil, fmt.Errorf("slicer: layer %d: %w", i, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Segments returns the raw intersection segments of m with test, projected
// into the frame of frame. Each segment is directed so that the material
// bounded by the face it came from lies on its left.
func Segments(m *mesh.TriangleMesh, test, frame geom.Plane) []Segment {
	var st Stats
	return (&Slicer{}).segments(m, test, frame, &st)
}

func (s *Slicer) segments(m *mesh.TriangleMesh, test, frame geom.Plane, st *Stats) []Segment {
	pos := make([]v3.Vec, m.VertexCount())
	dist := make([]float64, len(pos))
	for i := range pos {
		pos[i] = m.WorldVertex(i)
		dist[i] = test.Distance(pos[i])
	}
	// cut returns the crossing point of edge i-j. Points are always
	// computed from the lower index so that neighbouring triangles agree
	// exactly.
	cut := func(i, j int) fixed.Point {
		if i > j {
			i, j = j, i
		}
		t := dist[i] / (dist[i] - dist[j])
		return frame.Project(pos[i].Add(pos[j].Sub(pos[i]).MulScalar(t)))
	}
	// The frame basis is right-handed about the plane normal, so the
	// direction normal x faceNormal keeps the solid behind the face on the
	// left of the cut.
	u, v := frame.Basis()
	leftOf := func(tri [3]int) (dx, dy float64) {
		a, b, c := pos[tri[0]], pos[tri[1]], pos[tri[2]]
		d := test.Normal.Cross(b.Sub(a).Cross(c.Sub(a)))
		return d.Dot(u), d.Dot(v)
	}

	var out []Segment
	for _, tri := range m.Triangles {
		d0, d1, d2 := dist[tri[0]], dist[tri[1]], dist[tri[2]]
		if d0 == 0 && d1 == 0 && d2 == 0 {
			// Coplanar faces contribute their outline when they face away
			// from the plane normal, bounding material on the positive side.
			// Seen along the normal such a face winds clockwise, so its
			// edges are reversed.
			a, b, c := pos[tri[0]], pos[tri[1]], pos[tri[2]]
			if b.Sub(a).Cross(c.Sub(a)).Dot(test.Normal) < 0 {
				st.Coplanar++
				for k := range 3 {
					i, j := tri[k], tri[(k+1)%3]
					out = append(out, Segment{frame.Project(pos[j]), frame.Project(pos[i])})
				}
			}
			continue
		}
		// Vertices on the plane count as above it.
		var above [3]bool
		n := 0
		for k, vi := range tri {
			if above[k] = dist[vi] >= 0; above[k] {
				n++
			}
		}
		if n == 0 || n == 3 {
			continue
		}
		st.Crossing++
		var pts [2]fixed.Point
		c := 0
		for k := range 3 {
			if above[k] != above[(k+1)%3] {
				pts[c] = cut(tri[k], tri[(k+1)%3])
				c++
			}
		}
		dx, dy := leftOf(tri)
		sx, sy := fixed.ToFloat(pts[1].X-pts[0].X), fixed.ToFloat(pts[1].Y-pts[0].Y)
		if sx*dx+sy*dy < 0 {
			pts[0], pts[1] = pts[1], pts[0]
		}
		out = append(out, Segment{pts[0], pts[1]})
	}
	return out
}
