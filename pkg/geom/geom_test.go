package geom

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/fixed"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearVec(a, b v3.Vec) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

// --- Plane ---

func TestPlaneDistanceAndOffset(t *testing.T) {
	p := NewPlane(v3.Vec{Z: 2}, v3.Vec{Z: 10})
	if !nearVec(p.Normal, v3.Vec{Z: 1}) {
		t.Fatalf("normal not normalized: %v", p.Normal)
	}
	if d := p.Distance(v3.Vec{X: 5, Z: 3}); !near(d, 1) {
		t.Errorf("Distance = %g, want 1", d)
	}
	if d := p.Offset(-0.5).Distance(v3.Vec{Z: 1.5}); !near(d, 0) {
		t.Errorf("offset plane distance = %g, want 0", d)
	}
}

func TestPlaneBasis(t *testing.T) {
	tests := []struct {
		name   string
		normal v3.Vec
	}{
		{"z up", v3.Vec{Z: 1}},
		{"x axis", v3.Vec{X: 1}},
		{"z down", v3.Vec{Z: -1}},
		{"oblique", v3.Vec{X: 1, Y: 2, Z: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlane(v3.Vec{}, tt.normal)
			u, v := p.Basis()
			if !near(u.Length(), 1) || !near(v.Length(), 1) {
				t.Errorf("basis not unit: |u|=%g |v|=%g", u.Length(), v.Length())
			}
			if !near(u.Dot(v), 0) || !near(u.Dot(p.Normal), 0) {
				t.Error("basis not orthogonal")
			}
			if !nearVec(u.Cross(v), p.Normal) {
				t.Errorf("u x v = %v, want %v", u.Cross(v), p.Normal)
			}
		})
	}

	u, v := PlaneZ(0).Basis()
	if !nearVec(u, v3.Vec{X: 1}) || !nearVec(v, v3.Vec{Y: 1}) {
		t.Errorf("PlaneZ basis = %v, %v, want world X, Y", u, v)
	}
}

func TestPlaneProjectRoundTrip(t *testing.T) {
	p := PlaneZ(0.5)
	got := p.Project(v3.Vec{X: 1, Y: 2, Z: 7})
	if got != fixed.Pt(1, 2) {
		t.Errorf("Project = %v, want %v", got, fixed.Pt(1, 2))
	}
	back := p.Unproject(got)
	if !nearVec(back, v3.Vec{X: 1, Y: 2, Z: 0.5}) {
		t.Errorf("Unproject = %v", back)
	}
}

func TestPlaneIntersectSegment(t *testing.T) {
	p := PlaneZ(0.25)
	q, ok := p.IntersectSegment(v3.Vec{Z: 0}, v3.Vec{X: 4, Z: 1})
	if !ok || !nearVec(q, v3.Vec{X: 1, Z: 0.25}) {
		t.Errorf("IntersectSegment = %v, %v", q, ok)
	}
	if _, ok := p.IntersectSegment(v3.Vec{Z: 1}, v3.Vec{Z: 2}); ok {
		t.Error("segment above plane should not intersect")
	}
	if _, ok := p.IntersectSegment(v3.Vec{Z: 0.25}, v3.Vec{X: 1, Z: 0.25}); ok {
		t.Error("segment lying in the plane has no single crossing")
	}
}

// --- Ray ---

func TestRayIntersections(t *testing.T) {
	r := Ray{Origin: v3.Vec{X: 0.25, Y: 0.25, Z: 5}, Dir: v3.Vec{Z: -1}}
	if tt, ok := r.IntersectPlane(PlaneZ(1)); !ok || !near(tt, 4) {
		t.Errorf("IntersectPlane = %g, %v, want 4, true", tt, ok)
	}
	if _, ok := r.IntersectPlane(PlaneZ(10)); ok {
		t.Error("plane behind the ray should not be hit")
	}

	tri := Triangle{{}, {X: 1}, {Y: 1}}
	if tt, ok := r.IntersectTriangle(tri); !ok || !near(tt, 5) {
		t.Errorf("IntersectTriangle = %g, %v, want 5, true", tt, ok)
	}
	miss := Ray{Origin: v3.Vec{X: 2, Y: 2, Z: 5}, Dir: v3.Vec{Z: -1}}
	if _, ok := miss.IntersectTriangle(tri); ok {
		t.Error("ray outside the triangle should miss")
	}
}

// --- Segments and strips ---

func TestLineSegmentDistance(t *testing.T) {
	s := LineSegment{A: v3.Vec{}, B: v3.Vec{X: 2}}
	tests := []struct {
		q    v3.Vec
		want float64
	}{
		{v3.Vec{X: 1, Y: 1}, 1},
		{v3.Vec{X: -3}, 3},
		{v3.Vec{X: 2, Z: 2}, 2},
	}
	for _, tt := range tests {
		if got := s.Distance(tt.q); !near(got, tt.want) {
			t.Errorf("Distance(%v) = %g, want %g", tt.q, got, tt.want)
		}
	}
	if d := (LineSegment{}).Distance(v3.Vec{Y: 2}); !near(d, 2) {
		t.Errorf("degenerate segment distance = %g, want 2", d)
	}
}

func TestLineStrip(t *testing.T) {
	sq := LineStrip{Points: []v3.Vec{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}}
	if got := len(sq.Segments()); got != 3 {
		t.Errorf("open strip segments = %d, want 3", got)
	}
	sq.Closed = true
	if got := sq.Length(); !near(got, 4) {
		t.Errorf("closed strip length = %g, want 4", got)
	}
	if c := sq.Contour(PlaneZ(0)); !c.IsCCW() || len(c) != 4 {
		t.Errorf("Contour = %v, want 4 CCW points", c)
	}
}

func TestTriangle(t *testing.T) {
	tri := Triangle{{}, {X: 2}, {Y: 2}}
	if !nearVec(tri.Normal(), v3.Vec{Z: 1}) {
		t.Errorf("Normal = %v", tri.Normal())
	}
	if !near(tri.Area(), 2) {
		t.Errorf("Area = %g, want 2", tri.Area())
	}
	if !nearVec(tri.Centroid(), v3.Vec{X: 2.0 / 3, Y: 2.0 / 3}) {
		t.Errorf("Centroid = %v", tri.Centroid())
	}
	if e := tri.Edge(2); e.A != tri[2] || e.B != tri[0] {
		t.Errorf("Edge(2) = %v", e)
	}
	if n := (Triangle{{}, {X: 1}, {X: 2}}).Normal(); n.Length() != 0 {
		t.Errorf("degenerate normal = %v, want zero", n)
	}
}
