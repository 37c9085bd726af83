// Package geom provides the immutable 3D primitives used by the kerf kernel:
// planes, rays, line segments, line strips and triangles. Vectors are sdfx
// v3.Vec values so that solids, meshes and slices share one representation.
package geom

import (
	"math"

	"github.com/chazu/kerf/pkg/fixed"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Eps is the tolerance used for parallelism and degeneracy checks on
// normalized directions.
const Eps = 1e-12

// Plane is the set of points p with Normal·p == D. Normal is unit length.
type Plane struct {
	Normal v3.Vec
	D      float64
}

// NewPlane returns the plane through point with the given normal. The normal
// is normalized; a zero normal yields the XY plane through point.
func NewPlane(point, normal v3.Vec) Plane {
	if normal.Length() < Eps {
		normal = v3.Vec{Z: 1}
	}
	n := normal.Normalize()
	return Plane{Normal: n, D: n.Dot(point)}
}

// PlaneZ returns the horizontal plane at height z, facing +Z.
func PlaneZ(z float64) Plane {
	return Plane{Normal: v3.Vec{Z: 1}, D: z}
}

// Distance returns the signed distance of q from the plane, positive on the
// side the normal points to.
func (p Plane) Distance(q v3.Vec) float64 {
	return p.Normal.Dot(q) - p.D
}

// Offset returns the plane moved by d along its normal.
func (p Plane) Offset(d float64) Plane {
	return Plane{Normal: p.Normal, D: p.D + d}
}

// Origin returns the point of the plane closest to the world origin.
func (p Plane) Origin() v3.Vec {
	return p.Normal.MulScalar(p.D)
}

// Basis returns an orthonormal in-plane frame (u, v) with u x v == Normal.
// For a +Z plane the frame is the world X and Y axes.
func (p Plane) Basis() (u, v v3.Vec) {
	helper := v3.Vec{X: 1}
	if math.Abs(p.Normal.X) > 0.9 {
		helper = v3.Vec{Y: 1}
	}
	u = helper.Sub(p.Normal.MulScalar(p.Normal.Dot(helper))).Normalize()
	v = p.Normal.Cross(u)
	return u, v
}

// Coords returns the 2D coordinates of q projected onto the plane, in
// working units.
func (p Plane) Coords(q v3.Vec) (x, y float64) {
	u, v := p.Basis()
	d := q.Sub(p.Origin())
	return d.Dot(u), d.Dot(v)
}

// Project returns q projected onto the plane as a fixed-point 2D point.
func (p Plane) Project(q v3.Vec) fixed.Point {
	return fixed.Pt(p.Coords(q))
}

// Unproject lifts a fixed-point plane coordinate back to 3D.
func (p Plane) Unproject(pt fixed.Point) v3.Vec {
	u, v := p.Basis()
	x, y := pt.Float()
	return p.Origin().Add(u.MulScalar(x)).Add(v.MulScalar(y))
}

// IntersectSegment returns the point where segment a-b crosses the plane.
// ok is false when both ends lie strictly on the same side or the segment
// is parallel to the plane.
func (p Plane) IntersectSegment(a, b v3.Vec) (v3.Vec, bool) {
	da, db := p.Distance(a), p.Distance(b)
	if (da > 0 && db > 0) || (da < 0 && db < 0) || da == db {
		return v3.Vec{}, false
	}
	t := da / (da - db)
	return a.Add(b.Sub(a).MulScalar(t)), true
}

// Ray is a half-line from Origin along Dir.
type Ray struct {
	Origin v3.Vec
	Dir    v3.Vec
}

// At returns the point at parameter t.
func (r Ray) At(t float64) v3.Vec {
	return r.Origin.Add(r.Dir.MulScalar(t))
}

// IntersectPlane returns the ray parameter where it meets the plane. Rays
// parallel to the plane or pointing away from it report ok == false.
func (r Ray) IntersectPlane(p Plane) (t float64, ok bool) {
	denom := p.Normal.Dot(r.Dir)
	if math.Abs(denom) < Eps {
		return 0, false
	}
	t = -p.Distance(r.Origin) / denom
	return t, t >= 0
}

// IntersectTriangle returns the ray parameter of the hit with tri
// (Moller-Trumbore). Hits behind the origin are ignored.
func (r Ray) IntersectTriangle(tri Triangle) (t float64, ok bool) {
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	h := r.Dir.Cross(e2)
	det := e1.Dot(h)
	if math.Abs(det) < Eps {
		return 0, false
	}
	inv := 1 / det
	s := r.Origin.Sub(tri[0])
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := inv * r.Dir.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t = inv * e2.Dot(q)
	return t, t >= 0
}

// LineSegment is the closed segment between A and B.
type LineSegment struct {
	A, B v3.Vec
}

// Length returns |B-A|.
func (s LineSegment) Length() float64 {
	return s.B.Sub(s.A).Length()
}

// ClosestPoint returns the point on the segment nearest to q.
func (s LineSegment) ClosestPoint(q v3.Vec) v3.Vec {
	d := s.B.Sub(s.A)
	l2 := d.Dot(d)
	if l2 == 0 {
		return s.A
	}
	t := q.Sub(s.A).Dot(d) / l2
	t = math.Max(0, math.Min(1, t))
	return s.A.Add(d.MulScalar(t))
}

// Distance returns the distance from q to the segment.
func (s LineSegment) Distance(q v3.Vec) float64 {
	return q.Sub(s.ClosestPoint(q)).Length()
}

// LineStrip is a polyline. A closed strip has an implicit edge from the last
// point back to the first.
type LineStrip struct {
	Points []v3.Vec
	Closed bool
}

// Segments returns the strip's edges in order.
func (l LineStrip) Segments() []LineSegment {
	n := len(l.Points)
	if n < 2 {
		return nil
	}
	segs := make([]LineSegment, 0, n)
	for i := 0; i+1 < n; i++ {
		segs = append(segs, LineSegment{l.Points[i], l.Points[i+1]})
	}
	if l.Closed && n > 2 {
		segs = append(segs, LineSegment{l.Points[n-1], l.Points[0]})
	}
	return segs
}

// Length returns the total length of the strip.
func (l LineStrip) Length() float64 {
	var total float64
	for _, s := range l.Segments() {
		total += s.Length()
	}
	return total
}

// Contour projects a strip onto a plane.
func (l LineStrip) Contour(p Plane) fixed.Contour {
	c := make(fixed.Contour, len(l.Points))
	for i, q := range l.Points {
		c[i] = p.Project(q)
	}
	return c
}

// Triangle is three vertices in counter-clockwise order seen from the side
// its normal points to.
type Triangle [3]v3.Vec

// Normal returns the unit face normal, or the zero vector for a degenerate
// triangle.
func (t Triangle) Normal() v3.Vec {
	n := t[1].Sub(t[0]).Cross(t[2].Sub(t[0]))
	if n.Length() < Eps {
		return v3.Vec{}
	}
	return n.Normalize()
}

// Area returns the unsigned area.
func (t Triangle) Area() float64 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])).Length() / 2
}

// Centroid returns the average of the three vertices.
func (t Triangle) Centroid() v3.Vec {
	return t[0].Add(t[1]).Add(t[2]).MulScalar(1.0 / 3)
}

// Edge returns the i-th edge, from vertex i to vertex i+1 (wrapping).
func (t Triangle) Edge(i int) LineSegment {
	return LineSegment{t[i%3], t[(i+1)%3]}
}
