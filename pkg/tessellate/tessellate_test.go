package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/kerf/pkg/clip"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/region"
	"github.com/chazu/kerf/pkg/slicer"
	"github.com/chazu/kerf/pkg/tessellate"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var cfg = config.Default()

func rect(x0, y0, x1, y1 float64) fixed.Contour {
	return fixed.Contour{fixed.Pt(x0, y0), fixed.Pt(x1, y0), fixed.Pt(x1, y1), fixed.Pt(x0, y1)}
}

func makeRegion(t *testing.T, cs ...fixed.Contour) *region.Region {
	t.Helper()
	r, err := region.FromContours(clip.New(cfg), cs)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// volume returns the signed enclosed volume; positive when faces wind
// outward.
func volume(m *mesh.TriangleMesh) float64 {
	var v float64
	for i := range m.TriangleCount() {
		tr := m.Triangle(i)
		v += tr[0].Dot(tr[1].Cross(tr[2])) / 6
	}
	return v
}

func TestExtrude(t *testing.T) {
	tests := []struct {
		name   string
		cs     []fixed.Contour
		height float64
		volume float64
	}{
		{"square", []fixed.Contour{rect(0, 0, 2, 2)}, 1, 4},
		{"square with hole", []fixed.Contour{rect(0, 0, 2, 2), rect(0.5, 0.5, 1.5, 1.5)}, 3, 9},
		{"two islands", []fixed.Contour{rect(0, 0, 1, 1), rect(3, 0, 4, 2)}, 2, 6},
		{"island in hole", []fixed.Contour{rect(0, 0, 6, 6), rect(1, 1, 5, 5), rect(2, 2, 4, 4)}, 1, 36 - 16 + 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tessellate.New(cfg).Extrude(makeRegion(t, tt.cs...), geom.PlaneZ(1), tt.height)
			if err != nil {
				t.Fatal(err)
			}
			if !m.IsManifold() {
				t.Errorf("mesh not manifold: boundary %v, non-manifold %v", m.BoundaryEdges(), m.NonManifoldEdges())
			}
			if got := volume(m); math.Abs(got-tt.volume) > 1e-6 {
				t.Errorf("volume = %v, want %v", got, tt.volume)
			}
			if !m.Clean() {
				t.Error("Clean() = false")
			}
			b := m.Bounds()
			if b.Min.Z != 1 || math.Abs(b.Max.Z-(1+tt.height)) > 1e-12 {
				t.Errorf("z range = [%v, %v]", b.Min.Z, b.Max.Z)
			}
		})
	}
}

func TestExtrudeSliceRoundTrip(t *testing.T) {
	r := makeRegion(t, rect(0, 0, 2, 2), rect(0.5, 0.5, 1.5, 1.5))
	m, err := tessellate.New(cfg).Extrude(r, geom.PlaneZ(0), 2)
	if err != nil {
		t.Fatal(err)
	}
	tree, _, err := slicer.New(cfg, clip.New(cfg)).Slice(m, geom.PlaneZ(1))
	if err != nil {
		t.Fatal(err)
	}
	if got := tree.Area() / (fixed.Scale * fixed.Scale); math.Abs(got-r.Area()) > 1e-9 {
		t.Errorf("section area = %v, want %v", got, r.Area())
	}
	if len(tree.Holes()) != 1 {
		t.Errorf("section holes = %d, want 1", len(tree.Holes()))
	}
}

func TestExtrudeTiltedPlane(t *testing.T) {
	p := geom.NewPlane(v3.Vec{X: 5}, v3.Vec{X: 1})
	m, err := tessellate.New(cfg).Extrude(makeRegion(t, rect(0, 0, 1, 1)), p, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := volume(m); math.Abs(got-2) > 1e-9 {
		t.Errorf("volume = %v, want 2", got)
	}
	if b := m.Bounds(); math.Abs(b.Min.X-5) > 1e-12 || math.Abs(b.Max.X-7) > 1e-12 {
		t.Errorf("x range = [%v, %v], want [5, 7]", b.Min.X, b.Max.X)
	}
}

func TestExtrudeEdgeCases(t *testing.T) {
	e := tessellate.New(cfg)
	if _, err := e.Extrude(makeRegion(t, rect(0, 0, 1, 1)), geom.PlaneZ(0), 0); err == nil {
		t.Error("zero height accepted")
	}
	m, err := e.Extrude(region.New(clip.New(cfg)), geom.PlaneZ(0), 1)
	if err != nil {
		t.Fatal(err)
	}
	if !m.IsEmpty() {
		t.Errorf("empty region gave %d triangles", m.TriangleCount())
	}
}

func TestExtrudeLayers(t *testing.T) {
	layers := []*region.Region{
		makeRegion(t, rect(0, 0, 3, 3)),
		makeRegion(t, rect(1, 1, 2, 2)),
	}
	meshes, err := tessellate.New(cfg).ExtrudeLayers(layers, geom.PlaneZ(0), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(meshes) != 2 {
		t.Fatalf("got %d meshes, want 2", len(meshes))
	}
	for i, want := range []float64{4.5, 0.5} {
		if got := volume(meshes[i]); math.Abs(got-want) > 1e-9 {
			t.Errorf("layer %d volume = %v, want %v", i, got, want)
		}
	}
	if b := meshes[1].Bounds(); b.Min.Z != 0.5 || b.Max.Z != 1 {
		t.Errorf("layer 1 z range = [%v, %v]", b.Min.Z, b.Max.Z)
	}
}
