package region

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/clip"
	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/polygon"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

var engine = clip.New(config.Default())

func rect(x0, y0, x1, y1 float64) fixed.Contour {
	return fixed.Contour{fixed.Pt(x0, y0), fixed.Pt(x1, y0), fixed.Pt(x1, y1), fixed.Pt(x0, y1)}
}

func build(t *testing.T, cs ...fixed.Contour) *Region {
	t.Helper()
	r, err := FromContours(engine, cs)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

// nested is five levels deep: outer, hole, island, hole, island, hole.
func nested(t *testing.T) *Region {
	return build(t,
		rect(0, 0, 20, 20), rect(2, 2, 18, 18), rect(4, 4, 16, 16),
		rect(6, 6, 14, 14), rect(8, 8, 12, 12), rect(9, 9, 11, 11))
}

// --- Booleans ---

func TestBooleans(t *testing.T) {
	a := build(t, rect(0, 0, 2, 2))
	b := build(t, rect(1, 1, 3, 3))
	tests := []struct {
		name string
		op   func(*Region) (*Region, error)
		area float64
	}{
		{"union", a.Union, 7},
		{"subtract", a.Subtract, 3},
		{"subtract from", a.SubtractFrom, 3},
		{"intersect", a.Intersect, 1},
		{"xor", a.Xor, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.op(b)
			if err != nil {
				t.Fatal(err)
			}
			if !near(got.Area(), tt.area, 1e-9) {
				t.Errorf("area = %v, want %v", got.Area(), tt.area)
			}
			if err := got.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestSubtractFromIsOrdered(t *testing.T) {
	big := build(t, rect(0, 0, 4, 4))
	small := build(t, rect(1, 1, 2, 2))
	got, err := small.SubtractFrom(big)
	if err != nil {
		t.Fatal(err)
	}
	if !near(got.Area(), 15, 1e-9) || len(got.Holes()) != 1 {
		t.Errorf("area = %v holes = %d, want 15 and 1", got.Area(), len(got.Holes()))
	}
	got, err = small.Subtract(big)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsEmpty() {
		t.Errorf("small - big = %v, want empty", got.Contours())
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	for _, d := range []float64{0.1, 0.5, 1} {
		s := build(t, rect(0, 0, 2, 3))
		grown, err := s.Offset(d)
		if err != nil {
			t.Fatal(err)
		}
		want := 6 + 2*d*(2+3) + math.Pi*d*d
		if !near(grown.Area(), want, 0.01) {
			t.Errorf("offset(%v) area = %v, want about %v", d, grown.Area(), want)
		}
		back, err := grown.Offset(-d)
		if err != nil {
			t.Fatal(err)
		}
		if !near(back.Area(), s.Area(), 0.01) {
			t.Errorf("offset(%v) round trip area = %v, want about %v", d, back.Area(), s.Area())
		}
	}
}

func TestOffsetShrinksAway(t *testing.T) {
	s := build(t, rect(0, 0, 1, 1))
	got, err := s.Offset(-0.6)
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsEmpty() {
		t.Errorf("area = %v, want empty", got.Area())
	}
}

func TestOffsetGrowsHole(t *testing.T) {
	s := build(t, rect(0, 0, 10, 10), rect(4, 4, 6, 6))
	got, err := s.Offset(-0.5)
	if err != nil {
		t.Fatal(err)
	}
	// 9x9 outer minus a rounded 3x3 hole.
	want := 81 - (4 + 0.5*8 + math.Pi*0.25)
	if !near(got.Area(), want, 0.01) {
		t.Errorf("area = %v, want about %v", got.Area(), want)
	}
}

// --- Measurement ---

func TestContains(t *testing.T) {
	s := build(t, rect(0, 0, 4, 4), rect(1, 1, 3, 3))
	tests := []struct {
		name  string
		other *Region
		want  bool
	}{
		{"itself", s, true},
		{"empty", New(engine), true},
		{"inside material", build(t, rect(0, 0, 1, 1)), true},
		{"overlapping edge", build(t, rect(3, 3, 5, 5)), false},
		{"inside hole", build(t, rect(1.5, 1.5, 2.5, 2.5)), false},
		{"disjoint", build(t, rect(10, 10, 11, 11)), false},
		{"one square unit in the hole", build(t, rect(1.5, 1.5, 1.500001, 1.500001)), false},
		{"sliver past the edge", build(t, rect(0, 0, 4.000001, 0.001)), false},
		{"sharing the hole edge", build(t, rect(0, 1, 1, 3)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Contains(tt.other)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Contains = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	s := build(t, rect(0, 0, 4, 4), rect(1, 1, 3, 3))
	if !near(s.Area(), 12, 1e-9) {
		t.Errorf("Area() = %v, want 12", s.Area())
	}
	if !near(s.Perimeter(), 24, 1e-9) {
		t.Errorf("Perimeter() = %v, want 24", s.Perimeter())
	}
	lo, hi, ok := s.Bounds()
	if !ok || lo != fixed.Pt(0, 0) || hi != fixed.Pt(4, 4) {
		t.Errorf("Bounds() = %v %v %v", lo, hi, ok)
	}
	if _, _, ok := New(engine).Bounds(); ok {
		t.Error("empty region reports bounds")
	}
	if len(s.Outers()) != 1 || len(s.Holes()) != 1 {
		t.Errorf("outers = %d holes = %d, want 1 and 1", len(s.Outers()), len(s.Holes()))
	}
}

func TestTranslateAndClone(t *testing.T) {
	s := build(t, rect(0, 0, 2, 1))
	moved := s.Translate(5, -1)
	lo, hi, _ := moved.Bounds()
	if lo != fixed.Pt(5, -1) || hi != fixed.Pt(7, 0) {
		t.Errorf("bounds after translate = %v %v", lo, hi)
	}
	if !near(moved.Area(), 2, 1e-9) {
		t.Errorf("area after translate = %v", moved.Area())
	}
	if lo, _, _ := s.Bounds(); lo != fixed.Pt(0, 0) {
		t.Errorf("translate changed the source: %v", lo)
	}
	c := s.Clone()
	c.Tree().Nodes[1].Contour[0] = fixed.Pt(-9, -9)
	if s.Tree().Nodes[1].Contour[0] == fixed.Pt(-9, -9) {
		t.Error("clone shares contour storage")
	}
}

func TestValidate(t *testing.T) {
	tr := contour.New()
	tr.Add(contour.Root, rect(0, 0, 1, 1).Reversed(), false)
	if _, err := FromTree(engine, tr); !errors.Is(err, ErrInvalidTree) {
		t.Errorf("clockwise outer: err = %v, want ErrInvalidTree", err)
	}

	tr = contour.New()
	o := tr.Add(contour.Root, rect(0, 0, 4, 4), false)
	tr.Add(o, rect(1, 1, 2, 2).Reversed(), true)
	r, err := FromTree(engine, tr)
	if err != nil {
		t.Fatal(err)
	}
	if !near(r.Area(), 15, 1e-9) {
		t.Errorf("area = %v, want 15", r.Area())
	}
}

// --- Topology ---

func TestRemoveHoles(t *testing.T) {
	s := build(t, rect(0, 0, 10, 10), rect(1, 1, 2, 2), rect(4, 4, 8, 8), rect(5, 5, 6, 6))
	tests := []struct {
		name  string
		max   float64
		area  float64
		holes int
	}{
		{"none", 1, 100 - 1 - 16 + 1, 2},
		{"small", 5, 100 - 16 + 1, 1},
		{"all", 100, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.RemoveHoles(tt.max)
			if !near(got.Area(), tt.area, 1e-9) {
				t.Errorf("area = %v, want %v", got.Area(), tt.area)
			}
			if len(got.Holes()) != tt.holes {
				t.Errorf("holes = %d, want %d", len(got.Holes()), tt.holes)
			}
			if err := got.Validate(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestTopologyFilters(t *testing.T) {
	s := build(t, rect(0, 0, 4, 4), rect(1, 1, 3, 3), rect(10, 0, 12, 2))
	if got := s.PolygonsWithHoles(); !near(got.Area(), 12, 1e-9) || len(got.Tree().TopLevel()) != 1 {
		t.Errorf("with holes: area = %v", got.Area())
	}
	if got := s.PolygonsWithoutHoles(); !near(got.Area(), 4, 1e-9) || len(got.Holes()) != 0 {
		t.Errorf("without holes: area = %v", got.Area())
	}

	parts := s.IndividualPolygons()
	if len(parts) != 2 {
		t.Fatalf("got %d polygons, want 2", len(parts))
	}
	areas := []float64{parts[0].Area(), parts[1].Area()}
	sort.Float64s(areas)
	if !near(areas[0], 4, 1e-9) || !near(areas[1], 12, 1e-9) {
		t.Errorf("areas = %v, want [4 12]", areas)
	}
}

func TestPairs(t *testing.T) {
	s := nested(t)
	if got := len(s.Tree().Outers()); got != 3 {
		t.Fatalf("outers = %d, want 3", got)
	}
	outside := s.OutsidePairs()
	if len(outside) != 2 {
		t.Fatalf("outside pairs = %d, want 2", len(outside))
	}
	areas := []float64{outside[0].Area(), outside[1].Area()}
	sort.Float64s(areas)
	if !near(areas[0], 12, 1e-9) || !near(areas[1], 144, 1e-9) {
		t.Errorf("outside areas = %v, want [12 144]", areas)
	}
	inside := s.InsidePairs()
	if len(inside) != 1 || !near(inside[0].Area(), 80, 1e-9) {
		t.Errorf("inside pairs = %d", len(inside))
	}
	for _, p := range append(outside, inside...) {
		if len(p.Holes()) != 1 || len(p.Contours()) != 2 {
			t.Errorf("pair has %d contours, want outer plus one hole", len(p.Contours()))
		}
	}
}

// --- Triangulation ---

func TestTriangulate(t *testing.T) {
	tr := polygon.New(config.Default())
	tests := []struct {
		name  string
		cs    []fixed.Contour
		area  float64
		seeds int
	}{
		{"square with hole", []fixed.Contour{rect(0, 0, 1, 1), rect(0.4, 0.4, 0.6, 0.6)}, 0.96, 1},
		{"two squares", []fixed.Contour{rect(0, 0, 1, 1), rect(2, 0, 3, 1)}, 2, 0},
		{"nested islands", nil, 236, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := nested(t)
			if tt.cs != nil {
				s = build(t, tt.cs...)
			}
			got, err := s.Triangulate(tr)
			if err != nil {
				t.Fatal(err)
			}
			if !got.Complete || got.Dropped != 0 {
				t.Errorf("complete = %v dropped = %d", got.Complete, got.Dropped)
			}
			if !near(got.Area(), tt.area, 1e-9) {
				t.Errorf("area = %v, want %v", got.Area(), tt.area)
			}
			if len(got.Seeds) != tt.seeds {
				t.Errorf("seeds = %d, want %d", len(got.Seeds), tt.seeds)
			}
			material := s.MultiPolygon()
			for i := range got.TriangleCount() {
				x, y := got.Triangle(i).Centroid().Float()
				if !planar.MultiPolygonContains(material, orb.Point{x, y}) {
					t.Errorf("triangle %d centroid (%v, %v) outside material", i, x, y)
				}
			}
		})
	}
}

func TestHoleSeed(t *testing.T) {
	tests := []struct {
		name string
		c    fixed.Contour
	}{
		{"square", rect(1, 1, 3, 3).Reversed()},
		{"sliver", rect(0, 0, 5, 0.001).Reversed()},
		{"triangle", fixed.Contour{fixed.Pt(0, 0), fixed.Pt(0, 1), fixed.Pt(1, 0)}},
		{"thinner than the default offset", rect(2, 2, 8, 2.000003).Reversed()},
		{"counter-clockwise", rect(1, 1, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := HoleSeed(tt.c)
			if !ok {
				t.Fatal("no seed")
			}
			if !tt.c.Contains(s) {
				t.Errorf("seed %v outside hole %v", s, tt.c)
			}
		})
	}
	if _, ok := HoleSeed(fixed.Contour{fixed.Pt(1, 1)}); ok {
		t.Error("seed for a single point")
	}
	// One fixed unit high: no lattice point lies strictly inside.
	if s, ok := HoleSeed(rect(0, 0, 10, 0.000001).Reversed()); ok {
		t.Errorf("seed %v for a hole with no interior lattice point", s)
	}
}

func TestTriangulateThinHoles(t *testing.T) {
	tr := polygon.New(config.Default())

	// A hole three fixed units high still gets an interior seed.
	s := build(t, rect(0, 0, 10, 10), rect(2, 2, 8, 2.000003))
	got, err := s.Triangulate(tr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Seeds) != 1 || !got.Complete || got.Dropped != 0 {
		t.Errorf("seeds = %d complete = %v dropped = %d", len(got.Seeds), got.Complete, got.Dropped)
	}
	if !near(got.Area(), 100-6*0.000003, 1e-7) {
		t.Errorf("area = %.9f, want %.9f", got.Area(), 100-6*0.000003)
	}

	// A hole one fixed unit high cannot be seeded and is reported.
	s = build(t, rect(0, 0, 10, 10), rect(2, 2, 8, 2.000001))
	if len(s.Holes()) != 1 {
		t.Fatalf("holes = %d, want 1", len(s.Holes()))
	}
	got, err = s.Triangulate(tr)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Seeds) != 0 || got.Complete || got.Dropped < 1 {
		t.Errorf("seeds = %d complete = %v dropped = %d", len(got.Seeds), got.Complete, got.Dropped)
	}
	if got.Area() < 99 {
		t.Errorf("area = %v: the material around the hole was not filled", got.Area())
	}
}

func TestTriangulationToMesh(t *testing.T) {
	s := build(t, rect(0, 0, 2, 2), rect(0.5, 0.5, 1.5, 1.5))
	tri, err := s.Triangulate(polygon.New(config.Default()))
	if err != nil {
		t.Fatal(err)
	}
	m := tri.ToMesh(geom.PlaneZ(3), 1e-9)
	if m.TriangleCount() != tri.TriangleCount() {
		t.Fatalf("mesh has %d triangles, want %d", m.TriangleCount(), tri.TriangleCount())
	}
	var area float64
	for i := range m.TriangleCount() {
		tr := m.Triangle(i)
		area += tr.Area()
		if n := tr.Normal(); !near(n.Dot(v3.Vec{Z: 1}), 1, 1e-9) {
			t.Errorf("triangle %d normal = %v", i, n)
		}
		for _, v := range tr {
			if v.Z != 3 {
				t.Errorf("vertex %v off plane", v)
			}
		}
	}
	if !near(area, 3, 1e-9) {
		t.Errorf("mesh area = %v, want 3", area)
	}
}

// --- Export ---

func TestGeoJSON(t *testing.T) {
	s := nested(t)
	fc := s.GeoJSON()
	if len(fc.Features) != 3 {
		t.Fatalf("features = %d, want 3", len(fc.Features))
	}
	if a := planar.Area(s.MultiPolygon()); !near(a, s.Area(), 1e-6) {
		t.Errorf("planar area = %v, want %v", a, s.Area())
	}
	data, err := json.Marshal(fc)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"Polygon"`) {
		t.Errorf("no polygon geometry in %s", data)
	}
	for _, f := range fc.Features {
		if f.Properties["holes"] != 1 {
			t.Errorf("feature holes = %v, want 1", f.Properties["holes"])
		}
	}
}

func TestWriteDXF(t *testing.T) {
	s := build(t, rect(0, 0, 4, 4), rect(1, 1, 3, 3))
	path := filepath.Join(t.TempDir(), "region.dxf")
	if err := s.WriteDXF(path); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"LWPOLYLINE", LayerOuter, LayerHole} {
		if !strings.Contains(out, want) {
			t.Errorf("dxf output missing %q", want)
		}
	}
}
