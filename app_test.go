package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/kerf/pkg/config"
	"github.com/paulmach/orb/geojson"
)

func readExample(t *testing.T, name string) string {
	t.Helper()
	source, err := os.ReadFile(filepath.Join("examples", name))
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	return string(source)
}

func requireNoErrors(t *testing.T, result EvalResult) {
	t.Helper()
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
}

// TestE2EPocketExample exercises the full pipeline on pure region algebra:
// Lisp source -> engine -> sections -> extruded previews.
func TestE2EPocketExample(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate(readExample(t, "pocket.lisp"))
	requireNoErrors(t, result)

	want := []struct {
		name   string
		area   float64
		outers int
		holes  int
	}{
		{"frame", 2800, 1, 1},
		{"clearance", 5076 - (3200 + 720 + 9*math.Pi), 1, 1},
		{"islands", 200, 2, 0},
	}
	if len(result.Sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(result.Sections))
	}
	for i, w := range want {
		s := result.Sections[i]
		if s.Name != w.name {
			t.Errorf("section %d: name %q, want %q", i, s.Name, w.name)
		}
		if math.Abs(s.Area-w.area) > 0.05 {
			t.Errorf("section %q: area %g, want %g", s.Name, s.Area, w.area)
		}
		if s.Outers != w.outers || s.Holes != w.holes {
			t.Errorf("section %q: %d outers %d holes, want %d and %d", s.Name, s.Outers, s.Holes, w.outers, w.holes)
		}
		if s.Color == "" {
			t.Errorf("section %q: no color assigned", s.Name)
		}
	}
	if result.Sections[0].Perimeter != 560 {
		t.Errorf("frame perimeter = %g, want 560", result.Sections[0].Perimeter)
	}

	// One closed preview slab per section.
	if len(result.Meshes) != 3 {
		t.Fatalf("expected 3 meshes, got %d", len(result.Meshes))
	}
	for _, m := range result.Meshes {
		if len(m.Vertices) == 0 || len(m.Normals) != len(m.Vertices) || len(m.Indices) == 0 {
			t.Errorf("section %q: incomplete mesh buffers", m.Section)
		}
		if len(m.Indices)%3 != 0 {
			t.Errorf("section %q: %d indices is not a triangle list", m.Section, len(m.Indices))
		}
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}
}

// TestE2EPlateExample cuts a bored plate produced by the sdfx kernel.
func TestE2EPlateExample(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate(readExample(t, "plate.lisp"))
	requireNoErrors(t, result)

	if len(result.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(result.Sections))
	}
	s := result.Sections[0]
	want := 400 - 9*math.Pi
	if math.Abs(s.Area-want)/want > 0.03 {
		t.Errorf("area = %g, want about %g", s.Area, want)
	}
	if s.Outers != 1 || s.Holes != 1 {
		t.Errorf("got %d outers %d holes, want 1 and 1", s.Outers, s.Holes)
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.Sections) != 0 || len(result.Meshes) != 0 {
		t.Errorf("expected nothing for empty source, got %d sections, %d meshes", len(result.Sections), len(result.Meshes))
	}
}

// TestE2ESyntaxError ensures eval errors are reported, not fatal errors.
func TestE2ESyntaxError(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate(`(section "test"`)

	if len(result.Errors) == 0 {
		t.Fatal("expected eval errors for syntax error")
	}
	if len(result.Sections) != 0 || len(result.Meshes) != 0 {
		t.Errorf("expected no output on error, got %d sections, %d meshes", len(result.Sections), len(result.Meshes))
	}
}

func TestWriteGeoJSON(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate(readExample(t, "pocket.lisp"))
	requireNoErrors(t, result)

	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteGeoJSON(result, path); err != nil {
		t.Fatalf("WriteGeoJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		t.Fatalf("output is not a feature collection: %v", err)
	}
	// frame and clearance have one outer each, islands two.
	if len(fc.Features) != 4 {
		t.Fatalf("features = %d, want 4", len(fc.Features))
	}
	counts := map[string]int{}
	for _, f := range fc.Features {
		counts[f.Properties.MustString("section")]++
	}
	if counts["frame"] != 1 || counts["clearance"] != 1 || counts["islands"] != 2 {
		t.Errorf("features per section = %v", counts)
	}
}

func TestWriteDXF(t *testing.T) {
	app := NewApp(config.Default())
	dir := t.TempDir()

	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "single section",
			source: `(section "a" (rect 4 4))`,
			want:   []string{"out.dxf"},
		},
		{
			name:   "one file per section",
			source: `(section "a" (rect 4 4)) (section "b" (rect 2 2))`,
			want:   []string{"out-a.dxf", "out-b.dxf"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := app.Evaluate(tt.source)
			requireNoErrors(t, result)
			sub := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_"))
			if err := os.Mkdir(sub, 0o755); err != nil {
				t.Fatal(err)
			}
			written, err := WriteDXF(result, filepath.Join(sub, "out.dxf"))
			if err != nil {
				t.Fatalf("WriteDXF: %v", err)
			}
			if len(written) != len(tt.want) {
				t.Fatalf("wrote %v, want %v", written, tt.want)
			}
			for i, w := range tt.want {
				if filepath.Base(written[i]) != w {
					t.Errorf("file %d = %s, want %s", i, filepath.Base(written[i]), w)
				}
				data, err := os.ReadFile(written[i])
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Contains(data, []byte("LWPOLYLINE")) {
					t.Errorf("%s has no polylines", w)
				}
			}
		})
	}
}

func TestExportWithoutSections(t *testing.T) {
	app := NewApp(config.Default())
	result := app.Evaluate("(+ 1 2)")
	requireNoErrors(t, result)

	dir := t.TempDir()
	if _, err := WriteDXF(result, filepath.Join(dir, "x.dxf")); err == nil {
		t.Error("WriteDXF with no sections should fail")
	}
	failed := app.Evaluate("(+ 1")
	if err := WriteGeoJSON(failed, filepath.Join(dir, "x.json")); err == nil {
		t.Error("WriteGeoJSON of a failed evaluation should fail")
	}
}

func TestSectionPath(t *testing.T) {
	tests := []struct {
		path, name, want string
	}{
		{"out.dxf", "top", "out-top.dxf"},
		{filepath.Join("dir", "cut.dxf"), "a", filepath.Join("dir", "cut-a.dxf")},
		{"noext", "b", "noext-b"},
	}
	for _, tt := range tests {
		if got := sectionPath(tt.path, tt.name); got != tt.want {
			t.Errorf("sectionPath(%q, %q) = %q, want %q", tt.path, tt.name, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// CLI
// ---------------------------------------------------------------------------

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCLIVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "kerf ") {
		t.Errorf("output = %q", out)
	}
}

func TestCLIRun(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "pocket.json")
	dxfPath := filepath.Join(dir, "pocket.dxf")

	out, err := runCLI(t, "run", filepath.Join("examples", "pocket.lisp"),
		"--geojson", jsonPath, "--dxf", dxfPath, "--thickness", "2")
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	for _, want := range []string{"frame", "clearance", "islands", "preview", "wrote " + jsonPath} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	for _, p := range []string{jsonPath, sectionPath(dxfPath, "frame"), sectionPath(dxfPath, "islands")} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("expected %s: %v", p, err)
		}
	}
}

func TestCLIRunWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "kerf.yaml")
	if err := os.WriteFile(cfgPath, []byte("snap_distance: 4\nmesh_cells: 32\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	script := filepath.Join(dir, "s.lisp")
	if err := os.WriteFile(script, []byte(`(section "s" (rect 3 3))`), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := runCLI(t, "run", script, "--config", cfgPath)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, out)
	}
	if !strings.Contains(out, "area=9") {
		t.Errorf("output = %q", out)
	}
}

func TestCLIRunFailures(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.lisp")
	if err := os.WriteFile(bad, []byte("(section \"x\" (rect 0 1))"), 0o644); err != nil {
		t.Fatal(err)
	}
	badCfg := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badCfg, []byte("merge_epsilon: -1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing script", []string{"run", filepath.Join(dir, "nope.lisp")}, "read script"},
		{"eval error", []string{"run", bad}, "evaluation failed"},
		{"bad config", []string{"run", bad, "--config", badCfg}, "merge_epsilon"},
		{"no args", []string{"run"}, "accepts 1 arg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}
