package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/engine"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/tessellate"
	"github.com/paulmach/orb/geojson"
)

// colorPalette is a default palette used to assign distinct colors to sections.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App runs kerf scripts and turns the sections they record into summaries,
// preview meshes and export files.
type App struct {
	engine   *engine.Engine
	extruder *tessellate.Extruder
	// Thickness is the extrusion height of preview meshes. Zero disables
	// previews.
	Thickness float64
}

// MeshData is the JSON-serializable preview mesh of one section.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Section  string    `json:"section"`
	Color    string    `json:"color"`
}

// SectionData summarises one recorded section.
type SectionData struct {
	Name      string  `json:"name"`
	Area      float64 `json:"area"`
	Perimeter float64 `json:"perimeter"`
	Outers    int     `json:"outers"`
	Holes     int     `json:"holes"`
	Color     string  `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of running a script.
type EvalResult struct {
	Sections []SectionData   `json:"sections"`
	Meshes   []MeshData      `json:"meshes"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`

	result *engine.Result
}

// NewApp creates an App whose engine and extruder are configured from cfg.
func NewApp(cfg config.Config) *App {
	return &App{
		engine:    engine.NewEngine(cfg),
		extruder:  tessellate.New(cfg),
		Thickness: 1,
	}
}

// Evaluate runs source and returns section summaries, preview meshes and
// errors.
func (a *App) Evaluate(source string) EvalResult {
	result := EvalResult{
		Sections: []SectionData{},
		Meshes:   []MeshData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the Lisp source into named sections.
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}

	// Step 2: Convert eval errors to the output format.
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			result.Errors = append(result.Errors, EvalErrorData{
				Line:    e.Line,
				Col:     e.Col,
				Message: e.Message,
			})
		}
		return result
	}
	result.result = res
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.String()})
	}

	// Step 3: Summarise every section and extrude a preview slab from it.
	for i, s := range res.Sections {
		color := colorPalette[i%len(colorPalette)]
		result.Sections = append(result.Sections, SectionData{
			Name:      s.Name,
			Area:      s.Region.Area(),
			Perimeter: s.Region.Perimeter(),
			Outers:    len(s.Region.Outers()),
			Holes:     len(s.Region.Holes()),
			Color:     color,
		})
		if a.Thickness <= 0 || s.Region.IsEmpty() {
			continue
		}
		m, err := a.extruder.Extrude(s.Region, geom.PlaneZ(0), a.Thickness)
		if err != nil {
			log.Printf("Extrude %s error: %v", s.Name, err)
			result.Warnings = append(result.Warnings, EvalErrorData{
				Message: fmt.Sprintf("%s: preview failed: %v", s.Name, err),
			})
			continue
		}
		r := m.Render(s.Name)
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: r.Vertices,
			Normals:  r.Normals,
			Indices:  r.Indices,
			Section:  s.Name,
			Color:    color,
		})
	}

	return result
}

// WriteGeoJSON saves every section of res into one feature collection.
// Each feature carries a "section" property with its section name.
func WriteGeoJSON(res EvalResult, path string) error {
	if res.result == nil {
		return fmt.Errorf("write %s: no sections to export", path)
	}
	fc := geojson.NewFeatureCollection()
	for _, s := range res.result.Sections {
		for _, f := range s.Region.GeoJSON().Features {
			f.Properties["section"] = s.Name
			fc.Append(f)
		}
	}
	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteDXF saves each section of res as a DXF drawing. A single section is
// written to path; several sections go to one file each, named by
// inserting the section name before the extension.
func WriteDXF(res EvalResult, path string) ([]string, error) {
	if res.result == nil || len(res.result.Sections) == 0 {
		return nil, fmt.Errorf("write %s: no sections to export", path)
	}
	sections := res.result.Sections
	var written []string
	for _, s := range sections {
		out := path
		if len(sections) > 1 {
			out = sectionPath(path, s.Name)
		}
		if err := s.Region.WriteDXF(out); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}

// sectionPath turns dir/out.dxf and "top" into dir/out-top.dxf.
func sectionPath(path, name string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}
