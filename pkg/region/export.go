package region

import (
	"fmt"

	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/entity"
)

// DXF layer names.
const (
	LayerOuter = "OUTER"
	LayerHole  = "HOLE"
)

func ring(c fixed.Contour) orb.Ring {
	r := make(orb.Ring, 0, len(c)+1)
	for _, p := range c {
		x, y := p.Float()
		r = append(r, orb.Point{x, y})
	}
	if len(c) > 0 {
		r = append(r, r[0])
	}
	return r
}

// MultiPolygon converts r to working-unit polygons: one per outer contour
// at any depth, with its direct holes as inner rings.
func (r *Region) MultiPolygon() orb.MultiPolygon {
	var mp orb.MultiPolygon
	for _, id := range r.tree.Outers() {
		n := r.tree.Nodes[id]
		poly := orb.Polygon{ring(n.Contour)}
		for _, c := range n.Children {
			poly = append(poly, ring(r.tree.Nodes[c].Contour))
		}
		mp = append(mp, poly)
	}
	return mp
}

// GeoJSON returns a feature collection with one polygon feature per outer
// contour. Each feature carries its nesting depth and area.
func (r *Region) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	polys := r.MultiPolygon()
	for i, id := range r.tree.Outers() {
		f := geojson.NewFeature(polys[i])
		f.Properties["depth"] = r.tree.Depth(id)
		f.Properties["holes"] = len(r.tree.Nodes[id].Children)
		f.Properties["area"] = nodeArea(r.tree, id) / (fixed.Scale * fixed.Scale)
		fc.Append(f)
	}
	return fc
}

func nodeArea(t *contour.Tree, id contour.NodeID) float64 {
	n := t.Nodes[id]
	a := n.Contour.Area()
	for _, c := range n.Children {
		a += t.Nodes[c].Contour.Area()
	}
	return a
}

// WriteDXF saves every contour of r as a closed lightweight polyline,
// outers and holes on separate layers.
func (r *Region) WriteDXF(path string) error {
	d := dxf.NewDrawing()
	d.Header().LtScale = 1.0
	d.AddLayer(LayerOuter, color.Red, dxf.DefaultLineType, false)
	d.AddLayer(LayerHole, color.Blue, dxf.DefaultLineType, false)
	for _, n := range r.tree.Nodes[1:] {
		layer := LayerOuter
		if n.Hole {
			layer = LayerHole
		}
		d.ChangeLayer(layer)
		rg := ring(n.Contour)
		lwp := entity.NewLwPolyline(len(rg))
		for j, p := range rg {
			lwp.Vertices[j] = []float64{p[0], p[1]}
		}
		d.AddEntity(lwp)
	}
	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("region: write %s: %w", path, err)
	}
	return nil
}
