package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/kerf/pkg/fixed"
	"github.com/chazu/kerf/pkg/geom"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/mesh"
	"github.com/chazu/kerf/pkg/region"
	v3 "github.com/deadsy/sdfx/vec/v3"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a vector.
type sexpVec3 struct {
	vec v3.Vec
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpSolid wraps a kernel solid.
type sexpSolid struct {
	solid kernel.Solid
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string {
	lo, hi := s.solid.BoundingBox()
	return fmt.Sprintf("(solid %v %v)", lo, hi)
}
func (s *sexpSolid) Type() *zygo.RegisteredType { return nil }

// sexpRegion wraps a planar region.
type sexpRegion struct {
	region *region.Region
}

func (r *sexpRegion) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(region :outers %d :holes %d :area %g)",
		len(r.region.Outers()), len(r.region.Holes()), r.region.Area())
}
func (r *sexpRegion) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// number returns keyword key if present, else positional argument i.
// ok is false when neither is given.
func (pa kwArgs) number(key string, i int) (v float64, ok bool, err error) {
	s, found := pa.kw[key]
	if !found {
		if i >= len(pa.positional) {
			return 0, false, nil
		}
		s = pa.positional[i]
	}
	v, err = toFloat64(s)
	if err != nil {
		return 0, true, fmt.Errorf("%s: %w", key, err)
	}
	return v, true, nil
}

// vector reads a vec3 at positional argument i, or three numbers starting
// there.
func (pa kwArgs) vector(i int) (v3.Vec, error) {
	if i < len(pa.positional) {
		if v, ok := pa.positional[i].(*sexpVec3); ok {
			return v.vec, nil
		}
	}
	if i+3 > len(pa.positional) {
		return v3.Vec{}, fmt.Errorf("expected vec3 or three numbers")
	}
	var c [3]float64
	for k := range 3 {
		f, err := toFloat64(pa.positional[i+k])
		if err != nil {
			return v3.Vec{}, err
		}
		c[k] = f
	}
	return v3.Vec{X: c[0], Y: c[1], Z: c[2]}, nil
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_top) and plain strings ("top").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a vector from a sexpVec3.
func toVec3(s zygo.Sexp) (v3.Vec, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return v3.Vec{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toSolid extracts a solid from a sexpSolid.
func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	if v, ok := s.(*sexpSolid); ok {
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %T (%s)", s, s.SexpString(nil))
}

// toRegion extracts a region from a sexpRegion.
func toRegion(s zygo.Sexp) (*region.Region, error) {
	if v, ok := s.(*sexpRegion); ok {
		return v.region, nil
	}
	return nil, fmt.Errorf("expected region, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// flatten expands list and array arguments in place, one level deep.
func flatten(args []zygo.Sexp) ([]zygo.Sexp, error) {
	var out []zygo.Sexp
	for _, a := range args {
		switch a.(type) {
		case *zygo.SexpPair, *zygo.SexpArray, *zygo.SexpSentinel:
			items, err := sexpListToSlice(a)
			if err != nil {
				return nil, err
			}
			out = append(out, items...)
		default:
			out = append(out, a)
		}
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Evaluation state
// ---------------------------------------------------------------------------

// builder carries the kernel services and the result of one evaluation.
type builder struct {
	eng    *Engine
	result *Result
	// meshes caches the tessellation of each solid so repeated slices of
	// one solid mesh it once.
	meshes map[kernel.Solid]*mesh.TriangleMesh
}

func newBuilder(e *Engine) *builder {
	return &builder{
		eng:    e,
		result: &Result{},
		meshes: make(map[kernel.Solid]*mesh.TriangleMesh),
	}
}

func (b *builder) mesh(s kernel.Solid) (*mesh.TriangleMesh, error) {
	if m, ok := b.meshes[s]; ok {
		return m, nil
	}
	m, err := b.eng.kernel.ToMesh(s)
	if err != nil {
		return nil, err
	}
	b.meshes[s] = m
	return m, nil
}

func (b *builder) warn(format string, args ...any) {
	b.result.Warnings = append(b.result.Warnings, EvalWarning{Message: fmt.Sprintf(format, args...)})
}

// slicePlane picks the cutting plane from :x, :y, :z or :origin/:normal.
func slicePlane(pa kwArgs) (geom.Plane, error) {
	axes := []struct {
		key    string
		normal v3.Vec
	}{
		{"x", v3.Vec{X: 1}},
		{"y", v3.Vec{Y: 1}},
		{"z", v3.Vec{Z: 1}},
	}
	for _, a := range axes {
		if v, ok := pa.kw[a.key]; ok {
			d, err := toFloat64(v)
			if err != nil {
				return geom.Plane{}, fmt.Errorf("%s: %w", a.key, err)
			}
			return geom.NewPlane(a.normal.MulScalar(d), a.normal), nil
		}
	}
	o, hasOrigin := pa.kw["origin"]
	n, hasNormal := pa.kw["normal"]
	if !hasOrigin && !hasNormal {
		return geom.Plane{}, fmt.Errorf("expected :x, :y, :z or :origin and :normal")
	}
	var origin, normal v3.Vec
	normal = v3.Vec{Z: 1}
	var err error
	if hasOrigin {
		if origin, err = toVec3(o); err != nil {
			return geom.Plane{}, fmt.Errorf("origin: %w", err)
		}
	}
	if hasNormal {
		if normal, err = toVec3(n); err != nil {
			return geom.Plane{}, fmt.Errorf("normal: %w", err)
		}
		if normal.Length() < geom.Eps {
			return geom.Plane{}, fmt.Errorf("normal must not be zero")
		}
	}
	return geom.NewPlane(origin, normal), nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs all kerf builtins into a zygomys environment.
// The builtins record sections into b.result during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, b *builder) {
	k := b.eng.kernel

	// -----------------------------------------------------------------------
	// (vec3 x y z)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		v, err := parseArgs(args).vector(0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (box 10 20 5) or (box :x 10 :y 20 :z 5)
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var dims [3]float64
		for i, key := range []string{"x", "y", "z"} {
			v, ok, err := pa.number(key, i)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: %w", err)
			}
			if !ok || v <= 0 {
				return zygo.SexpNull, fmt.Errorf("box: %s must be positive", key)
			}
			dims[i] = v
		}
		return &sexpSolid{solid: k.Box(dims[0], dims[1], dims[2])}, nil
	})

	// -----------------------------------------------------------------------
	// (cylinder :height 10 :radius 2) or (cylinder 10 2)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, okH, err := pa.number("height", 0)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		r, okR, err := pa.number("radius", 1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		if !okH || !okR || h <= 0 || r <= 0 {
			return zygo.SexpNull, fmt.Errorf("cylinder: height and radius must be positive")
		}
		segments := 32
		if v, ok := pa.kw["segments"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cylinder: segments: %w", err)
			}
			segments = int(f)
		}
		return &sexpSolid{solid: k.Cylinder(h, r, segments)}, nil
	})

	// -----------------------------------------------------------------------
	// (union a b ...), (difference a b ...), (intersection a b ...)
	// Operands are all solids or all regions.
	// -----------------------------------------------------------------------
	type combinator struct {
		name   string
		solid  func(a, b kernel.Solid) kernel.Solid
		region func(a, b *region.Region) (*region.Region, error)
	}
	for _, c := range []combinator{
		{"union", k.Union, (*region.Region).Union},
		{"difference", k.Difference, (*region.Region).Subtract},
		{"intersection", k.Intersection, (*region.Region).Intersect},
	} {
		env.AddFunction(c.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			items, err := flatten(args)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", c.name, err)
			}
			if len(items) == 0 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least one operand", c.name)
			}
			if _, ok := items[0].(*sexpSolid); ok {
				acc, _ := toSolid(items[0])
				for i, it := range items[1:] {
					s, err := toSolid(it)
					if err != nil {
						return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", c.name, i+2, err)
					}
					acc = c.solid(acc, s)
				}
				return &sexpSolid{solid: acc}, nil
			}
			acc, err := toRegion(items[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand 1: %w", c.name, err)
			}
			for i, it := range items[1:] {
				r, err := toRegion(it)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", c.name, i+2, err)
				}
				if acc, err = c.region(acc, r); err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: %w", c.name, err)
				}
			}
			return &sexpRegion{region: acc}, nil
		})
	}

	// -----------------------------------------------------------------------
	// (translate x (vec3 dx dy dz)) or (translate x dx dy dz)
	// Regions move by the X and Y components.
	// -----------------------------------------------------------------------
	env.AddFunction("translate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("translate requires a target and an offset")
		}
		d, err := pa.vector(1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("translate: %w", err)
		}
		switch t := pa.positional[0].(type) {
		case *sexpSolid:
			return &sexpSolid{solid: k.Translate(t.solid, d.X, d.Y, d.Z)}, nil
		case *sexpRegion:
			return &sexpRegion{region: t.region.Translate(d.X, d.Y)}, nil
		}
		return zygo.SexpNull, fmt.Errorf("translate: expected solid or region, got %T", pa.positional[0])
	})

	// -----------------------------------------------------------------------
	// (rotate solid (vec3 rx ry rz)): Euler angles in degrees
	// -----------------------------------------------------------------------
	env.AddFunction("rotate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("rotate requires a solid and angles")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		a, err := pa.vector(1)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rotate: %w", err)
		}
		return &sexpSolid{solid: k.Rotate(s, a.X, a.Y, a.Z)}, nil
	})

	// -----------------------------------------------------------------------
	// (cut solid :z 2.5) or (cut solid :origin (vec3 ...) :normal (vec3 ...))
	// zygomys already uses slice for arrays.
	// -----------------------------------------------------------------------
	env.AddFunction("cut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("cut requires a solid")
		}
		s, err := toSolid(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		p, err := slicePlane(pa)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		m, err := b.mesh(s)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		t, st, err := b.eng.slicer.Slice(m, p)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		if st.Open > 0 || st.Degenerate > 0 {
			b.warn("slice at %v: %d unclosed segments, %d degenerate loops", p.Origin(), st.Open, st.Degenerate)
		}
		r, err := region.FromTree(b.eng.clip, t)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cut: %w", err)
		}
		return &sexpRegion{region: r}, nil
	})

	// -----------------------------------------------------------------------
	// (rect w h) or (rect x0 y0 x1 y1)
	// -----------------------------------------------------------------------
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var c []float64
		for _, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: %w", err)
			}
			c = append(c, f)
		}
		switch len(c) {
		case 2:
			c = []float64{0, 0, c[0], c[1]}
		case 4:
		default:
			return zygo.SexpNull, fmt.Errorf("rect requires 2 or 4 numbers, got %d", len(c))
		}
		x0, y0, x1, y1 := min(c[0], c[2]), min(c[1], c[3]), max(c[0], c[2]), max(c[1], c[3])
		if x1 <= x0 || y1 <= y0 {
			return zygo.SexpNull, fmt.Errorf("rect: width and height must be positive")
		}
		r, err := region.FromContours(b.eng.clip, []fixed.Contour{{
			fixed.Pt(x0, y0), fixed.Pt(x1, y0), fixed.Pt(x1, y1), fixed.Pt(x0, y1),
		}})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("rect: %w", err)
		}
		return &sexpRegion{region: r}, nil
	})

	// -----------------------------------------------------------------------
	// (offset region d): grow (d > 0) or shrink (d < 0) with round corners
	// -----------------------------------------------------------------------
	env.AddFunction("offset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("offset requires a region and a distance")
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset: %w", err)
		}
		d, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset: distance: %w", err)
		}
		out, err := r.Offset(d)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("offset: %w", err)
		}
		return &sexpRegion{region: out}, nil
	})

	// -----------------------------------------------------------------------
	// (subtract a b ...): a minus every following region
	// -----------------------------------------------------------------------
	env.AddFunction("subtract", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items, err := flatten(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		if len(items) < 2 {
			return zygo.SexpNull, fmt.Errorf("subtract requires at least two regions")
		}
		acc, err := toRegion(items[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
		}
		for _, it := range items[1:] {
			r, err := toRegion(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
			}
			if acc, err = acc.Subtract(r); err != nil {
				return zygo.SexpNull, fmt.Errorf("subtract: %w", err)
			}
		}
		return &sexpRegion{region: acc}, nil
	})

	// -----------------------------------------------------------------------
	// (merge r1 r2 ...) or (merge (list r1 r2 ...)): union of all regions
	// -----------------------------------------------------------------------
	env.AddFunction("merge", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items, err := flatten(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge: %w", err)
		}
		acc := region.New(b.eng.clip)
		for _, it := range items {
			r, err := toRegion(it)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: %w", err)
			}
			if acc, err = acc.Union(r); err != nil {
				return zygo.SexpNull, fmt.Errorf("merge: %w", err)
			}
		}
		return &sexpRegion{region: acc}, nil
	})

	// -----------------------------------------------------------------------
	// (remove-holes region max-perimeter)
	// -----------------------------------------------------------------------
	env.AddFunction("remove_holes", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("remove-holes requires a region and a perimeter limit")
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-holes: %w", err)
		}
		limit, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("remove-holes: perimeter: %w", err)
		}
		return &sexpRegion{region: r.RemoveHoles(limit)}, nil
	})

	// -----------------------------------------------------------------------
	// (section "name" region) or (section :name region)
	// -----------------------------------------------------------------------
	env.AddFunction("section", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("section requires a name and a region")
		}
		secName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("section: name: %w", err)
		}
		if secName == "" {
			return zygo.SexpNull, fmt.Errorf("section: name must not be empty")
		}
		r, err := toRegion(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("section %q: %w", secName, err)
		}
		if b.result.Lookup(secName) != nil {
			return zygo.SexpNull, fmt.Errorf("section %q is already defined", secName)
		}
		b.result.Sections = append(b.result.Sections, Section{Name: secName, Region: r})
		if r.IsEmpty() {
			b.result.Warnings = append(b.result.Warnings, EvalWarning{Message: "region is empty", Section: secName})
		}
		return args[1], nil
	})

	// -----------------------------------------------------------------------
	// (area region), (perimeter region)
	// -----------------------------------------------------------------------
	env.AddFunction("area", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("area requires one region")
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("area: %w", err)
		}
		return &zygo.SexpFloat{Val: r.Area()}, nil
	})

	env.AddFunction("perimeter", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("perimeter requires one region")
		}
		r, err := toRegion(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("perimeter: %w", err)
		}
		return &zygo.SexpFloat{Val: r.Perimeter()}, nil
	})
}
