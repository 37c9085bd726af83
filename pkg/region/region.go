// Package region is the region algebra of the kernel: booleans, offsets,
// measurement and topology queries over nested contour trees. A Region is
// an immutable value; every operation returns a new one.
package region

import (
	"errors"
	"fmt"
	"math"

	"github.com/chazu/kerf/pkg/clip"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/samber/lo"
)

// ErrInvalidTree is returned when a contour tree breaks the nesting or
// winding rules.
var ErrInvalidTree = errors.New("region: invalid contour tree")

// Region is a planar area described by a contour tree.
type Region struct {
	tree   *contour.Tree
	engine clip.Engine
}

// New returns an empty region whose operations run on engine.
func New(engine clip.Engine) *Region {
	return &Region{tree: contour.New(), engine: engine}
}

// FromTree wraps t after validating it. The region takes ownership of t.
func FromTree(engine clip.Engine, t *contour.Tree) (*Region, error) {
	r := &Region{tree: t, engine: engine}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// FromContours builds a region from loops of any winding. Nesting is
// recovered by even-odd filling.
func FromContours(engine clip.Engine, cs []fixed.Contour) (*Region, error) {
	t, err := engine.Boolean(clip.Union, cs, nil, clip.EvenOdd)
	if err != nil {
		return nil, fmt.Errorf("region: build: %w", err)
	}
	return &Region{tree: t, engine: engine}, nil
}

func (r *Region) with(t *contour.Tree) *Region {
	return &Region{tree: t, engine: r.engine}
}

// Tree returns the underlying contour tree. It must not be modified.
func (r *Region) Tree() *contour.Tree { return r.tree }

// IsEmpty reports whether the region has no contours.
func (r *Region) IsEmpty() bool { return r.tree.IsEmpty() }

// Clone returns a deep copy of r.
func (r *Region) Clone() *Region { return r.with(r.tree.Clone()) }

// Validate checks the tree and wraps the first error in ErrInvalidTree.
// Warnings are ignored.
func (r *Region) Validate() error {
	for _, e := range contour.Validate(r.tree) {
		if e.Severity == contour.SeverityError {
			return fmt.Errorf("%w: %v", ErrInvalidTree, e)
		}
	}
	return nil
}

// --- Booleans ---

func (r *Region) boolean(op clip.Op, subject, other *Region) (*Region, error) {
	t, err := r.engine.Boolean(op, subject.Contours(), other.Contours(), clip.NonZero)
	if err != nil {
		return nil, fmt.Errorf("region: %s: %w", op, err)
	}
	return r.with(t), nil
}

// Union returns the area covered by r or o.
func (r *Region) Union(o *Region) (*Region, error) {
	return r.boolean(clip.Union, r, o)
}

// Subtract returns r with o removed.
func (r *Region) Subtract(o *Region) (*Region, error) {
	return r.boolean(clip.Difference, r, o)
}

// SubtractFrom returns o with r removed.
func (r *Region) SubtractFrom(o *Region) (*Region, error) {
	return r.boolean(clip.Difference, o, r)
}

// Intersect returns the area covered by both r and o.
func (r *Region) Intersect(o *Region) (*Region, error) {
	return r.boolean(clip.Intersection, r, o)
}

// Xor returns the area covered by exactly one of r and o.
func (r *Region) Xor(o *Region) (*Region, error) {
	return r.boolean(clip.Xor, r, o)
}

// Offset grows the region by d working units, or shrinks it for negative
// d, with round joins.
func (r *Region) Offset(d float64) (*Region, error) {
	cs := r.engine.Offset(r.Contours(), d*fixed.Scale, clip.JoinRound)
	t, err := r.engine.Boolean(clip.Union, cs, nil, clip.NonZero)
	if err != nil {
		return nil, fmt.Errorf("region: offset %g: %w", d, err)
	}
	return r.with(t), nil
}

// --- Measurement ---

// Area returns the covered area in working units squared.
func (r *Region) Area() float64 {
	return r.tree.Area() / (fixed.Scale * fixed.Scale)
}

// Perimeter returns the total length of every contour in working units.
func (r *Region) Perimeter() float64 {
	return lo.SumBy(r.Contours(), func(c fixed.Contour) float64 {
		return c.Perimeter()
	}) / fixed.Scale
}

// Bounds returns the bounding box of the region. ok is false for an empty
// region.
func (r *Region) Bounds() (low, high fixed.Point, ok bool) {
	low = fixed.Point{X: math.MaxInt64, Y: math.MaxInt64}
	high = fixed.Point{X: math.MinInt64, Y: math.MinInt64}
	for _, id := range r.tree.TopLevel() {
		a, b := r.tree.Nodes[id].Contour.Bounds()
		low.X, low.Y = min(low.X, a.X), min(low.Y, a.Y)
		high.X, high.Y = max(high.X, b.X), max(high.Y, b.Y)
		ok = true
	}
	if !ok {
		return fixed.Point{}, fixed.Point{}, false
	}
	return low, high, true
}

// Contains reports whether o lies entirely inside r, that is whether
// adding o to r does not grow its area. Areas are compared exactly on the
// fixed-point contours, so any growth at all means o is not contained. An
// empty o is always contained.
func (r *Region) Contains(o *Region) (bool, error) {
	if o.IsEmpty() {
		return true, nil
	}
	u, err := r.Union(o)
	if err != nil {
		return false, err
	}
	return u.tree.TwiceArea().Cmp(r.tree.TwiceArea()) <= 0, nil
}

// --- Access ---

// Contours returns every contour in pre-order.
func (r *Region) Contours() []fixed.Contour { return r.tree.Contours() }

// Outers returns the counter-clockwise contours in pre-order.
func (r *Region) Outers() []fixed.Contour { return r.pick(r.tree.Outers()) }

// Holes returns the clockwise contours in pre-order.
func (r *Region) Holes() []fixed.Contour { return r.pick(r.tree.Holes()) }

func (r *Region) pick(ids []contour.NodeID) []fixed.Contour {
	return lo.Map(ids, func(id contour.NodeID, _ int) fixed.Contour {
		return r.tree.Nodes[id].Contour
	})
}

// Translate returns r moved by (dx, dy) working units.
func (r *Region) Translate(dx, dy float64) *Region {
	d := fixed.Pt(dx, dy)
	return r.with(r.tree.Map(func(c fixed.Contour) fixed.Contour {
		out := make(fixed.Contour, len(c))
		for i, p := range c {
			out[i] = p.Add(d)
		}
		return out
	}))
}
