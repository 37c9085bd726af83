// Package clip is the polygon boolean and offset engine used by the kernel.
// It converts fixed-point contours to go.clipper paths, runs the operation
// and converts the result back, building contour trees from clipper's
// PolyTree output.
package clip

import (
	"errors"
	"fmt"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
	clipper "github.com/ctessum/go.clipper"
)

// ErrBooleanFailed is returned when the clipping engine cannot produce a
// result, for example when coordinates exceed its supported range.
var ErrBooleanFailed = errors.New("clip: boolean operation failed")

// FillRule selects which regions of a set of possibly overlapping contours
// count as filled.
type FillRule int

const (
	EvenOdd FillRule = iota
	NonZero
	Positive
	Negative
)

func (f FillRule) String() string {
	switch f {
	case EvenOdd:
		return "even-odd"
	case NonZero:
		return "non-zero"
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return fmt.Sprintf("FillRule(%d)", int(f))
	}
}

// Op is a boolean operation.
type Op int

const (
	Union Op = iota
	Difference
	Intersection
	Xor
)

func (o Op) String() string {
	switch o {
	case Union:
		return "union"
	case Difference:
		return "difference"
	case Intersection:
		return "intersection"
	case Xor:
		return "xor"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// JoinType is the corner treatment used by offsets.
type JoinType int

const (
	JoinRound JoinType = iota
	JoinSquare
	JoinMiter
)

// Engine is the polygon boolean and offset capability the kernel relies on.
type Engine interface {
	// Simplify removes self-intersections and duplicate points and fixes
	// orientation.
	Simplify(cs []fixed.Contour, fill FillRule) []fixed.Contour
	// Offset grows (delta > 0) or shrinks (delta < 0) closed contours by
	// delta fixed units.
	Offset(cs []fixed.Contour, delta float64, join JoinType) []fixed.Contour
	// Boolean combines subject and clip and returns the nested result.
	Boolean(op Op, subject, clip []fixed.Contour, fill FillRule) (*contour.Tree, error)
}

// Compile-time interface check.
var _ Engine = (*Clipper)(nil)

// Clipper implements Engine on github.com/ctessum/go.clipper.
type Clipper struct {
	// ArcTolerance is the maximum deviation of round joins, in fixed units.
	ArcTolerance float64
	// MiterLimit bounds miter joins as a multiple of the offset distance.
	MiterLimit float64
}

// New returns a Clipper configured from cfg.
func New(cfg config.Config) *Clipper {
	return &Clipper{
		ArcTolerance: cfg.ArcTolerance * fixed.Scale,
		MiterLimit:   2,
	}
}

// Simplify implements Engine.
func (c *Clipper) Simplify(cs []fixed.Contour, fill FillRule) []fixed.Contour {
	cl := clipper.NewClipper(clipper.IoNone)
	return fromPaths(cl.SimplifyPolygons(toPaths(cs), fillType(fill)))
}

// Offset implements Engine.
func (c *Clipper) Offset(cs []fixed.Contour, delta float64, join JoinType) []fixed.Contour {
	if delta == 0 {
		return cloneAll(cs)
	}
	co := clipper.NewClipperOffset()
	if c.ArcTolerance > 0 {
		co.ArcTolerance = c.ArcTolerance
	}
	if c.MiterLimit > 0 {
		co.MiterLimit = c.MiterLimit
	}
	co.AddPaths(toPaths(cs), joinType(join), clipper.EtClosedPolygon)
	return fromPaths(co.Execute(delta))
}

// Boolean implements Engine. The result is a fresh tree with outers wound
// counter-clockwise and holes clockwise.
func (c *Clipper) Boolean(op Op, subject, clip []fixed.Contour, fill FillRule) (tree *contour.Tree, err error) {
	defer func() {
		// go.clipper panics on out-of-range coordinates.
		if r := recover(); r != nil {
			tree, err = nil, fmt.Errorf("%w: %s: %v", ErrBooleanFailed, op, r)
		}
	}()
	sp, cp := toPaths(subject), toPaths(clip)
	if len(sp) == 0 && len(cp) == 0 {
		// clipper reports failure when it has no edges to sweep.
		return contour.New(), nil
	}
	cl := clipper.NewClipper(clipper.IoNone)
	cl.AddPaths(sp, clipper.PtSubject, true)
	cl.AddPaths(cp, clipper.PtClip, true)
	pt, ok := cl.Execute2(clipType(op), fillType(fill), fillType(fill))
	if !ok || pt == nil {
		return nil, fmt.Errorf("%w: %s", ErrBooleanFailed, op)
	}
	return fromPolyTree(pt), nil
}

// fromPolyTree copies a clipper PolyTree into a contour tree.
func fromPolyTree(pt *clipper.PolyTree) *contour.Tree {
	return buildTree(pt.Childs(), (*clipper.PolyNode).Contour, (*clipper.PolyNode).Childs)
}

// buildTree copies a nested path hierarchy into a contour tree, breadth
// first. A path with fewer than three points is skipped and its
// children take its place under its parent, so their hole status follows
// their new depth.
func buildTree[N any](roots []N, path func(N) clipper.Path, childs func(N) []N) *contour.Tree {
	type pending struct {
		node   N
		parent contour.NodeID
		hole   bool
	}
	t := contour.New()
	queue := make([]pending, 0, len(roots))
	for _, n := range roots {
		queue = append(queue, pending{n, contour.Root, false})
	}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		c := fromPath(path(p.node))
		if len(c) < 3 {
			for _, child := range childs(p.node) {
				queue = append(queue, pending{child, p.parent, p.hole})
			}
			continue
		}
		id := t.Add(p.parent, contour.Orient(c, p.hole), p.hole)
		for _, child := range childs(p.node) {
			queue = append(queue, pending{child, id, !p.hole})
		}
	}
	return t
}

func toPath(c fixed.Contour) clipper.Path {
	path := make(clipper.Path, 0, len(c))
	for i, p := range c {
		// Offsetting compares points by identity, so collapse repeats here.
		if i > 0 && p == c[i-1] {
			continue
		}
		path = append(path, &clipper.IntPoint{X: clipper.CInt(p.X), Y: clipper.CInt(p.Y)})
	}
	for len(path) > 1 && *path[0] == *path[len(path)-1] {
		path = path[:len(path)-1]
	}
	return path
}

func toPaths(cs []fixed.Contour) clipper.Paths {
	paths := make(clipper.Paths, 0, len(cs))
	for _, c := range cs {
		if p := toPath(c); len(p) >= 3 {
			paths = append(paths, p)
		}
	}
	return paths
}

func fromPath(path clipper.Path) fixed.Contour {
	c := make(fixed.Contour, len(path))
	for i, p := range path {
		c[i] = fixed.Point{X: int64(p.X), Y: int64(p.Y)}
	}
	return c
}

func fromPaths(paths clipper.Paths) []fixed.Contour {
	out := make([]fixed.Contour, 0, len(paths))
	for _, p := range paths {
		if len(p) >= 3 {
			out = append(out, fromPath(p))
		}
	}
	return out
}

func cloneAll(cs []fixed.Contour) []fixed.Contour {
	out := make([]fixed.Contour, len(cs))
	for i, c := range cs {
		out[i] = c.Clone()
	}
	return out
}

func fillType(f FillRule) clipper.PolyFillType {
	switch f {
	case NonZero:
		return clipper.PftNonZero
	case Positive:
		return clipper.PftPositive
	case Negative:
		return clipper.PftNegative
	default:
		return clipper.PftEvenOdd
	}
}

func clipType(o Op) clipper.ClipType {
	switch o {
	case Difference:
		return clipper.CtDifference
	case Intersection:
		return clipper.CtIntersection
	case Xor:
		return clipper.CtXor
	default:
		return clipper.CtUnion
	}
}

func joinType(j JoinType) clipper.JoinType {
	switch j {
	case JoinSquare:
		return clipper.JtSquare
	case JoinMiter:
		return clipper.JtMiter
	default:
		return clipper.JtRound
	}
}
