// Package polygon triangulates planar regions with holes.
//
// Each outer contour is merged with its holes into a single weakly simple
// ring by zero-width bridge edges, and the ring is then cut into triangles
// by ear clipping. Outers wind counter-clockwise and holes clockwise; the
// emitted triangles are counter-clockwise.
//
// Pathological input degrades instead of failing: a hole that cannot be
// bridged is left out and counted in Result.Dropped, and a ring on which no
// ear can be found within the retry budget stops early with
// Result.Complete set to false.
package polygon

import (
	"sort"

	"github.com/chazu/kerf/pkg/config"
	"github.com/chazu/kerf/pkg/contour"
	"github.com/chazu/kerf/pkg/fixed"
)

// Triangle is a counter-clockwise triangle in fixed units.
type Triangle [3]fixed.Point

// Area returns the signed area in fixed units squared.
func (t Triangle) Area() float64 {
	return fixed.Contour(t[:]).Area()
}

// Centroid returns the rounded average of the corners.
func (t Triangle) Centroid() fixed.Point {
	return fixed.Point{
		X: (t[0].X + t[1].X + t[2].X) / 3,
		Y: (t[0].Y + t[1].Y + t[2].Y) / 3,
	}
}

// Stats counts what the triangulator did.
type Stats struct {
	Groups        int // outer contours processed
	Bridges       int // holes merged into their outer ring
	Removed       int // degenerate vertices cleaned away
	Attempts      int // ear tests run
	Failed        int // ear tests rejected
	WatchdogTrips int // rings abandoned by the retry guard
}

func (s *Stats) add(o Stats) {
	s.Groups += o.Groups
	s.Bridges += o.Bridges
	s.Removed += o.Removed
	s.Attempts += o.Attempts
	s.Failed += o.Failed
	s.WatchdogTrips += o.WatchdogTrips
}

// Result is the output of a triangulation.
type Result struct {
	Triangles []Triangle
	// Complete is false when ear clipping stopped early on any ring.
	Complete bool
	// Dropped counts holes left out because no valid bridge existed.
	Dropped int
	Stats   Stats
}

// Area returns the total triangle area in fixed units squared.
func (r Result) Area() float64 {
	var a float64
	for _, t := range r.Triangles {
		a += t.Area()
	}
	return a
}

func (r *Result) merge(o Result) {
	r.Triangles = append(r.Triangles, o.Triangles...)
	r.Complete = r.Complete && o.Complete
	r.Dropped += o.Dropped
	r.Stats.add(o.Stats)
}

// Triangulator runs bridging and ear clipping.
type Triangulator struct {
	// RetryFactor bounds consecutive failed ear tests at RetryFactor times
	// the current ring size.
	RetryFactor int
}

// New returns a Triangulator configured from cfg.
func New(cfg config.Config) *Triangulator {
	return &Triangulator{RetryFactor: cfg.EarClipRetryFactor}
}

// Triangulate nests an arbitrary set of simple, non-crossing contours by
// containment and triangulates every outer with its direct holes.
func (tr *Triangulator) Triangulate(cs []fixed.Contour) Result {
	return tr.TriangulateTree(contour.FromContours(cs))
}

// TriangulateTree triangulates every outer contour of t together with its
// direct hole children.
func (tr *Triangulator) TriangulateTree(t *contour.Tree) Result {
	res := Result{Complete: true}
	t.Walk(func(id contour.NodeID, _ int) bool {
		n := t.Nodes[id]
		if n.Hole {
			return true
		}
		holes := make([]fixed.Contour, 0, len(n.Children))
		for _, c := range n.Children {
			holes = append(holes, t.Nodes[c].Contour)
		}
		res.merge(tr.TriangulateGroup(n.Contour, holes))
		return true
	})
	return res
}

// TriangulateGroup triangulates one outer contour with the holes inside it.
// Windings are normalized before use.
func (tr *Triangulator) TriangulateGroup(outer fixed.Contour, holes []fixed.Contour) Result {
	res := Result{Complete: true}
	res.Stats.Groups = 1

	var a arena
	root := a.addRing(contour.Orient(outer, false))
	for _, h := range holes {
		a.addRing(contour.Orient(h, true))
	}
	for r := range a.heads {
		res.Stats.Removed += a.cleanupRing(r)
	}
	if a.sizes[root] < 3 {
		return res
	}

	res.Stats.Bridges, res.Dropped = bridgeAll(&a, root)
	res.Triangles, res.Complete = tr.clip(&a, root, &res.Stats)
	return res
}

// --- Bridging ---

type candidate struct {
	a, b int
	d2   float64
}

// bridgeAll splices every hole ring into ring root, shortest valid bridge
// first. It returns the number of holes merged and the number dropped.
func bridgeAll(a *arena, root int) (merged, dropped int) {
	for {
		var cands []candidate
		open := 0
		rootVerts := a.vertices(root)
		for r := range a.heads {
			if r == root || a.sizes[r] == 0 {
				continue
			}
			open++
			for _, hb := range a.vertices(r) {
				for _, ma := range rootVerts {
					d := a.pts[hb].Sub(a.pts[ma])
					dx, dy := float64(d.X), float64(d.Y)
					cands = append(cands, candidate{ma, hb, dx*dx + dy*dy})
				}
			}
		}
		if open == 0 {
			return merged, dropped
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].d2 < cands[j].d2 })

		found := false
		for _, c := range cands {
			if validBridge(a, c.a, c.b) {
				splice(a, c.a, c.b)
				merged++
				found = true
				break
			}
		}
		if !found {
			// Nothing left can be reached without crossing geometry.
			for r := range a.heads {
				if r != root && a.sizes[r] > 0 {
					for _, v := range a.vertices(r) {
						a.remove(v)
					}
					dropped++
				}
			}
			return merged, dropped
		}
	}
}

// validBridge reports whether the segment from root-ring vertex va to hole
// vertex vb stays inside the region: it enters the interior wedge at both
// ends and neither crosses nor touches any live edge away from its own
// endpoints.
func validBridge(a *arena, va, vb int) bool {
	pa, pb := a.pts[va], a.pts[vb]
	if pa == pb {
		return false
	}
	if !fixed.IsBetweenCCW(a.pts[a.next[va]].Sub(pa), pb.Sub(pa), a.pts[a.prev[va]].Sub(pa)) {
		return false
	}
	if !fixed.IsBetweenCCW(a.pts[a.next[vb]].Sub(pb), pa.Sub(pb), a.pts[a.prev[vb]].Sub(pb)) {
		return false
	}
	for v := range a.pts {
		if !a.alive[v] {
			continue
		}
		if blocks(pa, pb, a.pts[v], a.pts[a.next[v]]) {
			return false
		}
	}
	return true
}

// blocks reports whether edge p-q obstructs segment a-b anywhere other than
// at shared endpoints.
func blocks(a, b, p, q fixed.Point) bool {
	if fixed.SegmentsCross(a, b, p, q) {
		return true
	}
	for _, e := range [2]fixed.Point{p, q} {
		if e != a && e != b && fixed.OnSegment(e, a, b) {
			return true
		}
	}
	for _, s := range [2]fixed.Point{a, b} {
		if s != p && s != q && fixed.OnSegment(s, p, q) {
			return true
		}
	}
	return false
}

// splice joins the ring holding vb into the ring holding va along the
// bridge va-vb, duplicating both endpoints:
//
//	va -> vb -> ...hole... -> vb' -> va' -> next(va)
func splice(a *arena, va, vb int) {
	from, into := a.ring[vb], a.ring[va]
	for _, v := range a.vertices(from) {
		a.ring[v] = into
	}
	a.sizes[into] += a.sizes[from] + 2
	a.sizes[from] = 0
	a.heads[from] = -1

	va2, vb2 := a.clone(va), a.clone(vb)
	aNext, bPrev := a.next[va], a.prev[vb]

	a.next[va], a.prev[vb] = vb, va
	a.next[bPrev], a.prev[vb2] = vb2, bPrev
	a.next[vb2], a.prev[va2] = va2, vb2
	a.next[va2], a.prev[aNext] = aNext, va2
}

// --- Ear clipping ---

// clip cuts ring r into triangles. ok is false if the retry guard tripped.
func (tr *Triangulator) clip(a *arena, r int, st *Stats) (tris []Triangle, ok bool) {
	factor := max(tr.RetryFactor, 1)
	failed := 0
	v := a.heads[r]
	for a.sizes[r] > 2 {
		if !a.alive[v] {
			v = a.heads[r]
		}
		st.Attempts++
		if isEar(a, v) {
			p, n := a.prev[v], a.next[v]
			tris = append(tris, Triangle{a.pts[p], a.pts[v], a.pts[n]})
			a.remove(v)
			st.Removed += a.cleanup([]int{p, n})
			failed = 0
			v = n
			continue
		}
		st.Failed++
		failed++
		if failed > factor*a.sizes[r] {
			st.WatchdogTrips++
			return tris, false
		}
		v = a.next[v]
	}
	return tris, true
}

// isEar reports whether the corner at v can be cut off: it is strictly
// convex, no other vertex lies inside or on the candidate triangle, and the
// closing diagonal crosses no edge.
func isEar(a *arena, v int) bool {
	vp, vn := a.prev[v], a.next[v]
	p, q, r := a.pts[vp], a.pts[v], a.pts[vn]
	if fixed.Orient(p, q, r) <= 0 {
		return false
	}
	for u := a.next[vn]; u != vp; u = a.next[u] {
		s := a.pts[u]
		if s == p || s == q || s == r {
			continue
		}
		if fixed.Orient(p, q, s) >= 0 && fixed.Orient(q, r, s) >= 0 && fixed.Orient(r, p, s) >= 0 {
			return false
		}
	}
	for u := vn; u != vp; u = a.next[u] {
		if fixed.SegmentsCross(r, p, a.pts[u], a.pts[a.next[u]]) {
			return false
		}
	}
	return true
}
