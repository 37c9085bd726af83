package slicer

import (
	"github.com/chazu/kerf/pkg/fixed"
	"github.com/dhconnelly/rtreego"
)

// Segment is a 2D segment in plane coordinates running from A to B.
// StitchLoops ignores the direction; StitchDirected uses it to orient loops.
type Segment struct {
	A, B fixed.Point
}

// StitchResult is the output of StitchLoops and StitchDirected.
type StitchResult struct {
	// Loops are closed loops: counter-clockwise from StitchLoops, following
	// their segments' direction from StitchDirected.
	Loops []fixed.Contour
	// Open counts segments consumed by chains that never closed.
	Open int
	// Degenerate counts segments whose endpoints snapped together or
	// that closed a zero-area loop.
	Degenerate int
}

// snapper clusters points lying within a snap distance of each other.
type snapper struct {
	snap  int64
	pts   []fixed.Point
	exact map[fixed.Point]int
	index *rtreego.Rtree
}

type snapEntry struct {
	id   int
	rect rtreego.Rect
}

func (e *snapEntry) Bounds() rtreego.Rect { return e.rect }

func newSnapper(snap int64) *snapper {
	return &snapper{
		snap:  snap,
		exact: make(map[fixed.Point]int),
		index: rtreego.NewTree(2, 25, 50),
	}
}

// id returns the cluster of p, joining the nearest existing cluster within
// the snap distance or starting a new one.
func (s *snapper) id(p fixed.Point) int {
	if i, ok := s.exact[p]; ok {
		return i
	}
	q := rtreego.Point{float64(p.X), float64(p.Y)}
	if s.snap > 0 && s.index.Size() > 0 {
		best, bestD := -1, int64(-1)
		lim := s.snap * s.snap
		for _, e := range s.index.SearchIntersect(q.ToRect(float64(s.snap) + 0.5)) {
			id := e.(*snapEntry).id
			d := s.pts[id].Sub(p)
			if d2 := d.X*d.X + d.Y*d.Y; d2 <= lim && (best < 0 || d2 < bestD) {
				best, bestD = id, d2
			}
		}
		if best >= 0 {
			s.exact[p] = best
			return best
		}
	}
	id := len(s.pts)
	s.pts = append(s.pts, p)
	s.exact[p] = id
	s.index.Insert(&snapEntry{id: id, rect: q.ToRect(0.5)})
	return id
}

// StitchLoops joins an unordered, undirected segment soup into closed
// loops. Endpoints within snap fixed units of each other are treated as one
// vertex. From each vertex the walk continues along the unused segment
// making the largest counter-clockwise turn from the incoming direction;
// reversing straight back is the last resort. A loop is emitted as soon as
// the walk returns to a vertex already on its path, and walking resumes
// from there. Every segment is consumed exactly once. Loops are returned
// counter-clockwise.
func StitchLoops(segs []Segment, snap int64) StitchResult {
	return stitch(segs, snap, false)
}

// StitchDirected stitches like StitchLoops but orients each loop to agree
// with the majority of its segments' A to B directions. Loops whose
// segments are evenly split fall back to counter-clockwise.
func StitchDirected(segs []Segment, snap int64) StitchResult {
	return stitch(segs, snap, true)
}

func stitch(segs []Segment, snap int64, directed bool) StitchResult {
	var res StitchResult
	sn := newSnapper(snap)

	type edge struct{ a, b int }
	edges := make([]edge, 0, len(segs))
	for _, s := range segs {
		a, b := sn.id(s.A), sn.id(s.B)
		if a == b {
			res.Degenerate++
			continue
		}
		edges = append(edges, edge{a, b})
	}
	adj := make([][]int, len(sn.pts))
	for i, e := range edges {
		adj[e.a] = append(adj[e.a], i)
		adj[e.b] = append(adj[e.b], i)
	}
	used := make([]bool, len(edges))
	other := func(e, v int) int {
		if edges[e].a == v {
			return edges[e].b
		}
		return edges[e].a
	}

	// onPath maps a vertex to its position in the current path, or -1.
	onPath := make([]int, len(sn.pts))
	for i := range onPath {
		onPath[i] = -1
	}

	for start := range edges {
		if used[start] {
			continue
		}
		used[start] = true
		path := []int{edges[start].a, edges[start].b}
		// via[i] is the edge the walk took to reach path[i].
		via := []int{-1, start}
		onPath[path[0]], onPath[path[1]] = 0, 1
		chain := 1 // segments on path

		for len(path) > 1 {
			cur, prev := path[len(path)-1], path[len(path)-2]
			back := sn.pts[prev].Sub(sn.pts[cur])
			next := -1
			for _, e := range adj[cur] {
				if used[e] {
					continue
				}
				if next < 0 || turnsLeftOf(back, sn.pts[other(e, cur)].Sub(sn.pts[cur]), sn.pts[other(next, cur)].Sub(sn.pts[cur])) {
					next = e
				}
			}
			if next < 0 {
				// Dead end: the chain cannot close.
				res.Open += chain
				break
			}
			used[next] = true
			chain++
			v := other(next, cur)
			if k := onPath[v]; k >= 0 {
				loop := make(fixed.Contour, 0, len(path)-k)
				for _, u := range path[k:] {
					loop = append(loop, sn.pts[u])
				}
				if loop.Area() != 0 {
					// Count the loop's edges walked from a to b.
					agree := 0
					if edges[next].a == cur {
						agree++
					}
					for i := k + 1; i < len(path); i++ {
						if edges[via[i]].a == path[i-1] {
							agree++
						}
					}
					res.Loops = append(res.Loops, orient(loop, directed, 2*agree-len(loop)))
				} else {
					res.Degenerate += len(loop)
				}
				chain -= len(path) - k
				for _, u := range path[k+1:] {
					onPath[u] = -1
				}
				path, via = path[:k+1], via[:k+1]
				continue
			}
			onPath[v] = len(path)
			path = append(path, v)
			via = append(via, next)
		}
		for _, u := range path {
			onPath[u] = -1
		}
	}
	return res
}

// turnsLeftOf reports whether outgoing direction o1 makes a larger
// counter-clockwise angle than o2, both measured from back, the direction
// pointing back along the incoming segment. An angle of zero (going
// straight back) ranks lowest.
func turnsLeftOf(back, o1, o2 fixed.Point) bool {
	c1, c2 := halfClass(back, o1), halfClass(back, o2)
	if c1 != c2 {
		return c1 > c2
	}
	if c1 == 1 || c1 == 3 {
		// Same open half-plane: o2 lies counter-clockwise of o1 means o1 is
		// the smaller angle.
		return fixed.SignOfCross(o2, o1) > 0
	}
	return false
}

// halfClass buckets the counter-clockwise angle from r to o: 0 for zero,
// 1 for (0, pi), 2 for pi, 3 for (pi, 2pi).
func halfClass(r, o fixed.Point) int {
	switch s := fixed.SignOfCross(r, o); {
	case s > 0:
		return 1
	case s < 0:
		return 3
	case fixed.SignOfDot(r, o) > 0:
		return 0
	default:
		return 2
	}
}

// orient returns the walked loop c counter-clockwise, or, when directed,
// in the direction its segments favour. vote is the number of loop edges
// walked along their segment direction minus those walked against it.
func orient(c fixed.Contour, directed bool, vote int) fixed.Contour {
	switch {
	case directed && vote > 0:
		return c
	case directed && vote < 0:
		return c.Reversed()
	case c.Area() < 0:
		return c.Reversed()
	}
	return c
}
