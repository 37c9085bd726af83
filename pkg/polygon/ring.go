package polygon

import "github.com/chazu/kerf/pkg/fixed"

// arena holds every vertex of the rings being triangulated. Vertices are
// linked into circular rings by index and removed by tombstoning, so a ring
// can be edited while it is being walked.
type arena struct {
	pts   []fixed.Point
	next  []int
	prev  []int
	ring  []int // ring id each vertex belongs to
	alive []bool
	// heads and sizes are indexed by ring id. A ring that has been spliced
	// into another has size 0.
	heads []int
	sizes []int
}

// addRing appends c as a new ring and returns its id.
func (a *arena) addRing(c fixed.Contour) int {
	id := len(a.heads)
	first := len(a.pts)
	n := len(c)
	for i, p := range c {
		a.pts = append(a.pts, p)
		a.next = append(a.next, first+(i+1)%n)
		a.prev = append(a.prev, first+(i+n-1)%n)
		a.ring = append(a.ring, id)
		a.alive = append(a.alive, true)
	}
	head := first
	if n == 0 {
		head = -1
	}
	a.heads = append(a.heads, head)
	a.sizes = append(a.sizes, n)
	return id
}

// clone appends a copy of vertex v, belonging to the same ring but not yet
// linked, and returns its index.
func (a *arena) clone(v int) int {
	i := len(a.pts)
	a.pts = append(a.pts, a.pts[v])
	a.next = append(a.next, -1)
	a.prev = append(a.prev, -1)
	a.ring = append(a.ring, a.ring[v])
	a.alive = append(a.alive, true)
	return i
}

// remove unlinks v from its ring.
func (a *arena) remove(v int) {
	r := a.ring[v]
	p, n := a.prev[v], a.next[v]
	a.next[p] = n
	a.prev[n] = p
	a.alive[v] = false
	a.sizes[r]--
	if a.heads[r] == v {
		a.heads[r] = n
	}
	if a.sizes[r] == 0 {
		a.heads[r] = -1
	}
}

// vertices returns the live vertices of ring r in order.
func (a *arena) vertices(r int) []int {
	if a.sizes[r] == 0 {
		return nil
	}
	out := make([]int, 0, a.sizes[r])
	v := a.heads[r]
	for range a.sizes[r] {
		out = append(out, v)
		v = a.next[v]
	}
	return out
}

// degenerate reports whether v is a duplicate of its successor, or lies on
// the line through its neighbours (a straight run or a back-and-forth spike).
func (a *arena) degenerate(v int) bool {
	p, q, r := a.pts[a.prev[v]], a.pts[v], a.pts[a.next[v]]
	if q == r || q == p {
		return true
	}
	return fixed.Orient(p, q, r) == 0
}

// cleanup removes degenerate vertices reachable from the worklist until
// none remain, then returns the number removed. Rings shrinking below three
// vertices are emptied.
func (a *arena) cleanup(work []int) int {
	removed := 0
	for len(work) > 0 {
		v := work[len(work)-1]
		work = work[:len(work)-1]
		if !a.alive[v] {
			continue
		}
		r := a.ring[v]
		if a.sizes[r] < 3 {
			for _, u := range a.vertices(r) {
				a.remove(u)
				removed++
			}
			continue
		}
		if !a.degenerate(v) {
			continue
		}
		p, n := a.prev[v], a.next[v]
		a.remove(v)
		removed++
		work = append(work, p, n)
	}
	return removed
}

// cleanupRing runs cleanup over every vertex of ring r.
func (a *arena) cleanupRing(r int) int {
	return a.cleanup(a.vertices(r))
}
