package fixed

import (
	"math/big"

	clipper "github.com/ctessum/go.clipper"
)

func sign(v int64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// SignOfDot returns the exact sign (-1, 0 or +1) of the dot product of v1
// and v2. Products are widened to 128 bits, so no input magnitude can flip
// the result through rounding or overflow.
func SignOfDot(v1, v2 Point) int {
	sx := sign(v1.X) * sign(v2.X)
	sy := sign(v1.Y) * sign(v2.Y)
	// One term vanishes or both terms agree: the signs alone decide.
	if sx == 0 {
		return sy
	}
	if sy == 0 || sx == sy {
		return sx
	}
	xx := clipper.Int128Mul(clipper.CInt(v1.X), clipper.CInt(v2.X))
	yy := clipper.Int128Mul(clipper.CInt(v1.Y), clipper.CInt(v2.Y))
	return new(big.Int).Add(xx, yy).Sign()
}

// SignOfCross returns the exact sign of the 2D cross product a x b, which is
// positive when b lies counter-clockwise of a.
func SignOfCross(a, b Point) int {
	// a.X*b.Y - a.Y*b.X is the dot product of a with b rotated clockwise.
	return SignOfDot(a, b.Perp())
}

// Orient returns the exact orientation of c relative to the directed line
// a->b: +1 to the left, -1 to the right, 0 on the line.
func Orient(a, b, c Point) int {
	return SignOfCross(b.Sub(a), c.Sub(a))
}

// IsBetweenCCW reports whether vector b lies strictly counter-clockwise
// between a and c, sweeping from a towards c. Any pair of parallel or
// anti-parallel inputs (including zero vectors) yields false.
func IsBetweenCCW(a, b, c Point) bool {
	ab := SignOfCross(a, b)
	bc := SignOfCross(b, c)
	ac := SignOfCross(a, c)
	if ab == 0 || bc == 0 || ac == 0 {
		return false
	}
	if ac > 0 {
		// The sweep from a to c is under half a turn.
		return ab > 0 && bc > 0
	}
	return ab > 0 || bc > 0
}

// OnSegment reports whether p lies on the closed segment a-b.
func OnSegment(p, a, b Point) bool {
	if Orient(a, b, p) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// SegmentsCross reports whether the open segments a-b and c-d cross at a
// single interior point of both.
func SegmentsCross(a, b, c, d Point) bool {
	o1 := Orient(a, b, c)
	o2 := Orient(a, b, d)
	o3 := Orient(c, d, a)
	o4 := Orient(c, d, b)
	return o1*o2 < 0 && o3*o4 < 0
}

// SegmentsTouch reports whether the closed segments a-b and c-d share at
// least one point.
func SegmentsTouch(a, b, c, d Point) bool {
	if SegmentsCross(a, b, c, d) {
		return true
	}
	return OnSegment(c, a, b) || OnSegment(d, a, b) ||
		OnSegment(a, c, d) || OnSegment(b, c, d)
}

// TwiceArea returns twice the signed area of c in fixed units squared,
// computed without rounding. Counter-clockwise contours are positive.
func (c Contour) TwiceArea() *big.Int {
	sum := new(big.Int)
	if len(c) < 3 {
		return sum
	}
	j := len(c) - 1
	for i := range c {
		sum.Add(sum, clipper.Int128Mul(clipper.CInt(c[j].X), clipper.CInt(c[i].Y)))
		sum.Sub(sum, clipper.Int128Mul(clipper.CInt(c[i].X), clipper.CInt(c[j].Y)))
		j = i
	}
	return sum
}
