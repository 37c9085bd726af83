package mesh

import v3 "github.com/deadsy/sdfx/vec/v3"

// cuboidFaces lists the 12 outward-facing triangles of the unit cube as
// corner bit masks (bit 0 = x, bit 1 = y, bit 2 = z).
var cuboidFaces = [12][3]int{
	{0, 2, 3}, {0, 3, 1}, // z = 0
	{4, 5, 7}, {4, 7, 6}, // z = 1
	{0, 1, 5}, {0, 5, 4}, // y = 0
	{2, 6, 7}, {2, 7, 3}, // y = 1
	{0, 4, 6}, {0, 6, 2}, // x = 0
	{1, 3, 7}, {1, 7, 5}, // x = 1
}

// AddCuboid adds the closed axis-aligned box spanning lo..hi with outward
// counter-clockwise faces.
func (m *TriangleMesh) AddCuboid(lo, hi v3.Vec) {
	corner := func(bits int) v3.Vec {
		c := lo
		if bits&1 != 0 {
			c.X = hi.X
		}
		if bits&2 != 0 {
			c.Y = hi.Y
		}
		if bits&4 != 0 {
			c.Z = hi.Z
		}
		return c
	}
	for _, f := range cuboidFaces {
		m.AddTriangle(corner(f[0]), corner(f[1]), corner(f[2]))
	}
}
