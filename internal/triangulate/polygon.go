package triangulate

import "github.com/gogpu/pix/geom"

// rayLength is how far to the right PointInPolygon casts its ray.
const rayLength = 10000

// Intersects reports whether segment a0-a1 and segment b0-b1 intersect.
// Each segment's endpoints must not lie strictly on the same side of the
// other segment's line; touching and collinear segments count as
// intersecting.
func Intersects(a0, a1, b0, b1 geom.Vec2) bool {
	return straddles(a0, a1, b0, b1) && straddles(b0, b1, a0, a1)
}

// straddles reports whether p and q are not strictly on the same side of
// the infinite line through l0 and l1.
func straddles(l0, l1, p, q geom.Vec2) bool {
	a := float64(l1.Y) - float64(l0.Y)
	b := float64(l0.X) - float64(l1.X)
	c := float64(l1.X)*float64(l0.Y) - float64(l0.X)*float64(l1.Y)
	d1 := a*float64(p.X) + b*float64(p.Y) + c
	d2 := a*float64(q.X) + b*float64(q.Y) + c
	if d1 > 0 && d2 > 0 {
		return false
	}
	if d1 < 0 && d2 < 0 {
		return false
	}
	return true
}

// PointInPolygon reports whether p lies inside the closed contour by
// counting crossings of a horizontal ray from p to p+(10000, 0); an odd
// count is inside. A ray passing exactly through a vertex may count it
// twice or not at all.
func PointInPolygon(p geom.Vec2, contour []geom.Vec2) bool {
	if len(contour) < 3 {
		return false
	}
	end := p.Add(geom.V(rayLength, 0))
	count := 0
	prev := contour[len(contour)-1]
	for _, q := range contour {
		if Intersects(p, end, prev, q) {
			count++
		}
		prev = q
	}
	return count&1 == 1
}
