// Package triangulate turns polygons into triangles for GPU submission.
//
// Three modes are provided: convex fans ([ConvexFan]), ear clipping of a
// single simple polygon ([EarClip]) and odd-even tessellation of several
// contours that may describe holes ([Tessellate]).
//
// Polygons are given in application space (Y down). A polygon whose
// [SignedArea] is positive is front facing; ear clipping rejects the rest.
package triangulate

import (
	"github.com/gogpu/pix/geom"
)

// SignedArea returns the shoelace area of the closed polygon. The square
// (0,0) (10,0) (10,10) (0,10) has area +100.
func SignedArea(points []geom.Vec2) float32 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum float32
	prev := points[n-1]
	for _, p := range points {
		sum += prev.Cross(p)
		prev = p
	}
	return sum / 2
}

// ConvexFan returns the points of a convex polygon in reverse order, ready
// for submission as a triangle fan. Reversal keeps the winding consistent
// with the Y flip applied by the view mapping.
func ConvexFan(points []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(points))
	for i, p := range points {
		out[len(points)-1-i] = p
	}
	return out
}

// EarClip triangulates a simple, possibly concave polygon and returns index
// triples into points. Polygons with a non-positive signed area are facing
// away and yield nil.
//
// A polygon with n >= 3 vertices always yields n-2 triangles. When a scan
// finds no ear (self-intersecting input) the first three remaining indices
// are emitted anyway so the loop terminates; the result is then not
// guaranteed to cover the polygon.
func EarClip(points []geom.Vec2) []uint32 {
	if len(points) < 3 || !(SignedArea(points) > 0) {
		return nil
	}
	ring := make([]uint32, len(points))
	for i := range ring {
		ring[i] = uint32(i)
	}
	return clipRing(points, ring, nil)
}

// clipRing ear-clips the ring of indices into points, appending triangles
// to dst. ring is consumed.
func clipRing(points []geom.Vec2, ring []uint32, dst []uint32) []uint32 {
	if len(ring) < 3 {
		return dst
	}
	if dst == nil {
		dst = make([]uint32, 0, (len(ring)-2)*3)
	}
	start := 0
	for len(ring) > 3 {
		m := len(ring)
		ear := -1
		for k := 0; k < m; k++ {
			i := (start + k) % m
			if isEar(points, ring, i) {
				ear = i
				break
			}
		}
		if ear < 0 {
			// No ear anywhere: force progress.
			ear = 0
		}
		i0, i1, i2 := ring[ear], ring[(ear+1)%m], ring[(ear+2)%m]
		dst = append(dst, i0, i1, i2)
		ring = removeAt(ring, (ear+1)%m)
		start = ear % len(ring)
	}
	return append(dst, ring[0], ring[1], ring[2])
}

func removeAt(ring []uint32, i int) []uint32 {
	copy(ring[i:], ring[i+1:])
	return ring[:len(ring)-1]
}

// isEar reports whether the triangle starting at ring position i is convex
// and contains no other vertex of the ring.
func isEar(points []geom.Vec2, ring []uint32, i int) bool {
	m := len(ring)
	j, k := (i+1)%m, (i+2)%m
	a, b, c := points[ring[i]], points[ring[j]], points[ring[k]]
	if !(b.Sub(a).Cross(c.Sub(b)) > 0) {
		return false
	}
	for n := 0; n < m; n++ {
		if n == i || n == j || n == k {
			continue
		}
		p := points[ring[n]]
		if p == a || p == b || p == c {
			continue
		}
		if inTriangle(p, a, b, c) {
			return false
		}
	}
	return true
}

// inTriangle reports whether p lies inside or on the edges of the positively
// oriented triangle abc.
func inTriangle(p, a, b, c geom.Vec2) bool {
	return b.Sub(a).Cross(p.Sub(a)) >= 0 &&
		c.Sub(b).Cross(p.Sub(b)) >= 0 &&
		a.Sub(c).Cross(p.Sub(c)) >= 0
}

// TriangleArea returns the signed area of triangle abc.
func TriangleArea(a, b, c geom.Vec2) float32 {
	return b.Sub(a).Cross(c.Sub(a)) / 2
}
