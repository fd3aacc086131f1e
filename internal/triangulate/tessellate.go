package triangulate

import (
	"slices"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix/geom"
)

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []geom.Vec2
	Indices  []uint32
}

// maxIndex16 is the largest vertex count addressable with 16-bit indices.
const maxIndex16 = 0xFFFF

// IndexFormat returns the narrowest index format able to address every
// vertex of the mesh.
func (m Mesh) IndexFormat() gputypes.IndexFormat {
	if len(m.Vertices) <= maxIndex16 {
		return gputypes.IndexFormatUint16
	}
	return gputypes.IndexFormatUint32
}

// Indices16 returns the indices narrowed to 16 bits. The result is only
// meaningful when IndexFormat reports IndexFormatUint16.
func (m Mesh) Indices16() []uint16 {
	out := make([]uint16, len(m.Indices))
	for i, idx := range m.Indices {
		out[i] = uint16(idx)
	}
	return out
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Area returns the summed signed area of all triangles.
func (m Mesh) Area() float32 {
	var sum float32
	for i := 0; i+2 < len(m.Indices); i += 3 {
		sum += TriangleArea(m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]])
	}
	return sum
}

// edge is a non-horizontal contour edge with top.Y < bottom.Y.
type edge struct {
	top, bottom geom.Vec2
}

// xAt returns the x coordinate of the edge's line at y.
func (e edge) xAt(y float32) float32 {
	switch y {
	case e.top.Y:
		return e.top.X
	case e.bottom.Y:
		return e.bottom.X
	}
	t := (y - e.top.Y) / (e.bottom.Y - e.top.Y)
	return e.top.X + t*(e.bottom.X-e.top.X)
}

// Tessellate triangulates a set of contours with the odd-even rule: a
// point is filled when a ray from it crosses the contours an odd number of
// times. Contours may nest, overlap or intersect themselves.
//
// The plane is cut into horizontal slabs at every vertex and every edge
// crossing, so no two edges cross inside a slab. Within a slab the edges
// are ordered left to right and each odd-even pair of them bounds a
// trapezoid, emitted as two triangles with positive signed area.
// Contours with fewer than three points are dropped.
func Tessellate(contours [][]geom.Vec2) Mesh {
	var (
		edges []edge
		ys    []float32
	)
	for _, c := range contours {
		if len(c) < 3 {
			continue
		}
		prev := c[len(c)-1]
		for _, p := range c {
			ys = append(ys, p.Y)
			switch {
			case prev.Y < p.Y:
				edges = append(edges, edge{top: prev, bottom: p})
			case prev.Y > p.Y:
				edges = append(edges, edge{top: p, bottom: prev})
			}
			prev = p
		}
	}
	var mesh Mesh
	if len(edges) == 0 {
		return mesh
	}
	for i := range edges {
		for j := i + 1; j < len(edges); j++ {
			if y, ok := crossing(edges[i], edges[j]); ok {
				ys = append(ys, y)
			}
		}
	}
	slices.Sort(ys)
	ys = slices.Compact(ys)

	index := make(map[geom.Vec2]uint32)
	vertex := func(p geom.Vec2) uint32 {
		if i, ok := index[p]; ok {
			return i
		}
		i := uint32(len(mesh.Vertices))
		index[p] = i
		mesh.Vertices = append(mesh.Vertices, p)
		return i
	}
	triangle := func(a, b, c geom.Vec2) {
		if TriangleArea(a, b, c) <= 0 {
			return
		}
		mesh.Indices = append(mesh.Indices, vertex(a), vertex(b), vertex(c))
	}

	type span struct{ x0, xm, x1 float32 }
	var active []span
	for k := 0; k+1 < len(ys); k++ {
		y0, y1 := ys[k], ys[k+1]
		ym := (y0 + y1) / 2
		active = active[:0]
		for _, e := range edges {
			if e.top.Y <= y0 && e.bottom.Y >= y1 {
				active = append(active, span{e.xAt(y0), e.xAt(ym), e.xAt(y1)})
			}
		}
		slices.SortFunc(active, func(a, b span) int {
			switch {
			case a.xm < b.xm:
				return -1
			case a.xm > b.xm:
				return 1
			}
			return 0
		})
		for i := 0; i+1 < len(active); i += 2 {
			l, r := active[i], active[i+1]
			// Rounding at the slab ends must not flip the trapezoid.
			r.x0, r.x1 = max(r.x0, l.x0), max(r.x1, l.x1)
			a0, b0 := geom.V(l.x0, y0), geom.V(r.x0, y0)
			a1, b1 := geom.V(l.x1, y1), geom.V(r.x1, y1)
			triangle(a0, b0, b1)
			triangle(a0, b1, a1)
		}
	}
	return mesh
}

// crossing returns the y coordinate where the interiors of e and f cross.
// Parallel edges and edges meeting at an endpoint report false.
func crossing(e, f edge) (float32, bool) {
	d1 := e.bottom.Sub(e.top)
	d2 := f.bottom.Sub(f.top)
	den := float64(d1.Cross(d2))
	if den == 0 {
		return 0, false
	}
	w := f.top.Sub(e.top)
	t := float64(w.Cross(d2)) / den
	u := float64(w.Cross(d1)) / den
	if t <= 0 || t >= 1 || u <= 0 || u >= 1 {
		return 0, false
	}
	return e.top.Y + float32(t)*d1.Y, true
}
