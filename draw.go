package pix

import (
	"github.com/gogpu/pix/atlas"
	"github.com/gogpu/pix/geom"
	"github.com/gogpu/pix/internal/prim"
	"github.com/gogpu/pix/internal/triangulate"
)

// Clear fills the view with c. A surface covering its whole target clears
// the target directly; sub-views and clipped surfaces are overwritten with
// a quad. Points and pixels that were not flushed are discarded.
func (s *Surface) Clear(c RGBA) error {
	if s.closed {
		return ErrClosed
	}
	s.points.Reset()
	s.pixels.Resize(s.viewPixels())

	full := s.view.Bounds() == geom.Rect{W: s.target.Width, H: s.target.Height}
	if full && s.clip.Empty() {
		if err := s.dev.Clear(s.target, c); err != nil {
			return s.deviceError("clear", err)
		}
		return nil
	}

	color, blend := s.color, s.blend
	s.color, s.blend = c, BlendCopy
	defer func() { s.color, s.blend = color, blend }()
	q := s.builder().Quad(geom.Vec2{}, s.view.Size.Div(s.view.Scale))
	return s.submit("clear", q[:], TriangleFan, Position2, false)
}

// Circle draws the outline of a circle. Radii below one pixel draw
// nothing.
func (s *Surface) Circle(center geom.Vec2, radius float32) error {
	return s.submit("circle", s.builder().Circle(center, radius, false), LineLoop, Position2, false)
}

// FilledCircle draws a filled circle. Radii below one pixel draw nothing.
func (s *Surface) FilledCircle(center geom.Vec2, radius float32) error {
	return s.submit("filled circle", s.builder().Circle(center, radius, true), TriangleFan, Position2, false)
}

// Line draws a straight line and remembers to as the start of the next
// LineTo.
func (s *Surface) Line(from, to geom.Vec2) error {
	l := s.builder().Line(from, to)
	s.moveTo(to, s.lineWidth/2)
	return s.submit("line", l[:], Lines, Position2, false)
}

// LineTo draws a line from the last line end point to p. Without a
// previous point it only records p.
func (s *Surface) LineTo(p geom.Vec2) error {
	if !s.hasLast {
		s.moveTo(p, s.lineWidth/2)
		return nil
	}
	return s.Line(s.last, p)
}

// BeginLines forgets the last line end point, so the next LineTo starts a
// new polyline.
func (s *Surface) BeginLines() {
	s.hasLast = false
}

// Lines draws a connected polyline through points.
func (s *Surface) Lines(points []geom.Vec2) error {
	if len(points) < 2 {
		return nil
	}
	s.moveTo(points[len(points)-1], s.lineWidth/2)
	return s.submit("lines", s.builder().LineStrip(points), LineStrip, Position2, false)
}

// RoundedLine draws a round-capped segment whose half width tapers from
// r0 at p0 to r1 at p1.
func (s *Surface) RoundedLine(p0 geom.Vec2, r0 float32, p1 geom.Vec2, r1 float32) error {
	s.moveTo(p1, r1)
	return s.submit("rounded line", s.builder().RoundedLine(p0, r0, p1, r1), TriangleFan, Position2, false)
}

// RoundedLineTo continues a rounded line from the last end point and
// radius to p with radius r.
func (s *Surface) RoundedLineTo(p geom.Vec2, r float32) error {
	if !s.hasLast {
		s.moveTo(p, r)
		return nil
	}
	return s.RoundedLine(s.last, s.lastRadius, p, r)
}

func (s *Surface) moveTo(p geom.Vec2, radius float32) {
	s.last, s.lastRadius, s.hasLast = p, radius, true
}

// Rect draws the outline of an axis-aligned rectangle.
func (s *Surface) Rect(topLeft, size geom.Vec2) error {
	corners := []geom.Vec2{
		topLeft,
		topLeft.Add(geom.V(size.X, 0)),
		topLeft.Add(size),
		topLeft.Add(geom.V(0, size.Y)),
	}
	return s.submit("rect", s.builder().LineStrip(corners), LineLoop, Position2, false)
}

// FilledRect draws a filled axis-aligned rectangle.
func (s *Surface) FilledRect(topLeft, size geom.Vec2) error {
	q := s.builder().Quad(topLeft, size)
	return s.submit("filled rect", q[:], TriangleFan, Position2, false)
}

// Polygon draws a filled simple polygon. Convex polygons are drawn as a
// fan; others are ear clipped, and a concave polygon wound away from the
// viewer (negative signed area) draws nothing. With backface culling
// enabled, convex polygons wound away are culled as well.
func (s *Surface) Polygon(points []geom.Vec2, convex bool) error {
	if len(points) < 3 {
		return nil
	}
	b := s.builder()
	if convex {
		return s.submit("polygon", b.Points(triangulate.ConvexFan(points)), TriangleFan, Position2, true)
	}
	indices := triangulate.EarClip(points)
	frontFacing(indices)
	m := triangulate.Mesh{Vertices: points, Indices: indices}
	return s.submitIndexed("polygon", b.Points(points), indices, m.IndexFormat(), true)
}

// ComplexPolygon fills a set of contours with the odd-even rule: areas
// enclosed by an odd number of contours are filled, so nested contours
// cut holes.
func (s *Surface) ComplexPolygon(contours [][]geom.Vec2) error {
	m := triangulate.Tessellate(contours)
	frontFacing(m.Indices)
	return s.submitIndexed("complex polygon", s.builder().Points(m.Vertices), m.Indices, m.IndexFormat(), true)
}

// frontFacing reverses every triangle so that triangles with positive
// area in view space become counter-clockwise after the Y flip.
func frontFacing(indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
	}
}

// imageUV maps a top-row-first texture upright onto a quad.
var imageUV = [8]float32{0, 0, 1, 0, 1, 1, 0, 1}

// Blit draws tex into the rectangle at pos. A zero size uses the texture
// size. The texture is tinted with the draw color.
func (s *Surface) Blit(tex Texture, pos, size geom.Vec2) error {
	if tex == nil {
		return nil
	}
	if size == (geom.Vec2{}) {
		size = geom.V(float32(tex.Width()), float32(tex.Height()))
	}
	q := s.builder().QuadUV(pos, size)
	prim.SetUVs(&q, imageUV)
	return s.submitTextured("blit", tex, q[:])
}

// Draw draws tex centered on center, scaled to size and rotated by rot
// radians. A zero size uses the texture size.
func (s *Surface) Draw(tex Texture, center, size geom.Vec2, rot float32) error {
	if tex == nil {
		return nil
	}
	if size == (geom.Vec2{}) {
		size = geom.V(float32(tex.Width()), float32(tex.Height()))
	}
	q := s.builder().RotatedQuadUV(center, size, rot)
	prim.SetUVs(&q, imageUV)
	return s.submitTextured("draw", tex, q[:])
}

// DrawTile draws the uv region of tex, typically one atlas cell, into the
// rectangle at pos.
func (s *Surface) DrawTile(tex Texture, uv atlas.UVRect, pos, size geom.Vec2) error {
	q := s.builder().QuadUV(pos, size)
	prim.SetUVs(&q, uv.Quad())
	return s.submitTextured("tile", tex, q[:])
}
