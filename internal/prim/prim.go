// Package prim generates flat vertex arrays for the shapes the pix core
// draws directly: circles, quads, rotated quads, straight lines and tapered
// round-capped line segments.
//
// Every generator is a pure function of a [geom.ViewRect]. Output is in NDC,
// two floats per vertex; textured variants append the UV pairs after all
// positions. Numerically degenerate input (radius < 1 and the like) yields an
// empty result instead of an error.
package prim

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/pix/geom"
)

// pixelCenter moves line endpoints onto pixel centers.
var pixelCenter = geom.V(0.5, 0.5)

// stepsEpsilon absorbs float32 rounding so exact step counts are not
// bumped by one.
const stepsEpsilon = 1e-4

// unitQuadUV is the texture-space unit quad in corner order
// top-left, top-right, bottom-right, bottom-left (V flipped).
var unitQuadUV = [8]float32{0, 1, 1, 1, 1, 0, 0, 0}

// Builder maps application coordinates through View while generating
// vertices.
type Builder struct {
	View geom.ViewRect
}

// New returns a Builder for the given view.
func New(view geom.ViewRect) Builder {
	return Builder{View: view}
}

func (b Builder) appendPoint(dst []float32, p geom.Vec2) []float32 {
	s := b.View.ToScreen(p)
	return append(dst, s.X, s.Y)
}

// CircleSteps returns the number of rim segments used for a circle of the
// given radius: ceil(1.5π / asin(sqrt(1/radius))). The count grows with the
// radius. Radii below 1 (and NaN) return 0.
func CircleSteps(radius float32) int {
	if !(radius >= 1) {
		return 0
	}
	steps := math32.Pi * 1.5 / math32.Asin(math32.Sqrt(1/radius))
	return int(math32.Ceil(steps - stepsEpsilon))
}

// Circle returns the rim of a circle as steps+1 points, the first point
// repeated at the end. With includeCenter the center is prepended, giving a
// triangle fan; without it the rim suits a line loop. Circles with a radius
// below 1 produce no vertices.
func (b Builder) Circle(center geom.Vec2, radius float32, includeCenter bool) []float32 {
	steps := CircleSteps(radius)
	if steps == 0 {
		return nil
	}
	n := steps + 1
	if includeCenter {
		n++
	}
	out := make([]float32, 0, n*2)
	if includeCenter {
		out = b.appendPoint(out, center)
	}
	for i := 0; i <= steps; i++ {
		a := math32.Pi * 2 * float32(i) / float32(steps)
		out = b.appendPoint(out, geom.FromAngle(a).Mul(radius).Add(center))
	}
	return out
}

// Line returns the two endpoints of a straight line, offset by half a pixel
// so that they sit on pixel centers.
func (b Builder) Line(from, to geom.Vec2) [4]float32 {
	p0 := b.View.ToScreen(from.Add(pixelCenter))
	p1 := b.View.ToScreen(to.Add(pixelCenter))
	return [4]float32{p0.X, p0.Y, p1.X, p1.Y}
}

// LineStrip maps a polyline with the same half-pixel offset as Line.
func (b Builder) LineStrip(points []geom.Vec2) []float32 {
	out := make([]float32, 0, len(points)*2)
	for _, p := range points {
		out = b.appendPoint(out, p.Add(pixelCenter))
	}
	return out
}

// Points maps points without any offset, e.g. polygon vertices.
func (b Builder) Points(points []geom.Vec2) []float32 {
	out := make([]float32, 0, len(points)*2)
	for _, p := range points {
		out = b.appendPoint(out, p)
	}
	return out
}

// Quad returns the four corners of an axis-aligned rectangle in the order
// top-left, top-right, bottom-right, bottom-left.
func (b Builder) Quad(topLeft, size geom.Vec2) [8]float32 {
	p0 := b.View.ToScreen(topLeft)
	p1 := b.View.ToScreen(topLeft.Add(size))
	return [8]float32{p0.X, p0.Y, p1.X, p0.Y, p1.X, p1.Y, p0.X, p1.Y}
}

// QuadUV is Quad followed by the unit quad texture coordinates.
func (b Builder) QuadUV(topLeft, size geom.Vec2) [16]float32 {
	return withUV(b.Quad(topLeft, size))
}

// RotatedQuad returns the corners of a size-sized rectangle centered on
// center and rotated by rot radians. A rotation of exactly zero uses the
// axis-aligned generator.
func (b Builder) RotatedQuad(center, size geom.Vec2, rot float32) [8]float32 {
	half := size.Div(2)
	if rot == 0 {
		return b.Quad(center.Sub(half), size)
	}
	corners := [4]geom.Vec2{
		{X: -half.X, Y: -half.Y},
		{X: half.X, Y: -half.Y},
		{X: half.X, Y: half.Y},
		{X: -half.X, Y: half.Y},
	}
	var out [8]float32
	for i, c := range corners {
		s := b.View.ToScreen(c.Rotate(rot).Add(center))
		out[i*2], out[i*2+1] = s.X, s.Y
	}
	return out
}

// RotatedQuadUV is RotatedQuad followed by the unit quad texture coordinates.
func (b Builder) RotatedQuadUV(center, size geom.Vec2, rot float32) [16]float32 {
	return withUV(b.RotatedQuad(center, size, rot))
}

func withUV(pos [8]float32) [16]float32 {
	var out [16]float32
	copy(out[:8], pos[:])
	copy(out[8:], unitQuadUV[:])
	return out
}

// SetUVs replaces the texture coordinates of a QuadUV/RotatedQuadUV result.
func SetUVs(quad *[16]float32, uvs [8]float32) {
	copy(quad[8:], uvs[:])
}

// capSegments returns the number of segments for a half-circle cap.
func capSegments(radius float32) int {
	return max(1, (CircleSteps(radius)+1)/2)
}

// RoundedLine returns a triangle fan covering a segment from p0 to p1 whose
// width tapers from 2*r0 to 2*r1, with round caps at both ends. The fan
// center is the segment midpoint; a half arc of r1 is swept around p1
// followed by a half arc of r0 around p0, both oriented along the normal of
// p1-p0, and the first rim point is repeated to close the fan.
//
// Coincident endpoints degrade to a filled circle of the larger radius.
func (b Builder) RoundedLine(p0 geom.Vec2, r0 float32, p1 geom.Vec2, r1 float32) []float32 {
	d := p1.Sub(p0)
	if d.Length() == 0 {
		return b.Circle(p0, max(r0, r1), true)
	}
	if !(r0 > 0) && !(r1 > 0) {
		return nil
	}
	n := d.Normalize().Perp()
	base := math32.Atan2(n.Y, n.X)

	s1, s0 := capSegments(r1), capSegments(r0)
	out := make([]float32, 0, (s0+s1+4)*2)
	out = b.appendPoint(out, p0.Lerp(p1, 0.5))

	// From +n through +d to -n around p1.
	for i := 0; i <= s1; i++ {
		a := base - math32.Pi*float32(i)/float32(s1)
		out = b.appendPoint(out, geom.FromAngle(a).Mul(r1).Add(p1))
	}
	// From -n through -d back to +n around p0.
	for i := 0; i <= s0; i++ {
		a := base + math32.Pi - math32.Pi*float32(i)/float32(s0)
		out = b.appendPoint(out, geom.FromAngle(a).Mul(r0).Add(p0))
	}
	return append(out, out[2], out[3])
}
