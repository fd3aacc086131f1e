package geom

import "github.com/chewxy/math32"

// Vec2 represents a 2D point or vector.
type Vec2 struct {
	X, Y float32
}

// V is a convenience function to create a Vec2.
func V(x, y float32) Vec2 {
	return Vec2{X: x, Y: y}
}

// FromAngle returns the unit vector pointing at angle a (radians).
func FromAngle(a float32) Vec2 {
	sin, cos := math32.Sincos(a)
	return Vec2{X: cos, Y: sin}
}

// Add returns the sum of two vectors.
func (p Vec2) Add(q Vec2) Vec2 {
	return Vec2{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the difference of two vectors.
func (p Vec2) Sub(q Vec2) Vec2 {
	return Vec2{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns the vector scaled by s.
func (p Vec2) Mul(s float32) Vec2 {
	return Vec2{X: p.X * s, Y: p.Y * s}
}

// MulV returns the component-wise product of two vectors.
func (p Vec2) MulV(q Vec2) Vec2 {
	return Vec2{X: p.X * q.X, Y: p.Y * q.Y}
}

// Div returns the vector divided by s.
func (p Vec2) Div(s float32) Vec2 {
	return Vec2{X: p.X / s, Y: p.Y / s}
}

// DivV returns the component-wise quotient of two vectors.
func (p Vec2) DivV(q Vec2) Vec2 {
	return Vec2{X: p.X / q.X, Y: p.Y / q.Y}
}

// Dot returns the dot product of two vectors.
func (p Vec2) Dot(q Vec2) float32 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the 3D cross product of p and q.
func (p Vec2) Cross(q Vec2) float32 {
	return p.X*q.Y - p.Y*q.X
}

// Length returns the length of the vector.
func (p Vec2) Length() float32 {
	return math32.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (p Vec2) Normalize() Vec2 {
	l := p.Length()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: p.X / l, Y: p.Y / l}
}

// Perp returns p rotated by 90 degrees: (-y, x).
func (p Vec2) Perp() Vec2 {
	return Vec2{X: -p.Y, Y: p.X}
}

// Rotate returns p rotated by angle radians around the origin.
func (p Vec2) Rotate(angle float32) Vec2 {
	sin, cos := math32.Sincos(angle)
	return Vec2{
		X: p.X*cos - p.Y*sin,
		Y: p.X*sin + p.Y*cos,
	}
}

// Lerp interpolates linearly between p (t=0) and q (t=1).
func (p Vec2) Lerp(q Vec2, t float32) Vec2 {
	return Vec2{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect is an integer pixel rectangle. A zero-sized Rect means "no clip".
type Rect struct {
	X, Y, W, H int
}

// R is a convenience function to create a Rect.
func R(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Empty reports whether r covers no pixels.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether the pixel (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Intersect returns the largest rectangle contained by both r and s.
func (r Rect) Intersect(s Rect) Rect {
	x0, y0 := max(r.X, s.X), max(r.Y, s.Y)
	x1, y1 := min(r.X+r.W, s.X+s.W), min(r.Y+r.H, s.Y+s.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Approx reports whether p and q differ by at most eps in each component.
func (p Vec2) Approx(q Vec2, eps float32) bool {
	return math32.Abs(p.X-q.X) <= eps && math32.Abs(p.Y-q.Y) <= eps
}
