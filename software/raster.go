package software

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/vector"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
)

// vertex is a decoded vertex with its position still in NDC.
type vertex struct {
	pos   geom.Vec2
	uv    geom.Vec2
	color color4
	tint  bool
}

func decode(v []float32, layout pix.VertexLayout) ([]vertex, error) {
	stride := 2
	switch layout {
	case pix.Position2UV2:
		stride = 4
	case pix.Position2Color4:
		stride = 6
	}
	if len(v)%stride != 0 {
		return nil, fmt.Errorf("software: %d floats is not a whole number of %s vertices", len(v), layout)
	}
	n := len(v) / stride
	out := make([]vertex, n)
	for i := range out {
		switch layout {
		case pix.Position2UV2:
			out[i].pos = geom.V(v[2*i], v[2*i+1])
			out[i].uv = geom.V(v[2*n+2*i], v[2*n+2*i+1])
		case pix.Position2Color4:
			o := i * 6
			out[i].pos = geom.V(v[o], v[o+1])
			out[i].color = color4{v[o+2], v[o+3], v[o+4], v[o+5]}
			out[i].tint = true
		default:
			out[i].pos = geom.V(v[2*i], v[2*i+1])
		}
	}
	return out, nil
}

// triangle is three vertices in physical pixel space.
type triangle [3]vertex

func (d *Device) draw(vs []vertex, p pix.Primitive, layout pix.VertexLayout) {
	for i := range vs {
		vs[i].pos = d.toPixel(vs[i].pos)
	}
	switch p {
	case pix.Points:
		d.points(vs)
	case pix.Lines:
		d.lines(segments(vs, 2, 2))
	case pix.LineStrip:
		d.lines(segments(vs, 2, 1))
	case pix.LineLoop:
		segs := segments(vs, 2, 1)
		if len(vs) > 2 {
			segs = append(segs, [2]vertex{vs[len(vs)-1], vs[0]})
		}
		d.lines(segs)
	case pix.Triangles, pix.TriangleStrip, pix.TriangleFan:
		tris := d.cull(assemble(vs, p))
		if layout == pix.Position2UV2 {
			d.textured(tris)
			return
		}
		d.fill(tris, d.flatColor(vs))
	default:
		pix.Logger().Warn("software: unsupported primitive", slog.String("primitive", p.String()))
	}
}

// toPixel maps NDC into the viewport. NDC y points up, pixel y down.
func (d *Device) toPixel(p geom.Vec2) geom.Vec2 {
	vp := d.viewport
	return geom.V(
		float32(vp.X)+(p.X+1)/2*float32(vp.W),
		float32(vp.Y)+(1-p.Y)/2*float32(vp.H),
	)
}

func (d *Device) flatColor(vs []vertex) color4 {
	if len(vs) > 0 && vs[0].tint {
		return vs[0].color
	}
	return color4(d.state.Color.Floats())
}

func segments(vs []vertex, size, step int) [][2]vertex {
	var out [][2]vertex
	for i := 0; i+size <= len(vs); i += step {
		out = append(out, [2]vertex{vs[i], vs[i+1]})
	}
	return out
}

func assemble(vs []vertex, p pix.Primitive) []triangle {
	var out []triangle
	switch p {
	case pix.Triangles:
		for i := 0; i+3 <= len(vs); i += 3 {
			out = append(out, triangle{vs[i], vs[i+1], vs[i+2]})
		}
	case pix.TriangleStrip:
		for i := 0; i+3 <= len(vs); i++ {
			if i%2 == 0 {
				out = append(out, triangle{vs[i], vs[i+1], vs[i+2]})
			} else {
				out = append(out, triangle{vs[i+1], vs[i], vs[i+2]})
			}
		}
	case pix.TriangleFan:
		for i := 1; i+2 <= len(vs); i++ {
			out = append(out, triangle{vs[0], vs[i], vs[i+1]})
		}
	}
	return out
}

// area returns twice the signed area in pixel space, where y points down:
// counter-clockwise in NDC is negative here.
func (t triangle) area() float32 {
	return t[1].pos.Sub(t[0].pos).Cross(t[2].pos.Sub(t[0].pos))
}

func (d *Device) cull(tris []triangle) []triangle {
	if d.state.Cull == gputypes.CullModeNone {
		return tris
	}
	out := tris[:0]
	for _, t := range tris {
		a := t.area()
		if a == 0 {
			continue
		}
		front := a < 0
		if d.state.FrontFace == gputypes.FrontFaceCW {
			front = !front
		}
		switch {
		case d.state.Cull == gputypes.CullModeBack && !front:
		case d.state.Cull == gputypes.CullModeFront && front:
		default:
			out = append(out, t)
		}
	}
	return out
}

// clipBounds returns the pixel bounds of pts intersected with the scissor.
func (d *Device) clipBounds(pts []geom.Vec2) image.Rectangle {
	if len(pts) == 0 {
		return image.Rectangle{}
	}
	lo, hi := pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = geom.V(min(lo.X, p.X), min(lo.Y, p.Y))
		hi = geom.V(max(hi.X, p.X), max(hi.Y, p.Y))
	}
	r := image.Rect(
		int(math32.Floor(lo.X)), int(math32.Floor(lo.Y)),
		int(math32.Ceil(hi.X)), int(math32.Ceil(hi.Y)),
	)
	return r.Intersect(d.clip)
}

// coverage rasterizes the polygons into the device mask, which always
// spans the whole target.
func (d *Device) coverage(polys [][]geom.Vec2) *image.Alpha {
	b := d.target.img.Rect
	if d.mask == nil || d.mask.Rect != b {
		d.mask = image.NewAlpha(b)
	}
	if d.raster == nil {
		d.raster = vector.NewRasterizer(b.Dx(), b.Dy())
	} else {
		d.raster.Reset(b.Dx(), b.Dy())
	}
	d.raster.DrawOp = draw.Src
	for _, poly := range polys {
		if polygonArea(poly) < 0 {
			poly = reversed(poly)
		}
		d.raster.MoveTo(poly[0].X, poly[0].Y)
		for _, p := range poly[1:] {
			d.raster.LineTo(p.X, p.Y)
		}
		d.raster.ClosePath()
	}
	d.raster.Draw(d.mask, b, image.Opaque, image.Point{})
	return d.mask
}

func polygonArea(poly []geom.Vec2) float32 {
	var a float32
	for i := range poly {
		a += poly[i].Cross(poly[(i+1)%len(poly)])
	}
	return a
}

func reversed(poly []geom.Vec2) []geom.Vec2 {
	out := make([]geom.Vec2, len(poly))
	for i, p := range poly {
		out[len(poly)-1-i] = p
	}
	return out
}

// fill draws the union of polys in a flat color.
func (d *Device) fill(tris []triangle, c color4) {
	polys := make([][]geom.Vec2, 0, len(tris))
	for _, t := range tris {
		if t.area() == 0 {
			continue
		}
		polys = append(polys, []geom.Vec2{t[0].pos, t[1].pos, t[2].pos})
	}
	d.composite(polys, c)
}

func (d *Device) composite(polys [][]geom.Vec2, c color4) {
	if len(polys) == 0 {
		return
	}
	var pts []geom.Vec2
	for _, p := range polys {
		pts = append(pts, p...)
	}
	r := d.clipBounds(pts)
	if r.Empty() {
		return
	}
	mask := d.coverage(polys)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			a := mask.Pix[mask.PixOffset(x, y)]
			if a == 0 {
				continue
			}
			d.blendPixel(x, y, c, float32(a)/255)
		}
	}
}

// lines draws each segment as a quad of the pipeline line width.
func (d *Device) lines(segs [][2]vertex) {
	half := max(d.state.LineWidth, 1) / 2
	polys := make([][]geom.Vec2, 0, len(segs))
	for _, s := range segs {
		a, b := s[0].pos, s[1].pos
		dir := b.Sub(a)
		if dir.Length() == 0 {
			continue
		}
		n := dir.Normalize().Perp().Mul(half)
		polys = append(polys, []geom.Vec2{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	c := color4(d.state.Color.Floats())
	if len(segs) > 0 && segs[0][0].tint {
		c = segs[0][0].color
	}
	d.composite(polys, c)
}

// points fills a square of the pipeline point size around each vertex,
// covering the pixels whose centers fall inside.
func (d *Device) points(vs []vertex) {
	half := max(d.state.PointSize, 1) / 2
	base := color4(d.state.Color.Floats())
	for _, v := range vs {
		c := base
		if v.tint {
			c = v.color
		}
		r := image.Rect(
			int(math32.Round(v.pos.X-half)), int(math32.Round(v.pos.Y-half)),
			int(math32.Round(v.pos.X+half)), int(math32.Round(v.pos.Y+half)),
		).Intersect(d.clip)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				d.blendPixel(x, y, c, 1)
			}
		}
	}
}

// textured samples the bound texture at each covered pixel center with
// nearest filtering, tinted by the pipeline color.
func (d *Device) textured(tris []triangle) {
	tex := d.texture
	if tex == nil {
		pix.Logger().Warn("software: textured draw without a bound texture")
		return
	}
	tint := color4(d.state.Color.Floats())
	for _, px := range d.texturedPixels(tris) {
		t := px.tri
		w0, w1, w2 := px.w[0], px.w[1], px.w[2]
		uv := t[0].uv.Mul(w0).Add(t[1].uv.Mul(w1)).Add(t[2].uv.Mul(w2))
		c := tex.sample(uv)
		for ch := range c {
			c[ch] *= tint[ch]
		}
		d.blendPixel(px.x, px.y, c, 1)
	}
}

type texel struct {
	x, y int
	tri  triangle
	w    [3]float32
}

// texturedPixels finds the first triangle containing each pixel center so
// that shared edges are drawn once.
func (d *Device) texturedPixels(tris []triangle) []texel {
	var pts []geom.Vec2
	for _, t := range tris {
		pts = append(pts, t[0].pos, t[1].pos, t[2].pos)
	}
	r := d.clipBounds(pts)
	var out []texel
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			p := geom.V(float32(x)+0.5, float32(y)+0.5)
			for _, t := range tris {
				if w, ok := t.barycentric(p); ok {
					out = append(out, texel{x: x, y: y, tri: t, w: w})
					break
				}
			}
		}
	}
	return out
}

func (t triangle) barycentric(p geom.Vec2) ([3]float32, bool) {
	area := t.area()
	if area == 0 {
		return [3]float32{}, false
	}
	const eps = 1e-5
	w0 := t[1].pos.Sub(p).Cross(t[2].pos.Sub(p)) / area
	w1 := t[2].pos.Sub(p).Cross(t[0].pos.Sub(p)) / area
	w2 := 1 - w0 - w1
	if w0 < -eps || w1 < -eps || w2 < -eps {
		return [3]float32{}, false
	}
	return [3]float32{w0, w1, w2}, true
}

func (t *Texture) sample(uv geom.Vec2) color4 {
	w, h := t.Width(), t.Height()
	if w == 0 || h == 0 {
		return color4{}
	}
	x := min(max(int(math32.Floor(uv.X*float32(w))), 0), w-1)
	y := min(max(int(math32.Floor(uv.Y*float32(h))), 0), h-1)
	o := t.img.PixOffset(x, y)
	p := t.img.Pix[o : o+4]
	return color4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
}

func (d *Device) blendPixel(x, y int, src color4, coverage float32) {
	img := d.target.img
	o := img.PixOffset(x, y)
	p := img.Pix[o : o+4]
	dst := color4{float32(p[0]) / 255, float32(p[1]) / 255, float32(p[2]) / 255, float32(p[3]) / 255}
	out := blend(d.state.Blend, src, dst, coverage)
	for ch := range out {
		p[ch] = uint8(out[ch]*255 + 0.5)
	}
}
