package pix

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix/geom"
	"github.com/gogpu/pix/internal/batch"
	"github.com/gogpu/pix/internal/prim"
)

// Surface is an immediate-mode drawing surface over a view of a render
// target. Screens, images and sub-views are all Surfaces; they differ only
// in the Target they draw to and their view rectangle.
//
// A Surface is not safe for concurrent use. Surfaces sharing a target
// must be used from one goroutine at a time.
type Surface struct {
	dev    Device
	target Target
	view   geom.ViewRect

	color     RGBA
	lineWidth float32
	pointSize float32
	blend     BlendMode
	clip      geom.Rect
	cull      bool

	last       geom.Vec2
	lastRadius float32
	hasLast    bool

	points batch.PointBatch
	pixels *batch.PixelBatch

	closed bool
}

// NewScreen returns a Surface drawing to the window surface described by
// wp. The view covers the window's logical size; the scale factor maps it
// to physical pixels.
func NewScreen(dev Device, wp gpucontext.WindowProvider, opts ...SurfaceOption) (*Surface, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	w, h := wp.Size()
	t := Target{Width: w, Height: h, PixelRatio: float32(wp.ScaleFactor())}
	return newSurface(dev, t, geom.NewViewRect(float32(w), float32(h)), opts), nil
}

// NewImage returns a Surface drawing into tex.
func NewImage(dev Device, tex Texture, opts ...SurfaceOption) (*Surface, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	t := Target{Texture: tex, Width: tex.Width(), Height: tex.Height(), PixelRatio: 1}
	return newSurface(dev, t, geom.NewViewRect(float32(t.Width), float32(t.Height)), opts), nil
}

func newSurface(dev Device, t Target, view geom.ViewRect, opts []SurfaceOption) *Surface {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	view.Scale = o.scale
	s := &Surface{
		dev:       dev,
		target:    t,
		view:      view,
		color:     o.color,
		lineWidth: o.lineWidth,
		pointSize: o.pointSize,
		blend:     o.blend,
	}
	s.points = batch.PointBatch{Max: o.maxPoints, Submit: s.submitPoints}
	bw, bh := s.viewPixels()
	s.pixels = batch.NewPixelBatch(bw, bh, pixelBacking{s})
	return s
}

// Crop returns a Surface drawing into the w×h region at (x, y) of this
// surface's view. The region is given in logical target pixels and is not
// affected by the scale; the new surface keeps the scale for drawing.
// Pending points and pixels are flushed first so the new view sees them.
func (s *Surface) Crop(x, y, w, h float32) (*Surface, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if err := s.Flush(); err != nil {
		return nil, err
	}
	c := &Surface{
		dev:       s.dev,
		target:    s.target,
		view:      s.view.Crop(geom.V(x, y), geom.V(w, h)),
		color:     s.color,
		lineWidth: s.lineWidth,
		pointSize: s.pointSize,
		blend:     s.blend,
		cull:      s.cull,
	}
	c.points = batch.PointBatch{Max: s.points.Max, Submit: c.submitPoints}
	bw, bh := c.viewPixels()
	c.pixels = batch.NewPixelBatch(bw, bh, pixelBacking{c})
	return c, nil
}

// Split tiles the view into w×h sub-views, row by row, with sizes in
// logical target pixels as for Crop. Partial tiles at the right and bottom
// edges are dropped.
func (s *Surface) Split(w, h float32) ([]*Surface, error) {
	if !(w > 0) || !(h > 0) {
		return nil, nil
	}
	var out []*Surface
	for y := float32(0); y+h <= s.view.Size.Y; y += h {
		for x := float32(0); x+w <= s.view.Size.X; x += w {
			c, err := s.Crop(x, y, w, h)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}

// Device returns the device the surface draws through.
func (s *Surface) Device() Device { return s.dev }

// Target returns the render target.
func (s *Surface) Target() Target { return s.target }

// View returns the current view rectangle.
func (s *Surface) View() geom.ViewRect { return s.view }

// Size returns the view size in logical target pixels.
func (s *Surface) Size() geom.Vec2 { return s.view.Size }

// Color returns the draw color.
func (s *Surface) Color() RGBA { return s.color }

// SetColor sets the draw color.
func (s *Surface) SetColor(c RGBA) { s.color = c }

// LineWidth returns the line width.
func (s *Surface) LineWidth() float32 { return s.lineWidth }

// SetLineWidth sets the line width in pixels.
func (s *Surface) SetLineWidth(w float32) { s.lineWidth = w }

// PointSize returns the size of plotted points.
func (s *Surface) PointSize() float32 { return s.pointSize }

// SetPointSize sets the size of plotted points in pixels.
func (s *Surface) SetPointSize(size float32) { s.pointSize = size }

// BlendMode returns the blend mode.
func (s *Surface) BlendMode() BlendMode { return s.blend }

// SetBlendMode sets the blend mode.
func (s *Surface) SetBlendMode(m BlendMode) { s.blend = m }

// Clip returns the clip rectangle in view coordinates. An empty rectangle
// means no clipping beyond the view.
func (s *Surface) Clip() geom.Rect { return s.clip }

// SetClip restricts drawing to r, given in view coordinates.
func (s *Surface) SetClip(r geom.Rect) { s.clip = r }

// ClearClip removes the clip rectangle.
func (s *Surface) ClearClip() { s.clip = geom.Rect{} }

// BackfaceCulling reports whether back-facing polygons are culled.
func (s *Surface) BackfaceCulling() bool { return s.cull }

// SetBackfaceCulling enables culling of polygons given in the facing-away
// winding.
func (s *Surface) SetBackfaceCulling(on bool) { s.cull = on }

// SetScale sets the application scale applied to every coordinate.
func (s *Surface) SetScale(scale float32) { s.view.Scale = scale }

// Resize changes the target size, for example after the window was
// resized. Pending output is flushed first. Views covering the whole
// target follow the new size.
func (s *Surface) Resize(w, h int, pixelRatio float32) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.Flush(); err != nil {
		return err
	}
	s.target.Width, s.target.Height = w, h
	s.target.PixelRatio = pixelRatio
	s.view = s.view.Resize(geom.V(float32(w), float32(h)), s.view.Scale)
	s.pixels.Resize(s.viewPixels())
	return nil
}

// viewPixels returns the size of the pixel batch: the view in logical
// target pixels.
func (s *Surface) viewPixels() (w, h int) {
	b := s.view.Bounds()
	return b.W, b.H
}

// builder returns a primitive generator for the current view.
func (s *Surface) builder() prim.Builder {
	return prim.New(s.view)
}

// scissor returns the physical scissor rectangle for the current clip. It
// reports false when the clip leaves nothing of the view to draw on.
func (s *Surface) scissor() (geom.Rect, bool) {
	bounds := s.view.Bounds()
	r := bounds
	if !s.clip.Empty() {
		c := s.clip
		c.X += bounds.X
		c.Y += bounds.Y
		r = c.Intersect(bounds)
		if r.Empty() {
			return geom.Rect{}, false
		}
	} else if r == (geom.Rect{W: s.target.Width, H: s.target.Height}) {
		return geom.Rect{}, true
	}
	return scaleRect(r, s.target.ratio()), true
}

func scaleRect(r geom.Rect, ratio float32) geom.Rect {
	if ratio == 1 {
		return r
	}
	return geom.Rect{
		X: int(float32(r.X) * ratio),
		Y: int(float32(r.Y) * ratio),
		W: int(float32(r.W) * ratio),
		H: int(float32(r.H) * ratio),
	}
}

// bind points the device at this surface's target and loads the current
// pipeline state. It reports false when clipping hides everything.
func (s *Surface) bind(cull bool) bool {
	clip, visible := s.scissor()
	if !visible {
		return false
	}
	pw, ph := s.target.PhysicalSize()
	s.dev.SetTarget(s.target, geom.Rect{W: pw, H: ph}, clip)
	state := PipelineState{
		Color:     s.color,
		Blend:     s.blend.State(),
		FrontFace: gputypes.FrontFaceCCW,
		PointSize: s.pointSize,
		LineWidth: s.lineWidth,
	}
	if cull && s.cull {
		state.Cull = gputypes.CullModeBack
	}
	s.dev.SetPipeline(state)
	return true
}

// submit binds the surface and sends a vertex stream.
func (s *Surface) submit(op string, vertices []float32, p Primitive, layout VertexLayout, cull bool) error {
	if s.closed {
		return ErrClosed
	}
	if len(vertices) == 0 || !s.bind(cull) {
		return nil
	}
	if err := s.dev.Submit(vertices, p, layout); err != nil {
		return s.deviceError(op, err)
	}
	return nil
}

func (s *Surface) submitIndexed(op string, vertices []float32, indices []uint32, f gputypes.IndexFormat, cull bool) error {
	if s.closed {
		return ErrClosed
	}
	if len(indices) == 0 || !s.bind(cull) {
		return nil
	}
	if err := s.dev.SubmitIndexed(vertices, indices, f, Triangles, Position2); err != nil {
		return s.deviceError(op, err)
	}
	return nil
}

func (s *Surface) deviceError(op string, err error) error {
	Logger().Warn("pix: device submission failed", slog.String("op", op), slog.Any("err", err))
	return fmt.Errorf("pix: %s: %w", op, err)
}

func (s *Surface) submitTextured(op string, tex Texture, vertices []float32) error {
	if s.closed {
		return ErrClosed
	}
	if tex == nil || !s.bind(false) {
		return nil
	}
	s.dev.BindTexture(tex)
	if err := s.dev.Submit(vertices, TriangleFan, Position2UV2); err != nil {
		return s.deviceError(op, err)
	}
	return nil
}
