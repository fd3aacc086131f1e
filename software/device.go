// Package software implements pix.Device on the CPU.
//
// Render targets are [Texture] values holding straight-alpha RGBA pixels.
// Filled triangles and wide lines are rasterized with anti-aliased
// coverage from golang.org/x/image/vector; textured triangles and points
// are sampled at pixel centers. The device is meant for headless rendering
// and as a reference for tests, not for speed.
package software

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"golang.org/x/image/vector"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
)

// Device renders into CPU textures. The window surface of screen targets
// is the texture returned by Screen.
type Device struct {
	screen *Texture

	target   *Texture
	viewport geom.Rect
	clip     image.Rectangle
	state    pix.PipelineState
	texture  *Texture

	raster *vector.Rasterizer
	mask   *image.Alpha

	submits int
}

var _ pix.Device = (*Device)(nil)

// New returns a device whose screen is w×h physical pixels.
func New(w, h int) *Device {
	d := &Device{
		screen: NewTexture(w, h),
		state: pix.PipelineState{
			Color:     pix.White,
			Blend:     gputypes.BlendStateAlpha(),
			PointSize: 1,
			LineWidth: 1,
		},
	}
	d.target = d.screen
	d.viewport = geom.Rect{W: w, H: h}
	d.clip = d.screen.img.Rect
	return d
}

// Screen returns the texture backing screen targets.
func (d *Device) Screen() *Texture { return d.screen }

// Submits returns the number of draw submissions so far.
func (d *Device) Submits() int { return d.submits }

// NewTextureFromRGBA creates a texture from width*height*4 bytes of RGBA.
func (d *Device) NewTextureFromRGBA(width, height int, data []byte) (gpucontext.Texture, error) {
	t := NewTexture(width, height)
	if err := t.UpdateData(data); err != nil {
		return nil, err
	}
	return t, nil
}

// textureFor resolves the texture behind a target. Screen targets resize
// the screen to the target's physical size.
func (d *Device) textureFor(t pix.Target) *Texture {
	if t.Texture == nil {
		w, h := t.PhysicalSize()
		if w > 0 && h > 0 {
			d.screen.resize(w, h)
		}
		return d.screen
	}
	if tex, ok := t.Texture.(*Texture); ok {
		return tex
	}
	pix.Logger().Warn("software: foreign render target, drawing to screen",
		slog.String("type", fmt.Sprintf("%T", t.Texture)))
	return d.screen
}

// SetTarget selects the render target, viewport and scissor rectangle.
func (d *Device) SetTarget(t pix.Target, viewport, clip geom.Rect) {
	d.target = d.textureFor(t)
	d.viewport = viewport
	bounds := d.target.img.Rect
	if clip.Empty() {
		d.clip = bounds
		return
	}
	d.clip = image.Rect(clip.X, clip.Y, clip.X+clip.W, clip.Y+clip.H).Intersect(bounds)
}

// SetPipeline sets the state for following submissions.
func (d *Device) SetPipeline(state pix.PipelineState) { d.state = state }

// BindTexture selects the texture sampled by textured draws. Textures
// from other devices are ignored.
func (d *Device) BindTexture(tex pix.Texture) {
	t, _ := tex.(*Texture)
	d.texture = t
}

// Clear fills the whole target with c, ignoring the scissor.
func (d *Device) Clear(t pix.Target, c pix.RGBA) error {
	tex := d.textureFor(t)
	px := c.Color()
	draw.Draw(tex.img, tex.img.Rect, image.NewUniform(px), image.Point{}, draw.Src)
	return nil
}

// ReadPixels copies the logical rectangle r of the target into dst, one
// little-endian RGBA value per pixel.
func (d *Device) ReadPixels(t pix.Target, r geom.Rect, dst []uint32) error {
	if len(dst) < r.W*r.H {
		return fmt.Errorf("software: read %dx%d into %d pixels: %w", r.W, r.H, len(dst), ErrTextureSize)
	}
	tex := d.textureFor(t)
	ratio := t.PixelRatio
	if ratio <= 0 {
		ratio = 1
	}
	img := tex.img
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			px := int(float32(r.X+x) * ratio)
			py := int(float32(r.Y+y) * ratio)
			var v uint32
			if image.Pt(px, py).In(img.Rect) {
				o := img.PixOffset(px, py)
				p := img.Pix[o : o+4]
				v = uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
			}
			dst[x+y*r.W] = v
		}
	}
	return nil
}

// Submit draws a vertex stream.
func (d *Device) Submit(vertices []float32, p pix.Primitive, layout pix.VertexLayout) error {
	vs, err := decode(vertices, layout)
	if err != nil {
		return err
	}
	d.submits++
	d.draw(vs, p, layout)
	return nil
}

// SubmitIndexed draws indexed vertices. Only the index values matter;
// the format is checked against the vertex count.
func (d *Device) SubmitIndexed(vertices []float32, indices []uint32, f gputypes.IndexFormat, p pix.Primitive, layout pix.VertexLayout) error {
	vs, err := decode(vertices, layout)
	if err != nil {
		return err
	}
	if f == gputypes.IndexFormatUint16 && len(vs) > 0xFFFF {
		return fmt.Errorf("software: %d vertices need 32-bit indices", len(vs))
	}
	expanded := make([]vertex, len(indices))
	for i, idx := range indices {
		if int(idx) >= len(vs) {
			return fmt.Errorf("software: index %d out of range (%d vertices)", idx, len(vs))
		}
		expanded[i] = vs[idx]
	}
	d.submits++
	d.draw(expanded, p, layout)
	return nil
}
