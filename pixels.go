package pix

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pix/geom"
)

// Plot queues a point of color c at p. Points are submitted together on
// Flush or once the batch limit is reached.
func (s *Surface) Plot(p geom.Vec2, c RGBA) error {
	if s.closed {
		return ErrClosed
	}
	ndc := s.view.ToScreen(p)
	return s.points.Plot(ndc.X, ndc.Y, c.Floats())
}

// PlotPoints queues a point per entry of points. colors[i] colors
// points[i]; when colors is shorter the last color repeats, and without
// colors the draw color is used.
func (s *Surface) PlotPoints(points []geom.Vec2, colors []RGBA) error {
	if s.closed {
		return ErrClosed
	}
	c := s.color
	for i, p := range points {
		if i < len(colors) {
			c = colors[i]
		}
		ndc := s.view.ToScreen(p)
		if err := s.points.Plot(ndc.X, ndc.Y, c.Floats()); err != nil {
			return err
		}
	}
	return nil
}

func (s *Surface) submitPoints(data []float32) error {
	Logger().Debug("pix: flush points", slog.Int("points", len(data)/6))
	return s.submit("points", data, Points, Position2Color4, false)
}

// SetPixel sets the pixel at (x, y) of the view. The first write reads the
// view back from the device; writes become visible on Flush. Pending
// points are flushed before the read-back so it includes them.
func (s *Surface) SetPixel(x, y int, c RGBA) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.beforePixels(); err != nil {
		return err
	}
	return s.pixels.Set(x, y, c.Packed())
}

// Pixel returns the color at (x, y) of the view, including unflushed
// SetPixel writes.
func (s *Surface) Pixel(x, y int) (RGBA, error) {
	if s.closed {
		return RGBA{}, ErrClosed
	}
	if err := s.beforePixels(); err != nil {
		return RGBA{}, err
	}
	v, err := s.pixels.At(x, y)
	if err != nil {
		return RGBA{}, err
	}
	return Unpack(v), nil
}

// FloodFill replaces the 4-connected area around (x, y) that has the
// seed pixel's color with c.
func (s *Surface) FloodFill(x, y int, c RGBA) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.beforePixels(); err != nil {
		return err
	}
	return s.pixels.FloodFill(x, y, c.Packed())
}

func (s *Surface) beforePixels() error {
	if s.pixels.Allocated() {
		return nil
	}
	return s.points.Flush()
}

// Flush submits pending points and uploads pending pixel writes.
func (s *Surface) Flush() error {
	if s.closed {
		return ErrClosed
	}
	if err := s.points.Flush(); err != nil {
		return err
	}
	uploaded, err := s.pixels.Flush()
	if uploaded {
		w, h := s.pixels.Size()
		Logger().Debug("pix: flush pixels", slog.Int("w", w), slog.Int("h", h))
	}
	return err
}

// Close flushes pending output and marks the surface closed. Further
// drawing returns ErrClosed. Closing twice is a no-op.
func (s *Surface) Close() error {
	if s.closed {
		return nil
	}
	err := s.Flush()
	s.closed = true
	return err
}

// ToImage copies the current contents of the view into a new texture of
// the view's logical size. Pending points and pixel writes are flushed
// first.
func (s *Surface) ToImage() (Texture, error) {
	if err := s.Flush(); err != nil {
		return nil, err
	}
	b := s.view.Bounds()
	pixels := make([]uint32, b.W*b.H)
	if err := s.dev.ReadPixels(s.target, b, pixels); err != nil {
		return nil, s.deviceError("to image", err)
	}
	tex, err := s.dev.NewTextureFromRGBA(b.W, b.H, pixelBytes(pixels))
	if err != nil {
		return nil, s.deviceError("to image", err)
	}
	return tex, nil
}

// pixelBytes lays out packed pixels as RGBA bytes.
func pixelBytes(pixels []uint32) []byte {
	data := make([]byte, len(pixels)*4)
	for i, p := range pixels {
		binary.LittleEndian.PutUint32(data[i*4:], p)
	}
	return data
}

// PendingPoints returns the number of plotted points not yet submitted.
func (s *Surface) PendingPoints() int { return s.points.Len() }

// PixelsDirty reports whether SetPixel writes are waiting for Flush.
func (s *Surface) PixelsDirty() bool { return s.pixels.Dirty() }

// pixelBacking connects a surface's pixel batch to its device.
type pixelBacking struct {
	s *Surface
}

func (b pixelBacking) ReadPixels(dst []uint32) error {
	s := b.s
	return s.dev.ReadPixels(s.target, s.view.Bounds(), dst)
}

// UploadPixels writes the buffer straight into a texture target when it
// supports region updates, and otherwise blits it through a temporary
// texture.
func (b pixelBacking) UploadPixels(pixels []uint32, w, h int) error {
	s := b.s
	data := pixelBytes(pixels)

	if ru, ok := s.target.Texture.(gpucontext.TextureRegionUpdater); ok && s.target.ratio() == 1 {
		bounds := s.view.Bounds()
		if err := ru.UpdateRegion(bounds.X, bounds.Y, w, h, data); err != nil {
			return fmt.Errorf("pix: update region: %w", err)
		}
		return nil
	}

	tex, err := s.dev.NewTextureFromRGBA(w, h, data)
	if err != nil {
		return fmt.Errorf("pix: pixel texture: %w", err)
	}
	color, blend := s.color, s.blend
	s.color, s.blend = White, BlendCopy
	defer func() { s.color, s.blend = color, blend }()
	return s.Blit(tex, geom.Vec2{}, s.view.Size.Div(s.view.Scale))
}
