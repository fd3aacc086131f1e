package software

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/gogpu/gpucontext"
)

// ErrTextureSize is returned when pixel data does not match the texture or
// region it is uploaded to.
var ErrTextureSize = errors.New("software: pixel data size mismatch")

// Texture is a CPU texture with straight (non-premultiplied) RGBA pixels,
// stored top row first.
type Texture struct {
	img *image.NRGBA
}

var (
	_ gpucontext.Texture              = (*Texture)(nil)
	_ gpucontext.TextureUpdater       = (*Texture)(nil)
	_ gpucontext.TextureRegionUpdater = (*Texture)(nil)
)

// NewTexture returns a transparent w×h texture.
func NewTexture(w, h int) *Texture {
	return &Texture{img: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// Width returns the texture width in pixels.
func (t *Texture) Width() int { return t.img.Rect.Dx() }

// Height returns the texture height in pixels.
func (t *Texture) Height() int { return t.img.Rect.Dy() }

// Image returns the texture pixels.
func (t *Texture) Image() *image.NRGBA { return t.img }

// UpdateData replaces all pixels with width*height*4 bytes of RGBA data.
func (t *Texture) UpdateData(data []byte) error {
	if len(data) != len(t.img.Pix) {
		return fmt.Errorf("software: update %dx%d with %d bytes: %w", t.Width(), t.Height(), len(data), ErrTextureSize)
	}
	copy(t.img.Pix, data)
	return nil
}

// UpdateRegion replaces the w×h pixels at (x, y) with densely packed RGBA
// rows.
func (t *Texture) UpdateRegion(x, y, w, h int, data []byte) error {
	r := image.Rect(x, y, x+w, y+h)
	if !r.In(t.img.Rect) {
		return fmt.Errorf("software: region %v outside %v: %w", r, t.img.Rect, ErrTextureSize)
	}
	if len(data) != w*h*4 {
		return fmt.Errorf("software: region %dx%d with %d bytes: %w", w, h, len(data), ErrTextureSize)
	}
	for row := 0; row < h; row++ {
		off := t.img.PixOffset(x, y+row)
		copy(t.img.Pix[off:off+w*4], data[row*w*4:(row+1)*w*4])
	}
	return nil
}

// resize reallocates the texture if its size differs, dropping content.
func (t *Texture) resize(w, h int) {
	if t.Width() == w && t.Height() == h {
		return
	}
	t.img = image.NewNRGBA(image.Rect(0, 0, w, h))
}

// SavePNG saves the texture to a PNG file.
func SavePNG(t *Texture, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, t.img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
