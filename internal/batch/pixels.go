package batch

import "fmt"

// Backing is the surface a PixelBatch shadows.
type Backing interface {
	// ReadPixels fills dst (w*h packed RGBA values, row major) with the
	// current surface contents.
	ReadPixels(dst []uint32) error
	// UploadPixels replaces the surface contents with pixels.
	UploadPixels(pixels []uint32, w, h int) error
}

// PixelBatch shadows a w×h surface in memory so that single-pixel writes
// cost no device round trip. The buffer is read back on the first write
// and released by Flush.
type PixelBatch struct {
	w, h    int
	backing Backing
	pixels  []uint32
	dirty   bool
	uploads int
}

// NewPixelBatch returns a batch over a w×h region of backing.
func NewPixelBatch(w, h int, backing Backing) *PixelBatch {
	return &PixelBatch{w: w, h: h, backing: backing}
}

// Size returns the batch dimensions.
func (b *PixelBatch) Size() (w, h int) { return b.w, b.h }

// Resize drops any buffered pixels and changes the batch dimensions.
// Pending writes must be flushed first.
func (b *PixelBatch) Resize(w, h int) {
	b.w, b.h = w, h
	b.pixels = nil
	b.dirty = false
}

// SwapRGBA converts 0xRRGGBBAA into the value whose little-endian byte
// order is R, G, B, A.
func SwapRGBA(c uint32) uint32 {
	c = (c&0x0000FFFF)<<16 | (c&0xFFFF0000)>>16
	return (c&0x00FF00FF)<<8 | (c&0xFF00FF00)>>8
}

func (b *PixelBatch) ensure() error {
	if b.pixels != nil {
		return nil
	}
	buf := make([]uint32, b.w*b.h)
	if b.backing != nil {
		if err := b.backing.ReadPixels(buf); err != nil {
			return fmt.Errorf("batch: read back %dx%d: %w", b.w, b.h, err)
		}
	}
	b.pixels = buf
	return nil
}

// Set writes the 0xRRGGBBAA color at (x, y). Writes outside the batch are
// ignored.
func (b *PixelBatch) Set(x, y int, rgba uint32) error {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return nil
	}
	if err := b.ensure(); err != nil {
		return err
	}
	b.pixels[x+b.w*y] = SwapRGBA(rgba)
	b.dirty = true
	return nil
}

// At returns the 0xRRGGBBAA color at (x, y), reading the surface back if
// needed. Points outside the batch return 0.
func (b *PixelBatch) At(x, y int) (uint32, error) {
	if x < 0 || y < 0 || x >= b.w || y >= b.h {
		return 0, nil
	}
	if err := b.ensure(); err != nil {
		return 0, err
	}
	// The swap is its own inverse.
	return SwapRGBA(b.pixels[x+b.w*y]), nil
}

// Flush uploads the whole buffer if it holds unflushed writes, then frees
// it. It reports whether an upload happened. A failed upload keeps the
// buffer and the dirty flag.
func (b *PixelBatch) Flush() (bool, error) {
	if !b.dirty {
		b.pixels = nil
		return false, nil
	}
	if b.backing != nil {
		if err := b.backing.UploadPixels(b.pixels, b.w, b.h); err != nil {
			return false, fmt.Errorf("batch: upload %dx%d: %w", b.w, b.h, err)
		}
	}
	b.uploads++
	b.dirty = false
	b.pixels = nil
	return true, nil
}

// Dirty reports whether the buffer holds unflushed writes.
func (b *PixelBatch) Dirty() bool { return b.dirty }

// Allocated reports whether the shadow buffer currently exists.
func (b *PixelBatch) Allocated() bool { return b.pixels != nil }

// Uploads returns the number of uploads performed.
func (b *PixelBatch) Uploads() int { return b.uploads }
