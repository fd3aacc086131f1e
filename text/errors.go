package text

import "errors"

var (
	// ErrNoRasterizer is returned when a glyph tile set is created
	// without a rasterizer.
	ErrNoRasterizer = errors.New("text: no rasterizer")

	// ErrReadOnlyTexture is returned when the tile texture does not
	// accept region uploads.
	ErrReadOnlyTexture = errors.New("text: texture does not support region updates")
)
