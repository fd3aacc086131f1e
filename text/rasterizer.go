package text

import (
	"fmt"
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/pix/internal/cache"
)

// maxFaces bounds the number of sized faces an OpenTypeRasterizer keeps.
const maxFaces = 4

// Glyph is a rasterized glyph.
type Glyph struct {
	// Mask holds the coverage of the glyph's bounding box. It is nil for
	// glyphs without ink, such as the space.
	Mask *image.Alpha
	// Width and Height are the mask size in pixels.
	Width, Height int
	// Bearing is the offset from the pen position on the baseline to the
	// top-left corner of Mask, y pointing down.
	Bearing image.Point
	// Ascent is the distance from the top of the line to the baseline.
	Ascent int
	// Advance is the horizontal pen advance in pixels.
	Advance int
}

// Rasterizer turns runes into glyph masks.
type Rasterizer interface {
	// Rasterize renders r at the given pixel size. Runes the font does
	// not cover yield a blank glyph.
	Rasterize(r rune, pixelSize int) (Glyph, error)
	// CellSize returns the size of a character cell: the advance of a
	// wide glyph and the line height.
	CellSize(pixelSize int) (w, h int)
}

// OpenTypeRasterizer renders glyphs with golang.org/x/image/font/opentype.
type OpenTypeRasterizer struct {
	font  *opentype.Font
	faces *cache.Cache[int, font.Face]
}

var _ Rasterizer = (*OpenTypeRasterizer)(nil)

// NewOpenTypeRasterizer parses a TrueType or OpenType font.
func NewOpenTypeRasterizer(ttf []byte) (*OpenTypeRasterizer, error) {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	faces := cache.New[int, font.Face](maxFaces)
	faces.OnEvict = func(_ int, f font.Face) { _ = f.Close() }
	return &OpenTypeRasterizer{font: f, faces: faces}, nil
}

func (r *OpenTypeRasterizer) face(pixelSize int) (font.Face, error) {
	return r.faces.GetOrCreate(pixelSize, func() (font.Face, error) {
		f, err := opentype.NewFace(r.font, &opentype.FaceOptions{
			Size:    float64(pixelSize),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("text: face at %dpx: %w", pixelSize, err)
		}
		return f, nil
	})
}

// CellSize implements Rasterizer.
func (r *OpenTypeRasterizer) CellSize(pixelSize int) (w, h int) {
	f, err := r.face(pixelSize)
	if err != nil {
		return 0, 0
	}
	m := f.Metrics()
	adv, _ := f.GlyphAdvance('M')
	return adv.Ceil(), (m.Ascent + m.Descent).Ceil()
}

// Rasterize implements Rasterizer.
func (r *OpenTypeRasterizer) Rasterize(ch rune, pixelSize int) (Glyph, error) {
	f, err := r.face(pixelSize)
	if err != nil {
		return Glyph{}, err
	}
	bounds, adv, ok := f.GlyphBounds(ch)
	g := Glyph{Ascent: f.Metrics().Ascent.Ceil(), Advance: adv.Ceil()}
	if !ok {
		return g, nil
	}
	rect := image.Rect(
		bounds.Min.X.Floor(), bounds.Min.Y.Floor(),
		bounds.Max.X.Ceil(), bounds.Max.Y.Ceil(),
	)
	if rect.Empty() {
		return g, nil
	}
	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	d := font.Drawer{
		Dst:  mask,
		Src:  image.Opaque,
		Face: f,
		Dot:  fixed.P(-rect.Min.X, -rect.Min.Y),
	}
	d.DrawString(string(ch))

	g.Mask = mask
	g.Width, g.Height = rect.Dx(), rect.Dy()
	g.Bearing = rect.Min
	return g, nil
}

// Close releases the cached faces.
func (r *OpenTypeRasterizer) Close() error {
	r.faces.Clear()
	return nil
}
