package text

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"

	"github.com/chewxy/math32"
	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"golang.org/x/image/vector"
)

// OutlineRasterizer fills glyph outlines read with go-text/typesetting.
// It needs no hinting support from the font and renders CFF and glyf
// outlines alike.
type OutlineRasterizer struct {
	face *font.Face
	upem float32
}

var _ Rasterizer = (*OutlineRasterizer)(nil)

// NewOutlineRasterizer parses a TrueType or OpenType font.
func NewOutlineRasterizer(ttf []byte) (*OutlineRasterizer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	upem := float32(face.Upem())
	if upem == 0 {
		upem = 1000
	}
	return &OutlineRasterizer{face: face, upem: upem}, nil
}

func (r *OutlineRasterizer) scale(pixelSize int) float32 {
	return float32(pixelSize) / r.upem
}

// extents returns ascender and descender in font units, descender
// negative.
func (r *OutlineRasterizer) extents() (asc, desc float32) {
	if ext, ok := r.face.FontHExtents(); ok {
		return ext.Ascender, ext.Descender
	}
	return r.upem * 0.8, -r.upem * 0.2
}

func (r *OutlineRasterizer) advance(ch rune, pixelSize int) float32 {
	gid, ok := r.face.NominalGlyph(ch)
	if !ok {
		return 0
	}
	return r.face.HorizontalAdvance(gid) * r.scale(pixelSize)
}

// CellSize implements Rasterizer.
func (r *OutlineRasterizer) CellSize(pixelSize int) (w, h int) {
	asc, desc := r.extents()
	s := r.scale(pixelSize)
	return int(math32.Ceil(r.advance('M', pixelSize))), int(math32.Ceil((asc - desc) * s))
}

// Rasterize implements Rasterizer.
func (r *OutlineRasterizer) Rasterize(ch rune, pixelSize int) (Glyph, error) {
	s := r.scale(pixelSize)
	asc, _ := r.extents()
	g := Glyph{
		Ascent:  int(math32.Ceil(asc * s)),
		Advance: int(math32.Ceil(r.advance(ch, pixelSize))),
	}
	gid, ok := r.face.NominalGlyph(ch)
	if !ok {
		return g, nil
	}
	outline, ok := r.face.GlyphData(gid).(font.GlyphOutline)
	if !ok || len(outline.Segments) == 0 {
		return g, nil
	}

	// Scale into pixels with y pointing down.
	segs := make([]ot.Segment, len(outline.Segments))
	lo := ot.SegmentPoint{X: math32.Inf(1), Y: math32.Inf(1)}
	hi := ot.SegmentPoint{X: math32.Inf(-1), Y: math32.Inf(-1)}
	for i, seg := range outline.Segments {
		segs[i] = seg
		for j := range seg.ArgsSlice() {
			p := &segs[i].Args[j]
			p.X, p.Y = p.X*s, -p.Y*s
			lo = ot.SegmentPoint{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
			hi = ot.SegmentPoint{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
		}
	}
	rect := image.Rect(
		int(math32.Floor(lo.X)), int(math32.Floor(lo.Y)),
		int(math32.Ceil(hi.X)), int(math32.Ceil(hi.Y)),
	)
	if rect.Empty() {
		return g, nil
	}

	dx, dy := float32(rect.Min.X), float32(rect.Min.Y)
	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	open := false
	for _, seg := range segs {
		a := seg.Args
		switch seg.Op {
		case ot.SegmentOpMoveTo:
			if open {
				z.ClosePath()
			}
			z.MoveTo(a[0].X-dx, a[0].Y-dy)
			open = true
		case ot.SegmentOpLineTo:
			z.LineTo(a[0].X-dx, a[0].Y-dy)
		case ot.SegmentOpQuadTo:
			z.QuadTo(a[0].X-dx, a[0].Y-dy, a[1].X-dx, a[1].Y-dy)
		case ot.SegmentOpCubeTo:
			z.CubeTo(a[0].X-dx, a[0].Y-dy, a[1].X-dx, a[1].Y-dy, a[2].X-dx, a[2].Y-dy)
		}
	}
	if open {
		z.ClosePath()
	}
	mask := image.NewAlpha(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	z.DrawOp = draw.Src
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	g.Mask = mask
	g.Width, g.Height = rect.Dx(), rect.Dy()
	g.Bearing = rect.Min
	return g, nil
}
