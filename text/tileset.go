package text

import (
	"fmt"
	"image"
	"log/slog"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/atlas"
	"github.com/gogpu/pix/geom"
)

// First and last rune loaded into every glyph tile set up front.
const (
	preloadFirst = 0x20
	preloadLast  = 0x7F
)

// TileSetOption configures a TileSet during creation.
type TileSetOption func(*tileSetOptions)

type tileSetOptions struct {
	tileW, tileH int
	gap          int
}

// WithTileSize overrides the cell size, which defaults to the
// rasterizer's character cell. Glyphs are centered in larger cells.
func WithTileSize(w, h int) TileSetOption {
	return func(o *tileSetOptions) {
		o.tileW, o.tileH = w, h
	}
}

// WithGap keeps g pixels free between cells.
func WithGap(g int) TileSetOption {
	return func(o *tileSetOptions) {
		o.gap = g
	}
}

// TileSet maps runes or tile ids to cells of a texture atlas.
type TileSet struct {
	tex    pix.Texture
	atlas  *atlas.Atlas
	raster Rasterizer
	size   int

	tileW, tileH int
	fontW, fontH int

	// Allocated runes whose cell still has to be rendered.
	pending map[rune]struct{}
}

// NewTileSet returns a glyph tile set rendering with raster at size
// pixels into tex. The printable ASCII range is rendered immediately, so
// an atlas too small for it fails here with atlas.ErrAtlasFull.
func NewTileSet(tex pix.Texture, raster Rasterizer, size int, opts ...TileSetOption) (*TileSet, error) {
	if raster == nil {
		return nil, ErrNoRasterizer
	}
	if _, ok := tex.(gpucontext.TextureRegionUpdater); !ok {
		return nil, ErrReadOnlyTexture
	}
	o := tileSetOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	fw, fh := raster.CellSize(size)
	if o.tileW <= 0 || o.tileH <= 0 {
		o.tileW, o.tileH = fw, fh
	}
	ts := newTileSet(tex, o)
	ts.raster = raster
	ts.size = size
	ts.fontW, ts.fontH = fw, fh

	for r := rune(preloadFirst); r <= preloadLast; r++ {
		if _, err := ts.Offset(r); err != nil {
			return nil, err
		}
	}
	pix.Logger().Debug("text: tile set ready",
		slog.Int("size", size),
		slog.Int("tile_w", ts.tileW),
		slog.Int("tile_h", ts.tileH),
		slog.Int("tiles", ts.atlas.Len()))
	return ts, nil
}

// NewTileSetFromSize returns a tile set of blank w×h cells over tex. Cells
// are assigned to tile ids on first use; their content is up to the
// application.
func NewTileSetFromSize(tex pix.Texture, w, h int, opts ...TileSetOption) *TileSet {
	o := tileSetOptions{tileW: w, tileH: h}
	for _, opt := range opts {
		opt(&o)
	}
	return newTileSet(tex, o)
}

func newTileSet(tex pix.Texture, o tileSetOptions) *TileSet {
	cfg := atlas.Config{
		CellWidth:  o.tileW,
		CellHeight: o.tileH,
		Gap:        o.gap,
	}
	if tex != nil {
		cfg.Width, cfg.Height = tex.Width(), tex.Height()
	}
	return &TileSet{
		tex:   tex,
		atlas:   atlas.New(cfg),
		tileW:   o.tileW,
		tileH:   o.tileH,
		pending: make(map[rune]struct{}),
	}
}

// Texture returns the atlas texture.
func (ts *TileSet) Texture() pix.Texture { return ts.tex }

// Atlas returns the cell allocator.
func (ts *TileSet) Atlas() *atlas.Atlas { return ts.atlas }

// TileSize returns the cell size in pixels.
func (ts *TileSet) TileSize() (w, h int) { return ts.tileW, ts.tileH }

// PixelSize returns the glyph size the set renders at, 0 for blank sets.
func (ts *TileSet) PixelSize() int { return ts.size }

// Offset returns the cell of r, allocating it and rendering the glyph on
// first use. When rendering fails the cell stays allocated and the next
// Offset of r renders it again.
func (ts *TileSet) Offset(r rune) (atlas.Coord, error) {
	id := uint32(r)
	c, ok := ts.atlas.Lookup(id)
	if ok {
		if _, retry := ts.pending[r]; !retry {
			return c, nil
		}
	} else {
		var err error
		if c, err = ts.atlas.Allocate(id); err != nil {
			return 0, fmt.Errorf("text: tile for %q: %w", r, err)
		}
	}
	if ts.raster != nil {
		if err := ts.render(r, c); err != nil {
			ts.pending[r] = struct{}{}
			return 0, err
		}
	}
	delete(ts.pending, r)
	return c, nil
}

// CharFromCoord returns the rune stored in cell c.
func (ts *TileSet) CharFromCoord(c atlas.Coord) (rune, bool) {
	id, ok := ts.atlas.ReverseLookup(c)
	return rune(id), ok
}

// UV returns the texture rectangle of r, allocating it on first use.
func (ts *TileSet) UV(r rune) (atlas.UVRect, error) {
	c, err := ts.Offset(r)
	if err != nil {
		return atlas.UVRect{}, err
	}
	return ts.atlas.RectOf(c), nil
}

// render draws r centered in its cell and uploads the cell.
func (ts *TileSet) render(r rune, c atlas.Coord) error {
	g, err := ts.raster.Rasterize(r, ts.size)
	if err != nil {
		return fmt.Errorf("text: rasterize %q: %w", r, err)
	}
	cell := image.NewNRGBA(image.Rect(0, 0, ts.tileW, ts.tileH))
	if g.Mask != nil {
		ox := (ts.tileW-ts.fontW)/2 + g.Bearing.X
		oy := (ts.tileH-ts.fontH)/2 + g.Ascent + g.Bearing.Y
		for y := 0; y < g.Height; y++ {
			for x := 0; x < g.Width; x++ {
				p := image.Pt(ox+x, oy+y)
				if !p.In(cell.Rect) {
					continue
				}
				a := g.Mask.AlphaAt(x, y).A
				if a == 0 {
					continue
				}
				i := cell.PixOffset(p.X, p.Y)
				cell.Pix[i], cell.Pix[i+1], cell.Pix[i+2], cell.Pix[i+3] = 0xFF, 0xFF, 0xFF, a
			}
		}
	}
	px, py := ts.atlas.Pixel(c)
	up := ts.tex.(gpucontext.TextureRegionUpdater)
	if err := up.UpdateRegion(px, py, ts.tileW, ts.tileH, cell.Pix); err != nil {
		return fmt.Errorf("text: upload %q: %w", r, err)
	}
	pix.Logger().Debug("text: glyph upload",
		slog.String("rune", string(r)),
		slog.Int("x", px),
		slog.Int("y", py))
	return nil
}

// RenderText draws s left to right starting at pos, one cell of size per
// rune. The text is NFC normalized first so that combining sequences map
// to precomposed glyphs. A zero size uses the tile size.
func (ts *TileSet) RenderText(s *pix.Surface, text string, pos, size geom.Vec2) error {
	return ts.RenderTiles(s, []rune(norm.NFC.String(text)), pos, size)
}

// RenderTiles draws tiles left to right starting at pos.
func (ts *TileSet) RenderTiles(s *pix.Surface, tiles []rune, pos, size geom.Vec2) error {
	if size == (geom.Vec2{}) {
		size = geom.V(float32(ts.tileW), float32(ts.tileH))
	}
	for _, r := range tiles {
		uv, err := ts.UV(r)
		if err != nil {
			return err
		}
		if err := s.DrawTile(ts.tex, uv, pos, size); err != nil {
			return err
		}
		pos.X += size.X
	}
	return nil
}

// RenderTilesAt draws tiles[i] at points[i] in the tile size. Extra tiles
// or points are ignored.
func (ts *TileSet) RenderTilesAt(s *pix.Surface, tiles []rune, points []geom.Vec2) error {
	size := geom.V(float32(ts.tileW), float32(ts.tileH))
	for i := 0; i < len(tiles) && i < len(points); i++ {
		uv, err := ts.UV(tiles[i])
		if err != nil {
			return err
		}
		if err := s.DrawTile(ts.tex, uv, points[i], size); err != nil {
			return err
		}
	}
	return nil
}
