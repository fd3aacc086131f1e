package text

import (
	"errors"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/atlas"
	"github.com/gogpu/pix/geom"
	"github.com/gogpu/pix/software"
)

var rasterizers = []struct {
	name string
	open func([]byte) (Rasterizer, error)
}{
	{"opentype", func(b []byte) (Rasterizer, error) { return NewOpenTypeRasterizer(b) }},
	{"outline", func(b []byte) (Rasterizer, error) { return NewOutlineRasterizer(b) }},
}

func TestRasterizers(t *testing.T) {
	for _, rr := range rasterizers {
		t.Run(rr.name, func(t *testing.T) {
			r, err := rr.open(goregular.TTF)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			w, h := r.CellSize(16)
			if w < 8 || w > 16 || h < 14 || h > 24 {
				t.Errorf("CellSize(16): got %dx%d", w, h)
			}

			g, err := r.Rasterize('A', 16)
			if err != nil {
				t.Fatalf("Rasterize('A'): %v", err)
			}
			if g.Mask == nil || g.Width == 0 || g.Height == 0 {
				t.Fatalf("Rasterize('A'): got empty glyph %+v", g)
			}
			if g.Bearing.Y >= 0 {
				t.Errorf("'A' bearing: got %v, want the top above the baseline", g.Bearing)
			}
			if g.Advance <= 0 || g.Ascent <= 0 {
				t.Errorf("'A' metrics: got advance %d, ascent %d", g.Advance, g.Ascent)
			}
			if !hasInk(g) {
				t.Error("'A' mask has no coverage")
			}

			sp, err := r.Rasterize(' ', 16)
			if err != nil {
				t.Fatalf("Rasterize(' '): %v", err)
			}
			if sp.Mask != nil {
				t.Errorf("space: got a %dx%d mask, want none", sp.Width, sp.Height)
			}
			if sp.Advance <= 0 {
				t.Errorf("space advance: got %d, want > 0", sp.Advance)
			}

			missing, err := r.Rasterize('\U0001F600', 16)
			if err != nil {
				t.Fatalf("Rasterize(missing): %v", err)
			}
			if missing.Mask != nil {
				t.Error("missing rune: got a mask, want a blank glyph")
			}
		})
	}
}

func TestRasterizers_RejectGarbage(t *testing.T) {
	for _, rr := range rasterizers {
		if _, err := rr.open([]byte("not a font")); err == nil {
			t.Errorf("%s: got nil error for garbage input", rr.name)
		}
	}
}

func hasInk(g Glyph) bool {
	for _, a := range g.Mask.Pix {
		if a != 0 {
			return true
		}
	}
	return false
}

func cellHasInk(tex *software.Texture, ts *TileSet, c atlas.Coord) bool {
	px, py := ts.Atlas().Pixel(c)
	w, h := ts.TileSize()
	img := tex.Image()
	for y := py; y < py+h; y++ {
		for x := px; x < px+w; x++ {
			if img.NRGBAAt(x, y).A != 0 {
				return true
			}
		}
	}
	return false
}

func newGlyphSet(t *testing.T, size int) (*TileSet, *software.Texture) {
	t.Helper()
	r, err := NewOpenTypeRasterizer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewOpenTypeRasterizer: %v", err)
	}
	tex := software.NewTexture(256, 256)
	ts, err := NewTileSet(tex, r, size)
	if err != nil {
		t.Fatalf("NewTileSet: %v", err)
	}
	return ts, tex
}

func TestTileSet_Preload(t *testing.T) {
	ts, tex := newGlyphSet(t, 16)
	if got := ts.Atlas().Len(); got != preloadLast-preloadFirst+1 {
		t.Errorf("preloaded tiles: got %d, want %d", got, preloadLast-preloadFirst+1)
	}
	a, err := ts.Offset('A')
	if err != nil {
		t.Fatalf("Offset('A'): %v", err)
	}
	again, _ := ts.Offset('A')
	if again != a {
		t.Errorf("Offset('A') changed: got %v, want %v", again, a)
	}
	if r, ok := ts.CharFromCoord(a); !ok || r != 'A' {
		t.Errorf("CharFromCoord(%v): got %q, %v, want 'A'", a, r, ok)
	}
	if !cellHasInk(tex, ts, a) {
		t.Error("cell of 'A' is blank")
	}
	space, _ := ts.Offset(' ')
	if cellHasInk(tex, ts, space) {
		t.Error("cell of ' ' has ink")
	}

	e, err := ts.Offset('é')
	if err != nil {
		t.Fatalf("Offset('é'): %v", err)
	}
	if ts.Atlas().Len() != 97 {
		t.Errorf("tiles after 'é': got %d, want 97", ts.Atlas().Len())
	}
	if !cellHasInk(tex, ts, e) {
		t.Error("cell of 'é' is blank")
	}
}

func TestTileSet_UV(t *testing.T) {
	ts, _ := newGlyphSet(t, 16)
	c, _ := ts.Offset('A')
	uv, err := ts.UV('A')
	if err != nil {
		t.Fatalf("UV: %v", err)
	}
	if uv != ts.Atlas().RectOf(c) {
		t.Errorf("UV('A'): got %+v, want %+v", uv, ts.Atlas().RectOf(c))
	}
}

// readOnlyTexture has a size but accepts no uploads.
type readOnlyTexture struct{}

func (readOnlyTexture) Width() int  { return 256 }
func (readOnlyTexture) Height() int { return 256 }

var _ gpucontext.Texture = readOnlyTexture{}

func TestNewTileSet_Errors(t *testing.T) {
	r, err := NewOpenTypeRasterizer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewOpenTypeRasterizer: %v", err)
	}
	if _, err := NewTileSet(software.NewTexture(256, 256), nil, 16); !errors.Is(err, ErrNoRasterizer) {
		t.Errorf("nil rasterizer: got %v, want ErrNoRasterizer", err)
	}
	if _, err := NewTileSet(readOnlyTexture{}, r, 16); !errors.Is(err, ErrReadOnlyTexture) {
		t.Errorf("read-only texture: got %v, want ErrReadOnlyTexture", err)
	}
	if _, err := NewTileSet(software.NewTexture(64, 64), r, 16); !errors.Is(err, atlas.ErrAtlasFull) {
		t.Errorf("small texture: got %v, want ErrAtlasFull", err)
	}
}

func TestTileSetFromSize(t *testing.T) {
	ts := NewTileSetFromSize(nil, 8, 8)
	if ts.Atlas().Len() != 0 {
		t.Fatalf("blank set preloaded %d tiles", ts.Atlas().Len())
	}
	first, err := ts.Offset(5)
	if err != nil {
		t.Fatalf("Offset(5): %v", err)
	}
	second, _ := ts.Offset(7)
	if first != atlas.Pack(0, 0) || second != atlas.Pack(2, 0) {
		t.Errorf("coords: got %v, %v, want Coord(0,0), Coord(2,0)", first, second)
	}
	if r, ok := ts.CharFromCoord(second); !ok || r != 7 {
		t.Errorf("CharFromCoord: got %d, %v, want 7", r, ok)
	}
	if _, ok := ts.CharFromCoord(atlas.Pack(9, 9)); ok {
		t.Error("CharFromCoord of an unused cell: got ok")
	}
}

func newScreen(t *testing.T, w, h int) (*pix.Surface, *software.Device) {
	t.Helper()
	dev := software.New(w, h)
	s, err := pix.NewScreen(dev, gpucontext.NullWindowProvider{W: w, H: h})
	if err != nil {
		t.Fatalf("NewScreen: %v", err)
	}
	return s, dev
}

func TestRenderText(t *testing.T) {
	ts, _ := newGlyphSet(t, 16)
	s, dev := newScreen(t, 64, 32)

	// A decomposed é is normalized to one tile.
	if err := ts.RenderText(s, "e\u0301A", geom.V(0, 0), geom.Vec2{}); err != nil {
		t.Fatalf("RenderText: %v", err)
	}
	if dev.Submits() != 2 {
		t.Errorf("Submits: got %d, want 2", dev.Submits())
	}
	if _, ok := ts.Atlas().Lookup('é'); !ok {
		t.Error("precomposed 'é' was not allocated")
	}
	tw, th := ts.TileSize()
	ink := false
	img := dev.Screen().Image()
	for y := 0; y < th; y++ {
		for x := tw; x < 2*tw; x++ {
			if img.NRGBAAt(x, y).A != 0 {
				ink = true
			}
		}
	}
	if !ink {
		t.Error("second cell of rendered text is blank")
	}
}

func TestRenderTilesAt(t *testing.T) {
	ts, _ := newGlyphSet(t, 16)
	s, dev := newScreen(t, 64, 64)
	err := ts.RenderTilesAt(s, []rune("abc"), []geom.Vec2{geom.V(0, 0), geom.V(20, 20)})
	if err != nil {
		t.Fatalf("RenderTilesAt: %v", err)
	}
	if dev.Submits() != 2 {
		t.Errorf("Submits: got %d, want 2", dev.Submits())
	}
}

func TestGrid_Print(t *testing.T) {
	g, err := NewGrid(NewTileSetFromSize(nil, 8, 8), 5, 3)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	x, y, err := g.Print(0, 0, "hi\nthere", pix.White, pix.Transparent)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if x != 0 || y != 2 {
		t.Errorf("cursor: got (%d,%d), want (0,2)", x, y)
	}
	if got := g.String(); got != "hi\nthere\n" {
		t.Errorf("String: got %q, want %q", got, "hi\nthere\n")
	}
	if got := g.Char(1, 0); got != 'i' {
		t.Errorf("Char(1,0): got %q, want 'i'", got)
	}
	if got := g.Char(9, 9); got != 0 {
		t.Errorf("Char outside: got %q, want 0", got)
	}

	x, y, _ = g.Print(3, 2, "abcd", pix.Red, pix.Black)
	if x != 0 || y != 3 {
		t.Errorf("cursor after bottom: got (%d,%d), want (0,3)", x, y)
	}
	if got := g.Char(4, 2); got != 'b' {
		t.Errorf("Char(4,2): got %q, want 'b'", got)
	}
	if c, _ := g.At(3, 2); c.Fg != pix.Red || c.Bg != pix.Black {
		t.Errorf("cell colors: got %+v", c)
	}
}

func TestGrid_Scroll(t *testing.T) {
	g, err := NewGrid(NewTileSetFromSize(nil, 8, 8), 3, 3)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if _, _, err := g.Print(0, 0, "abc\ndef", pix.White, pix.Transparent); err != nil {
		t.Fatalf("Print: %v", err)
	}
	g.Scroll(0, 1)
	if got, want := g.String(), "abc\nabc\ndef"; got != want {
		t.Errorf("after Scroll(0, 1): got %q, want %q", got, want)
	}
	g.Scroll(-1, 0)
	if got, want := g.String(), "bcc\nbcc\neff"; got != want {
		t.Errorf("after Scroll(-1, 0): got %q, want %q", got, want)
	}
}

func TestGrid_PutAndFill(t *testing.T) {
	g, err := NewGrid(NewTileSetFromSize(nil, 8, 8), 2, 2)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := g.Put(1, 1, 'x', pix.Green, pix.Blue); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := g.PutChar(1, 1, 'y'); err != nil {
		t.Fatalf("PutChar: %v", err)
	}
	g.PutColor(0, 0, pix.Red, pix.Red)
	if c, _ := g.At(1, 1); c.Fg != pix.Green || g.Char(1, 1) != 'y' {
		t.Errorf("cell (1,1): got %+v rune %q", c, g.Char(1, 1))
	}
	if err := g.Put(5, 5, 'z', pix.White, pix.White); err != nil {
		t.Errorf("Put outside: got %v, want nil", err)
	}
	if err := g.Fill(pix.White, pix.Black); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if got := g.String(); got != "\n" {
		t.Errorf("String after Fill: got %q, want %q", got, "\n")
	}
	if w, h := g.PixelSize(); w != 16 || h != 16 {
		t.Errorf("PixelSize: got %dx%d, want 16x16", w, h)
	}
}

func TestGrid_Render(t *testing.T) {
	g, err := NewGrid(NewTileSetFromSize(nil, 8, 8), 2, 1)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if err := g.Put(0, 0, 'x', pix.White, pix.Red); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s, dev := newScreen(t, 16, 8)
	s.SetColor(pix.Blue)
	if err := g.Render(s, geom.V(0, 0)); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got := dev.Screen().Image().NRGBAAt(3, 3); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("background of cell 0: got %v, want red", got)
	}
	if got := dev.Screen().Image().NRGBAAt(11, 3); got.A != 0 {
		t.Errorf("background of cell 1: got %v, want transparent", got)
	}
	if s.Color() != pix.Blue {
		t.Errorf("surface color not restored: got %+v", s.Color())
	}
}

func TestOpenTypeRasterizer_FaceCache(t *testing.T) {
	r, err := NewOpenTypeRasterizer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewOpenTypeRasterizer: %v", err)
	}
	for size := 8; size < 8+2*maxFaces; size++ {
		if _, err := r.Rasterize('x', size); err != nil {
			t.Fatalf("Rasterize at %d: %v", size, err)
		}
	}
	if got := r.faces.Len(); got != maxFaces {
		t.Errorf("cached faces: got %d, want %d", got, maxFaces)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if got := r.faces.Len(); got != 0 {
		t.Errorf("cached faces after Close: got %d, want 0", got)
	}
}

// flakyRasterizer fails the first fails renders of one rune.
type flakyRasterizer struct {
	Rasterizer
	r     rune
	fails int
}

func (f *flakyRasterizer) Rasterize(r rune, size int) (Glyph, error) {
	if r == f.r && f.fails > 0 {
		f.fails--
		return Glyph{}, errors.New("rasterizer unavailable")
	}
	return f.Rasterizer.Rasterize(r, size)
}

func TestTileSet_RetryFailedRender(t *testing.T) {
	base, err := NewOpenTypeRasterizer(goregular.TTF)
	if err != nil {
		t.Fatalf("NewOpenTypeRasterizer: %v", err)
	}
	tex := software.NewTexture(256, 256)
	ts, err := NewTileSet(tex, &flakyRasterizer{Rasterizer: base, r: 'é', fails: 1}, 16)
	if err != nil {
		t.Fatalf("NewTileSet: %v", err)
	}
	if _, err := ts.Offset('é'); err == nil {
		t.Fatal("Offset('é'): got nil error from a failing rasterizer")
	}
	c, ok := ts.Atlas().Lookup('é')
	if !ok {
		t.Fatal("cell of 'é' was released after a failed render")
	}
	if cellHasInk(tex, ts, c) {
		t.Error("cell of 'é' has ink after a failed render")
	}

	got, err := ts.Offset('é')
	if err != nil {
		t.Fatalf("second Offset('é'): %v", err)
	}
	if got != c {
		t.Errorf("second Offset('é'): got %v, want %v", got, c)
	}
	if !cellHasInk(tex, ts, c) {
		t.Error("cell of 'é' is still blank after a successful render")
	}
	if ts.Atlas().Len() != 97 {
		t.Errorf("tiles: got %d, want 97", ts.Atlas().Len())
	}
}

func TestTileSet_LogsGlyphUpload(t *testing.T) {
	ts, _ := newGlyphSet(t, 16)
	orig := pix.Logger()
	t.Cleanup(func() { pix.SetLogger(orig) })
	var out strings.Builder
	pix.SetLogger(slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{Level: slog.LevelDebug})))

	if _, err := ts.Offset('é'); err != nil {
		t.Fatalf("Offset('é'): %v", err)
	}
	if _, err := ts.Offset('é'); err != nil {
		t.Fatalf("second Offset('é'): %v", err)
	}
	logged := out.String()
	if n := strings.Count(logged, "text: glyph upload"); n != 1 {
		t.Errorf("glyph uploads logged: got %d, want 1 in %q", n, logged)
	}
	if !strings.Contains(logged, "rune=é") {
		t.Errorf("upload record lacks the rune: %q", logged)
	}
}
