package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/atlas"
	"github.com/gogpu/pix/geom"
)

// Cell is one position of a Grid.
type Cell struct {
	Tile   atlas.Coord
	Fg, Bg pix.RGBA
}

// Grid is a console-style grid of tiles with per-cell colors.
type Grid struct {
	ts         *TileSet
	cols, rows int
	cells      []Cell
}

// NewGrid returns a cols×rows grid of spaces, white on transparent.
func NewGrid(ts *TileSet, cols, rows int) (*Grid, error) {
	g := &Grid{
		ts:    ts,
		cols:  max(cols, 0),
		rows:  max(rows, 0),
		cells: make([]Cell, max(cols, 0)*max(rows, 0)),
	}
	if err := g.Fill(pix.White, pix.Transparent); err != nil {
		return nil, err
	}
	return g, nil
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (cols, rows int) { return g.cols, g.rows }

// PixelSize returns the size of the rendered grid at tile size.
func (g *Grid) PixelSize() (w, h int) {
	tw, th := g.ts.TileSize()
	return g.cols * tw, g.rows * th
}

func (g *Grid) cell(x, y int) *Cell {
	if x < 0 || y < 0 || x >= g.cols || y >= g.rows {
		return nil
	}
	return &g.cells[x+g.cols*y]
}

// Put stores r with colors at (x, y). Positions outside the grid are
// ignored.
func (g *Grid) Put(x, y int, r rune, fg, bg pix.RGBA) error {
	c := g.cell(x, y)
	if c == nil {
		return nil
	}
	tile, err := g.ts.Offset(r)
	if err != nil {
		return err
	}
	*c = Cell{Tile: tile, Fg: fg, Bg: bg}
	return nil
}

// PutChar replaces the rune at (x, y) and keeps the cell colors.
func (g *Grid) PutChar(x, y int, r rune) error {
	c := g.cell(x, y)
	if c == nil {
		return nil
	}
	tile, err := g.ts.Offset(r)
	if err != nil {
		return err
	}
	c.Tile = tile
	return nil
}

// PutColor changes the colors at (x, y) and keeps the rune.
func (g *Grid) PutColor(x, y int, fg, bg pix.RGBA) {
	if c := g.cell(x, y); c != nil {
		c.Fg, c.Bg = fg, bg
	}
}

// Char returns the rune at (x, y), or 0 outside the grid.
func (g *Grid) Char(x, y int) rune {
	c := g.cell(x, y)
	if c == nil {
		return 0
	}
	r, _ := g.ts.CharFromCoord(c.Tile)
	return r
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) (Cell, bool) {
	c := g.cell(x, y)
	if c == nil {
		return Cell{}, false
	}
	return *c, true
}

// Print writes text starting at (x, y), wrapping at the right edge and
// starting a new row at '\n'. It stops at the bottom and returns the
// position after the last rune. A start outside the grid writes nothing.
func (g *Grid) Print(x, y int, text string, fg, bg pix.RGBA) (int, int, error) {
	if g.cell(x, y) == nil {
		return x, y, nil
	}
	for _, r := range norm.NFC.String(text) {
		if r == '\n' {
			x = 0
			y++
			if y >= g.rows {
				break
			}
			continue
		}
		if err := g.Put(x, y, r, fg, bg); err != nil {
			return x, y, err
		}
		x++
		if x >= g.cols {
			x = 0
			y++
		}
		if y >= g.rows {
			break
		}
	}
	return x, y, nil
}

// Fill sets every cell to a space with the given colors.
func (g *Grid) Fill(fg, bg pix.RGBA) error {
	space, err := g.ts.Offset(' ')
	if err != nil {
		return err
	}
	for i := range g.cells {
		g.cells[i] = Cell{Tile: space, Fg: fg, Bg: bg}
	}
	return nil
}

// Scroll moves the contents by dx columns and dy rows. Cells moved off
// the grid are dropped; vacated cells keep their previous contents.
func (g *Grid) Scroll(dx, dy int) {
	prev := append([]Cell(nil), g.cells...)
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			if dst := g.cell(x+dx, y+dy); dst != nil {
				*dst = prev[x+g.cols*y]
			}
		}
	}
}

// String returns the grid text, rows separated by newlines with trailing
// spaces removed.
func (g *Grid) String() string {
	var b strings.Builder
	for y := 0; y < g.rows; y++ {
		var row strings.Builder
		for x := 0; x < g.cols; x++ {
			r := g.Char(x, y)
			if r == 0 {
				r = ' '
			}
			row.WriteRune(r)
		}
		b.WriteString(strings.TrimRight(row.String(), " "))
		if y < g.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Render draws the grid with its top-left corner at pos. Backgrounds with
// non-zero alpha are filled; glyphs are tinted with the foreground. The
// surface color is restored afterwards.
func (g *Grid) Render(s *pix.Surface, pos geom.Vec2) error {
	tw, th := g.ts.TileSize()
	size := geom.V(float32(tw), float32(th))
	saved := s.Color()
	defer s.SetColor(saved)

	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			c := g.cells[x+g.cols*y]
			p := pos.Add(geom.V(float32(x), float32(y)).MulV(size))
			if c.Bg.A > 0 {
				s.SetColor(c.Bg)
				if err := s.FilledRect(p, size); err != nil {
					return err
				}
			}
			s.SetColor(c.Fg)
			if err := s.DrawTile(g.ts.Texture(), g.ts.Atlas().RectOf(c.Tile), p, size); err != nil {
				return err
			}
		}
	}
	return nil
}
