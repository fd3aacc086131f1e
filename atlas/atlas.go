// Package atlas packs fixed-size tiles into one texture addressed by a
// packed 256×256 cell grid.
//
// Tiles are placed left to right along rows and never move or get evicted;
// an [Atlas] that runs out of room fails the request with [ErrAtlasFull]
// and keeps serving the tiles it already holds. Ids up to 0xFFFF are
// resolved through a direct table, larger ids through a map.
package atlas

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrAtlasFull is returned when no room is left for a new tile.
var ErrAtlasFull = errors.New("atlas: no room left in atlas")

// Default texture dimensions.
const (
	DefaultWidth  = 1024
	DefaultHeight = 1024
)

// directSize is the number of ids served by the direct lookup table.
const directSize = 0x10000

// unassigned marks an empty entry of the direct table.
const unassigned = 0xFFFFFFFF

// Config describes the atlas texture and its cells.
type Config struct {
	// Width and Height are the texture size in pixels.
	Width, Height int
	// CellWidth and CellHeight are the tile size in pixels.
	CellWidth, CellHeight int
	// Gap is the number of pixels kept free between tiles.
	Gap int
}

// DefaultConfig returns a 1024×1024 atlas with 16×16 cells.
func DefaultConfig() Config {
	return Config{
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		CellWidth:  16,
		CellHeight: 16,
	}
}

// Atlas assigns cells to tile ids.
type Atlas struct {
	cfg Config

	// pitchX, pitchY are the pixel sizes of one grid step.
	pitchX, pitchY int
	// usableW, usableH bound the area the grid can address.
	usableW, usableH int
	// advX, advY are the cursor advances per tile and per row, multiples
	// of the grid step so every tile starts on a cell boundary.
	advX, advY int
	x, y       int

	direct  []uint32
	sparse  map[uint32]Coord
	reverse map[Coord]uint32
	count   int
}

// New creates an empty atlas. Zero texture dimensions fall back to the
// defaults; cell sizes below one pixel are treated as one. When a texture
// dimension is not a multiple of 256 the remainder past the last grid
// step is left unused.
func New(cfg Config) *Atlas {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	cfg.CellWidth = max(cfg.CellWidth, 1)
	cfg.CellHeight = max(cfg.CellHeight, 1)
	cfg.Gap = max(cfg.Gap, 0)

	a := &Atlas{
		cfg:     cfg,
		pitchX:  max(cfg.Width/GridSize, 1),
		pitchY:  max(cfg.Height/GridSize, 1),
		direct:  make([]uint32, directSize),
		sparse:  make(map[uint32]Coord),
		reverse: make(map[Coord]uint32),
	}
	a.usableW = min(cfg.Width, a.pitchX*GridSize)
	a.usableH = min(cfg.Height, a.pitchY*GridSize)
	a.advX = align(align(cfg.CellWidth+cfg.Gap, 4), a.pitchX)
	a.advY = align(align(cfg.CellHeight+cfg.Gap, 4), a.pitchY)
	for i := range a.direct {
		a.direct[i] = unassigned
	}
	return a
}

// align rounds v up to a multiple of a.
func align(v, a int) int {
	return (v + a - 1) / a * a
}

// Config returns the effective configuration.
func (a *Atlas) Config() Config { return a.cfg }

// Len returns the number of allocated tiles.
func (a *Atlas) Len() int { return a.count }

// Cursor returns the pixel position the next tile will be placed at.
func (a *Atlas) Cursor() (x, y int) { return a.x, a.y }

// Allocate returns the cell holding id, assigning the next free cell on
// first use. It fails with ErrAtlasFull once the cursor has passed the
// bottom margin; existing tiles stay valid.
func (a *Atlas) Allocate(id uint32) (Coord, error) {
	if c, ok := a.Lookup(id); ok {
		return c, nil
	}
	if a.y >= a.usableH-a.cfg.CellHeight-a.cfg.Gap {
		slogger().Warn("atlas full",
			slog.Uint64("id", uint64(id)),
			slog.Int("tiles", a.count),
			slog.Int("width", a.cfg.Width),
			slog.Int("height", a.cfg.Height))
		return 0, fmt.Errorf("atlas: allocate %#x: %w", id, ErrAtlasFull)
	}

	c := Pack(a.x/a.pitchX, a.y/a.pitchY)
	if id < directSize {
		a.direct[id] = uint32(c)
	} else {
		a.sparse[id] = c
	}
	a.reverse[c] = id
	a.count++

	a.x += a.advX
	if a.x >= a.usableW-a.cfg.CellWidth-2*a.cfg.Gap {
		a.x = 0
		a.y += a.advY
		slogger().Debug("atlas row wrap", slog.Int("y", a.y), slog.Int("tiles", a.count))
	}
	return c, nil
}

// Lookup returns the cell of an already allocated id.
func (a *Atlas) Lookup(id uint32) (Coord, bool) {
	if id < directSize {
		v := a.direct[id]
		return Coord(v), v != unassigned
	}
	c, ok := a.sparse[id]
	return c, ok
}

// ReverseLookup returns the id stored in cell c.
func (a *Atlas) ReverseLookup(c Coord) (uint32, bool) {
	id, ok := a.reverse[c]
	return id, ok
}

// Pixel returns the top-left texture pixel of cell c.
func (a *Atlas) Pixel(c Coord) (x, y int) {
	return c.Col() * a.pitchX, c.Row() * a.pitchY
}

// RectOf returns the texture-space rectangle covered by the tile in cell c.
func (a *Atlas) RectOf(c Coord) UVRect {
	x, y := a.Pixel(c)
	w, h := float32(a.cfg.Width), float32(a.cfg.Height)
	u0, v0 := float32(x)/w, float32(y)/h
	return UVRect{
		U0: u0,
		V0: v0,
		U1: u0 + float32(a.cfg.CellWidth)/w,
		V1: v0 + float32(a.cfg.CellHeight)/h,
	}
}

// UV returns the texture rectangle of id, if allocated.
func (a *Atlas) UV(id uint32) (UVRect, bool) {
	c, ok := a.Lookup(id)
	if !ok {
		return UVRect{}, false
	}
	return a.RectOf(c), true
}

// CoordAt returns the cell containing texture pixel (x, y).
func (a *Atlas) CoordAt(x, y int) Coord {
	return Pack(x/a.pitchX, y/a.pitchY)
}
