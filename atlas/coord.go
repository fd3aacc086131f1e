package atlas

import "fmt"

// GridSize is the number of conceptual cells along each atlas axis. Packed
// coordinates address a GridSize×GridSize grid regardless of texture size.
const GridSize = 256

// Coord is a packed cell coordinate: column in the low byte, row in the
// next byte.
type Coord uint32

// Pack returns the coordinate of cell (col, row).
func Pack(col, row int) Coord {
	return Coord(col&0xff | (row&0xff)<<8)
}

// Col returns the cell column.
func (c Coord) Col() int { return int(c & 0xff) }

// Row returns the cell row.
func (c Coord) Row() int { return int(c>>8) & 0xff }

func (c Coord) String() string {
	return fmt.Sprintf("Coord(%d,%d)", c.Col(), c.Row())
}

// UVRect is a rectangle in normalized texture coordinates.
type UVRect struct {
	U0, V0, U1, V1 float32
}

// Quad returns the rectangle as four UV pairs in quad corner order:
// top-left, top-right, bottom-right, bottom-left.
func (r UVRect) Quad() [8]float32 {
	return [8]float32{r.U0, r.V0, r.U1, r.V0, r.U1, r.V1, r.U0, r.V1}
}
