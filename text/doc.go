// Package text renders text and tile maps through an atlas of fixed-size
// glyph cells.
//
// A [TileSet] owns an [atlas.Atlas] laid over a texture. Glyphs are
// rasterized on first use by a [Rasterizer], centered in their cell and
// uploaded into the texture; after that a rune costs one textured quad.
// Tile sets without a rasterizer hand out cells for arbitrary tile ids,
// for example sprite sheets filled by the application.
//
// Two rasterizers are provided:
//
//   - [NewOpenTypeRasterizer] draws glyphs with golang.org/x/image/font/opentype
//   - [NewOutlineRasterizer] fills go-text/typesetting outlines with
//     golang.org/x/image/vector
//
// A [Grid] keeps a console-style character grid on top of a tile set.
package text
