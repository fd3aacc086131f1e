// Package pix is a 2D immediate-mode rendering core.
//
// # Overview
//
// Drawing calls on a [Surface] (circles, lines, polygons, sprites, glyph
// tiles) are mapped into normalized device coordinates, tessellated into
// GPU primitives and submitted synchronously to a [Device]. Plotted points
// and single-pixel writes are batched and reach the device on [Surface.Flush].
//
// # Quick Start
//
//	dev := software.New(640, 480)
//	s, err := pix.NewScreen(dev, gpucontext.NullWindowProvider{W: 640, H: 480})
//	if err != nil {
//	    return err
//	}
//	s.SetColor(pix.Hex("#ff8800"))
//	s.FilledCircle(geom.V(320, 240), 100)
//	s.Flush()
//	software.SavePNG(dev.Screen(), "out.png")
//
// # Surfaces
//
// Screens ([NewScreen]), images ([NewImage]) and sub-views ([Surface.Crop],
// [Surface.Split]) are all the same Surface type. They differ only in the
// [Target] they render to and the view rectangle inside it.
//
// # Coordinate System
//
//   - Origin (0,0) at the top-left of the view
//   - X increases right, Y increases down
//   - Units are logical pixels multiplied by the surface scale
//   - Polygons with positive signed area in these coordinates face the viewer
//
// # Packages
//
//   - geom: vectors, view rectangles and the NDC mapping
//   - atlas: the tile atlas allocator
//   - text: tile sets of rasterized glyphs and text grids
//   - software: a CPU Device for headless rendering and tests
//   - recording: a Device wrapper logging every call
package pix
