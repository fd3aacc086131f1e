// Package geom holds the 2D value types shared by the pix rendering core and
// the mapping from view-local pixel coordinates into normalized device
// coordinates (NDC).
//
// # Coordinate System
//
// Application coordinates are pixels with the origin at the top-left corner
// of a view, X increasing to the right and Y increasing downwards. NDC is the
// [-1,1]² space consumed by the GPU with Y increasing upwards, so every
// mapping through [ViewRect.ToScreen] flips the Y axis. Polygons that are
// clockwise on screen become counter-clockwise in NDC.
//
// All values are float32, matching the vertex buffers handed to the GPU.
package geom
