package pix

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix/geom"
)

// Texture is a GPU texture as seen by the drawing core.
type Texture = gpucontext.Texture

// Primitive selects how a vertex stream is assembled.
type Primitive uint8

// Primitive kinds.
const (
	Points Primitive = iota
	Lines
	LineStrip
	LineLoop
	Triangles
	TriangleStrip
	TriangleFan
)

var primitiveNames = [...]string{
	Points:        "Points",
	Lines:         "Lines",
	LineStrip:     "LineStrip",
	LineLoop:      "LineLoop",
	Triangles:     "Triangles",
	TriangleStrip: "TriangleStrip",
	TriangleFan:   "TriangleFan",
}

func (p Primitive) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return fmt.Sprintf("Primitive(%d)", p)
}

// Topology returns the matching WebGPU topology. Fans and loops have
// none and report false; devices expand them.
func (p Primitive) Topology() (gputypes.PrimitiveTopology, bool) {
	switch p {
	case Points:
		return gputypes.PrimitiveTopologyPointList, true
	case Lines:
		return gputypes.PrimitiveTopologyLineList, true
	case LineStrip:
		return gputypes.PrimitiveTopologyLineStrip, true
	case Triangles:
		return gputypes.PrimitiveTopologyTriangleList, true
	case TriangleStrip:
		return gputypes.PrimitiveTopologyTriangleStrip, true
	}
	return 0, false
}

// VertexLayout describes the float stream handed to Submit.
type VertexLayout uint8

const (
	// Position2 is a list of x, y pairs.
	Position2 VertexLayout = iota
	// Position2UV2 is all x, y pairs followed by all u, v pairs.
	Position2UV2
	// Position2Color4 interleaves x, y, r, g, b, a per vertex.
	Position2Color4
)

func (l VertexLayout) String() string {
	switch l {
	case Position2:
		return "Position2"
	case Position2UV2:
		return "Position2UV2"
	case Position2Color4:
		return "Position2Color4"
	}
	return fmt.Sprintf("VertexLayout(%d)", l)
}

// VertexCount returns the number of vertices in a stream of n floats.
func (l VertexLayout) VertexCount(n int) int {
	switch l {
	case Position2UV2:
		return n / 4
	case Position2Color4:
		return n / 6
	}
	return n / 2
}

// PipelineState is the fixed-function state applied to following
// submissions.
type PipelineState struct {
	// Color is the draw color; it tints textured draws.
	Color     RGBA
	Blend     gputypes.BlendState
	Cull      gputypes.CullMode
	FrontFace gputypes.FrontFace
	PointSize float32
	LineWidth float32
}

// Target identifies where a Surface draws: the window surface when Texture
// is nil, otherwise a render texture.
type Target struct {
	Texture Texture
	// Width and Height are the logical target size.
	Width, Height int
	// PixelRatio maps logical to physical pixels.
	PixelRatio float32
}

// PhysicalSize returns the target size in device pixels.
func (t Target) PhysicalSize() (w, h int) {
	r := t.ratio()
	return int(float32(t.Width) * r), int(float32(t.Height) * r)
}

func (t Target) ratio() float32 {
	if t.PixelRatio <= 0 {
		return 1
	}
	return t.PixelRatio
}

// Device is the GPU surface the drawing core renders through.
//
// Rectangles are in physical pixels with a top-left origin, except the
// ReadPixels rectangle which uses logical target pixels. ReadPixels fills
// dst with one uint32 per pixel whose little-endian byte order is R, G, B, A.
type Device interface {
	gpucontext.TextureCreator

	// SetTarget binds the render target, the viewport and the scissor
	// rectangle for following submissions. An empty clip disables the
	// scissor.
	SetTarget(t Target, viewport, clip geom.Rect)
	SetPipeline(state PipelineState)
	// BindTexture selects the texture sampled by Position2UV2 draws.
	BindTexture(tex Texture)

	Submit(vertices []float32, p Primitive, layout VertexLayout) error
	SubmitIndexed(vertices []float32, indices []uint32, f gputypes.IndexFormat, p Primitive, layout VertexLayout) error

	Clear(t Target, c RGBA) error
	ReadPixels(t Target, r geom.Rect, dst []uint32) error
}
