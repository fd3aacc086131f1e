package recording

import (
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
)

// CommandType identifies the Device method a command records.
type CommandType uint8

const (
	CmdSetTarget CommandType = iota
	CmdSetPipeline
	CmdBindTexture
	CmdSubmit
	CmdSubmitIndexed
	CmdClear
	CmdReadPixels
	CmdNewTexture
)

var commandTypeNames = [...]string{
	CmdSetTarget:     "SetTarget",
	CmdSetPipeline:   "SetPipeline",
	CmdBindTexture:   "BindTexture",
	CmdSubmit:        "Submit",
	CmdSubmitIndexed: "SubmitIndexed",
	CmdClear:         "Clear",
	CmdReadPixels:    "ReadPixels",
	CmdNewTexture:    "NewTexture",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is one recorded device call. Only the fields relevant to Type
// are set.
type Command struct {
	Type CommandType

	// SetTarget, Clear and ReadPixels.
	Target   pix.Target
	Viewport geom.Rect
	Clip     geom.Rect
	// Rect is the ReadPixels rectangle.
	Rect geom.Rect

	// SetPipeline.
	State pix.PipelineState

	// BindTexture and NewTexture.
	Texture pix.Texture

	// Submit and SubmitIndexed.
	Primitive   pix.Primitive
	Layout      pix.VertexLayout
	Vertices    []float32
	Indices     []uint32
	IndexFormat gputypes.IndexFormat

	// Clear.
	Color pix.RGBA

	// Err is the error the wrapped device returned.
	Err error
}

// VertexCount returns the number of vertices of a submission.
func (c Command) VertexCount() int {
	return c.Layout.VertexCount(len(c.Vertices))
}

// String formats the command as one log line.
func (c Command) String() string {
	var b strings.Builder
	b.WriteString(c.Type.String())
	switch c.Type {
	case CmdSetTarget:
		fmt.Fprintf(&b, " %s viewport=%s clip=%s", targetName(c.Target), rectString(c.Viewport), rectString(c.Clip))
	case CmdSetPipeline:
		fmt.Fprintf(&b, " color=%08x blend=%s/%s cull=%s point=%g line=%g",
			c.State.Color.Packed(),
			c.State.Blend.Color.SrcFactor, c.State.Blend.Color.DstFactor,
			c.State.Cull, c.State.PointSize, c.State.LineWidth)
	case CmdBindTexture, CmdNewTexture:
		if c.Texture != nil {
			fmt.Fprintf(&b, " %dx%d", c.Texture.Width(), c.Texture.Height())
		}
	case CmdSubmit:
		fmt.Fprintf(&b, " %s %s vertices=%d", c.Primitive, c.Layout, c.VertexCount())
	case CmdSubmitIndexed:
		fmt.Fprintf(&b, " %s %s vertices=%d indices=%d format=%s",
			c.Primitive, c.Layout, c.VertexCount(), len(c.Indices), c.IndexFormat)
	case CmdClear:
		fmt.Fprintf(&b, " %s color=%08x", targetName(c.Target), c.Color.Packed())
	case CmdReadPixels:
		fmt.Fprintf(&b, " %s rect=%s", targetName(c.Target), rectString(c.Rect))
	}
	if c.Err != nil {
		fmt.Fprintf(&b, " err=%q", c.Err)
	}
	return b.String()
}

func targetName(t pix.Target) string {
	kind := "screen"
	if t.Texture != nil {
		kind = "texture"
	}
	return fmt.Sprintf("%s(%dx%d@%g)", kind, t.Width, t.Height, t.PixelRatio)
}

func rectString(r geom.Rect) string {
	return fmt.Sprintf("%d,%d+%dx%d", r.X, r.Y, r.W, r.H)
}
