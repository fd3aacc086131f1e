package pix

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// BlendMode selects the blend factor pair used for drawing.
type BlendMode uint8

// Blend modes.
const (
	// BlendNormal is source-over alpha blending.
	BlendNormal BlendMode = iota
	// BlendAdd adds the alpha-weighted source to the destination.
	BlendAdd
	// BlendMultiply multiplies source and destination.
	BlendMultiply
	// BlendCopy replaces the destination.
	BlendCopy
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendAdd:
		return "Add"
	case BlendMultiply:
		return "Multiply"
	case BlendCopy:
		return "Copy"
	}
	return fmt.Sprintf("BlendMode(%d)", m)
}

// Factors returns the source and destination blend factors.
func (m BlendMode) Factors() (src, dst gputypes.BlendFactor) {
	switch m {
	case BlendAdd:
		return gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOne
	case BlendMultiply:
		return gputypes.BlendFactorDst, gputypes.BlendFactorZero
	case BlendCopy:
		return gputypes.BlendFactorOne, gputypes.BlendFactorZero
	}
	return gputypes.BlendFactorSrcAlpha, gputypes.BlendFactorOneMinusSrcAlpha
}

// State returns the blend state applying the mode's factor pair to color
// and alpha alike.
func (m BlendMode) State() gputypes.BlendState {
	src, dst := m.Factors()
	c := gputypes.BlendComponent{
		SrcFactor: src,
		DstFactor: dst,
		Operation: gputypes.BlendOperationAdd,
	}
	return gputypes.BlendState{Color: c, Alpha: c}
}
