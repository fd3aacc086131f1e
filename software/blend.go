package software

import (
	"github.com/gogpu/gputypes"
)

// color4 is a straight-alpha color with float components in [0, 1].
type color4 [4]float32

func factor(f gputypes.BlendFactor, src, dst color4, ch int) float32 {
	switch f {
	case gputypes.BlendFactorZero:
		return 0
	case gputypes.BlendFactorOne:
		return 1
	case gputypes.BlendFactorSrc:
		return src[ch]
	case gputypes.BlendFactorOneMinusSrc:
		return 1 - src[ch]
	case gputypes.BlendFactorSrcAlpha:
		return src[3]
	case gputypes.BlendFactorOneMinusSrcAlpha:
		return 1 - src[3]
	case gputypes.BlendFactorDst:
		return dst[ch]
	case gputypes.BlendFactorOneMinusDst:
		return 1 - dst[ch]
	case gputypes.BlendFactorDstAlpha:
		return dst[3]
	case gputypes.BlendFactorOneMinusDstAlpha:
		return 1 - dst[3]
	case gputypes.BlendFactorSrcAlphaSaturated:
		if ch == 3 {
			return 1
		}
		return min(src[3], 1-dst[3])
	}
	return 1
}

func operate(op gputypes.BlendOperation, s, d float32) float32 {
	switch op {
	case gputypes.BlendOperationSubtract:
		return s - d
	case gputypes.BlendOperationReverseSubtract:
		return d - s
	case gputypes.BlendOperationMin:
		return min(s, d)
	case gputypes.BlendOperationMax:
		return max(s, d)
	}
	return s + d
}

// blend combines src over dst with the blend state and then mixes the
// result with dst by coverage.
func blend(state gputypes.BlendState, src, dst color4, coverage float32) color4 {
	var out color4
	for ch := 0; ch < 4; ch++ {
		c := state.Color
		if ch == 3 {
			c = state.Alpha
		}
		v := operate(c.Operation,
			src[ch]*factor(c.SrcFactor, src, dst, ch),
			dst[ch]*factor(c.DstFactor, src, dst, ch))
		v = dst[ch] + (v-dst[ch])*coverage
		out[ch] = min(max(v, 0), 1)
	}
	return out
}
