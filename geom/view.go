package geom

// ViewRect describes a view into a render target: the view's pixel offset
// and size inside the target, the full target size and the application
// scale applied before the offset.
//
// TargetSize must never be zero; ToScreen divides by it unchecked.
type ViewRect struct {
	Offset     Vec2
	Size       Vec2
	TargetSize Vec2
	Scale      float32
}

// NewViewRect returns a view covering a whole w×h target at scale 1.
func NewViewRect(w, h float32) ViewRect {
	return ViewRect{
		Size:       V(w, h),
		TargetSize: V(w, h),
		Scale:      1,
	}
}

var (
	ndcFlip   = Vec2{X: 2, Y: -2}
	ndcOrigin = Vec2{X: -1, Y: 1}
)

// ToScreen maps a view-local pixel position into normalized device
// coordinates:
//
//	((p*Scale + Offset) * (2,-2) / TargetSize) + (-1,1)
func (v ViewRect) ToScreen(p Vec2) Vec2 {
	return p.Mul(v.Scale).Add(v.Offset).MulV(ndcFlip).DivV(v.TargetSize).Add(ndcOrigin)
}

// ToScreenXY is ToScreen for separate coordinates.
func (v ViewRect) ToScreenXY(x, y float32) Vec2 {
	return v.ToScreen(Vec2{X: x, Y: y})
}

// FromScreen is the inverse of ToScreen.
func (v ViewRect) FromScreen(ndc Vec2) Vec2 {
	return ndc.Sub(ndcOrigin).MulV(v.TargetSize).DivV(ndcFlip).Sub(v.Offset).Div(v.Scale)
}

// Crop returns a view of size at offset relative to v, sharing v's target.
// Offset and size are target pixels; Scale applies only to positions
// passed to ToScreen.
func (v ViewRect) Crop(offset, size Vec2) ViewRect {
	return ViewRect{
		Offset:     v.Offset.Add(offset),
		Size:       size,
		TargetSize: v.TargetSize,
		Scale:      v.Scale,
	}
}

// Resize returns v with a new target size and scale. Views covering the
// whole target follow the new size.
func (v ViewRect) Resize(target Vec2, scale float32) ViewRect {
	if v.Offset == (Vec2{}) && v.Size == v.TargetSize {
		v.Size = target
	}
	v.TargetSize = target
	v.Scale = scale
	return v
}

// Bounds returns the view's pixel rectangle inside its target.
func (v ViewRect) Bounds() Rect {
	return Rect{
		X: int(v.Offset.X),
		Y: int(v.Offset.Y),
		W: int(v.Size.X),
		H: int(v.Size.Y),
	}
}
