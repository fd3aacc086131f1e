package software

import (
	"errors"
	"image/color"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/pix"
	"github.com/gogpu/pix/geom"
)

// fullQuad covers all of NDC, clockwise in NDC.
var fullQuad = []float32{-1, 1, 1, 1, 1, -1, -1, -1}

func newTestDevice(w, h int) (*Device, pix.Target) {
	d := New(w, h)
	t := pix.Target{Width: w, Height: h, PixelRatio: 1}
	d.SetTarget(t, geom.R(0, 0, w, h), geom.Rect{})
	return d, t
}

func at(d *Device, x, y int) color.NRGBA {
	return d.Screen().Image().NRGBAAt(x, y)
}

func pipeline(c pix.RGBA) pix.PipelineState {
	return pix.PipelineState{
		Color:     c,
		Blend:     pix.BlendNormal.State(),
		PointSize: 1,
		LineWidth: 1,
	}
}

func TestDevice_ClearAndReadPixels(t *testing.T) {
	d, target := newTestDevice(4, 4)
	if err := d.Clear(target, pix.RGBA2(1, 0, 0, 1)); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	dst := make([]uint32, 4)
	if err := d.ReadPixels(target, geom.R(1, 1, 2, 2), dst); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	for i, v := range dst {
		if v != 0xFF0000FF {
			t.Errorf("dst[%d]: got %#08x, want %#08x", i, v, 0xFF0000FF)
		}
	}
}

func TestDevice_ReadPixelsShortBuffer(t *testing.T) {
	d, target := newTestDevice(4, 4)
	err := d.ReadPixels(target, geom.R(0, 0, 4, 4), make([]uint32, 3))
	if !errors.Is(err, ErrTextureSize) {
		t.Errorf("ReadPixels: got %v, want ErrTextureSize", err)
	}
}

func TestDevice_ReadPixelsScaled(t *testing.T) {
	d := New(8, 8)
	target := pix.Target{Width: 4, Height: 4, PixelRatio: 2}
	d.SetTarget(target, geom.R(0, 0, 8, 8), geom.Rect{})
	d.SetPipeline(pipeline(pix.RGB(0, 1, 0)))
	// Left half of the target in NDC.
	quad := []float32{-1, 1, 0, 1, 0, -1, -1, -1}
	if err := d.Submit(quad, pix.TriangleFan, pix.Position2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	dst := make([]uint32, 4)
	if err := d.ReadPixels(target, geom.R(0, 0, 4, 1), dst); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	want := []uint32{0xFF00FF00, 0xFF00FF00, 0, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d]: got %#08x, want %#08x", i, dst[i], want[i])
		}
	}
}

func TestDevice_FillTriangleFan(t *testing.T) {
	d, _ := newTestDevice(8, 8)
	d.SetPipeline(pipeline(pix.RGB(1, 0, 0)))
	if err := d.Submit(fullQuad, pix.TriangleFan, pix.Position2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for _, p := range [][2]int{{0, 0}, {7, 0}, {3, 4}, {7, 7}} {
		if got := at(d, p[0], p[1]); got != (color.NRGBA{R: 255, A: 255}) {
			t.Errorf("pixel %v: got %v, want opaque red", p, got)
		}
	}
	if d.Submits() != 1 {
		t.Errorf("Submits: got %d, want 1", d.Submits())
	}
}

func TestDevice_Cull(t *testing.T) {
	ccw := []float32{-1, -1, 1, -1, 1, 1, -1, 1}
	tests := []struct {
		name  string
		quad  []float32
		cull  gputypes.CullMode
		drawn bool
	}{
		{"cw no cull", fullQuad, gputypes.CullModeNone, true},
		{"cw cull back", fullQuad, gputypes.CullModeBack, false},
		{"ccw cull back", ccw, gputypes.CullModeBack, true},
		{"ccw cull front", ccw, gputypes.CullModeFront, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDevice(4, 4)
			state := pipeline(pix.White)
			state.Cull = tt.cull
			state.FrontFace = gputypes.FrontFaceCCW
			d.SetPipeline(state)
			if err := d.Submit(tt.quad, pix.TriangleFan, pix.Position2); err != nil {
				t.Fatalf("Submit: %v", err)
			}
			if got := at(d, 2, 2).A == 255; got != tt.drawn {
				t.Errorf("drawn: got %v, want %v", got, tt.drawn)
			}
		})
	}
}

func TestDevice_Scissor(t *testing.T) {
	d := New(8, 8)
	target := pix.Target{Width: 8, Height: 8, PixelRatio: 1}
	d.SetTarget(target, geom.R(0, 0, 8, 8), geom.R(2, 2, 4, 4))
	d.SetPipeline(pipeline(pix.White))
	if err := d.Submit(fullQuad, pix.TriangleFan, pix.Position2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			inside := x >= 2 && x < 6 && y >= 2 && y < 6
			if got := at(d, x, y).A == 255; got != inside {
				t.Errorf("pixel (%d,%d) drawn: got %v, want %v", x, y, got, inside)
			}
		}
	}
}

func TestDevice_PointsUseVertexColor(t *testing.T) {
	d, _ := newTestDevice(4, 4)
	d.SetPipeline(pipeline(pix.White))
	// Center of pixel (1, 2) in a 4x4 target.
	x, y := float32(1.5)*2/4-1, 1-float32(2.5)*2/4
	if err := d.Submit([]float32{x, y, 0, 0, 1, 1}, pix.Points, pix.Position2Color4); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := at(d, 1, 2); got != (color.NRGBA{B: 255, A: 255}) {
		t.Errorf("point pixel: got %v, want opaque blue", got)
	}
	if got := at(d, 2, 2); got.A != 0 {
		t.Errorf("neighbour pixel: got %v, want transparent", got)
	}
}

func TestDevice_Lines(t *testing.T) {
	d, _ := newTestDevice(8, 8)
	d.SetPipeline(pipeline(pix.White))
	// Horizontal line through the middle of row 3.
	y := 1 - float32(3.5)*2/8
	if err := d.Submit([]float32{-1, y, 1, y}, pix.Lines, pix.Position2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	for x := 0; x < 8; x++ {
		if got := at(d, x, 3); got.A != 255 {
			t.Errorf("row 3 pixel %d: got alpha %d, want 255", x, got.A)
		}
		if got := at(d, x, 5); got.A != 0 {
			t.Errorf("row 5 pixel %d: got alpha %d, want 0", x, got.A)
		}
	}
}

func TestDevice_Textured(t *testing.T) {
	d, _ := newTestDevice(4, 4)
	tex, err := d.NewTextureFromRGBA(2, 2, []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 255, 255, 255, 255,
	})
	if err != nil {
		t.Fatalf("NewTextureFromRGBA: %v", err)
	}
	state := pipeline(pix.White)
	state.Blend = pix.BlendCopy.State()
	d.SetPipeline(state)
	d.BindTexture(tex)
	v := append(append([]float32{}, fullQuad...), 0, 0, 1, 0, 1, 1, 0, 1)
	if err := d.Submit(v, pix.TriangleFan, pix.Position2UV2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	tests := []struct {
		x, y int
		want color.NRGBA
	}{
		{0, 0, color.NRGBA{R: 255, A: 255}},
		{3, 0, color.NRGBA{G: 255, A: 255}},
		{0, 3, color.NRGBA{B: 255, A: 255}},
		{3, 3, color.NRGBA{R: 255, G: 255, B: 255, A: 255}},
	}
	for _, tt := range tests {
		if got := at(d, tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d): got %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDevice_SubmitIndexed(t *testing.T) {
	d, _ := newTestDevice(4, 4)
	d.SetPipeline(pipeline(pix.White))
	err := d.SubmitIndexed(fullQuad, []uint32{0, 1, 2, 0, 2, 3}, gputypes.IndexFormatUint16, pix.Triangles, pix.Position2)
	if err != nil {
		t.Fatalf("SubmitIndexed: %v", err)
	}
	if got := at(d, 0, 3); got.A != 255 {
		t.Errorf("corner pixel: got alpha %d, want 255", got.A)
	}

	err = d.SubmitIndexed(fullQuad, []uint32{0, 1, 4}, gputypes.IndexFormatUint16, pix.Triangles, pix.Position2)
	if err == nil {
		t.Error("SubmitIndexed with an out of range index: got nil error")
	}
}

func TestDevice_DecodeRejectsPartialVertex(t *testing.T) {
	d, _ := newTestDevice(4, 4)
	if err := d.Submit([]float32{0, 0, 1}, pix.Points, pix.Position2); err == nil {
		t.Error("Submit with 3 floats: got nil error")
	}
}

func TestDevice_BlendAdd(t *testing.T) {
	d, target := newTestDevice(2, 2)
	if err := d.Clear(target, pix.RGB(0.4, 0, 0)); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	state := pipeline(pix.RGB(0.2, 0, 0))
	state.Blend = pix.BlendAdd.State()
	d.SetPipeline(state)
	if err := d.Submit(fullQuad, pix.TriangleFan, pix.Position2); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := at(d, 0, 0).R; got != 153 {
		t.Errorf("red: got %d, want 153", got)
	}
}

func TestTexture_UpdateRegion(t *testing.T) {
	tex := NewTexture(4, 4)
	if err := tex.UpdateRegion(1, 1, 2, 1, []byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("UpdateRegion: %v", err)
	}
	if got := tex.Image().NRGBAAt(2, 1); got != (color.NRGBA{5, 6, 7, 8}) {
		t.Errorf("pixel (2,1): got %v, want {5 6 7 8}", got)
	}
	if err := tex.UpdateRegion(3, 3, 2, 2, make([]byte, 16)); !errors.Is(err, ErrTextureSize) {
		t.Errorf("out of bounds region: got %v, want ErrTextureSize", err)
	}
	if err := tex.UpdateData(make([]byte, 3)); !errors.Is(err, ErrTextureSize) {
		t.Errorf("short data: got %v, want ErrTextureSize", err)
	}
}

func TestBlend_Coverage(t *testing.T) {
	state := pix.BlendCopy.State()
	got := blend(state, color4{1, 1, 1, 1}, color4{0, 0, 0, 1}, 0.5)
	want := color4{0.5, 0.5, 0.5, 1}
	if got != want {
		t.Errorf("blend: got %v, want %v", got, want)
	}
}
