package pix

import (
	"image/color"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want uint32
	}{
		{"#ff0000", 0xFF0000FF},
		{"00ff00", 0x00FF00FF},
		{"#00f", 0x0000FFFF},
		{"#f008", 0xFF000088},
		{"#11223344", 0x11223344},
		{"bogus", 0x000000FF},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Hex(tt.in).Packed(); got != tt.want {
				t.Errorf("Hex(%q): got %#08x, want %#08x", tt.in, got, tt.want)
			}
		})
	}
}

func TestUnpackPacked(t *testing.T) {
	for _, v := range []uint32{0, 0xFFFFFFFF, 0x12345678, 0x80FF0001} {
		if got := Unpack(v).Packed(); got != v {
			t.Errorf("Unpack(%#08x).Packed(): got %#08x", v, got)
		}
	}
	c := Unpack(0xFF000080)
	if c.R != 1 || c.G != 0 || c.B != 0 {
		t.Errorf("Unpack(0xFF000080): got %+v, want red", c)
	}
}

func TestPackedClamps(t *testing.T) {
	c := RGBA{R: 2, G: -1, B: 0.5, A: 1}
	if got := c.Packed(); got != 0xFF0080FF {
		t.Errorf("Packed: got %#08x, want %#08x", got, 0xFF0080FF)
	}
}

func TestColorRoundTrip(t *testing.T) {
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	if got := FromColor(want).Color(); got != want {
		t.Errorf("FromColor().Color(): got %v, want %v", got, want)
	}
	// Premultiplied input is converted to straight alpha.
	got := FromColor(color.RGBA{R: 0x80, A: 0x80})
	if got.R != 1 || got.A < 0.5 || got.A > 0.51 {
		t.Errorf("FromColor(premultiplied): got %+v", got)
	}
}

func TestLerp(t *testing.T) {
	got := Black.Lerp(White, 0.5)
	if got != (RGBA{0.5, 0.5, 0.5, 1}) {
		t.Errorf("Lerp: got %+v, want mid gray", got)
	}
}

func TestBlendMode_State(t *testing.T) {
	for _, m := range []BlendMode{BlendNormal, BlendAdd, BlendMultiply, BlendCopy} {
		s := m.State()
		src, dst := m.Factors()
		if s.Color != s.Alpha {
			t.Errorf("%v: color and alpha components differ", m)
		}
		if s.Color.SrcFactor != src || s.Color.DstFactor != dst {
			t.Errorf("%v: got factors %v/%v, want %v/%v", m, s.Color.SrcFactor, s.Color.DstFactor, src, dst)
		}
	}
	if got := BlendMode(9).String(); got != "BlendMode(9)" {
		t.Errorf("String: got %q", got)
	}
}

func TestPrimitive_Topology(t *testing.T) {
	if _, ok := TriangleFan.Topology(); ok {
		t.Error("TriangleFan has no native topology")
	}
	if _, ok := LineLoop.Topology(); ok {
		t.Error("LineLoop has no native topology")
	}
	if top, ok := Triangles.Topology(); !ok || top.String() == "" {
		t.Errorf("Triangles: got %v, %v", top, ok)
	}
	if got := Primitive(42).String(); got != "Primitive(42)" {
		t.Errorf("String: got %q", got)
	}
}

func TestVertexLayout_VertexCount(t *testing.T) {
	tests := []struct {
		l    VertexLayout
		n    int
		want int
	}{
		{Position2, 8, 4},
		{Position2UV2, 16, 4},
		{Position2Color4, 12, 2},
	}
	for _, tt := range tests {
		if got := tt.l.VertexCount(tt.n); got != tt.want {
			t.Errorf("%v.VertexCount(%d): got %d, want %d", tt.l, tt.n, got, tt.want)
		}
	}
}

func TestTarget_PhysicalSize(t *testing.T) {
	tests := []struct {
		t    Target
		w, h int
	}{
		{Target{Width: 100, Height: 50}, 100, 50},
		{Target{Width: 100, Height: 50, PixelRatio: 2}, 200, 100},
		{Target{Width: 3, Height: 3, PixelRatio: 1.5}, 4, 4},
	}
	for _, tt := range tests {
		w, h := tt.t.PhysicalSize()
		if w != tt.w || h != tt.h {
			t.Errorf("%+v: got %dx%d, want %dx%d", tt.t, w, h, tt.w, tt.h)
		}
	}
}
