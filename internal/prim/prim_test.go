package prim

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/gogpu/pix/geom"
)

func testBuilder() Builder {
	return New(geom.NewViewRect(200, 200))
}

func TestCircleSteps(t *testing.T) {
	tests := []struct {
		radius float32
		want   int
	}{
		{0, 0},
		{0.5, 0},
		{-3, 0},
		{math32.NaN(), 0},
		{1, 3},
		{4, 9},
	}
	for _, tt := range tests {
		if got := CircleSteps(tt.radius); got != tt.want {
			t.Errorf("CircleSteps(%v) = %d, want %d", tt.radius, got, tt.want)
		}
	}

	prev := 0
	for r := float32(1); r < 500; r *= 1.5 {
		s := CircleSteps(r)
		if s < prev {
			t.Errorf("CircleSteps(%v) = %d, decreased from %d", r, s, prev)
		}
		prev = s
	}
}

func TestCircleRejectsSubPixel(t *testing.T) {
	b := testBuilder()
	for _, r := range []float32{0, 0.25, 0.999, -10} {
		if v := b.Circle(geom.V(50, 50), r, true); len(v) != 0 {
			t.Errorf("Circle(r=%v, fan): got %d floats, want 0", r, len(v))
		}
		if v := b.Circle(geom.V(50, 50), r, false); len(v) != 0 {
			t.Errorf("Circle(r=%v, loop): got %d floats, want 0", r, len(v))
		}
	}
}

func TestCircleLayout(t *testing.T) {
	b := testBuilder()
	center := geom.V(100, 100)
	const radius = 20
	steps := CircleSteps(radius)

	fan := b.Circle(center, radius, true)
	if len(fan) != (steps+2)*2 {
		t.Fatalf("fan: got %d floats, want %d", len(fan), (steps+2)*2)
	}
	if fan[0] != 0 || fan[1] != 0 {
		t.Errorf("fan center: got (%v, %v), want (0, 0)", fan[0], fan[1])
	}

	loop := b.Circle(center, radius, false)
	if len(loop) != (steps+1)*2 {
		t.Fatalf("loop: got %d floats, want %d", len(loop), (steps+1)*2)
	}
	// Rim points are radius pixels from the center: 20/100 in NDC.
	for i := 0; i < len(loop); i += 2 {
		d := geom.V(loop[i], loop[i+1]).Length()
		if math32.Abs(d-0.2) > 1e-4 {
			t.Errorf("rim point %d: distance %v, want 0.2", i/2, d)
		}
	}
	first := geom.V(loop[0], loop[1])
	last := geom.V(loop[len(loop)-2], loop[len(loop)-1])
	if !first.Approx(last, 1e-5) {
		t.Errorf("rim not closed: first %v, last %v", first, last)
	}
}

func TestQuad(t *testing.T) {
	b := testBuilder()
	q := b.Quad(geom.V(0, 0), geom.V(100, 100))
	want := [8]float32{-1, 1, 0, 1, 0, 0, -1, 0}
	if q != want {
		t.Errorf("Quad: got %v, want %v", q, want)
	}

	uv := b.QuadUV(geom.V(0, 0), geom.V(100, 100))
	wantUV := [8]float32{0, 1, 1, 1, 1, 0, 0, 0}
	for i := range wantUV {
		if uv[8+i] != wantUV[i] {
			t.Fatalf("QuadUV uvs: got %v, want %v", uv[8:], wantUV)
		}
	}
}

func TestRotatedQuadZeroRotation(t *testing.T) {
	b := testBuilder()
	center, size := geom.V(30.3, 70.7), geom.V(13.1, 9.9)
	got := b.RotatedQuad(center, size, 0)
	want := b.Quad(center.Sub(size.Div(2)), size)
	if got != want {
		t.Errorf("RotatedQuad(rot=0): got %v, want exactly %v", got, want)
	}
}

func TestRotatedQuadHalfTurn(t *testing.T) {
	b := testBuilder()
	center, size := geom.V(100, 100), geom.V(40, 20)
	q := b.RotatedQuad(center, size, math32.Pi)
	plain := b.RotatedQuad(center, size, 0)
	// A half turn maps corner i onto corner i+2.
	for i := 0; i < 4; i++ {
		j := (i + 2) % 4
		got := geom.V(q[i*2], q[i*2+1])
		want := geom.V(plain[j*2], plain[j*2+1])
		if !got.Approx(want, 1e-5) {
			t.Errorf("corner %d: got %v, want %v", i, got, want)
		}
	}
}

func TestRotatedQuadUVKeepsUnitUVs(t *testing.T) {
	q := testBuilder().RotatedQuadUV(geom.V(50, 50), geom.V(10, 10), 0.3)
	if q[8] != 0 || q[9] != 1 || q[14] != 0 || q[15] != 0 {
		t.Errorf("UVs: got %v", q[8:])
	}
	SetUVs(&q, [8]float32{0.5, 0.5, 0.75, 0.5, 0.75, 0.75, 0.5, 0.75})
	if q[8] != 0.5 || q[13] != 0.75 {
		t.Errorf("SetUVs: got %v", q[8:])
	}
}

func TestLineHalfPixelOffset(t *testing.T) {
	b := testBuilder()
	l := b.Line(geom.V(0, 0), geom.V(99.5, 99.5))
	want := [4]float32{-0.995, 0.995, 0, 0}
	for i := range want {
		if math32.Abs(l[i]-want[i]) > 1e-5 {
			t.Fatalf("Line: got %v, want %v", l, want)
		}
	}
	strip := b.LineStrip([]geom.Vec2{{X: 0, Y: 0}, {X: 99.5, Y: 99.5}})
	for i := range want {
		if math32.Abs(strip[i]-want[i]) > 1e-5 {
			t.Fatalf("LineStrip: got %v, want %v", strip, want)
		}
	}
}

func TestRoundedLine(t *testing.T) {
	b := testBuilder()
	p0, p1 := geom.V(50, 100), geom.V(150, 100)
	const r0, r1 = 4, 12

	v := b.RoundedLine(p0, r0, p1, r1)
	wantPoints := 1 + (capSegments(r1) + 1) + (capSegments(r0) + 1) + 1
	if len(v) != wantPoints*2 {
		t.Fatalf("RoundedLine: got %d points, want %d", len(v)/2, wantPoints)
	}

	view := b.View
	center := view.FromScreen(geom.V(v[0], v[1]))
	if !center.Approx(geom.V(100, 100), 1e-3) {
		t.Errorf("fan center: got %v, want (100, 100)", center)
	}

	// Every rim point lies on one of the two caps.
	for i := 2; i < len(v); i += 2 {
		p := view.FromScreen(geom.V(v[i], v[i+1]))
		d0 := p.Sub(p0).Length()
		d1 := p.Sub(p1).Length()
		if math32.Abs(d0-r0) > 1e-2 && math32.Abs(d1-r1) > 1e-2 {
			t.Errorf("rim point %v is on neither cap (d0=%v, d1=%v)", p, d0, d1)
		}
	}

	// The p1 cap reaches close to p1 + d*r1 without passing it.
	maxX := float32(0)
	for i := 2; i < len(v); i += 2 {
		maxX = max(maxX, view.FromScreen(geom.V(v[i], v[i+1])).X)
	}
	if maxX > 150+r1+1e-2 || maxX < 150+r1*0.9 {
		t.Errorf("cap extent: got max x %v, want about %v", maxX, 150+r1)
	}
}

func TestRoundedLineDegenerate(t *testing.T) {
	b := testBuilder()
	p := geom.V(10, 10)
	if v := b.RoundedLine(p, 5, p, 8); len(v) != len(b.Circle(p, 8, true)) {
		t.Errorf("coincident endpoints: got %d floats, want filled circle", len(v))
	}
	if v := b.RoundedLine(p, 0, p, 0.5); len(v) != 0 {
		t.Errorf("coincident sub-pixel: got %d floats, want 0", len(v))
	}
	if v := b.RoundedLine(p, 0, geom.V(20, 10), 0); len(v) != 0 {
		t.Errorf("zero radii: got %d floats, want 0", len(v))
	}
}
