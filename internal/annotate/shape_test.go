package annotate

import (
	"image/color"
	"testing"

	"github.com/example/glintshot/internal/geom"
)

func TestDashWalkerAlternates(t *testing.T) {
	d := newDashWalker([]float64{4, 4}, 1)
	pattern := []bool{}
	for i := 0; i < 8; i++ {
		pattern = append(pattern, d.on(2))
	}
	// 2px steps over a 4-on/4-off pattern: two on, two off, repeating.
	want := []bool{true, true, false, false, true, true, false, false}
	for i := range want {
		if pattern[i] != want[i] {
			t.Fatalf("step %d: got %v, want %v (full %v)", i, pattern[i], want[i], pattern)
		}
	}
}

func TestDashWalkerEmptyPatternAlwaysOn(t *testing.T) {
	d := newDashWalker(nil, 1)
	for i := 0; i < 5; i++ {
		if !d.on(10) {
			t.Fatal("empty pattern must always draw")
		}
	}
}

func TestLightenTowardMidKeepsEndpoints(t *testing.T) {
	base := color.RGBA{R: 180, G: 30, B: 30, A: 255}
	if got := lightenTowardMid(base, 0); got != base {
		t.Fatalf("t=0 should keep base color, got %+v", got)
	}
	if got := lightenTowardMid(base, 1); got != base {
		t.Fatalf("t=1 should keep base color, got %+v", got)
	}
	mid := lightenTowardMid(base, 0.5)
	if mid == base {
		t.Fatal("midpoint should be lightened")
	}
	if int(mid.R)+int(mid.G)+int(mid.B) <= int(base.R)+int(base.G)+int(base.B) {
		t.Fatalf("midpoint should be lighter: base %+v mid %+v", base, mid)
	}
}

func TestRoundedRectPathStaysOnBox(t *testing.T) {
	box := geom.Bounds{X: 10, Y: 10, Width: 40, Height: 20}
	for _, radius := range []float64{0, 6, 100} {
		for _, p := range roundedRectPath(box, radius) {
			if p.X < 9.5 || p.X > 50.5 || p.Y < 9.5 || p.Y > 30.5 {
				t.Fatalf("radius %v: path point %+v escapes box %+v", radius, p, box)
			}
		}
	}
}

func TestEllipsePathOnEllipse(t *testing.T) {
	box := geom.Bounds{X: 0, Y: 0, Width: 100, Height: 60}
	for _, p := range ellipsePath(box) {
		dx := (p.X - 50) / 50
		dy := (p.Y - 30) / 30
		r := dx*dx + dy*dy
		if r < 0.98 || r > 1.02 {
			t.Fatalf("point %+v not on ellipse (r=%v)", p, r)
		}
	}
}

func TestBlendOver(t *testing.T) {
	dst := color.RGBA{R: 100, G: 100, B: 100, A: 255}
	if got := blendOver(dst, color.RGBA{R: 200, A: 255}); got != (color.RGBA{R: 200, A: 255}) {
		t.Fatalf("opaque source should replace, got %+v", got)
	}
	if got := blendOver(dst, color.RGBA{}); got != dst {
		t.Fatalf("transparent source should keep destination, got %+v", got)
	}
	half := blendOver(dst, color.RGBA{R: 200, G: 0, B: 0, A: 128})
	if half.R <= 100 || half.R >= 200 {
		t.Fatalf("half blend R out of range: %+v", half)
	}
}
