package geom

import (
	"math"
	"testing"
)

func TestCanvasToDisplayNormalizesNegativeSizes(t *testing.T) {
	tests := []struct {
		name string
		in   Rect
		want Bounds
	}{
		{"positive drag", Rect{StartX: 10, StartY: 20, Width: 30, Height: 40}, Bounds{X: 10, Y: 20, Width: 30, Height: 40}},
		{"leftward drag", Rect{StartX: 100, StartY: 100, Width: -50, Height: 30}, Bounds{X: 50, Y: 100, Width: 50, Height: 30}},
		{"upward drag", Rect{StartX: 100, StartY: 100, Width: 50, Height: -30}, Bounds{X: 100, Y: 70, Width: 50, Height: 30}},
		{"both negative", Rect{StartX: 100, StartY: 100, Width: -50, Height: -30}, Bounds{X: 50, Y: 70, Width: 50, Height: 30}},
		{"zero size", Rect{StartX: 5, StartY: 5}, Bounds{X: 5, Y: 5}},
	}
	for _, tt := range tests {
		if got := CanvasToDisplay(tt.in); got != tt.want {
			t.Errorf("%s: CanvasToDisplay(%+v) = %+v, want %+v", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestCanvasToDisplayIdempotentOnNormalized(t *testing.T) {
	rects := []Rect{
		{StartX: 0, StartY: 0, Width: 100, Height: 50},
		{StartX: 13, StartY: 7, Width: 1, Height: 1},
		{StartX: -20, StartY: -20, Width: 40, Height: 40},
	}
	for _, r := range rects {
		once := CanvasToDisplay(r)
		again := CanvasToDisplay(Rect{StartX: float64(once.X), StartY: float64(once.Y), Width: float64(once.Width), Height: float64(once.Height)})
		if once != again {
			t.Errorf("not idempotent for %+v: first %+v second %+v", r, once, again)
		}
	}
}

func TestDisplayToDeviceScaleLaw(t *testing.T) {
	b := Bounds{X: 3, Y: 5, Width: 101, Height: 77}
	for _, sf := range []float64{0.5, 1, 1.25, 1.5, 2, 3} {
		got := DisplayToDevice(b, sf)
		if want := int(math.Round(float64(b.Width) * sf)); got.Width != want {
			t.Errorf("scale %v: width = %d, want %d", sf, got.Width, want)
		}
		if want := int(math.Round(float64(b.Height) * sf)); got.Height != want {
			t.Errorf("scale %v: height = %d, want %d", sf, got.Height, want)
		}
	}
}

func TestDisplayToDeviceIdentity(t *testing.T) {
	b := Bounds{X: 1, Y: 2, Width: 3, Height: 4}
	if got := DisplayToDevice(b, 1); got != b {
		t.Fatalf("identity scale changed bounds: %+v", got)
	}
}

func TestDisplayToImageRoundTrip(t *testing.T) {
	// With imageSize == captureSize the mapping is the identity, so the
	// round trip must recover the input within rounding tolerance.
	size := Size{Width: 1920, Height: 1080}
	in := Bounds{X: 17, Y: 23, Width: 640, Height: 480}
	out := DisplayToImage(in, size, size)
	if dx := out.X - in.X; dx < -1 || dx > 1 {
		t.Errorf("x drifted by %d", dx)
	}
	if dw := out.Width - in.Width; dw < -1 || dw > 1 {
		t.Errorf("width drifted by %d", dw)
	}

	// HiDPI capture: a 2x image buffer maps back within a pixel.
	double := Size{Width: 3840, Height: 2160}
	scaled := DisplayToImage(in, size, double)
	back := DisplayToImage(scaled, double, size)
	for _, d := range []int{back.X - in.X, back.Y - in.Y, back.Width - in.Width, back.Height - in.Height} {
		if d < -1 || d > 1 {
			t.Fatalf("round trip drifted: in %+v back %+v", in, back)
		}
	}
}

func TestDisplayToImageZeroCapture(t *testing.T) {
	in := Bounds{X: 1, Y: 1, Width: 10, Height: 10}
	if got := DisplayToImage(in, Size{}, Size{Width: 100, Height: 100}); got != in {
		t.Fatalf("zero capture size should pass bounds through, got %+v", got)
	}
}

func TestClamp(t *testing.T) {
	b := Bounds{Width: 100, Height: 50}
	tests := []struct {
		in   Point
		want Point
	}{
		{Point{X: -3, Y: -7}, Point{X: 0, Y: 0}},
		{Point{X: 150, Y: 25}, Point{X: 100, Y: 25}},
		{Point{X: 50, Y: 80}, Point{X: 50, Y: 50}},
		{Point{X: 12, Y: 34}, Point{X: 12, Y: 34}},
	}
	for _, tt := range tests {
		if got := Clamp(tt.in, b); got != tt.want {
			t.Errorf("Clamp(%+v) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestUnion(t *testing.T) {
	a := Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}
	b := Bounds{X: 1920, Y: -120, Width: 2560, Height: 1440}
	got := Union(a, b)
	want := Bounds{X: 0, Y: -120, Width: 4480, Height: 1560}
	if got != want {
		t.Fatalf("Union = %+v, want %+v", got, want)
	}
	if got := Union(); !got.Empty() {
		t.Fatalf("empty union should be empty, got %+v", got)
	}
	if got := Union(a, Bounds{}); got != a {
		t.Fatalf("union with empty should ignore it, got %+v", got)
	}
}

func TestDisplayNearestPoint(t *testing.T) {
	left := DisplayInfo{Bounds: Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}, ScaleFactor: 1}
	right := DisplayInfo{Bounds: Bounds{X: 1920, Y: 0, Width: 1920, Height: 1080}, ScaleFactor: 2}
	displays := []DisplayInfo{left, right}

	if d, ok := DisplayNearestPoint(displays, Point{X: 100, Y: 100}); !ok || d != left {
		t.Fatalf("expected left display, got %+v ok=%v", d, ok)
	}
	if d, ok := DisplayNearestPoint(displays, Point{X: 2000, Y: 100}); !ok || d != right {
		t.Fatalf("expected right display, got %+v ok=%v", d, ok)
	}
	// Outside every display: nearest center wins.
	if d, ok := DisplayNearestPoint(displays, Point{X: 5000, Y: 100}); !ok || d != right {
		t.Fatalf("expected right display for far point, got %+v ok=%v", d, ok)
	}
	if _, ok := DisplayNearestPoint(nil, Point{}); ok {
		t.Fatal("empty display list should report !ok")
	}
}
