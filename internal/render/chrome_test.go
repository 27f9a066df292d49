package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/example/glintshot/internal/geom"
)

func solidSnapshot(w, h int, col color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, col)
		}
	}
	return img
}

func TestDrawChromeDimsOutsideSelection(t *testing.T) {
	base := color.RGBA{R: 200, G: 200, B: 200, A: 255}
	snapshot := solidSnapshot(100, 100, base)
	dst := solidSnapshot(100, 100, base)

	sel := geom.Bounds{X: 30, Y: 30, Width: 40, Height: 40}
	DrawChrome(dst, snapshot, sel, ModeStill, DefaultChromeOptions(ModeStill))

	if got := dst.RGBAAt(5, 5); got == base {
		t.Fatal("pixel outside selection should be dimmed")
	}
	// Center of the hole is restored from the snapshot, past the border and
	// corner marks.
	if got := dst.RGBAAt(50, 50); got != base {
		t.Fatalf("hole center should match snapshot, got %+v", got)
	}
}

func TestDrawChromeRecordModePunchesTransparentHole(t *testing.T) {
	dst := solidSnapshot(100, 100, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	snapshot := solidSnapshot(100, 100, color.RGBA{R: 99, G: 99, B: 99, A: 255})

	sel := geom.Bounds{X: 20, Y: 20, Width: 60, Height: 60}
	DrawChrome(dst, snapshot, sel, ModeRecord, DefaultChromeOptions(ModeRecord))

	if got := dst.RGBAAt(50, 50); got != (color.RGBA{}) {
		t.Fatalf("record mode must clear hole pixels for passthrough, got %+v", got)
	}
}

func TestDrawChromeBorderAndCorners(t *testing.T) {
	opts := DefaultChromeOptions(ModeStill)
	dst := solidSnapshot(100, 100, color.RGBA{A: 255})
	snapshot := solidSnapshot(100, 100, color.RGBA{A: 255})
	sel := geom.Bounds{X: 10, Y: 10, Width: 50, Height: 50}
	DrawChrome(dst, snapshot, sel, ModeStill, opts)

	if got := dst.RGBAAt(30, 10); got != opts.Border {
		t.Fatalf("expected border color on top edge, got %+v", got)
	}
	// The corner arm extends along the top edge from the top-left corner.
	if got := dst.RGBAAt(12, 12); got != opts.Border {
		t.Fatalf("expected corner decoration near top-left, got %+v", got)
	}
}

func TestDrawChromeEmptySelectionOnlyDims(t *testing.T) {
	base := color.RGBA{R: 10, G: 10, B: 10, A: 255}
	dst := solidSnapshot(20, 20, base)
	DrawChrome(dst, dst, geom.Bounds{}, ModeStill, DefaultChromeOptions(ModeStill))
	if got := dst.RGBAAt(10, 10); got == base {
		t.Fatal("expected dim to apply with no selection")
	}
}

func TestRestore(t *testing.T) {
	snapshot := solidSnapshot(10, 10, color.RGBA{R: 7, A: 255})
	dst := solidSnapshot(10, 10, color.RGBA{R: 1, A: 255})
	Restore(dst, snapshot)
	if got := dst.RGBAAt(3, 3); got != snapshot.RGBAAt(3, 3) {
		t.Fatalf("restore mismatch: %+v", got)
	}
}
