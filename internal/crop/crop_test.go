package crop

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/glintshot/internal/geom"
)

func TestValidateBoundsTotality(t *testing.T) {
	size := geom.Size{Width: 100, Height: 100}
	tests := []struct {
		name string
		in   geom.Bounds
		want geom.Bounds
	}{
		{"negative origin and degenerate size", geom.Bounds{X: -5, Y: -5, Width: 3, Height: 3}, geom.Bounds{X: 0, Y: 0, Width: 10, Height: 10}},
		{"zero everything", geom.Bounds{}, geom.Bounds{X: 0, Y: 0, Width: 10, Height: 10}},
		{"negative size", geom.Bounds{X: 50, Y: 50, Width: -40, Height: -40}, geom.Bounds{X: 50, Y: 50, Width: 10, Height: 10}},
		{"oversized", geom.Bounds{X: 0, Y: 0, Width: 500, Height: 500}, geom.Bounds{X: 0, Y: 0, Width: 100, Height: 100}},
		{"origin past edge", geom.Bounds{X: 200, Y: 200, Width: 20, Height: 20}, geom.Bounds{X: 90, Y: 90, Width: 10, Height: 10}},
		{"valid passthrough", geom.Bounds{X: 10, Y: 20, Width: 30, Height: 40}, geom.Bounds{X: 10, Y: 20, Width: 30, Height: 40}},
		{"width overflows from position", geom.Bounds{X: 80, Y: 0, Width: 50, Height: 50}, geom.Bounds{X: 80, Y: 0, Width: 20, Height: 50}},
	}
	for _, tt := range tests {
		got := ValidateBounds(tt.in, size, 10)
		if got != tt.want {
			t.Errorf("%s: ValidateBounds(%+v) = %+v, want %+v", tt.name, tt.in, got, tt.want)
		}
		if got.Width < 10 || got.Height < 10 {
			t.Errorf("%s: result smaller than minimum: %+v", tt.name, got)
		}
		if got.X < 0 || got.Y < 0 || got.X+got.Width > size.Width || got.Y+got.Height > size.Height {
			t.Errorf("%s: result escapes image: %+v", tt.name, got)
		}
	}
}

func TestFromDisplay(t *testing.T) {
	full := image.NewRGBA(image.Rect(0, 0, 200, 100))
	mark := color.RGBA{R: 255, A: 255}
	full.SetRGBA(60, 30, mark)

	out, err := FromDisplay(full, geom.Bounds{X: 50, Y: 20, Width: 40, Height: 40}, geom.Size{Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("FromDisplay: %v", err)
	}
	if out.Bounds().Dx() != 40 || out.Bounds().Dy() != 40 {
		t.Fatalf("unexpected crop size %v", out.Bounds())
	}
	if got := out.RGBAAt(10, 10); got != mark {
		t.Fatalf("marker pixel not at expected location, got %+v", got)
	}
}

func TestFromDisplayScalesIntoImageSpace(t *testing.T) {
	// Image buffer is 2x the logical capture area, so display bounds double.
	full := image.NewRGBA(image.Rect(0, 0, 400, 200))
	out, err := FromDisplay(full, geom.Bounds{X: 10, Y: 10, Width: 50, Height: 30}, geom.Size{Width: 200, Height: 100})
	if err != nil {
		t.Fatalf("FromDisplay: %v", err)
	}
	if out.Bounds().Dx() != 100 || out.Bounds().Dy() != 60 {
		t.Fatalf("expected 100x60 crop, got %v", out.Bounds())
	}
}

func TestFromDisplayZeroAreaSource(t *testing.T) {
	var cropErr *CropError
	_, err := FromDisplay(image.NewRGBA(image.Rect(0, 0, 0, 0)), geom.Bounds{Width: 10, Height: 10}, geom.Size{Width: 10, Height: 10})
	if !errors.As(err, &cropErr) {
		t.Fatalf("expected CropError, got %v", err)
	}
	if _, err := FromDisplay(nil, geom.Bounds{}, geom.Size{}); !errors.As(err, &cropErr) {
		t.Fatalf("expected CropError for nil source, got %v", err)
	}
}

func TestRegionRejectsDegenerateBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 10, 10))
	var invalid *InvalidBoundsError
	if _, err := Region(src, geom.Bounds{Width: 0, Height: 5}); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidBoundsError, got %v", err)
	}
	if _, err := Region(src, geom.Bounds{X: 100, Y: 100, Width: 5, Height: 5}); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidBoundsError for out-of-range bounds, got %v", err)
	}
}

func TestMeetsMinimumSize(t *testing.T) {
	if MeetsMinimumSize(image.NewRGBA(image.Rect(0, 0, 9, 20)), 10) {
		t.Error("9px wide should fail a 10px minimum")
	}
	if !MeetsMinimumSize(image.NewRGBA(image.Rect(0, 0, 10, 10)), 10) {
		t.Error("10x10 should pass a 10px minimum")
	}
	if MeetsMinimumSize(nil, 10) {
		t.Error("nil image should fail")
	}
}

func TestImageTooSmallErrorMessage(t *testing.T) {
	err := &ImageTooSmallError{Width: 4, Height: 7, Min: 10}
	want := "selection too small: minimum 10px, got 4x7"
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
