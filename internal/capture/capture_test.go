package capture

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/session"
)

func TestNewRejectsUnknownBackend(t *testing.T) {
	if _, err := New("quantum"); err == nil {
		t.Fatal("expected error for unknown backend name")
	}
}

func TestFindDisplay(t *testing.T) {
	displays := []geom.DisplayInfo{
		{Bounds: geom.Bounds{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{Bounds: geom.Bounds{X: 1920, Y: 0, Width: 1280, Height: 720}, Primary: true},
	}

	cases := []struct {
		name     string
		selector string
		wantX    int
		wantErr  bool
	}{
		{name: "empty picks primary", selector: "", wantX: 1920},
		{name: "primary keyword", selector: "primary", wantX: 1920},
		{name: "bare index", selector: "0", wantX: 0},
		{name: "hash index", selector: "#1", wantX: 1920},
		{name: "out of range", selector: "7", wantErr: true},
		{name: "garbage", selector: "leftish", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FindDisplay(displays, tc.selector)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("FindDisplay(%q) succeeded, want error", tc.selector)
				}
				return
			}
			if err != nil {
				t.Fatalf("FindDisplay(%q): %v", tc.selector, err)
			}
			if got.Bounds.X != tc.wantX {
				t.Fatalf("FindDisplay(%q) picked display at x=%d, want %d", tc.selector, got.Bounds.X, tc.wantX)
			}
		})
	}
}

func TestFindDisplayNoDisplays(t *testing.T) {
	_, err := FindDisplay(nil, "primary")
	var empty *session.CaptureEmptyError
	if !errors.As(err, &empty) {
		t.Fatalf("expected CaptureEmptyError, got %v", err)
	}
}

func TestFindDisplayNoPrimaryFallsBackToFirst(t *testing.T) {
	displays := []geom.DisplayInfo{
		{Bounds: geom.Bounds{X: 100, Width: 800, Height: 600}},
		{Bounds: geom.Bounds{X: 900, Width: 800, Height: 600}},
	}
	got, err := FindDisplay(displays, "")
	if err != nil {
		t.Fatalf("FindDisplay: %v", err)
	}
	if got.Bounds.X != 100 {
		t.Fatalf("expected first display, got x=%d", got.Bounds.X)
	}
}

func TestDeviceRect(t *testing.T) {
	b := geom.Bounds{X: 10, Y: 20, Width: 100, Height: 50}
	if got := deviceRect(b, 2); got != image.Rect(20, 40, 220, 140) {
		t.Fatalf("deviceRect scale 2 = %v", got)
	}
	if got := deviceRect(b, 0); got != image.Rect(10, 20, 110, 70) {
		t.Fatalf("deviceRect zero scale should fall back to 1, got %v", got)
	}
	if got := deviceRect(b, 1.5); got != image.Rect(15, 30, 165, 105) {
		t.Fatalf("deviceRect scale 1.5 = %v", got)
	}
}

func TestCropFrame(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	src.SetRGBA(25, 15, color.RGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF})

	dst, err := cropFrame(src, image.Rect(20, 10, 30, 20))
	if err != nil {
		t.Fatalf("cropFrame: %v", err)
	}
	if dst.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("crop bounds = %v, want zero-based 10x10", dst.Bounds())
	}
	if got := dst.RGBAAt(5, 5); got != (color.RGBA{R: 0xAA, G: 0xBB, B: 0xCC, A: 0xFF}) {
		t.Fatalf("marker pixel = %v", got)
	}
}

func TestCropFrameOutsideSource(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 40, 30))
	_, err := cropFrame(src, image.Rect(100, 100, 120, 120))
	var empty *session.CaptureEmptyError
	if !errors.As(err, &empty) {
		t.Fatalf("expected CaptureEmptyError, got %v", err)
	}
}

func TestCheckFrame(t *testing.T) {
	if _, err := checkFrame(nil); err == nil {
		t.Fatal("nil frame must error")
	}
	if _, err := checkFrame(image.NewRGBA(image.Rect(0, 0, 0, 0))); err == nil {
		t.Fatal("zero-size frame must error")
	}
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	got, err := checkFrame(img)
	if err != nil || got != img {
		t.Fatalf("valid frame rejected: %v", err)
	}
}
