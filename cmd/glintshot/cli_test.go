package main

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/glintshot/internal/capture"
	"github.com/example/glintshot/internal/config"
	"github.com/example/glintshot/internal/crop"
	"github.com/example/glintshot/internal/geom"
)

func testRoot() *root {
	return &root{program: "glintshot", config: config.New()}
}

func TestParseCropRect(t *testing.T) {
	cases := []struct {
		in   string
		want geom.Bounds
		ok   bool
	}{
		{in: "10,20,30,40", want: geom.Bounds{X: 10, Y: 20, Width: 30, Height: 40}, ok: true},
		{in: " 1, 2, 3, 4 ", want: geom.Bounds{X: 1, Y: 2, Width: 3, Height: 4}, ok: true},
		{in: "10,20,30", ok: false},
		{in: "a,b,c,d", ok: false},
		{in: "0,0,0,10", ok: false},
		{in: "", ok: false},
	}
	for _, tc := range cases {
		got, err := parseCropRect(tc.in)
		if tc.ok {
			if err != nil {
				t.Errorf("parseCropRect(%q): %v", tc.in, err)
			} else if got != tc.want {
				t.Errorf("parseCropRect(%q) = %v, want %v", tc.in, got, tc.want)
			}
			continue
		}
		if err == nil {
			t.Errorf("parseCropRect(%q): expected error", tc.in)
		}
	}
}

func TestParseCropRequiresFileAndRect(t *testing.T) {
	if _, err := parseCropCmd([]string{"-rect", "0,0,20,20"}, testRoot()); err == nil {
		t.Fatal("expected usage error without -file")
	}
	if _, err := parseCropCmd([]string{"-file", "shot.png"}, testRoot()); err == nil {
		t.Fatal("expected usage error without -rect")
	}
}

func writeTestPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestCropRunTooSmallSelection(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	writeTestPNG(t, src, 60, 40)

	cmd, err := parseCropCmd([]string{"-file", src, "-rect", "0,0,5,5", "-out", filepath.Join(dir, "out.png")}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	err = cmd.Run()
	var small *crop.ImageTooSmallError
	if !errors.As(err, &small) {
		t.Fatalf("expected ImageTooSmallError, got %v", err)
	}
}

func TestCropRunWritesDecodablePNG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.png")
	out := filepath.Join(dir, "out.png")
	writeTestPNG(t, src, 60, 40)

	cmd, err := parseCropCmd([]string{"-file", src, "-rect", "10,10,20,15", "-out", out}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 15 {
		t.Fatalf("crop size = %dx%d, want 20x15", b.Dx(), b.Dy())
	}
}

func TestCropRunMissingFile(t *testing.T) {
	cmd, err := parseCropCmd([]string{"-file", "/no/such/file.png", "-rect", "0,0,20,20"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestShootRunBackendError(t *testing.T) {
	original := newBackendFn
	sentinel := errors.New("no such backend")
	newBackendFn = func(string) (capture.Backend, error) { return nil, sentinel }
	t.Cleanup(func() { newBackendFn = original })

	cmd, err := parseShootCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); !errors.Is(err, sentinel) {
		t.Fatalf("expected backend error, got %v", err)
	}
}

func TestParseShootRejectsOperands(t *testing.T) {
	if _, err := parseShootCmd([]string{"extra"}, testRoot()); err == nil {
		t.Fatal("expected usage error for stray operand")
	}
}

type fakeBackend struct {
	displays []geom.DisplayInfo
}

func (f *fakeBackend) List() ([]geom.DisplayInfo, error)   { return f.displays, nil }
func (f *fakeBackend) CursorPosition() (geom.Point, error) { return geom.Point{}, nil }
func (f *fakeBackend) CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error) {
	return nil, errors.New("not implemented")
}

func TestDisplaysRunListsLayout(t *testing.T) {
	original := newBackendFn
	newBackendFn = func(string) (capture.Backend, error) {
		return &fakeBackend{displays: []geom.DisplayInfo{
			{Bounds: geom.Bounds{Width: 1920, Height: 1080}, ScaleFactor: 1, Primary: true},
			{Bounds: geom.Bounds{X: 1920, Width: 1280, Height: 720}, ScaleFactor: 2},
		}}, nil
	}
	t.Cleanup(func() { newBackendFn = original })

	cmd, err := parseDisplaysCmd(nil, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestPinnedDisplaysNarrowsToSelection(t *testing.T) {
	backend := &fakeBackend{displays: []geom.DisplayInfo{
		{Bounds: geom.Bounds{Width: 1920, Height: 1080}, ScaleFactor: 1, Primary: true},
		{Bounds: geom.Bounds{X: 1920, Width: 1280, Height: 720}, ScaleFactor: 2},
	}}
	pinned := &pinnedDisplays{backend: backend, selector: "1"}
	got, err := pinned.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].Bounds.X != 1920 {
		t.Fatalf("List = %+v, want the second display only", got)
	}
	if _, err := pinned.CursorPosition(); err == nil {
		t.Fatal("pinned cursor position should error so the session falls back to the pinned display")
	}
}

func TestRootRejectsUnknownCommand(t *testing.T) {
	r := testRoot()
	r.fs = newRoot().fs
	err := r.Run([]string{"frobnicate"})
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if !strings.Contains(uerr.Error(), "usage:") {
		t.Fatalf("usage text missing: %q", uerr.Error())
	}
}
