//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func rgbaSetup() *xproto.SetupInfo {
	return &xproto.SetupInfo{
		PixmapFormats: []xproto.Format{
			{Depth: 1, BitsPerPixel: 1},
			{Depth: 24, BitsPerPixel: 32},
		},
	}
}

func TestXImageToRGBASwizzlesBGRA(t *testing.T) {
	// 2x1 frame: red then blue, in X's BGRA byte order.
	reply := &xproto.GetImageReply{
		Depth: 24,
		Data: []byte{
			0x00, 0x00, 0xFF, 0xFF,
			0xFF, 0x00, 0x00, 0xFF,
		},
	}
	img, err := xImageToRGBA(rgbaSetup(), reply, 2, 1)
	if err != nil {
		t.Fatalf("xImageToRGBA: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("pixel 0 = %v, want red", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{B: 0xFF, A: 0xFF}) {
		t.Fatalf("pixel 1 = %v, want blue", got)
	}
}

func TestXImageToRGBAPaddedStride(t *testing.T) {
	// 1x2 frame with 8 bytes per row: the pad must be skipped.
	reply := &xproto.GetImageReply{
		Depth: 24,
		Data: []byte{
			0x10, 0x20, 0x30, 0xFF, 0, 0, 0, 0,
			0x40, 0x50, 0x60, 0xFF, 0, 0, 0, 0,
		},
	}
	img, err := xImageToRGBA(rgbaSetup(), reply, 1, 2)
	if err != nil {
		t.Fatalf("xImageToRGBA: %v", err)
	}
	if got := img.RGBAAt(0, 1); got != (color.RGBA{R: 0x60, G: 0x50, B: 0x40, A: 0xFF}) {
		t.Fatalf("row 1 pixel = %v", got)
	}
}

func TestXImageToRGBAErrors(t *testing.T) {
	if _, err := xImageToRGBA(rgbaSetup(), nil, 1, 1); err == nil {
		t.Fatal("nil reply must error")
	}
	if _, err := xImageToRGBA(rgbaSetup(), &xproto.GetImageReply{Depth: 16, Data: []byte{0, 0}}, 1, 1); err == nil {
		t.Fatal("unknown depth must error")
	}
}
