//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

// xImageToRGBA converts a ZPixmap reply to RGBA. X hands pixels back in
// BGRA order for the common 24 and 32 bit visuals.
func xImageToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("empty geometry %dx%d", width, height)
	}
	bpp := 0
	for _, format := range setup.PixmapFormats {
		if format.Depth == reply.Depth {
			bpp = int(format.BitsPerPixel) / 8
			break
		}
	}
	if bpp < 3 {
		return nil, fmt.Errorf("unsupported pixel format for depth %d", reply.Depth)
	}
	if len(reply.Data)%height != 0 {
		return nil, fmt.Errorf("unexpected stride for %dx%d frame", width, height)
	}
	stride := len(reply.Data) / height

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride : (y+1)*stride]
		for x := 0; x < width; x++ {
			src := x * bpp
			if src+bpp > len(row) {
				break
			}
			dst := img.PixOffset(x, y)
			img.Pix[dst+0] = row[src+2]
			img.Pix[dst+1] = row[src+1]
			img.Pix[dst+2] = row[src+0]
			if bpp >= 4 {
				img.Pix[dst+3] = row[src+3]
			} else {
				img.Pix[dst+3] = 0xFF
			}
		}
	}
	return img, nil
}
