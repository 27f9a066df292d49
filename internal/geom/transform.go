package geom

import "math"

// CanvasToDisplay normalizes a signed canvas-space selection into positive
// display-space bounds. A negative width or height means the user dragged
// leftwards or upwards, so the origin shifts by the size before the absolute
// value is taken. This is the only place negative-size semantics are
// resolved.
func CanvasToDisplay(r Rect) Bounds {
	x := r.StartX
	if r.Width < 0 {
		x = r.StartX + r.Width
	}
	y := r.StartY
	if r.Height < 0 {
		y = r.StartY + r.Height
	}
	return Bounds{
		X:      int(math.Round(x)),
		Y:      int(math.Round(y)),
		Width:  int(math.Round(math.Abs(r.Width))),
		Height: int(math.Round(math.Abs(r.Height))),
	}
}

// DisplayToDevice scales display-space bounds into physical device pixels.
// All four fields are multiplied by the display scale factor and rounded to
// the nearest integer, so repeated calls with scale 1 are idempotent.
func DisplayToDevice(b Bounds, scale float64) Bounds {
	return Bounds{
		X:      int(math.Round(float64(b.X) * scale)),
		Y:      int(math.Round(float64(b.Y) * scale)),
		Width:  int(math.Round(float64(b.Width) * scale)),
		Height: int(math.Round(float64(b.Height) * scale)),
	}
}

// DisplayToImage maps display-space bounds into the captured image buffer,
// which may have a different pixel size than the logical capture area. The
// scale is derived from the width ratio alone and applied to both axes; the
// capture and image buffers are assumed to share an aspect ratio. Current
// display APIs always satisfy that, but it is an assumption, not a
// guarantee.
func DisplayToImage(b Bounds, capture Size, img Size) Bounds {
	if capture.Width == 0 {
		return b
	}
	scale := float64(img.Width) / float64(capture.Width)
	return DisplayToDevice(b, scale)
}

// Clamp restricts a point to [0, bounds.Width] x [0, bounds.Height]. It
// sanitizes mouse input that left the drawing surface; clamping of Bounds is
// the cropper's job.
func Clamp(p Point, b Bounds) Point {
	x := p.X
	if x < 0 {
		x = 0
	}
	if x > float64(b.Width) {
		x = float64(b.Width)
	}
	y := p.Y
	if y < 0 {
		y = 0
	}
	if y > float64(b.Height) {
		y = float64(b.Height)
	}
	return Point{X: x, Y: y}
}
