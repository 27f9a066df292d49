// Package render provides the pure pixel compositing helpers for the overlay
// chrome: the translucent dimming layer, the clear hole over the active
// selection, the mode-colored border and the corner decorations. Everything
// operates on *image.RGBA with no other state.
package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/example/glintshot/internal/geom"
)

// Mode selects the selection chrome treatment.
type Mode int

const (
	// ModeStill re-draws the frozen snapshot inside the selection hole.
	ModeStill Mode = iota
	// ModeRecord punches the selection hole fully transparent so a live
	// feed underneath shows through.
	ModeRecord
)

// ChromeOptions configures DrawChrome.
type ChromeOptions struct {
	Dim          color.RGBA
	Border       color.RGBA
	BorderWidth  int
	CornerLength int
	CornerWidth  int
}

// DefaultChromeOptions returns the standard overlay treatment: a half-dark
// dim layer and a 2px border with 16px corner marks.
func DefaultChromeOptions(mode Mode) ChromeOptions {
	border := color.RGBA{R: 0x2d, G: 0x8c, B: 0xf0, A: 0xff}
	if mode == ModeRecord {
		border = color.RGBA{R: 0xe5, G: 0x48, B: 0x4d, A: 0xff}
	}
	return ChromeOptions{
		Dim:          color.RGBA{A: 0x80},
		Border:       border,
		BorderWidth:  2,
		CornerLength: 16,
		CornerWidth:  4,
	}
}

// DrawChrome dims dst everywhere, punches a clear hole over the selection and
// strokes the border plus four L-shaped corner decorations. For ModeStill the
// hole is re-drawn from the snapshot; for ModeRecord it is cleared to
// transparent so a live feed underneath remains visible.
func DrawChrome(dst, snapshot *image.RGBA, selection geom.Bounds, mode Mode, opts ChromeOptions) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Dim), image.Point{}, draw.Over)
	if selection.Empty() {
		return
	}
	hole := image.Rect(selection.X, selection.Y, selection.X+selection.Width, selection.Y+selection.Height).Intersect(dst.Bounds())
	if hole.Empty() {
		return
	}
	if mode == ModeStill && snapshot != nil {
		draw.Draw(dst, hole, snapshot, hole.Min, draw.Src)
	} else if mode == ModeRecord {
		draw.Draw(dst, hole, image.Transparent, image.Point{}, draw.Src)
	}
	strokeRect(dst, hole, opts.Border, opts.BorderWidth)
	drawCorners(dst, hole, opts.Border, opts.CornerLength, opts.CornerWidth)
}

// strokeRect draws a rectangle outline of the given width just inside rect.
func strokeRect(dst *image.RGBA, rect image.Rectangle, col color.RGBA, width int) {
	if width < 1 {
		width = 1
	}
	src := image.NewUniform(col)
	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+width)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-width, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+width, rect.Max.Y)
	right := image.Rect(rect.Max.X-width, rect.Min.Y, rect.Max.X, rect.Max.Y)
	for _, r := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(dst, r.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

// drawCorners renders one L shape per corner, each rotated into place by
// flipping the arm directions.
func drawCorners(dst *image.RGBA, rect image.Rectangle, col color.RGBA, length, width int) {
	if length < 1 || width < 1 {
		return
	}
	src := image.NewUniform(col)
	corners := []struct {
		origin image.Point
		dx, dy int
	}{
		{image.Pt(rect.Min.X, rect.Min.Y), 1, 1},
		{image.Pt(rect.Max.X, rect.Min.Y), -1, 1},
		{image.Pt(rect.Min.X, rect.Max.Y), 1, -1},
		{image.Pt(rect.Max.X, rect.Max.Y), -1, -1},
	}
	for _, c := range corners {
		h := armRect(c.origin, c.dx, c.dy, length, width)
		v := armRect(c.origin, c.dx, c.dy, width, length)
		draw.Draw(dst, h.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
		draw.Draw(dst, v.Intersect(dst.Bounds()), src, image.Point{}, draw.Over)
	}
}

func armRect(origin image.Point, dx, dy, w, h int) image.Rectangle {
	x0 := origin.X
	x1 := origin.X + dx*w
	y0 := origin.Y
	y1 := origin.Y + dy*h
	return image.Rect(x0, y0, x1, y1).Canon()
}

// Restore copies the snapshot back into dst, the cheap per-frame reset that
// avoids re-decoding the source image.
func Restore(dst, snapshot *image.RGBA) {
	if dst == nil || snapshot == nil {
		return
	}
	if len(dst.Pix) == len(snapshot.Pix) && dst.Stride == snapshot.Stride {
		copy(dst.Pix, snapshot.Pix)
		return
	}
	draw.Draw(dst, dst.Bounds(), snapshot, snapshot.Bounds().Min, draw.Src)
}
