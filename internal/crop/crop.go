// Package crop validates selection bounds and extracts pixel regions from a
// captured frame. ValidateBounds is the single chokepoint that keeps
// degenerate rectangles away from every downstream crop and export path.
package crop

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/example/glintshot/internal/geom"
)

// MinSelectionSize is the default minimum selection edge in pixels.
const MinSelectionSize = 10

// CropError reports that a crop could not be performed on the source image.
type CropError struct {
	Reason string
}

func (e *CropError) Error() string { return fmt.Sprintf("crop: %s", e.Reason) }

// InvalidBoundsError reports a degenerate or out-of-range selection. It is an
// input problem, never retried.
type InvalidBoundsError struct {
	Bounds geom.Bounds
}

func (e *InvalidBoundsError) Error() string {
	return fmt.Sprintf("invalid selection bounds %s", e.Bounds)
}

// ImageTooSmallError reports a selection below the minimum exportable size.
type ImageTooSmallError struct {
	Width  int
	Height int
	Min    int
}

func (e *ImageTooSmallError) Error() string {
	return fmt.Sprintf("selection too small: minimum %dpx, got %dx%d", e.Min, e.Width, e.Height)
}

// ValidateBounds clamps b so it always fits inside img and is at least min
// pixels in both dimensions, whatever the input looked like. The position is
// clamped into [0, img-min] first so the minimum size always has room.
func ValidateBounds(b geom.Bounds, img geom.Size, min int) geom.Bounds {
	if min < 1 {
		min = 1
	}
	x := clampInt(b.X, 0, maxInt(0, img.Width-min))
	y := clampInt(b.Y, 0, maxInt(0, img.Height-min))
	w := clampInt(b.Width, min, maxInt(min, img.Width-x))
	h := clampInt(b.Height, min, maxInt(min, img.Height-y))
	return geom.Bounds{X: x, Y: y, Width: w, Height: h}
}

// FromDisplay crops the region described by display-space bounds out of the
// full captured frame. The bounds are first mapped into image space using the
// width ratio between the logical capture area and the actual buffer, then
// validated against the buffer size.
func FromDisplay(full *image.RGBA, display geom.Bounds, capture geom.Size) (*image.RGBA, error) {
	if full == nil || full.Bounds().Empty() {
		return nil, &CropError{Reason: "source image has zero area"}
	}
	imgSize := geom.Size{Width: full.Bounds().Dx(), Height: full.Bounds().Dy()}
	mapped := geom.DisplayToImage(display, capture, imgSize)
	valid := ValidateBounds(mapped, imgSize, MinSelectionSize)
	return Region(full, valid)
}

// Region copies the validated bounds out of src into a fresh zero-based
// buffer. Callers are expected to have run the bounds through ValidateBounds.
func Region(src *image.RGBA, b geom.Bounds) (*image.RGBA, error) {
	if b.Empty() {
		return nil, &InvalidBoundsError{Bounds: b}
	}
	rect := image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height).Intersect(src.Bounds())
	if rect.Empty() {
		return nil, &InvalidBoundsError{Bounds: b}
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

// MeetsMinimumSize reports whether img is at least min pixels in both
// dimensions. Every export path checks this before doing any work; false is
// a user-facing "selection too small" condition, not a crash.
func MeetsMinimumSize(img image.Image, min int) bool {
	if img == nil {
		return false
	}
	b := img.Bounds()
	return b.Dx() >= min && b.Dy() >= min
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
