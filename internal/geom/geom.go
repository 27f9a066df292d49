// Package geom defines the coordinate spaces used by the capture pipeline
// and the conversions between them. Four spaces exist: canvas space (raw
// pointer coordinates inside the overlay, sizes may be signed to encode drag
// direction), display space (normalized logical-pixel bounds), device space
// (display space scaled by the display's scale factor) and image space
// (coordinates within the captured reference image buffer).
package geom

import "fmt"

// Point is a position in whichever space the caller is working in. Spaces are
// never mixed without an explicit conversion call.
type Point struct {
	X float64
	Y float64
}

// Rect is a canvas-space selection. Width and Height may be negative to
// preserve the drag direction; CanvasToDisplay is the only place that
// resolves the sign.
type Rect struct {
	StartX float64
	StartY float64
	Width  float64
	Height float64
}

// Bounds is a normalized rectangle in display, device or image space. Once
// validated both dimensions are positive.
type Bounds struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Size is a pixel dimension pair.
type Size struct {
	Width  int
	Height int
}

// DisplayInfo describes one physical display.
type DisplayInfo struct {
	Bounds      Bounds
	ScaleFactor float64
	Primary     bool
}

func (b Bounds) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", b.Width, b.Height, b.X, b.Y)
}

// Empty reports whether the bounds cover no area.
func (b Bounds) Empty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Size returns the dimensions of the bounds.
func (b Bounds) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Contains reports whether p falls inside b.
func (b Bounds) Contains(p Point) bool {
	return p.X >= float64(b.X) && p.X < float64(b.X+b.Width) &&
		p.Y >= float64(b.Y) && p.Y < float64(b.Y+b.Height)
}

// Union returns the bounding box covering all the provided bounds. Empty
// entries are skipped. The union of nothing is the zero Bounds.
func Union(all ...Bounds) Bounds {
	var out Bounds
	first := true
	for _, b := range all {
		if b.Empty() {
			continue
		}
		if first {
			out = b
			first = false
			continue
		}
		minX := min(out.X, b.X)
		minY := min(out.Y, b.Y)
		maxX := max(out.X+out.Width, b.X+b.Width)
		maxY := max(out.Y+out.Height, b.Y+b.Height)
		out = Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
	}
	return out
}

// DisplayNearestPoint returns the display whose bounds contain p, or failing
// that the display whose center is closest to p. The boolean is false when
// the list is empty.
func DisplayNearestPoint(displays []DisplayInfo, p Point) (DisplayInfo, bool) {
	if len(displays) == 0 {
		return DisplayInfo{}, false
	}
	best := displays[0]
	bestDist := -1.0
	for _, d := range displays {
		if d.Bounds.Contains(p) {
			return d, true
		}
		cx := float64(d.Bounds.X) + float64(d.Bounds.Width)/2
		cy := float64(d.Bounds.Y) + float64(d.Bounds.Height)/2
		dx := p.X - cx
		dy := p.Y - cy
		dist := dx*dx + dy*dy
		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = d
		}
	}
	return best, true
}
