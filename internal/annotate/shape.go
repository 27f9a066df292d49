package annotate

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/example/glintshot/internal/geom"
)

func (e *Engine) drawRectangle(r Rectangle) {
	a := e.toDevice(r.A)
	b := e.toDevice(r.B)
	box := boundingBox(a, b)
	if box.Empty() {
		return
	}
	radius := r.CornerRadius * e.scale
	if r.FillColor.A > 0 {
		fillRoundedRect(e.canvas, box, radius, r.FillColor)
	}
	if r.StrokeWidth > 0 && r.StrokeColor.A > 0 {
		path := roundedRectPath(box, radius)
		e.strokeShapePath(path, box, r.ShapeStyle)
	}
	if r.Sequence > 0 {
		e.drawSequenceLabel(r.Sequence, box, r.StrokeColor)
	}
}

func (e *Engine) drawEllipse(el Ellipse) {
	a := e.toDevice(el.A)
	b := e.toDevice(el.B)
	box := boundingBox(a, b)
	if box.Empty() {
		return
	}
	if el.FillColor.A > 0 {
		fillEllipse(e.canvas, box, el.FillColor)
	}
	if el.StrokeWidth > 0 && el.StrokeColor.A > 0 {
		path := ellipsePath(box)
		e.strokeShapePath(path, box, el.ShapeStyle)
	}
	if el.Sequence > 0 {
		e.drawSequenceLabel(el.Sequence, box, el.StrokeColor)
	}
}

// strokeShapePath stamps the outline path with a gradient along the shape's
// diagonal: the stroke color lightens toward the midpoint for a subtle depth
// cue. A dash pattern skips samples during the off phases.
func (e *Engine) strokeShapePath(path []geom.Point, box geom.Bounds, style ShapeStyle) {
	if len(path) < 2 {
		return
	}
	width := style.StrokeWidth * e.scale
	r := width / 2
	if r < 0.5 {
		r = 0.5
	}

	diagX := float64(box.Width)
	diagY := float64(box.Height)
	diagLen2 := diagX*diagX + diagY*diagY
	gradientAt := func(p geom.Point) color.RGBA {
		if diagLen2 == 0 {
			return style.StrokeColor
		}
		t := ((p.X-float64(box.X))*diagX + (p.Y-float64(box.Y))*diagY) / diagLen2
		return lightenTowardMid(style.StrokeColor, clamp01(t))
	}

	dash := newDashWalker(style.Dash, e.scale)
	prev := path[0]
	for i := 1; i < len(path); i++ {
		cur := path[i]
		seg := math.Hypot(cur.X-prev.X, cur.Y-prev.Y)
		if dash.on(seg) {
			col := gradientAt(cur)
			stampSegment(e.canvas, prev, cur, r, col)
		}
		prev = cur
	}
}

// lightenTowardMid blends the base color toward a lightened variant, peaking
// at the diagonal midpoint (t = 0.5).
func lightenTowardMid(base color.RGBA, t float64) color.RGBA {
	if base.A == 0 {
		return base
	}
	weight := math.Sin(math.Pi*t) * 0.6
	if weight < 0.001 {
		return base
	}
	c, ok := colorful.MakeColor(color.NRGBA{R: base.R, G: base.G, B: base.B, A: 0xff})
	if !ok {
		return base
	}
	h, s, l := c.Hsl()
	light := colorful.Hsl(h, s, math.Min(1, l+0.25))
	blended := c.BlendLab(light, weight).Clamped()
	r8, g8, b8 := blended.RGB255()
	return color.RGBA{R: r8, G: g8, B: b8, A: base.A}
}

// dashWalker tracks position within a repeating on/off dash pattern measured
// in device pixels.
type dashWalker struct {
	pattern []float64
	idx     int
	rem     float64
}

func newDashWalker(pattern []float64, scale float64) *dashWalker {
	if len(pattern) == 0 {
		return &dashWalker{}
	}
	scaled := make([]float64, 0, len(pattern))
	for _, d := range pattern {
		if d > 0 {
			scaled = append(scaled, d*scale)
		}
	}
	if len(scaled) == 0 {
		return &dashWalker{}
	}
	return &dashWalker{pattern: scaled, rem: scaled[0]}
}

// on consumes length along the path and reports whether the current phase is
// a drawn one. Even indices draw, odd indices skip.
func (d *dashWalker) on(length float64) bool {
	if len(d.pattern) == 0 {
		return true
	}
	drawn := d.idx%2 == 0
	d.rem -= length
	for d.rem <= 0 {
		d.idx = (d.idx + 1) % len(d.pattern)
		d.rem += d.pattern[d.idx]
	}
	return drawn
}

func boundingBox(a, b geom.Point) geom.Bounds {
	return geom.CanvasToDisplay(geom.Rect{StartX: a.X, StartY: a.Y, Width: b.X - a.X, Height: b.Y - a.Y})
}

// roundedRectPath returns a dense outline polyline for the box, with
// quarter-circle corners when radius > 0.
func roundedRectPath(box geom.Bounds, radius float64) []geom.Point {
	x0 := float64(box.X)
	y0 := float64(box.Y)
	x1 := float64(box.X + box.Width)
	y1 := float64(box.Y + box.Height)
	maxR := math.Min(float64(box.Width), float64(box.Height)) / 2
	r := math.Min(math.Max(radius, 0), maxR)

	if r < 1 {
		return []geom.Point{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}, {X: x0, Y: y0}}
	}

	arc := func(cx, cy, from, to float64) []geom.Point {
		const steps = 8
		pts := make([]geom.Point, 0, steps+1)
		for s := 0; s <= steps; s++ {
			a := from + (to-from)*float64(s)/steps
			pts = append(pts, geom.Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)})
		}
		return pts
	}

	var path []geom.Point
	path = append(path, geom.Point{X: x0 + r, Y: y0})
	path = append(path, geom.Point{X: x1 - r, Y: y0})
	path = append(path, arc(x1-r, y0+r, -math.Pi/2, 0)...)
	path = append(path, geom.Point{X: x1, Y: y1 - r})
	path = append(path, arc(x1-r, y1-r, 0, math.Pi/2)...)
	path = append(path, geom.Point{X: x0 + r, Y: y1})
	path = append(path, arc(x0+r, y1-r, math.Pi/2, math.Pi)...)
	path = append(path, geom.Point{X: x0, Y: y0 + r})
	path = append(path, arc(x0+r, y0+r, math.Pi, 3*math.Pi/2)...)
	return path
}

// ellipsePath samples the ellipse inscribed in box.
func ellipsePath(box geom.Bounds) []geom.Point {
	cx := float64(box.X) + float64(box.Width)/2
	cy := float64(box.Y) + float64(box.Height)/2
	rx := float64(box.Width) / 2
	ry := float64(box.Height) / 2
	perimeter := math.Pi * (rx + ry)
	steps := int(math.Ceil(perimeter / 2))
	if steps < 16 {
		steps = 16
	}
	pts := make([]geom.Point, 0, steps+1)
	for s := 0; s <= steps; s++ {
		a := 2 * math.Pi * float64(s) / float64(steps)
		pts = append(pts, geom.Point{X: cx + rx*math.Cos(a), Y: cy + ry*math.Sin(a)})
	}
	return pts
}

func fillRoundedRect(dst *image.RGBA, box geom.Bounds, radius float64, col color.RGBA) {
	maxR := math.Min(float64(box.Width), float64(box.Height)) / 2
	r := math.Min(math.Max(radius, 0), maxR)
	bounds := dst.Bounds()
	for y := box.Y; y < box.Y+box.Height; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		inset := 0.0
		top := float64(y) - float64(box.Y)
		bottom := float64(box.Y+box.Height-1) - float64(y)
		if top < r {
			dy := r - top
			inset = r - math.Sqrt(math.Max(0, r*r-dy*dy))
		} else if bottom < r {
			dy := r - bottom
			inset = r - math.Sqrt(math.Max(0, r*r-dy*dy))
		}
		x0 := box.X + int(math.Ceil(inset))
		x1 := box.X + box.Width - int(math.Ceil(inset))
		for x := x0; x < x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dst.SetRGBA(x, y, blendOver(dst.RGBAAt(x, y), col))
		}
	}
}

func fillEllipse(dst *image.RGBA, box geom.Bounds, col color.RGBA) {
	cx := float64(box.X) + float64(box.Width)/2
	cy := float64(box.Y) + float64(box.Height)/2
	rx := float64(box.Width) / 2
	ry := float64(box.Height) / 2
	if rx <= 0 || ry <= 0 {
		return
	}
	bounds := dst.Bounds()
	for y := box.Y; y < box.Y+box.Height; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		dy := (float64(y) + 0.5 - cy) / ry
		if dy*dy > 1 {
			continue
		}
		half := rx * math.Sqrt(1-dy*dy)
		x0 := int(math.Ceil(cx - half))
		x1 := int(math.Floor(cx + half))
		for x := x0; x <= x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dst.SetRGBA(x, y, blendOver(dst.RGBAAt(x, y), col))
		}
	}
}

// blendOver composites src over dst using the source alpha.
func blendOver(dst, src color.RGBA) color.RGBA {
	if src.A == 0xff {
		return src
	}
	if src.A == 0 {
		return dst
	}
	a := uint32(src.A)
	inv := 255 - a
	return color.RGBA{
		R: uint8((uint32(src.R)*a + uint32(dst.R)*inv) / 255),
		G: uint8((uint32(src.G)*a + uint32(dst.G)*inv) / 255),
		B: uint8((uint32(src.B)*a + uint32(dst.B)*inv) / 255),
		A: uint8((a*255 + uint32(dst.A)*inv) / 255),
	}
}
