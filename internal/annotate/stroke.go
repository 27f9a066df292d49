package annotate

import (
	"image"
	"image/color"
	"math"

	"github.com/example/glintshot/internal/geom"
)

// catmullTension is the interpolation tension for freehand smoothing.
const catmullTension = 0.5

// pressureSensitivity scales how much pen pressure widens a stroke.
const pressureSensitivity = 1.0

func (e *Engine) drawPencil(p Pencil) {
	if len(p.Points) == 0 || p.LineWidth <= 0 {
		return
	}
	pts := e.toDeviceAll(p.Points)
	width := p.LineWidth * e.scale

	if len(pts) == 1 {
		fillDisc(e.canvas, pts[0].X, pts[0].Y, width/2, p.Color)
		return
	}
	if len(pts) >= 3 {
		pts = smoothPath(pts)
	}
	if p.Taper {
		drawTaperedStroke(e.canvas, pts, p.Pressure, width, p.Style, p.Color)
		return
	}
	strokePolyline(e.canvas, pts, width, p.Color)
}

// catmullRom evaluates the spline between p1 and p2 at t using p0 and p3 as
// neighbors.
func catmullRom(p0, p1, p2, p3 geom.Point, t float64) geom.Point {
	t2 := t * t
	t3 := t2 * t
	f := func(a0, a1, a2, a3 float64) float64 {
		return catmullTension * ((2 * a1) + (-a0+a2)*t + (2*a0-5*a1+4*a2-a3)*t2 + (-a0+3*a1-3*a2+a3)*t3)
	}
	return geom.Point{
		X: f(p0.X, p1.X, p2.X, p3.X),
		Y: f(p0.Y, p1.Y, p2.Y, p3.Y),
	}
}

// smoothPath resamples the polyline through a Catmull-Rom spline so strokes
// do not look polygonal. Endpoints are duplicated to anchor the first and
// last spans.
func smoothPath(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return pts
	}
	out := make([]geom.Point, 0, len(pts)*4)
	for i := 0; i < len(pts)-1; i++ {
		p0 := pts[maxIdx(i-1, 0)]
		p1 := pts[i]
		p2 := pts[i+1]
		p3 := pts[minIdx(i+2, len(pts)-1)]
		steps := segmentSteps(p1, p2)
		for s := 0; s < steps; s++ {
			out = append(out, catmullRom(p0, p1, p2, p3, float64(s)/float64(steps)))
		}
	}
	out = append(out, pts[len(pts)-1])
	return out
}

// segmentSteps picks a sample count proportional to segment length so the
// resampled path stays dense enough for disc stamping.
func segmentSteps(a, b geom.Point) int {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(d / 2))
	if steps < 2 {
		steps = 2
	}
	if steps > 64 {
		steps = 64
	}
	return steps
}

// taperFactor returns the per-style width profile at parametric position
// p in [0,1]. Each pen gets a distinct feel without any texture assets.
func taperFactor(style PenStyle, p float64) float64 {
	switch style {
	case PenBrush:
		return math.Sin(math.Pi*p)*0.8 + 0.2
	case PenFountain:
		// Asymmetric: thin start, full end.
		return 0.2 + 0.8*math.Sqrt(p)
	case PenPencil:
		return 0.7 + 0.3*math.Sin(math.Pi*p)
	case PenMarker:
		return 0.9 + 0.1*math.Sin(math.Pi*p)
	default:
		return 0.5 + 0.5*math.Sin(math.Pi*p)
	}
}

// pressureAt linearly interpolates the recorded pressure samples at
// parametric position p. Without samples a constant medium pressure applies.
func pressureAt(pressure []float64, p float64) float64 {
	if len(pressure) == 0 {
		return 0.5
	}
	if len(pressure) == 1 {
		return clamp01(pressure[0])
	}
	pos := p * float64(len(pressure)-1)
	i := int(pos)
	if i >= len(pressure)-1 {
		return clamp01(pressure[len(pressure)-1])
	}
	frac := pos - float64(i)
	return clamp01(pressure[i]*(1-frac) + pressure[i+1]*frac)
}

// drawTaperedStroke walks the cumulative arc length of the path and stamps a
// filled disc at each sample, its radius driven by pressure and the pen
// style profile. The overlapping discs synthesize the filled ribbon.
func drawTaperedStroke(dst *image.RGBA, pts []geom.Point, pressure []float64, baseWidth float64, style PenStyle, col color.RGBA) {
	if len(pts) < 2 {
		return
	}
	total := 0.0
	lengths := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		total += math.Hypot(pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y)
		lengths[i] = total
	}
	if total == 0 {
		return
	}
	for i, pt := range pts {
		p := lengths[i] / total
		half := baseWidth * (0.5 + pressureAt(pressure, p)*pressureSensitivity) * taperFactor(style, p) / 2
		if half < 0.5 {
			half = 0.5
		}
		fillDisc(dst, pt.X, pt.Y, half, col)
	}
}

// strokePolyline stamps constant-width discs along every segment.
func strokePolyline(dst *image.RGBA, pts []geom.Point, width float64, col color.RGBA) {
	r := width / 2
	if r < 0.5 {
		r = 0.5
	}
	for i := 1; i < len(pts); i++ {
		stampSegment(dst, pts[i-1], pts[i], r, col)
	}
}

func stampSegment(dst *image.RGBA, a, b geom.Point, r float64, col color.RGBA) {
	d := math.Hypot(b.X-a.X, b.Y-a.Y)
	steps := int(math.Ceil(d)) + 1
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		fillDisc(dst, a.X+(b.X-a.X)*t, a.Y+(b.Y-a.Y)*t, r, col)
	}
}

func fillDisc(dst *image.RGBA, cx, cy, r float64, col color.RGBA) {
	if dst == nil || r <= 0 {
		return
	}
	x0 := int(math.Floor(cx - r))
	x1 := int(math.Ceil(cx + r))
	y0 := int(math.Floor(cy - r))
	y1 := int(math.Ceil(cy + r))
	rr := r * r
	bounds := dst.Bounds()
	for y := y0; y <= y1; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x0; x <= x1; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			dx := float64(x) + 0.5 - cx
			dy := float64(y) + 0.5 - cy
			if dx*dx+dy*dy <= rr {
				dst.SetRGBA(x, y, col)
			}
		}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func maxIdx(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minIdx(a, b int) int {
	if a < b {
		return a
	}
	return b
}
