package annotate

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/glintshot/internal/geom"
)

// drawMosaic redacts the stroke path with flat grid cells. Each sample point
// snaps to a blockSize-aligned cell whose color is read from the center of
// that cell in the initial snapshot, never from already-mosaicked pixels, so
// repeated application yields identical output instead of cascading blur.
func (e *Engine) drawMosaic(m Mosaic) {
	if len(m.Points) == 0 || e.snapshot == nil {
		return
	}
	block := int(math.Round(float64(m.BlockSize) * e.scale))
	if block < 2 {
		block = 2
	}
	pts := e.toDeviceAll(m.Points)

	seen := make(map[image.Point]struct{})
	fill := func(p geom.Point) {
		cell := image.Pt(int(p.X)/block*block, int(p.Y)/block*block)
		if p.X < 0 || p.Y < 0 {
			return
		}
		if _, ok := seen[cell]; ok {
			return
		}
		seen[cell] = struct{}{}
		e.fillCell(cell, block)
	}

	fill(pts[0])
	step := float64(block) / 2
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := math.Hypot(b.X-a.X, b.Y-a.Y)
		n := int(math.Ceil(d / step))
		for s := 1; s <= n; s++ {
			t := float64(s) / float64(n)
			fill(geom.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t})
		}
	}
}

// fillCell flat-fills one grid cell with the snapshot color at the cell
// center.
func (e *Engine) fillCell(cell image.Point, block int) {
	bounds := e.snapshot.Bounds()
	rect := image.Rect(cell.X, cell.Y, cell.X+block, cell.Y+block).Intersect(bounds)
	if rect.Empty() {
		return
	}
	cx := cell.X + block/2
	cy := cell.Y + block/2
	if cx >= bounds.Max.X {
		cx = bounds.Max.X - 1
	}
	if cy >= bounds.Max.Y {
		cy = bounds.Max.Y - 1
	}
	sample := e.snapshot.RGBAAt(cx, cy)
	draw.Draw(e.canvas, rect, image.NewUniform(color.RGBA{R: sample.R, G: sample.G, B: sample.B, A: 0xff}), image.Point{}, draw.Src)
}
