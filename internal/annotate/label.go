package annotate

import (
	"image/color"
	"log"
	"strconv"

	"github.com/example/glintshot/internal/geom"
)

const (
	labelGap      = 6
	labelPadX     = 8
	labelPadY     = 3
	labelFontSize = 13.0
)

// drawSequenceLabel renders the pill-shaped sequence number next to a shape.
// Candidate positions are tried in order: right of the shape, left, above,
// below, then inside the shape's top-right corner; the first one fully inside
// the labeling bounds wins. The ordered fallback keeps labels from spilling
// off the edge rather than overlapping the shape by accident.
func (e *Engine) drawSequenceLabel(seq int, shape geom.Bounds, col color.RGBA) {
	content := strconv.Itoa(seq)
	textW, textH, err := measureText(content, labelFontSize*e.scale)
	if err != nil {
		log.Printf("annotate: sequence label: %v", err)
		return
	}
	w := textW + 2*labelPadX
	h := textH + 2*labelPadY

	limit := e.labelBounds
	if limit.Empty() && e.canvas != nil {
		b := e.canvas.Bounds()
		limit = geom.Bounds{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()}
	}

	midY := shape.Y + shape.Height/2 - h/2
	midX := shape.X + shape.Width/2 - w/2
	candidates := []geom.Bounds{
		{X: shape.X + shape.Width + labelGap, Y: midY, Width: w, Height: h},
		{X: shape.X - labelGap - w, Y: midY, Width: w, Height: h},
		{X: midX, Y: shape.Y - labelGap - h, Width: w, Height: h},
		{X: midX, Y: shape.Y + shape.Height + labelGap, Width: w, Height: h},
		{X: shape.X + shape.Width - w - labelGap, Y: shape.Y + labelGap, Width: w, Height: h},
	}

	pill := candidates[len(candidates)-1]
	for _, c := range candidates {
		if insideBounds(c, limit) {
			pill = c
			break
		}
	}

	fillRoundedRect(e.canvas, pill, float64(h)/2, color.RGBA{R: col.R, G: col.G, B: col.B, A: 0xff})
	e.drawLabelText(pill, content)
}

func (e *Engine) drawLabelText(pill geom.Bounds, content string) {
	textW, _, err := measureText(content, labelFontSize*e.scale)
	if err != nil {
		return
	}
	// drawText expects canvas space, so divide the device position back out.
	x := (float64(pill.X) + float64(pill.Width-textW)/2) / e.scale
	y := (float64(pill.Y) + labelPadY) / e.scale
	e.drawText(Text{
		At:       geom.Point{X: x, Y: y},
		Content:  content,
		FontSize: labelFontSize,
		Color:    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	})
}

// SetLabelBounds restricts where sequence labels may be placed. Empty bounds
// fall back to the whole canvas.
func (e *Engine) SetLabelBounds(b geom.Bounds) { e.labelBounds = b }

func insideBounds(inner, outer geom.Bounds) bool {
	return inner.X >= outer.X && inner.Y >= outer.Y &&
		inner.X+inner.Width <= outer.X+outer.Width &&
		inner.Y+inner.Height <= outer.Y+outer.Height
}
