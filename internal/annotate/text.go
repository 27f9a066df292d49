package annotate

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

var (
	fontOnce  sync.Once
	baseFont  *opentype.Font
	fontFaces sync.Map // map[float64]font.Face
)

func faceForSize(size float64) (font.Face, error) {
	var initErr error
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			initErr = err
			return
		}
		baseFont = f
	})
	if initErr != nil {
		return nil, initErr
	}
	if size <= 0 {
		size = 14
	}
	size = math.Round(size*4) / 4
	if face, ok := fontFaces.Load(size); ok {
		return face.(font.Face), nil
	}
	face, err := opentype.NewFace(baseFont, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	fontFaces.Store(size, face)
	return face, nil
}

// drawText renders a white outline pass followed by the filled glyphs so the
// text stays legible over arbitrary backgrounds. An empty string draws a
// blinking-cursor placeholder bar instead.
func (e *Engine) drawText(t Text) {
	at := e.toDevice(t.At)
	size := t.FontSize * e.scale
	face, err := faceForSize(size)
	if err != nil {
		log.Printf("annotate: text face: %v", err)
		return
	}
	metrics := face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	if t.Content == "" {
		bar := image.Rect(int(at.X), int(at.Y), int(at.X)+2, int(at.Y)+ascent+descent).Intersect(e.canvas.Bounds())
		draw.Draw(e.canvas, bar, image.NewUniform(t.Color), image.Point{}, draw.Over)
		return
	}

	baseline := fixed.P(int(at.X), int(at.Y)+ascent)
	outline := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	drawer := &font.Drawer{Dst: e.canvas, Face: face}

	drawer.Src = image.NewUniform(outline)
	for _, off := range [][2]int{{-1, -1}, {0, -1}, {1, -1}, {-1, 0}, {1, 0}, {-1, 1}, {0, 1}, {1, 1}} {
		drawer.Dot = fixed.P(int(at.X)+off[0], int(at.Y)+ascent+off[1])
		drawer.DrawString(t.Content)
	}

	drawer.Src = image.NewUniform(t.Color)
	drawer.Dot = baseline
	drawer.DrawString(t.Content)
}

// measureText returns the pixel bounding box of text at the given size.
func measureText(content string, size float64) (width, height int, err error) {
	face, err := faceForSize(size)
	if err != nil {
		return 0, 0, err
	}
	drawer := &font.Drawer{Face: face}
	metrics := face.Metrics()
	return drawer.MeasureString(content).Ceil(), metrics.Ascent.Ceil() + metrics.Descent.Ceil(), nil
}
