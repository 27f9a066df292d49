package annotate

import (
	"image"
	"time"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/render"
)

// RenderStats reports the physical canvas dimensions and elapsed render time
// after each frame. Diagnostic hook only.
type RenderStats struct {
	Canvas  geom.Size
	Elapsed time.Duration
}

// Engine renders the committed and in-progress annotations over the frozen
// frame. It borrows the session's element list and reference image per render
// call and holds no I/O.
type Engine struct {
	snapshot *image.RGBA
	canvas   *image.RGBA
	scale    float64
	mode     render.Mode
	chrome   render.ChromeOptions

	selection   geom.Rect
	labelBounds geom.Bounds
	elements    []Element
	current     Element

	statsFn func(RenderStats)
}

// Option modifies an Engine during creation.
type Option func(*Engine)

// WithScale sets the canvas to device scale factor.
func WithScale(scale float64) Option {
	return func(e *Engine) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

// WithMode sets the selection chrome mode.
func WithMode(mode render.Mode) Option {
	return func(e *Engine) {
		e.mode = mode
		e.chrome = render.DefaultChromeOptions(mode)
	}
}

// WithChrome overrides the chrome treatment.
func WithChrome(opts render.ChromeOptions) Option {
	return func(e *Engine) { e.chrome = opts }
}

// WithStats registers a callback receiving per-frame render statistics.
func WithStats(fn func(RenderStats)) Option {
	return func(e *Engine) { e.statsFn = fn }
}

// NewEngine creates an engine over the frozen frame. The snapshot is the
// capture in device pixels; it is never written to, only read for restores
// and mosaic sampling.
func NewEngine(snapshot *image.RGBA, opts ...Option) *Engine {
	e := &Engine{
		snapshot: snapshot,
		scale:    1,
		chrome:   render.DefaultChromeOptions(render.ModeStill),
	}
	for _, o := range opts {
		o(e)
	}
	if snapshot != nil {
		e.canvas = image.NewRGBA(snapshot.Bounds())
	}
	return e
}

// Scale returns the canvas to device scale factor.
func (e *Engine) Scale() float64 { return e.scale }

// SetScale updates the scale factor, for example after the overlay moved to
// a display with a different DPI. Stored elements are unaffected; they are
// re-transformed on the next render.
func (e *Engine) SetScale(scale float64) {
	if scale > 0 {
		e.scale = scale
	}
}

// SetSelection records the active selection rectangle in canvas space. The
// rect keeps its drag direction; normalization happens during render.
func (e *Engine) SetSelection(r geom.Rect) { e.selection = r }

// Selection returns the active selection rectangle.
func (e *Engine) Selection() geom.Rect { return e.selection }

// SetChrome replaces the selection chrome treatment, for example after a
// theme change.
func (e *Engine) SetChrome(opts render.ChromeOptions) { e.chrome = opts }

// Add commits an element to the end of the draw order.
func (e *Engine) Add(el Element) {
	if el == nil {
		return
	}
	e.elements = append(e.elements, el)
}

// SetCurrent replaces the in-progress element, drawn after all committed
// ones.
func (e *Engine) SetCurrent(el Element) { e.current = el }

// CommitCurrent moves the in-progress element into the committed list.
func (e *Engine) CommitCurrent() {
	if e.current == nil {
		return
	}
	e.elements = append(e.elements, e.current)
	e.current = nil
}

// RemoveLast drops the most recently committed element. It reports whether
// anything was removed.
func (e *Engine) RemoveLast() bool {
	if len(e.elements) == 0 {
		return false
	}
	e.elements = e.elements[:len(e.elements)-1]
	return true
}

// Elements returns the committed elements in draw order.
func (e *Engine) Elements() []Element { return e.elements }

// Snapshot returns the immutable frozen frame.
func (e *Engine) Snapshot() *image.RGBA { return e.snapshot }

// Render produces the current frame: snapshot restore, selection chrome,
// then every committed element followed by the in-progress one. The returned
// buffer is owned by the engine and valid until the next Render call.
func (e *Engine) Render() *image.RGBA {
	if e.canvas == nil {
		return nil
	}
	start := time.Now()

	render.Restore(e.canvas, e.snapshot)

	sel := geom.DisplayToDevice(geom.CanvasToDisplay(e.selection), e.scale)
	render.DrawChrome(e.canvas, e.snapshot, sel, e.mode, e.chrome)

	for _, el := range e.elements {
		e.drawElement(el)
	}
	if e.current != nil {
		e.drawElement(e.current)
	}

	if e.statsFn != nil {
		b := e.canvas.Bounds()
		e.statsFn(RenderStats{
			Canvas:  geom.Size{Width: b.Dx(), Height: b.Dy()},
			Elapsed: time.Since(start),
		})
	}
	return e.canvas
}

// RenderOnto draws the committed elements over an arbitrary destination, used
// when merging annotations into the exported image.
func (e *Engine) RenderOnto(dst *image.RGBA) {
	if dst == nil {
		return
	}
	saved := e.canvas
	e.canvas = dst
	for _, el := range e.elements {
		e.drawElement(el)
	}
	e.canvas = saved
}

func (e *Engine) drawElement(el Element) {
	switch v := el.(type) {
	case Pencil:
		e.drawPencil(v)
	case *Pencil:
		e.drawPencil(*v)
	case Mosaic:
		e.drawMosaic(v)
	case *Mosaic:
		e.drawMosaic(*v)
	case Text:
		e.drawText(v)
	case *Text:
		e.drawText(*v)
	case Rectangle:
		e.drawRectangle(v)
	case *Rectangle:
		e.drawRectangle(*v)
	case Ellipse:
		e.drawEllipse(v)
	case *Ellipse:
		e.drawEllipse(*v)
	}
}

// toDevice transforms a canvas-space point into device pixels.
func (e *Engine) toDevice(p geom.Point) geom.Point {
	return geom.Point{X: p.X * e.scale, Y: p.Y * e.scale}
}

func (e *Engine) toDeviceAll(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, p := range pts {
		out[i] = e.toDevice(p)
	}
	return out
}
