package main

import (
	"errors"
	"fmt"
	"sync"

	"github.com/example/glintshot/internal/annotate"
	"github.com/example/glintshot/internal/config"
	"github.com/example/glintshot/internal/crop"
	"github.com/example/glintshot/internal/export"
	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/overlay"
	"github.com/example/glintshot/internal/session"
)

// shootUI holds the interaction state for one capture session: the active
// tool, the drag in progress and the text element being edited. Input arrives
// on the overlay window's event goroutine.
type shootUI struct {
	orch  *session.Orchestrator
	r     *root
	cfg   *config.Config
	sinks export.Fanout

	done     chan struct{}
	doneOnce sync.Once
	err      error

	mu       sync.Mutex
	tool     rune
	dragging bool
	anchor   geom.Point
	path     []geom.Point
	shapeSeq int
	editing  *annotate.Text
}

func newShootUI(orch *session.Orchestrator, r *root, cfg *config.Config, sinks export.Fanout) *shootUI {
	return &shootUI{
		orch:  orch,
		r:     r,
		cfg:   cfg,
		sinks: sinks,
		done:  make(chan struct{}),
		tool:  'v',
	}
}

func (u *shootUI) finish(err error) {
	u.doneOnce.Do(func() {
		u.err = err
		close(u.done)
	})
}

func (u *shootUI) handle(in overlay.Input) {
	switch in.Kind {
	case overlay.InputPointerDown:
		u.pointerDown(in.At)
	case overlay.InputPointerMove:
		u.pointerMove(in.At)
	case overlay.InputPointerUp:
		u.pointerUp(in.At)
	case overlay.InputConfirm:
		u.confirm()
	case overlay.InputCancel:
		u.cancel()
	case overlay.InputRune:
		u.rune(in.Rune)
	}
}

func (u *shootUI) pointerDown(at geom.Point) {
	engine := u.orch.Engine()
	if engine == nil {
		return
	}
	u.mu.Lock()
	u.dragging = true
	u.anchor = at
	tool := u.tool
	switch tool {
	case 'p':
		u.path = []geom.Point{at}
		engine.SetCurrent(u.pencilAt(u.path))
	case 'm':
		u.path = []geom.Point{at}
		engine.SetCurrent(annotate.Mosaic{Points: u.path, BlockSize: u.cfg.Mosaic.BlockSize})
	case 'r', 'e':
		engine.SetCurrent(u.shapeAt(tool, at, at))
	case 't':
		txt := annotate.Text{At: at, FontSize: 16, Color: u.cfg.Pen.Color}
		u.editing = &txt
		engine.SetCurrent(txt)
	default:
		engine.SetSelection(geom.Rect{StartX: at.X, StartY: at.Y})
	}
	u.mu.Unlock()
	u.orch.Refresh()
}

func (u *shootUI) pointerMove(at geom.Point) {
	engine := u.orch.Engine()
	if engine == nil {
		return
	}
	u.mu.Lock()
	if !u.dragging {
		u.mu.Unlock()
		return
	}
	switch u.tool {
	case 'p':
		u.path = append(u.path, at)
		engine.SetCurrent(u.pencilAt(u.path))
	case 'm':
		u.path = append(u.path, at)
		engine.SetCurrent(annotate.Mosaic{Points: u.path, BlockSize: u.cfg.Mosaic.BlockSize})
	case 'r', 'e':
		engine.SetCurrent(u.shapeAt(u.tool, u.anchor, at))
	case 't':
	default:
		engine.SetSelection(geom.Rect{
			StartX: u.anchor.X,
			StartY: u.anchor.Y,
			Width:  at.X - u.anchor.X,
			Height: at.Y - u.anchor.Y,
		})
	}
	u.mu.Unlock()
	u.orch.Refresh()
}

func (u *shootUI) pointerUp(at geom.Point) {
	engine := u.orch.Engine()
	if engine == nil {
		return
	}
	u.mu.Lock()
	if !u.dragging {
		u.mu.Unlock()
		return
	}
	u.dragging = false
	switch u.tool {
	case 'p', 'm':
		u.path = nil
		engine.CommitCurrent()
	case 'r', 'e':
		u.shapeSeq++
		shape := u.shapeAt(u.tool, u.anchor, at)
		if rect, ok := shape.(annotate.Rectangle); ok {
			rect.Sequence = u.shapeSeq
			shape = rect
		}
		engine.SetCurrent(shape)
		engine.CommitCurrent()
	case 't':
		// The text stays in edit mode until Enter commits it.
	default:
		engine.SetSelection(geom.Rect{
			StartX: u.anchor.X,
			StartY: u.anchor.Y,
			Width:  at.X - u.anchor.X,
			Height: at.Y - u.anchor.Y,
		})
	}
	u.mu.Unlock()
	u.orch.Refresh()
}

func (u *shootUI) confirm() {
	engine := u.orch.Engine()
	u.mu.Lock()
	if u.editing != nil && engine != nil {
		engine.SetCurrent(*u.editing)
		engine.CommitCurrent()
		u.editing = nil
		u.mu.Unlock()
		u.orch.Refresh()
		return
	}
	u.mu.Unlock()

	var selection geom.Rect
	if engine != nil {
		selection = engine.Selection()
	}
	img, err := u.orch.Confirm(selection)
	if err != nil {
		var small *crop.ImageTooSmallError
		if errors.As(err, &small) {
			u.r.notifyTooSmall(small.Error())
			return
		}
		u.r.notifyFailure(err.Error())
		u.finish(err)
		return
	}

	bounds := geom.CanvasToDisplay(selection)
	if exportErr := u.sinks.Export(img, bounds); exportErr != nil {
		u.r.notifyFailure(exportErr.Error())
		u.finish(exportErr)
		return
	}
	u.r.notifyExported(fmt.Sprintf("%dx%d selection", bounds.Width, bounds.Height), img)
	u.finish(nil)
}

func (u *shootUI) cancel() {
	engine := u.orch.Engine()
	u.mu.Lock()
	if u.editing != nil {
		u.editing = nil
		if engine != nil {
			engine.SetCurrent(nil)
		}
		u.mu.Unlock()
		u.orch.Refresh()
		return
	}
	u.mu.Unlock()
	u.orch.Cancel()
	u.finish(nil)
}

func (u *shootUI) rune(r rune) {
	engine := u.orch.Engine()
	u.mu.Lock()
	if u.editing != nil {
		u.editing.Content += string(r)
		if engine != nil {
			engine.SetCurrent(*u.editing)
		}
		u.mu.Unlock()
		u.orch.Refresh()
		return
	}
	switch r {
	case 'v', 'p', 'm', 'r', 'e', 't':
		u.tool = r
		u.mu.Unlock()
		return
	case 'u':
		u.mu.Unlock()
		if engine != nil && engine.RemoveLast() {
			u.orch.Refresh()
		}
		return
	}
	u.mu.Unlock()
}

func (u *shootUI) pencilAt(pts []geom.Point) annotate.Pencil {
	return annotate.Pencil{
		Points:    pts,
		Color:     u.cfg.Pen.Color,
		LineWidth: u.cfg.Pen.Width,
		Style:     u.cfg.Pen.Style,
		Taper:     true,
	}
}

func (u *shootUI) shapeAt(tool rune, a, b geom.Point) annotate.Element {
	style := annotate.ShapeStyle{
		StrokeColor: u.cfg.Pen.Color,
		StrokeWidth: u.cfg.Pen.Width,
	}
	if tool == 'e' {
		return annotate.Ellipse{A: a, B: b, ShapeStyle: style}
	}
	return annotate.Rectangle{A: a, B: b, ShapeStyle: style}
}
