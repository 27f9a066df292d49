// Package overlay hosts the borderless selection window. Each window covers
// one display, receives the frozen frame over a direct in-process send (no
// re-encode), and reports readiness through two one-shot channels: content
// loaded and ready to show. The session orchestrator joins on both before it
// pushes the frame.
package overlay

import (
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/session"
)

// InputKind tags a forwarded user action.
type InputKind int

const (
	InputPointerDown InputKind = iota
	InputPointerMove
	InputPointerUp
	InputConfirm
	InputCancel
	InputRune
)

// Input is a pointer or key action, with pointer positions already mapped
// into canvas space.
type Input struct {
	Kind InputKind
	At   geom.Point
	Rune rune
}

// Factory creates overlay windows on a shiny screen. The screen handle comes
// from driver.Main, which must own the process main goroutine; Run wires
// that up.
type Factory struct {
	screen  screen.Screen
	onInput func(Input)
}

// Run hands the main goroutine to the shiny driver and calls fn with a ready
// Factory. It does not return until the UI loop ends.
func Run(fn func(*Factory)) {
	driver.Main(func(s screen.Screen) {
		fn(&Factory{screen: s})
	})
}

// OnInput registers the handler that receives forwarded user actions from
// every window this factory creates.
func (f *Factory) OnInput(fn func(Input)) { f.onInput = fn }

// Create opens a window sized to the display bounds and starts its event
// loop. The returned overlay is not yet ready; callers join on the two
// readiness channels.
func (f *Factory) Create(bounds geom.Bounds) (session.Overlay, error) {
	if f.screen == nil {
		return nil, fmt.Errorf("overlay factory has no screen (must run under overlay.Run)")
	}
	w, err := f.screen.NewWindow(&screen.NewWindowOptions{
		Width:  bounds.Width,
		Height: bounds.Height,
		Title:  "glintshot",
	})
	if err != nil {
		return nil, fmt.Errorf("new overlay window: %w", err)
	}
	ov := &Window{
		scr:     f.screen,
		win:     w,
		loaded:  make(chan struct{}),
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		onInput: f.onInput,
	}
	go ov.loop()
	return ov, nil
}

// Window is one overlay window. Its readiness channels each close exactly
// once: loaded after the first completed paint, ready once the window
// becomes visible.
type Window struct {
	scr screen.Screen
	win screen.Window

	loadedOnce sync.Once
	readyOnce  sync.Once
	closeOnce  sync.Once
	loaded     chan struct{}
	ready      chan struct{}
	done       chan struct{}

	onInput func(Input)

	mu      sync.Mutex
	frame   *image.RGBA
	display geom.DisplayInfo
	size    image.Point
	hidden  bool
}

func (o *Window) ContentLoaded() <-chan struct{} { return o.loaded }
func (o *Window) ReadyToShow() <-chan struct{}   { return o.ready }

// Send installs the frame for display. The pixels travel by pointer; the
// window must treat them as read-only.
func (o *Window) Send(frame *image.RGBA, display geom.DisplayInfo) error {
	if frame == nil || frame.Bounds().Empty() {
		return fmt.Errorf("refusing to show an empty frame")
	}
	o.mu.Lock()
	o.frame = frame
	o.display = display
	o.hidden = false
	o.mu.Unlock()
	o.win.Send(paint.Event{})
	return nil
}

// Hide blanks the window without releasing it, so confirm and cancel feel
// immediate while teardown happens on the next tick.
func (o *Window) Hide() {
	o.mu.Lock()
	o.hidden = true
	o.mu.Unlock()
	o.win.Send(paint.Event{})
}

// Close releases the window. Safe to call more than once.
func (o *Window) Close() error {
	o.closeOnce.Do(func() {
		close(o.done)
		o.win.Release()
	})
	return nil
}

func (o *Window) loop() {
	for {
		select {
		case <-o.done:
			return
		default:
		}
		switch e := o.win.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				return
			}
			if e.To >= lifecycle.StageVisible {
				o.markReady()
			}
		case size.Event:
			o.mu.Lock()
			o.size = e.Size()
			o.mu.Unlock()
			o.markReady()
			o.win.Send(paint.Event{})
		case paint.Event:
			o.paint()
		case mouse.Event:
			o.forward(pointerInput(e, o.scale()))
		case key.Event:
			if in, ok := classifyKey(e); ok {
				o.forward(in)
			}
		case error:
			log.Printf("overlay: %v", e)
		}
	}
}

func (o *Window) markLoaded() { o.loadedOnce.Do(func() { close(o.loaded) }) }
func (o *Window) markReady()  { o.readyOnce.Do(func() { close(o.ready) }) }

func (o *Window) scale() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.display.ScaleFactor > 0 {
		return o.display.ScaleFactor
	}
	return 1
}

func (o *Window) forward(in Input) {
	if o.onInput != nil {
		o.onInput(in)
	}
}

func (o *Window) paint() {
	o.mu.Lock()
	frame := o.frame
	hidden := o.hidden
	sz := o.size
	o.mu.Unlock()
	if sz == (image.Point{}) {
		return
	}
	buf, err := o.scr.NewBuffer(sz)
	if err != nil {
		log.Printf("overlay: new buffer: %v", err)
		return
	}
	defer buf.Release()

	if frame != nil && !hidden {
		draw.Draw(buf.RGBA(), buf.Bounds(), frame, frame.Bounds().Min, draw.Src)
	}
	o.win.Upload(image.Point{}, buf, buf.Bounds())
	o.win.Publish()
	o.markLoaded()
}

// pointerInput maps a device-pixel mouse event into canvas space.
func pointerInput(e mouse.Event, scale float64) Input {
	if scale <= 0 {
		scale = 1
	}
	pt := geom.Point{X: float64(e.X) / scale, Y: float64(e.Y) / scale}
	switch e.Direction {
	case mouse.DirPress:
		return Input{Kind: InputPointerDown, At: pt}
	case mouse.DirRelease:
		return Input{Kind: InputPointerUp, At: pt}
	default:
		return Input{Kind: InputPointerMove, At: pt}
	}
}

// classifyKey translates the few keys the overlay acts on. Text input runes
// pass through for the text tool.
func classifyKey(e key.Event) (Input, bool) {
	if e.Direction == key.DirRelease {
		return Input{}, false
	}
	switch e.Code {
	case key.CodeEscape:
		return Input{Kind: InputCancel}, true
	case key.CodeReturnEnter, key.CodeKeypadEnter:
		return Input{Kind: InputConfirm}, true
	}
	if e.Rune > 0 {
		return Input{Kind: InputRune, Rune: e.Rune}, true
	}
	return Input{}, false
}
