package session

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/example/glintshot/internal/annotate"
	"github.com/example/glintshot/internal/crop"
	"github.com/example/glintshot/internal/geom"
)

// Displays enumerates the physical display layout.
type Displays interface {
	List() ([]geom.DisplayInfo, error)
	CursorPosition() (geom.Point, error)
}

// FrameSource acquires a frozen frame for one display.
type FrameSource interface {
	CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error)
}

// Overlay is a borderless always-on-top window covering one display. The two
// readiness channels must each be closed exactly once by the implementation.
type Overlay interface {
	ContentLoaded() <-chan struct{}
	ReadyToShow() <-chan struct{}
	Send(frame *image.RGBA, display geom.DisplayInfo) error
	Hide()
	Close() error
}

// OverlayFactory creates overlay windows sized to a display.
type OverlayFactory interface {
	Create(bounds geom.Bounds) (Overlay, error)
}

// State names a position in the capture flow.
type State int

const (
	StateIdle State = iota
	StateEnumeratingDisplays
	StateCapturingFrame
	StateCreatingOverlay
	StateSendingFrame
	StateShown
	StateConfirmed
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateEnumeratingDisplays:
		return "enumerating-displays"
	case StateCapturingFrame:
		return "capturing-frame"
	case StateCreatingOverlay:
		return "creating-overlay"
	case StateSendingFrame:
		return "sending-frame"
	case StateShown:
		return "shown"
	case StateConfirmed:
		return "confirmed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options tunes the orchestrator's timeouts and retry policy.
type Options struct {
	CaptureTimeout time.Duration
	LoadTimeout    time.Duration
	RetryAttempts  int
	RetryDelay     time.Duration
	MinSelection   int
	// RestoreUI runs after a session-level failure so the user never ends
	// up with a frozen desktop. Optional.
	RestoreUI func()
}

// DefaultOptions returns the standard timeouts: 5s capture, 3s overlay load,
// 2 attempts with a 500ms fixed delay.
func DefaultOptions() Options {
	return Options{
		CaptureTimeout: 5 * time.Second,
		LoadTimeout:    3 * time.Second,
		RetryAttempts:  2,
		RetryDelay:     500 * time.Millisecond,
		MinSelection:   crop.MinSelectionSize,
	}
}

// Orchestrator drives the capture state machine. It is explicitly
// constructed with its collaborators; there is no ambient global instance.
type Orchestrator struct {
	displays Displays
	frames   FrameSource
	overlays OverlayFactory
	opts     Options

	events chan Event

	mu      sync.Mutex
	state   State
	session *Session
	overlay Overlay
	engine  *annotate.Engine

	// deferCleanup schedules the close-and-clear half of confirm/cancel on
	// the next tick, after the overlay is already hidden.
	deferCleanup func(func())
}

// New constructs an orchestrator from its collaborators. Zero option fields
// fall back to DefaultOptions values.
func New(displays Displays, frames FrameSource, overlays OverlayFactory, opts Options) *Orchestrator {
	def := DefaultOptions()
	if opts.CaptureTimeout <= 0 {
		opts.CaptureTimeout = def.CaptureTimeout
	}
	if opts.LoadTimeout <= 0 {
		opts.LoadTimeout = def.LoadTimeout
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = def.RetryAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.MinSelection <= 0 {
		opts.MinSelection = def.MinSelection
	}
	return &Orchestrator{
		displays:     displays,
		frames:       frames,
		overlays:     overlays,
		opts:         opts,
		events:       make(chan Event, 16),
		state:        StateIdle,
		deferCleanup: func(fn func()) { go fn() },
	}
}

// Events returns the single outbound event channel. Events are dropped, not
// blocked on, when no consumer keeps up.
func (o *Orchestrator) Events() <-chan Event { return o.events }

// State returns the current state machine position.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Session returns the active session, or nil outside a capture flow.
func (o *Orchestrator) Session() *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// StartCapture runs the full flow: enumerate displays, capture the frame for
// the display under the cursor, create the overlay, push the frame. A session
// already in flight is torn down first; sessions are never concurrent. On
// any failure the single cleanup routine runs and the typed error surfaces.
func (o *Orchestrator) StartCapture(ctx context.Context) error {
	o.cleanup()

	o.setState(StateEnumeratingDisplays)
	display, err := o.pickDisplay()
	if err != nil {
		return o.fail(err)
	}

	o.setState(StateCapturingFrame)
	var frame *image.RGBA
	err = o.withRetry("capture frame", func() error {
		var cerr error
		frame, cerr = o.captureFrame(ctx, display)
		return cerr
	})
	if err != nil {
		return o.fail(err)
	}

	sess := newSession(frame, display)
	engine := annotate.NewEngine(frame, annotate.WithScale(display.ScaleFactor))
	o.mu.Lock()
	o.session = sess
	o.engine = engine
	o.mu.Unlock()
	o.emit(Event{Kind: EventStarted, SessionID: sess.ID, Display: display})

	o.setState(StateCreatingOverlay)
	var ov Overlay
	err = o.withRetry("create overlay", func() error {
		created, cerr := o.overlays.Create(display.Bounds)
		if cerr != nil {
			return &OverlayLoadError{Err: cerr}
		}
		if rerr := awaitOverlayReady(ctx, created, o.opts.LoadTimeout); rerr != nil {
			_ = created.Close()
			return rerr
		}
		ov = created
		return nil
	})
	if err != nil {
		return o.fail(err)
	}
	o.mu.Lock()
	o.overlay = ov
	o.mu.Unlock()

	o.setState(StateSendingFrame)
	err = o.withRetry("send frame", func() error {
		if frame == nil || frame.Bounds().Empty() {
			return &CaptureEmptyError{Reason: "frame emptied before send"}
		}
		if serr := ov.Send(frame, display); serr != nil {
			return &OverlaySendError{Err: serr}
		}
		return nil
	})
	if err != nil {
		return o.fail(err)
	}
	o.emit(Event{Kind: EventFrameReady, SessionID: sess.ID, Display: display, Frame: frame})

	o.setState(StateShown)
	return nil
}

// pickDisplay lists the layout and resolves the display nearest the cursor.
// Annotation targets that single display, not the union; the union box is
// computed for the log only.
func (o *Orchestrator) pickDisplay() (geom.DisplayInfo, error) {
	displays, err := o.displays.List()
	if err != nil {
		return geom.DisplayInfo{}, err
	}
	if len(displays) == 0 {
		return geom.DisplayInfo{}, &CaptureEmptyError{Reason: "no displays"}
	}
	all := make([]geom.Bounds, len(displays))
	for i, d := range displays {
		all[i] = d.Bounds
	}
	log.Printf("session: %d display(s), union %s", len(displays), geom.Union(all...))

	cursor, err := o.displays.CursorPosition()
	if err != nil {
		log.Printf("session: cursor position: %v (falling back to first display)", err)
		return displays[0], nil
	}
	target, _ := geom.DisplayNearestPoint(displays, cursor)
	return target, nil
}

// captureFrame requests a device-pixel frame for the display and enforces
// the capture timeout even when the source ignores its context.
func (o *Orchestrator) captureFrame(ctx context.Context, display geom.DisplayInfo) (*image.RGBA, error) {
	cctx, cancel := context.WithTimeout(ctx, o.opts.CaptureTimeout)
	defer cancel()

	type result struct {
		img *image.RGBA
		err error
	}
	ch := make(chan result, 1)
	go func() {
		img, err := o.frames.CaptureFrame(cctx, display.Bounds, display.ScaleFactor)
		ch <- result{img: img, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		if r.img == nil || r.img.Bounds().Empty() {
			return nil, &CaptureEmptyError{Reason: "zero-size frame"}
		}
		return r.img, nil
	case <-cctx.Done():
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &CaptureTimeoutError{Stage: "frame capture", Timeout: o.opts.CaptureTimeout}
	}
}

// withRetry runs fn up to the configured attempt count with a fixed delay.
// Input problems (invalid bounds, too-small selections) are never retried.
func (o *Orchestrator) withRetry(stage string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= o.opts.RetryAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		var invalid *crop.InvalidBoundsError
		var small *crop.ImageTooSmallError
		if errors.As(err, &invalid) || errors.As(err, &small) {
			return err
		}
		if attempt < o.opts.RetryAttempts {
			log.Printf("session: %s attempt %d/%d failed: %v", stage, attempt, o.opts.RetryAttempts, err)
			time.Sleep(o.opts.RetryDelay)
		}
	}
	return err
}

// AddElement commits an annotation to the active session's engine.
func (o *Orchestrator) AddElement(el annotate.Element) {
	o.mu.Lock()
	engine := o.engine
	o.mu.Unlock()
	if engine != nil {
		engine.Add(el)
	}
}

// Engine returns the annotation engine for the active session, or nil.
func (o *Orchestrator) Engine() *annotate.Engine {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.engine
}

// Render produces the current overlay frame.
func (o *Orchestrator) Render() *image.RGBA {
	o.mu.Lock()
	engine := o.engine
	o.mu.Unlock()
	if engine == nil {
		return nil
	}
	return engine.Render()
}

// Refresh re-renders the engine frame and pushes it to the overlay. No-op
// outside an active session.
func (o *Orchestrator) Refresh() {
	o.mu.Lock()
	engine := o.engine
	ov := o.overlay
	sess := o.session
	o.mu.Unlock()
	if engine == nil || ov == nil || sess == nil {
		return
	}
	if err := ov.Send(engine.Render(), sess.Display()); err != nil {
		log.Printf("session: refresh: %v", err)
	}
}

// Confirm crops the selection out of the session's export image and finishes
// the session. The overlay hides immediately so the UI feels responsive;
// closing and clearing happen on the next tick, after the caller had its
// chance to start the export work.
func (o *Orchestrator) Confirm(selection geom.Rect) (*image.RGBA, error) {
	o.mu.Lock()
	if o.state != StateShown || o.session == nil {
		o.mu.Unlock()
		return nil, &CaptureEmptyError{Reason: "no session to confirm"}
	}
	sess := o.session
	engine := o.engine
	ov := o.overlay
	o.mu.Unlock()

	bounds := geom.CanvasToDisplay(selection)
	if bounds.Width < o.opts.MinSelection || bounds.Height < o.opts.MinSelection {
		return nil, &crop.ImageTooSmallError{Width: bounds.Width, Height: bounds.Height, Min: o.opts.MinSelection}
	}

	// Merge committed annotations into the exported pixels when any exist.
	if engine != nil && len(engine.Elements()) > 0 {
		annotated := image.NewRGBA(sess.Reference().Bounds())
		copy(annotated.Pix, sess.Reference().Pix)
		engine.RenderOnto(annotated)
		sess.SetAnnotated(annotated)
	}

	out, err := crop.FromDisplay(sess.ExportImage(), bounds, sess.CaptureSize())
	if err != nil {
		return nil, err
	}

	o.setState(StateConfirmed)
	if ov != nil {
		ov.Hide()
	}
	o.deferCleanup(o.cleanup)
	return out, nil
}

// Cancel aborts the session. The overlay hides immediately and the cleanup
// routine runs on the next tick. Safe to call at any stage, any number of
// times.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	ov := o.overlay
	hasSession := o.session != nil || o.overlay != nil
	o.mu.Unlock()
	if !hasSession {
		return
	}
	o.setState(StateCancelled)
	if ov != nil {
		ov.Hide()
	}
	o.deferCleanup(o.cleanup)
}

// fail is the session-level failure path: cleanup, UI restore, typed error
// out. No error is swallowed.
func (o *Orchestrator) fail(err error) error {
	o.setState(StateFailed)
	log.Printf("session: capture failed: %v", err)
	o.cleanup()
	if o.opts.RestoreUI != nil {
		o.opts.RestoreUI()
	}
	return err
}

// cleanup is the single teardown routine: close the overlay if one was
// created, clear the session, announce the clear. Idempotent and safe to
// call at any stage.
func (o *Orchestrator) cleanup() {
	o.mu.Lock()
	ov := o.overlay
	sess := o.session
	o.overlay = nil
	o.session = nil
	o.engine = nil
	o.state = StateIdle
	o.mu.Unlock()

	if ov != nil {
		if err := ov.Close(); err != nil {
			log.Printf("session: overlay close: %v", err)
		}
	}
	if sess != nil {
		sess.clear()
		o.emit(Event{Kind: EventCleared, SessionID: sess.ID})
	}
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) emit(ev Event) {
	select {
	case o.events <- ev:
	default:
		log.Printf("session: dropping %s event (consumer behind)", ev.Kind)
	}
}
