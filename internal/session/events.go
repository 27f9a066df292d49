package session

import (
	"image"

	"github.com/example/glintshot/internal/geom"
)

// EventKind tags a session lifecycle event.
type EventKind int

const (
	// EventStarted fires when a new capture session owns its reference
	// frame.
	EventStarted EventKind = iota
	// EventFrameReady fires once the frame has been pushed to the overlay.
	EventFrameReady
	// EventCleared fires when the session is torn down, whatever the
	// reason.
	EventCleared
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFrameReady:
		return "frame-ready"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event is delivered on the orchestrator's single outbound channel.
// Consumers select on Kind instead of registering per-kind callbacks.
type Event struct {
	Kind      EventKind
	SessionID string
	Display   geom.DisplayInfo
	// Frame is set on EventFrameReady only. Receivers must treat it as
	// read-only.
	Frame *image.RGBA
}
