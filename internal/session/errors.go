package session

import (
	"fmt"
	"time"
)

// CaptureTimeoutError reports that an external await exceeded its deadline.
// It converts a hang into a typed failure instead of blocking the flow.
type CaptureTimeoutError struct {
	Stage   string
	Timeout time.Duration
}

func (e *CaptureTimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Stage, e.Timeout)
}

// CaptureEmptyError reports zero capture sources or a zero-size frame. An
// empty frame is a capture failure, never silently accepted.
type CaptureEmptyError struct {
	Reason string
}

func (e *CaptureEmptyError) Error() string {
	return fmt.Sprintf("capture produced nothing: %s", e.Reason)
}

// OverlayLoadError reports that the overlay window failed to become loaded
// and ready within the load timeout.
type OverlayLoadError struct {
	Err error
}

func (e *OverlayLoadError) Error() string {
	return fmt.Sprintf("overlay load: %v", e.Err)
}

func (e *OverlayLoadError) Unwrap() error { return e.Err }

// OverlaySendError reports a failed frame push to the overlay window.
type OverlaySendError struct {
	Err error
}

func (e *OverlaySendError) Error() string {
	return fmt.Sprintf("overlay send: %v", e.Err)
}

func (e *OverlaySendError) Unwrap() error { return e.Err }
