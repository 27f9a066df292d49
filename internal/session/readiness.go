package session

import (
	"context"
	"fmt"
	"time"
)

// awaitOverlayReady blocks until the overlay reports both content-loaded and
// ready-to-show. The two signals are independent and both are required, so
// this is a fan-in join, not a race; one shared timeout wraps the whole
// thing.
func awaitOverlayReady(ctx context.Context, ov Overlay, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	loaded := ov.ContentLoaded()
	ready := ov.ReadyToShow()
	for loaded != nil || ready != nil {
		select {
		case <-loaded:
			loaded = nil
		case <-ready:
			ready = nil
		case <-timer.C:
			return &OverlayLoadError{Err: fmt.Errorf("not ready within %s (loaded=%v shown=%v)", timeout, loaded == nil, ready == nil)}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
