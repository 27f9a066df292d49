// Package session owns the capture-select-annotate-export cycle: the
// CaptureSession data, its lifecycle events and the orchestrator state
// machine that drives multi-display capture and overlay creation under
// timeouts and retries. Exactly one session is active at a time.
package session

import (
	"image"
	"sync"

	"github.com/google/uuid"

	"github.com/example/glintshot/internal/geom"
)

// Session holds the state of one capture cycle. The reference image is
// immutable for the session's lifetime; the only permitted upgrade is the
// one-time annotated image, which takes over on export once present.
type Session struct {
	ID string

	mu        sync.RWMutex
	reference *image.RGBA
	display   geom.DisplayInfo
	annotated *image.RGBA
	active    bool
}

func newSession(reference *image.RGBA, display geom.DisplayInfo) *Session {
	return &Session{
		ID:        uuid.NewString(),
		reference: reference,
		display:   display,
		active:    true,
	}
}

// Reference returns the frozen frame as captured. Callers must not write to
// it.
func (s *Session) Reference() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reference
}

// Display returns the display the session was captured from.
func (s *Session) Display() geom.DisplayInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// CaptureSize returns the logical size of the captured area.
func (s *Session) CaptureSize() geom.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display.Bounds.Size()
}

// SetAnnotated installs the annotated frame. Export paths prefer it over the
// raw reference from then on. Only the first call takes effect per render
// generation; later calls replace the buffer wholesale, which is the single
// mutation readers must tolerate.
func (s *Session) SetAnnotated(img *image.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}
	s.annotated = img
}

// ExportImage returns the image export paths should crop from: the annotated
// frame when present, the raw reference otherwise.
func (s *Session) ExportImage() *image.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.annotated != nil {
		return s.annotated
	}
	return s.reference
}

// Active reports whether the session still owns its buffers.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// clear releases the session's buffers. Safe to call more than once.
func (s *Session) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.reference = nil
	s.annotated = nil
}
