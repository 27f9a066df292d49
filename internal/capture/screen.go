package capture

import (
	"context"
	"fmt"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/session"
)

// screenBackend wraps the portable screenshot library. It reports physical
// pixels directly, so the scale factor it hands out is always 1.
type screenBackend struct{}

func (screenBackend) List() ([]geom.DisplayInfo, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, &session.CaptureEmptyError{Reason: "no active displays"}
	}
	displays := make([]geom.DisplayInfo, 0, n)
	for i := 0; i < n; i++ {
		b := screenshot.GetDisplayBounds(i)
		displays = append(displays, geom.DisplayInfo{
			Bounds:      geom.Bounds{X: b.Min.X, Y: b.Min.Y, Width: b.Dx(), Height: b.Dy()},
			ScaleFactor: 1,
			// display 0 holds the origin of the virtual screen
			Primary: i == 0,
		})
	}
	return displays, nil
}

// CursorPosition is not available through the screenshot library; the center
// of the primary display keeps capture targeting sensible.
func (s screenBackend) CursorPosition() (geom.Point, error) {
	displays, err := s.List()
	if err != nil {
		return geom.Point{}, err
	}
	b := displays[0].Bounds
	return geom.Point{X: float64(b.X + b.Width/2), Y: float64(b.Y + b.Height/2)}, nil
}

func (screenBackend) CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := screenshot.CaptureRect(deviceRect(bounds, scale))
	if err != nil {
		return nil, fmt.Errorf("screen capture: %w", err)
	}
	return checkFrame(img)
}
