// Package capture acquires frozen frames and enumerates the display layout.
// Three backends exist: a portable one built on the screenshot library, a
// direct X11 backend, and an xdg-desktop-portal fallback for Wayland
// sessions. New picks between them unless the caller forces one.
package capture

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/session"
)

// Backend is a frame source plus display enumeration. It satisfies both
// collaborator interfaces of the session orchestrator.
type Backend interface {
	List() ([]geom.DisplayInfo, error)
	CursorPosition() (geom.Point, error)
	CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error)
}

// New resolves a backend by name. The empty string and "auto" pick the best
// backend for the platform and session type.
func New(kind string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "auto":
		return autoBackend(), nil
	case "screen":
		return screenBackend{}, nil
	case "x11":
		return newX11Backend()
	case "portal":
		return newPortalBackend()
	default:
		return nil, fmt.Errorf("unknown capture backend %q", kind)
	}
}

// FindDisplay resolves a display selector against the layout: "" and
// "primary" pick the primary display, "#N" or a bare number pick by index.
func FindDisplay(displays []geom.DisplayInfo, selector string) (geom.DisplayInfo, error) {
	if len(displays) == 0 {
		return geom.DisplayInfo{}, &session.CaptureEmptyError{Reason: "no displays"}
	}
	sel := strings.ToLower(strings.TrimSpace(selector))
	if sel == "" || sel == "primary" {
		for _, d := range displays {
			if d.Primary {
				return d, nil
			}
		}
		return displays[0], nil
	}
	sel = strings.TrimPrefix(sel, "#")
	idx, err := strconv.Atoi(sel)
	if err != nil {
		return geom.DisplayInfo{}, fmt.Errorf("display selector %q: want an index or \"primary\"", selector)
	}
	if idx < 0 || idx >= len(displays) {
		return geom.DisplayInfo{}, fmt.Errorf("display index %d out of range (have %d)", idx, len(displays))
	}
	return displays[idx], nil
}

// deviceRect maps logical display bounds to physical pixels.
func deviceRect(bounds geom.Bounds, scale float64) image.Rectangle {
	if scale <= 0 {
		scale = 1
	}
	x := int(math.Round(float64(bounds.X) * scale))
	y := int(math.Round(float64(bounds.Y) * scale))
	w := int(math.Round(float64(bounds.Width) * scale))
	h := int(math.Round(float64(bounds.Height) * scale))
	return image.Rect(x, y, x+w, y+h)
}

// cropFrame cuts rect out of a full-desktop frame into a zero-based image.
func cropFrame(src *image.RGBA, rect image.Rectangle) (*image.RGBA, error) {
	rect = rect.Intersect(src.Bounds())
	if rect.Empty() {
		return nil, &session.CaptureEmptyError{Reason: "requested area outside captured frame"}
	}
	dst := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	draw.Draw(dst, dst.Bounds(), src, rect.Min, draw.Src)
	return dst, nil
}

func checkFrame(img *image.RGBA) (*image.RGBA, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, &session.CaptureEmptyError{Reason: "backend returned a zero-size frame"}
	}
	return img, nil
}
