//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/example/glintshot/internal/geom"
)

// portalBackend captures through xdg-desktop-portal. The portal only hands
// out whole-desktop shots, so per-display frames are cropped out of one.
// Display enumeration still needs a real display protocol; XWayland is
// usually around for that.
type portalBackend struct {
	enum Backend
}

func newPortalBackend() (Backend, error) {
	enum := Backend(screenBackend{})
	if b, err := newX11Backend(); err == nil {
		enum = b
	}
	return portalBackend{enum: enum}, nil
}

func (p portalBackend) List() ([]geom.DisplayInfo, error) {
	return p.enum.List()
}

func (p portalBackend) CursorPosition() (geom.Point, error) {
	return p.enum.CursorPosition()
}

func (p portalBackend) CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error) {
	shot, err := portalScreenshot(ctx)
	if err != nil {
		return nil, err
	}
	img, err := cropFrame(shot, deviceRect(bounds, scale))
	if err != nil {
		return nil, err
	}
	return checkFrame(img)
}

var portalHandleToken = func() string {
	return fmt.Sprintf("glintshot-%d", time.Now().UnixNano())
}

func portalScreenshot(ctx context.Context) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Printf("capture: dbus close: %v", cerr)
		}
	}()

	obj := conn.Object("org.freedesktop.portal.Desktop", "/org/freedesktop/portal/desktop")
	opts := map[string]dbus.Variant{
		"handle_token": dbus.MakeVariant(portalHandleToken()),
		"interactive":  dbus.MakeVariant(false),
		"modal":        dbus.MakeVariant(false),
		"cursor_mode":  dbus.MakeVariant("hidden"),
	}
	var handle dbus.ObjectPath
	call := obj.Call("org.freedesktop.portal.Screenshot.Screenshot", 0, "", opts)
	if call.Err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", call.Err)
	}
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot response: %w", err)
	}

	sigc := make(chan *dbus.Signal, 1)
	conn.Signal(sigc)
	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)

	for {
		select {
		case sig, ok := <-sigc:
			if !ok {
				return nil, fmt.Errorf("portal screenshot: signal channel closed")
			}
			if sig.Path != handle || sig.Name != "org.freedesktop.portal.Request.Response" {
				continue
			}
			if len(sig.Body) < 2 {
				return nil, fmt.Errorf("portal screenshot: malformed response")
			}
			res, ok := sig.Body[1].(map[string]dbus.Variant)
			if !ok {
				return nil, fmt.Errorf("portal screenshot: malformed response body")
			}
			uriVar, ok := res["uri"]
			if !ok {
				return nil, fmt.Errorf("portal screenshot: response missing image uri")
			}
			uri, _ := uriVar.Value().(string)
			return loadPNG(strings.TrimPrefix(uri, "file://"))
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// loadPNG reads and removes the temp file the portal wrote.
func loadPNG(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("capture: close %s: %v", path, cerr)
		}
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Printf("capture: remove %s: %v", path, rerr)
		}
	}()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, image.Point{}, draw.Src)
	return rgba, nil
}
