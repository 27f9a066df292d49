//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"context"
	"fmt"
	"image"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"

	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/session"
)

// x11Backend talks to the X server directly: RandR for the display layout,
// GetImage on the root window for pixels.
type x11Backend struct{}

func newX11Backend() (Backend, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, fmt.Errorf("x11 backend: DISPLAY is not set")
	}
	return x11Backend{}, nil
}

func autoBackend() Backend {
	if runningOnWayland() {
		if b, err := newPortalBackend(); err == nil {
			return b
		}
	}
	if b, err := newX11Backend(); err == nil {
		return b
	}
	return screenBackend{}
}

func runningOnWayland() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// envScaleFactor honors the common desktop scaling variables. RandR does not
// expose the compositor's logical scale, so this is the closest portable
// answer on X11.
func envScaleFactor() float64 {
	for _, key := range []string{"GDK_SCALE", "QT_SCALE_FACTOR"} {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			continue
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return 1
}

func (x11Backend) List() ([]geom.DisplayInfo, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	root, err := rootWindow(conn)
	if err != nil {
		return nil, err
	}
	return fetchDisplays(conn, root)
}

func (x11Backend) CursorPosition() (geom.Point, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return geom.Point{}, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	root, err := rootWindow(conn)
	if err != nil {
		return geom.Point{}, err
	}
	reply, err := xproto.QueryPointer(conn, root).Reply()
	if err != nil {
		return geom.Point{}, fmt.Errorf("query pointer: %w", err)
	}
	scale := envScaleFactor()
	return geom.Point{X: float64(reply.RootX) / scale, Y: float64(reply.RootY) / scale}, nil
}

func (x11Backend) CaptureFrame(ctx context.Context, bounds geom.Bounds, scale float64) (*image.RGBA, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return nil, fmt.Errorf("xproto screen unavailable")
	}

	rect := deviceRect(bounds, scale)
	if rect.Empty() {
		return nil, &session.CaptureEmptyError{Reason: "empty capture area"}
	}
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root),
		int16(rect.Min.X), int16(rect.Min.Y), uint16(rect.Dx()), uint16(rect.Dy()), ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root pixels: %w", err)
	}
	img, err := xImageToRGBA(setup, reply, rect.Dx(), rect.Dy())
	if err != nil {
		return nil, err
	}
	return checkFrame(img)
}

func rootWindow(conn *xgb.Conn) (xproto.Window, error) {
	setup := xproto.Setup(conn)
	if setup == nil {
		return 0, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return 0, fmt.Errorf("xproto screen unavailable")
	}
	return screen.Root, nil
}

// fetchDisplays walks the connected RandR outputs. CRTC geometry is in
// device pixels; bounds are divided back to logical coordinates so the
// transform pipeline owns the one scaling step.
func fetchDisplays(conn *xgb.Conn, root xproto.Window) ([]geom.DisplayInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	primary := randr.Output(0)
	if reply, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = reply.Output
	}
	scale := envScaleFactor()
	displays := make([]geom.DisplayInfo, 0, len(res.Outputs))
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		displays = append(displays, geom.DisplayInfo{
			Bounds: geom.Bounds{
				X:      int(math.Round(float64(crtc.X) / scale)),
				Y:      int(math.Round(float64(crtc.Y) / scale)),
				Width:  int(math.Round(float64(crtc.Width) / scale)),
				Height: int(math.Round(float64(crtc.Height) / scale)),
			},
			ScaleFactor: scale,
			Primary:     output == primary,
		})
	}
	if len(displays) == 0 {
		return nil, &session.CaptureEmptyError{Reason: "no connected outputs"}
	}
	return displays, nil
}
