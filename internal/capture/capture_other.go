//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package capture

import "fmt"

func autoBackend() Backend { return screenBackend{} }

func newX11Backend() (Backend, error) {
	return nil, fmt.Errorf("x11 backend is not supported on this platform")
}

func newPortalBackend() (Backend, error) {
	return nil, fmt.Errorf("portal backend is not supported on this platform")
}
