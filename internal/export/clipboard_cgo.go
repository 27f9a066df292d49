//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package export

import (
	"errors"
	"os"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipInitOnce sync.Once
	clipInitErr  error
)

func clipboardInit() error {
	clipInitOnce.Do(func() {
		if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" {
			clipInitErr = errors.New("clipboard requires DISPLAY or WAYLAND_DISPLAY")
			return
		}
		clipInitErr = clipboard.Init()
	})
	return clipInitErr
}

func writeClipboardImage(data []byte) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func writeClipboardText(text string) error {
	if err := clipboardInit(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
