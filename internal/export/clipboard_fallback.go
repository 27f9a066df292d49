//go:build !((linux || freebsd || openbsd || netbsd || dragonfly) && cgo)

package export

import "fmt"

func writeClipboardImage([]byte) error {
	return fmt.Errorf("clipboard image export is not supported in this build")
}

func writeClipboardText(string) error {
	return fmt.Errorf("clipboard text export is not supported in this build")
}
