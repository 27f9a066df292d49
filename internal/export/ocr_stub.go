//go:build !cgo

package export

import (
	"fmt"
	"image"

	"github.com/example/glintshot/internal/geom"
)

// OCRSink requires a cgo build with tesseract available.
type OCRSink struct {
	Lang string
	Out  func(text string) error
}

func (OCRSink) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	return fmt.Errorf("ocr export requires a cgo build")
}
