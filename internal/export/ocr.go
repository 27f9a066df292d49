//go:build cgo

package export

import (
	"fmt"
	"image"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/example/glintshot/internal/geom"
)

// OCRSink runs tesseract over the crop and hands the recognized text to Out.
// When Out is nil the text goes to the clipboard.
type OCRSink struct {
	Lang string
	Out  func(text string) error
}

func (s OCRSink) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	data, err := encodePNG(normalizeForOCR(img))
	if err != nil {
		return err
	}

	client := gosseract.NewClient()
	defer client.Close()
	if s.Lang != "" {
		if err := client.SetLanguage(s.Lang); err != nil {
			return fmt.Errorf("ocr language %q: %w", s.Lang, err)
		}
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return fmt.Errorf("ocr set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return fmt.Errorf("ocr: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return fmt.Errorf("ocr: no text recognized in %s crop", bounds)
	}

	out := s.Out
	if out == nil {
		out = writeClipboardText
	}
	return out(text)
}
