package export

import (
	"image"

	"github.com/example/glintshot/internal/geom"
)

// ClipboardSink publishes the crop as PNG on the system clipboard.
type ClipboardSink struct{}

func (ClipboardSink) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return writeClipboardImage(data)
}
