package export

import (
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"time"

	"github.com/example/glintshot/internal/geom"
)

// FileSink writes the crop as a PNG file. An empty Path picks a timestamped
// name in the working directory.
type FileSink struct {
	Path string
}

func (s FileSink) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	path := s.Path
	if path == "" {
		path = time.Now().Format("glintshot-20060102-150405.png")
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		if cerr := out.Close(); cerr != nil {
			log.Printf("export: closing %s: %v", path, cerr)
		}
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("save %s: closing file: %w", path, err)
	}
	log.Printf("export: saved %s (%s)", path, bounds)
	return nil
}
