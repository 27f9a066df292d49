// Package export delivers confirmed crops to their destinations: file,
// clipboard, OCR, or a companion agent over HTTP. Every sink refuses images
// under the minimum selection size before doing any work.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"

	"github.com/example/glintshot/internal/crop"
	"github.com/example/glintshot/internal/geom"
)

// Sink receives a cropped image and the display bounds it came from.
type Sink interface {
	Export(img *image.RGBA, bounds geom.Bounds) error
}

// guard enforces the minimum size contract shared by all sinks.
func guard(img *image.RGBA) error {
	if img == nil {
		return &crop.CropError{Reason: "no image to export"}
	}
	if !crop.MeetsMinimumSize(img, crop.MinSelectionSize) {
		b := img.Bounds()
		return &crop.ImageTooSmallError{Width: b.Dx(), Height: b.Dy(), Min: crop.MinSelectionSize}
	}
	return nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Fanout sends one crop to several sinks. The guard runs once up front;
// individual sink failures are collected, not short-circuited.
type Fanout []Sink

func (f Fanout) Export(img *image.RGBA, bounds geom.Bounds) error {
	if err := guard(img); err != nil {
		return err
	}
	var errs []error
	for _, s := range f {
		if err := s.Export(img, bounds); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ocrMaxDim bounds the OCR payload; tesseract slows down sharply on very
// large bitmaps and gains nothing above this size.
const ocrMaxDim = 2000

func normalizeForOCR(img *image.RGBA) image.Image {
	b := img.Bounds()
	if b.Dx() <= ocrMaxDim && b.Dy() <= ocrMaxDim {
		return img
	}
	return imaging.Fit(img, ocrMaxDim, ocrMaxDim, imaging.Lanczos)
}
