// Package theme defines color treatments for the selection overlay chrome
// and loads user-defined ones from simple key-value files.
package theme

import (
	"image/color"
	"strings"

	"github.com/example/glintshot/internal/render"
)

// Theme defines the overlay chrome palette.
type Theme struct {
	Name string

	// Dim covers everything outside the active selection.
	Dim color.RGBA

	// Border strokes the selection in still mode, RecordBorder in record
	// mode.
	Border       color.RGBA
	RecordBorder color.RGBA

	BorderWidth  int
	CornerLength int
	CornerWidth  int
}

// Chrome maps the theme onto the render options for the given mode.
func (t *Theme) Chrome(mode render.Mode) render.ChromeOptions {
	opts := render.DefaultChromeOptions(mode)
	opts.Dim = t.Dim
	opts.Border = t.Border
	if mode == render.ModeRecord {
		opts.Border = t.RecordBorder
	}
	if t.BorderWidth > 0 {
		opts.BorderWidth = t.BorderWidth
	}
	if t.CornerLength > 0 {
		opts.CornerLength = t.CornerLength
	}
	if t.CornerWidth > 0 {
		opts.CornerWidth = t.CornerWidth
	}
	return opts
}

// Default returns the standard light-dim treatment.
func Default() *Theme {
	return &Theme{
		Name:         "Default",
		Dim:          color.RGBA{A: 0x80},
		Border:       color.RGBA{R: 0x2d, G: 0x8c, B: 0xf0, A: 0xff},
		RecordBorder: color.RGBA{R: 0xe5, G: 0x48, B: 0x4d, A: 0xff},
		BorderWidth:  2,
		CornerLength: 16,
		CornerWidth:  4,
	}
}

// Dark returns a heavier dim for bright desktops.
func Dark() *Theme {
	t := Default()
	t.Name = "Dark"
	t.Dim = color.RGBA{A: 0xB0}
	t.Border = color.RGBA{R: 0x4f, G: 0xa3, B: 0xff, A: 0xff}
	return t
}

// HighContrast returns a theme with a near-opaque dim and thick white
// borders.
func HighContrast() *Theme {
	t := Default()
	t.Name = "HighContrast"
	t.Dim = color.RGBA{A: 0xD0}
	t.Border = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	t.RecordBorder = color.RGBA{R: 0xff, G: 0xd0, B: 0x00, A: 0xff}
	t.BorderWidth = 3
	t.CornerWidth = 6
	return t
}

// Builtin resolves a built-in theme by name, case-insensitively.
func Builtin(name string) (*Theme, bool) {
	switch strings.ToLower(name) {
	case "", "default":
		return Default(), true
	case "dark":
		return Dark(), true
	case "high_contrast", "high-contrast":
		return HighContrast(), true
	}
	return nil, false
}
