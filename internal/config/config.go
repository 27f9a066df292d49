// Package config reads the glintshot rc file. The format is the usual
// key = value with [section] headers; String renders a config back out in
// the same format.
package config

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/example/glintshot/internal/annotate"
	"github.com/example/glintshot/internal/crop"
)

// Capture holds timeout and retry tuning for the capture flow.
type Capture struct {
	Backend     string
	Timeout     time.Duration
	LoadTimeout time.Duration
	Retries     int
	RetryDelay  time.Duration
}

// Selection holds selection constraints.
type Selection struct {
	MinSize int
}

// Mosaic holds mosaic tool settings.
type Mosaic struct {
	BlockSize int
}

// Pen holds the default pen tool settings.
type Pen struct {
	Style annotate.PenStyle
	Width float64
	Color color.RGBA
}

// Export holds export destinations.
type Export struct {
	SaveDir  string
	AgentURL string
	OCRLang  string
}

// Notify selects which desktop notifications fire.
type Notify struct {
	Failure  bool
	TooSmall bool
}

// Config holds the application configuration.
type Config struct {
	Capture   Capture
	Selection Selection
	Mosaic    Mosaic
	Pen       Pen
	Export    Export
	Notify    Notify
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Capture: Capture{
			Backend:     "auto",
			Timeout:     5 * time.Second,
			LoadTimeout: 3 * time.Second,
			Retries:     2,
			RetryDelay:  500 * time.Millisecond,
		},
		Selection: Selection{MinSize: crop.MinSelectionSize},
		Mosaic:    Mosaic{BlockSize: 12},
		Pen: Pen{
			Style: annotate.PenNormal,
			Width: 3,
			Color: color.RGBA{R: 0xE5, G: 0x3E, B: 0x3E, A: 0xFF},
		},
		Export: Export{OCRLang: "eng"},
		Notify: Notify{Failure: true, TooSmall: true},
	}
}

// String implements fmt.Stringer and returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	sb.WriteString("[capture]\n")
	fmt.Fprintf(&sb, "backend = %s\n", c.Capture.Backend)
	fmt.Fprintf(&sb, "timeout = %s\n", c.Capture.Timeout)
	fmt.Fprintf(&sb, "load_timeout = %s\n", c.Capture.LoadTimeout)
	fmt.Fprintf(&sb, "retries = %d\n", c.Capture.Retries)
	fmt.Fprintf(&sb, "retry_delay = %s\n", c.Capture.RetryDelay)
	sb.WriteString("\n[selection]\n")
	fmt.Fprintf(&sb, "min_size = %d\n", c.Selection.MinSize)
	sb.WriteString("\n[mosaic]\n")
	fmt.Fprintf(&sb, "block_size = %d\n", c.Mosaic.BlockSize)
	sb.WriteString("\n[pen]\n")
	fmt.Fprintf(&sb, "style = %s\n", c.Pen.Style)
	fmt.Fprintf(&sb, "width = %g\n", c.Pen.Width)
	fmt.Fprintf(&sb, "color = %s\n", toHex(c.Pen.Color))
	sb.WriteString("\n[export]\n")
	if c.Export.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.Export.SaveDir)
	}
	if c.Export.AgentURL != "" {
		fmt.Fprintf(&sb, "agent_url = %s\n", c.Export.AgentURL)
	}
	fmt.Fprintf(&sb, "ocr_lang = %s\n", c.Export.OCRLang)
	sb.WriteString("\n[notify]\n")
	fmt.Fprintf(&sb, "failure = %v\n", c.Notify.Failure)
	fmt.Fprintf(&sb, "too_small = %v\n", c.Notify.TooSmall)

	return sb.String()
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
