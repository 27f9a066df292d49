package config

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/glintshot/internal/annotate"
)

func TestParseFullConfig(t *testing.T) {
	input := `
# capture tuning
[capture]
backend = x11
timeout = 8s
load_timeout = 1500
retries = 3
retry_delay = 250ms

[selection]
min_size = 20

[mosaic]
block_size = 16

[pen]
style = fountain
width = 4.5
color = "#3366FF"

[export]
save_dir = /tmp/shots
agent_url = http://localhost:8089/capture
ocr_lang = deu

[notify]
failure = false
too_small = true
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Capture.Backend != "x11" {
		t.Errorf("backend = %q", cfg.Capture.Backend)
	}
	if cfg.Capture.Timeout != 8*time.Second {
		t.Errorf("timeout = %s", cfg.Capture.Timeout)
	}
	if cfg.Capture.LoadTimeout != 1500*time.Millisecond {
		t.Errorf("bare-number load_timeout should be ms, got %s", cfg.Capture.LoadTimeout)
	}
	if cfg.Capture.Retries != 3 || cfg.Capture.RetryDelay != 250*time.Millisecond {
		t.Errorf("retries = %d delay = %s", cfg.Capture.Retries, cfg.Capture.RetryDelay)
	}
	if cfg.Selection.MinSize != 20 {
		t.Errorf("min_size = %d", cfg.Selection.MinSize)
	}
	if cfg.Mosaic.BlockSize != 16 {
		t.Errorf("block_size = %d", cfg.Mosaic.BlockSize)
	}
	if cfg.Pen.Style != annotate.PenFountain {
		t.Errorf("pen style = %s", cfg.Pen.Style)
	}
	if cfg.Pen.Width != 4.5 {
		t.Errorf("pen width = %g", cfg.Pen.Width)
	}
	if cfg.Pen.Color != (color.RGBA{R: 0x33, G: 0x66, B: 0xFF, A: 0xFF}) {
		t.Errorf("pen color = %v", cfg.Pen.Color)
	}
	if cfg.Export.SaveDir != "/tmp/shots" || cfg.Export.AgentURL != "http://localhost:8089/capture" || cfg.Export.OCRLang != "deu" {
		t.Errorf("export = %+v", cfg.Export)
	}
	if cfg.Notify.Failure || !cfg.Notify.TooSmall {
		t.Errorf("notify = %+v", cfg.Notify)
	}
}

func TestParseEmptyKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	def := New()
	if *cfg != *def {
		t.Fatalf("empty input changed defaults:\n got %+v\nwant %+v", cfg, def)
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	cfg := New()
	cfg.Capture.Backend = "portal"
	cfg.Capture.Timeout = 7 * time.Second
	cfg.Pen.Style = annotate.PenMarker
	cfg.Pen.Color = color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}
	cfg.Export.AgentURL = "http://agent:9000/shots"
	cfg.Notify.TooSmall = false

	back, err := Parse(strings.NewReader(cfg.String()))
	if err != nil {
		t.Fatalf("Parse(String()): %v", err)
	}
	if *back != *cfg {
		t.Fatalf("round trip drifted:\n got %+v\nwant %+v", back, cfg)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{name: "bad color", input: "[pen]\ncolor = red\n"},
		{name: "bad duration", input: "[capture]\ntimeout = soon\n"},
		{name: "negative retries", input: "[capture]\nretries = -1\n"},
		{name: "bad bool", input: "[notify]\nfailure = maybe\n"},
		{name: "zero width", input: "[pen]\nwidth = 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tc.input)); err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
		})
	}
}

func TestUnknownKeysAndSectionsIgnored(t *testing.T) {
	input := "[capture]\nfuture_key = 12\n\n[gadgets]\nenabled = true\n"
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if *cfg != *New() {
		t.Fatal("unknown keys must not change settings")
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.rc")
	if err := os.WriteFile(path, []byte("[selection]\nmin_size = 42\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("1.0", path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Selection.MinSize != 42 {
		t.Fatalf("min_size = %d, want 42", cfg.Selection.MinSize)
	}
}

func TestLoaderMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := NewLoader("1.0", filepath.Join(t.TempDir(), "absent.rc")).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != *New() {
		t.Fatal("missing file should produce defaults")
	}
}
