package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/example/glintshot/internal/capture"
	"github.com/example/glintshot/internal/export"
	"github.com/example/glintshot/internal/geom"
	"github.com/example/glintshot/internal/overlay"
	"github.com/example/glintshot/internal/render"
	"github.com/example/glintshot/internal/session"
	"github.com/example/glintshot/internal/theme"
)

// newBackendFn is swapped out in tests.
var newBackendFn = capture.New

type shootCmd struct {
	display     string
	backend     string
	output      string
	toClipboard bool
	agentURL    string
	ocr         bool
	ocrLang     string
	themeName   string
	*root
	fs *flag.FlagSet
}

func (s *shootCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func parseShootCmd(args []string, r *root) (*shootCmd, error) {
	fs := flag.NewFlagSet("shoot", flag.ExitOnError)
	s := &shootCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	cfg := r.config
	fs.StringVar(&s.display, "display", "", "target display selector (primary, an index, or #N); default is the display under the cursor")
	fs.StringVar(&s.backend, "backend", cfg.Capture.Backend, "capture backend: auto, screen, x11, or portal")
	fs.StringVar(&s.output, "out", "", "write the crop to this file path")
	fs.BoolVar(&s.toClipboard, "to-clipboard", false, "copy the crop to the clipboard")
	fs.BoolVar(&s.toClipboard, "to-clip", false, "copy the crop to the clipboard (alias)")
	fs.StringVar(&s.agentURL, "agent", cfg.Export.AgentURL, "POST the crop as PNG to this endpoint")
	fs.BoolVar(&s.ocr, "ocr", false, "run OCR on the crop and copy the recognized text")
	fs.StringVar(&s.ocrLang, "ocr-lang", cfg.Export.OCRLang, "OCR language")
	fs.StringVar(&s.themeName, "theme", os.Getenv("GLINTSHOT_THEME"), "overlay chrome theme (default, dark, high_contrast, or a .theme file)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: s}
	}
	return s, nil
}

func (s *shootCmd) Run() error {
	backend, err := newBackendFn(s.backend)
	if err != nil {
		return err
	}
	var displays session.Displays = backend
	if s.display != "" {
		displays = &pinnedDisplays{backend: backend, selector: s.display}
	}

	cfg := s.root.config
	opts := session.Options{
		CaptureTimeout: cfg.Capture.Timeout,
		LoadTimeout:    cfg.Capture.LoadTimeout,
		RetryAttempts:  cfg.Capture.Retries,
		RetryDelay:     cfg.Capture.RetryDelay,
		MinSelection:   cfg.Selection.MinSize,
	}

	th, err := theme.NewLoader().Load(s.themeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, using default theme\n", err)
		th = theme.Default()
	}

	var runErr error
	overlay.Run(func(f *overlay.Factory) {
		orch := session.New(displays, backend, f, opts)
		ui := newShootUI(orch, s.root, cfg, s.sinks())
		f.OnInput(ui.handle)
		if err := orch.StartCapture(context.Background()); err != nil {
			s.root.notifyFailure(err.Error())
			runErr = err
			return
		}
		if engine := orch.Engine(); engine != nil {
			engine.SetChrome(th.Chrome(render.ModeStill))
		}
		<-ui.done
		runErr = ui.err
	})
	return runErr
}

// sinks assembles the export fan-out from the flags. With no destination
// flags at all the crop goes to a timestamped file.
func (s *shootCmd) sinks() export.Fanout {
	var out export.Fanout
	path := s.output
	if path == "" && !s.toClipboard && !s.ocr && s.agentURL == "" {
		path = time.Now().Format("glintshot-20060102-150405.png")
		if dir := s.root.config.Export.SaveDir; dir != "" {
			path = filepath.Join(dir, path)
		}
	}
	if path != "" {
		out = append(out, export.FileSink{Path: path})
	}
	if s.toClipboard {
		out = append(out, export.ClipboardSink{})
	}
	if s.agentURL != "" {
		out = append(out, export.AgentSink{URL: s.agentURL})
	}
	if s.ocr {
		out = append(out, export.OCRSink{Lang: s.ocrLang})
	}
	return out
}

// pinnedDisplays narrows the layout to one selected display so the session
// orchestrator targets it regardless of where the cursor sits.
type pinnedDisplays struct {
	backend  capture.Backend
	selector string
}

func (p *pinnedDisplays) List() ([]geom.DisplayInfo, error) {
	all, err := p.backend.List()
	if err != nil {
		return nil, err
	}
	target, err := capture.FindDisplay(all, p.selector)
	if err != nil {
		return nil, err
	}
	return []geom.DisplayInfo{target}, nil
}

func (p *pinnedDisplays) CursorPosition() (geom.Point, error) {
	return geom.Point{}, fmt.Errorf("display pinned to %q", p.selector)
}
