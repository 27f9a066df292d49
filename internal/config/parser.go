package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/glintshot/internal/annotate"
)

// Parse reads configuration from an io.Reader. Unknown keys are ignored so
// old binaries tolerate new config files.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}

		var parts []string
		if strings.Contains(line, "=") {
			parts = strings.SplitN(line, "=", 2)
		} else if strings.Contains(line, ":") {
			parts = strings.SplitN(line, ":", 2)
		} else {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])
		if strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section {
		case "capture":
			err = setCaptureField(&cfg.Capture, key, value)
		case "selection":
			err = setSelectionField(&cfg.Selection, key, value)
		case "mosaic":
			err = setMosaicField(&cfg.Mosaic, key, value)
		case "pen":
			err = setPenField(&cfg.Pen, key, value)
		case "export":
			err = setExportField(&cfg.Export, key, value)
		case "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			return nil, fmt.Errorf("error in section [%s]: %w", section, err)
		}
	}

	return cfg, scanner.Err()
}

func setCaptureField(c *Capture, key, value string) error {
	switch key {
	case "backend":
		c.Backend = value
	case "timeout":
		return setDuration(&c.Timeout, key, value)
	case "load_timeout":
		return setDuration(&c.LoadTimeout, key, value)
	case "retries":
		return setPositiveInt(&c.Retries, key, value)
	case "retry_delay":
		return setDuration(&c.RetryDelay, key, value)
	}
	return nil
}

func setSelectionField(s *Selection, key, value string) error {
	if key == "min_size" {
		return setPositiveInt(&s.MinSize, key, value)
	}
	return nil
}

func setMosaicField(m *Mosaic, key, value string) error {
	if key == "block_size" {
		return setPositiveInt(&m.BlockSize, key, value)
	}
	return nil
}

func setPenField(p *Pen, key, value string) error {
	switch key {
	case "style":
		p.Style = annotate.ParsePenStyle(value)
	case "width":
		w, err := strconv.ParseFloat(value, 64)
		if err != nil || w <= 0 {
			return fmt.Errorf("invalid width %q", value)
		}
		p.Width = w
	case "color":
		col, err := parseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		p.Color = col
	}
	return nil
}

func setExportField(e *Export, key, value string) error {
	switch key {
	case "save_dir":
		e.SaveDir = value
	case "agent_url":
		e.AgentURL = value
	case "ocr_lang":
		e.OCRLang = value
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch key {
	case "failure":
		n.Failure = b
	case "too_small":
		n.TooSmall = b
	}
	return nil
}

// setDuration accepts Go duration syntax and, for compatibility, bare
// numbers meaning milliseconds.
func setDuration(dst *time.Duration, key, value string) error {
	if ms, err := strconv.Atoi(value); err == nil {
		if ms <= 0 {
			return fmt.Errorf("invalid duration for key %s: %q", key, value)
		}
		*dst = time.Duration(ms) * time.Millisecond
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("invalid duration for key %s: %q", key, value)
	}
	*dst = d
	return nil
}

func setPositiveInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("invalid value for key %s: %q", key, value)
	}
	*dst = n
	return nil
}

// parseColor parses #RRGGBB and #RRGGBBAA hex colors.
func parseColor(s string) (color.RGBA, error) {
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("color must start with #")
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 16),
			G: uint8((val >> 8) & 0xFF),
			B: uint8(val & 0xFF),
			A: 255,
		}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, err
		}
		return color.RGBA{
			R: uint8(val >> 24),
			G: uint8((val >> 16) & 0xFF),
			B: uint8((val >> 8) & 0xFF),
			A: uint8(val & 0xFF),
		}, nil
	}
	return color.RGBA{}, fmt.Errorf("invalid hex length")
}
