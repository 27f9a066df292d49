package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/example/glintshot/internal/crop"
	"github.com/example/glintshot/internal/export"
	"github.com/example/glintshot/internal/geom"
)

type cropCmd struct {
	file        string
	rect        string
	output      string
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func parseCropCmd(args []string, r *root) (*cropCmd, error) {
	fs := flag.NewFlagSet("crop", flag.ExitOnError)
	cmd := &cropCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.file, "file", "", "source PNG to crop")
	fs.StringVar(&cmd.rect, "rect", "", "crop rectangle as x,y,w,h in image pixels")
	fs.StringVar(&cmd.output, "out", "", "write the crop to this file path")
	fs.BoolVar(&cmd.toClipboard, "to-clipboard", false, "copy the crop to the clipboard")
	fs.BoolVar(&cmd.toClipboard, "to-clip", false, "copy the crop to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 || cmd.file == "" || cmd.rect == "" {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *cropCmd) Run() error {
	bounds, err := parseCropRect(c.rect)
	if err != nil {
		return err
	}
	src, err := loadRGBA(c.file)
	if err != nil {
		return err
	}
	min := c.root.config.Selection.MinSize
	if bounds.Width < min || bounds.Height < min {
		err := &crop.ImageTooSmallError{Width: bounds.Width, Height: bounds.Height, Min: min}
		c.root.notifyTooSmall(err.Error())
		return err
	}
	out, err := crop.Region(src, bounds)
	if err != nil {
		var invalid *crop.InvalidBoundsError
		if errors.As(err, &invalid) {
			return fmt.Errorf("rectangle %s does not overlap %s: %w", bounds, c.file, err)
		}
		return err
	}

	sinks := export.Fanout{}
	if c.output != "" || !c.toClipboard {
		sinks = append(sinks, export.FileSink{Path: c.output})
	}
	if c.toClipboard {
		sinks = append(sinks, export.ClipboardSink{})
	}
	if err := sinks.Export(out, bounds); err != nil {
		return err
	}
	c.root.notifyExported(fmt.Sprintf("%s from %s", bounds, c.file), out)
	return nil
}

func (c *cropCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

// parseCropRect parses an x,y,w,h rectangle in image pixels.
func parseCropRect(val string) (geom.Bounds, error) {
	parts := strings.Split(val, ",")
	if len(parts) != 4 {
		return geom.Bounds{}, fmt.Errorf("invalid rectangle %q, want x,y,w,h", val)
	}
	nums := make([]int, 4)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return geom.Bounds{}, fmt.Errorf("invalid rectangle %q, want x,y,w,h", val)
		}
		nums[i] = v
	}
	b := geom.Bounds{X: nums[0], Y: nums[1], Width: nums[2], Height: nums[3]}
	if b.Empty() {
		return geom.Bounds{}, fmt.Errorf("rectangle %q is empty", val)
	}
	return b, nil
}

func loadRGBA(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
