package main

import (
	"flag"
	"fmt"
	"os"
)

type displaysCmd struct {
	backend string
	*root
	fs *flag.FlagSet
}

func parseDisplaysCmd(args []string, r *root) (*displaysCmd, error) {
	fs := flag.NewFlagSet("displays", flag.ExitOnError)
	cmd := &displaysCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.backend, "backend", r.config.Capture.Backend, "capture backend: auto, screen, x11, or portal")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *displaysCmd) Run() error {
	backend, err := newBackendFn(c.backend)
	if err != nil {
		return err
	}
	displays, err := backend.List()
	if err != nil {
		return err
	}
	if len(displays) == 0 {
		fmt.Fprintln(os.Stdout, "no displays available")
		return nil
	}
	fmt.Fprintln(os.Stdout, "attached displays (* marks the primary display):")
	for idx, d := range displays {
		marker := " "
		if d.Primary {
			marker = "*"
		}
		fmt.Fprintf(os.Stdout, "%s %2d: %s scale %.2f\n", marker, idx, d.Bounds, d.ScaleFactor)
	}
	fmt.Fprintln(os.Stdout, "selectors: primary, an index, or #N")
	return nil
}

func (c *displaysCmd) FlagSet() *flag.FlagSet {
	return c.fs
}
