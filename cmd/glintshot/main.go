package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/example/glintshot/internal/config"
	"github.com/example/glintshot/internal/notify"
)

var (
	version            = "dev"
	commit             = ""
	date               = ""
	configPathOverride = ""
)

type runnable interface{ Run() error }

type root struct {
	fs             *flag.FlagSet
	program        string
	notifier       *notify.Notifier
	config         *config.Config
	failureAlerts  bool
	tooSmallAlerts bool
	exportedAlerts bool
}

func (r *root) Program() string {
	return r.program
}

func (r *root) FlagSet() *flag.FlagSet {
	return r.fs
}

func newRoot() *root {
	prefs := notify.LoadPreferences()
	loader := config.NewLoader(version, configPathOverride)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to load config: %v\n", err)
		cfg = config.New()
	}

	r := &root{
		fs:       flag.NewFlagSet("glintshot", flag.ExitOnError),
		program:  "glintshot",
		notifier: notify.New(prefs),
		config:   cfg,
	}
	r.fs.BoolVar(&r.failureAlerts, "notify-failure", cfg.Notify.Failure, "show a desktop notification when a capture fails")
	r.fs.BoolVar(&r.tooSmallAlerts, "notify-too-small", cfg.Notify.TooSmall, "show a desktop notification when a selection is rejected as too small")
	r.fs.BoolVar(&r.exportedAlerts, "notify-exported", true, "show a desktop notification after a crop is exported")
	r.fs.Usage = usageFunc(r)
	return r
}

func (r *root) Run(args []string) error {
	if err := r.fs.Parse(args); err != nil {
		return err
	}
	if r.fs.NArg() < 1 {
		return &UsageError{of: r}
	}
	if r.notifier != nil {
		r.notifier.Enable(notify.EventFailure, r.failureAlerts)
		r.notifier.Enable(notify.EventTooSmall, r.tooSmallAlerts)
		r.notifier.Enable(notify.EventExported, r.exportedAlerts)
	}

	cmdName := r.fs.Arg(0)
	subArgs := r.fs.Args()[1:]

	var (
		cmd runnable
		err error
	)
	switch strings.ToLower(cmdName) {
	case "shoot":
		cmd, err = parseShootCmd(subArgs, r)
	case "displays":
		cmd, err = parseDisplaysCmd(subArgs, r)
	case "crop":
		cmd, err = parseCropCmd(subArgs, r)
	case "config":
		cmd, err = parseConfigCmd(subArgs, r)
	case "version":
		cmd = &versionCmd{r: r}
	default:
		err = &UsageError{of: r}
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

func main() {
	r := newRoot()
	if err := r.Run(os.Args[1:]); err != nil {
		var uerr *UsageError
		if errors.As(err, &uerr) {
			fmt.Fprintln(os.Stderr, uerr.Error())
		} else {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}

func (r *root) notifyFailure(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Failure(detail)
}

func (r *root) notifyTooSmall(detail string) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.TooSmall(detail)
}

func (r *root) notifyExported(detail string, img image.Image) {
	if r == nil || r.notifier == nil {
		return
	}
	r.notifier.Exported(detail, img)
}
