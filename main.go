package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gogpu/gg"
	"github.com/olivier-w/backdrop/internal/config"
	"github.com/olivier-w/backdrop/internal/engine"
	"github.com/olivier-w/backdrop/internal/theme"
	"github.com/olivier-w/backdrop/internal/ui"
)

type options struct {
	cfg     config.Config
	logPath string
	debug   bool
	light   bool
	frames  int
	outDir  string
	width   int
	height  int
}

func main() {
	opts, err := parseArgs(os.Args[1:], os.LookupEnv)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	closeLog, err := setupLogging(opts.logPath, opts.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if opts.frames > 0 {
		if err := renderFrames(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	e := engine.New(opts.cfg, engine.WithPalette(resolvePalette(opts.cfg, lipgloss.HasDarkBackground())))
	defer e.Destroy()

	program := tea.NewProgram(ui.New(e, opts.cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func parseArgs(args []string, lookup func(string) (string, bool)) (options, error) {
	opts := options{cfg: config.Default(), outDir: "frames", width: 1280, height: 720}

	fs := flag.NewFlagSet("backdrop", flag.ContinueOnError)
	opts.cfg.Bind(fs)
	fs.StringVar(&opts.logPath, "log", "", "write logs to this file")
	fs.BoolVar(&opts.debug, "debug", false, "log debug detail")
	fs.BoolVar(&opts.light, "light", false, "use light theme defaults when rendering frames")
	fs.IntVar(&opts.frames, "frames", 0, "render this many frames to PNG instead of running the TUI")
	fs.StringVar(&opts.outDir, "out", opts.outDir, "directory for rendered frames")
	fs.IntVar(&opts.width, "width", opts.width, "frame width in logical pixels")
	fs.IntVar(&opts.height, "height", opts.height, "frame height in logical pixels")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}

	opts.cfg.ApplyEnv(lookup)
	if err := opts.cfg.Validate(); err != nil {
		return opts, err
	}
	if opts.frames < 0 {
		return opts, fmt.Errorf("frames must not be negative, got %d", opts.frames)
	}
	return opts, nil
}

// setupLogging routes engine logs to path. Without a path logging stays
// silent: the terminal belongs to the animation.
func setupLogging(path string, debug bool) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	installLogger(newLogger(f, debug))
	return func() {
		installLogger(nil)
		f.Close()
	}, nil
}

// installLogger routes both the engine and gg's rasterizer/accelerator
// diagnostics to l. nil silences both.
func installLogger(l *slog.Logger) {
	engine.SetLogger(l)
	if l == nil {
		gg.SetLogger(nil)
		return
	}
	gg.SetLogger(l.With("component", "gg"))
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func resolvePalette(cfg config.Config, dark bool) theme.Palette {
	p, err := theme.Resolve(theme.Tokens{Background: cfg.Background, Line: cfg.Line}, dark)
	if err != nil {
		engine.Logger().Warn("colour token fallback", "err", err)
	}
	return p
}
