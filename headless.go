package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/olivier-w/backdrop/internal/engine"
)

// renderFrames runs the engine on a fixed frame step and writes each frame
// as a PNG into opts.outDir.
func renderFrames(opts options) error {
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	e := engine.New(opts.cfg, engine.WithPalette(resolvePalette(opts.cfg, !opts.light)))
	defer e.Destroy()

	e.Resize(engine.Viewport{Width: opts.width, Height: opts.height, PixelRatio: opts.cfg.PixelRatio})
	e.Start()

	step := opts.cfg.FrameInterval()
	start := time.Unix(0, 0)
	for i := range opts.frames {
		if !e.OnFrame(start.Add(time.Duration(i) * step)) {
			return fmt.Errorf("frame %d: %w", i, engine.ErrNoSurface)
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("frame_%05d.png", i))
		if err := e.SavePNG(path); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	engine.Logger().Info("frames written", "count", opts.frames, "dir", opts.outDir, "stats", fmt.Sprintf("%+v", e.Stats()))
	return nil
}
