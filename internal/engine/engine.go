// Package engine runs the ambient backdrop: it owns the rendering surface,
// the lattice scene and the frame clock state, and paints one frame per
// OnFrame call from the host.
//
// An Engine is driven from a single goroutine (the host's frame loop). The
// scene pointer is swapped atomically on rebuild so a frame always sees one
// complete build.
package engine

import (
	"errors"
	"image"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/olivier-w/backdrop/internal/config"
	"github.com/olivier-w/backdrop/internal/geometry"
	"github.com/olivier-w/backdrop/internal/lifecycle"
	"github.com/olivier-w/backdrop/internal/surface"
	"github.com/olivier-w/backdrop/internal/theme"
)

// ErrNoSurface is returned when pixels are requested but no surface exists.
var ErrNoSurface = errors.New("no rendering surface")

type runState uint8

const (
	stateIdle runState = iota
	stateRunning
	stateStopped
	stateDestroyed
)

// Engine is one backdrop instance.
type Engine struct {
	cfg     config.Config
	palette theme.Palette
	factory surface.Factory
	rng     *rand.Rand
	sched   *lifecycle.Scheduler
	shimmer shimmer

	surf    surface.Surface
	vp      Viewport
	pending *Viewport
	scene   atomic.Pointer[scene]
	reduced bool

	state   runState
	gen     uint64
	last    time.Time
	clock   float64 // distance units
	elapsed float64 // seconds, clamped per frame
	hue     float64
	frames  uint64

	batch [alphaLevels][]geometry.Line
}

// Option configures an Engine.
type Option func(*Engine)

// WithSurfaceFactory replaces the default gg canvas factory.
func WithSurfaceFactory(f surface.Factory) Option {
	return func(e *Engine) { e.factory = f }
}

// WithPalette sets the resolved colours.
func WithPalette(p theme.Palette) Option {
	return func(e *Engine) { e.palette = p }
}

// WithRand sets the random source used for geometry, delays and particles.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) { e.rng = r }
}

// New creates an idle engine. Call Resize with the host viewport, then Start.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		reduced: cfg.ReducedMotion,
		shimmer: newShimmer(cfg.FPS, 0.25),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.factory == nil {
		e.factory = surface.NewFactory()
	}
	if e.rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		e.rng = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if e.palette == (theme.Palette{}) {
		e.palette = theme.Default(true)
	}
	e.sched = lifecycle.NewScheduler(e.rng, cfg.FadeDelay, cfg.FadeDuration,
		cfg.FadeInDistance, cfg.DelayScale, cfg.JitterWindow)
	return e
}

// Start begins (or resumes) the frame loop. It returns the loop generation
// and whether a new loop was started; calling Start on a running engine
// returns the current generation and false so the host never schedules a
// second loop.
func (e *Engine) Start() (uint64, bool) {
	switch e.state {
	case stateDestroyed:
		return 0, false
	case stateRunning:
		return e.gen, false
	}
	wasStopped := e.state == stateStopped
	e.state = stateRunning
	e.gen++
	e.last = time.Time{}

	if p := e.pending; p != nil {
		e.pending = nil
		if *p != e.vp {
			e.Resize(*p)
		}
	} else if !wasStopped && e.scene.Load() == nil {
		e.Resize(e.vp)
	}
	Logger().Debug("frame loop started", "generation", e.gen)
	return e.gen, true
}

// Stop ends the frame loop and ignores further resize notifications until
// the next Start.
func (e *Engine) Stop() {
	if e.state != stateRunning {
		return
	}
	e.state = stateStopped
	Logger().Debug("frame loop stopped", "generation", e.gen)
}

// Destroy stops the engine and releases the surface. The engine cannot be
// restarted.
func (e *Engine) Destroy() {
	if e.state == stateDestroyed {
		return
	}
	e.state = stateDestroyed
	e.scene.Store(nil)
	if e.surf != nil {
		if err := e.surf.Close(); err != nil {
			Logger().Warn("close surface", "err", err)
		}
		e.surf = nil
	}
	Logger().Debug("engine destroyed")
}

// Running reports whether frames are being painted.
func (e *Engine) Running() bool { return e.state == stateRunning }

// Generation identifies the current frame loop; it changes on every Start.
func (e *Engine) Generation() uint64 { return e.gen }

// Palette returns the colours the engine paints with.
func (e *Engine) Palette() theme.Palette { return e.palette }

// Viewport returns the applied viewport.
func (e *Engine) Viewport() Viewport { return e.vp }

// Snapshot returns the painted pixels, or nil without a surface.
func (e *Engine) Snapshot() image.Image {
	if e.surf == nil {
		return nil
	}
	return e.surf.Image()
}

// SavePNG writes the current frame to path.
func (e *Engine) SavePNG(path string) error {
	if e.surf == nil {
		return ErrNoSurface
	}
	return e.surf.SavePNG(path)
}

// Stats is a read-only summary for hosts and tests.
type Stats struct {
	Segments  int
	Particles int
	Tiles     int
	Clock     float64
	Elapsed   float64
	Frames    uint64
}

// Stats summarises the current scene and clocks.
func (e *Engine) Stats() Stats {
	st := Stats{Clock: e.clock, Elapsed: e.elapsed, Frames: e.frames}
	if sc := e.scene.Load(); sc != nil {
		st.Segments = len(sc.segments)
		st.Tiles = sc.grid.Tiles()
		if sc.field != nil {
			st.Particles = sc.field.Len()
		}
	}
	return st
}
