package engine

import (
	"github.com/olivier-w/backdrop/internal/geometry"
	"github.com/olivier-w/backdrop/internal/lifecycle"
	"github.com/olivier-w/backdrop/internal/particles"
	"github.com/olivier-w/backdrop/internal/surface"
)

// Viewport is the host's visible area in logical pixels.
type Viewport struct {
	Width, Height int
	PixelRatio    float64
}

func (v Viewport) normalized() Viewport {
	if v.Width < 0 {
		v.Width = 0
	}
	if v.Height < 0 {
		v.Height = 0
	}
	if v.PixelRatio <= 0 {
		v.PixelRatio = 1
	}
	return v
}

// Empty reports whether the viewport has no area.
func (v Viewport) Empty() bool { return v.Width <= 0 || v.Height <= 0 }

// scene is everything one build produces. It is replaced as a whole so a
// frame never sees a half-built set.
type scene struct {
	vp       Viewport
	grid     geometry.Grid
	segments []lifecycle.Segment
	field    *particles.Field
}

// EnsureSurface creates the rendering surface if there is none yet. It
// reports whether a surface is available; failures are logged, not returned.
func (e *Engine) EnsureSurface() bool {
	if e.surf != nil {
		return true
	}
	if e.state == stateDestroyed || e.vp.Empty() {
		return false
	}
	bw, bh := surface.BackingSize(e.vp.Width, e.vp.Height, e.vp.PixelRatio)
	s, err := e.factory(bw, bh)
	if err != nil {
		Logger().Warn("rendering surface unavailable", "err", err, "width", bw, "height", bh)
		return false
	}
	e.surf = s
	Logger().Debug("rendering surface created", "width", bw, "height", bh)
	return true
}

// Resize applies a new viewport: the surface backing store follows
// size × ratio and the lattice and particles are rebuilt from scratch.
// While stopped the viewport is remembered and applied on the next Start.
func (e *Engine) Resize(vp Viewport) {
	vp = vp.normalized()
	switch e.state {
	case stateDestroyed:
		return
	case stateStopped:
		e.pending = &vp
		return
	}
	e.vp = vp

	if !vp.Empty() && e.EnsureSurface() {
		bw, bh := surface.BackingSize(vp.Width, vp.Height, vp.PixelRatio)
		if err := e.surf.Resize(bw, bh, vp.PixelRatio); err != nil {
			Logger().Warn("resize surface", "err", err)
		}
	}
	e.rebuild()
}

// SetReducedMotion switches the motion preference, rebuilding when it changes.
func (e *Engine) SetReducedMotion(reduced bool) {
	if e.reduced == reduced || e.state == stateDestroyed {
		return
	}
	e.reduced = reduced
	e.rebuild()
}

// ReducedMotion returns the active motion preference.
func (e *Engine) ReducedMotion() bool { return e.reduced }

func (e *Engine) rebuild() {
	vp := e.vp
	w, h := float64(vp.Width), float64(vp.Height)
	cfg := e.cfg

	grid := geometry.LatticeGrid(w, h, cfg.TileSize, cfg.TilePadding)
	lines := geometry.BuildLattice(e.rng, w, h, cfg.TileSize, cfg.TilePadding, cfg.Jitter)
	segs := lifecycle.NewSegments(lines)
	centers := geometry.GrowthCenters(e.rng, cfg.GrowthCenters, w, h)
	e.sched.Assign(segs, centers, e.clock, e.reduced)

	next := &scene{vp: vp, grid: grid, segments: segs}
	if !e.reduced {
		next.field = particles.NewField(e.rng, w, h, particles.DefaultOptions(cfg.Particles))
	}
	e.scene.Store(next)

	Logger().Debug("scene rebuilt",
		"width", vp.Width, "height", vp.Height, "ratio", vp.PixelRatio,
		"tiles", grid.Tiles(), "segments", len(segs), "reduced", e.reduced)
}
