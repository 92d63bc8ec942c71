package engine

import (
	"math"
	"time"

	"github.com/gogpu/gg"
	"github.com/olivier-w/backdrop/internal/geometry"
)

const (
	glowWidth = 3.5

	// Segment alpha is quantized so each level is stroked as a single path.
	// Segments that round to level zero are not drawn.
	alphaLevels = 16
)

// OnFrame advances the clocks to now and paints one frame. It reports
// whether anything was painted; frames are no-ops while not running or
// without a surface.
func (e *Engine) OnFrame(now time.Time) bool {
	if e.state != stateRunning {
		return false
	}

	var dt time.Duration
	if !e.last.IsZero() {
		dt = now.Sub(e.last)
	}
	e.last = now
	dt = max(0, min(dt, e.cfg.MaxFrameDelta))

	secs := dt.Seconds()
	e.clock += secs * e.cfg.Speed
	e.elapsed += secs
	if !e.reduced {
		e.hue += secs * e.cfg.HueRate
	}

	sc := e.scene.Load()
	if sc == nil || e.surf == nil {
		return false
	}
	e.frames++

	e.surf.Fill(e.palette.Background)

	if !e.reduced && sc.field != nil {
		sc.field.Step(secs, e.surf, e.palette.Particle)
	}

	segs := sc.segments
	for i := range segs {
		e.sched.Update(&segs[i], e.clock, e.elapsed, e.reduced)
	}

	shim := 1.0
	if !e.reduced {
		shim = e.shimmer.step(e.hue)
	}
	for i := range e.batch {
		e.batch[i] = e.batch[i][:0]
	}
	for i := range segs {
		s := &segs[i]
		if s.Progress <= 0 {
			continue
		}
		level := min(int(math.Round(e.sched.Alpha(s, e.elapsed)*shim*alphaLevels)), alphaLevels)
		if level <= 0 {
			continue
		}
		e.batch[level-1] = append(e.batch[level-1], geometry.Line{A: s.A, B: s.Tip()})
	}

	lw := e.cfg.LineWidth
	if !e.reduced && e.cfg.Glow > 0 {
		for i, lines := range e.batch {
			if len(lines) > 0 {
				e.surf.Lines(lines, lw*glowWidth, withAlpha(e.palette.Glow, levelAlpha(i)*e.cfg.Glow*0.4))
			}
		}
	}
	for i, lines := range e.batch {
		if len(lines) > 0 {
			e.surf.Lines(lines, lw, withAlpha(e.palette.Line, levelAlpha(i)))
		}
	}
	return true
}

func levelAlpha(i int) float64 { return float64(i+1) / alphaLevels }

func withAlpha(c gg.RGBA, a float64) gg.RGBA {
	c.A = max(0, min(1, a))
	return c
}
