// Package lifecycle schedules the progressive reveal, hold, fade and recycle
// of lattice segments.
//
// Two time bases are used. clock is animation distance (seconds × speed) and
// drives drawing; now is elapsed animation seconds and drives fading. Both
// only advance inside frames, so a paused host does not fade anything.
package lifecycle

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/olivier-w/backdrop/internal/geometry"
)

// Scheduler owns the timing tunables and the random source used to stagger
// recycled segments.
type Scheduler struct {
	FadeDelay      float64 // seconds held before fading
	FadeDuration   float64 // seconds to fade out
	FadeInDistance float64 // distance over which a new line ramps to full alpha
	DelayScale     float64 // distance-to-clock factor for the initial delay
	JitterWindow   float64 // recycle delay window in clock units

	rng *rand.Rand
}

// NewScheduler builds a scheduler from durations.
func NewScheduler(rng *rand.Rand, fadeDelay, fadeDuration time.Duration, fadeIn, delayScale, jitter float64) *Scheduler {
	return &Scheduler{
		FadeDelay:      fadeDelay.Seconds(),
		FadeDuration:   fadeDuration.Seconds(),
		FadeInDistance: fadeIn,
		DelayScale:     delayScale,
		JitterWindow:   jitter,
		rng:            rng,
	}
}

// Assign sets the initial StartDelay of every segment to base plus the
// scaled distance from its midpoint to the nearest growth center. Under
// reduced motion every delay is zero.
func (sc *Scheduler) Assign(segs []Segment, centers []geometry.Point, base float64, reduced bool) {
	for i := range segs {
		s := &segs[i]
		if reduced {
			s.recycle(0)
			continue
		}
		s.recycle(base)
		if len(centers) == 0 {
			continue
		}
		m := s.Midpoint()
		best := math.Inf(1)
		for _, c := range centers {
			if d := m.Dist(c); d < best {
				best = d
			}
		}
		s.StartDelay = base + best*sc.DelayScale
	}
}

// Update advances one segment to the given clock and time.
func (sc *Scheduler) Update(s *Segment, clock, now float64, reduced bool) {
	if reduced {
		if s.state != Held {
			s.complete(now)
		}
		return
	}

	switch s.state {
	case Pending:
		if clock < s.StartDelay {
			return
		}
		s.begin()
		fallthrough
	case Drawing:
		p := math.Min(s.Length, clock-s.StartDelay)
		if p > s.Progress {
			s.Progress = p
		}
		if s.Progress >= s.Length {
			s.complete(now)
		}
	case Held:
		if now-s.completedAt <= sc.FadeDelay {
			return
		}
		s.fade()
		fallthrough
	case FadingOut:
		if sc.FadeOut(s, now) <= 0 {
			prev := s.StartDelay
			next := clock
			if sc.JitterWindow > 0 {
				next += sc.rng.Float64() * sc.JitterWindow
			}
			if next <= prev {
				next = math.Nextafter(prev, math.Inf(1))
			}
			s.recycle(next)
		}
	}
}

// FadeIn ramps from 0 to 1 over the first FadeInDistance units drawn, or
// over the whole line when it is shorter than that.
func (sc *Scheduler) FadeIn(s *Segment) float64 {
	ramp := math.Min(sc.FadeInDistance, s.Length)
	if ramp <= 0 {
		return 1
	}
	return math.Min(1, s.Progress/ramp)
}

// FadeOut is 1 outside FadingOut and decays linearly to 0 over FadeDuration.
func (sc *Scheduler) FadeOut(s *Segment, now float64) float64 {
	if s.state != FadingOut {
		return 1
	}
	if sc.FadeDuration <= 0 {
		return 0
	}
	into := now - s.completedAt - sc.FadeDelay
	return math.Max(0, math.Min(1, 1-into/sc.FadeDuration))
}

// Alpha is the segment opacity before any cosmetic modulation.
func (sc *Scheduler) Alpha(s *Segment, now float64) float64 {
	if s.state == Pending {
		return 0
	}
	return sc.FadeIn(s) * sc.FadeOut(s, now)
}
