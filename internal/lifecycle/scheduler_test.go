package lifecycle

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/olivier-w/backdrop/internal/geometry"
)

func newTestScheduler(seed uint64) *Scheduler {
	rng := rand.New(rand.NewPCG(seed, 1))
	return NewScheduler(rng, 2*time.Second, time.Second, 50, 1.2, 300)
}

func line(x1, y1, x2, y2 float64) geometry.Line {
	return geometry.Line{A: geometry.Point{X: x1, Y: y1}, B: geometry.Point{X: x2, Y: y2}}
}

// step drives a segment with a fixed frame step, returning the final clock and time.
func step(sc *Scheduler, s *Segment, clock, now, dt, speed float64, frames int, check func(clock, now float64)) (float64, float64) {
	for range frames {
		clock += dt * speed
		now += dt
		sc.Update(s, clock, now, false)
		if check != nil {
			check(clock, now)
		}
	}
	return clock, now
}

func TestAssignUsesNearestCenter(t *testing.T) {
	sc := newTestScheduler(1)
	segs := NewSegments([]geometry.Line{
		line(0, 0, 10, 0),        // midpoint (5,0)
		line(100, 100, 110, 100), // midpoint (105,100)
	})
	centers := []geometry.Point{{X: 5, Y: 0}, {X: 105, Y: 130}}
	sc.Assign(segs, centers, 0, false)

	if segs[0].StartDelay != 0 {
		t.Fatalf("segment on a center should start immediately, got %v", segs[0].StartDelay)
	}
	if want := 30 * 1.2; math.Abs(segs[1].StartDelay-want) > 1e-9 {
		t.Fatalf("expected delay %v, got %v", want, segs[1].StartDelay)
	}
}

func TestAssignOffsetsByBaseClock(t *testing.T) {
	sc := newTestScheduler(1)
	segs := NewSegments([]geometry.Line{line(0, 0, 10, 0)})
	sc.Assign(segs, []geometry.Point{{X: 5, Y: 10}}, 1000, false)
	if want := 1000 + 10*1.2; math.Abs(segs[0].StartDelay-want) > 1e-9 {
		t.Fatalf("expected delay %v, got %v", want, segs[0].StartDelay)
	}
	if segs[0].State() != Pending {
		t.Fatalf("expected pending, got %v", segs[0].State())
	}
}

func TestAssignReducedMotionZeroesDelays(t *testing.T) {
	sc := newTestScheduler(1)
	segs := NewSegments([]geometry.Line{line(0, 0, 10, 0), line(500, 500, 510, 500)})
	sc.Assign(segs, []geometry.Point{{X: 0, Y: 0}}, 500, true)
	for i, s := range segs {
		if s.StartDelay != 0 {
			t.Fatalf("segment %d: expected zero delay, got %v", i, s.StartDelay)
		}
	}
}

func TestProgressBoundedAndMonotonic(t *testing.T) {
	sc := newTestScheduler(2)
	s := NewSegment(line(0, 0, 120, 0))
	s.StartDelay = 40

	last := 0.0
	step(sc, &s, 0, 0, 1.0/30, 140, 600, func(clock, now float64) {
		if s.Progress < 0 || s.Progress > s.Length {
			t.Fatalf("progress %v outside [0,%v]", s.Progress, s.Length)
		}
		if s.State() == Drawing && s.Progress < last {
			t.Fatalf("progress decreased while drawing: %v -> %v", last, s.Progress)
		}
		if s.State() == Pending && clock >= s.StartDelay && s.Progress != 0 {
			t.Fatalf("pending segment has progress %v", s.Progress)
		}
		last = s.Progress
	})
}

func TestStateMachineTransitions(t *testing.T) {
	sc := newTestScheduler(3)
	s := NewSegment(line(0, 0, 100, 0))
	s.StartDelay = 10

	sc.Update(&s, 5, 0.1, false)
	if s.State() != Pending {
		t.Fatalf("expected pending before delay, got %v", s.State())
	}
	if _, ok := s.CompletedAt(); ok {
		t.Fatal("pending segment reports completion")
	}

	sc.Update(&s, 60, 0.5, false)
	if s.State() != Drawing || s.Progress != 50 {
		t.Fatalf("expected drawing at 50, got %v at %v", s.State(), s.Progress)
	}

	sc.Update(&s, 200, 1.0, false)
	if s.State() != Held || s.Progress != 100 {
		t.Fatalf("expected held at full length, got %v at %v", s.State(), s.Progress)
	}
	at, ok := s.CompletedAt()
	if !ok || at != 1.0 {
		t.Fatalf("expected completion at 1.0, got %v (%v)", at, ok)
	}

	// completion time is only set on the transition
	sc.Update(&s, 250, 2.0, false)
	if at, _ := s.CompletedAt(); at != 1.0 {
		t.Fatalf("completion time moved to %v", at)
	}

	sc.Update(&s, 500, 3.5, false)
	if s.State() != FadingOut {
		t.Fatalf("expected fading after fade delay, got %v", s.State())
	}
	if a := sc.Alpha(&s, 3.5); a <= 0 || a >= 1 {
		t.Fatalf("expected partial alpha mid-fade, got %v", a)
	}
}

func TestRecycleInvariant(t *testing.T) {
	sc := newTestScheduler(4)
	s := NewSegment(line(0, 0, 80, 0))
	s.StartDelay = 20

	const dt, speed = 1.0 / 30, 140.0
	clock, now := 0.0, 0.0
	var sawFading bool
	var fadeStart float64
	prevStart := s.StartDelay
	for range 2000 {
		clock += dt * speed
		now += dt
		before := s.State()
		sc.Update(&s, clock, now, false)
		if before != FadingOut && s.State() == FadingOut {
			sawFading = true
			fadeStart = now
		}
		if sawFading && s.State() == Pending {
			break
		}
	}
	if !sawFading {
		t.Fatal("segment never started fading")
	}
	if s.State() != Pending {
		t.Fatalf("segment did not recycle, state %v", s.State())
	}
	if now-fadeStart > sc.FadeDuration+2*dt {
		t.Fatalf("recycle took %v after fade start, limit %v", now-fadeStart, sc.FadeDuration)
	}
	if s.Progress != 0 {
		t.Fatalf("recycled progress = %v", s.Progress)
	}
	if _, ok := s.CompletedAt(); ok {
		t.Fatal("recycled segment still reports completion")
	}
	if s.StartDelay <= prevStart {
		t.Fatalf("new start delay %v not after previous %v", s.StartDelay, prevStart)
	}
	if s.StartDelay < clock || s.StartDelay > clock+sc.JitterWindow {
		t.Fatalf("new start delay %v outside [%v, %v]", s.StartDelay, clock, clock+sc.JitterWindow)
	}
}

func TestRecycleWithinFadeDelayPlusDuration(t *testing.T) {
	sc := newTestScheduler(5)
	s := NewSegment(line(0, 0, 10, 0))
	sc.Update(&s, 20, 1, false)
	if s.State() != Held {
		t.Fatalf("expected held, got %v", s.State())
	}
	done, _ := s.CompletedAt()

	// one update past delay+duration recycles, even after a long gap
	sc.Update(&s, 5000, done+sc.FadeDelay+sc.FadeDuration+0.01, false)
	if s.State() != Pending {
		t.Fatalf("expected recycle after delay+duration, got %v", s.State())
	}
}

func TestSegmentsLoopRepeatedly(t *testing.T) {
	sc := newTestScheduler(6)
	s := NewSegment(line(0, 0, 60, 0))
	cycles := 0
	var last State
	step(sc, &s, 0, 0, 1.0/30, 140, 30*60, func(_, _ float64) {
		if last == FadingOut && s.State() != FadingOut {
			cycles++
		}
		last = s.State()
	})
	if cycles < 3 {
		t.Fatalf("expected at least 3 cycles in a minute, got %d", cycles)
	}
}

func TestReducedMotionSnapsAndNeverFades(t *testing.T) {
	sc := newTestScheduler(7)
	segs := NewSegments([]geometry.Line{line(0, 0, 300, 0), line(0, 0, 5, 5)})
	sc.Assign(segs, []geometry.Point{{X: 1000, Y: 1000}}, 0, true)

	for i := range segs {
		sc.Update(&segs[i], 0, 0, true)
		if segs[i].Progress != segs[i].Length || segs[i].State() != Held {
			t.Fatalf("segment %d not fully drawn on first frame: %v %v", i, segs[i].State(), segs[i].Progress)
		}
		if a := sc.Alpha(&segs[i], 0); a != 1 {
			t.Fatalf("segment %d: expected full alpha, got %v", i, a)
		}
	}
	for i := range segs {
		sc.Update(&segs[i], 1e6, 1e4, true)
		if segs[i].State() != Held {
			t.Fatalf("segment %d left held under reduced motion: %v", i, segs[i].State())
		}
	}
}

func TestAlphaComposition(t *testing.T) {
	sc := newTestScheduler(8)
	s := NewSegment(line(0, 0, 200, 0))
	if a := sc.Alpha(&s, 0); a != 0 {
		t.Fatalf("pending alpha = %v", a)
	}
	sc.Update(&s, 25, 0.1, false)
	if a := sc.Alpha(&s, 0.1); math.Abs(a-0.5) > 1e-9 {
		t.Fatalf("expected half fade-in at 25 units, got %v", a)
	}
	sc.Update(&s, 150, 0.2, false)
	if a := sc.Alpha(&s, 0.2); a != 1 {
		t.Fatalf("expected full alpha past the ramp, got %v", a)
	}
}

func TestFractionAndTip(t *testing.T) {
	s := NewSegment(line(10, 10, 110, 10))
	s.Progress = 25
	if f := s.Fraction(); f != 0.25 {
		t.Fatalf("fraction = %v", f)
	}
	if tip := s.Tip(); tip.X != 35 || tip.Y != 10 {
		t.Fatalf("tip = %+v", tip)
	}
}
