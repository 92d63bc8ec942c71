package lifecycle

import "github.com/olivier-w/backdrop/internal/geometry"

// Segment is one lattice line plus its draw/fade state. Only the Scheduler
// mutates it; renderers read Line, Progress and Fraction.
type Segment struct {
	geometry.Line
	Length     float64
	StartDelay float64 // clock value at which drawing begins
	Progress   float64 // distance drawn, 0..Length

	state       State
	completedAt float64
}

// NewSegment wraps a line in the Pending state.
func NewSegment(l geometry.Line) Segment {
	return Segment{Line: l, Length: l.Length()}
}

// NewSegments wraps every line.
func NewSegments(lines []geometry.Line) []Segment {
	segs := make([]Segment, len(lines))
	for i, l := range lines {
		segs[i] = NewSegment(l)
	}
	return segs
}

// State returns the current phase.
func (s *Segment) State() State { return s.state }

// CompletedAt returns the time the segment finished drawing. ok is false
// unless the segment is Held or FadingOut.
func (s *Segment) CompletedAt() (t float64, ok bool) {
	if s.state == Held || s.state == FadingOut {
		return s.completedAt, true
	}
	return 0, false
}

// Fraction returns Progress/Length, the drawn share of the line.
func (s *Segment) Fraction() float64 {
	if s.Length <= 0 {
		if s.state == Pending {
			return 0
		}
		return 1
	}
	return s.Progress / s.Length
}

// Tip returns the current end of the drawn part of the line.
func (s *Segment) Tip() geometry.Point {
	f := s.Fraction()
	return geometry.Point{
		X: s.A.X + (s.B.X-s.A.X)*f,
		Y: s.A.Y + (s.B.Y-s.A.Y)*f,
	}
}

func (s *Segment) begin() {
	s.state = Drawing
}

func (s *Segment) complete(now float64) {
	s.Progress = s.Length
	s.state = Held
	s.completedAt = now
}

func (s *Segment) fade() {
	s.state = FadingOut
}

// recycle returns the segment to Pending; completion is cleared with the
// state so a stale timestamp cannot survive.
func (s *Segment) recycle(delay float64) {
	s.state = Pending
	s.Progress = 0
	s.completedAt = 0
	s.StartDelay = delay
}
