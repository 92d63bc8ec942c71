package engine

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// shimmer eases line opacity toward a slow oscillation of the hue phase.
// It is cosmetic only.
type shimmer struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	depth  float64
}

func newShimmer(fps int, depth float64) shimmer {
	if fps <= 0 {
		fps = 30
	}
	return shimmer{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
		pos:    1,
		depth:  depth,
	}
}

func (s *shimmer) step(phase float64) float64 {
	target := 1 - s.depth*(0.5+0.5*math.Sin(phase))
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return math.Max(0, math.Min(1, s.pos))
}
