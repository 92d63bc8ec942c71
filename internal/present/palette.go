package present

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

// Density ramp from empty to full coverage.
const asciiRamp = " .:-=+*#%@"

const ansiReset = termenv.CSI + termenv.ResetSeq + "m"

// The canvas only holds blends of background and line colour, so the set of
// distinct cells stays small. The cap guards against photographic input.
const maxCachedSeqs = 4096

type seqKey struct {
	r, g, b uint8
	bg      bool
}

// sequences maps pixel colours to escape sequences for one terminal profile.
type sequences struct {
	profile termenv.Profile
	cache   map[seqKey]string
}

func newSequences(p termenv.Profile) *sequences {
	return &sequences{profile: p, cache: make(map[seqKey]string)}
}

func (s *sequences) fg(r, g, b uint8) string { return s.lookup(seqKey{r, g, b, false}) }
func (s *sequences) bg(r, g, b uint8) string { return s.lookup(seqKey{r, g, b, true}) }

func (s *sequences) lookup(k seqKey) string {
	if seq, ok := s.cache[k]; ok {
		return seq
	}
	if len(s.cache) >= maxCachedSeqs {
		clear(s.cache)
	}
	var seq string
	if c := s.profile.Color(fmt.Sprintf("#%02x%02x%02x", k.r, k.g, k.b)); c != nil {
		if code := c.Sequence(k.bg); code != "" {
			seq = termenv.CSI + code + "m"
		}
	}
	s.cache[k] = seq
	return seq
}

// ramp picks ASCII characters by how far a pixel's lightness sits from the
// backdrop's background, so lines read as ink on both dark and light themes.
type ramp struct {
	bgL   float64
	scale float64
}

func newRamp(background color.Color) ramp {
	c, ok := colorful.MakeColor(background)
	if !ok {
		c = colorful.Color{}
	}
	l, _, _ := c.Lab()
	l = min(max(l, 0), 1)
	return ramp{bgL: l, scale: max(l, 1-l)}
}

func (rp ramp) char(r, g, b uint8) byte {
	if rp.scale <= 0 {
		return asciiRamp[0]
	}
	l, _, _ := colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Lab()
	d := l - rp.bgL
	if d < 0 {
		d = -d
	}
	idx := int(math.Round(d / rp.scale * float64(len(asciiRamp)-1)))
	idx = min(max(idx, 0), len(asciiRamp)-1)
	return asciiRamp[idx]
}
