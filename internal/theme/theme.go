// Package theme resolves the engine's colour tokens. Lookup failures never
// reach the renderer: every token has a hard-coded fallback.
package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Adaptive is a default token with one value per host background.
type Adaptive struct {
	Light string
	Dark  string
}

// For returns the value matching a dark or light host background.
func (a Adaptive) For(dark bool) string {
	if dark {
		return a.Dark
	}
	return a.Light
}

// Token defaults follow the host's light/dark background.
var (
	BackgroundToken = Adaptive{Light: "#f4f1ea", Dark: "#0d1117"}
	LineToken       = Adaptive{Light: "#2f5d8a", Dark: "#58a6ff"}
)

// Hard fallbacks used when even the adaptive default fails to parse.
var (
	fallbackBackground = gg.RGBA{R: 0.05, G: 0.07, B: 0.09, A: 1}
	fallbackLine       = gg.RGBA{R: 0.35, G: 0.65, B: 1, A: 1}
)

// Tokens are the externally supplied colour names. Empty means "use the
// adaptive default".
type Tokens struct {
	Background string
	Line       string
}

// Palette is the resolved set of colours the engine paints with.
type Palette struct {
	Background gg.RGBA
	Line       gg.RGBA
	Glow       gg.RGBA
	Particle   gg.RGBA
}

// Default returns the palette built from the adaptive defaults alone.
func Default(dark bool) Palette {
	p, _ := Resolve(Tokens{}, dark)
	return p
}

// Resolve turns tokens into a palette. The returned palette is always usable;
// the error lists the tokens that fell back to defaults.
func Resolve(tok Tokens, dark bool) (Palette, error) {
	var errs []error

	bg, err := pick("background", tok.Background, BackgroundToken.For(dark), fallbackBackground)
	if err != nil {
		errs = append(errs, err)
	}
	line, err := pick("line", tok.Line, LineToken.For(dark), fallbackLine)
	if err != nil {
		errs = append(errs, err)
	}

	return Palette{
		Background: toRGBA(bg),
		Line:       toRGBA(line),
		Glow:       toRGBA(line.BlendLab(bg, 0.35)),
		Particle:   toRGBA(line.BlendLab(colorful.Color{R: 1, G: 1, B: 1}, 0.4)),
	}, errors.Join(errs...)
}

func pick(name, token, def string, hard gg.RGBA) (colorful.Color, error) {
	if strings.TrimSpace(token) != "" {
		c, err := Parse(token)
		if err == nil {
			return c, nil
		}
		if d, derr := Parse(def); derr == nil {
			return d, fmt.Errorf("%s token %q: %w", name, token, err)
		}
		return colorful.Color{R: hard.R, G: hard.G, B: hard.B}, fmt.Errorf("%s token %q: %w", name, token, err)
	}
	c, err := Parse(def)
	if err != nil {
		return colorful.Color{R: hard.R, G: hard.G, B: hard.B}, fmt.Errorf("%s default %q: %w", name, def, err)
	}
	return c, nil
}

// Parse reads a hex colour in "#rgb" or "#rrggbb" form; the leading '#' is
// optional.
func Parse(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, err
	}
	if !c.IsValid() {
		return colorful.Color{}, fmt.Errorf("colour %q out of gamut", s)
	}
	return c, nil
}

func toRGBA(c colorful.Color) gg.RGBA {
	c = c.Clamped()
	return gg.RGBA{R: c.R, G: c.G, B: c.B, A: 1}
}
