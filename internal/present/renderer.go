// Package present turns the engine's canvas into terminal cells.
package present

import (
	"image"
	"image/color"
	"strings"

	"github.com/muesli/termenv"
	xdraw "golang.org/x/image/draw"
)

// Renderer converts an image into a terminal string. In colour modes it uses
// "▀" with fg/bg colours to pack 2 pixel rows per terminal row; without
// colour it maps each cell to a brightness character.
type Renderer struct {
	seqs   *sequences
	ramp   ramp
	sb     strings.Builder
	scaled *image.RGBA
}

// NewRenderer creates a renderer using the colour profile termenv detects
// for stdout, honouring NO_COLOR and CLICOLOR_FORCE.
func NewRenderer() *Renderer {
	return NewRendererWithProfile(termenv.EnvColorProfile())
}

// NewRendererWithProfile creates a renderer for an explicit colour profile.
func NewRendererWithProfile(p termenv.Profile) *Renderer {
	return &Renderer{seqs: newSequences(p), ramp: newRamp(color.Black)}
}

// SetBackground sets the colour the ASCII fallback treats as empty.
func (r *Renderer) SetBackground(c color.Color) { r.ramp = newRamp(c) }

// Color reports whether half-block colour output is active.
func (r *Renderer) Color() bool { return r.seqs.profile != termenv.Ascii }

// Render samples src down to cols×rows terminal cells.
func (r *Renderer) Render(src image.Image, cols, rows int) string {
	if src == nil || cols <= 0 || rows <= 0 || src.Bounds().Empty() {
		return ""
	}

	pixRows := rows
	if r.Color() {
		pixRows = rows * 2
	}
	img := r.resample(src, cols, pixRows)

	r.sb.Reset()
	r.sb.Grow(cols * rows * 24)
	if !r.Color() {
		r.renderASCII(img, cols, rows)
	} else {
		r.renderHalfBlock(img, cols, rows)
	}
	return r.sb.String()
}

// resample scales src into a reusable cols×pixRows buffer.
func (r *Renderer) resample(src image.Image, w, h int) *image.RGBA {
	if r.scaled == nil || r.scaled.Bounds().Dx() != w || r.scaled.Bounds().Dy() != h {
		r.scaled = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	xdraw.BiLinear.Scale(r.scaled, r.scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return r.scaled
}

func (r *Renderer) renderHalfBlock(img *image.RGBA, cols, rows int) {
	var lastFg, lastBg string
	for row := range rows {
		for col := range cols {
			tr, tg, tb := pixel(img, col, row*2)
			br, bg, bb := pixel(img, col, row*2+1)

			fg := r.seqs.fg(tr, tg, tb)
			bgc := r.seqs.bg(br, bg, bb)
			if fg != lastFg {
				r.sb.WriteString(fg)
				lastFg = fg
			}
			if bgc != lastBg {
				r.sb.WriteString(bgc)
				lastBg = bgc
			}
			r.sb.WriteString("▀")
		}
		r.sb.WriteString(ansiReset)
		lastFg, lastBg = "", ""
		if row < rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func (r *Renderer) renderASCII(img *image.RGBA, cols, rows int) {
	for row := range rows {
		for col := range cols {
			pr, pg, pb := pixel(img, col, row)
			r.sb.WriteByte(r.ramp.char(pr, pg, pb))
		}
		if row < rows-1 {
			r.sb.WriteByte('\n')
		}
	}
}

func pixel(img *image.RGBA, x, y int) (uint8, uint8, uint8) {
	if !(image.Point{X: x, Y: y}.In(img.Rect)) {
		return 0, 0, 0
	}
	off := img.PixOffset(x, y)
	return img.Pix[off], img.Pix[off+1], img.Pix[off+2]
}
