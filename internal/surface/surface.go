// Package surface is the engine's rendering target: a 2D drawing context in
// logical pixels over a device-scaled backing store.
package surface

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gg"
	"github.com/olivier-w/backdrop/internal/geometry"
)

// Surface is what the engine paints on.
type Surface interface {
	// Resize sets the backing store to w×h device pixels and scales drawing
	// by ratio so callers keep using logical coordinates.
	Resize(w, h int, ratio float64) error
	Fill(c gg.RGBA)
	// Lines strokes all lines as one path with a shared width and colour.
	Lines(lines []geometry.Line, width float64, c gg.RGBA)
	Circle(x, y, r float64, c gg.RGBA)
	Image() image.Image
	SavePNG(path string) error
	Close() error
}

// Factory creates a surface with a w×h device-pixel backing store.
type Factory func(w, h int) (Surface, error)

// ErrClosed is returned when a closed canvas is resized or saved.
var ErrClosed = errors.New("surface closed")

// Canvas is the software Surface backed by a gg context.
type Canvas struct {
	dc     *gg.Context
	ratio  float64
	closed bool
}

var _ Surface = (*Canvas)(nil)

// NewCanvas allocates a w×h canvas.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("new canvas %dx%d: invalid size", w, h)
	}
	dc := gg.NewContext(w, h)
	dc.SetLineCap(gg.LineCapRound)
	return &Canvas{dc: dc, ratio: 1}, nil
}

// NewFactory returns a Factory producing Canvas surfaces.
func NewFactory() Factory {
	return func(w, h int) (Surface, error) {
		return NewCanvas(w, h)
	}
}

// BackingSize converts a logical size into device pixels.
func BackingSize(w, h int, ratio float64) (int, int) {
	if ratio <= 0 {
		ratio = 1
	}
	return int(math.Round(float64(w) * ratio)), int(math.Round(float64(h) * ratio))
}

func (c *Canvas) Resize(w, h int, ratio float64) error {
	if c.closed {
		return ErrClosed
	}
	if ratio <= 0 {
		ratio = 1
	}
	if err := c.dc.Resize(w, h); err != nil {
		return fmt.Errorf("resize canvas: %w", err)
	}
	c.ratio = ratio
	c.dc.Identity()
	c.dc.Scale(ratio, ratio)
	return nil
}

// Ratio returns the current device pixel ratio.
func (c *Canvas) Ratio() float64 { return c.ratio }

// Size returns the backing store size in device pixels.
func (c *Canvas) Size() (int, int) { return c.dc.Width(), c.dc.Height() }

func (c *Canvas) Fill(col gg.RGBA) {
	c.dc.ClearWithColor(col)
}

func (c *Canvas) Lines(lines []geometry.Line, width float64, col gg.RGBA) {
	if len(lines) == 0 {
		return
	}
	c.dc.ClearPath()
	c.dc.SetLineWidth(width)
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
	for _, l := range lines {
		c.dc.MoveTo(l.A.X, l.A.Y)
		c.dc.LineTo(l.B.X, l.B.Y)
	}
	_ = c.dc.Stroke()
}

func (c *Canvas) Circle(x, y, r float64, col gg.RGBA) {
	c.dc.ClearPath()
	c.dc.SetRGBA(col.R, col.G, col.B, col.A)
	c.dc.DrawCircle(x, y, r)
	_ = c.dc.Fill()
}

func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

func (c *Canvas) SavePNG(path string) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Close releases the context. It is safe to call more than once.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.dc.Close()
}
