// Package particles simulates the ambient dot field drawn over the lattice.
// Particles are independent of segment state.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/gogpu/gg"
)

// Particle is one drifting dot. Life is its phase in seconds within MaxLife.
type Particle struct {
	X, Y    float64
	VX, VY  float64
	Life    float64
	MaxLife float64
	Size    float64
}

// Painter is the slice of the drawing surface the field needs.
type Painter interface {
	Circle(x, y, r float64, c gg.RGBA)
}

// Options are the field tunables.
type Options struct {
	Count     int
	MaxSpeed  float64 // px/s
	MinLife   float64 // s
	MaxLife   float64 // s
	MinSize   float64
	MaxSize   float64
	Margin    float64 // px outside the viewport before a reset
	PeakAlpha float64
}

// DefaultOptions returns the stock field tunables for count particles.
func DefaultOptions(count int) Options {
	return Options{
		Count:     count,
		MaxSpeed:  12,
		MinLife:   4,
		MaxLife:   9,
		MinSize:   0.6,
		MaxSize:   2,
		Margin:    10,
		PeakAlpha: 0.45,
	}
}

// Field owns a set of particles inside a viewport.
type Field struct {
	opts      Options
	w, h      float64
	rng       *rand.Rand
	particles []Particle
}

// NewField seeds opts.Count particles across a w×h viewport.
func NewField(rng *rand.Rand, w, h float64, opts Options) *Field {
	f := &Field{opts: opts, w: w, h: h, rng: rng}
	if w <= 0 || h <= 0 || opts.Count <= 0 {
		return f
	}
	f.particles = make([]Particle, opts.Count)
	for i := range f.particles {
		f.Reset(&f.particles[i])
	}
	return f
}

// Len returns the particle count.
func (f *Field) Len() int { return len(f.particles) }

// Particles exposes the backing slice for inspection.
func (f *Field) Particles() []Particle { return f.particles }

// Reset places p at a random point with a fresh velocity, phase and size.
func (f *Field) Reset(p *Particle) {
	o := f.opts
	p.X = f.rng.Float64() * f.w
	p.Y = f.rng.Float64() * f.h
	p.VX = (f.rng.Float64()*2 - 1) * o.MaxSpeed
	p.VY = (f.rng.Float64()*2 - 1) * o.MaxSpeed
	p.MaxLife = o.MinLife + f.rng.Float64()*(o.MaxLife-o.MinLife)
	p.Life = f.rng.Float64() * p.MaxLife
	p.Size = o.MinSize + f.rng.Float64()*(o.MaxSize-o.MinSize)
}

// Update moves p by dt seconds and resets it once its phase is spent or it
// drifts past the margin.
func (f *Field) Update(p *Particle, dt float64) {
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life += dt

	m := f.opts.Margin
	if p.Life > p.MaxLife || p.X < -m || p.X > f.w+m || p.Y < -m || p.Y > f.h+m {
		f.Reset(p)
	}
}

// Alpha rises and falls once over the particle's life.
func (f *Field) Alpha(p *Particle) float64 {
	if p.MaxLife <= 0 {
		return 0
	}
	t := p.Life / p.MaxLife
	if t <= 0 || t >= 1 {
		return 0
	}
	return f.opts.PeakAlpha * math.Sin(math.Pi*t)
}

// Draw paints p as a filled circle.
func (f *Field) Draw(p *Particle, dst Painter, c gg.RGBA) {
	a := f.Alpha(p)
	if a <= 0 {
		return
	}
	c.A = a
	dst.Circle(p.X, p.Y, p.Size, c)
}

// Step updates every particle, then draws every particle.
func (f *Field) Step(dt float64, dst Painter, c gg.RGBA) {
	for i := range f.particles {
		f.Update(&f.particles[i], dt)
	}
	for i := range f.particles {
		f.Draw(&f.particles[i], dst, c)
	}
}
