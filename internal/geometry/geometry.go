// Package geometry generates the tiled star lattice the backdrop is drawn
// from. Coordinates are logical pixels.
package geometry

import (
	"math"
	"math/rand/v2"
)

// Point is a position in logical pixels.
type Point struct {
	X, Y float64
}

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Line is one drawable segment from A to B.
type Line struct {
	A, B Point
}

// Length returns the segment length.
func (l Line) Length() float64 { return l.A.Dist(l.B) }

// Midpoint returns the segment midpoint.
func (l Line) Midpoint() Point {
	return Point{X: (l.A.X + l.B.X) / 2, Y: (l.A.Y + l.B.Y) / 2}
}

// Structure of one tile.
const (
	StarPoints      = 8
	FrameSides      = 8
	Connectors      = 4
	SegmentsPerTile = StarPoints*2 + FrameSides + Connectors
)

const (
	longRay    = 0.34 // fraction of tile size
	shortRay   = 0.17
	cornerPull = 0.82 // frame corners are pulled in to form an octagon
)

// Variation is the per-tile randomisation.
type Variation struct {
	Scale    float64 // 0.92..1.08
	Rotation float64 // radians, 0..15°
	Jitter   float64 // max per-point offset in pixels
}

// RandomVariation draws a tile variation from rng.
func RandomVariation(rng *rand.Rand, jitter float64) Variation {
	return Variation{
		Scale:    0.92 + rng.Float64()*0.16,
		Rotation: rng.Float64() * 15 * math.Pi / 180,
		Jitter:   jitter,
	}
}

// GenerateTile returns the segments of one tile whose top-left corner is
// (originX, originY). The count is always SegmentsPerTile.
func GenerateTile(rng *rand.Rand, originX, originY, size float64, v Variation) []Line {
	c := Point{X: originX + size/2, Y: originY + size/2}
	jit := func(p Point) Point {
		if v.Jitter <= 0 {
			return p
		}
		return Point{
			X: p.X + (rng.Float64()*2-1)*v.Jitter,
			Y: p.Y + (rng.Float64()*2-1)*v.Jitter,
		}
	}

	lines := make([]Line, 0, SegmentsPerTile)

	// Star: rays alternate long/short at 45° steps.
	var star [StarPoints]Point
	for i := range StarPoints {
		r := longRay
		if i%2 == 1 {
			r = shortRay
		}
		r *= size * v.Scale
		a := float64(i)*math.Pi/4 + v.Rotation
		star[i] = jit(Point{X: c.X + math.Cos(a)*r, Y: c.Y + math.Sin(a)*r})
	}
	for i := range StarPoints {
		lines = append(lines, Line{A: star[i], B: star[(i+1)%StarPoints]})
		lines = append(lines, Line{A: c, B: star[i]})
	}

	// Frame: edge midpoints at 0°, 90°... and inset corners between them.
	half := size / 2
	var frame [FrameSides]Point
	for i := range FrameSides {
		a := float64(i) * math.Pi / 4
		r := half
		if i%2 == 1 {
			r = half * math.Sqrt2 * cornerPull
		}
		frame[i] = jit(Point{X: c.X + math.Cos(a)*r, Y: c.Y + math.Sin(a)*r})
	}
	for i := range FrameSides {
		lines = append(lines, Line{A: frame[i], B: frame[(i+1)%FrameSides]})
	}

	// Cross-connectors: long ray tips out to the frame midpoints.
	for i := 0; i < StarPoints; i += 2 {
		lines = append(lines, Line{A: star[i], B: frame[i]})
	}

	return lines
}

// Grid is the implicit tile lattice covering a viewport.
type Grid struct {
	Cols, Rows       int
	OffsetX, OffsetY float64
	Size             float64
}

// Tiles returns Cols*Rows.
func (g Grid) Tiles() int { return g.Cols * g.Rows }

// LatticeGrid sizes and centres the tile grid for a viewport. Padding below 2
// is raised to 2. A viewport with a non-positive side gets an empty grid.
func LatticeGrid(viewportW, viewportH, size float64, padding int) Grid {
	if viewportW <= 0 || viewportH <= 0 || size <= 0 {
		return Grid{Size: size}
	}
	if padding < 2 {
		padding = 2
	}
	cols := int(math.Ceil(viewportW/size)) + padding
	rows := int(math.Ceil(viewportH/size)) + padding
	return Grid{
		Cols:    cols,
		Rows:    rows,
		OffsetX: (viewportW - float64(cols)*size) / 2,
		OffsetY: (viewportH - float64(rows)*size) / 2,
		Size:    size,
	}
}

// BuildLattice generates every tile of the grid and shuffles the result so
// draw order does not follow the tile scanline.
func BuildLattice(rng *rand.Rand, viewportW, viewportH, size float64, padding int, jitter float64) []Line {
	g := LatticeGrid(viewportW, viewportH, size, padding)
	if g.Tiles() == 0 {
		return nil
	}
	lines := make([]Line, 0, g.Tiles()*SegmentsPerTile)
	for row := range g.Rows {
		for col := range g.Cols {
			ox := g.OffsetX + float64(col)*size
			oy := g.OffsetY + float64(row)*size
			lines = append(lines, GenerateTile(rng, ox, oy, size, RandomVariation(rng, jitter))...)
		}
	}
	Shuffle(rng, lines)
	return lines
}

// Shuffle permutes lines in place (Fisher–Yates).
func Shuffle(rng *rand.Rand, lines []Line) {
	for i := len(lines) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		lines[i], lines[j] = lines[j], lines[i]
	}
}

// GrowthCenters scatters n random anchor points across the viewport.
func GrowthCenters(rng *rand.Rand, n int, viewportW, viewportH float64) []Point {
	if n <= 0 || viewportW <= 0 || viewportH <= 0 {
		return nil
	}
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: rng.Float64() * viewportW, Y: rng.Float64() * viewportH}
	}
	return pts
}
