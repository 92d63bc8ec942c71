package config

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is returned by Validate when a tunable is out of range.
var ErrInvalid = errors.New("invalid config")

// Config holds every tunable constant of the backdrop engine and its hosts.
type Config struct {
	// Lattice
	TileSize    float64
	TilePadding int
	Jitter      float64
	LineWidth   float64

	// Timing. Speed converts seconds into distance units.
	Speed          float64
	MaxFrameDelta  time.Duration
	FadeDelay      time.Duration
	FadeDuration   time.Duration
	FadeInDistance float64
	DelayScale     float64
	JitterWindow   float64
	GrowthCenters  int

	// Cosmetics
	Glow      float64
	HueRate   float64
	Particles int

	// Host
	FPS           int
	PixelRatio    float64
	CellWidth     int
	CellHeight    int
	ReducedMotion bool
	Background    string
	Line          string
	Seed          uint64
}

// Default returns the built-in tunables.
func Default() Config {
	return Config{
		TileSize:       96,
		TilePadding:    2,
		Jitter:         1.5,
		LineWidth:      1.6,
		Speed:          140,
		MaxFrameDelta:  100 * time.Millisecond,
		FadeDelay:      6 * time.Second,
		FadeDuration:   2 * time.Second,
		FadeInDistance: 50,
		DelayScale:     1.2,
		JitterWindow:   900,
		GrowthCenters:  4,
		Glow:           0.35,
		HueRate:        0.6,
		Particles:      60,
		FPS:            30,
		PixelRatio:     1,
		CellWidth:      4,
		CellHeight:     8,
	}
}

// Bind registers the user-facing tunables on fs.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.Float64Var(&c.TileSize, "tile", c.TileSize, "tile size in logical pixels")
	fs.Float64Var(&c.LineWidth, "line-width", c.LineWidth, "stroke width in logical pixels")
	fs.Float64Var(&c.Speed, "speed", c.Speed, "draw speed in pixels per second")
	fs.Float64Var(&c.Glow, "glow", c.Glow, "glow intensity (0 disables)")
	fs.IntVar(&c.Particles, "particles", c.Particles, "number of ambient particles")
	fs.IntVar(&c.GrowthCenters, "centers", c.GrowthCenters, "number of growth centers")
	fs.DurationVar(&c.FadeDelay, "fade-delay", c.FadeDelay, "hold time before a segment fades out")
	fs.DurationVar(&c.FadeDuration, "fade-duration", c.FadeDuration, "fade-out duration")
	fs.IntVar(&c.FPS, "fps", c.FPS, "frames per second")
	fs.Float64Var(&c.PixelRatio, "dpr", c.PixelRatio, "device pixel ratio")
	fs.IntVar(&c.CellWidth, "cell-width", c.CellWidth, "logical pixels per terminal column")
	fs.IntVar(&c.CellHeight, "cell-height", c.CellHeight, "logical pixels per terminal row")
	fs.BoolVar(&c.ReducedMotion, "reduced-motion", c.ReducedMotion, "disable animation")
	fs.StringVar(&c.Background, "bg", c.Background, "background colour token (hex)")
	fs.StringVar(&c.Line, "line", c.Line, "line colour token (hex)")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "random seed (0 picks one)")
}

// envTrue accepts strconv.ParseBool's true spellings plus yes and on.
// Anything else, including unparseable values, reads as false.
func envTrue(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "yes", "y", "on":
		return true
	}
	b, err := strconv.ParseBool(v)
	return err == nil && b
}

// ApplyEnv fills unset host inputs through lookup (usually os.LookupEnv).
// It runs after flag parsing: the environment can turn reduced motion on but
// never off, and colour tokens only fill empty values.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("REDUCE_MOTION"); ok && envTrue(v) {
		c.ReducedMotion = true
	}
	if v, ok := lookup("BACKDROP_BG"); ok && c.Background == "" {
		c.Background = v
	}
	if v, ok := lookup("BACKDROP_LINE"); ok && c.Line == "" {
		c.Line = v
	}
}

// FrameInterval is the wall time between two frames at the configured rate.
func (c Config) FrameInterval() time.Duration {
	if c.FPS <= 0 {
		return time.Second / 30
	}
	return time.Second / time.Duration(c.FPS)
}

// Validate reports the first out-of-range tunable.
func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size must be positive, got %v", ErrInvalid, c.TileSize)
	case c.TilePadding < 2:
		return fmt.Errorf("%w: tile padding must be at least 2, got %d", ErrInvalid, c.TilePadding)
	case c.LineWidth <= 0:
		return fmt.Errorf("%w: line width must be positive, got %v", ErrInvalid, c.LineWidth)
	case c.Speed <= 0:
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalid, c.Speed)
	case c.MaxFrameDelta <= 0:
		return fmt.Errorf("%w: max frame delta must be positive", ErrInvalid)
	case c.FadeDelay < 0 || c.FadeDuration <= 0:
		return fmt.Errorf("%w: fade timings must be positive", ErrInvalid)
	case c.GrowthCenters < 0 || c.Particles < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalid)
	case c.FPS <= 0 || c.FPS > 240:
		return fmt.Errorf("%w: fps must be in 1..240, got %d", ErrInvalid, c.FPS)
	case c.CellWidth <= 0 || c.CellHeight <= 0:
		return fmt.Errorf("%w: cell size must be positive", ErrInvalid)
	case c.Glow < 0:
		return fmt.Errorf("%w: glow must not be negative", ErrInvalid)
	}
	return nil
}
