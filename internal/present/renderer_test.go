package present

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/muesli/termenv"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestRenderHalfBlockShape(t *testing.T) {
	r := NewRendererWithProfile(termenv.TrueColor)
	out := r.Render(solid(64, 32, color.RGBA{R: 255, B: 255, A: 255}), 8, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	for i, l := range lines {
		if n := strings.Count(l, "▀"); n != 8 {
			t.Fatalf("row %d: expected 8 cells, got %d", i, n)
		}
		if !strings.HasSuffix(l, ansiReset) {
			t.Fatalf("row %d missing reset", i)
		}
	}
	if !strings.Contains(out, "\x1b[38;2;255;0;255m") || !strings.Contains(out, "\x1b[48;2;255;0;255m") {
		t.Fatal("expected truecolor fg and bg sequences")
	}
	// colour runs are only emitted once per row for a flat image
	if n := strings.Count(lines[0], "\x1b[38;2;"); n != 1 {
		t.Fatalf("expected one fg sequence per flat row, got %d", n)
	}
}

func TestRenderASCII(t *testing.T) {
	r := NewRendererWithProfile(termenv.Ascii)
	if r.Color() {
		t.Fatal("ascii profile should not report colour")
	}
	out := r.Render(solid(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255}), 5, 2)
	if out != "@@@@@\n@@@@@" {
		t.Fatalf("unexpected ascii output %q", out)
	}
	out = r.Render(solid(10, 10, color.RGBA{A: 255}), 3, 1)
	if out != "   " {
		t.Fatalf("unexpected dark output %q", out)
	}
}

func TestRenderASCIILightBackground(t *testing.T) {
	r := NewRendererWithProfile(termenv.Ascii)
	r.SetBackground(color.White)
	if out := r.Render(solid(10, 10, color.RGBA{R: 255, G: 255, B: 255, A: 255}), 3, 1); out != "   " {
		t.Fatalf("background should render empty, got %q", out)
	}
	if out := r.Render(solid(10, 10, color.RGBA{A: 255}), 3, 1); out != "@@@" {
		t.Fatalf("dark ink on light background should render dense, got %q", out)
	}
}

func TestRenderRejectsEmpty(t *testing.T) {
	r := NewRendererWithProfile(termenv.TrueColor)
	if r.Render(nil, 10, 10) != "" {
		t.Fatal("expected empty output for nil image")
	}
	if r.Render(solid(4, 4, color.RGBA{}), 0, 10) != "" {
		t.Fatal("expected empty output for zero columns")
	}
}

func TestSequencesFollowProfile(t *testing.T) {
	tests := []struct {
		profile termenv.Profile
		r, g, b uint8
		bg      bool
		want    string
	}{
		{termenv.TrueColor, 0, 0, 0, false, "\x1b[38;2;0;0;0m"},
		{termenv.ANSI256, 255, 0, 0, false, "\x1b[38;5;196m"},
		{termenv.ANSI, 255, 255, 255, false, "\x1b[97m"},
		{termenv.ANSI, 0, 0, 0, true, "\x1b[40m"},
		{termenv.Ascii, 255, 255, 255, false, ""},
	}
	for _, tt := range tests {
		s := newSequences(tt.profile)
		got := s.fg(tt.r, tt.g, tt.b)
		if tt.bg {
			got = s.bg(tt.r, tt.g, tt.b)
		}
		if got != tt.want {
			t.Fatalf("%s rgb(%d,%d,%d) bg=%v: got %q want %q", tt.profile.Name(), tt.r, tt.g, tt.b, tt.bg, got, tt.want)
		}
	}
}

func TestSequenceCacheBounded(t *testing.T) {
	s := newSequences(termenv.TrueColor)
	for i := range maxCachedSeqs + 10 {
		s.fg(uint8(i), uint8(i>>8), 7)
	}
	if len(s.cache) > maxCachedSeqs {
		t.Fatalf("cache grew to %d entries", len(s.cache))
	}
	if s.fg(1, 2, 3) != s.fg(1, 2, 3) {
		t.Fatal("cached sequence changed")
	}
}
