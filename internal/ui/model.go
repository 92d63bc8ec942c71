package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/olivier-w/backdrop/internal/config"
	"github.com/olivier-w/backdrop/internal/engine"
	"github.com/olivier-w/backdrop/internal/present"
)

// Model is the Bubbletea host for the backdrop engine. Bubbletea's tick is
// the frame clock and WindowSizeMsg the resize notification; all input stays
// here and never reaches the engine.
type Model struct {
	engine   *engine.Engine
	renderer *present.Renderer
	cfg      config.Config
	keys     keyMap
	help     help.Model

	width    int
	height   int
	frame    string
	showHelp bool
	quitting bool
}

// New creates a Model hosting e.
func New(e *engine.Engine, cfg config.Config) Model {
	r := present.NewRenderer()
	r.SetBackground(e.Palette().Background.Color())
	return Model{
		engine:   e,
		renderer: r,
		cfg:      cfg,
		keys:     newKeyMap(),
		help:     help.New(),
		showHelp: true,
	}
}

// Init starts the frame loop. A second Init finds the loop running and
// schedules nothing.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.start(), tea.SetWindowTitle("backdrop"))
}

func (m Model) start() tea.Cmd {
	gen, started := m.engine.Start()
	if !started {
		return nil
	}
	return frameCmd(gen, m.cfg.FrameInterval())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.handleMsg(msg)
	return next, cmd
}

func (m Model) handleMsg(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			m.engine.Destroy()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		case key.Matches(msg, m.keys.Pause):
			if m.engine.Running() {
				m.engine.Stop()
				return m, nil
			}
			return m, m.start()
		case key.Matches(msg, m.keys.Motion):
			m.engine.SetReducedMotion(!m.engine.ReducedMotion())
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.showHelp = !m.showHelp
			return m, nil
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.engine.Resize(m.viewport())
		return m, nil

	case frameMsg:
		// Ticks from a stopped or replaced loop end here.
		if msg.gen != m.engine.Generation() || !m.engine.Running() {
			return m, nil
		}
		if m.engine.OnFrame(msg.at) {
			m.frame = m.renderer.Render(m.engine.Snapshot(), m.width, m.height)
		}
		return m, frameCmd(msg.gen, m.cfg.FrameInterval())
	}

	return m, nil
}

// viewport maps the terminal grid to logical pixels.
func (m Model) viewport() engine.Viewport {
	return engine.Viewport{
		Width:      m.width * m.cfg.CellWidth,
		Height:     m.height * m.cfg.CellHeight,
		PixelRatio: m.cfg.PixelRatio,
	}
}

func (m Model) View() string {
	if m.quitting || m.frame == "" {
		return ""
	}
	if !m.showHelp || m.height < 2 {
		return m.frame
	}

	lines := strings.Split(m.frame, "\n")
	lines[len(lines)-1] = m.statusLine()
	return strings.Join(lines, "\n")
}

func (m Model) statusLine() string {
	var status string
	switch {
	case !m.engine.Running():
		status = "paused"
	case m.engine.ReducedMotion():
		status = "still"
	default:
		status = "live"
	}
	line := statusStyle.Render(status) + helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp()))
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}
