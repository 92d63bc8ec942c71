package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg is one tick of the frame clock for loop generation gen.
type frameMsg struct {
	gen uint64
	at  time.Time
}

func frameCmd(gen uint64, interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return frameMsg{gen: gen, at: t}
	})
}
