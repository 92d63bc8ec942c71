package ui

import "github.com/charmbracelet/lipgloss"

var (
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#AAAAAA"}).
			Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#161B22"}).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#2F5D8A", Dark: "#58A6FF"}).
			Background(lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#161B22"}).
			Padding(0, 1)
)
