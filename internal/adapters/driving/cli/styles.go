package cli

import "github.com/charmbracelet/lipgloss"

// Output styles shared by the table-producing commands.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))

	cheapStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)
