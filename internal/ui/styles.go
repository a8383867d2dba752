package ui

import "github.com/charmbracelet/lipgloss"

var (
	GreenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	CyanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	BoldStyle   = lipgloss.NewStyle().Bold(true)
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)

	PendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true).
			Padding(0, 1)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Padding(0, 1)
)
