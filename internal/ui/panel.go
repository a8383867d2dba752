package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TableSection represents a section in a detail table
type TableSection struct {
	Header string
	Rows   []TableRow
}

// TableRow represents a row in a detail table
type TableRow struct {
	Label string
	Value string
}

// RenderPanel draws content inside a rounded border with the title set into the top edge
func RenderPanel(title, content string) string {
	borderColor := lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	styledTitle := " " + lipgloss.NewStyle().
		Foreground(lipgloss.Color("11")).
		Bold(true).
		Render(title) + " "

	padded := lipgloss.NewStyle().Padding(1, 2, 0).Render(content)
	lines := strings.Split(padded, "\n")

	width := lipgloss.Width(styledTitle) + 2
	for _, line := range lines {
		width = max(width, lipgloss.Width(line))
	}

	var out strings.Builder

	// "╭─" + title + fill + "╮"
	fill := max(width-lipgloss.Width(styledTitle)-1, 1)
	out.WriteString(borderColor.Render("╭─") + styledTitle + borderColor.Render(strings.Repeat("─", fill)+"╮") + "\n")

	for _, line := range lines {
		line += strings.Repeat(" ", width-lipgloss.Width(line))
		out.WriteString(borderColor.Render("│") + line + borderColor.Render("│") + "\n")
	}

	out.WriteString(borderColor.Render("╰"+strings.Repeat("─", width)+"╯") + "\n")
	return out.String()
}

// RenderDetailTable renders a two-column label/value table with optional section headers
func RenderDetailTable(sections []TableSection) string {
	var output strings.Builder

	labelStyle := lipgloss.NewStyle().Bold(true).Width(16)
	sectionHeaderStyle := lipgloss.NewStyle().Bold(true).Underline(true)

	for i, section := range sections {
		if i > 0 {
			output.WriteString("\n")
		}
		if section.Header != "" {
			output.WriteString(sectionHeaderStyle.Render(section.Header))
			output.WriteString("\n")
		}
		for _, row := range section.Rows {
			output.WriteString(labelStyle.Render(row.Label))
			output.WriteString(row.Value)
			output.WriteString("\n")
		}
	}

	return strings.TrimSuffix(output.String(), "\n")
}
