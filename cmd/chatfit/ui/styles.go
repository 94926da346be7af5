// Package ui is the terminal storefront shell. It renders purely from app
// snapshots; all aggregation and refresh logic lives below it.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#6366f1")
	colorMuted   = lipgloss.Color("#94a3b8")
	colorDanger  = lipgloss.Color("#ef4444")
	colorOK      = lipgloss.Color("#8BC34A")
	colorBorder  = lipgloss.Color("#2a3850")
)

// Styles groups the lipgloss styles used across the pages.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Item     lipgloss.Style
	ItemOn   lipgloss.Style
	Variant  lipgloss.Style
	Muted    lipgloss.Style
	Danger   lipgloss.Style
	OK       lipgloss.Style
	ChatUser lipgloss.Style
	ChatPane lipgloss.Style
	Input    lipgloss.Style
}

// DefaultStyles returns the storefront theme.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		Subtitle: lipgloss.NewStyle().Foreground(colorMuted),
		Tab:      lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1),
		TabOn:    lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Underline(true).Padding(0, 1),
		Item:     lipgloss.NewStyle().PaddingLeft(2),
		ItemOn:   lipgloss.NewStyle().PaddingLeft(1).Bold(true).Foreground(colorPrimary),
		Variant:  lipgloss.NewStyle().Foreground(colorMuted).PaddingLeft(4),
		Muted:    lipgloss.NewStyle().Foreground(colorMuted),
		Danger:   lipgloss.NewStyle().Foreground(colorDanger),
		OK:       lipgloss.NewStyle().Foreground(colorOK),
		ChatUser: lipgloss.NewStyle().Bold(true),
		ChatPane: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder).Padding(0, 1),
		Input:    lipgloss.NewStyle().BorderTop(true).BorderStyle(lipgloss.NormalBorder()).BorderForeground(colorBorder),
	}
}
