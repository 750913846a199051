package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by the dashboard.
type Styles struct {
	Header   lipgloss.Style
	Footer   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Label    lipgloss.Style
	Focused  lipgloss.Style
	Selected lipgloss.Style
	Prompt   lipgloss.Style
	Form     lipgloss.Style
}

// DefaultStyles returns the default colour scheme.
func DefaultStyles() Styles {
	primary := lipgloss.Color("#7D56F4")
	muted := lipgloss.Color("#888888")

	return Styles{
		Header: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Footer: lipgloss.NewStyle().
			Foreground(muted).
			Padding(0, 1),
		Muted: lipgloss.NewStyle().
			Foreground(muted),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F5F")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAF00")),
		Label: lipgloss.NewStyle().
			Width(14).
			Foreground(muted),
		Focused: lipgloss.NewStyle().
			Width(14).
			Foreground(primary).
			Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(primary),
		Prompt: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FFAF00")).
			Padding(0, 2),
		Form: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(primary).
			Padding(0, 1),
	}
}
