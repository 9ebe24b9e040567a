package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains the style definitions for the terminal client.
type Styles struct {
	Title       lipgloss.Style
	ScopeActive lipgloss.Style
	Scope       lipgloss.Style
	Input       lipgloss.Style
	Dim         lipgloss.Style
	Count       lipgloss.Style
	Row         lipgloss.Style
	Selected    lipgloss.Style
	Author      lipgloss.Style
	Detail      lipgloss.Style
	Label       lipgloss.Style
	Loading     lipgloss.Style
	Empty       lipgloss.Style
	Error       lipgloss.Style
	Help        lipgloss.Style
}

// NewStyles creates the default styles.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		ScopeActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1),
		Scope: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1),
		Dim:      lipgloss.NewStyle().Faint(true),
		Count:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		Row:      lipgloss.NewStyle().PaddingLeft(2),
		Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		Author:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(11),
		Loading: lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Empty:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Help:    lipgloss.NewStyle().Faint(true).MarginTop(1),
	}
}
