package ui

import (
	"github.com/charmbracelet/lipgloss"

	"clubgrid/internal/config"
	"clubgrid/internal/grid"
)

// Styles contains the shell style definitions. Grid styles live in the grid
// package and share the configured theme.
type Styles struct {
	Title         lipgloss.Style
	TabActive     lipgloss.Style
	TabInactive   lipgloss.Style
	Label         lipgloss.Style
	Value         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Popup         lipgloss.Style
	PopupTitle    lipgloss.Style
	MenuItem      lipgloss.Style
	MenuSelected  lipgloss.Style
	Faded         lipgloss.Style
}

// NewStyles creates the shell styles for theme
func NewStyles(theme grid.Theme) Styles {
	return Styles{
		Title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		TabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("99")).Padding(0, 1),
		TabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
		Label:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Value:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		StatusSuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color("78")),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(theme.Outline)).
			Padding(0, 1),
		PopupTitle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		MenuItem:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		MenuSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color(theme.Highlight)),
		Faded:        lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// themeFromConfig maps the configured colours onto a grid theme, keeping
// defaults for anything left blank.
func themeFromConfig(ui config.UISettings) grid.Theme {
	theme := grid.DefaultTheme()
	if ui.HighlightColor != "" {
		theme.Highlight = ui.HighlightColor
	}
	if ui.OutlineColor != "" {
		theme.Outline = ui.OutlineColor
	}
	if ui.StripeColor != "" {
		theme.Stripe = ui.StripeColor
	}
	return theme
}
