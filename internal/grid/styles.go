package grid

import "github.com/charmbracelet/lipgloss"

// Theme carries the configurable colours
type Theme struct {
	Highlight string
	Outline   string
	Stripe    string
}

// DefaultTheme matches the config defaults
func DefaultTheme() Theme {
	return Theme{Highlight: "#FFD75F", Outline: "#808080", Stripe: "#262626"}
}

// Styles contains all the style definitions for a grid
type Styles struct {
	Title           lipgloss.Style
	Toolbar         lipgloss.Style
	ControlKey      lipgloss.Style
	ControlDesc     lipgloss.Style
	ControlDisabled lipgloss.Style
	Search          lipgloss.Style
	Literal         lipgloss.Style
	FilterBar       lipgloss.Style
	Header          lipgloss.Style
	Cell            lipgloss.Style
	Stripe          lipgloss.Style
	Selected        lipgloss.Style
	Cursor          lipgloss.Style
	Highlight       lipgloss.Style
	Separator       lipgloss.Style
	Dim             lipgloss.Style
	Scroll          lipgloss.Style
}

// NewStyles creates a Styles instance for theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Title:           lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		Toolbar:         lipgloss.NewStyle(),
		ControlKey:      lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		ControlDesc:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ControlDisabled: lipgloss.NewStyle().Faint(true).Strikethrough(true),
		Search:          lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Literal:         lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Italic(true),
		FilterBar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(lipgloss.Color(theme.Outline)),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		Cell:      lipgloss.NewStyle(),
		Stripe:    lipgloss.NewStyle().Background(lipgloss.Color(theme.Stripe)),
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("238")).Bold(true),
		Cursor:    lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		Highlight: lipgloss.NewStyle().Background(lipgloss.Color(theme.Highlight)).Underline(true),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Outline)),
		Dim:       lipgloss.NewStyle().Faint(true),
		Scroll:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
	}
}
