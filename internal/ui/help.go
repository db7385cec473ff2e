package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"clubgrid/internal/grid"
)

// helpSection is one titled block of key bindings
type helpSection struct {
	title    string
	bindings []key.Binding
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
	moreStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		moreStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// helpSections lists the bindings of a screen: grid keys, the screen's
// controls, then the shell keys.
func helpSections(screen *grid.Model, gridKeys grid.KeyMap, app keyMap) []helpSection {
	groups := gridKeys.FullHelp()
	sections := []helpSection{
		{title: "Navigation", bindings: groups[0]},
		{title: "Selection", bindings: groups[1]},
		{title: "Search & Filter", bindings: groups[2]},
	}

	var controls []key.Binding
	for _, c := range screen.Toolbar() {
		controls = append(controls, c.Binding)
	}
	if len(controls) > 0 {
		sections = append(sections, helpSection{title: screen.Title() + " Actions", bindings: controls})
	}

	var presets []key.Binding
	for _, c := range screen.FilterBar() {
		presets = append(presets, c.Binding)
	}
	if len(presets) > 0 {
		sections = append(sections, helpSection{title: "Quick Filters (ctrl+f)", bindings: presets})
	}

	return append(sections, helpSection{title: "Other", bindings: app.bindings()})
}

// RenderHelpContentPlain generates the full help text for the pager
func (r *HelpRenderer) RenderHelpContentPlain(title string, sections []helpSection) string {
	var help strings.Builder
	help.WriteString(r.titleStyle.Render(title))
	help.WriteString("\n")

	width := 0
	for _, s := range sections {
		for _, b := range s.bindings {
			width = max(width, lipgloss.Width(b.Help().Key))
		}
	}

	for i, s := range sections {
		if i > 0 {
			help.WriteString("\n")
		}
		help.WriteString(r.sectionStyle.Render(s.title))
		for _, b := range s.bindings {
			h := b.Help()
			if h.Key == "" {
				continue
			}
			pad := strings.Repeat(" ", width-lipgloss.Width(h.Key))
			help.WriteString(fmt.Sprintf("\n  %s%s  %s", r.keyStyle.Render(h.Key), pad, r.descStyle.Render(h.Desc)))
		}
		help.WriteString("\n")
	}
	return help.String()
}

// renderHelpContent renders the help text clipped to height lines, starting
// at scrollOffset. It returns the offset actually used.
func (r *HelpRenderer) renderHelpContent(title string, sections []helpSection, height, scrollOffset int) (string, int) {
	lines := strings.Split(strings.TrimRight(r.RenderHelpContentPlain(title, sections), "\n"), "\n")
	totalLines := len(lines)

	// Account for popup border and padding
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return strings.Join(lines, "\n"), 0
	}

	maxOffset := totalLines - visibleHeight
	scrollOffset = min(max(scrollOffset, 0), maxOffset)
	endLine := scrollOffset + visibleHeight

	visibleLines := append([]string(nil), lines[scrollOffset:endLine]...)
	if scrollOffset > 0 {
		visibleLines[0] = r.moreStyle.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = r.moreStyle.Render("↓ (more below)")
	}
	return strings.Join(visibleLines, "\n"), scrollOffset
}
