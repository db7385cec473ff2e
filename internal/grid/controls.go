package grid

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Control is a key-bound action shown in the toolbar or filter bar
type Control struct {
	Binding key.Binding

	// RequiresSingleSelection disables the control unless exactly one row
	// is selected.
	RequiresSingleSelection bool

	Action func(*Controller) tea.Cmd
}

// ControlBuilder creates one control for a grid. Screens supply builders
// instead of subclassing the grid.
type ControlBuilder func(*Controller) Control

// Enabled reports whether the control can run against c
func (ctl Control) Enabled(c *Controller) bool {
	if !ctl.Binding.Enabled() {
		return false
	}
	if ctl.RequiresSingleSelection && c.SelectionCount() != 1 {
		return false
	}
	return true
}

// Run executes the control if it is enabled
func (ctl Control) Run(c *Controller) tea.Cmd {
	if !ctl.Enabled(c) || ctl.Action == nil {
		return nil
	}
	return ctl.Action(c)
}

func buildControls(c *Controller, builders []ControlBuilder) []Control {
	controls := make([]Control, 0, len(builders))
	for _, b := range builders {
		if b == nil {
			continue
		}
		controls = append(controls, b(c))
	}
	return controls
}

// PresetControl returns a filter bar control that puts term in the search
// field.
func PresetControl(keys, label, term string) ControlBuilder {
	return func(*Controller) Control {
		return Control{
			Binding: key.NewBinding(key.WithKeys(keys), key.WithHelp(keys, label)),
			Action: func(c *Controller) tea.Cmd {
				c.SetTerm(term)
				return nil
			},
		}
	}
}
