package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// overlayOrigin returns the top-left cell of a popup centred in a
// width x height screen.
func overlayOrigin(popup string, width, height int) (x, y int) {
	x = (width - lipgloss.Width(popup)) / 2
	y = (height - lipgloss.Height(popup)) / 2
	return max(x, 0), max(y, 0)
}

// renderOverlay draws popup centred over base. The base is greyed out so the
// popup stands out; text either side of the popup stays visible.
func renderOverlay(base, popup string, width, height int, faded lipgloss.Style) string {
	x, y := overlayOrigin(popup, width, height)
	popupW := lipgloss.Width(popup)

	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = ansi.Strip(line)
	}

	for i, row := range strings.Split(popup, "\n") {
		at := y + i
		if at >= len(lines) {
			break
		}
		plain := lines[at]
		left := ansi.Truncate(plain, x, "")
		if w := ansi.StringWidth(left); w < x {
			left += strings.Repeat(" ", x-w)
		}
		right := ansi.TruncateLeft(plain, x+popupW, "")
		lines[at] = faded.Render(left) + row + faded.Render(right)
	}

	for i, line := range lines {
		if i >= y && i < y+lipgloss.Height(popup) {
			continue
		}
		lines[i] = faded.Render(line)
	}
	return strings.Join(lines, "\n")
}
