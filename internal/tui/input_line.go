package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

var inputLineFlatten = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// renderInputLine draws a textinput view as a single row exactly width cells wide,
// padded on the input background. Modals and add-child rows both use it.
func renderInputLine(width int, inputView string) string {
	if width < 10 {
		width = 10
	}
	bg := lipgloss.NewStyle().Background(colorInputBg)

	text := inputLineFlatten.Replace(inputView)
	if avail := width - 1; xansi.StringWidth(text) > avail {
		// Reset so a cut cursor style does not run into the next row.
		text = xansi.Truncate(text, avail, "") + "\x1b[0m"
	}
	pad := max(width-1-xansi.StringWidth(text), 0)
	return bg.Render(" ") + text + bg.Render(strings.Repeat(" ", pad))
}
