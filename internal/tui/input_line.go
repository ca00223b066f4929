package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a text input as a single shaded line of exactly bodyW cells.
func renderInputLine(bodyW int, inputView string) string {
	bodyW = max(bodyW, 10)

	// A wrapped input looks like a newline was typed.
	inputView = strings.NewReplacer("\n", " ", "\r", " ").Replace(inputView)

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorControlBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Reset styling so the cut does not bleed into the border.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}
