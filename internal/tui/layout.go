package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// fitPane clips s to height lines, each at most width columns (ANSI-aware).
func fitPane(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	if width > 0 {
		for i, ln := range lines {
			if xansi.StringWidth(ln) > width {
				lines[i] = xansi.Truncate(ln, width, "…")
			}
		}
	}
	return strings.Join(lines, "\n")
}

// oneLine collapses whitespace so a description fits a list row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
