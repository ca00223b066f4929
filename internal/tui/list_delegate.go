package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// rowDelegate renders one line per item: section headers in bold, ideas indented.
type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}

	style := lipgloss.NewStyle()
	var txt string
	switch it := item.(type) {
	case folderRowItem:
		txt = it.line()
		if it.header {
			style = style.Bold(true)
		}
	case interface{ Title() string }:
		txt = it.Title()
	default:
		txt = fmt.Sprint(item)
	}
	if index == m.Index() {
		style = style.Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	}

	lineW := xansi.StringWidth(txt)
	switch {
	case lineW < contentW:
		txt += strings.Repeat(" ", contentW-lineW)
	case lineW > contentW:
		txt = xansi.Truncate(txt, contentW-1, "") + glyphEllipsis()
	}
	fmt.Fprint(w, style.Render(txt))
}
