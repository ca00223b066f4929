package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *appModel) updateAuth(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		return tea.Quit
	case "tab", "shift+tab", "up", "down":
		return m.focusAuth(1 - m.authFocus)
	case "enter":
		if m.authFocus == 0 {
			return m.focusAuth(1)
		}
		return m.submitAuth()
	}
	var cmd tea.Cmd
	if m.authFocus == 0 {
		m.authEmail, cmd = m.authEmail.Update(msg)
	} else {
		m.authPassword, cmd = m.authPassword.Update(msg)
	}
	return cmd
}

func (m *appModel) focusAuth(i int) tea.Cmd {
	m.authFocus = i
	if i == 0 {
		m.authPassword.Blur()
		return m.authEmail.Focus()
	}
	m.authEmail.Blur()
	return m.authPassword.Focus()
}

func (m *appModel) submitAuth() tea.Cmd {
	if m.authBusy {
		return nil
	}
	email := strings.TrimSpace(m.authEmail.Value())
	password := m.authPassword.Value()
	m.authBusy = true
	m.authErr = ""
	auth, ctx := m.auth, m.ctx
	return func() tea.Msg {
		u, err := auth.SignIn(ctx, email, password)
		return signInDoneMsg{user: u, err: err}
	}
}

func (m appModel) viewAuth() string {
	title := lipgloss.NewStyle().Bold(true).Render("ideaPad")
	lines := []string{
		title,
		styleMuted().Render("Sign in to capture and organise your ideas."),
		"",
		m.authEmail.View(),
		m.authPassword.View(),
		"",
	}
	switch {
	case m.authBusy:
		lines = append(lines, styleMuted().Render("Signing in…"))
	case m.authErr != "":
		lines = append(lines, styleError().Render(m.authErr))
	default:
		lines = append(lines, "")
	}
	lines = append(lines, "", styleMuted().Render("tab: next field   enter: sign in   esc: quit"))
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}
