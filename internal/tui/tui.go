package tui

import (
	"context"

	"ideapad/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the full-screen app and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	applyThemePreference()
	applyColorProfilePreference()
	applyGlyphPreference()

	m := newAppModel(ctx, deps)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	// Auth events may fire on any goroutine; hand them to the event loop.
	unsubscribe := deps.Session.OnAuthStateChange(func(ev session.Event) {
		go p.Send(authEventMsg{ev: ev})
	})
	defer unsubscribe()

	_, err := p.Run()
	return err
}
