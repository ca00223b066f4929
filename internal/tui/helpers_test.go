package tui

import (
	"context"
	"testing"

	"ideapad/internal/model"
	"ideapad/internal/mutate"
	"ideapad/internal/session"
	"ideapad/internal/store"
	"ideapad/internal/store/storetest"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type testEnv struct {
	mem   *storetest.Memory
	prov  *session.Local
	views store.Store
	user  session.User
}

// newTestModel returns a signed-in model over an in-memory store; seed runs before the initial load.
func newTestModel(t *testing.T, seed func(env *testEnv)) (appModel, *testEnv) {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		mem:   storetest.NewMemory(),
		prov:  session.NewLocal(session.NewFileStore(dir)),
		views: store.Store{Dir: dir},
	}
	u, err := env.prov.SignIn(context.Background(), "ada@example.com", "")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	env.user = u
	if seed != nil {
		seed(env)
	}

	m := newAppModel(context.Background(), Deps{
		Orchestrator: mutate.New(env.mem, zap.NewNop()),
		Session:      env.prov,
		Views:        env.views,
		SavedView:    "home",
	})
	load := m.start(m.orch.Load(m.st))
	m = settle(t, m, load)
	return m, env
}

// settle runs cmd (an op or session command) and feeds every resulting message
// back into Update until nothing is left to run.
func settle(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = settle(t, m, c)
			}
			return m
		}
		var mm tea.Model
		mm, cmd = m.Update(msg)
		m = mm.(appModel)
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

// press sends one key and returns the command without running it.
func press(m appModel, k string) (appModel, tea.Cmd) {
	mm, cmd := m.Update(keyMsg(k))
	return mm.(appModel), cmd
}

// pressAll sends keys, discarding commands (cursor blinks and the like).
func pressAll(m appModel, keys ...string) appModel {
	for _, k := range keys {
		m, _ = press(m, k)
	}
	return m
}

func typeText(m appModel, s string) appModel {
	for _, r := range s {
		mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = mm.(appModel)
	}
	return m
}

func storeWithRocketFor(userID string) *storetest.Memory {
	mem := storetest.NewMemory()
	mem.SeedIdea(model.IdeaRow{ID: "i1", Title: "Rocket", CreatedAt: 100, UserID: userID})
	return mem
}

func windowSize(w, h int) tea.WindowSizeMsg {
	return tea.WindowSizeMsg{Width: w, Height: h}
}
