package tui

import (
	"context"
	"time"

	"ideapad/internal/model"
	"ideapad/internal/mutate"
	"ideapad/internal/pad"
	"ideapad/internal/session"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const minibufferAutoClearAfter = 4 * time.Second

// Deps are the collaborators the TUI runs against.
type Deps struct {
	Orchestrator *mutate.Orchestrator
	Session      session.Provider
	// Views persists the current view; SavedView is what it held at startup.
	Views     pad.ViewSaver
	SavedView string
	Log       *zap.Logger
}

// Messages produced off the event loop.
type (
	opDoneMsg struct {
		op  *mutate.Op
		res mutate.Result
		err error
	}
	authEventMsg struct {
		ev session.Event
	}
	signInDoneMsg struct {
		user session.User
		err  error
	}
	signOutDoneMsg struct {
		err error
	}
	minibufferTickMsg struct{}
)

type appModel struct {
	ctx  context.Context
	orch *mutate.Orchestrator
	auth session.Provider
	log  *zap.Logger

	// st is the application state; only Update mutates it.
	st    *pad.State
	email string

	width  int
	height int

	ideasList   list.Model
	foldersList list.Model

	search        textinput.Model
	searchFocused bool

	authEmail    textinput.Model
	authPassword textinput.Model
	authFocus    int
	authBusy     bool
	authErr      string

	modal modalState

	// pending counts ops in flight.
	pending int

	minibufferText  string
	minibufferSetAt time.Time
}

func newAppModel(ctx context.Context, deps Deps) appModel {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	m := appModel{
		ctx:    ctx,
		orch:   deps.Orchestrator,
		auth:   deps.Session,
		log:    log,
		st:     pad.NewState(deps.SavedView, deps.Views, log),
		width:  80,
		height: 24,
	}
	if u, ok := deps.Session.CurrentUser(); ok {
		m.st.UserID = u.ID
		m.email = u.Email
	}

	m.ideasList = newList("Ideas", []list.Item{})
	m.foldersList = newList("Folders", []list.Item{})
	m.foldersList.SetDelegate(rowDelegate{})

	m.search = textinput.New()
	m.search.Prompt = "Search: "
	m.search.Placeholder = "title or description"
	m.search.CharLimit = 200

	m.authEmail = textinput.New()
	m.authEmail.Prompt = "Email:    "
	m.authEmail.Placeholder = "you@example.com"
	m.authPassword = textinput.New()
	m.authPassword.Prompt = "Password: "
	m.authPassword.EchoMode = textinput.EchoPassword
	m.authPassword.EchoCharacter = '•'
	m.authEmail.Focus()

	m.resize()
	return m
}

func (m appModel) Init() tea.Cmd {
	cmds := []tea.Cmd{tickMinibuffer()}
	if m.st.UserID != "" {
		cmds = append(cmds, m.start(m.orch.Load(m.st)))
	}
	return tea.Batch(cmds...)
}

func tickMinibuffer() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return minibufferTickMsg{} })
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
	m.minibufferSetAt = time.Now()
}

// start begins op on the event loop and runs its remote part in a command.
func (m *appModel) start(op *mutate.Op) tea.Cmd {
	if op == nil {
		return nil
	}
	op.Begin(m.st)
	m.pending++
	m.refreshLists()
	ctx := m.ctx
	return func() tea.Msg {
		res, err := op.Run(ctx)
		return opDoneMsg{op: op, res: res, err: err}
	}
}

func (m *appModel) resize() {
	// header + search + footer + minibuffer
	h := max(m.height-7, 4)
	w := max(m.width, 20)
	m.ideasList.SetSize(w, h)
	m.foldersList.SetSize(w, h)
	m.search.Width = max(w-len(m.search.Prompt)-2, 10)
	if m.modal.kind != modalNone {
		m.modal.resize(w)
	}
}

func (m *appModel) refreshLists() {
	setItemsKeepIndex(&m.ideasList, ideaItems(&m.st.Cache, m.st.Cache.SearchIdeas(m.st.Search)))
	setItemsKeepIndex(&m.foldersList, folderRows(m.st))
}

func (m *appModel) selectedIdeaItem() (model.Idea, bool) {
	it, ok := m.ideasList.SelectedItem().(ideaItem)
	if !ok {
		return model.Idea{}, false
	}
	return it.idea, true
}

func (m *appModel) selectedFolderRow() (folderRowItem, bool) {
	it, ok := m.foldersList.SelectedItem().(folderRowItem)
	return it, ok
}

func (m *appModel) signedIn(u session.User) tea.Cmd {
	m.authBusy = false
	m.authErr = ""
	m.authPassword.SetValue("")
	if m.st.UserID == u.ID {
		return nil
	}
	m.st.SignOut()
	m.st.UserID = u.ID
	m.email = u.Email
	m.refreshLists()
	return m.start(m.orch.Load(m.st))
}

func (m *appModel) signedOut() {
	if m.st.UserID == "" {
		return
	}
	m.st.SignOut()
	m.email = ""
	m.closeModal()
	m.searchFocused = false
	m.search.SetValue("")
	m.search.Blur()
	m.authFocus = 0
	m.authPassword.Blur()
	m.authEmail.Focus()
	m.refreshLists()
}
