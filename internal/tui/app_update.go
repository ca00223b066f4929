package tui

import (
	"fmt"
	"runtime"
	"time"

	"ideapad/internal/pad"
	"ideapad/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case minibufferTickMsg:
		if m.minibufferText != "" && time.Since(m.minibufferSetAt) > minibufferAutoClearAfter {
			m.minibufferText = ""
		}
		return m, tickMinibuffer()

	case opDoneMsg:
		return m, m.finish(msg)

	case editorDoneMsg:
		m.applyEditorResult(msg)
		return m, nil

	case authEventMsg:
		switch msg.ev.Kind {
		case session.SignedIn:
			return m, m.signedIn(msg.ev.User)
		case session.SignedOut:
			m.signedOut()
		}
		return m, nil

	case signInDoneMsg:
		if msg.err != nil {
			m.authBusy = false
			m.authErr = msg.err.Error()
			return m, nil
		}
		return m, m.signedIn(msg.user)

	case signOutDoneMsg:
		if msg.err != nil {
			m.showMinibuffer("sign out: " + msg.err.Error())
		}
		m.signedOut()
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch {
		case m.st.UserID == "":
			return m, m.updateAuth(msg)
		case m.modal.kind != modalNone:
			return m, m.updateModal(msg)
		case m.searchFocused:
			return m, m.updateSearch(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

// finish applies a completed op on the event loop and starts its follow-up.
func (m *appModel) finish(msg opDoneMsg) tea.Cmd {
	m.pending = max(m.pending-1, 0)
	modalOp := m.modal.kind != modalNone && m.modal.op == msg.op
	if msg.err != nil {
		if modalOp {
			m.modal.op = nil
		}
		m.showMinibuffer(fmt.Sprintf("%s failed: %v", msg.op.Name, msg.err))
		m.refreshLists()
		return nil
	}
	next := msg.res.Apply(m.st)
	if modalOp {
		m.closeModal()
	}
	m.refreshLists()
	return m.start(next)
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.st.Nav
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "1":
		nav.GoHome()
		return m, nil
	case "2":
		nav.Switch(pad.ViewIdeas)
		return m, nil
	case "3":
		nav.Switch(pad.ViewFolders)
		return m, nil
	case "n":
		return m, m.openNewIdea()
	case "N":
		return m, m.openNewFolder()
	case "ctrl+r":
		return m, m.start(m.orch.Load(m.st))
	case "S":
		return m, m.signOut()
	case "/":
		if nav.Current() == pad.ViewIdeas || nav.Current() == pad.ViewFolders {
			m.searchFocused = true
			return m, m.search.Focus()
		}
	}

	switch nav.Current() {
	case pad.ViewHome:
		switch msg.String() {
		case "i":
			nav.Switch(pad.ViewIdeas)
		case "f":
			nav.Switch(pad.ViewFolders)
		}
		return m, nil

	case pad.ViewIdeas:
		idea, ok := m.selectedIdeaItem()
		switch msg.String() {
		case "enter":
			if ok {
				nav.NavigateTo(pad.ViewIdeaDetail, idea.ID)
			}
			return m, nil
		case "e":
			if ok {
				return m, m.openEditIdea(idea)
			}
			return m, nil
		case "d":
			if ok {
				m.openConfirmDelete(deleteTarget{kind: "idea", id: idea.ID, label: idea.Title})
			}
			return m, nil
		case "m":
			if ok {
				m.openFolderPicker(idea)
			}
			return m, nil
		case "esc":
			m.clearSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.ideasList, cmd = m.ideasList.Update(msg)
		return m, cmd

	case pad.ViewFolders:
		row, ok := m.selectedFolderRow()
		switch msg.String() {
		case "enter", " ":
			if !ok {
				return m, nil
			}
			if row.header {
				m.st.ToggleFolder(row.key)
				m.refreshLists()
			} else {
				nav.NavigateTo(pad.ViewIdeaDetail, row.idea.ID)
			}
			return m, nil
		case "r":
			if ok && row.header && row.folder != nil {
				return m, m.openRenameFolder(*row.folder)
			}
			return m, nil
		case "e":
			if ok && !row.header {
				return m, m.openEditIdea(row.idea)
			}
			return m, nil
		case "d":
			switch {
			case ok && row.header && row.folder != nil:
				m.openConfirmDelete(deleteTarget{kind: "folder", id: row.folder.ID, label: row.folder.Name})
			case ok && !row.header:
				m.openConfirmDelete(deleteTarget{kind: "idea", id: row.idea.ID, label: row.idea.Title})
			}
			return m, nil
		case "esc":
			m.clearSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.foldersList, cmd = m.foldersList.Update(msg)
		return m, cmd

	case pad.ViewIdeaDetail:
		idea, ok := m.st.SelectedIdea()
		switch msg.String() {
		case "esc", "backspace", "b":
			nav.GoBack()
		case "H":
			nav.GoHome()
		case "e":
			if ok {
				return m, m.openEditIdea(idea)
			}
		case "d":
			if ok {
				m.openConfirmDelete(deleteTarget{kind: "idea", id: idea.ID, label: idea.Title})
			}
		case "m":
			if ok {
				m.openFolderPicker(idea)
			}
		case "y":
			if ok {
				if err := copyToClipboard(runtime.GOOS, ideaClipboardText(idea)); err != nil {
					m.showMinibuffer("Copy failed: " + err.Error())
				} else {
					m.showMinibuffer("Copied to clipboard")
				}
			}
		}
		return m, nil
	}
	return m, nil
}

func (m *appModel) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.clearSearch()
		return nil
	case "enter", "tab", "down":
		m.searchFocused = false
		m.search.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.st.Search = m.search.Value()
	m.refreshLists()
	return cmd
}

func (m *appModel) clearSearch() {
	m.searchFocused = false
	m.search.Blur()
	m.search.SetValue("")
	m.st.Search = ""
	m.refreshLists()
}

func (m *appModel) signOut() tea.Cmd {
	auth, ctx := m.auth, m.ctx
	return func() tea.Msg {
		return signOutDoneMsg{err: auth.SignOut(ctx)}
	}
}
