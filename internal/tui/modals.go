package tui

import (
	"fmt"
	"strings"

	"ideapad/internal/model"
	"ideapad/internal/mutate"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewIdea
	modalNewFolder
	modalEditIdea
	modalRenameFolder
	modalConfirmDelete
	modalFolderPicker
)

type deleteTarget struct {
	kind  string // "idea" or "folder"
	id    string
	label string
}

type pickerKind int

const (
	pickFolder pickerKind = iota
	pickNewFolder
	pickRemove
)

type pickerOption struct {
	kind    pickerKind
	folder  model.Folder
	count   int
	current bool
}

type modalState struct {
	kind modalKind

	title textinput.Model
	body  textarea.Model
	// focus is 0 for title, 1 for body.
	focus int

	confirm confirmModalFocus
	target  deleteTarget

	ideaID    string
	picker    []pickerOption
	pickerIdx int
	naming    bool

	// op is the submitted operation; the modal closes when it succeeds.
	op *mutate.Op

	// editorPath is the temp file handed to an external editor, if one is open.
	editorPath   string
	editorBefore string
}

func newModalState(kind modalKind, width int) modalState {
	s := modalState{kind: kind}
	s.title = textinput.New()
	s.title.CharLimit = 200
	s.body = textarea.New()
	s.body.ShowLineNumbers = false
	s.body.CharLimit = 10000
	s.body.Placeholder = "Description (markdown)"
	s.body.SetHeight(5)
	s.resize(width)
	return s
}

func (s *modalState) resize(width int) {
	bodyW := modalBodyWidth(width)
	s.title.Width = max(bodyW-len(s.title.Prompt)-1, 10)
	s.body.SetWidth(bodyW)
}

func (s modalState) hasBody() bool {
	return s.kind == modalNewIdea || s.kind == modalEditIdea
}

func (s *modalState) focusField(i int) tea.Cmd {
	s.focus = i
	if i == 1 && s.hasBody() {
		s.title.Blur()
		return s.body.Focus()
	}
	s.body.Blur()
	return s.title.Focus()
}

func (m *appModel) openNewIdea() tea.Cmd {
	m.modal = newModalState(modalNewIdea, m.width)
	m.modal.title.Placeholder = "Title"
	m.modal.title.SetValue(m.st.Form.NewIdeaTitle)
	m.modal.body.SetValue(m.st.Form.NewIdeaDescription)
	return m.modal.focusField(0)
}

func (m *appModel) openNewFolder() tea.Cmd {
	m.modal = newModalState(modalNewFolder, m.width)
	m.modal.title.Placeholder = "Folder name"
	m.modal.title.SetValue(m.st.Form.NewFolderName)
	return m.modal.focusField(0)
}

func (m *appModel) openEditIdea(idea model.Idea) tea.Cmd {
	m.st.Form.EditingIdea = &idea
	m.modal = newModalState(modalEditIdea, m.width)
	m.modal.title.SetValue(idea.Title)
	m.modal.body.SetValue(idea.Description)
	return m.modal.focusField(0)
}

func (m *appModel) openRenameFolder(f model.Folder) tea.Cmd {
	m.st.Form.EditingFolder = &f
	m.modal = newModalState(modalRenameFolder, m.width)
	m.modal.title.SetValue(f.Name)
	return m.modal.focusField(0)
}

func (m *appModel) openConfirmDelete(t deleteTarget) {
	m.modal = newModalState(modalConfirmDelete, m.width)
	m.modal.target = t
	m.modal.confirm = confirmFocusCancel
}

func (m *appModel) openFolderPicker(idea model.Idea) {
	m.modal = newModalState(modalFolderPicker, m.width)
	m.modal.ideaID = idea.ID
	m.modal.title.Placeholder = "New folder name"
	for _, f := range m.st.Cache.Folders() {
		m.modal.picker = append(m.modal.picker, pickerOption{
			kind:    pickFolder,
			folder:  f,
			count:   m.st.Cache.CountInFolder(f.ID),
			current: idea.InFolder(f.ID),
		})
	}
	m.modal.picker = append(m.modal.picker, pickerOption{kind: pickNewFolder})
	if m.st.Cache.FolderName(idea.FolderID) != "" {
		m.modal.picker = append(m.modal.picker, pickerOption{kind: pickRemove})
	}
}

func (m *appModel) closeModal() {
	m.modal.title.Blur()
	m.modal.body.Blur()
	m.modal = modalState{}
}

// cancelModal also drops any in-progress edit.
func (m *appModel) cancelModal() {
	switch m.modal.kind {
	case modalEditIdea:
		m.st.Form.EditingIdea = nil
	case modalRenameFolder:
		m.st.Form.EditingFolder = nil
	}
	m.closeModal()
}

func (m *appModel) updateModal(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+g":
		if m.modal.kind == modalFolderPicker && m.modal.naming {
			m.modal.naming = false
			m.modal.title.Blur()
			return nil
		}
		m.cancelModal()
		return nil
	}

	switch m.modal.kind {
	case modalConfirmDelete:
		return m.updateConfirmDelete(msg)
	case modalFolderPicker:
		return m.updateFolderPicker(msg)
	}

	switch msg.String() {
	case "tab", "shift+tab":
		if m.modal.hasBody() {
			return m.modal.focusField(1 - m.modal.focus)
		}
		return nil
	case "ctrl+s":
		return m.submitForm()
	case "ctrl+e":
		if m.modal.hasBody() {
			return m.openEditorForBody()
		}
		return nil
	case "enter":
		if m.modal.focus == 0 {
			return m.submitForm()
		}
	}

	var cmd tea.Cmd
	if m.modal.focus == 1 && m.modal.hasBody() {
		m.modal.body, cmd = m.modal.body.Update(msg)
	} else {
		m.modal.title, cmd = m.modal.title.Update(msg)
	}
	m.syncForm()
	return cmd
}

// syncForm mirrors the modal inputs into the shared form state.
func (m *appModel) syncForm() {
	switch m.modal.kind {
	case modalNewIdea:
		m.st.Form.NewIdeaTitle = m.modal.title.Value()
		m.st.Form.NewIdeaDescription = m.modal.body.Value()
	case modalNewFolder:
		m.st.Form.NewFolderName = m.modal.title.Value()
	case modalEditIdea:
		if e := m.st.Form.EditingIdea; e != nil {
			e.Title = m.modal.title.Value()
			e.Description = m.modal.body.Value()
		}
	case modalRenameFolder:
		if e := m.st.Form.EditingFolder; e != nil {
			e.Name = m.modal.title.Value()
		}
	}
}

// submitForm starts the modal's operation. A refused op (empty input) is a no-op.
func (m *appModel) submitForm() tea.Cmd {
	if m.modal.op != nil {
		return nil
	}
	m.syncForm()
	var op *mutate.Op
	switch m.modal.kind {
	case modalNewIdea:
		op = m.orch.CreateIdea(m.st, m.st.Form.NewIdeaTitle, m.st.Form.NewIdeaDescription)
	case modalNewFolder:
		op = m.orch.CreateFolder(m.st, m.st.Form.NewFolderName)
	case modalEditIdea:
		if e := m.st.Form.EditingIdea; e != nil {
			op = m.orch.UpdateIdea(m.st, *e)
		}
	case modalRenameFolder:
		if e := m.st.Form.EditingFolder; e != nil {
			op = m.orch.UpdateFolder(m.st, *e)
		}
	}
	if op == nil {
		return nil
	}
	m.modal.op = op
	return m.start(op)
}

func (m *appModel) updateConfirmDelete(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.modal.confirm == confirmFocusConfirm {
			m.modal.confirm = confirmFocusCancel
		} else {
			m.modal.confirm = confirmFocusConfirm
		}
		return nil
	case "n":
		m.closeModal()
		return nil
	case "y":
		return m.confirmDelete()
	case "enter":
		if m.modal.confirm == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.closeModal()
	}
	return nil
}

func (m *appModel) confirmDelete() tea.Cmd {
	t := m.modal.target
	m.closeModal()
	switch t.kind {
	case "idea":
		return m.start(m.orch.DeleteIdea(m.st, t.id))
	case "folder":
		return m.start(m.orch.DeleteFolder(m.st, t.id))
	}
	return nil
}

func (m *appModel) updateFolderPicker(msg tea.KeyMsg) tea.Cmd {
	if m.modal.naming {
		if msg.String() == "enter" {
			op := m.orch.CreateFolderAndAssign(m.st, m.modal.ideaID, m.modal.title.Value())
			if op == nil {
				return nil
			}
			m.closeModal()
			return m.start(op)
		}
		var cmd tea.Cmd
		m.modal.title, cmd = m.modal.title.Update(msg)
		return cmd
	}

	n := len(m.modal.picker)
	switch msg.String() {
	case "up", "k", "ctrl+p":
		if m.modal.pickerIdx > 0 {
			m.modal.pickerIdx--
		}
	case "down", "j", "ctrl+n":
		if m.modal.pickerIdx < n-1 {
			m.modal.pickerIdx++
		}
	case "enter":
		if n == 0 {
			return nil
		}
		opt := m.modal.picker[m.modal.pickerIdx]
		switch opt.kind {
		case pickNewFolder:
			m.modal.naming = true
			return m.modal.title.Focus()
		case pickRemove:
			ideaID := m.modal.ideaID
			m.closeModal()
			return m.start(m.orch.MoveIdeaToFolder(m.st, ideaID, nil))
		default:
			ideaID := m.modal.ideaID
			folderID := opt.folder.ID
			m.closeModal()
			return m.start(m.orch.MoveIdeaToFolder(m.st, ideaID, &folderID))
		}
	}
	return nil
}

func (m appModel) viewModal() string {
	w := m.width
	bodyW := modalBodyWidth(w)
	busy := ""
	if m.modal.op != nil {
		busy = "\n" + styleMuted().Render("Saving…")
	}
	formHelp := styleMuted().Width(bodyW).Render("enter: save   esc: cancel")
	if m.modal.hasBody() {
		formHelp = styleMuted().Width(bodyW).Render("tab: next field   ctrl+e: $EDITOR   ctrl+s: save   esc: cancel")
	}

	switch m.modal.kind {
	case modalNewIdea, modalEditIdea:
		title := "New idea"
		if m.modal.kind == modalEditIdea {
			title = "Edit idea"
		}
		return renderModalBox(w, title, strings.Join([]string{
			renderInputLine(bodyW, m.modal.title.View()),
			"",
			m.modal.body.View(),
			"",
			formHelp + busy,
		}, "\n"))
	case modalNewFolder, modalRenameFolder:
		title := "New folder"
		if m.modal.kind == modalRenameFolder {
			title = "Rename folder"
		}
		return renderModalBox(w, title, renderInputLine(bodyW, m.modal.title.View())+"\n\n"+formHelp+busy)
	case modalConfirmDelete:
		t := m.modal.target
		body := fmt.Sprintf("Delete %s %q?", t.kind, t.label)
		if t.kind == "folder" {
			body += "\nIdeas in this folder are kept and become unfoldered."
		}
		return renderConfirmModal(w, "Delete "+t.kind, body, "Delete", "Cancel", m.modal.confirm)
	case modalFolderPicker:
		return renderModalBox(w, "Move to folder", m.viewFolderPicker(bodyW))
	}
	return ""
}

func (m appModel) viewFolderPicker(bodyW int) string {
	var lines []string
	selected := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg).Bold(true)
	for i, opt := range m.modal.picker {
		var label string
		switch opt.kind {
		case pickNewFolder:
			label = "+ New folder" + glyphEllipsis()
		case pickRemove:
			label = "Remove from folder"
		default:
			label = fmt.Sprintf("%s (%d)", opt.folder.Name, opt.count)
			if opt.current {
				label += glyphCheck()
			}
		}
		label = fitPane(label, bodyW-2, 1)
		if i == m.modal.pickerIdx {
			lines = append(lines, selected.Render(glyphPointer()+label))
		} else {
			lines = append(lines, "  "+label)
		}
	}
	if m.modal.naming {
		lines = append(lines, "", renderInputLine(bodyW, m.modal.title.View()))
		lines = append(lines, "", styleMuted().Render("enter: create and move   esc: back"))
	} else {
		lines = append(lines, "", styleMuted().Render("j/k: move   enter: choose   esc: cancel"))
	}
	return strings.Join(lines, "\n")
}
