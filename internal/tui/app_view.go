package tui

import (
	"fmt"
	"strings"

	"ideapad/internal/pad"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.st.UserID == "" {
		return m.viewAuth()
	}
	if m.modal.kind != modalNone {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewModal())
	}

	var body string
	switch m.st.Nav.Current() {
	case pad.ViewHome:
		body = m.viewHome()
	case pad.ViewIdeas:
		body = m.viewIdeas()
	case pad.ViewFolders:
		body = m.viewFolders()
	case pad.ViewIdeaDetail:
		body = m.viewDetail()
	}
	return strings.Join([]string{
		m.viewHeader(),
		"",
		fitPane(body, m.width, max(m.height-4, 1)),
		m.viewFooter(),
	}, "\n")
}

func (m appModel) viewHeader() string {
	cur := m.st.Nav.Current()
	tabs := []string{lipgloss.NewStyle().Bold(true).Render("ideaPad"), " "}
	for i, v := range []pad.View{pad.ViewHome, pad.ViewIdeas, pad.ViewFolders} {
		label := fmt.Sprintf("%d %s", i+1, tabLabel(v))
		tabs = append(tabs, styleTab(cur == v).Render(label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := m.email
	if m.pending > 0 {
		right = "saving… " + right
	}
	right = styleMuted().Render(right)
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func tabLabel(v pad.View) string {
	switch v {
	case pad.ViewIdeas:
		return "Ideas"
	case pad.ViewFolders:
		return "Folders"
	default:
		return "Home"
	}
}

func (m appModel) viewFooter() string {
	var help string
	switch m.st.Nav.Current() {
	case pad.ViewHome:
		help = "n: new idea  N: new folder  i/f: browse  S: sign out  q: quit"
	case pad.ViewIdeas:
		help = "enter: open  /: search  n: new  e: edit  m: move  d: delete  q: quit"
	case pad.ViewFolders:
		help = "enter: open/toggle  /: search  N: new folder  r: rename  d: delete  q: quit"
	case pad.ViewIdeaDetail:
		help = "esc: back  e: edit  m: move to folder  y: copy  d: delete  H: home"
	}
	return styleMuted().Render(fitPane(help, m.width, 1)) + "\n" + fitPane(m.minibufferText, m.width, 1)
}

func (m appModel) viewHome() string {
	n := len(m.st.Cache.Ideas())
	f := len(m.st.Cache.Folders())
	folders := "folders"
	if f == 1 {
		folders = "folder"
	}
	key := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render("Welcome to ideaPad"),
		"",
		fmt.Sprintf("You have %s in %d %s.", fmtCount(n), f, folders),
		"",
		"  " + key.Render("i") + "  Browse ideas",
		"  " + key.Render("f") + "  Browse folders",
		"  " + key.Render("n") + "  Capture a new idea",
	}, "\n")
}

func (m appModel) searchLine() string {
	if m.searchFocused || m.search.Value() != "" {
		return m.search.View()
	}
	return styleMuted().Render("/ to search")
}

func (m appModel) viewIdeas() string {
	var body string
	switch {
	case len(m.ideasList.Items()) > 0:
		body = m.ideasList.View()
	case m.st.Search != "":
		body = styleMuted().Render(fmt.Sprintf("No ideas match %q.", m.st.Search))
	default:
		body = styleMuted().Render("No ideas yet. Press n to capture one.")
	}
	return m.searchLine() + "\n" + body
}

func (m appModel) viewFolders() string {
	return m.searchLine() + "\n" + m.foldersList.View()
}

func (m appModel) viewDetail() string {
	idea, ok := m.st.SelectedIdea()
	if !ok {
		return styleMuted().Render("This idea no longer exists. Press esc to go back.")
	}
	meta := styleMuted().Render("Created " + fmtDate(idea.CreatedAt))
	if name := m.st.Cache.FolderName(idea.FolderID); name != "" {
		meta += " " + styleBadge().Render(name)
	}
	desc := renderMarkdown(idea.Description, max(m.width-2, 10))
	if desc == "" {
		desc = styleMuted().Render("No description.")
	}
	return strings.Join([]string{
		lipgloss.NewStyle().Bold(true).Render(idea.Title),
		meta,
		"",
		desc,
	}, "\n")
}
