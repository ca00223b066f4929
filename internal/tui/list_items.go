package tui

import (
	"fmt"

	"ideapad/internal/model"
	"ideapad/internal/pad"

	"github.com/charmbracelet/bubbles/list"
)

func newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	// Header, search line and footer are ours; keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// Search is handled by the app (shared across views), not by the list.
	l.SetFilteringEnabled(false)
	l.KeyMap.Quit.SetKeys("q")
	// Emacs-style aliases.
	l.KeyMap.CursorUp.SetKeys(append(append([]string{}, l.KeyMap.CursorUp.Keys()...), "ctrl+p")...)
	l.KeyMap.CursorDown.SetKeys(append(append([]string{}, l.KeyMap.CursorDown.Keys()...), "ctrl+n")...)
	return l
}

func fmtDate(ms int64) string {
	return model.FromMillis(ms).Local().Format("Jan 2, 2006")
}

func fmtCount(n int) string {
	if n == 1 {
		return "1 idea"
	}
	return fmt.Sprintf("%d ideas", n)
}

type ideaItem struct {
	idea   model.Idea
	folder string
}

func (i ideaItem) Title() string { return i.idea.Title }

func (i ideaItem) Description() string {
	meta := fmtDate(i.idea.CreatedAt)
	if i.folder != "" {
		meta = i.folder + glyphSep() + meta
	}
	if d := oneLine(i.idea.Description); d != "" {
		meta += glyphSep() + d
	}
	return meta
}

func (i ideaItem) FilterValue() string { return i.idea.Title }

func ideaItems(c *pad.Cache, ideas []model.Idea) []list.Item {
	items := make([]list.Item, 0, len(ideas))
	for _, it := range ideas {
		items = append(items, ideaItem{idea: it, folder: c.FolderName(it.FolderID)})
	}
	return items
}

// folderRowItem is either a collapsible section header (a folder or the
// "Unfoldered" group) or an idea listed under an open section.
type folderRowItem struct {
	header bool
	key    string
	name   string
	count  int
	open   bool
	folder *model.Folder

	idea model.Idea
}

// line is the single rendered row.
func (r folderRowItem) line() string {
	if !r.header {
		return "    " + r.idea.Title + styleMuted().Render(glyphSep()+fmtDate(r.idea.CreatedAt))
	}
	return fmt.Sprintf("%s %s (%d)", glyphTwisty(r.open), r.name, r.count)
}

func (r folderRowItem) FilterValue() string {
	if r.header {
		return r.name
	}
	return r.idea.Title
}

// folderRows flattens the folders screen: the Unfoldered section first (only when it
// has ideas), then one section per folder matching search, each followed by its
// ideas when open.
func folderRows(st *pad.State) []list.Item {
	var rows []list.Item
	add := func(key, name string, folder *model.Folder, ideas []model.Idea) {
		open := st.OpenFolders[key]
		rows = append(rows, folderRowItem{header: true, key: key, name: name, count: len(ideas), open: open, folder: folder})
		if !open {
			return
		}
		for _, it := range ideas {
			rows = append(rows, folderRowItem{key: key, idea: it})
		}
	}
	if loose := st.Cache.UnfolderedIdeas(); len(loose) > 0 {
		add(pad.UnfolderedKey, "Unfoldered", nil, loose)
	}
	for _, f := range st.Cache.SearchFolders(st.Search) {
		f := f
		add(f.ID, f.Name, &f, st.Cache.IdeasInFolder(f.ID))
	}
	return rows
}

// setItemsKeepIndex replaces the list items, keeping the cursor in range.
func setItemsKeepIndex(l *list.Model, items []list.Item) {
	idx := l.Index()
	l.SetItems(items)
	if idx >= len(items) {
		idx = len(items) - 1
	}
	if idx >= 0 {
		l.Select(idx)
	}
}
