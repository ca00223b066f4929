package pad

import (
	"go.uber.org/zap"
)

type View string

const (
	ViewHome       View = "home"
	ViewIdeas      View = "ideas"
	ViewFolders    View = "folders"
	ViewIdeaDetail View = "idea-detail"
)

func ParseView(s string) (View, bool) {
	switch v := View(s); v {
	case ViewHome, ViewIdeas, ViewFolders, ViewIdeaDetail:
		return v, true
	default:
		return "", false
	}
}

// TopLevel reports whether v is one of the tab screens.
func (v View) TopLevel() bool {
	return v == ViewHome || v == ViewIdeas || v == ViewFolders
}

// ViewSaver persists the current view name across sessions.
type ViewSaver interface {
	SaveView(view string) error
}

// RestoreView maps a persisted value to the initial view. A saved idea-detail cannot
// be restored without its selected idea, so it falls back to the ideas list.
func RestoreView(saved string) View {
	v, ok := ParseView(saved)
	if !ok {
		return ViewHome
	}
	if v == ViewIdeaDetail {
		return ViewIdeas
	}
	return v
}

// Nav is the view state machine. History is a single slot: GoBack returns to the
// view that was current before the last NavigateTo, never further.
type Nav struct {
	current  View
	previous View
	selected string

	saver ViewSaver
	log   *zap.Logger
}

func NewNav(saved string, saver ViewSaver, log *zap.Logger) *Nav {
	if log == nil {
		log = zap.NewNop()
	}
	return &Nav{
		current:  RestoreView(saved),
		previous: ViewHome,
		saver:    saver,
		log:      log,
	}
}

func (n *Nav) Current() View  { return n.current }
func (n *Nav) Previous() View { return n.previous }

// SelectedIdeaID is the detail subject ("" when none).
func (n *Nav) SelectedIdeaID() string { return n.selected }

// NavigateTo records the current view as previous and moves to view.
// A non-empty ideaID becomes the selected idea.
func (n *Nav) NavigateTo(view View, ideaID string) {
	n.previous = n.current
	n.current = view
	if ideaID != "" {
		n.selected = ideaID
	}
	n.persist()
}

func (n *Nav) GoBack() {
	n.current = n.previous
	n.selected = ""
	n.persist()
}

func (n *Nav) GoHome() {
	n.current = ViewHome
	n.previous = ViewHome
	n.selected = ""
	n.persist()
}

// Switch jumps between top-level screens without touching history.
// Leaving a screen this way drops the selected idea.
func (n *Nav) Switch(view View) bool {
	if !view.TopLevel() {
		return false
	}
	n.current = view
	n.selected = ""
	n.persist()
	return true
}

func (n *Nav) persist() {
	if n.saver == nil {
		return
	}
	if err := n.saver.SaveView(string(n.current)); err != nil {
		n.log.Warn("persist view failed", zap.String("view", string(n.current)), zap.Error(err))
	}
}
