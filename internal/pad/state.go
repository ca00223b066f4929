package pad

import (
	"ideapad/internal/model"

	"go.uber.org/zap"
)

// UnfolderedKey is the open-state key of the "Unfoldered" section in the folders view.
const UnfolderedKey = "unfoldered"

// Form is the in-progress compose/edit input of the screens.
type Form struct {
	NewIdeaTitle       string
	NewIdeaDescription string
	NewFolderName      string

	EditingIdea   *model.Idea
	EditingFolder *model.Folder
}

// State is the single owned application state. It is mutated only on the event
// loop, through Nav transitions, Cache mutations and op results.
type State struct {
	UserID string
	Cache  Cache
	Nav    *Nav
	Form   Form

	Search      string
	OpenFolders map[string]bool
}

func NewState(savedView string, saver ViewSaver, log *zap.Logger) *State {
	return &State{
		Nav:         NewNav(savedView, saver, log),
		OpenFolders: map[string]bool{},
	}
}

// SelectedIdea looks the detail subject up in the cache. A selection whose idea
// is gone reports false.
func (s *State) SelectedIdea() (model.Idea, bool) {
	id := s.Nav.SelectedIdeaID()
	if id == "" {
		return model.Idea{}, false
	}
	return s.Cache.Idea(id)
}

// ToggleFolder flips the open state of a folder section (or UnfolderedKey).
func (s *State) ToggleFolder(key string) bool {
	if s.OpenFolders == nil {
		s.OpenFolders = map[string]bool{}
	}
	open := !s.OpenFolders[key]
	if open {
		s.OpenFolders[key] = true
	} else {
		delete(s.OpenFolders, key)
	}
	return open
}

// SignOut drops everything that belongs to the user.
func (s *State) SignOut() {
	s.UserID = ""
	s.Cache.Reset()
	s.Form = Form{}
	s.Search = ""
	s.OpenFolders = map[string]bool{}
}
