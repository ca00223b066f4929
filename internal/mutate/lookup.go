package mutate

import (
	"strings"

	"ideapad/internal/model"
	"ideapad/internal/pad"
)

// RequireIdea returns the cached idea or a NotFoundError.
func RequireIdea(st *pad.State, id string) (model.Idea, error) {
	id = strings.TrimSpace(id)
	if i, ok := st.Cache.Idea(id); ok {
		return i, nil
	}
	return model.Idea{}, NotFoundError{Kind: "idea", ID: id}
}

func RequireFolder(st *pad.State, id string) (model.Folder, error) {
	id = strings.TrimSpace(id)
	if f, ok := st.Cache.Folder(id); ok {
		return f, nil
	}
	return model.Folder{}, NotFoundError{Kind: "folder", ID: id}
}
