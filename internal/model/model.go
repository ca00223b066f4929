package model

import (
	"strings"
	"time"
)

// Idea is a user-authored note as held in memory.
type Idea struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"createdAt"` // epoch millis
	FolderID    *string `json:"folderId,omitempty"`
	UserID      string  `json:"userId"`
}

// IdeaRow is the row shape of the remote "ideas" table.
// The folder reference column is folder_id; Idea carries it as FolderID.
type IdeaRow struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   int64   `json:"createdAt"`
	FolderID    *string `json:"folder_id"`
	UserID      string  `json:"user_id"`
}

type Folder struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt"` // epoch millis
	UserID    string `json:"user_id"`
}

// Idea normalizes a row into the in-memory shape.
// A null or blank folder_id means "no folder".
func (r IdeaRow) Idea() Idea {
	return Idea{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
		FolderID:    NormalizeFolderID(r.FolderID),
		UserID:      r.UserID,
	}
}

func (i Idea) Row() IdeaRow {
	return IdeaRow{
		ID:          i.ID,
		Title:       i.Title,
		Description: i.Description,
		CreatedAt:   i.CreatedAt,
		FolderID:    NormalizeFolderID(i.FolderID),
		UserID:      i.UserID,
	}
}

// InFolder reports whether the idea references folderID.
func (i Idea) InFolder(folderID string) bool {
	return i.FolderID != nil && *i.FolderID == folderID
}

// NormalizeFolderID returns nil for nil/blank ids and a fresh trimmed copy otherwise.
func NormalizeFolderID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// FolderRef is a convenience for building optional folder references.
func FolderRef(id string) *string {
	return NormalizeFolderID(&id)
}

func Millis(t time.Time) int64 {
	return t.UnixMilli()
}

func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
