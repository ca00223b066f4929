package store

import (
	"context"
	"errors"

	"ideapad/internal/model"
)

// ErrNoRow is returned when an insert succeeds but the store echoes no row back.
var ErrNoRow = errors.New("store returned no row")

// Backend is the remote row store for the two record kinds (ideas, folders).
//
// Every read is scoped by owner; writes address rows by id. Updates and deletes
// of unknown ids succeed without effect, matching PostgREST semantics.
type Backend interface {
	// ListIdeas returns the owner's ideas ordered by createdAt descending.
	ListIdeas(ctx context.Context, ownerID string) ([]model.IdeaRow, error)
	// ListFolders returns the owner's folders ordered by createdAt descending.
	ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error)

	InsertIdea(ctx context.Context, row model.IdeaRow) (model.IdeaRow, error)
	InsertFolder(ctx context.Context, row model.Folder) (model.Folder, error)

	// UpdateIdea writes title, description and folder_id of the row with row.ID.
	UpdateIdea(ctx context.Context, row model.IdeaRow) error
	// SetIdeaFolder writes folder_id only (nil clears it).
	SetIdeaFolder(ctx context.Context, ideaID string, folderID *string) error
	// ClearFolder sets folder_id to null on every idea row pointing at folderID.
	ClearFolder(ctx context.Context, folderID string) error
	// RenameFolder writes the name column only.
	RenameFolder(ctx context.Context, folderID, name string) error

	DeleteIdea(ctx context.Context, ideaID string) error
	DeleteFolder(ctx context.Context, folderID string) error
}
