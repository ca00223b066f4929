package store

import (
	"context"
	"fmt"

	"ideapad/internal/model"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
)

const (
	ideasTable   = "ideas"
	foldersTable = "folders"
)

// SupabaseBackend talks to the hosted PostgREST API of a Supabase project.
// Row-level security scopes rows to the signed-in user; the owner filter is applied too.
type SupabaseBackend struct {
	client *supabase.Client
}

func NewSupabaseClient(url, anonKey string) (*supabase.Client, error) {
	client, err := supabase.NewClient(url, anonKey, nil)
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}
	return client, nil
}

func NewSupabaseBackend(client *supabase.Client) *SupabaseBackend {
	return &SupabaseBackend{client: client}
}

// The postgrest builders do not take a context; we only honour cancellation before a call.

func (b *SupabaseBackend) ListIdeas(ctx context.Context, ownerID string) ([]model.IdeaRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []model.IdeaRow
	_, err := b.client.From(ideasTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("createdAt", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("select ideas: %w", err)
	}
	return rows, nil
}

func (b *SupabaseBackend) ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var rows []model.Folder
	_, err := b.client.From(foldersTable).
		Select("*", "", false).
		Eq("user_id", ownerID).
		Order("createdAt", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		return nil, fmt.Errorf("select folders: %w", err)
	}
	return rows, nil
}

func (b *SupabaseBackend) InsertIdea(ctx context.Context, row model.IdeaRow) (model.IdeaRow, error) {
	if err := ctx.Err(); err != nil {
		return model.IdeaRow{}, err
	}
	row.ID = ""
	var out []model.IdeaRow
	_, err := b.client.From(ideasTable).
		Insert([]model.IdeaRow{row}, false, "", "representation", "").
		ExecuteTo(&out)
	if err != nil {
		return model.IdeaRow{}, fmt.Errorf("insert idea: %w", err)
	}
	if len(out) == 0 {
		return model.IdeaRow{}, ErrNoRow
	}
	return out[0], nil
}

func (b *SupabaseBackend) InsertFolder(ctx context.Context, row model.Folder) (model.Folder, error) {
	if err := ctx.Err(); err != nil {
		return model.Folder{}, err
	}
	row.ID = ""
	var out []model.Folder
	_, err := b.client.From(foldersTable).
		Insert([]model.Folder{row}, false, "", "representation", "").
		ExecuteTo(&out)
	if err != nil {
		return model.Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	if len(out) == 0 {
		return model.Folder{}, ErrNoRow
	}
	return out[0], nil
}

func (b *SupabaseBackend) UpdateIdea(ctx context.Context, row model.IdeaRow) error {
	return b.update(ctx, ideasTable, "id", row.ID, map[string]any{
		"title":       row.Title,
		"description": row.Description,
		"folder_id":   model.NormalizeFolderID(row.FolderID),
	})
}

func (b *SupabaseBackend) SetIdeaFolder(ctx context.Context, ideaID string, folderID *string) error {
	return b.update(ctx, ideasTable, "id", ideaID, map[string]any{
		"folder_id": model.NormalizeFolderID(folderID),
	})
}

func (b *SupabaseBackend) ClearFolder(ctx context.Context, folderID string) error {
	return b.update(ctx, ideasTable, "folder_id", folderID, map[string]any{
		"folder_id": nil,
	})
}

func (b *SupabaseBackend) RenameFolder(ctx context.Context, folderID, name string) error {
	return b.update(ctx, foldersTable, "id", folderID, map[string]any{
		"name": name,
	})
}

func (b *SupabaseBackend) DeleteIdea(ctx context.Context, ideaID string) error {
	return b.delete(ctx, ideasTable, ideaID)
}

func (b *SupabaseBackend) DeleteFolder(ctx context.Context, folderID string) error {
	return b.delete(ctx, foldersTable, folderID)
}

func (b *SupabaseBackend) update(ctx context.Context, table, column, value string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := b.client.From(table).
		Update(fields, "minimal", "").
		Eq(column, value).
		Execute()
	if err != nil {
		return fmt.Errorf("update %s where %s=%s: %w", table, column, value, err)
	}
	return nil
}

func (b *SupabaseBackend) delete(ctx context.Context, table, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := b.client.From(table).
		Delete("minimal", "").
		Eq("id", id).
		Execute()
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}
