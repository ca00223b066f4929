package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"ideapad/internal/model"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteBackend is a self-hosted row store with the same contract as the hosted one.
// Ids are server-assigned (uuid v4) just like the hosted tables.
type SQLiteBackend struct {
	db    *sql.DB
	newID func() string
}

// OpenSQLiteBackend opens (creating if needed) the sqlite file at path.
func OpenSQLiteBackend(ctx context.Context, path string) (*SQLiteBackend, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps writes strictly serialized in issuance order.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateRowStore(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteBackend{db: db, newID: uuid.NewString}, nil
}

func (b *SQLiteBackend) Close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}

func migrateRowStore(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS folders (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			user_id TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_folders_user ON folders(user_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS ideas (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL,
			folder_id TEXT,
			user_id TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_user ON ideas(user_id, created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_ideas_folder ON ideas(folder_id);`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

func (b *SQLiteBackend) ListIdeas(ctx context.Context, ownerID string) ([]model.IdeaRow, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, title, description, created_at, folder_id, user_id
		   FROM ideas
		  WHERE user_id = ?
		  ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select ideas: %w", err)
	}
	defer rows.Close()

	out := []model.IdeaRow{}
	for rows.Next() {
		var r model.IdeaRow
		var folderID sql.NullString
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.CreatedAt, &folderID, &r.UserID); err != nil {
			return nil, err
		}
		if folderID.Valid {
			r.FolderID = model.FolderRef(folderID.String)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	rows, err := b.db.QueryContext(ctx,
		`SELECT id, name, created_at, user_id
		   FROM folders
		  WHERE user_id = ?
		  ORDER BY created_at DESC, rowid DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("select folders: %w", err)
	}
	defer rows.Close()

	out := []model.Folder{}
	for rows.Next() {
		var f model.Folder
		if err := rows.Scan(&f.ID, &f.Name, &f.CreatedAt, &f.UserID); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (b *SQLiteBackend) InsertIdea(ctx context.Context, row model.IdeaRow) (model.IdeaRow, error) {
	row.ID = b.newID()
	row.FolderID = model.NormalizeFolderID(row.FolderID)
	if _, err := b.db.ExecContext(ctx,
		`INSERT INTO ideas(id, title, description, created_at, folder_id, user_id) VALUES(?, ?, ?, ?, ?, ?)`,
		row.ID, row.Title, row.Description, row.CreatedAt, nullable(row.FolderID), row.UserID); err != nil {
		return model.IdeaRow{}, fmt.Errorf("insert idea: %w", err)
	}
	return row, nil
}

func (b *SQLiteBackend) InsertFolder(ctx context.Context, row model.Folder) (model.Folder, error) {
	row.ID = b.newID()
	if _, err := b.db.ExecContext(ctx,
		`INSERT INTO folders(id, name, created_at, user_id) VALUES(?, ?, ?, ?)`,
		row.ID, row.Name, row.CreatedAt, row.UserID); err != nil {
		return model.Folder{}, fmt.Errorf("insert folder: %w", err)
	}
	return row, nil
}

func (b *SQLiteBackend) UpdateIdea(ctx context.Context, row model.IdeaRow) error {
	_, err := b.db.ExecContext(ctx,
		`UPDATE ideas SET title = ?, description = ?, folder_id = ? WHERE id = ?`,
		row.Title, row.Description, nullable(model.NormalizeFolderID(row.FolderID)), row.ID)
	if err != nil {
		return fmt.Errorf("update idea %s: %w", row.ID, err)
	}
	return nil
}

func (b *SQLiteBackend) SetIdeaFolder(ctx context.Context, ideaID string, folderID *string) error {
	_, err := b.db.ExecContext(ctx,
		`UPDATE ideas SET folder_id = ? WHERE id = ?`,
		nullable(model.NormalizeFolderID(folderID)), ideaID)
	if err != nil {
		return fmt.Errorf("update idea %s folder: %w", ideaID, err)
	}
	return nil
}

func (b *SQLiteBackend) ClearFolder(ctx context.Context, folderID string) error {
	_, err := b.db.ExecContext(ctx, `UPDATE ideas SET folder_id = NULL WHERE folder_id = ?`, folderID)
	if err != nil {
		return fmt.Errorf("clear folder %s: %w", folderID, err)
	}
	return nil
}

func (b *SQLiteBackend) RenameFolder(ctx context.Context, folderID, name string) error {
	_, err := b.db.ExecContext(ctx, `UPDATE folders SET name = ? WHERE id = ?`, name, folderID)
	if err != nil {
		return fmt.Errorf("update folder %s: %w", folderID, err)
	}
	return nil
}

func (b *SQLiteBackend) DeleteIdea(ctx context.Context, ideaID string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM ideas WHERE id = ?`, ideaID); err != nil {
		return fmt.Errorf("delete idea %s: %w", ideaID, err)
	}
	return nil
}

func (b *SQLiteBackend) DeleteFolder(ctx context.Context, folderID string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM folders WHERE id = ?`, folderID); err != nil {
		return fmt.Errorf("delete folder %s: %w", folderID, err)
	}
	return nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
