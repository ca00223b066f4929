package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

const FileName = "session.json"

// record is what survives a relaunch.
type record struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty"`
	ExpiresAt    int64  `json:"expiresAt,omitempty"`
}

// FileStore persists the session record as a user-only readable JSON file.
type FileStore struct {
	Path string
}

func NewFileStore(dir string) FileStore {
	return FileStore{Path: filepath.Join(dir, FileName)}
}

func (f FileStore) load() (*record, error) {
	if strings.TrimSpace(f.Path) == "" {
		return nil, nil
	}
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var r record
	if err := json.Unmarshal(b, &r); err != nil {
		// Corrupt session: treat as signed out.
		return nil, nil
	}
	if strings.TrimSpace(r.User.ID) == "" {
		return nil, nil
	}
	return &r, nil
}

func (f FileStore) save(r record) error {
	if strings.TrimSpace(f.Path) == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f FileStore) clear() error {
	if strings.TrimSpace(f.Path) == "" {
		return nil
	}
	if err := os.Remove(f.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
