// Package storetest provides an in-memory store.Backend for tests.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ideapad/internal/model"
	"ideapad/internal/store"
)

// Memory is an in-memory row store. Set Fail[method] to make that method return an error.
type Memory struct {
	mu      sync.Mutex
	ideas   []model.IdeaRow
	folders []model.Folder
	seq     int

	Fail  map[string]error
	Calls []string
}

var _ store.Backend = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{Fail: map[string]error{}}
}

// FailNext makes method fail with err until cleared.
func (m *Memory) FailNext(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fail[method] = err
}

func (m *Memory) Clear(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Fail, method)
}

// CallLog returns a copy of the recorded method calls, in order.
func (m *Memory) CallLog() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// IdeaRows returns a copy of the stored idea rows (insertion order).
func (m *Memory) IdeaRows() []model.IdeaRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.IdeaRow(nil), m.ideas...)
}

func (m *Memory) FolderRows() []model.Folder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Folder(nil), m.folders...)
}

// SeedIdea stores a row as-is (the id must be set).
func (m *Memory) SeedIdea(row model.IdeaRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ideas = append(m.ideas, row)
}

func (m *Memory) SeedFolder(row model.Folder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.folders = append(m.folders, row)
}

func (m *Memory) call(method string) error {
	m.Calls = append(m.Calls, method)
	if err := m.Fail[method]; err != nil {
		return err
	}
	return nil
}

func (m *Memory) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *Memory) ListIdeas(ctx context.Context, ownerID string) ([]model.IdeaRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListIdeas"); err != nil {
		return nil, err
	}
	out := []model.IdeaRow{}
	for _, r := range m.ideas {
		if r.UserID == ownerID {
			out = append(out, r)
		}
	}
	// Newest first; later insertions win ties.
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	reverseTies(out, func(r model.IdeaRow) int64 { return r.CreatedAt })
	return out, nil
}

func (m *Memory) ListFolders(ctx context.Context, ownerID string) ([]model.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ListFolders"); err != nil {
		return nil, err
	}
	out := []model.Folder{}
	for _, f := range m.folders {
		if f.UserID == ownerID {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	reverseTies(out, func(f model.Folder) int64 { return f.CreatedAt })
	return out, nil
}

func (m *Memory) InsertIdea(ctx context.Context, row model.IdeaRow) (model.IdeaRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertIdea"); err != nil {
		return model.IdeaRow{}, err
	}
	row.ID = m.nextID("idea")
	row.FolderID = model.NormalizeFolderID(row.FolderID)
	m.ideas = append(m.ideas, row)
	return row, nil
}

func (m *Memory) InsertFolder(ctx context.Context, row model.Folder) (model.Folder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("InsertFolder"); err != nil {
		return model.Folder{}, err
	}
	row.ID = m.nextID("fold")
	m.folders = append(m.folders, row)
	return row, nil
}

func (m *Memory) UpdateIdea(ctx context.Context, row model.IdeaRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("UpdateIdea"); err != nil {
		return err
	}
	for i := range m.ideas {
		if m.ideas[i].ID == row.ID {
			m.ideas[i].Title = row.Title
			m.ideas[i].Description = row.Description
			m.ideas[i].FolderID = model.NormalizeFolderID(row.FolderID)
		}
	}
	return nil
}

func (m *Memory) SetIdeaFolder(ctx context.Context, ideaID string, folderID *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("SetIdeaFolder"); err != nil {
		return err
	}
	for i := range m.ideas {
		if m.ideas[i].ID == ideaID {
			m.ideas[i].FolderID = model.NormalizeFolderID(folderID)
		}
	}
	return nil
}

func (m *Memory) ClearFolder(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("ClearFolder"); err != nil {
		return err
	}
	for i := range m.ideas {
		if m.ideas[i].FolderID != nil && *m.ideas[i].FolderID == folderID {
			m.ideas[i].FolderID = nil
		}
	}
	return nil
}

func (m *Memory) RenameFolder(ctx context.Context, folderID, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("RenameFolder"); err != nil {
		return err
	}
	for i := range m.folders {
		if m.folders[i].ID == folderID {
			m.folders[i].Name = name
		}
	}
	return nil
}

func (m *Memory) DeleteIdea(ctx context.Context, ideaID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteIdea"); err != nil {
		return err
	}
	out := m.ideas[:0]
	for _, r := range m.ideas {
		if r.ID != ideaID {
			out = append(out, r)
		}
	}
	m.ideas = out
	return nil
}

func (m *Memory) DeleteFolder(ctx context.Context, folderID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("DeleteFolder"); err != nil {
		return err
	}
	out := m.folders[:0]
	for _, f := range m.folders {
		if f.ID != folderID {
			out = append(out, f)
		}
	}
	m.folders = out
	return nil
}

// reverseTies reverses runs of equal keys so that the most recently stored row comes first.
func reverseTies[T any](xs []T, key func(T) int64) {
	for i := 0; i < len(xs); {
		j := i + 1
		for j < len(xs) && key(xs[j]) == key(xs[i]) {
			j++
		}
		for a, b := i, j-1; a < b; a, b = a+1, b-1 {
			xs[a], xs[b] = xs[b], xs[a]
		}
		i = j
	}
}
