// Package pad holds the in-memory application state: the data cache, the view
// state machine and the form/search state the screens share.
package pad

import (
	"context"
	"strings"

	"ideapad/internal/model"
	"ideapad/internal/store"

	"golang.org/x/sync/errgroup"
)

// Snapshot is the result of one full fetch for a user.
type Snapshot struct {
	Ideas   []model.Idea
	Folders []model.Folder
}

// Fetch queries both kinds for userID in parallel. Idea rows are normalized.
func Fetch(ctx context.Context, b store.Backend, userID string) (Snapshot, error) {
	var (
		ideaRows []model.IdeaRow
		folders  []model.Folder
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := b.ListIdeas(gctx, userID)
		ideaRows = rows
		return err
	})
	g.Go(func() error {
		rows, err := b.ListFolders(gctx, userID)
		folders = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	ideas := make([]model.Idea, 0, len(ideaRows))
	for _, r := range ideaRows {
		ideas = append(ideas, r.Idea())
	}
	if folders == nil {
		folders = []model.Folder{}
	}
	return Snapshot{Ideas: ideas, Folders: folders}, nil
}

// Cache mirrors the current user's ideas (creation-descending) and folders (load order,
// later creations appended).
type Cache struct {
	ideas   []model.Idea
	folders []model.Folder
}

// Load replaces the cache with a fresh fetch. On error the previous contents are kept.
func (c *Cache) Load(ctx context.Context, b store.Backend, userID string) error {
	snap, err := Fetch(ctx, b, userID)
	if err != nil {
		return err
	}
	c.Replace(snap)
	return nil
}

func (c *Cache) Replace(s Snapshot) {
	c.ideas = make([]model.Idea, 0, len(s.Ideas))
	for _, i := range s.Ideas {
		c.ideas = append(c.ideas, cloneIdea(i))
	}
	c.folders = append([]model.Folder{}, s.Folders...)
}

// Reset empties the cache (sign-out).
func (c *Cache) Reset() {
	c.ideas = nil
	c.folders = nil
}

func (c *Cache) Ideas() []model.Idea {
	out := make([]model.Idea, 0, len(c.ideas))
	for _, i := range c.ideas {
		out = append(out, cloneIdea(i))
	}
	return out
}

func (c *Cache) Folders() []model.Folder {
	return append([]model.Folder{}, c.folders...)
}

func (c *Cache) PrependIdea(i model.Idea) {
	i = cloneIdea(i)
	i.FolderID = model.NormalizeFolderID(i.FolderID)
	c.ideas = append([]model.Idea{i}, c.ideas...)
}

func (c *Cache) AppendFolder(f model.Folder) {
	c.folders = append(c.folders, f)
}

// ReplaceIdea swaps the idea with the same id in place. Unknown ids are ignored.
func (c *Cache) ReplaceIdea(i model.Idea) bool {
	for k := range c.ideas {
		if c.ideas[k].ID == i.ID {
			i = cloneIdea(i)
			i.FolderID = model.NormalizeFolderID(i.FolderID)
			c.ideas[k] = i
			return true
		}
	}
	return false
}

func (c *Cache) ReplaceFolder(f model.Folder) bool {
	for k := range c.folders {
		if c.folders[k].ID == f.ID {
			c.folders[k] = f
			return true
		}
	}
	return false
}

func (c *Cache) RemoveIdea(id string) bool {
	for k := range c.ideas {
		if c.ideas[k].ID == id {
			c.ideas = append(c.ideas[:k:k], c.ideas[k+1:]...)
			return true
		}
	}
	return false
}

func (c *Cache) RemoveFolder(id string) bool {
	for k := range c.folders {
		if c.folders[k].ID == id {
			c.folders = append(c.folders[:k:k], c.folders[k+1:]...)
			return true
		}
	}
	return false
}

// SetIdeaFolder points the idea at folderID (nil clears it).
func (c *Cache) SetIdeaFolder(ideaID string, folderID *string) bool {
	for k := range c.ideas {
		if c.ideas[k].ID == ideaID {
			c.ideas[k].FolderID = model.NormalizeFolderID(folderID)
			return true
		}
	}
	return false
}

// ClearFolderRefs unsets the folder of every idea in folderID and returns how many changed.
func (c *Cache) ClearFolderRefs(folderID string) int {
	n := 0
	for k := range c.ideas {
		if c.ideas[k].InFolder(folderID) {
			c.ideas[k].FolderID = nil
			n++
		}
	}
	return n
}

func (c *Cache) Idea(id string) (model.Idea, bool) {
	for _, i := range c.ideas {
		if i.ID == id {
			return cloneIdea(i), true
		}
	}
	return model.Idea{}, false
}

func (c *Cache) Folder(id string) (model.Folder, bool) {
	for _, f := range c.folders {
		if f.ID == id {
			return f, true
		}
	}
	return model.Folder{}, false
}

// FolderName is "" for a nil or dangling reference.
func (c *Cache) FolderName(folderID *string) string {
	if folderID == nil {
		return ""
	}
	if f, ok := c.Folder(*folderID); ok {
		return f.Name
	}
	return ""
}

// NewestCreatedAt is the largest idea timestamp in the cache (0 when empty).
func (c *Cache) NewestCreatedAt() int64 {
	var newest int64
	for _, i := range c.ideas {
		newest = max(newest, i.CreatedAt)
	}
	return newest
}

// SearchIdeas matches q case-insensitively against title or description.
func (c *Cache) SearchIdeas(q string) []model.Idea {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []model.Idea{}
	for _, i := range c.ideas {
		if q == "" ||
			strings.Contains(strings.ToLower(i.Title), q) ||
			strings.Contains(strings.ToLower(i.Description), q) {
			out = append(out, cloneIdea(i))
		}
	}
	return out
}

func (c *Cache) SearchFolders(q string) []model.Folder {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []model.Folder{}
	for _, f := range c.folders {
		if q == "" || strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

func (c *Cache) IdeasInFolder(folderID string) []model.Idea {
	out := []model.Idea{}
	for _, i := range c.ideas {
		if i.InFolder(folderID) {
			out = append(out, cloneIdea(i))
		}
	}
	return out
}

// UnfolderedIdeas includes ideas whose folder no longer exists.
func (c *Cache) UnfolderedIdeas() []model.Idea {
	out := []model.Idea{}
	for _, i := range c.ideas {
		if i.FolderID == nil {
			out = append(out, cloneIdea(i))
			continue
		}
		if _, ok := c.Folder(*i.FolderID); !ok {
			out = append(out, cloneIdea(i))
		}
	}
	return out
}

func (c *Cache) CountInFolder(folderID string) int {
	n := 0
	for _, i := range c.ideas {
		if i.InFolder(folderID) {
			n++
		}
	}
	return n
}

func cloneIdea(i model.Idea) model.Idea {
	if i.FolderID != nil {
		v := *i.FolderID
		i.FolderID = &v
	}
	return i
}
