// Package mutate turns user intents into validated remote writes and the
// matching state mutations.
package mutate

import (
	"context"
	"strings"
	"time"

	"ideapad/internal/model"
	"ideapad/internal/pad"
	"ideapad/internal/store"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Refresher keeps the credentials the backend runs with from expiring.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Orchestrator struct {
	backend  store.Backend
	log      *zap.Logger
	now      func() time.Time
	validate *validator.Validate
	refresh  Refresher
}

func New(b store.Backend, log *zap.Logger) *Orchestrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		backend:  b,
		log:      log,
		now:      time.Now,
		validate: validator.New(),
	}
}

// UseRefresher makes every op refresh the session before its remote call.
func (o *Orchestrator) UseRefresher(r Refresher) {
	o.refresh = r
}

// Exec drives op and its follow-ups to completion on the calling goroutine.
// The returned Result carries every record echoed back along the way.
func (o *Orchestrator) Exec(ctx context.Context, st *pad.State, op *Op) (Result, error) {
	if op == nil {
		return Result{}, ErrRefused
	}
	var out Result
	for op != nil {
		op.Begin(st)
		res, err := op.Run(ctx)
		if err != nil {
			return out, err
		}
		out = out.merge(res)
		op = res.Apply(st)
	}
	return out, nil
}

// Guard inputs, trimmed before validation.
type ideaInput struct {
	UserID string `validate:"required"`
	Title  string `validate:"required"`
}

type folderInput struct {
	UserID string `validate:"required"`
	Name   string `validate:"required"`
}

type refInput struct {
	UserID string `validate:"required"`
	ID     string `validate:"required"`
}

func (o *Orchestrator) ok(v any) bool {
	return o.validate.Struct(v) == nil
}

func (o *Orchestrator) op(name string) *Op {
	op := &Op{Name: name, log: o.log}
	if o.refresh != nil {
		op.before = o.refresh.Refresh
	}
	return op
}

// timestamp never goes below the newest cached idea, so a fresh idea sorts first
// even if the local clock is behind.
func (o *Orchestrator) timestamp(st *pad.State) int64 {
	return max(model.Millis(o.now()), st.Cache.NewestCreatedAt())
}

// Load refreshes the cache for the signed-in user.
func (o *Orchestrator) Load(st *pad.State) *Op {
	userID := st.UserID
	if userID == "" {
		return nil
	}
	op := o.op("load")
	op.run = func(ctx context.Context) (Result, error) {
		snap, err := pad.Fetch(ctx, o.backend, userID)
		if err != nil {
			return Result{}, err
		}
		return Result{apply: func(st *pad.State) *Op {
			if st.UserID != userID {
				return nil
			}
			st.Cache.Replace(snap)
			return nil
		}}, nil
	}
	return op
}

func (o *Orchestrator) CreateIdea(st *pad.State, title, description string) *Op {
	return o.CreateIdeaInFolder(st, title, description, nil)
}

// CreateIdeaInFolder is CreateIdea with an initial folder reference.
func (o *Orchestrator) CreateIdeaInFolder(st *pad.State, title, description string, folderID *string) *Op {
	in := ideaInput{UserID: st.UserID, Title: strings.TrimSpace(title)}
	if !o.ok(in) {
		return nil
	}
	row := model.IdeaRow{
		Title:       in.Title,
		Description: strings.TrimSpace(description),
		CreatedAt:   o.timestamp(st),
		FolderID:    model.NormalizeFolderID(folderID),
		UserID:      in.UserID,
	}
	op := o.op("create idea")
	op.run = func(ctx context.Context) (Result, error) {
		got, err := o.backend.InsertIdea(ctx, row)
		if err != nil {
			return Result{}, err
		}
		idea := got.Idea()
		return Result{Idea: &idea, apply: func(st *pad.State) *Op {
			if st.UserID != idea.UserID {
				return nil
			}
			st.Cache.PrependIdea(idea)
			st.Form.NewIdeaTitle = ""
			st.Form.NewIdeaDescription = ""
			return nil
		}}, nil
	}
	return op
}

func (o *Orchestrator) CreateFolder(st *pad.State, name string) *Op {
	return o.createFolder(st, "create folder", name, true)
}

// createFolder inserts a folder and appends it on success. clearForm resets the
// new-folder compose field.
func (o *Orchestrator) createFolder(st *pad.State, opName, name string, clearForm bool) *Op {
	in := folderInput{UserID: st.UserID, Name: strings.TrimSpace(name)}
	if !o.ok(in) {
		return nil
	}
	row := model.Folder{
		Name:      in.Name,
		CreatedAt: model.Millis(o.now()),
		UserID:    in.UserID,
	}
	op := o.op(opName)
	op.run = func(ctx context.Context) (Result, error) {
		got, err := o.backend.InsertFolder(ctx, row)
		if err != nil {
			return Result{}, err
		}
		return Result{Folder: &got, apply: func(st *pad.State) *Op {
			if st.UserID != got.UserID {
				return nil
			}
			st.Cache.AppendFolder(got)
			if clearForm {
				st.Form.NewFolderName = ""
			}
			return nil
		}}, nil
	}
	return op
}

// UpdateIdea writes title, description and folder reference of idea.ID.
func (o *Orchestrator) UpdateIdea(st *pad.State, idea model.Idea) *Op {
	in := ideaInput{UserID: st.UserID, Title: strings.TrimSpace(idea.Title)}
	if !o.ok(in) || !o.ok(refInput{UserID: st.UserID, ID: idea.ID}) {
		return nil
	}
	idea.Title = in.Title
	idea.Description = strings.TrimSpace(idea.Description)
	idea.FolderID = model.NormalizeFolderID(idea.FolderID)

	op := o.op("update idea")
	op.run = func(ctx context.Context) (Result, error) {
		if err := o.backend.UpdateIdea(ctx, idea.Row()); err != nil {
			return Result{}, err
		}
		return Result{Idea: &idea, apply: func(st *pad.State) *Op {
			st.Cache.ReplaceIdea(idea)
			st.Form.EditingIdea = nil
			return nil
		}}, nil
	}
	return op
}

func (o *Orchestrator) DeleteIdea(st *pad.State, ideaID string) *Op {
	in := refInput{UserID: st.UserID, ID: strings.TrimSpace(ideaID)}
	if !o.ok(in) {
		return nil
	}
	op := o.op("delete idea")
	op.run = func(ctx context.Context) (Result, error) {
		if err := o.backend.DeleteIdea(ctx, in.ID); err != nil {
			return Result{}, err
		}
		return Result{apply: func(st *pad.State) *Op {
			st.Cache.RemoveIdea(in.ID)
			if st.Nav.Current() == pad.ViewIdeaDetail && st.Nav.SelectedIdeaID() == in.ID {
				st.Nav.GoBack()
			}
			return nil
		}}, nil
	}
	return op
}

// UpdateFolder renames folder.ID; only the name is written.
func (o *Orchestrator) UpdateFolder(st *pad.State, folder model.Folder) *Op {
	in := folderInput{UserID: st.UserID, Name: strings.TrimSpace(folder.Name)}
	if !o.ok(in) || !o.ok(refInput{UserID: st.UserID, ID: folder.ID}) {
		return nil
	}
	folder.Name = in.Name

	op := o.op("update folder")
	op.run = func(ctx context.Context) (Result, error) {
		if err := o.backend.RenameFolder(ctx, folder.ID, folder.Name); err != nil {
			return Result{}, err
		}
		return Result{Folder: &folder, apply: func(st *pad.State) *Op {
			st.Cache.ReplaceFolder(folder)
			st.Form.EditingFolder = nil
			return nil
		}}, nil
	}
	return op
}

// DeleteFolder unfiles the folder's ideas remotely, then deletes the folder row.
// The cache changes only once both steps succeeded.
func (o *Orchestrator) DeleteFolder(st *pad.State, folderID string) *Op {
	in := refInput{UserID: st.UserID, ID: strings.TrimSpace(folderID)}
	if !o.ok(in) {
		return nil
	}
	op := o.op("delete folder")
	op.run = func(ctx context.Context) (Result, error) {
		if err := o.backend.ClearFolder(ctx, in.ID); err != nil {
			return Result{}, err
		}
		if err := o.backend.DeleteFolder(ctx, in.ID); err != nil {
			return Result{}, err
		}
		return Result{apply: func(st *pad.State) *Op {
			st.Cache.ClearFolderRefs(in.ID)
			st.Cache.RemoveFolder(in.ID)
			delete(st.OpenFolders, in.ID)
			return nil
		}}, nil
	}
	return op
}

// MoveIdeaToFolder is optimistic: the cache changes in Begin and is not rolled back
// if the remote write fails. A nil folderID removes the idea from its folder.
func (o *Orchestrator) MoveIdeaToFolder(st *pad.State, ideaID string, folderID *string) *Op {
	in := refInput{UserID: st.UserID, ID: strings.TrimSpace(ideaID)}
	if !o.ok(in) {
		return nil
	}
	target := model.NormalizeFolderID(folderID)

	op := o.op("move idea")
	op.begin = func(st *pad.State) {
		st.Cache.SetIdeaFolder(in.ID, target)
	}
	op.run = func(ctx context.Context) (Result, error) {
		if err := o.backend.SetIdeaFolder(ctx, in.ID, target); err != nil {
			return Result{}, err
		}
		return Result{}, nil
	}
	return op
}

// CreateFolderAndAssign creates a folder and, once it exists, moves ideaID into it.
func (o *Orchestrator) CreateFolderAndAssign(st *pad.State, ideaID, name string) *Op {
	if !o.ok(refInput{UserID: st.UserID, ID: strings.TrimSpace(ideaID)}) {
		return nil
	}
	ideaID = strings.TrimSpace(ideaID)
	op := o.createFolder(st, "create folder and assign", name, false)
	if op == nil {
		return nil
	}
	run := op.run
	op.run = func(ctx context.Context) (Result, error) {
		res, err := run(ctx)
		if err != nil {
			return Result{}, err
		}
		created := *res.Folder
		apply := res.apply
		res.apply = func(st *pad.State) *Op {
			apply(st)
			if st.UserID != created.UserID {
				return nil
			}
			return o.MoveIdeaToFolder(st, ideaID, &created.ID)
		}
		return res, nil
	}
	return op
}
