package cli

import (
	"strings"

	"ideapad/internal/model"
	"ideapad/internal/mutate"
	"ideapad/internal/pad"

	"github.com/spf13/cobra"
)

// ideaOut is an idea with its folder name resolved (empty for none or a dangling reference).
type ideaOut struct {
	model.Idea
	Folder string `json:"folder,omitempty"`
}

func ideaView(c *pad.Cache, i model.Idea) ideaOut {
	return ideaOut{Idea: i, Folder: c.FolderName(i.FolderID)}
}

func newIdeasCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ideas",
		Aliases: []string{"idea"},
		Short:   "Idea commands",
	}
	cmd.AddCommand(newIdeasListCmd(app))
	cmd.AddCommand(newIdeasShowCmd(app))
	cmd.AddCommand(newIdeasAddCmd(app))
	cmd.AddCommand(newIdeasEditCmd(app))
	cmd.AddCommand(newIdeasMoveCmd(app))
	cmd.AddCommand(newIdeasRmCmd(app))
	return cmd
}

func newIdeasListCmd(app *App) *cobra.Command {
	var search string
	var folderID string
	var unfoldered bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ideas, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadUserEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			c := &e.state.Cache
			if folderID != "" {
				if _, err := mutate.RequireFolder(e.state, folderID); err != nil {
					return writeErr(cmd, asCLIError(err))
				}
			}
			out := []ideaOut{}
			for _, i := range c.SearchIdeas(search) {
				switch {
				case folderID != "" && !i.InFolder(strings.TrimSpace(folderID)):
					continue
				case unfoldered && c.FolderName(i.FolderID) != "":
					continue
				}
				out = append(out, ideaView(c, i))
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on title or description")
	cmd.Flags().StringVar(&folderID, "folder", "", "Only ideas in this folder")
	cmd.Flags().BoolVar(&unfoldered, "unfoldered", false, "Only ideas without a folder")
	cmd.MarkFlagsMutuallyExclusive("folder", "unfoldered")
	return cmd
}

func newIdeasShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <idea-id>",
		Short: "Show an idea",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadUserEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			idea, err := mutate.RequireIdea(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			return writeOut(cmd, app, map[string]any{"data": ideaView(&e.state.Cache, idea)})
		},
	}
}

func newIdeasAddCmd(app *App) *cobra.Command {
	var title string
	var description string
	var folderID string
	var newFolder string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Capture a new idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			if strings.TrimSpace(title) == "" {
				return writeErr(cmd, errUsage("--title is required"))
			}
			var target *string
			switch {
			case folderID != "":
				f, err := mutate.RequireFolder(e.state, folderID)
				if err != nil {
					return writeErr(cmd, asCLIError(err))
				}
				target = &f.ID
			case cmd.Flags().Changed("new-folder"):
				res, err := e.exec(ctx, e.orch.CreateFolder(e.state, newFolder), "--new-folder name")
				if err != nil {
					return writeErr(cmd, err)
				}
				target = &res.Folder.ID
			}

			res, err := e.exec(ctx, e.orch.CreateIdeaInFolder(e.state, title, description, target), "--title")
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ideaView(&e.state.Cache, *res.Idea)})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Idea title")
	cmd.Flags().StringVar(&description, "description", "", "Idea description (markdown)")
	cmd.Flags().StringVar(&folderID, "folder", "", "File the idea into this folder")
	cmd.Flags().StringVar(&newFolder, "new-folder", "", "Create a folder with this name and file the idea into it")
	cmd.MarkFlagsMutuallyExclusive("folder", "new-folder")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newIdeasEditCmd(app *App) *cobra.Command {
	var title string
	var description string

	cmd := &cobra.Command{
		Use:   "edit <idea-id>",
		Short: "Change an idea's title or description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			idea, err := mutate.RequireIdea(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			if cmd.Flags().Changed("title") {
				idea.Title = title
			}
			if cmd.Flags().Changed("description") {
				idea.Description = description
			}
			res, err := e.exec(ctx, e.orch.UpdateIdea(e.state, idea), "a non-empty --title")
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ideaView(&e.state.Cache, *res.Idea)})
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&description, "description", "", "New description (markdown; empty clears it)")
	cmd.MarkFlagsOneRequired("title", "description")
	return cmd
}

func newIdeasMoveCmd(app *App) *cobra.Command {
	var folderID string
	var none bool
	var newFolder string

	cmd := &cobra.Command{
		Use:   "move <idea-id>",
		Short: "File an idea into a folder, or take it out of one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			idea, err := mutate.RequireIdea(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			var op *mutate.Op
			switch {
			case cmd.Flags().Changed("new-folder"):
				op = e.orch.CreateFolderAndAssign(e.state, idea.ID, newFolder)
			case none:
				op = e.orch.MoveIdeaToFolder(e.state, idea.ID, nil)
			default:
				f, err := mutate.RequireFolder(e.state, folderID)
				if err != nil {
					return writeErr(cmd, asCLIError(err))
				}
				op = e.orch.MoveIdeaToFolder(e.state, idea.ID, &f.ID)
			}
			if _, err := e.exec(ctx, op, "--new-folder name"); err != nil {
				return writeErr(cmd, err)
			}
			moved, _ := e.state.Cache.Idea(idea.ID)
			return writeOut(cmd, app, map[string]any{"data": ideaView(&e.state.Cache, moved)})
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Target folder id")
	cmd.Flags().BoolVar(&none, "none", false, "Remove the idea from its folder")
	cmd.Flags().StringVar(&newFolder, "new-folder", "", "Create a folder with this name and move the idea into it")
	cmd.MarkFlagsMutuallyExclusive("folder", "none", "new-folder")
	cmd.MarkFlagsOneRequired("folder", "none", "new-folder")
	return cmd
}

func newIdeasRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <idea-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an idea",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			idea, err := mutate.RequireIdea(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			if _, err := e.exec(ctx, e.orch.DeleteIdea(e.state, idea.ID), "an idea id"); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"id": idea.ID, "deleted": true}})
		},
	}
}
