package cli

import (
	"ideapad/internal/model"
	"ideapad/internal/mutate"

	"github.com/spf13/cobra"
)

type folderOut struct {
	model.Folder
	Ideas int `json:"ideas"`
}

func newFoldersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folders",
		Aliases: []string{"folder"},
		Short:   "Folder commands",
	}
	cmd.AddCommand(newFoldersListCmd(app))
	cmd.AddCommand(newFoldersAddCmd(app))
	cmd.AddCommand(newFoldersRenameCmd(app))
	cmd.AddCommand(newFoldersRmCmd(app))
	return cmd
}

func newFoldersListCmd(app *App) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List folders with their idea counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadUserEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			out := []folderOut{}
			for _, f := range e.state.Cache.SearchFolders(search) {
				out = append(out, folderOut{Folder: f, Ideas: e.state.Cache.CountInFolder(f.ID)})
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "Case-insensitive match on folder name")
	return cmd
}

func newFoldersAddCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a folder",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			res, err := e.exec(ctx, e.orch.CreateFolder(e.state, name), "a non-empty --name")
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": folderOut{Folder: *res.Folder}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Folder name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersRenameCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <folder-id>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			f, err := mutate.RequireFolder(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			f.Name = name
			res, err := e.exec(ctx, e.orch.UpdateFolder(e.state, f), "a non-empty --name")
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": folderOut{
				Folder: *res.Folder,
				Ideas:  e.state.Cache.CountInFolder(f.ID),
			}})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New folder name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newFoldersRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <folder-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a folder; its ideas are kept without a folder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := loadUserEnv(ctx, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			f, err := mutate.RequireFolder(e.state, args[0])
			if err != nil {
				return writeErr(cmd, asCLIError(err))
			}
			unfiled := e.state.Cache.CountInFolder(f.ID)
			if _, err := e.exec(ctx, e.orch.DeleteFolder(e.state, f.ID), "a folder id"); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"id":      f.ID,
				"deleted": true,
				"unfiled": unfiled,
			}})
		},
	}
}
