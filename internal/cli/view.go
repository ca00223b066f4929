package cli

import (
	"fmt"

	"ideapad/internal/pad"

	"github.com/spf13/cobra"
)

func newViewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "view [home|ideas|folders]",
		Short:     "Show or set the view the TUI opens on",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(pad.ViewHome), string(pad.ViewIdeas), string(pad.ViewFolders)},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv(cmd.Context(), app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer e.Close()

			nav := e.state.Nav
			if len(args) == 1 {
				v, ok := pad.ParseView(args[0])
				if !ok || !v.TopLevel() {
					return writeErr(cmd, errUsage(fmt.Sprintf("view must be one of home, ideas, folders (got %q)", args[0])))
				}
				nav.Switch(v)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"view": nav.Current()}})
		},
	}
}
