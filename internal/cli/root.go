package cli

import (
	"fmt"
	"os"
	"strings"

	"ideapad/internal/format"
	"ideapad/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Backend    string
	LogLevel   string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "ideapad",
		Short:        "ideaPad: capture ideas and file them into folders",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  ideapad

  # Sign in (sqlite backend: any email, no password needed)
  ideapad login --email you@example.com

  # Scriptable commands
  ideapad ideas add --title "Rocket" --description "to the moon"
  ideapad ideas list --search moon

  # Direct idea lookup (shortcut for: ideapad ideas show <idea-id>)
  ideapad 0b6f7c52-7d0b-4a8e-9d7e-1d2f3a4b5c6d
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Backend, "backend", envOr("IDEAPAD_BACKEND", ""), "Row store (supabase|sqlite; default: supabase when a project URL is configured)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", envOr("IDEAPAD_LOG_LEVEL", ""), "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("IDEAPAD_FORMAT", format.JSON), "Output format ("+strings.Join(format.Formats, "|")+")")

	cmd.AddCommand(newLoginCmd(app))
	cmd.AddCommand(newLogoutCmd(app))
	cmd.AddCommand(newWhoamiCmd(app))
	cmd.AddCommand(newIdeasCmd(app))
	cmd.AddCommand(newFoldersCmd(app))
	cmd.AddCommand(newViewCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App) error {
	e, err := loadEnv(cmd.Context(), app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer e.Close()
	return tui.Run(cmd.Context(), tui.Deps{
		Orchestrator: e.orch,
		Session:      e.auth,
		Views:        e.dir,
		SavedView:    e.dir.LoadView(),
		Log:          e.log,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
