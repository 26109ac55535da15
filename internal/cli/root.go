package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/jakoblorz/go-workspace/internal/config"
	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/logging"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command
func NewRootCommand(app *App) *cobra.Command {
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "workspace",
		Short: "Manage multi-project workspaces",
		Long: `A CLI tool for managing workspaces of interdependent projects.

Projects are tracked in a workspace file at the workspace root. Each project
is handled by an adapter for its package manager (poetry, pipenv, and the
go and npm plugins).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := app.Settings.LogLevel
			if verbose {
				level = slog.LevelDebug
			}
			app.Logger = logging.New(cmd.ErrOrStderr(), level).With("command", cmd.Name())
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(NewInitCommand(app))
	rootCmd.AddCommand(NewAddCommand(app))
	rootCmd.AddCommand(NewNewCommand(app))
	rootCmd.AddCommand(NewDiscoverCommand(app))
	rootCmd.AddCommand(NewListCommand(app))
	rootCmd.AddCommand(NewInfoCommand(app))
	rootCmd.AddCommand(NewRemoveCommand(app))
	rootCmd.AddCommand(NewReverseCommand(app))
	rootCmd.AddCommand(NewDependenciesCommand(app))
	rootCmd.AddCommand(NewDependeesCommand(app))
	rootCmd.AddCommand(NewRunCommand(app))
	rootCmd.AddCommand(NewSyncCommand(app))
	rootCmd.AddCommand(NewPluginCommand(app))
	rootCmd.AddCommand(NewTemplateCommand(app))

	return rootCmd
}

// Execute runs the root command against the real filesystem and environment.
// Errors other than exit codes are printed to stderr.
func Execute() error {
	settings, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		printError(err)
		return err
	}

	app := NewApp(filesystem.NewOSFileSystem(), settings)
	rootCmd := NewRootCommand(app)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}

func printError(err error) {
	var exitErr *models.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	_, _ = fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("Error: "+err.Error()))
}
