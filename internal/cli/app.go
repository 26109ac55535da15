package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/config"
	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/logging"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/runner"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// App holds the dependencies shared by all commands.
type App struct {
	FS       filesystem.FileSystem
	Settings config.Settings

	// Stdin is read for specifiers when none are given as arguments
	Stdin io.Reader

	// StdinIsTerminal reports whether Stdin is interactive
	StdinIsTerminal func() bool

	Prompter tui.Prompter

	// Runner is the base configuration for command runs; output streams and
	// logger are filled in per command
	Runner runner.Options

	Logger *slog.Logger
}

// NewApp creates an App wired to the process streams.
func NewApp(fs filesystem.FileSystem, settings config.Settings) *App {
	return &App{
		FS:       fs,
		Settings: settings,
		Stdin:    os.Stdin,
		StdinIsTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
		Prompter: tui.NewHuhPrompter(os.Stdin, os.Stderr),
		Logger:   logging.Discard(),
	}
}

func (a *App) loadWorkspace() (*workspace.Workspace, error) {
	ws := workspace.New(a.FS, workspace.WithSettings(a.Settings))
	if err := ws.Detect(); err != nil {
		return nil, err
	}
	a.Logger.Debug("loaded workspace", "path", ws.FilePath, "projects", len(ws.Projects), "plugins", ws.Plugins)
	return ws, nil
}

// loadWorkspaceWithRegistry loads the workspace and enables its plugins.
func (a *App) loadWorkspaceWithRegistry() (*workspace.Workspace, *adapter.Registry, error) {
	ws, err := a.loadWorkspace()
	if err != nil {
		return nil, nil, err
	}

	registry, err := adapter.NewRegistry(ws.Plugins...)
	if err != nil {
		return nil, nil, err
	}
	return ws, registry, nil
}

func (a *App) interactive() bool {
	return a.StdinIsTerminal != nil && a.StdinIsTerminal()
}

// specifiers returns args, or the non-empty lines of stdin when there are no
// args and stdin is piped.
func (a *App) specifiers(args []string) ([]string, error) {
	if len(args) > 0 || a.Stdin == nil || a.interactive() {
		return args, nil
	}

	var lines []string
	scanner := bufio.NewScanner(a.Stdin)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read specifiers from stdin: %w", err)
	}
	return lines, nil
}

func (a *App) newRunner(cmd *cobra.Command, registry *adapter.Registry, ws *workspace.Workspace) *runner.Runner {
	opts := a.Runner
	opts.Stdout = cmd.OutOrStdout()
	opts.Stderr = cmd.ErrOrStderr()
	opts.Logger = a.Logger
	return runner.New(registry, ws, opts)
}

// runCommands runs commands and turns a non-zero aggregate into an ExitError.
func (a *App) runCommands(cmd *cobra.Command, registry *adapter.Registry, ws *workspace.Workspace, commands []models.ProjectCommand, parallel bool) error {
	a.Logger.Debug("running commands", "count", len(commands), "parallel", parallel)

	code, err := a.newRunner(cmd, registry, ws).Run(cmd.Context(), commands, parallel)
	if err != nil {
		return err
	}

	a.Logger.Debug("run finished", "exit_code", code)
	if code != 0 {
		return &models.ExitError{Code: code}
	}
	return nil
}

// status writes a user-facing message to stderr.
func status(cmd *cobra.Command, format string, args ...any) {
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}

func warn(cmd *cobra.Command, msg string) {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), tui.WarningStyle.Render(msg))
}

// fail prints msg to stderr and exits with status 1 without a further
// error line.
func fail(cmd *cobra.Command, msg string) error {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), msg)
	return &models.ExitError{Code: 1}
}

func noProjectsSelected(cmd *cobra.Command) error {
	warn(cmd, "No projects selected.")
	return nil
}

// bulletList renders names as an indented bullet list.
func bulletList(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString("  - " + tui.Bold(name) + "\n")
	}
	return b.String()
}
