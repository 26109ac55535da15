package cli

import (
	"fmt"

	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
)

// InitCommand handles the init command
type InitCommand struct {
	app  *App
	path string
}

// NewInitCommand creates a new init command
func NewInitCommand(app *App) *cobra.Command {
	cmd := &InitCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "init",
		Short: "Initialise a workspace",
		Long:  `Write an empty workspace file to the current directory, or to --path.`,
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.path, "path", "p", "", "Directory to create the workspace in (default: current directory)")

	return cobraCmd
}

// Run executes the init command
func (c *InitCommand) Run(cmd *cobra.Command, args []string) error {
	ws := workspace.New(c.app.FS, workspace.WithSettings(c.app.Settings))

	dir := c.path
	if dir == "" {
		cwd, err := c.app.FS.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = cwd
	}
	ws.Create(ws.Abs(dir))

	if c.app.FS.Exists(ws.FilePath) {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("File already exists at %s.", tui.Bold(ws.FilePath))))
	}

	if err := c.app.FS.MkdirAll(ws.RootPath, 0o755); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}
	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Created workspace at %s.", tui.AccentStyle.Render(ws.FilePath))
	return nil
}
