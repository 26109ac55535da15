package cli

import (
	"errors"
	"fmt"

	"github.com/jakoblorz/go-workspace/internal/resolve"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// RemoveCommand handles the remove command
type RemoveCommand struct {
	app    *App
	delete bool
	yes    bool
}

// NewRemoveCommand creates a new remove command
func NewRemoveCommand(app *App) *cobra.Command {
	cmd := &RemoveCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "remove [SPECIFIER...]",
		Short: "Stop tracking projects",
		Long: `Remove projects from the workspace. Project files are kept unless --delete
is given. Deleting asks for confirmation in an interactive terminal unless
--yes is given.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.delete, "delete", "d", false, "Delete the project directories too")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Do not ask for confirmation")

	return cobraCmd
}

// Run executes the remove command
func (c *RemoveCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	specifiers, err := c.app.specifiers(args)
	if err != nil {
		return err
	}

	targets, err := resolve.Resolve(ws, registry, specifiers)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return noProjectsSelected(cmd)
	}

	names := resolve.Sorted(targets)

	if c.delete && !c.yes && c.app.interactive() && c.app.Prompter != nil {
		confirmed, err := c.app.Prompter.Confirm(
			fmt.Sprintf("Delete %d project(s)?", len(names)),
			bulletList(names),
		)
		if err != nil && !errors.Is(err, tui.ErrAborted) {
			return fmt.Errorf("failed to confirm deletion: %w", err)
		}
		if !confirmed {
			warn(cmd, "Aborted.")
			return nil
		}
	}

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = ws.Projects[name].ResolvedPath()
		ws.RemoveProject(name)
	}
	if err := ws.Flush(); err != nil {
		return err
	}

	if !c.delete {
		status(cmd, "Stopped tracking projects:\n%s", bulletList(names))
		return nil
	}

	for i, path := range paths {
		c.app.Logger.Debug("deleting project directory", "project", names[i], "path", path)
		if err := c.app.FS.RemoveAll(path); err != nil {
			return fmt.Errorf("failed to delete %s: %w", path, err)
		}
	}
	status(cmd, "%s\n%s", tui.WarningStyle.Render("Deleted projects:"), bulletList(names))
	return nil
}
