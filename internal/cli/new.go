package cli

import (
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
)

// NewCommand handles the new command
type NewCommand struct {
	app         *App
	projectType string
	name        string
}

// NewNewCommand creates a new new command
func NewNewCommand(app *App) *cobra.Command {
	cmd := &NewCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "new PATH",
		Short: "Create a new project",
		Long: `Create a directory at PATH, initialise it with the package manager of
--type and track it in the workspace. The directory is removed again if any
step fails.`,
		Example: `  workspace new --type poetry libs/library-three`,
		Args:    cobra.ExactArgs(1),
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.projectType, "type", "", "Project type")
	cobraCmd.Flags().StringVar(&cmd.name, "name", "", "Project name (default: directory name)")
	_ = cobraCmd.MarkFlagRequired("type")

	return cobraCmd
}

// Run executes the new command
func (c *NewCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	path := args[0]
	absPath := ws.Abs(path)

	if existing := ws.ProjectByPath(absPath); existing != nil {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Path %s already tracked as project %s.", tui.Bold(path), tui.Bold(existing.Name))))
	}

	if c.app.FS.Exists(absPath) {
		return fail(cmd, fmt.Sprintf("%s\n\nRun the following to track an existing project:\n\n    %s\n",
			tui.ErrorStyle.Render(fmt.Sprintf("Path %s already exists.", tui.Bold(path))),
			tui.Command("workspace add "+path)))
	}

	name := c.name
	if name == "" {
		name = filepath.Base(absPath)
	}
	if _, exists := ws.Projects[name]; exists {
		return fail(cmd, fmt.Sprintf("%s\n\nSpecify a different name with:\n\n    %s\n",
			tui.ErrorStyle.Render(fmt.Sprintf("Project %s already exists.", tui.Bold(name))),
			tui.Command(fmt.Sprintf("workspace new --type %s --name NAME %s", c.projectType, path))))
	}

	rel, err := ws.Rel(absPath)
	if err != nil {
		return err
	}

	project := models.NewProject(name, rel, c.projectType, ws.RootPath)
	a, err := registry.For(project, ws)
	if err != nil {
		return err
	}

	if err := c.app.FS.MkdirAll(absPath, 0o755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}

	if err := c.initialise(cmd, ws, project, a); err != nil {
		if removeErr := c.app.FS.RemoveAll(absPath); removeErr != nil {
			c.app.Logger.Warn("failed to clean up project directory", "path", absPath, "error", removeErr)
		}
		return err
	}

	status(cmd, "Created new project %s at %s.", tui.AccentStyle.Render(name), tui.AccentStyle.Render(path))
	return nil
}

// initialise runs the adapter's init command, then validates and tracks the
// project.
func (c *NewCommand) initialise(cmd *cobra.Command, ws *workspace.Workspace, project *models.Project, a adapter.Adapter) error {
	command := a.InitCommand()
	c.app.Logger.Debug("initialising project", "project", project.Name, "command", command)

	code, err := a.Exec(cmd.Context(), command, cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if code != 0 {
		return models.NewProjectError(project.Name, "%q exited with code %d", command, code)
	}

	if err := a.Validate(); err != nil {
		return err
	}

	ws.SetProject(project.Name, project.Path, project.Type)
	return ws.Flush()
}
