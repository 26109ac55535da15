package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
)

// AddCommand handles the add command
type AddCommand struct {
	app         *App
	projectType string
	name        string
}

// NewAddCommand creates a new add command
func NewAddCommand(app *App) *cobra.Command {
	cmd := &AddCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "add PATH",
		Short: "Track an existing project",
		Long: `Track an existing project at PATH in the workspace.

The project type is detected from the manifests in PATH unless --type is
given. When several types match, the first one in alphabetical order wins.`,
		Example: `  workspace add libs/library-one
  workspace add --type poetry --name api services/api`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVar(&cmd.projectType, "type", "", "Project type (detected when omitted)")
	cobraCmd.Flags().StringVar(&cmd.name, "name", "", "Project name (default: directory name)")

	return cobraCmd
}

// Run executes the add command
func (c *AddCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	path := args[0]
	absPath := ws.Abs(path)
	if info, err := c.app.FS.Stat(absPath); err != nil || !info.IsDir() {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Directory %s does not exist.", tui.Bold(path))))
	}

	name := c.name
	if name == "" {
		name = filepath.Base(absPath)
	}

	if _, exists := ws.Projects[name]; exists {
		typeFlag := ""
		if c.projectType != "" {
			typeFlag = " --type " + c.projectType
		}
		return fail(cmd, fmt.Sprintf("%s\n\nSpecify a different name with:\n\n    %s\n",
			tui.ErrorStyle.Render(fmt.Sprintf("Project %s already exists.", tui.Bold(name))),
			tui.Command(fmt.Sprintf("workspace add%s --name NAME %s", typeFlag, path))))
	}

	if existing := ws.ProjectByPath(absPath); existing != nil {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Path %s already tracked as project %s.", tui.Bold(path), tui.Bold(existing.Name))))
	}

	projectType := c.projectType
	if projectType == "" {
		projectType, err = c.detectType(cmd, ws, registry, absPath, path)
		if err != nil {
			return err
		}
	}

	rel, err := ws.Rel(absPath)
	if err != nil {
		return err
	}

	project := ws.SetProject(name, rel, projectType)
	a, err := registry.For(project, ws)
	if err != nil {
		return err
	}
	if err := a.Validate(); err != nil {
		return err
	}

	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Added new project %s at %s.", tui.AccentStyle.Render(project.Name), tui.AccentStyle.Render(path))
	return nil
}

// detectType returns the first type whose manifest validates in dir. When none
// does, an interactive session is asked to choose.
func (c *AddCommand) detectType(cmd *cobra.Command, ws *workspace.Workspace, registry *adapter.Registry, dir, path string) (string, error) {
	if types := registry.Detect(dir, ws); len(types) > 0 {
		c.app.Logger.Debug("detected project type", "path", path, "types", types)
		return types[0], nil
	}

	if c.app.interactive() && c.app.Prompter != nil {
		choice, err := c.app.Prompter.Select(
			fmt.Sprintf("Could not detect the type of %s", path),
			"Choose the project type",
			registry.Types(),
		)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				return "", fail(cmd, tui.WarningStyle.Render("Aborted."))
			}
			return "", fmt.Errorf("failed to prompt for project type: %w", err)
		}
		return choice, nil
	}

	return "", fail(cmd, fmt.Sprintf("%s\n\nPlease specify type as follows:\n\n    %s\n\nAvailable types are:\n%s",
		tui.ErrorStyle.Render(fmt.Sprintf("Could not detect type of project at path %s.", tui.Bold(path))),
		tui.Command(fmt.Sprintf("workspace add --type TYPE %s", path)),
		bulletList(registry.Types())))
}
