package cli

import (
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/resolve"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	app        *App
	command    string
	parallel   bool
	noParallel bool
}

// NewRunCommand creates a new run command
func NewRunCommand(app *App) *cobra.Command {
	cmd := &RunCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "run -c COMMAND [SPECIFIER...]",
		Short: "Run a command in each project",
		Long: `Run a shell command in each selected project, inside the project's
environment. Without specifiers the command runs in every project.

In series (the default) output is streamed as it is produced. With --parallel
all commands start at once, output is captured and the output of failed
projects is printed at the end.

The exit code is the one with the greatest magnitude across all projects.`,
		Example: `  workspace run -c 'pytest' 'library-*'
  workspace run --parallel -c 'make lint'`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.command, "command", "c", "", "The command to execute")
	cobraCmd.Flags().BoolVarP(&cmd.parallel, "parallel", "p", false, "Run the command in all projects at once")
	cobraCmd.Flags().BoolVar(&cmd.noParallel, "no-parallel", false, "Run the command in one project after another")
	_ = cobraCmd.MarkFlagRequired("command")

	return cobraCmd
}

// Run executes the run command
func (c *RunCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	specifiers, err := c.app.specifiers(args)
	if err != nil {
		return err
	}

	var targets map[string]bool
	if len(specifiers) > 0 {
		targets, err = resolve.Resolve(ws, registry, specifiers)
	} else {
		targets, err = resolve.All(ws, registry)
	}
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return noProjectsSelected(cmd)
	}

	names := resolve.Sorted(targets)
	commands := make([]models.ProjectCommand, len(names))
	for i, name := range names {
		commands[i] = models.ProjectCommand{Project: ws.Projects[name], Command: c.command}
	}
	return c.app.runCommands(cmd, registry, ws, commands, c.parallel && !c.noParallel)
}
