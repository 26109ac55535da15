package cli

import (
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/resolve"
	"github.com/spf13/cobra"
)

// SyncCommand handles the sync command
type SyncCommand struct {
	app        *App
	dev        bool
	noDev      bool
	parallel   bool
	noParallel bool
}

// NewSyncCommand creates a new sync command
func NewSyncCommand(app *App) *cobra.Command {
	cmd := &SyncCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "sync [SPECIFIER...]",
		Short: "Install the environments of projects",
		Long: `Run each selected project's sync command (poetry install, pipenv sync,
go mod download, npm ci). Without specifiers every project is synced when
running in an interactive terminal; piped input selects projects instead.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.dev, "dev", "D", false, "Include development dependencies")
	cobraCmd.Flags().BoolVar(&cmd.noDev, "no-dev", false, "Skip development dependencies")
	cobraCmd.Flags().BoolVarP(&cmd.parallel, "parallel", "p", false, "Sync all projects at once")
	cobraCmd.Flags().BoolVar(&cmd.noParallel, "no-parallel", false, "Sync one project after another")

	return cobraCmd
}

// Run executes the sync command
func (c *SyncCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	specifiers, err := c.app.specifiers(args)
	if err != nil {
		return err
	}

	targets := map[string]bool{}
	switch {
	case len(specifiers) > 0:
		targets, err = resolve.Resolve(ws, registry, specifiers)
	case c.app.interactive():
		targets, err = resolve.All(ws, registry)
	}
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return noProjectsSelected(cmd)
	}

	commands := make([]models.ProjectCommand, 0, len(targets))
	for _, name := range resolve.Sorted(targets) {
		project := ws.Projects[name]
		a, err := registry.For(project, ws)
		if err != nil {
			return err
		}
		commands = append(commands, models.ProjectCommand{Project: project, Command: a.SyncCommand(c.dev && !c.noDev)})
	}

	return c.app.runCommands(cmd, registry, ws, commands, c.parallel && !c.noParallel)
}
