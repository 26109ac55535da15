package cli

import (
	"fmt"

	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// DiscoverCommand handles the discover command
type DiscoverCommand struct {
	app   *App
	write bool
}

// NewDiscoverCommand creates a new discover command
func NewDiscoverCommand(app *App) *cobra.Command {
	cmd := &DiscoverCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "discover",
		Short: "Find untracked projects below the workspace root",
		Long: `Walk the workspace root and report directories holding a valid manifest
for one of the registered project types. Paths ignored by the root .gitignore
and hidden directories are skipped.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.write, "write", "w", false, "Track the discovered projects")

	return cobraCmd
}

// Run executes the discover command
func (c *DiscoverCommand) Run(cmd *cobra.Command, args []string) error {
	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	candidates, err := ws.Discover(func(dir string) (string, bool) {
		types := registry.Detect(dir, ws)
		if len(types) == 0 {
			return "", false
		}
		return types[0], true
	})
	if err != nil {
		return err
	}
	c.app.Logger.Debug("discovered projects", "count", len(candidates))

	if len(candidates) == 0 {
		warn(cmd, "No untracked projects found.")
		return nil
	}

	if !c.write {
		rows := make([][]string, len(candidates))
		for i, candidate := range candidates {
			rows[i] = []string{candidate.Name, candidate.Path, candidate.Type}
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), tui.Table([]string{"Name", "Path", "Type"}, rows))
		return nil
	}

	for _, candidate := range candidates {
		ws.SetProject(candidate.Name, candidate.Path, candidate.Type)
	}
	if err := ws.Flush(); err != nil {
		return err
	}

	for _, candidate := range candidates {
		status(cmd, "Added new project %s at %s.", tui.AccentStyle.Render(candidate.Name), tui.AccentStyle.Render(candidate.Path))
	}
	return nil
}
