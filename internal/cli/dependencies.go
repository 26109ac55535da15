package cli

import (
	"fmt"

	"github.com/jakoblorz/go-workspace/internal/graph"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/resolve"
	"github.com/spf13/cobra"
)

// GraphCommand handles the dependencies and dependees commands
type GraphCommand struct {
	app          *App
	kind         graph.Kind
	transitive   bool
	noTransitive bool
	dev          bool
	noDev        bool
	output       string
}

// NewDependenciesCommand creates a new dependencies command
func NewDependenciesCommand(app *App) *cobra.Command {
	cmd := &GraphCommand{app: app, kind: graph.Dependencies}

	cobraCmd := &cobra.Command{
		Use:   "dependencies [SPECIFIER...]",
		Short: "List the selected projects and everything they depend on",
		Long: `List the selected projects together with the projects they depend on,
ordered from fewest to most dependencies. With transitive lookups (the
default) a project always comes after the projects it depends on, so the
output is a valid build order for acyclic workspaces. --no-transitive only
counts direct dependencies and gives no such guarantee.`,
		Example: `  workspace dependencies library-two
  workspace dependencies --no-transitive --dev --output csv 'library-*'`,
		RunE: cmd.Run,
	}
	cmd.addFlags(cobraCmd)

	return cobraCmd
}

// NewDependeesCommand creates a new dependees command
func NewDependeesCommand(app *App) *cobra.Command {
	cmd := &GraphCommand{app: app, kind: graph.Dependees}

	cobraCmd := &cobra.Command{
		Use:   "dependees [SPECIFIER...]",
		Short: "List the selected projects and everything depending on them",
		Long: `List the selected projects together with the projects depending on them,
ordered from most to fewest dependees.`,
		Example: `  git diff --name-only main | workspace reverse | workspace dependees`,
		RunE:    cmd.Run,
	}
	cmd.addFlags(cobraCmd)

	return cobraCmd
}

func (c *GraphCommand) addFlags(cobraCmd *cobra.Command) {
	cobraCmd.Flags().BoolVar(&c.transitive, "transitive", true, "Follow relations transitively")
	cobraCmd.Flags().BoolVar(&c.noTransitive, "no-transitive", false, "Only show direct relations")
	cobraCmd.Flags().BoolVarP(&c.dev, "dev", "d", false, "Include development dependencies")
	cobraCmd.Flags().BoolVar(&c.noDev, "no-dev", false, "Exclude development dependencies")
	cobraCmd.Flags().StringVarP(&c.output, "output", "o", string(models.OutputLines), "Output format (lines, csv)")
}

// Run executes the command
func (c *GraphCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := models.ParseOutputFormat(c.output, models.OutputLines, models.OutputCSV)
	if err != nil {
		return err
	}

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

	opts := graph.Options{Transitive: c.transitive && !c.noTransitive, IncludeDev: c.dev && !c.noDev}
	engine := graph.New(graph.FromWorkspace(ws, registry))

	var names []string
	if c.kind == graph.Dependees {
		names, err = engine.DependeesOf(targets, opts)
	} else {
		names, err = engine.DependenciesOf(targets, opts)
	}
	if err != nil {
		return err
	}
	c.app.Logger.Debug("computed relation", "kind", c.kind, "targets", len(targets), "results", len(names), "transitive", opts.Transitive)

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), format.Join(names))
	return nil
}
