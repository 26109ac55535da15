package cli

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
)

// ReverseCommand handles the reverse command
type ReverseCommand struct {
	app    *App
	output string
}

// NewReverseCommand creates a new reverse command
func NewReverseCommand(app *App) *cobra.Command {
	cmd := &ReverseCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "reverse [PATH...]",
		Short: "Map file paths to the projects containing them",
		Long: `Print the deduplicated set of projects owning the given paths. A path
inside nested projects belongs to the innermost one. Paths outside every
project are ignored. Paths are read from stdin when it is piped.`,
		Example: `  git diff --name-only main | workspace reverse --output csv`,
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", string(models.OutputLines), "Output format (lines, csv)")

	return cobraCmd
}

// Run executes the reverse command
func (c *ReverseCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := models.ParseOutputFormat(c.output, models.OutputLines, models.OutputCSV)
	if err != nil {
		return err
	}

	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	paths, err := c.app.specifiers(args)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var names []string
	for _, path := range paths {
		name, ok := owningProject(ws, path)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) > 0 || format == models.OutputCSV {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), format.Join(names))
	}
	return nil
}

// owningProject returns the project with the fewest path components between
// its directory and path. Ties go to the lowest name.
func owningProject(ws *workspace.Workspace, path string) (string, bool) {
	path = ws.Abs(path)

	best, bestDepth := "", -1
	for _, project := range ws.SortedProjects() {
		rel, err := filepath.Rel(project.ResolvedPath(), path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}

		depth := 0
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
		}
		if bestDepth < 0 || depth < bestDepth {
			best, bestDepth = project.Name, depth
		}
	}
	return best, bestDepth >= 0
}
