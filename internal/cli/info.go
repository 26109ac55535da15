package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/spf13/cobra"
)

// WorkspaceInfo is the JSON document printed by info.
type WorkspaceInfo struct {
	Path         string                      `json:"path"`
	Projects     map[string]WorkspaceProject `json:"projects"`
	Plugins      []string                    `json:"plugins"`
	TemplatePath []string                    `json:"template_path"`
}

// WorkspaceProject is a project entry of WorkspaceInfo.
type WorkspaceProject struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// InfoCommand handles the info command
type InfoCommand struct {
	app    *App
	output string
}

// NewInfoCommand creates a new info command
func NewInfoCommand(app *App) *cobra.Command {
	cmd := &InfoCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "info",
		Short: "Show the workspace and its projects",
		Args:  cobra.NoArgs,
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", string(models.OutputDefault), "Output format (default, json)")

	return cobraCmd
}

// Run executes the info command
func (c *InfoCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := models.ParseOutputFormat(c.output, models.OutputDefault, models.OutputJSON)
	if err != nil {
		return err
	}

	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == models.OutputJSON {
		data, err := json.Marshal(newWorkspaceInfo(ws))
		if err != nil {
			return fmt.Errorf("failed to marshal workspace info: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))
		return nil
	}

	rows := make([][]string, 0, len(ws.Projects))
	for _, project := range ws.SortedProjects() {
		rows = append(rows, []string{project.Name, project.Path, project.Type})
	}

	plugins := "    -"
	if len(ws.Plugins) > 0 {
		plugins = strings.TrimRight(indent(bulletList(ws.Plugins), "  "), "\n")
	}

	templatePath := make([]string, len(ws.TemplatePath))
	for i, dir := range ws.TemplatePath {
		templatePath[i] = tui.AccentStyle.Render(dir)
	}

	_, _ = fmt.Fprintf(out, "\n%s: %s\n%s:\n%s\n%s:\n%s\n%s: [%s]\n\n",
		tui.HeaderStyle.Render("Path"), tui.AccentStyle.Render(ws.RootPath),
		tui.HeaderStyle.Render("Projects"), indent(tui.Table([]string{"Name", "Path", "Type"}, rows), "    "),
		tui.HeaderStyle.Render("Plugins"), plugins,
		tui.HeaderStyle.Render("Template Path"), strings.Join(templatePath, ", "))
	return nil
}

func newWorkspaceInfo(ws *workspace.Workspace) WorkspaceInfo {
	info := WorkspaceInfo{
		Path:         ws.RootPath,
		Projects:     make(map[string]WorkspaceProject, len(ws.Projects)),
		Plugins:      ws.Plugins,
		TemplatePath: ws.TemplatePath,
	}
	for name, project := range ws.Projects {
		info.Projects[name] = WorkspaceProject{Path: project.Path, Type: project.Type}
	}
	return info
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
