package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/jakoblorz/go-workspace/internal/graph"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/resolve"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// ProjectInfo is the per-project record printed by list.
type ProjectInfo struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Path      string   `json:"path"`
	DependsOn []string `json:"depends_on"`
}

// ListCommand handles the list command
type ListCommand struct {
	app      *App
	output   string
	template string
}

// NewListCommand creates a new list command
func NewListCommand(app *App) *cobra.Command {
	cmd := &ListCommand{app: app}

	cobraCmd := &cobra.Command{
		Use:   "list [SPECIFIER...]",
		Short: "List projects tracked in the workspace",
		Long: `List projects with their type, path and direct dependencies.

Specifiers are project names or glob patterns. Without specifiers every
project is listed. Specifiers are read from stdin when it is piped.

Output formats:
  default   - human readable blocks
  names     - project names only
  json      - one JSON object per line
  template  - render --template for each project (Go text/template with sprig functions)`,
		Example: `  workspace list 'library-*'
  workspace list --output json
  workspace list --output template --template '{{ .Name | upper }} {{ join "," .DependsOn }}'`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", string(models.OutputDefault), "Output format (default, names, json, template)")
	cobraCmd.Flags().StringVar(&cmd.template, "template", "", "Template used with --output template")

	return cobraCmd
}

// Run executes the list command
func (c *ListCommand) Run(cmd *cobra.Command, args []string) error {
	format, err := models.ParseOutputFormat(c.output, models.OutputDefault, models.OutputNames, models.OutputJSON, models.OutputTemplate)
	if err != nil {
		return err
	}

	var tmpl *template.Template
	if format == models.OutputTemplate {
		if c.template == "" {
			return fmt.Errorf("--template is required with --output template")
		}
		tmpl, err = template.New("list").Funcs(sprig.TxtFuncMap()).Parse(c.template)
		if err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}
	}

	ws, registry, err := c.app.loadWorkspaceWithRegistry()
	if err != nil {
		return err
	}

	specifiers, err := c.app.specifiers(args)
	if err != nil {
		return err
	}

	targets := make(map[string]bool)
	if len(specifiers) > 0 {
		targets, err = resolve.Resolve(ws, registry, specifiers)
		if err != nil {
			return err
		}
	} else {
		for _, name := range ws.ProjectNames() {
			targets[name] = true
		}
	}
	c.app.Logger.Debug("resolved specifiers", "specifiers", specifiers, "targets", len(targets))

	source := graph.FromWorkspace(ws, registry)
	out := cmd.OutOrStdout()

	for _, name := range resolve.Sorted(targets) {
		project := ws.Projects[name]

		if format == models.OutputNames {
			_, _ = fmt.Fprintln(out, project.Name)
			continue
		}

		deps, err := source.DirectDependencies(name, false)
		if err != nil {
			return err
		}
		if deps == nil {
			deps = []string{}
		}

		info := ProjectInfo{
			Name:      project.Name,
			Type:      project.Type,
			Path:      project.ResolvedPath(),
			DependsOn: deps,
		}

		if err := c.print(out, format, tmpl, info); err != nil {
			return err
		}
	}

	return nil
}

func (c *ListCommand) print(out io.Writer, format models.OutputFormat, tmpl *template.Template, info ProjectInfo) error {
	switch format {
	case models.OutputJSON:
		data, err := json.Marshal(info)
		if err != nil {
			return fmt.Errorf("failed to marshal project: %w", err)
		}
		_, _ = fmt.Fprintln(out, string(data))

	case models.OutputTemplate:
		var b strings.Builder
		if err := tmpl.Execute(&b, info); err != nil {
			return fmt.Errorf("failed to render template for %s: %w", info.Name, err)
		}
		_, _ = fmt.Fprintln(out, b.String())

	default:
		_, _ = fmt.Fprintf(out, "\n%s: %s\n%s: %s\n%s: %s\n%s: [%s]\n",
			tui.HeaderStyle.Render("Name"), tui.Bold(info.Name),
			tui.HeaderStyle.Render("Type"), info.Type,
			tui.HeaderStyle.Render("Path"), tui.AccentStyle.Render(info.Path),
			tui.HeaderStyle.Render("Dependencies"), strings.Join(info.DependsOn, ", "))
	}
	return nil
}
