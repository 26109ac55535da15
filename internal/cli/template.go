package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// TemplateCommand handles the template subcommands
type TemplateCommand struct {
	app *App
}

// NewTemplateCommand creates the template command group
func NewTemplateCommand(app *App) *cobra.Command {
	cmd := &TemplateCommand{app: app}

	templateCmd := &cobra.Command{
		Use:   "template",
		Short: "Manage project template directories",
		Long: `Manage the directories searched for project templates. A template is a
directory containing a cookiecutter.json file.`,
	}

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Add or remove template directories",
	}
	pathCmd.AddCommand(&cobra.Command{
		Use:   "add DIR",
		Short: "Search DIR for templates",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.AddPath,
	})
	pathCmd.AddCommand(&cobra.Command{
		Use:   "remove DIR",
		Short: "Stop searching DIR for templates",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.RemovePath,
	})

	templateCmd.AddCommand(pathCmd)
	templateCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available templates",
		Args:  cobra.NoArgs,
		RunE:  cmd.List,
	})

	return templateCmd
}

// AddPath adds a directory to template_path
func (c *TemplateCommand) AddPath(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	absPath := ws.Abs(args[0])
	if info, err := c.app.FS.Stat(absPath); err != nil || !info.IsDir() {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Directory %s does not exist.", tui.Bold(args[0]))))
	}

	dir, err := ws.Rel(absPath)
	if err != nil {
		return err
	}

	if slices.Contains(ws.TemplatePath, dir) {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Already configured to detect templates at %s.", tui.Bold(dir))))
	}

	ws.TemplatePath = append(ws.TemplatePath, dir)
	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Added %s to available template directories.", tui.AccentStyle.Render(dir))
	return nil
}

// RemovePath removes a directory from template_path
func (c *TemplateCommand) RemovePath(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	dir, err := ws.Rel(args[0])
	if err != nil {
		return err
	}

	index := slices.Index(ws.TemplatePath, dir)
	if index < 0 {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Not configured to detect templates at %s.", tui.Bold(dir))))
	}

	ws.TemplatePath = slices.Delete(ws.TemplatePath, index, index+1)
	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Stopped detecting templates at %s.", tui.AccentStyle.Render(dir))
	return nil
}

// List prints every template with its directory
func (c *TemplateCommand) List(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	templates, err := ws.Templates()
	if err != nil {
		return err
	}
	if len(templates) == 0 {
		return nil
	}

	width := 0
	for _, t := range templates {
		width = max(width, len(t.Name))
	}

	for _, t := range templates {
		name := t.Name + strings.Repeat(" ", width-len(t.Name))
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s   %s\n", tui.Bold(name), tui.AccentStyle.Render(t.Path))
	}
	return nil
}
