package cli

import (
	"fmt"
	"slices"

	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/tui"
	"github.com/spf13/cobra"
)

// PluginCommand handles the plugin subcommands
type PluginCommand struct {
	app *App
}

// NewPluginCommand creates the plugin command group
func NewPluginCommand(app *App) *cobra.Command {
	cmd := &PluginCommand{app: app}

	pluginCmd := &cobra.Command{
		Use:   "plugin",
		Short: "Manage the project types enabled in the workspace",
		Long: fmt.Sprintf(`Enable or disable adapter plugins for the workspace.

Available plugins: %s`, adapter.Plugins()),
	}

	pluginCmd.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Enable a plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Add,
	})
	pluginCmd.AddCommand(&cobra.Command{
		Use:   "remove NAME",
		Short: "Disable a plugin",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Remove,
	})
	pluginCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List enabled plugins",
		Args:  cobra.NoArgs,
		RunE:  cmd.List,
	})

	return pluginCmd
}

// Add enables a plugin
func (c *PluginCommand) Add(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	name := args[0]
	if _, err := adapter.NewRegistry(name); err != nil {
		return err
	}
	if slices.Contains(ws.Plugins, name) {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Plugin %s already installed.", tui.Bold(name))))
	}

	ws.Plugins = append(ws.Plugins, name)
	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Added plugin %s.", tui.SuccessStyle.Render(name))
	status(cmd, "\n%s\n%s", tui.HeaderStyle.Render("The following new project types are now available:"), bulletList([]string{name}))
	return nil
}

// Remove disables a plugin
func (c *PluginCommand) Remove(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	name := args[0]
	index := slices.Index(ws.Plugins, name)
	if index < 0 {
		return fail(cmd, tui.ErrorStyle.Render(fmt.Sprintf("Plugin %s not installed.", tui.Bold(name))))
	}

	for _, project := range ws.SortedProjects() {
		if project.Type == name {
			return models.NewProjectError(project.Name, "uses plugin %s; remove the project first", name)
		}
	}

	ws.Plugins = slices.Delete(ws.Plugins, index, index+1)
	if err := ws.Flush(); err != nil {
		return err
	}

	status(cmd, "Removed plugin %s.", tui.SuccessStyle.Render(name))
	return nil
}

// List prints the enabled plugins
func (c *PluginCommand) List(cmd *cobra.Command, args []string) error {
	ws, err := c.app.loadWorkspace()
	if err != nil {
		return err
	}

	for _, name := range ws.Plugins {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
