package cli

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/stretchr/testify/require"
)

func TestInfo_JSON(t *testing.T) {
	app, _ := buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		wb.AddProject("library-one", "libs/library-one", "poetry")
		wb.AddProject("backend", "services/backend", "go")
		wb.AddPlugin("go")
		wb.AddTemplatePath("templates")
	})

	stdout, _, err := execute(t, app, "info", "--output", "json")
	require.NoError(t, err)
	require.Equal(t,
		`{"path":"/test-workspace","projects":{"backend":{"path":"services/backend","type":"go"},`+
			`"library-one":{"path":"libs/library-one","type":"poetry"}},"plugins":["go"],"template_path":["templates"]}`+"\n",
		stdout)
}

func TestInfo_JSONWithoutOptionalKeys(t *testing.T) {
	app, _ := buildWorkspace(t, nil)

	stdout, _, err := execute(t, app, "info", "-o", "json")
	require.NoError(t, err)
	require.Equal(t, `{"path":"/test-workspace","projects":{},"plugins":null,"template_path":null}`+"\n", stdout)
}

func TestInfo_Default(t *testing.T) {
	app, _ := buildWorkspace(t, func(wb *workspace.WorkspaceBuilder) {
		standardWorkspace(wb)
		wb.AddPlugin("npm")
		wb.AddTemplatePath("templates")
		wb.AddTemplatePath("shared/templates")
	})

	stdout, _, err := execute(t, app, "info")
	require.NoError(t, err)
	require.Contains(t, stdout, "\nPath: /test-workspace\nProjects:\n")
	require.Contains(t, stdout, "library-two")
	require.Contains(t, stdout, "libs/library-two")
	require.Contains(t, stdout, "Plugins:\n    - npm\n")
	require.Contains(t, stdout, "Template Path: [templates, shared/templates]\n")

	snaps.MatchSnapshot(t, stdout)
}
