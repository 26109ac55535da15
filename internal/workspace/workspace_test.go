package workspace

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceDetect_LoadsProjects(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").
		AddProject("library-one", "libs/one", "poetry").
		AddProject("app", "apps/app", "pipenv").
		AddPlugin("go").
		Build()

	ws := New(fs)
	require.NoError(t, ws.Detect())

	require.Equal(t, "/ws", ws.RootPath)
	require.Equal(t, "/ws/workspace.json", ws.FilePath)
	require.Equal(t, []string{"app", "library-one"}, ws.ProjectNames())
	require.Equal(t, []string{"go"}, ws.Plugins)
	require.Nil(t, ws.TemplatePath)

	project, err := ws.GetProject("library-one")
	require.NoError(t, err)
	require.Equal(t, "poetry", project.Type)
	require.Equal(t, "/ws/libs/one", project.ResolvedPath())
}

func TestWorkspaceDetect_WalksUpFromSubdirectory(t *testing.T) {
	wb := NewWorkspaceBuilder("/ws").AddProject("app", "apps/app", "poetry")
	fs := wb.Build()
	fs.SetCurrentDir("/ws/apps/app")

	ws := New(fs)
	require.NoError(t, ws.Detect())
	require.Equal(t, "/ws", ws.RootPath)
}

func TestWorkspaceDetect_PrefersNearestFile(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").AddProject("outer", "outer", "poetry").Build()
	fs.AddFile("/ws/nested/workspace.json", []byte(`{"projects": {"inner": {"path": "inner", "type": "pipenv"}}}`))
	fs.AddDir("/ws/nested/inner/src")
	fs.SetCurrentDir("/ws/nested/inner/src")

	ws := New(fs)
	require.NoError(t, ws.Detect())
	require.Equal(t, "/ws/nested", ws.RootPath)
	require.Equal(t, []string{"inner"}, ws.ProjectNames())
}

func TestWorkspaceDetect_NotFound(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/empty/dir")
	fs.SetCurrentDir("/empty/dir")

	err := New(fs).Detect()
	require.Error(t, err)
	require.True(t, errors.Is(err, models.ErrWorkspaceNotFound))

	var wsErr *models.WorkspaceError
	require.ErrorAs(t, err, &wsErr)
	require.Contains(t, wsErr.Error(), `No workspace file "workspace.json" found in "/empty/dir"`)
}

func TestWorkspaceDetect_CustomFilename(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").
		WithFilename("mono.json").
		AddProject("app", "app", "poetry").
		Build()

	require.Error(t, New(fs).Detect())

	ws := New(fs, WithFilename("mono.json"))
	require.NoError(t, ws.Detect())
	require.Equal(t, "/ws/mono.json", ws.FilePath)
}

func TestWorkspaceDetectFrom_FilePath(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").AddProject("app", "app", "poetry").Build()

	ws := New(fs)
	require.NoError(t, ws.DetectFrom("/ws/workspace.json"))
	require.Equal(t, []string{"app"}, ws.ProjectNames())
}

func TestWorkspaceLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{name: "not json", content: "...", want: []string{"not valid JSON"}},
		{name: "missing projects", content: "{}", want: []string{"at '/'", "projects"}},
		{name: "extra key", content: `{"projects": {}, "extra": 1}`, want: []string{"at '/'", "extra"}},
		{name: "missing type", content: `{"projects": {"a": {"path": "a"}}}`, want: []string{"at '/projects/a'", "type"}},
		{name: "unknown project key", content: `{"projects": {"a": {"path": "a", "type": "poetry", "tags": []}}}`, want: []string{"at '/projects/a'", "tags"}},
		{name: "non-string path", content: `{"projects": {"a": {"path": 1, "type": "poetry"}}}`, want: []string{"at '/projects/a/path'", "string"}},
		{name: "empty type", content: `{"projects": {"a": {"path": "a", "type": ""}}}`, want: []string{"at '/projects/a/type'"}},
		{name: "bad plugins", content: `{"projects": {}, "plugins": "go"}`, want: []string{"at '/plugins'", "array"}},
		{name: "bad template path entry", content: `{"projects": {}, "template_path": ["t", 2]}`, want: []string{"at '/template_path/1'", "string"}},
		{name: "top level array", content: `[]`, want: []string{"at '/'", "object"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMockFileSystem()
			fs.AddFile("/ws/workspace.json", []byte(tt.content))
			fs.SetCurrentDir("/ws")

			err := New(fs).Detect()
			require.Error(t, err)

			var wsErr *models.WorkspaceError
			require.ErrorAs(t, err, &wsErr)
			require.Equal(t, "/ws/workspace.json", wsErr.Path)
			require.Contains(t, wsErr.Error(), "Invalid workspace file")
			for _, want := range tt.want {
				require.Contains(t, wsErr.Error(), want)
			}
		})
	}
}

func TestWorkspaceLoad_ToleratesComments(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/ws/workspace.json", []byte(`{
  // tracked projects
  "projects": {
    "app": {"path": "app", "type": "poetry"},
  },
  "template_path": [],
}`))
	fs.SetCurrentDir("/ws")

	ws := New(fs)
	require.NoError(t, ws.Detect())
	require.Equal(t, []string{"app"}, ws.ProjectNames())
	require.NotNil(t, ws.TemplatePath)
	require.Empty(t, ws.TemplatePath)
}

func TestWorkspaceFlush_SortedAndIndented(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/ws")

	ws := New(fs)
	ws.Create("/ws")
	ws.SetProject("zeta", "z", "pipenv")
	ws.SetProject("alpha", "a", "poetry")
	ws.Plugins = []string{"npm"}
	require.NoError(t, ws.Flush())

	data, err := fs.ReadFile("/ws/workspace.json")
	require.NoError(t, err)
	require.Equal(t, `{
  "plugins": [
    "npm"
  ],
  "projects": {
    "alpha": {
      "path": "a",
      "type": "poetry"
    },
    "zeta": {
      "path": "z",
      "type": "pipenv"
    }
  }
}
`, string(data))

	reloaded := New(fs)
	require.NoError(t, reloaded.DetectFrom("/ws"))
	require.Equal(t, []string{"alpha", "zeta"}, reloaded.ProjectNames())
	require.Equal(t, []string{"npm"}, reloaded.Plugins)
}

func TestWorkspace_RemoveProject(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").AddProject("app", "app", "poetry").Build()
	ws := New(fs)
	require.NoError(t, ws.Detect())

	require.True(t, ws.RemoveProject("app"))
	require.False(t, ws.RemoveProject("app"))
	_, err := ws.GetProject("app")
	require.Error(t, err)
}

func TestWorkspace_ProjectByPath(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").
		AddProject("one", "libs/one", "poetry").
		AddProject("two", "libs/two", "poetry").
		Build()
	fs.SetCurrentDir("/ws/libs")

	ws := New(fs)
	require.NoError(t, ws.Detect())

	require.Equal(t, "one", ws.ProjectByPath("/ws/libs/one/").Name)
	require.Equal(t, "two", ws.ProjectByPath("two").Name)
	require.Equal(t, "one", ws.ProjectByPath("../libs/two/../one").Name)
	require.Nil(t, ws.ProjectByPath("/ws/libs"))

	rel, err := ws.Rel("one")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("libs", "one"), rel)
}

func TestWorkspaceDiscover(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").
		AddProject("tracked", "libs/tracked", "poetry").
		AddFile(".gitignore", "build/\n").
		AddFile("libs/new/pyproject.toml", "").
		AddFile("libs/new/nested/pyproject.toml", "").
		AddFile("apps/tracked/Pipfile", "").
		AddFile("build/gen/pyproject.toml", "").
		AddFile(".venv/lib/pyproject.toml", "").
		AddFile("node_modules/x/package.json", "").
		AddFile("docs/readme.md", "").
		Build()

	ws := New(fs)
	require.NoError(t, ws.Detect())

	detect := func(dir string) (string, bool) {
		switch {
		case fs.Exists(filepath.Join(dir, "pyproject.toml")):
			return "poetry", true
		case fs.Exists(filepath.Join(dir, "Pipfile")):
			return "pipenv", true
		case fs.Exists(filepath.Join(dir, "package.json")):
			return "npm", true
		}
		return "", false
	}

	candidates, err := ws.Discover(detect)
	require.NoError(t, err)
	require.Equal(t, []Candidate{
		{Name: "apps-tracked", Path: "apps/tracked", Type: "pipenv"},
		{Name: "new", Path: "libs/new", Type: "poetry"},
	}, candidates)
}

func TestDedupeCandidateNames(t *testing.T) {
	candidates := []Candidate{
		{Name: "core", Path: "a/core"},
		{Name: "core", Path: "b/core"},
		{Name: "core", Path: "a/x/core"},
		{Name: "web", Path: "web"},
	}

	got := dedupeCandidateNames(candidates, map[string]bool{"web": true})
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	require.Equal(t, []string{"core", "b-core", "x-core", "web-2"}, names)
}

func TestWorkspace_Templates(t *testing.T) {
	fs := NewWorkspaceBuilder("/ws").
		AddTemplatePath("templates").
		AddTemplatePath("shared").
		AddFile("templates/service/cookiecutter.json", "{}").
		AddFile("templates/library/cookiecutter.json", "{}").
		AddFile("templates/docs/README.md", "").
		AddFile("shared/service/cookiecutter.json", "{}").
		AddFile("shared/worker/cookiecutter.json", "{}").
		Build()

	ws := New(fs)
	require.NoError(t, ws.Detect())

	templates, err := ws.Templates()
	require.NoError(t, err)
	require.Equal(t, []Template{
		{Name: "library", Path: "templates/library"},
		{Name: "service", Path: "templates/service"},
		{Name: "worker", Path: "shared/worker"},
	}, templates)
}

func TestWorkspace_TemplatesEmpty(t *testing.T) {
	ws := New(NewWorkspaceBuilder("/ws").Build())
	require.NoError(t, ws.Detect())

	templates, err := ws.Templates()
	require.NoError(t, err)
	require.Empty(t, templates)
}
