package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakePoetry writes a minimal pyproject.toml for "poetry init ... --name NAME"
// and echoes every other invocation.
const fakePoetry = `if [ "$1" = init ]; then printf '[tool.poetry]\nname = "%s"\n' "$4" > pyproject.toml; exit 0; fi
echo "poetry $*"`

func TestNew_InitialisesAndTracksProject(t *testing.T) {
	fakeTool(t, "poetry", fakePoetry)
	app, root := buildDiskWorkspace(t, standardWorkspace)

	_, stderr, err := execute(t, app, "new", "--type", "poetry", "libs/library-three")
	require.NoError(t, err)
	require.Contains(t, stderr, "Created new project library-three at libs/library-three.")

	data, err := os.ReadFile(filepath.Join(root, "libs/library-three/pyproject.toml"))
	require.NoError(t, err)
	require.Contains(t, string(data), `name = "library-three"`)

	project, err := loadWorkspace(t, app.FS).GetProject("library-three")
	require.NoError(t, err)
	require.Equal(t, "libs/library-three", project.Path)
	require.Equal(t, "poetry", project.Type)
}

func TestNew_FailingInitRemovesDirectory(t *testing.T) {
	fakeTool(t, "poetry", "echo broken >&2; exit 4")
	app, root := buildDiskWorkspace(t, standardWorkspace)

	_, stderr, err := execute(t, app, "new", "--type", "poetry", "libs/library-three")
	require.ErrorContains(t, err, "exited with code 4")
	require.Contains(t, stderr, "broken")

	_, statErr := os.Stat(filepath.Join(root, "libs/library-three"))
	require.True(t, os.IsNotExist(statErr))

	_, err = loadWorkspace(t, app.FS).GetProject("library-three")
	require.Error(t, err)
}

func TestNew_InvalidResultRemovesDirectory(t *testing.T) {
	fakeTool(t, "poetry", "exit 0")
	app, root := buildDiskWorkspace(t, nil)

	_, _, err := execute(t, app, "new", "--type", "poetry", "fresh")
	require.ErrorContains(t, err, "no pyproject.toml found")

	_, statErr := os.Stat(filepath.Join(root, "fresh"))
	require.True(t, os.IsNotExist(statErr))
}

func TestNew_PathAlreadyExists(t *testing.T) {
	app, fs := buildWorkspace(t, nil)
	fs.AddDir(testWorkspaceRoot + "/existing")

	_, stderr, err := execute(t, app, "new", "--type", "poetry", "existing")
	requireExitCode(t, err, 1)
	require.Contains(t, stderr, "Path existing already exists.")
	require.Contains(t, stderr, "workspace add existing")
}

func TestNew_PathAlreadyTracked(t *testing.T) {
	app, _ := buildWorkspace(t, standardWorkspace)

	_, stderr, err := execute(t, app, "new", "--type", "poetry", "libs/library-one")
	requireExitCode(t, err, 1)
	require.Contains(t, stderr, "Path libs/library-one already tracked as project library-one.")
}

func TestNew_NameAlreadyExists(t *testing.T) {
	app, fs := buildWorkspace(t, standardWorkspace)

	_, stderr, err := execute(t, app, "new", "--type", "poetry", "elsewhere/tools")
	requireExitCode(t, err, 1)
	require.Contains(t, stderr, "Project tools already exists.")
	require.False(t, fs.Exists(testWorkspaceRoot+"/elsewhere/tools"))
}

func TestNew_UnknownType(t *testing.T) {
	app, fs := buildWorkspace(t, nil)

	_, _, err := execute(t, app, "new", "--type", "cargo", "crate")
	require.ErrorContains(t, err, `unknown project type "cargo"`)
	require.False(t, fs.Exists(testWorkspaceRoot+"/crate"))
}

func TestNew_RequiresType(t *testing.T) {
	app, _ := buildWorkspace(t, nil)

	_, _, err := execute(t, app, "new", "fresh")
	require.ErrorContains(t, err, `required flag(s) "type" not set`)
}
