package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jakoblorz/go-workspace/internal/config"
	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/logging"
	"github.com/jakoblorz/go-workspace/internal/models"
	"github.com/jakoblorz/go-workspace/internal/runner"
	"github.com/jakoblorz/go-workspace/internal/workspace"
	"github.com/stretchr/testify/require"
)

const testWorkspaceRoot = "/test-workspace"

// fakePrompter answers prompts with canned values and records what was asked.
type fakePrompter struct {
	choice    string
	confirmed bool
	err       error
	options   []string
	titles    []string
}

func (p *fakePrompter) Select(title, description string, options []string) (string, error) {
	p.titles = append(p.titles, title)
	p.options = options
	return p.choice, p.err
}

func (p *fakePrompter) Confirm(title, description string) (bool, error) {
	p.titles = append(p.titles, title)
	return p.confirmed, p.err
}

func newTestApp(fs filesystem.FileSystem) *App {
	return &App{
		FS:              fs,
		Settings:        config.Default(),
		Stdin:           strings.NewReader(""),
		StdinIsTerminal: func() bool { return false },
		Logger:          logging.Discard(),
		Runner:          runner.Options{PollInterval: 5 * time.Millisecond},
	}
}

// standardWorkspace sets up
//
//	app (pipenv)          -> library-two, dev: tools
//	library-two (poetry)  -> library-one
//	library-one (poetry)
//	tools (poetry)
func standardWorkspace(wb *workspace.WorkspaceBuilder) {
	wb.AddProject("library-one", "libs/library-one", "poetry")
	wb.AddProject("library-two", "libs/library-two", "poetry")
	wb.AddProject("tools", "libs/tools", "poetry")
	wb.AddProject("app", "apps/app", "pipenv")
	wb.AddDependency("library-two", "library-one")
	wb.AddDependency("app", "library-two")
	wb.AddDevDependency("app", "tools")
}

func buildWorkspace(t *testing.T, setup func(*workspace.WorkspaceBuilder)) (*App, *filesystem.MockFileSystem) {
	t.Helper()

	wb := workspace.NewWorkspaceBuilder(testWorkspaceRoot)
	if setup != nil {
		setup(wb)
	}

	fs := wb.Build()
	return newTestApp(fs), fs
}

// buildDiskWorkspace writes the built workspace into a temporary directory so
// commands can run real processes in the project directories.
func buildDiskWorkspace(t *testing.T, setup func(*workspace.WorkspaceBuilder)) (*App, string) {
	t.Helper()

	root := t.TempDir()
	wb := workspace.NewWorkspaceBuilder(root)
	if setup != nil {
		setup(wb)
	}

	disk := filesystem.NewOSFileSystemAt(root)
	require.NoError(t, wb.Build().Materialize(disk, root))

	return newTestApp(disk), root
}

// fakeTool puts an executable shell script called name first on PATH.
func fakeTool(t *testing.T, name, script string) {
	t.Helper()

	bin := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bin, name), []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	t.Setenv("PATH", bin+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func execute(t *testing.T, app *App, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	rootCmd := NewRootCommand(app)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)

	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func requireExitCode(t *testing.T, err error, code int) {
	t.Helper()

	var exitErr *models.ExitError
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, code, exitErr.Code)
}

func loadWorkspace(t *testing.T, fs filesystem.FileSystem) *workspace.Workspace {
	t.Helper()

	ws := workspace.New(fs)
	require.NoError(t, ws.Detect())
	return ws
}
