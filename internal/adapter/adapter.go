package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/jakoblorz/go-workspace/internal/filesystem"
	"github.com/jakoblorz/go-workspace/internal/models"
)

// Adapter bridges a package manager convention to the operations the
// workspace needs: dependency discovery, validation and command execution.
type Adapter interface {
	// Type returns the type tag stored in the workspace file
	Type() string

	// Dependencies returns the names of tracked projects this project depends
	// on through local path references. References that do not resolve to a
	// tracked project are dropped.
	Dependencies(includeDev bool) ([]string, error)

	// Validate fails with a *models.ProjectError when the manifest is missing
	// or malformed.
	Validate() error

	// SyncCommand returns the command that installs the project environment.
	SyncCommand(includeDev bool) string

	// InitCommand returns the command that creates a fresh project in its directory.
	InitCommand() string

	// Run executes command in the project directory, streaming output to
	// stdout and stderr, and returns the exit code.
	Run(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)

	// Exec is Run without the package manager prefix, for commands such as
	// InitCommand that must work before the project environment exists.
	Exec(ctx context.Context, command string, stdout, stderr io.Writer) (int, error)

	// Start launches command in the project directory with captured output.
	Start(ctx context.Context, command string) (*Process, error)
}

// Locator resolves manifest path references back to tracked projects and
// provides the filesystem manifests are read from. *workspace.Workspace
// implements it.
type Locator interface {
	ProjectByPath(path string) *models.Project
	FileSystem() filesystem.FileSystem
}

// Factory creates an adapter for a project.
type Factory func(project *models.Project, locator Locator) Adapter

// shell runs commands through sh -c inside the project directory.
type shell struct {
	project *models.Project
	prefix  []string
	env     func(environ []string) []string
}

func (s shell) commandLine(command string) string {
	if len(s.prefix) == 0 {
		return command
	}
	return strings.Join(s.prefix, " ") + " " + command
}

// command builds the child process. Children are not tied to ctx: once
// started they always run to completion.
func (s shell) command(ctx context.Context, line string) (*exec.Cmd, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.Command("sh", "-c", line)
	cmd.Dir = s.project.ResolvedPath()

	environ := os.Environ()
	if s.env != nil {
		environ = s.env(environ)
	}
	cmd.Env = environ

	return cmd, nil
}

// Run executes command with output streamed to stdout and stderr.
func (s shell) Run(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	return s.run(ctx, s.commandLine(command), stdout, stderr)
}

// Exec runs command as is, without the prefix.
func (s shell) Exec(ctx context.Context, command string, stdout, stderr io.Writer) (int, error) {
	return s.run(ctx, command, stdout, stderr)
}

func (s shell) run(ctx context.Context, line string, stdout, stderr io.Writer) (int, error) {
	cmd, err := s.command(ctx, line)
	if err != nil {
		return 0, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return 0, fmt.Errorf("failed to run command in %s: %w", s.project.Name, err)
	}
	return exitCode(cmd.ProcessState), nil
}

// Start launches command with captured output.
func (s shell) Start(ctx context.Context, command string) (*Process, error) {
	cmd, err := s.command(ctx, s.commandLine(command))
	if err != nil {
		return nil, err
	}

	process, err := startProcess(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start command in %s: %w", s.project.Name, err)
	}
	return process, nil
}

// exitCode maps a finished process to its exit code. Processes killed by a
// signal report the negated signal number.
func exitCode(state *os.ProcessState) int {
	if state == nil {
		return -1
	}
	if status, ok := state.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return -int(status.Signal())
	}
	return state.ExitCode()
}

// pathDependencies resolves manifest path references, relative to the
// project directory, to tracked project names.
func pathDependencies(project *models.Project, locator Locator, refs []string) []string {
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		path := ref
		if !filepath.IsAbs(path) {
			path = filepath.Join(project.ResolvedPath(), filepath.FromSlash(ref))
		}
		if dep := locator.ProjectByPath(path); dep != nil {
			seen[dep.Name] = true
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// manifestFile reads the project's manifest, failing with a ProjectError when
// it is not a regular file.
func manifestFile(project *models.Project, locator Locator, name string) ([]byte, error) {
	fs := locator.FileSystem()
	path := filepath.Join(project.ResolvedPath(), name)

	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		return nil, models.NewProjectError(project.Name, "no %s found in project %q", name, project.Name)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, models.NewProjectError(project.Name, "failed to read %s: %v", name, err)
	}
	return data, nil
}

func lookupEnv(environ []string, key string) (string, bool) {
	prefix := key + "="
	for _, kv := range environ {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

func setEnv(environ []string, key, value string) []string {
	prefix := key + "="
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if !strings.HasPrefix(kv, prefix) {
			out = append(out, kv)
		}
	}
	return append(out, prefix+value)
}
