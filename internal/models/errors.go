package models

import (
	"errors"
	"fmt"
)

// ErrWorkspaceNotFound is returned when no workspace file exists in the
// working directory or any of its parents.
var ErrWorkspaceNotFound = errors.New("workspace not found")

// WorkspaceError relates to the workspace file itself (missing, invalid JSON,
// schema violations, duplicate entries).
type WorkspaceError struct {
	Path string
	Msg  string
	Err  error
}

func (e *WorkspaceError) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s (%s)", e.Msg, e.Path)
}

func (e *WorkspaceError) Unwrap() error {
	return e.Err
}

// ProjectError relates to a particular project, e.g. a missing or malformed manifest.
type ProjectError struct {
	Project string
	Reason  string
}

func (e *ProjectError) Error() string {
	return fmt.Sprintf("project %s: %s", e.Project, e.Reason)
}

// NewProjectError builds a ProjectError with a formatted reason.
func NewProjectError(project, format string, args ...any) *ProjectError {
	return &ProjectError{Project: project, Reason: fmt.Sprintf(format, args...)}
}

// PluginError relates to an adapter plugin named in the workspace file.
type PluginError struct {
	Plugin string
	Msg    string
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s: %s", e.Plugin, e.Msg)
}

// ExitError carries a non-zero exit code to propagate verbatim, e.g. the
// aggregate code of a run.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
