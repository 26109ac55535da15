package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"project error", NewProjectError("library-one", "no pyproject.toml found"), 1},
		{"workspace error", &WorkspaceError{Msg: "invalid workspace file"}, 1},
		{"plain error", errors.New("boom"), 1},
		{"exit error", &ExitError{Code: 2}, 2},
		{"wrapped exit error", fmt.Errorf("run failed: %w", &ExitError{Code: -9}), -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestProjectError_NamesProject(t *testing.T) {
	err := NewProjectError("library-two", "no %s found", "Pipfile")
	require.Equal(t, "project library-two: no Pipfile found", err.Error())
}

func TestParseOutputFormat(t *testing.T) {
	format, err := ParseOutputFormat("CSV", OutputLines, OutputCSV)
	require.NoError(t, err)
	require.Equal(t, OutputCSV, format)
	require.Equal(t, "a,b", format.Join([]string{"a", "b"}))
	require.Equal(t, "a\nb", OutputLines.Join([]string{"a", "b"}))

	_, err = ParseOutputFormat("json", OutputLines, OutputCSV)
	require.ErrorContains(t, err, "must be one of lines, csv")
}
