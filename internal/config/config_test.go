package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	settings, err := FromEnv(lookupFrom(nil))
	require.NoError(t, err)
	require.Equal(t, Default(), settings)
	require.Equal(t, "workspace.json", settings.Filename)
}

func TestFromEnv_Overrides(t *testing.T) {
	settings, err := FromEnv(lookupFrom(map[string]string{
		"WORKSPACE_FILENAME":  "workspace-test.json",
		"WORKSPACE_LOG_LEVEL": "DEBUG",
	}))
	require.NoError(t, err)
	require.Equal(t, "workspace-test.json", settings.Filename)
	require.Equal(t, slog.LevelDebug, settings.LogLevel)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{"WORKSPACE_FILENAME": "  "}))
	require.Error(t, err)

	_, err = FromEnv(lookupFrom(map[string]string{"WORKSPACE_LOG_LEVEL": "loud"}))
	require.ErrorContains(t, err, "invalid log level")
}
