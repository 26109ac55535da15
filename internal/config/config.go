package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

const (
	// DefaultFilename is the name of the workspace file looked up from the working directory.
	DefaultFilename = "workspace.json"

	// DefaultEnvPrefix prefixes every environment override.
	DefaultEnvPrefix = "WORKSPACE_"
)

// Settings holds process-level configuration. It is built once in the CLI
// entry point and handed to the components that need it.
type Settings struct {
	// Filename is the workspace file name (WORKSPACE_FILENAME)
	Filename string

	// EnvPrefix is the prefix used for environment overrides
	EnvPrefix string

	// LogLevel is the minimum level for diagnostic logs (WORKSPACE_LOG_LEVEL)
	LogLevel slog.Level
}

// Default returns the settings used when nothing is overridden.
func Default() Settings {
	return Settings{
		Filename:  DefaultFilename,
		EnvPrefix: DefaultEnvPrefix,
		LogLevel:  slog.LevelWarn,
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv builds Settings from environment variables using lookup.
func FromEnv(lookup LookupFunc) (Settings, error) {
	settings := Default()
	if lookup == nil {
		lookup = os.LookupEnv
	}

	if v, ok := lookup(settings.EnvPrefix + "FILENAME"); ok {
		v = strings.TrimSpace(v)
		if v == "" {
			return Settings{}, fmt.Errorf("%sFILENAME must not be empty", settings.EnvPrefix)
		}
		settings.Filename = v
	}

	if v, ok := lookup(settings.EnvPrefix + "LOG_LEVEL"); ok {
		level, err := ParseLevel(v)
		if err != nil {
			return Settings{}, err
		}
		settings.LogLevel = level
	}

	return settings, nil
}

// ParseLevel parses debug, info, warn or error (case-insensitive).
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("invalid log level %q (must be debug, info, warn or error)", s)
	}
	return level, nil
}
