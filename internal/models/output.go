package models

import (
	"fmt"
	"strings"
)

// OutputFormat selects how a command prints its results.
type OutputFormat string

const (
	// OutputLines prints one name per line
	OutputLines OutputFormat = "lines"

	// OutputCSV prints a single comma-separated line
	OutputCSV OutputFormat = "csv"

	// OutputDefault prints the human-readable block format
	OutputDefault OutputFormat = "default"

	// OutputNames prints project names only
	OutputNames OutputFormat = "names"

	// OutputJSON prints one JSON document (or one per project for list)
	OutputJSON OutputFormat = "json"

	// OutputTemplate renders a user-supplied Go template per project
	OutputTemplate OutputFormat = "template"
)

// String returns the string representation of OutputFormat
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat parses s and checks it against the formats a command allows.
func ParseOutputFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range allowed {
		if format == a {
			return format, nil
		}
	}

	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", fmt.Errorf("invalid output format: %s (must be one of %s)", s, strings.Join(names, ", "))
}

// Join renders names in the line or csv format.
func (f OutputFormat) Join(names []string) string {
	if f == OutputCSV {
		return strings.Join(names, ",")
	}
	return strings.Join(names, "\n")
}
