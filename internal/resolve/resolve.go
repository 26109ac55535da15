// Package resolve turns user-supplied specifiers into a validated set of
// project names.
//
// A specifier is either an exact project name or a shell-style glob pattern
// ("*", "?", "[...]", "[!...]"). Patterns follow fnmatch semantics, so "*"
// also matches "/".
package resolve

import (
	"sort"
	"strings"

	"github.com/danwakefield/fnmatch"
	"github.com/jakoblorz/go-workspace/internal/adapter"
	"github.com/jakoblorz/go-workspace/internal/models"
)

// Workspace is the subset of *workspace.Workspace the resolver needs.
type Workspace interface {
	adapter.Locator
	ProjectNames() []string
	GetProject(name string) (*models.Project, error)
}

// Resolve returns the set of project names matched by specifiers and
// validates each of them. The first project that fails validation (in
// ascending name order) aborts the call with a *models.ProjectError.
//
// An empty specifier list resolves to an empty set; callers decide whether
// that means "everything" (see All).
func Resolve(ws Workspace, registry *adapter.Registry, specifiers []string) (map[string]bool, error) {
	names := ws.ProjectNames()
	result := make(map[string]bool)

	for _, specifier := range specifiers {
		specifier = strings.TrimSpace(specifier)
		for _, name := range names {
			if result[name] {
				continue
			}
			if specifier == name || match(specifier, name) {
				result[name] = true
			}
		}
	}

	if err := validate(ws, registry, result); err != nil {
		return nil, err
	}
	return result, nil
}

// All returns every project in the workspace, validated.
func All(ws Workspace, registry *adapter.Registry) (map[string]bool, error) {
	result := make(map[string]bool)
	for _, name := range ws.ProjectNames() {
		result[name] = true
	}

	if err := validate(ws, registry, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Sorted returns the names of set in ascending order.
func Sorted(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validate(ws Workspace, registry *adapter.Registry, set map[string]bool) error {
	for _, name := range Sorted(set) {
		project, err := ws.GetProject(name)
		if err != nil {
			return err
		}

		a, err := registry.For(project, ws)
		if err != nil {
			return err
		}
		if err := a.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// match reports whether name matches the glob pattern. A malformed pattern
// matches nothing.
func match(pattern, name string) bool {
	if malformed(pattern) {
		return false
	}
	return fnmatch.Match(translate(pattern), name, 0)
}

// translate rewrites a glob so the matcher reads it the way Python's fnmatch
// does: a backslash is literal, an unterminated "[" is literal, and only "!"
// negates a bracket expression. A leading "^" or "]" in a set is a member.
func translate(pattern string) string {
	runes := []rune(pattern)

	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			b.WriteString(`\\`)
		case '[':
			end := bracketEnd(runes, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}

			b.WriteRune('[')
			body := runes[i+1 : end]
			if body[0] == '!' {
				b.WriteRune('!')
				body = body[1:]
			}
			for k, r := range body {
				switch {
				case r == '\\':
					b.WriteString(`\\`)
				case k == 0 && (r == '^' || r == ']'):
					b.WriteRune('\\')
					b.WriteRune(r)
				default:
					b.WriteRune(r)
				}
			}
			b.WriteRune(']')
			i = end
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// bracketEnd returns the index of the "]" closing the bracket expression
// opened at runes[open], or -1 when it is unterminated. A "]" right after
// "[" or "[!" belongs to the set.
func bracketEnd(runes []rune, open int) int {
	j := open + 1
	if j < len(runes) && runes[j] == '!' {
		j++
	}
	if j < len(runes) && runes[j] == ']' {
		j++
	}
	for j < len(runes) && runes[j] != ']' {
		j++
	}
	if j >= len(runes) {
		return -1
	}
	return j
}

// malformed reports whether pattern contains a bracket expression with a
// reversed character range such as "[z-a]".
func malformed(pattern string) bool {
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '[' {
			continue
		}

		end := bracketEnd(runes, i)
		if end < 0 {
			continue
		}

		body := runes[i+1 : end]
		if len(body) > 0 && body[0] == '!' {
			body = body[1:]
		}
		for k := 0; k+2 < len(body); k++ {
			if body[k+1] == '-' && body[k] > body[k+2] {
				return true
			}
		}
		i = end
	}
	return false
}
