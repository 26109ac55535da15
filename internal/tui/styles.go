package tui

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Palette (ANSI 256 colours)
const (
	colorHeader  = lipgloss.Color("73")
	colorSuccess = lipgloss.Color("107")
	colorAccent  = lipgloss.Color("140")
	colorWarning = lipgloss.Color("179")
	colorError   = lipgloss.Color("167")
	colorSubtle  = lipgloss.Color("245")
)

// ClearLine erases the current terminal line and returns the cursor to column 0.
const ClearLine = "\x1b[1K\r"

var (
	// Header styling for section titles
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorHeader)

	// Success styling
	SuccessStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	// Accent styling for commands and highlighted values
	AccentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	// Warning styling
	WarningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	// Error styling
	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	// Bold text
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// Subtle text styling
	SubtleStyle = lipgloss.NewStyle().
			Foreground(colorSubtle)
)

// Bold renders s in bold.
func Bold(s string) string {
	return BoldStyle.Render(s)
}

// Command renders a shell command the way announcements show it.
func Command(s string) string {
	return AccentStyle.Bold(true).Render(s)
}

// BoldList renders names in bold, comma separated.
func BoldList(names []string) string {
	rendered := make([]string, len(names))
	for i, name := range names {
		rendered[i] = Bold(name)
	}
	return strings.Join(rendered, ", ")
}

// NewHuhTheme returns the prompt theme matching the palette.
func NewHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = t.Focused.Title.Foreground(colorHeader).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(colorSubtle)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(colorAccent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(colorAccent)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(colorAccent)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(colorError)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())

	return t
}
