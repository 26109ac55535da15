package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user cancels a prompt.
var ErrAborted = errors.New("aborted")

// Prompter asks the user interactive questions.
type Prompter interface {
	Select(title, description string, options []string) (string, error)
	Confirm(title, description string) (bool, error)
}

// HuhPrompter renders prompts with huh forms on the given terminal streams.
type HuhPrompter struct {
	in    io.Reader
	out   io.Writer
	theme *huh.Theme
}

// NewHuhPrompter creates a prompter reading keys from in and drawing on out.
func NewHuhPrompter(in io.Reader, out io.Writer) *HuhPrompter {
	return &HuhPrompter{in: in, out: out, theme: NewHuhTheme()}
}

// Select asks the user to pick one of options.
func (p *HuhPrompter) Select(title, description string, options []string) (string, error) {
	value := ""

	keyMap := huh.NewDefaultKeyMap()
	keyMap.Select.Filter.SetEnabled(false)
	keyMap.Select.Submit.SetKeys("enter", " ")
	keyMap.Select.Submit.SetHelp("space/enter", "select")

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(huh.NewOptions(options...)...).
				Value(&value),
		).
			Title(title).
			Description(description),
	).
		WithTheme(p.theme).
		WithShowHelp(true).
		WithKeyMap(keyMap).
		WithProgramOptions(tea.WithInput(p.in), tea.WithOutput(p.out))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return "", ErrAborted
		}
		return "", err
	}
	return value, nil
}

// Confirm asks a yes/no question. The default answer is no.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	confirmed := false

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&confirmed),
		),
	).
		WithTheme(p.theme).
		WithProgramOptions(tea.WithInput(p.in), tea.WithOutput(p.out))

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrAborted
		}
		return false, err
	}
	return confirmed, nil
}
