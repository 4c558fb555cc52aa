package ui

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
)

// CanPrompt reports whether the UI may ask the user questions: it must not be
// in non-interactive mode and stdin must be a terminal.
func (u *UI) CanPrompt() bool {
	if u.nonInteractive {
		return false
	}
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// PromptYesNo prompts the user for a yes/no answer. When prompting is not
// possible the default answer is returned.
func (u *UI) PromptYesNo(prompt string, defaultYes bool) (bool, error) {
	if !u.CanPrompt() {
		return defaultYes, nil
	}

	var result bool
	p := &survey.Confirm{
		Message: prompt,
		Default: defaultYes,
	}

	err := survey.AskOne(p, &result)
	return result, err
}
