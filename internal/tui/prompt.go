package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// Confirm shows a yes/no prompt.
func Confirm(title, description string) (bool, error) {
	var ok bool
	confirm := huh.NewConfirm().
		Title(title).
		Description(description).
		Value(&ok)
	if err := huh.NewForm(huh.NewGroup(confirm)).WithTheme(currentThemeOrDefault()).Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return ok, nil
}

// Field is one text entry of a Form.
type Field struct {
	Title       string
	Description string
	Required    bool
	Value       *string
}

// Form asks for every field in a single group. Values already set are shown
// as the initial input.
func Form(title string, fields []Field) error {
	inputs := make([]huh.Field, 0, len(fields)+1)
	inputs = append(inputs, huh.NewNote().Title(title))
	for _, f := range fields {
		input := huh.NewInput().
			Title(f.Title).
			Description(f.Description).
			Value(f.Value)
		if f.Required {
			name := f.Title
			input = input.Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("%s is required", strings.ToLower(name))
				}
				return nil
			})
		}
		inputs = append(inputs, input)
	}

	if err := huh.NewForm(huh.NewGroup(inputs...)).WithTheme(currentThemeOrDefault()).Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}
