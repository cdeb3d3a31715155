package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// currentTheme holds the configured theme. Nil means pkgmetaTheme.
var currentTheme *huh.Theme

// Palette for the pkgmeta theme: Python blue with a yellow accent.
var (
	pkgBluePrimary   = lipgloss.AdaptiveColor{Light: "#306998", Dark: "#4b8bbe"}
	pkgYellowAccent  = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffd43b"}
	pkgTextStrong    = lipgloss.AdaptiveColor{Light: "#1f2937", Dark: "#f9fafb"}
	pkgTextMuted     = lipgloss.AdaptiveColor{Light: "#6b7280", Dark: "#9ca3af"}
	pkgBorderFocused = lipgloss.AdaptiveColor{Light: "#306998", Dark: "#4b8bbe"}
	pkgErrorRed      = lipgloss.AdaptiveColor{Light: "#b91c1c", Dark: "#f87171"}
	pkgButtonText    = lipgloss.AdaptiveColor{Light: "#ffffff", Dark: "#111827"}
)

// SetTheme sets the current theme by name.
// Empty or unknown names select the pkgmeta theme.
func SetTheme(name string) {
	currentTheme = GetTheme(name)
}

func currentThemeOrDefault() *huh.Theme {
	if currentTheme == nil {
		return pkgmetaTheme()
	}
	return currentTheme
}

// resetTheme resets the current theme to the default. Used by tests.
func resetTheme() {
	currentTheme = nil
}

func pkgmetaTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(pkgBorderFocused)
	t.Focused.Title = t.Focused.Title.Foreground(pkgBluePrimary).Bold(true)
	t.Focused.Description = t.Focused.Description.Foreground(pkgTextMuted)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(pkgErrorRed)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(pkgErrorRed)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(pkgYellowAccent)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(pkgYellowAccent)
	t.Focused.TextInput.Cursor = t.Focused.TextInput.Cursor.Foreground(pkgYellowAccent)
	t.Focused.TextInput.Prompt = t.Focused.TextInput.Prompt.Foreground(pkgBluePrimary)
	t.Focused.TextInput.Text = t.Focused.TextInput.Text.Foreground(pkgTextStrong)
	t.Focused.FocusedButton = t.Focused.FocusedButton.
		Foreground(pkgButtonText).
		Background(pkgBluePrimary).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = t.Focused.BlurredButton.
		Foreground(pkgTextMuted).
		Padding(0, 1)

	t.Blurred = t.Focused
	t.Blurred.Base = t.Focused.Base.BorderStyle(lipgloss.HiddenBorder())

	t.Help = help.Styles{
		Ellipsis:       lipgloss.NewStyle().Foreground(pkgTextMuted),
		ShortKey:       lipgloss.NewStyle().Foreground(pkgBluePrimary),
		ShortDesc:      lipgloss.NewStyle().Foreground(pkgTextMuted),
		ShortSeparator: lipgloss.NewStyle().Foreground(pkgTextMuted),
		FullKey:        lipgloss.NewStyle().Foreground(pkgBluePrimary),
		FullDesc:       lipgloss.NewStyle().Foreground(pkgTextMuted),
		FullSeparator:  lipgloss.NewStyle().Foreground(pkgTextMuted),
	}

	return t
}
