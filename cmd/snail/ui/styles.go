// Package ui provides the terminal styling and the interactive reduction
// stepper for the snail CLI.
package ui

import (
	"os"
	"strconv"
	"strings"

	"snailfish/internal/snailfish"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the current color scheme
type Theme struct {
	Primary lipgloss.Color
	Explode lipgloss.Color
	Split   lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	IsDark  bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#101F38"),
		Explode: lipgloss.Color("#e53935"),
		Split:   lipgloss.Color("#1565C0"),
		Muted:   lipgloss.Color("#6b7280"),
		Error:   lipgloss.Color("#b71c1c"),
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Primary: lipgloss.Color("#8BC34A"),
		Explode: lipgloss.Color("#ff8a65"),
		Split:   lipgloss.Color("#4db6ac"),
		Muted:   lipgloss.Color("#9ca3af"),
		Error:   lipgloss.Color("#e57373"),
		IsDark:  true,
	}
}

// DetectTheme picks a theme from the configured name, falling back to the
// terminal's COLORFGBG hint for "auto".
func DetectTheme(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	}
	// Format is usually "foreground;background"
	parts := strings.Split(os.Getenv("COLORFGBG"), ";")
	if len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	Header  lipgloss.Style
	Label   lipgloss.Style
	Explode lipgloss.Style
	Split   lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Status  lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,
		Header: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Explode: lipgloss.NewStyle().
			Foreground(theme.Explode).
			Bold(true),
		Split: lipgloss.NewStyle().
			Foreground(theme.Split).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),
		Status: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}

// DefaultStyles returns styles for the named theme (auto, light or dark).
func DefaultStyles(themeName string) Styles {
	return NewStyles(DetectTheme(themeName))
}

// ActionLabel renders a fixed-width label for a reduction step.
func (s Styles) ActionLabel(a snailfish.Action) string {
	text := a.String() + ":"
	text += strings.Repeat(" ", max(0, len("explode: ")-len(text)))
	switch a {
	case snailfish.ActionExplode:
		return s.Explode.Render(text)
	case snailfish.ActionSplit:
		return s.Split.Render(text)
	}
	return s.Muted.Render(text)
}
